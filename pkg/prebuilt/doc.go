// Package prebuilt provides the built-in operator descriptors: sources,
// blur filters, edge detectors, morphological transforms, and blending.
// The processing math runs on a small grayscale float image type; the
// engine itself never inspects payloads, so callers are free to register
// operators over richer image representations instead.
package prebuilt
