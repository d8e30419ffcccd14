// Package main provides the LocalCVTools CLI application
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/venjye/LocalCVTools/internal/app/dto"
	"github.com/venjye/LocalCVTools/pkg/localcv"
	"github.com/venjye/LocalCVTools/pkg/prebuilt"
)

// Version information set during build
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("LocalCVTools %s (commit: %s, built: %s)\n", Version, Commit, BuildTime)
		return
	}
	if err := runDemo(); err != nil {
		slog.Error("demo failed", "error", err)
		os.Exit(1)
	}
}

// runDemo builds a small input -> blur -> edges pipeline and executes it
// twice to show fingerprint caching at work.
func runDemo() error {
	rt := localcv.NewRuntime()
	if err := prebuilt.RegisterAll(rt.Registry()); err != nil {
		return err
	}
	session, err := rt.NewSession("demo")
	if err != nil {
		return err
	}

	input, err := session.AddNode("image_input")
	if err != nil {
		return err
	}
	blur, err := session.AddNode("gaussian_blur")
	if err != nil {
		return err
	}
	edges, err := session.AddNode("canny")
	if err != nil {
		return err
	}
	if err := session.Connect(input, "image", blur, "image"); err != nil {
		return err
	}
	if err := session.Connect(blur, "image", edges, "image"); err != nil {
		return err
	}

	ctx := context.Background()
	for _, label := range []string{"first pass", "second pass (cached)"} {
		resp, err := session.Execute(ctx, &dto.ExecutionRequest{})
		if err != nil {
			return err
		}
		fmt.Printf("%s: status=%s nodes=%d hits=%d misses=%d duration=%s\n",
			label, resp.Status, len(resp.Nodes), resp.CacheHits, resp.CacheMisses, resp.Duration)
	}

	if err := session.SetParameter(blur, "kernel_size", 9); err != nil {
		return err
	}
	resp, err := session.Execute(ctx, &dto.ExecutionRequest{})
	if err != nil {
		return err
	}
	fmt.Printf("after kernel_size change: hits=%d misses=%d (input stays cached)\n",
		resp.CacheHits, resp.CacheMisses)
	return nil
}
