package snapshot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venjye/LocalCVTools/internal/core/operator"
	"github.com/venjye/LocalCVTools/internal/core/pipeline"
)

func snapRegistry(t *testing.T) *operator.Registry {
	t.Helper()
	reg := operator.NewRegistry()
	echo := func(ctx context.Context, inst *operator.Instance, inputs map[string]any) (map[string]any, error) {
		return map[string]any{"image": inputs["image"]}, nil
	}
	require.NoError(t, reg.Register(&operator.Descriptor{
		KindID: "input",
		Parameters: []operator.ParameterSpec{
			{Name: "width", Kind: operator.ParamInteger, Default: 64, Min: operator.Bound(1), Max: operator.Bound(4096)},
		},
		Outputs: operator.OutputPorts("image"),
		Process: func(ctx context.Context, inst *operator.Instance, inputs map[string]any) (map[string]any, error) {
			return map[string]any{"image": inst.IntParam("width")}, nil
		},
	}))
	require.NoError(t, reg.Register(&operator.Descriptor{
		KindID: "blur",
		Parameters: []operator.ParameterSpec{
			{Name: "kernel_size", Kind: operator.ParamInteger, Default: 5, Min: operator.Bound(1), Max: operator.Bound(99)},
		},
		Inputs:  operator.InputPorts("image"),
		Outputs: operator.OutputPorts("image"),
		Process: echo,
	}))
	return reg
}

func buildGraph(t *testing.T, reg *operator.Registry) (*pipeline.Graph, string, string) {
	t.Helper()
	g, err := pipeline.NewGraph("g1", "snap", reg)
	require.NoError(t, err)
	src, err := g.AddNode("input")
	require.NoError(t, err)
	blur, err := g.AddNode("blur")
	require.NoError(t, err)
	require.NoError(t, g.SetParameter(src, "width", 128))
	require.NoError(t, g.SetParameter(blur, "kernel_size", 9))
	require.NoError(t, g.Connect(src, "image", blur, "image"))
	return g, src, blur
}

func TestTake(t *testing.T) {
	reg := snapRegistry(t)
	g, src, blur := buildGraph(t, reg)

	snap := Take(g)
	assert.Equal(t, "g1", snap.GraphID)
	assert.Equal(t, "snap", snap.Name)
	require.Len(t, snap.Nodes, 2)
	require.Len(t, snap.Edges, 1)

	// ascending ID order
	assert.Equal(t, src, snap.Nodes[0].ID)
	assert.Equal(t, blur, snap.Nodes[1].ID)
	assert.Equal(t, 128, snap.Nodes[0].Params["width"])
	assert.Equal(t, 9, snap.Nodes[1].Params["kernel_size"])
	assert.Equal(t, src, snap.Edges[0].SourceID)
	assert.Equal(t, blur, snap.Edges[0].TargetID)
}

func TestTake_ParamsAreCopies(t *testing.T) {
	reg := snapRegistry(t)
	g, src, _ := buildGraph(t, reg)

	snap := Take(g)
	require.NoError(t, g.SetParameter(src, "width", 256))
	assert.Equal(t, 128, snap.Nodes[0].Params["width"])
}

func TestRestore(t *testing.T) {
	reg := snapRegistry(t)
	g, src, blur := buildGraph(t, reg)
	snap := Take(g)

	restored, idMap, err := Restore(snap, reg)
	require.NoError(t, err)

	assert.Equal(t, "g1", restored.ID)
	assert.Equal(t, 2, restored.NodeCount())
	assert.Equal(t, 1, restored.EdgeCount())

	// replay reassigns IDs; insertion order matches snapshot order, so the
	// mapping here is identity
	assert.Equal(t, src, idMap[src])
	assert.Equal(t, blur, idMap[blur])

	n, err := restored.Node(idMap[src])
	require.NoError(t, err)
	assert.Equal(t, 128, n.Params["width"])
}

func TestRestore_Invalid(t *testing.T) {
	reg := snapRegistry(t)

	t.Run("malformed node id", func(t *testing.T) {
		snap := &Snapshot{
			GraphID: "g1",
			Nodes:   []Node{{ID: "bad id!", KindID: "input"}},
		}
		_, _, err := Restore(snap, reg)
		assert.Error(t, err)
	})

	t.Run("malformed kind id", func(t *testing.T) {
		snap := &Snapshot{
			GraphID: "g1",
			Nodes:   []Node{{ID: "n000001", KindID: "Bad Kind!"}},
		}
		_, _, err := Restore(snap, reg)
		assert.Error(t, err)
	})

	t.Run("malformed port name", func(t *testing.T) {
		snap := &Snapshot{
			GraphID: "g1",
			Nodes: []Node{
				{ID: "n000001", KindID: "input"},
				{ID: "n000002", KindID: "blur"},
			},
			Edges: []Edge{{SourceID: "n000001", SourcePort: "image/raw", TargetID: "n000002", TargetPort: "image"}},
		}
		_, _, err := Restore(snap, reg)
		assert.Error(t, err)
	})

	t.Run("unknown kind", func(t *testing.T) {
		snap := &Snapshot{
			GraphID: "g1",
			Nodes:   []Node{{ID: "n000001", KindID: "ghost"}},
		}
		_, _, err := Restore(snap, reg)
		assert.ErrorIs(t, err, operator.ErrUnknownKind)
	})

	t.Run("edge referencing missing node", func(t *testing.T) {
		snap := &Snapshot{
			GraphID: "g1",
			Nodes:   []Node{{ID: "n000001", KindID: "input"}},
			Edges:   []Edge{{SourceID: "n000001", SourcePort: "image", TargetID: "n000099", TargetPort: "image"}},
		}
		_, _, err := Restore(snap, reg)
		assert.ErrorIs(t, err, pipeline.ErrUnknownNode)
	})

	t.Run("out of range parameter", func(t *testing.T) {
		snap := &Snapshot{
			GraphID: "g1",
			Nodes:   []Node{{ID: "n000001", KindID: "input", Params: map[string]any{"width": 100000}}},
		}
		_, _, err := Restore(snap, reg)
		assert.ErrorIs(t, err, operator.ErrOutOfRange)
	})

	t.Run("cycle in edge list", func(t *testing.T) {
		snap := &Snapshot{
			GraphID: "g1",
			Nodes: []Node{
				{ID: "n000001", KindID: "blur"},
				{ID: "n000002", KindID: "blur"},
			},
			Edges: []Edge{
				{SourceID: "n000001", SourcePort: "image", TargetID: "n000002", TargetPort: "image"},
				{SourceID: "n000002", SourcePort: "image", TargetID: "n000001", TargetPort: "image"},
			},
		}
		_, _, err := Restore(snap, reg)
		assert.ErrorIs(t, err, pipeline.ErrCycleDetected)
	})
}

func TestRoundTrip_UnsetParameter(t *testing.T) {
	// a text parameter without a default stays nil until assigned; taking
	// and restoring a graph that never assigns it must succeed
	reg := snapRegistry(t)
	require.NoError(t, reg.Register(&operator.Descriptor{
		KindID: "annotate",
		Parameters: []operator.ParameterSpec{
			{Name: "label", Kind: operator.ParamText},
		},
		Inputs:  operator.InputPorts("image"),
		Outputs: operator.OutputPorts("image"),
		Process: func(ctx context.Context, inst *operator.Instance, inputs map[string]any) (map[string]any, error) {
			return map[string]any{"image": inputs["image"]}, nil
		},
	}))

	g, err := pipeline.NewGraph("g1", "annotated", reg)
	require.NoError(t, err)
	id, err := g.AddNode("annotate")
	require.NoError(t, err)

	snap := Take(g)
	require.Len(t, snap.Nodes, 1)
	_, recorded := snap.Nodes[0].Params["label"]
	assert.False(t, recorded)

	restored, idMap, err := Restore(snap, reg)
	require.NoError(t, err)
	n, err := restored.Node(idMap[id])
	require.NoError(t, err)
	assert.Nil(t, n.Params["label"])

	t.Run("explicit null in params map", func(t *testing.T) {
		snap := &Snapshot{
			GraphID: "g1",
			Nodes:   []Node{{ID: "n000001", KindID: "annotate", Params: map[string]any{"label": nil}}},
		}
		_, _, err := Restore(snap, reg)
		assert.NoError(t, err)
	})
}

func TestRoundTrip_ExecutionEquivalent(t *testing.T) {
	reg := snapRegistry(t)
	g, _, _ := buildGraph(t, reg)

	restored, _, err := Restore(Take(g), reg)
	require.NoError(t, err)

	assert.Equal(t, g.NodeIDs(), restored.NodeIDs())
	require.Equal(t, len(g.Edges()), len(restored.Edges()))
	for i, e := range g.Edges() {
		assert.Equal(t, e.String(), restored.Edges()[i].String())
	}
}
