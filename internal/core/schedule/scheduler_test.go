package schedule

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venjye/LocalCVTools/internal/core/operator"
	"github.com/venjye/LocalCVTools/internal/core/pipeline"
)

func relay(ctx context.Context, inst *operator.Instance, inputs map[string]any) (map[string]any, error) {
	return map[string]any{"out": inputs["in"]}, nil
}

func buildGraph(t *testing.T) *pipeline.Graph {
	t.Helper()
	reg := operator.NewRegistry()
	require.NoError(t, reg.Register(&operator.Descriptor{
		KindID:  "emit",
		Outputs: operator.OutputPorts("out"),
		Process: func(ctx context.Context, inst *operator.Instance, inputs map[string]any) (map[string]any, error) {
			return map[string]any{"out": 0}, nil
		},
	}))
	require.NoError(t, reg.Register(&operator.Descriptor{
		KindID:  "relay",
		Inputs:  operator.InputPorts("in"),
		Outputs: operator.OutputPorts("out"),
		Process: relay,
	}))
	require.NoError(t, reg.Register(&operator.Descriptor{
		KindID:  "join",
		Inputs:  operator.InputPorts("a", "b"),
		Outputs: operator.OutputPorts("out"),
		Process: relay,
	}))
	g, err := pipeline.NewGraph("g1", "sched", reg)
	require.NoError(t, err)
	return g
}

func TestOrder_EmptyGraph(t *testing.T) {
	g := buildGraph(t)
	order, err := Order(g)
	require.NoError(t, err)
	assert.Empty(t, order)
}

func TestOrder_Chain(t *testing.T) {
	g := buildGraph(t)
	a, _ := g.AddNode("emit")
	b, _ := g.AddNode("relay")
	c, _ := g.AddNode("relay")
	require.NoError(t, g.Connect(a, "out", b, "in"))
	require.NoError(t, g.Connect(b, "out", c, "in"))

	order, err := Order(g)
	require.NoError(t, err)
	assert.Equal(t, []string{a, b, c}, order)
}

func TestOrder_TieBreakAscendingID(t *testing.T) {
	g := buildGraph(t)
	// three independent sources: all eligible at once
	a, _ := g.AddNode("emit")
	b, _ := g.AddNode("emit")
	c, _ := g.AddNode("emit")

	order, err := Order(g)
	require.NoError(t, err)
	assert.Equal(t, []string{a, b, c}, order)
}

func TestOrder_Diamond(t *testing.T) {
	g := buildGraph(t)
	src, _ := g.AddNode("emit")
	left, _ := g.AddNode("relay")
	right, _ := g.AddNode("relay")
	sink, _ := g.AddNode("join")
	require.NoError(t, g.Connect(src, "out", left, "in"))
	require.NoError(t, g.Connect(src, "out", right, "in"))
	require.NoError(t, g.Connect(left, "out", sink, "a"))
	require.NoError(t, g.Connect(right, "out", sink, "b"))

	order, err := Order(g)
	require.NoError(t, err)
	// both branches become eligible together; the smaller ID goes first
	assert.Equal(t, []string{src, left, right, sink}, order)
}

func TestOrder_Deterministic(t *testing.T) {
	g := buildGraph(t)
	src, _ := g.AddNode("emit")
	var relays []string
	for i := 0; i < 5; i++ {
		id, err := g.AddNode("relay")
		require.NoError(t, err)
		relays = append(relays, id)
		require.NoError(t, g.Connect(src, "out", id, "in"))
	}

	first, err := Order(g)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Order(g)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.Equal(t, append([]string{src}, relays...), first)
}
