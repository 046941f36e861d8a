package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/movierec/core"
)

type appendNode struct {
	id  string
	err error
}

func (n *appendNode) Name() string { return "test.append" }
func (n *appendNode) Kind() Kind   { return KindPostProcess }

func (n *appendNode) Process(_ context.Context, _ *core.RecommendContext, items []*core.Item) ([]*core.Item, error) {
	if n.err != nil {
		return nil, n.err
	}
	return append(items, core.NewItem(n.id)), nil
}

func TestPipeline_Run(t *testing.T) {
	p := &Pipeline{Nodes: []Node{&appendNode{id: "a"}, &appendNode{id: "b"}}}
	items, err := p.Run(context.Background(), &core.RecommendContext{}, nil)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, "b", items[1].ID)
}

func TestPipeline_RunError(t *testing.T) {
	boom := errors.New("boom")
	p := &Pipeline{Nodes: []Node{&appendNode{id: "a"}, &appendNode{err: boom}}}
	_, err := p.Run(context.Background(), &core.RecommendContext{}, nil)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "test.append")
}

func TestPipeline_RunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := &Pipeline{Nodes: []Node{&appendNode{id: "a"}}}
	_, err := p.Run(ctx, &core.RecommendContext{}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

const yamlConfig = `
pipeline:
  name: test
  nodes:
    - type: test.append
      config:
        id: x
    - type: test.append
      config:
        id: y
`

func testFactory() *NodeFactory {
	f := NewNodeFactory()
	f.Register("test.append", func(cfg map[string]any) (Node, error) {
		id, _ := cfg["id"].(string)
		return &appendNode{id: id}, nil
	})
	return f
}

func TestConfig_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlConfig), 0o600))

	cfg, err := LoadFromYAML(path)
	require.NoError(t, err)
	assert.Equal(t, "test", cfg.Pipeline.Name)

	p, err := cfg.BuildPipeline(testFactory())
	require.NoError(t, err)
	items, err := p.Run(context.Background(), &core.RecommendContext{}, nil)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "y", items[1].ID)
}

func TestConfig_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"pipeline":{"name":"j","nodes":[{"type":"test.append","config":{"id":"z"}}]}}`), 0o600))

	cfg, err := LoadFromJSON(path)
	require.NoError(t, err)
	require.Len(t, cfg.Pipeline.Nodes, 1)
	assert.Equal(t, "z", cfg.Pipeline.Nodes[0].Config["id"])
}

func TestConfig_UnknownNode(t *testing.T) {
	cfg, err := ParseYAML([]byte("pipeline:\n  nodes:\n    - type: nope\n"))
	require.NoError(t, err)
	_, err = cfg.BuildPipeline(testFactory())
	assert.ErrorContains(t, err, "unknown node type")
}
