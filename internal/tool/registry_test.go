package tool

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockTool echoes its parameters back as output
type mockTool struct {
	name     string
	required []string
	result   *Result
	err      error
	calls    []string
}

func (t *mockTool) Name() string {
	return t.name
}

func (t *mockTool) Description() string {
	return "mock tool " + t.name
}

func (t *mockTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"input": map[string]any{"type": "string"},
		},
		"required": t.required,
	}
}

func (t *mockTool) Execute(_ context.Context, params json.RawMessage) (*Result, error) {
	t.calls = append(t.calls, string(params))
	if t.err != nil || t.result != nil {
		return t.result, t.err
	}
	return &Result{Success: true, Output: string(params)}, nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&mockTool{name: "b"}))
	require.NoError(t, r.Register(&mockTool{name: "a"}))

	got, err := r.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "a", got.Name())

	_, err = r.Get("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestRegistry_RejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&mockTool{name: "a"}))

	err := r.Register(&mockTool{name: "a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
	assert.Len(t, r.List(), 1)
}

func TestRegistry_KeepsRegistrationOrder(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, r.Register(&mockTool{name: name}))
	}

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, r.Names())

	defs := r.GetToolDefinitions()
	require.Len(t, defs, 3)
	assert.Equal(t, "function", defs[0].Type)
	assert.Equal(t, "zeta", defs[0].Function.Name)
	assert.Equal(t, "mock tool zeta", defs[0].Function.Description)
	assert.Equal(t, "mid", defs[2].Function.Name)

	assert.Equal(t, "zeta - mock tool zeta\nalpha - mock tool alpha\nmid - mock tool mid", r.Describe())
}

func TestRegistry_NamesIsACopy(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&mockTool{name: "a"}))

	names := r.Names()
	names[0] = "changed"
	assert.Equal(t, []string{"a"}, r.Names())
}
