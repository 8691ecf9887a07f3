package errs

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaError_Messages(t *testing.T) {
	tests := []struct {
		name string
		err  *SchemaError
		want string
	}{
		{
			name: "unknown node",
			err:  &SchemaError{Kind: UnknownNode, Source: "x", Target: "y", Node: "y"},
			want: `schema: edge x -> y references unknown table "y"`,
		},
		{
			name: "empty node",
			err:  &SchemaError{Kind: EmptyNode},
			want: "schema: table name must not be empty",
		},
		{
			name: "cycle",
			err:  &SchemaError{Kind: Cycle, Cycle: []string{"a", "b", "a"}},
			want: "schema: reference cycle detected: a -> b -> a",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestConfigError_Message(t *testing.T) {
	err := &ConfigError{Field: "iterations", Value: -1, Reason: "must not be negative"}
	assert.Equal(t, "config: invalid iterations -1: must not be negative", err.Error())
}

func TestRenderError_Unwrap(t *testing.T) {
	err := fmt.Errorf("drawing: %w", &RenderError{Op: "create", Path: "/nope/out.png", Err: os.ErrPermission})

	var renderErr *RenderError
	require.True(t, errors.As(err, &renderErr))
	assert.Equal(t, "create", renderErr.Op)
	assert.ErrorIs(t, err, os.ErrPermission)
	assert.Contains(t, err.Error(), "render: create /nope/out.png")
}

func TestRenderError_NoPath(t *testing.T) {
	err := &RenderError{Op: "display unavailable"}
	assert.Equal(t, "render: display unavailable", err.Error())
	assert.Nil(t, err.Unwrap())
}
