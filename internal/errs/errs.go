// Package errs defines the failure taxonomy shared by the graph, layout and
// render stages. Callers match on the concrete types with errors.As.
package errs

import (
	"fmt"
	"strings"
)

// SchemaKind classifies a SchemaError.
type SchemaKind string

const (
	// UnknownNode means an edge references a table that was never declared.
	UnknownNode SchemaKind = "unknown-node"
	// EmptyNode means a table name is the empty string.
	EmptyNode SchemaKind = "empty-node"
	// Cycle means the reference graph is not acyclic where an ordering was requested.
	Cycle SchemaKind = "cycle"
)

// SchemaError reports a malformed schema description.
type SchemaError struct {
	Kind   SchemaKind
	Source string   // edge source, for UnknownNode
	Target string   // edge target, for UnknownNode
	Node   string   // the offending table name
	Cycle  []string // the cycle path, for Cycle
}

func (e *SchemaError) Error() string {
	switch e.Kind {
	case UnknownNode:
		return fmt.Sprintf("schema: edge %s -> %s references unknown table %q", e.Source, e.Target, e.Node)
	case EmptyNode:
		return "schema: table name must not be empty"
	case Cycle:
		return fmt.Sprintf("schema: reference cycle detected: %s", strings.Join(e.Cycle, " -> "))
	default:
		return fmt.Sprintf("schema: %s", e.Kind)
	}
}

// ConfigError reports an invalid layout, style or application parameter.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// RenderError reports that the output surface could not be created or written.
type RenderError struct {
	Op   string
	Path string
	Err  error
}

func (e *RenderError) Error() string {
	msg := "render: " + e.Op
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
