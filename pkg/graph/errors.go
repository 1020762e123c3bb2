package graph

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrNodeNotFound = errors.New("node not found")
	ErrEdgeNotFound = errors.New("edge not found")
	ErrEmptyGraph   = errors.New("graph has no nodes")
)

// GraphError provides structured error information for graph operations.
type GraphError struct {
	Op     string // Operation that failed (e.g., "SetNodeAttr")
	Entity string // "node" or "edge"
	Key    string // Node name or "source->target"
	Cause  error
}

// Error implements the error interface.
func (e *GraphError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s %s %q: %v", e.Op, e.Entity, e.Key, e.Cause)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *GraphError) Unwrap() error {
	return e.Cause
}

func nodeError(op, name string) error {
	return &GraphError{Op: op, Entity: "node", Key: name, Cause: ErrNodeNotFound}
}

func edgeError(op, source, target string) error {
	return &GraphError{Op: op, Entity: "edge", Key: source + "->" + target, Cause: ErrEdgeNotFound}
}
