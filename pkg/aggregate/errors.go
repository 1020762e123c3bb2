package aggregate

import (
	"fmt"

	"github.com/dd0wney/cluso-atlas/pkg/graph"
)

// EmptyAttributeError is returned when no node (or edge) carries a
// non-empty value for a requested attribute, so its kind cannot be decided.
type EmptyAttributeError struct {
	Attribute string
	Scope     Scope
}

func (e *EmptyAttributeError) Error() string {
	return fmt.Sprintf("aggregate: no %s carries a non-empty value for attribute %q", e.Scope.entity(), e.Attribute)
}

// MixedAttributeError is returned when an entity's value does not have the
// shape the attribute's profile was classified with, e.g. a label inside a
// continuous attribute.
type MixedAttributeError struct {
	Attribute string
	Scope     Scope
	Kind      Kind
	Entity    string
	Value     graph.Value
}

func (e *MixedAttributeError) Error() string {
	return fmt.Sprintf("aggregate: %s %q has value %s for %s attribute %q",
		e.Scope.entity(), e.Entity, e.Value, e.Kind, e.Attribute)
}
