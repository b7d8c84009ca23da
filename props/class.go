package props

import (
	"errors"
	"fmt"
)

// ErrUnknownCustomType is returned when a class-typed property names a type
// absent from the schema table. This is never silently defaulted: a missing
// schema indicates caller misconfiguration.
var ErrUnknownCustomType = errors.New("props: unknown custom type")

// Class is an instance of an author-defined record type. Member values are
// scalars or nested Class values.
type Class struct {
	Name    string
	Members map[string]any
}

// Clone deep-copies the instance. Templates live in a Types schema and every
// use is cloned first, so per-instance mutation never leaks into the schema.
func (c Class) Clone() Class {
	members := make(map[string]any, len(c.Members))
	for k, v := range c.Members {
		if nested, ok := v.(Class); ok {
			members[k] = nested.Clone()
			continue
		}
		members[k] = v
	}
	return Class{Name: c.Name, Members: members}
}

// Types is the caller-supplied schema table of class templates, keyed by
// type name.
type Types map[string]Class

// Instantiate looks up a template by name and returns a fresh deep copy.
func (t Types) Instantiate(name string) (Class, error) {
	template, ok := t[name]
	if !ok {
		return Class{}, fmt.Errorf("%w: %q", ErrUnknownCustomType, name)
	}
	return template.Clone(), nil
}
