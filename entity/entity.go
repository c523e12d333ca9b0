// Package entity provides the annotated-entity capability shared by all
// neosig containers: identifying metadata, free-form annotations with a
// documented merge policy, and back references to enclosing container
// objects.
//
// The series core only ever resets parent links at construction; reading
// and maintaining them is left to whatever object graph embeds the
// containers.
package entity

import (
	"fmt"
	"maps"
	"strings"
)

// Entity holds the metadata every container carries: a name, a free-text
// description, the origin of the data (typically a file path or URL), and
// arbitrary key/value annotations.
type Entity struct {
	Name        string
	Description string
	Origin      string
	Annotations map[string]any

	singleParents map[string]any
	multiParents  map[string][]any
}

// Annotate stores a single annotation, allocating the map on first use.
func (e *Entity) Annotate(key string, value any) {
	if e.Annotations == nil {
		e.Annotations = make(map[string]any)
	}
	e.Annotations[key] = value
}

// CopyFrom replaces e's metadata with a copy of o's. Parent links are not
// copied; derived objects start unattached.
func (e *Entity) CopyFrom(o *Entity) {
	e.Name = o.Name
	e.Description = o.Description
	e.Origin = o.Origin
	e.Annotations = cloneAnnotations(o.Annotations)
}

// ResetParents declares the parent kinds this entity can link to and
// clears them all: single-valued kinds to nil, list-valued kinds to empty.
func (e *Entity) ResetParents(single, multi []string) {
	e.singleParents = make(map[string]any, len(single))
	for _, kind := range single {
		e.singleParents[kind] = nil
	}
	e.multiParents = make(map[string][]any, len(multi))
	for _, kind := range multi {
		e.multiParents[kind] = nil
	}
}

// Parent returns the single-valued back reference for the given kind.
// The second result reports whether the kind was declared.
func (e *Entity) Parent(kind string) (any, bool) {
	p, ok := e.singleParents[kind]

	return p, ok
}

// SetParent sets the single-valued back reference for a declared kind.
func (e *Entity) SetParent(kind string, parent any) error {
	if _, ok := e.singleParents[kind]; !ok {
		return fmt.Errorf("parent kind %q not declared", kind)
	}
	e.singleParents[kind] = parent

	return nil
}

// Parents returns the list-valued back references for the given kind.
func (e *Entity) Parents(kind string) ([]any, bool) {
	p, ok := e.multiParents[kind]

	return p, ok
}

// AddParent appends to the list-valued back references of a declared kind.
func (e *Entity) AddParent(kind string, parent any) error {
	if _, ok := e.multiParents[kind]; !ok {
		return fmt.Errorf("parent kind %q not declared", kind)
	}
	e.multiParents[kind] = append(e.multiParents[kind], parent)

	return nil
}

// MergeAnnotations combines two annotation maps into a new one.
//
// Conflict policy, applied per key present in both maps:
//   - equal values are kept as-is
//   - two nested maps are merged recursively with the same policy
//   - anything else degrades to the string forms joined with ";"
//
// The inputs are never modified. The policy is associative over the merged
// key set, which merge operations on containers rely on.
func MergeAnnotations(a, b map[string]any) map[string]any {
	if a == nil && b == nil {
		return nil
	}

	merged := make(map[string]any, len(a)+len(b))
	maps.Copy(merged, a)
	for key, bv := range b {
		av, exists := merged[key]
		if !exists {
			merged[key] = bv

			continue
		}
		merged[key] = mergeValues(av, bv)
	}

	return merged
}

func mergeValues(a, b any) any {
	if equalValue(a, b) {
		return a
	}
	am, aok := a.(map[string]any)
	bm, bok := b.(map[string]any)
	if aok && bok {
		return MergeAnnotations(am, bm)
	}

	return joinValues(a, b)
}

// equalValue compares annotation values, descending into nested maps.
func equalValue(a, b any) bool {
	am, aok := a.(map[string]any)
	bm, bok := b.(map[string]any)
	if aok && bok {
		if len(am) != len(bm) {
			return false
		}
		for k, av := range am {
			bv, ok := bm[k]
			if !ok || !equalValue(av, bv) {
				return false
			}
		}

		return true
	}

	return a == b
}

// joinValues concatenates the string forms of two values with ";",
// flattening values that are themselves prior joins.
func joinValues(a, b any) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprint(a))
	sb.WriteString(";")
	sb.WriteString(fmt.Sprint(b))

	return sb.String()
}

func cloneAnnotations(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}

	dst := make(map[string]any, len(src))
	for k, v := range src {
		if m, ok := v.(map[string]any); ok {
			dst[k] = cloneAnnotations(m)

			continue
		}
		dst[k] = v
	}

	return dst
}
