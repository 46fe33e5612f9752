// Package refs holds the static reference-field registry: which fields
// on which entity types point at which other entity type. It is
// deliberately plain data so both the reference validator and the
// cycle detector drive off the same table.
package refs

import "github.com/labki-org/ontoguard/internal/ontology"

// Shape describes whether a reference field holds one id or a list.
type Shape int

const (
	Scalar Shape = iota
	List
)

// Field describes one reference field on a source entity type.
type Field struct {
	Name   string
	Target ontology.Type
	Shape  Shape
}

// Table maps each source entity type to its reference fields, in a
// fixed declaration order.
var Table = map[ontology.Type][]Field{
	ontology.TypeCategory: {
		{Name: "parents", Target: ontology.TypeCategory, Shape: List},
		{Name: "required_properties", Target: ontology.TypeProperty, Shape: List},
		{Name: "optional_properties", Target: ontology.TypeProperty, Shape: List},
		{Name: "required_subobjects", Target: ontology.TypeSubobject, Shape: List},
		{Name: "optional_subobjects", Target: ontology.TypeSubobject, Shape: List},
	},
	ontology.TypeSubobject: {
		{Name: "required_properties", Target: ontology.TypeProperty, Shape: List},
		{Name: "optional_properties", Target: ontology.TypeProperty, Shape: List},
	},
	ontology.TypeProperty: {
		{Name: "parent_property", Target: ontology.TypeProperty, Shape: Scalar},
		{Name: "has_display_template", Target: ontology.TypeTemplate, Shape: Scalar},
	},
	ontology.TypeModule: {
		{Name: "categories", Target: ontology.TypeCategory, Shape: List},
		{Name: "properties", Target: ontology.TypeProperty, Shape: List},
		{Name: "subobjects", Target: ontology.TypeSubobject, Shape: List},
		{Name: "templates", Target: ontology.TypeTemplate, Shape: List},
		{Name: "dependencies", Target: ontology.TypeModule, Shape: List},
	},
	ontology.TypeBundle: {
		{Name: "modules", Target: ontology.TypeModule, Shape: List},
	},
}

// ContentFields are the module reference fields that constitute
// "contents" for ownership/orphan purposes — every module field except
// dependencies, which is a dependency edge, not a claim of ownership.
var ContentFields = []string{"categories", "properties", "subobjects", "templates"}

// Values extracts the referenced ids for a field from an entity's raw
// field map, handling both scalar and list shapes uniformly.
func (f Field) Values(raw map[string]any) []string {
	v, ok := raw[f.Name]
	if !ok || v == nil {
		return nil
	}
	switch f.Shape {
	case Scalar:
		if s, ok := v.(string); ok && s != "" {
			return []string{s}
		}
		return nil
	default:
		list, ok := v.([]any)
		if !ok {
			return nil
		}
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
}
