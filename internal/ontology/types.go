// Package ontology defines the entity types stored in an ontology
// repository: categories, properties, subobjects, templates, modules,
// and bundles.
package ontology

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// Type identifies one of the six entity kinds. The string value doubles
// as the repository-layout directory name (Type + "/").
type Type string

const (
	TypeCategory  Type = "categories"
	TypeProperty  Type = "properties"
	TypeSubobject Type = "subobjects"
	TypeTemplate  Type = "templates"
	TypeModule    Type = "modules"
	TypeBundle    Type = "bundles"
)

// Types lists all six entity kinds in the fixed order used whenever a
// deterministic walk over all types is needed.
var Types = []Type{TypeCategory, TypeProperty, TypeSubobject, TypeTemplate, TypeModule, TypeBundle}

// Header fields are common to every entity and interpreted by the engine.
// Everything else in an entity's source JSON is preserved verbatim in
// Raw for artifact emission.
type Header struct {
	ID    string `json:"id"`
	Label string `json:"label,omitempty"`
}

// Entity is one parsed JSON file plus its file path and raw field map.
// Raw carries every field present in the source file, including ones the
// engine doesn't interpret, so artifact emission can reproduce them.
type Entity struct {
	Type Type
	Path string // path relative to the repository root
	Header
	Raw map[string]any
}

// Category-specific structural fields, extracted from Raw on demand via
// Entity.Category. Kept as a plain struct (not embedded in Entity) because most
// entity types have disjoint sets of interpreted fields.
type Category struct {
	Parents             []string `json:"parents,omitempty"`
	RequiredProperties  []string `json:"required_properties,omitempty"`
	OptionalProperties  []string `json:"optional_properties,omitempty"`
	RequiredSubobjects  []string `json:"required_subobjects,omitempty"`
	OptionalSubobjects  []string `json:"optional_subobjects,omitempty"`
}

type Property struct {
	Datatype           string   `json:"datatype"`
	Cardinality        string   `json:"cardinality,omitempty"`
	AllowedValues      []string `json:"allowed_values,omitempty"`
	ParentProperty     string   `json:"parent_property,omitempty"`
	HasDisplayTemplate string   `json:"has_display_template,omitempty"`
}

type Subobject struct {
	RequiredProperties []string `json:"required_properties,omitempty"`
	OptionalProperties []string `json:"optional_properties,omitempty"`
}

type Template struct{}

type Module struct {
	Version      string   `json:"version,omitempty"`
	Categories   []string `json:"categories,omitempty"`
	Properties   []string `json:"properties,omitempty"`
	Subobjects   []string `json:"subobjects,omitempty"`
	Templates    []string `json:"templates,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
}

// Contents returns the four content lists of a module together, keyed
// by entity type (categories, properties, subobjects, templates). The
// result is a map, so iterating it visits the types in no fixed order.
func (m Module) Contents() map[Type][]string {
	return map[Type][]string{
		TypeCategory:  m.Categories,
		TypeProperty:  m.Properties,
		TypeSubobject: m.Subobjects,
		TypeTemplate:  m.Templates,
	}
}

type Bundle struct {
	Version     string   `json:"version,omitempty"`
	Modules     []string `json:"modules,omitempty"`
	Description string   `json:"description,omitempty"`
}

// Category decodes the entity's category-specific fields from Raw.
func (e *Entity) Category() (Category, error) {
	var c Category
	err := decodeRaw(e.Raw, &c)
	return c, err
}

// Property decodes the entity's property-specific fields from Raw.
func (e *Entity) Property() (Property, error) {
	var p Property
	err := decodeRaw(e.Raw, &p)
	return p, err
}

// Subobject decodes the entity's subobject-specific fields from Raw.
func (e *Entity) Subobject() (Subobject, error) {
	var s Subobject
	err := decodeRaw(e.Raw, &s)
	return s, err
}

// Module decodes the entity's module-specific fields from Raw.
func (e *Entity) Module() (Module, error) {
	var m Module
	err := decodeRaw(e.Raw, &m)
	return m, err
}

// Bundle decodes the entity's bundle-specific fields from Raw.
func (e *Entity) Bundle() (Bundle, error) {
	var b Bundle
	err := decodeRaw(e.Raw, &b)
	return b, err
}

// decodeRaw round-trips a raw field map through JSON into a typed
// struct, mirroring the teacher's toProps/fromProps conversion idiom
// (marshal to bytes, unmarshal into T) rather than a field-by-field
// switch.
func decodeRaw[T any](raw map[string]any, out *T) error {
	b, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("marshaling raw fields: %w", err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decoding into %T: %w", out, err)
	}
	return nil
}

// Clean returns a copy of Raw with bookkeeping fields an artifact must
// never carry stripped (currently none beyond what's already absent —
// Raw holds only source-file fields — but this is the single seam
// artifact generation uses to strip them).
func (e *Entity) Clean() map[string]any {
	out := make(map[string]any, len(e.Raw))
	for k, v := range e.Raw {
		out[k] = v
	}
	return out
}
