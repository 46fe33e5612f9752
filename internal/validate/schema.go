package validate

import (
	"path"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/kaptinlin/jsonschema"

	"github.com/labki-org/ontoguard/internal/index"
	"github.com/labki-org/ontoguard/internal/ontology"
	"github.com/labki-org/ontoguard/internal/store"
)

// SchemaValidator enforces per-type structural validity and
// id/filename consistency. Compiled schemas are cached, keyed by
// schema path, and reused across files — the one process-lifetime
// cache beyond the entity index itself.
type SchemaValidator struct {
	fs       store.FileStore
	root     string
	compiler *jsonschema.Compiler
	cache    map[string]*jsonschema.Schema
}

// NewSchemaValidator constructs a validator over fs rooted at root.
func NewSchemaValidator(fs store.FileStore, root string) *SchemaValidator {
	return &SchemaValidator{
		fs:       fs,
		root:     root,
		compiler: jsonschema.NewCompiler(),
		cache:    make(map[string]*jsonschema.Schema),
	}
}

// Validate runs the per-file check over every path given, independent
// of whether that path ended up indexed: a file the entity index
// skipped for failing to parse or declare an id must still reach this
// validator so it gets reported rather than silently disappearing.
// Callers pass the full discovered file list in a deterministic order.
func (v *SchemaValidator) Validate(paths []string) []Diagnostic {
	var diags []Diagnostic
	for _, p := range paths {
		diags = append(diags, v.validateFile(p)...)
	}
	return diags
}

func (v *SchemaValidator) validateFile(relPath string) []Diagnostic {
	schemaPath, found := v.resolveSchema(relPath)
	if !found {
		return []Diagnostic{errf(relPath, CodeNoSchema, "no _schema.json found for %s", relPath)}
	}

	schema, err := v.compiledSchema(schemaPath)
	if err != nil {
		return []Diagnostic{errf(relPath, CodeNoSchema, "schema %s failed to compile: %v", schemaPath, err)}
	}

	content, err := v.fs.Read(v.root, relPath)
	if err != nil {
		return []Diagnostic{errf(relPath, CodeParse, "could not read file: %v", err)}
	}

	var instance map[string]any
	if err := json.Unmarshal(content, &instance); err != nil {
		return []Diagnostic{errf(relPath, CodeParse, "invalid JSON: %v", err)}
	}

	var diags []Diagnostic

	result := schema.Validate(instance)
	if !result.IsValid() {
		list := result.ToList()
		for field, msg := range list.Errors {
			diags = append(diags, errf(relPath, CodeSchema, "%s: %s", field, msg))
		}
		for _, detail := range list.Details {
			for field, msg := range detail.Errors {
				diags = append(diags, errf(relPath, CodeSchema, "%s: %s", field, msg))
			}
		}
	}

	t, _ := typeOfPath(relPath)
	expected := index.ExpectedID(t, relPath)
	id, _ := instance["id"].(string)
	if id != expected {
		diags = append(diags, errf(relPath, CodeIDMismatch, "entity id %q does not match path-derived id %q", id, expected))
	}

	return diags
}

// resolveSchema walks upward from relPath's directory looking for
// "_schema.json". It stops at the entity's type directory, which is
// always the first path segment.
func (v *SchemaValidator) resolveSchema(relPath string) (string, bool) {
	t, ok := typeOfPath(relPath)
	if !ok {
		return "", false
	}
	dir := path.Dir(relPath)
	typeDir := string(t)
	for {
		candidate := path.Join(dir, "_schema.json")
		if v.fs.Exists(v.root, candidate) {
			return candidate, true
		}
		if dir == typeDir || dir == "." || dir == "/" {
			break
		}
		dir = path.Dir(dir)
	}
	return "", false
}

func (v *SchemaValidator) compiledSchema(schemaPath string) (*jsonschema.Schema, error) {
	if s, ok := v.cache[schemaPath]; ok {
		return s, nil
	}
	content, err := v.fs.Read(v.root, schemaPath)
	if err != nil {
		return nil, err
	}
	schema, err := v.compiler.Compile(content)
	if err != nil {
		return nil, err
	}
	v.cache[schemaPath] = schema
	return schema, nil
}

func typeOfPath(relPath string) (ontology.Type, bool) {
	seg := relPath
	if i := strings.IndexByte(relPath, '/'); i >= 0 {
		seg = relPath[:i]
	}
	for _, t := range ontology.Types {
		if string(t) == seg {
			return t, true
		}
	}
	return "", false
}
