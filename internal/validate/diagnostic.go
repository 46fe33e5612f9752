// Package validate implements the engine's four validation components:
// the Schema Validator, the Reference & Constraint Validator, the Cycle
// Detector, and the Orphan Detector. Each collects its own Diagnostics
// and never throws across a component boundary — a policy grounded on
// the teacher's guard Result/Outcome shape, collapsed to a two-tier
// error/warning model.
package validate

import "fmt"

// Severity distinguishes failing diagnostics (exit non-zero) from
// advisory ones.
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}
	return "error"
}

// Code enumerates the fixed error/warning taxonomy.
type Code string

const (
	CodeParse                         Code = "parse"
	CodeNoSchema                      Code = "no-schema"
	CodeSchema                        Code = "schema"
	CodeIDMismatch                    Code = "id-mismatch"
	CodeMissingReference               Code = "missing-reference"
	CodeSelfReference                 Code = "self-reference"
	CodeScopeViolation                Code = "scope-violation"
	CodePropertyConflict              Code = "property-conflict"
	CodeSubobjectConflict             Code = "subobject-conflict"
	CodeCircularCategoryInheritance   Code = "circular-category-inheritance"
	CodeCircularModuleDependency      Code = "circular-module-dependency"
	CodeCircularPropertyParentProperty Code = "circular-property-parent_property"
	CodeMissingVersion                Code = "missing-version"
	CodeInvalidVersion                Code = "invalid-version"

	CodeOrphanedEntity          Code = "orphaned-entity"
	CodeVersionBumpInsufficient Code = "version-bump-insufficient"
	CodeOverrideDowngrade       Code = "override-downgrade"
)

// Diagnostic is one error or warning, attached to the file it concerns
// (empty for repository-level diagnostics such as missing-version).
type Diagnostic struct {
	Code     Code
	Severity Severity
	File     string
	Message  string
}

func (d Diagnostic) String() string {
	if d.File == "" {
		return fmt.Sprintf("[%s] %s: %s", d.Severity, d.Code, d.Message)
	}
	return fmt.Sprintf("[%s] %s (%s): %s", d.Severity, d.Code, d.File, d.Message)
}

func errf(file string, code Code, format string, args ...any) Diagnostic {
	return Diagnostic{Code: code, Severity: Error, File: file, Message: fmt.Sprintf(format, args...)}
}

func warnf(file string, code Code, format string, args ...any) Diagnostic {
	return Diagnostic{Code: code, Severity: Warning, File: file, Message: fmt.Sprintf(format, args...)}
}

// Result is the accumulated output of running every validator: the
// full diagnostic list in component order. Every validator runs on
// every invocation, so errors from one never mask another's.
type Result struct {
	Diagnostics []Diagnostic
}

// Errors returns only the failing diagnostics.
func (r Result) Errors() []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Severity == Error {
			out = append(out, d)
		}
	}
	return out
}

// Warnings returns only the advisory diagnostics.
func (r Result) Warnings() []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Severity == Warning {
			out = append(out, d)
		}
	}
	return out
}

// HasErrors reports whether the engine must exit non-zero.
func (r Result) HasErrors() bool {
	return len(r.Errors()) > 0
}
