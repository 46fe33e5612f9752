package cascade

import (
	"strings"

	"github.com/labki-org/ontoguard/internal/semver"
	"github.com/labki-org/ontoguard/internal/store"
	"github.com/labki-org/ontoguard/internal/validate"
)

// VersionFile is the fixed name of the repository-root version file.
const VersionFile = "VERSION"

// ReadOntologyVersion reads and parses the repository's VERSION file.
// A missing or malformed file is reported via the returned diagnostic
// (codes missing-version / invalid-version) rather than an error,
// matching the rest of the engine's "collect, don't throw" policy.
func ReadOntologyVersion(fs store.FileStore, root string) (semver.Version, *validate.Diagnostic) {
	if !fs.Exists(root, VersionFile) {
		d := validate.Diagnostic{Code: validate.CodeMissingVersion, Severity: validate.Error, Message: "VERSION file is missing"}
		return semver.Version{}, &d
	}
	content, err := fs.Read(root, VersionFile)
	if err != nil {
		d := validate.Diagnostic{Code: validate.CodeMissingVersion, Severity: validate.Error, Message: "VERSION file could not be read: " + err.Error()}
		return semver.Version{}, &d
	}
	v, err := semver.Parse(strings.TrimSpace(string(content)))
	if err != nil {
		d := validate.Diagnostic{Code: validate.CodeInvalidVersion, Severity: validate.Error, Message: err.Error()}
		return semver.Version{}, &d
	}
	return v, nil
}
