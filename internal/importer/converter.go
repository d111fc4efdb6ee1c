package importer

import (
	"path/filepath"
	"strings"
)

// NameToID converts a level file name or display name to a stable
// snake_case identifier.
//
// Postcondition: result is lowercase, contains only [a-z0-9_], and is
// idempotent (NameToID(NameToID(s)) == NameToID(s)).
func NameToID(name string) string {
	s := strings.ToLower(name)
	s = strings.NewReplacer(" ", "_", "-", "_", ".", "_").Replace(s)
	var b strings.Builder
	for _, r := range s {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// OutputName returns the YAML file name for the level file at path.
//
// Postcondition: result is NameToID of the base name without extension,
// suffixed with ".yaml".
func OutputName(path string) string {
	base := filepath.Base(path)
	return NameToID(strings.TrimSuffix(base, filepath.Ext(base))) + ".yaml"
}
