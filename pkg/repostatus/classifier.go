package repostatus

import (
	"path/filepath"
	"strings"
)

// defaultLockableExtensions are the binary Unreal Engine asset extensions
// that require a lock to submit (spec.md's glossary: "a file whose
// extension is declared by the engine collaborator as requiring a lock").
var defaultLockableExtensions = map[string]bool{
	".uasset": true,
	".umap":   true,
	".upk":    true,
	".udk":    true,
}

// ExtensionClassifier is an AssetClassifier that treats a fixed set of file
// extensions as lockable, case-insensitively. It is the minimal, correct
// stand-in for the real "engine collaborator" spec.md §1 puts out of
// scope (there is no project-specific uproject/plugin inspection here).
type ExtensionClassifier struct {
	extensions map[string]bool
}

// NewExtensionClassifier builds a classifier from extras in addition to the
// default Unreal Engine asset extensions. Extras need not include the
// leading dot.
func NewExtensionClassifier(extras ...string) ExtensionClassifier {
	set := make(map[string]bool, len(defaultLockableExtensions)+len(extras))
	for ext := range defaultLockableExtensions {
		set[ext] = true
	}
	for _, e := range extras {
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		set[strings.ToLower(e)] = true
	}
	return ExtensionClassifier{extensions: set}
}

// IsLockable reports whether path's extension is in the classifier's set.
func (c ExtensionClassifier) IsLockable(path string) bool {
	return c.extensions[strings.ToLower(filepath.Ext(path))]
}
