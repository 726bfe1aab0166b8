package paths

import (
	"strings"

	"github.com/arthur-debert/stager/pkg/errors"
)

// ValidatePath performs basic validation on a path.
// It checks for:
// - Empty paths
// - Null bytes
// - Excessive path length
func ValidatePath(path string) error {
	if path == "" {
		return errors.New(errors.ErrInvalidConfiguration, "path cannot be empty")
	}

	if strings.Contains(path, "\x00") {
		return errors.New(errors.ErrInvalidConfiguration, "path contains null bytes")
	}

	// Check path length (common filesystem limit)
	if len(path) > 4096 {
		return errors.New(errors.ErrInvalidConfiguration, "path exceeds maximum length")
	}

	return nil
}

// IsSingleComponent reports whether name is a bare filename: non-empty, no
// path separators and not one of the reserved names "." or "..".
func IsSingleComponent(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\`) {
		return false
	}
	return !strings.Contains(name, "\x00")
}

// IsStageRelative reports whether rel is a stage-relative path: not absolute
// and with no ".." component that could climb out of the stage.
func IsStageRelative(rel string) bool {
	if strings.HasPrefix(rel, "/") || strings.HasPrefix(rel, `\`) {
		return false
	}
	for _, part := range strings.FieldsFunc(rel, isSeparator) {
		if part == ".." {
			return false
		}
	}
	return true
}

func isSeparator(r rune) bool {
	return r == '/' || r == '\\'
}
