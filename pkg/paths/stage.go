package paths

import (
	"path"
	"strings"

	"github.com/arthur-debert/stager/pkg/errors"
)

// NormalizeStagePath converts a stage-absolute path into a stage-relative one.
//
// The input must start with "/". Empty and "." components are dropped and
// ".." removes the previously retained component. A ".." with nothing left to
// remove escapes the stage and fails with ErrInvalidConfiguration. The stage
// root itself normalizes to "".
func NormalizeStagePath(abs string) (string, error) {
	if !strings.HasPrefix(abs, "/") {
		return "", errors.Newf(errors.ErrInvalidConfiguration,
			"path is not absolute (within the stage): %s", abs).
			WithDetail("path", abs)
	}

	parts := make([]string, 0, strings.Count(abs, "/"))
	for _, part := range strings.Split(abs, "/") {
		switch part {
		case "", ".":
			continue
		case "..":
			if len(parts) == 0 {
				return "", errors.Newf(errors.ErrInvalidConfiguration,
					"path is outside of staging root: %q", abs).
					WithDetail("path", abs)
			}
			parts = parts[:len(parts)-1]
		default:
			parts = append(parts, part)
		}
	}

	return strings.Join(parts, "/"), nil
}

// FileName returns the final component of p. The second result is false when
// p has no filename: it is empty, the root, or ends in "." or "..".
func FileName(p string) (string, bool) {
	p = strings.ReplaceAll(p, `\`, "/")
	trimmed := strings.TrimRight(p, "/")
	if trimmed == "" {
		return "", false
	}
	base := trimmed[strings.LastIndex(trimmed, "/")+1:]
	if base == "." || base == ".." {
		return "", false
	}
	return base, true
}

// JoinStage joins stage-relative elements with forward slashes. Empty
// elements are skipped so that joining onto the stage root ("") keeps the
// result relative.
func JoinStage(elem ...string) string {
	parts := make([]string, 0, len(elem))
	for _, e := range elem {
		if e != "" {
			parts = append(parts, e)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return path.Join(parts...)
}

// RelativeTo returns the path of target as seen from dir, both stage-relative.
// It is the link content that makes a symlink placed in dir resolve to
// target.
func RelativeTo(dir, target string) string {
	from := splitStage(dir)
	to := splitStage(target)

	common := 0
	for common < len(from) && common < len(to) && from[common] == to[common] {
		common++
	}

	parts := make([]string, 0, len(from)-common+len(to)-common)
	for range from[common:] {
		parts = append(parts, "..")
	}
	parts = append(parts, to[common:]...)
	if len(parts) == 0 {
		return "."
	}
	return strings.Join(parts, "/")
}

func splitStage(p string) []string {
	var parts []string
	for _, part := range strings.Split(p, "/") {
		if part != "" && part != "." {
			parts = append(parts, part)
		}
	}
	return parts
}
