package validation

import (
	"path"
	"path/filepath"
	"strings"
)

const (
	defaultImageStem = "image"
	defaultImageExt  = ".png"
	fallbackUpload   = "upload"
)

// ImageFilename splits an uploaded file name into a safe stem and its
// extension. Characters outside [A-Za-z0-9_-] in the stem become '_'.
// Example: ImageFilename("my logo (1).JPG") returns "my_logo__1_", ".JPG"
func ImageFilename(original string) (string, string) {
	if original == "" {
		original = fallbackUpload
	}

	base := path.Base(original)
	ext := path.Ext(base)
	if ext == base {
		// dotfiles such as ".env" have no extension
		ext = ""
	}
	stem := strings.TrimSuffix(base, ext)

	stem = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, stem)

	if stem == "" {
		stem = defaultImageStem
	}
	if ext == "" {
		ext = defaultImageExt
	}
	return stem, ext
}

// InsideDir reports whether target resolves to an entry strictly below dir.
func InsideDir(dir, target string) bool {
	rel, err := filepath.Rel(dir, target)
	if err != nil {
		return false
	}
	if rel == "." || rel == ".." || filepath.IsAbs(rel) {
		return false
	}
	return !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
