package gcode

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Extensions accepted by the editor and by the converter. Matching is
// case-insensitive on the extension only.
var (
	EditorExtensions = []string{".gcode", ".nc", ".txt"}
	VectorExtensions = []string{".svg", ".dxf"}
)

func hasExtension(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

func IsEditorFile(name string) bool {
	return hasExtension(name, EditorExtensions)
}

func IsVectorFile(name string) bool {
	return hasExtension(name, VectorExtensions)
}

// VectorType returns the converter's file_type value for a vector file.
func VectorType(name string) (string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".svg":
		return "svg", nil
	case ".dxf":
		return "dxf", nil
	}
	return "", fmt.Errorf("unsupported vector format: %s (need .svg or .dxf)", filepath.Base(name))
}

// LineCount is the number of newline-separated segments of text. Empty
// text still occupies one editor line.
func LineCount(text string) int {
	return strings.Count(text, "\n") + 1
}

// IsBlank reports whether text has no sendable content.
func IsBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}

// DeriveName maps a converted vector file name to its G-code name:
// the extension is replaced by .gcode, or appended when there is none.
func DeriveName(vectorName string) string {
	base := filepath.Base(vectorName)
	if ext := filepath.Ext(base); ext != "" {
		return base[:len(base)-len(ext)] + ".gcode"
	}
	return base + ".gcode"
}

// PackageName maps a G-code file name to the 3MF package name: a
// trailing .gcode is replaced by .3mf, anything else gets .3mf appended.
func PackageName(name string) string {
	if strings.HasSuffix(strings.ToLower(name), ".gcode") {
		return name[:len(name)-len(".gcode")] + ".3mf"
	}
	return name + ".3mf"
}
