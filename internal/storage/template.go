package storage

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"
)

// PathTemplateData holds the data for export path template execution
type PathTemplateData struct {
	Page  string
	Chart string
	Index string
}

// BuildPath executes the template and returns the relative path (without extension)
func BuildPath(templateStr string, data *PathTemplateData) (string, error) {
	tmpl, err := template.New("export").Option("missingkey=error").Parse(templateStr)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// BuildPathTemplateData sanitizes names for use as path segments.
func BuildPathTemplateData(page, chart string, index int) *PathTemplateData {
	return &PathTemplateData{
		Page:  Sanitize(page),
		Chart: Sanitize(chart),
		Index: fmt.Sprintf("%02d", index),
	}
}

// BuildFullPath joins dir with the rendered template and extension. The
// result never escapes dir.
func BuildFullPath(dir, templateStr string, data *PathTemplateData, ext string) (string, error) {
	relPath, err := BuildPath(templateStr, data)
	if err != nil {
		return "", err
	}

	rel := filepath.Clean(string(filepath.Separator) + relPath)
	fullPath := filepath.Join(dir, rel+ParseExtension(ext))
	return fullPath, nil
}

// ParseExtension parses an extension string, ensuring it starts with a dot
func ParseExtension(ext string) string {
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		return "." + ext
	}
	return ext
}
