package report

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"vindecoder/internal/models"
	"vindecoder/pkg/log"

	"go.uber.org/zap"
)

// DefaultExtension is appended to export paths that have none.
const DefaultExtension = ".html"

// The layout is kept on a single line so output stays byte-stable.
var reportTmpl = template.Must(template.New("report").Parse(
	`<html><head><title>VIN Report</title></head><body>` +
		`<h1>Vehicle Information Report</h1>` +
		`<table border='1'>` +
		`<tr><th>Field</th><th>Value</th></tr>` +
		`{{range .}}<tr><td>{{.Variable}}</td><td>{{.DisplayValue}}</td></tr>{{end}}` +
		`</table>` +
		`</body></html>`))

// WriteError is returned when the report cannot be written to its destination.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write report to %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Render writes the HTML document for result to w. Variables and values are
// HTML-escaped; missing values are shown as N/A.
func Render(w io.Writer, result models.DecodeResult) error {
	return reportTmpl.Execute(w, result)
}

// RenderString is Render into a string.
func RenderString(result models.DecodeResult) string {
	var buf bytes.Buffer
	if err := Render(&buf, result); err != nil {
		// the template only reads strings, so this cannot fail
		panic(err)
	}
	return buf.String()
}

// ReportPath returns path with DefaultExtension added when it has no extension.
func ReportPath(path string) string {
	if filepath.Ext(path) == "" {
		return path + DefaultExtension
	}
	return path
}

// WriteFile renders result and writes it to path, returning the path actually
// written. The file is only created once rendering succeeded.
func WriteFile(path string, result models.DecodeResult) (string, error) {
	if path == "" {
		return "", &WriteError{Path: path, Err: fmt.Errorf("empty path")}
	}
	path = ReportPath(path)

	var buf bytes.Buffer
	if err := Render(&buf, result); err != nil {
		return "", &WriteError{Path: path, Err: err}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", &WriteError{Path: path, Err: err}
	}

	log.Info("report written", zap.String("path", path), zap.Int("rows", len(result)))
	return path, nil
}
