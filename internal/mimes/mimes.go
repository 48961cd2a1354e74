package mimes

import (
	"path"
	"strings"
)

const (
	TextMarkdown    = "text/markdown; charset=utf-8"
	TextPlain       = "text/plain; charset=utf-8"
	ApplicationJSON = "application/json"
	ApplicationZIP  = "application/zip"
	ApplicationPDF  = "application/pdf"
)

// FromFilename returns the content type a stored file should be served
// with, or "" when the extension is not one we serve.
func FromFilename(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".md", ".markdown":
		return TextMarkdown
	case ".txt":
		return TextPlain
	case ".json":
		return ApplicationJSON
	case ".zip":
		return ApplicationZIP
	case ".pdf":
		return ApplicationPDF
	default:
		return ""
	}
}
