// Package mimedb classifies resources by file extension, with optional
// content sniffing for files the extension table does not cover.
package mimedb

import (
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// FallbackType is returned when neither the extension table nor content
// sniffing can classify a file.
const FallbackType = "application/octet-stream"

// byExtension maps lower-case file extensions (with dot) to MIME types.
// The table covers the asset types a front-end build typically emits.
var byExtension = map[string]string{
	".avif":        "image/avif",
	".css":         "text/css",
	".eot":         "application/vnd.ms-fontobject",
	".gif":         "image/gif",
	".gz":          "application/gzip",
	".htm":         "text/html; charset=utf-8",
	".html":        "text/html; charset=utf-8",
	".ico":         "image/x-icon",
	".jpeg":        "image/jpeg",
	".jpg":         "image/jpeg",
	".js":          "text/javascript; charset=utf-8",
	".json":        "application/json",
	".map":         "application/json",
	".md":          "text/markdown; charset=utf-8",
	".mjs":         "text/javascript; charset=utf-8",
	".mp3":         "audio/mpeg",
	".mp4":         "video/mp4",
	".otf":         "font/otf",
	".pdf":         "application/pdf",
	".png":         "image/png",
	".svg":         "image/svg+xml",
	".ttf":         "font/ttf",
	".txt":         "text/plain; charset=utf-8",
	".wasm":        "application/wasm",
	".webm":        "video/webm",
	".webmanifest": "application/manifest+json",
	".webp":        "image/webp",
	".woff":        "font/woff",
	".woff2":       "font/woff2",
	".xml":         "text/xml; charset=utf-8",
	".zip":         "application/zip",
}

// ByExtension looks up the MIME type for a file name by its extension.
// The lookup is case-insensitive. The second return reports whether the
// extension is known.
func ByExtension(name string) (string, bool) {
	ext := strings.ToLower(path.Ext(name))
	if ext == "" {
		return "", false
	}
	mt, ok := byExtension[ext]
	return mt, ok
}

// Classifier resolves MIME types for scanned resources.
//
// The zero value classifies strictly by extension and falls back to
// FallbackType, which keeps classification a pure function of the file name.
// With Sniff enabled, unknown extensions are resolved by inspecting the
// content before falling back.
type Classifier struct {
	// Sniff enables content-based detection for unknown extensions.
	Sniff bool
}

// Classify returns the MIME type for a file. It always returns a value.
func (c Classifier) Classify(name string, data []byte) string {
	if mt, ok := ByExtension(name); ok {
		return mt
	}
	if c.Sniff && len(data) > 0 {
		return mimetype.Detect(data).String()
	}
	return FallbackType
}
