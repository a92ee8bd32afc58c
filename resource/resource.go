// Package resource is the runtime surface consumed by generated code.
//
// Generated files import this package only; nothing else in the module is
// needed at runtime. The entry point emitted by the generator returns a
// map[string]resource.Resource keyed by slash-normalized relative path.
package resource

// Resource is one embedded static file.
//
// Data holds the exact original bytes; no encoding transformation is applied
// during generation, so binary assets (images, fonts, wasm) round-trip
// byte-for-byte. Modified is the source file's mtime in unix seconds, useful
// for Last-Modified headers. MimeType is the classified content type.
type Resource struct {
	Data     []byte
	Modified int64
	MimeType string
}

// New constructs a Resource. Called from generated code.
func New(data []byte, modified int64, mimeType string) Resource {
	return Resource{Data: data, Modified: modified, MimeType: mimeType}
}
