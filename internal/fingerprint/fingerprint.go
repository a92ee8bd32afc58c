// Package fingerprint implements change detection between build invocations.
//
// A fingerprint summarizes the generation configuration and every scanned
// resource. When the fingerprint matches the one persisted by the previous
// invocation, generation is skipped and the existing output is left
// untouched. Skipping is purely an optimization: a false "unchanged" verdict
// would be a correctness bug, so the fingerprint covers every per-resource
// field the generator embeds: path, MIME type, modification time and raw
// content.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"

	"github.com/mwarren/staticforge/internal/scan"
)

// Fingerprint is an opaque token summarizing one build's inputs.
type Fingerprint string

// String returns the hex representation.
func (f Fingerprint) String() string { return string(f) }

// Summary captures the configuration fields that affect generated output.
// Any change to these must produce a different fingerprint.
type Summary struct {
	// OutputPath is the generated file destination.
	OutputPath string

	// Package is the generated package name.
	Package string

	// Function is the generated entry point name.
	Function string

	// Sorted reports whether lexicographic ordering is enabled.
	Sorted bool

	// Split describes the set-splitting strategy ("" when splitting is off).
	Split string
}

// Compute derives a fingerprint from the configuration summary and the
// scanned resources.
//
// Resources are hashed in sorted path order regardless of the ordering the
// scanner produced, so the fingerprint stays stable even when the output
// sort toggle is disabled and the filesystem enumerates files differently
// between runs. All fields are length-prefixed to prevent ambiguity.
func Compute(sum Summary, resources []scan.Resource) Fingerprint {
	hasher := sha256.New()

	writeField := func(data []byte) {
		length := uint64(len(data))
		lengthBytes := []byte{
			byte(length >> 56),
			byte(length >> 48),
			byte(length >> 40),
			byte(length >> 32),
			byte(length >> 24),
			byte(length >> 16),
			byte(length >> 8),
			byte(length),
		}
		hasher.Write(lengthBytes)
		hasher.Write(data)
	}
	writeBool := func(b bool) {
		if b {
			writeField([]byte{1})
		} else {
			writeField([]byte{0})
		}
	}

	writeField([]byte(sum.OutputPath))
	writeField([]byte(sum.Package))
	writeField([]byte(sum.Function))
	writeBool(sum.Sorted)
	writeField([]byte(sum.Split))

	ordered := make([]scan.Resource, len(resources))
	copy(ordered, resources)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Path < ordered[j].Path })

	writeField([]byte{
		byte(len(ordered) >> 24),
		byte(len(ordered) >> 16),
		byte(len(ordered) >> 8),
		byte(len(ordered)),
	})
	for _, res := range ordered {
		writeField([]byte(res.Path))
		writeField([]byte(res.MimeType))
		writeField([]byte{
			byte(uint64(res.Modified) >> 56),
			byte(uint64(res.Modified) >> 48),
			byte(uint64(res.Modified) >> 40),
			byte(uint64(res.Modified) >> 32),
			byte(uint64(res.Modified) >> 24),
			byte(uint64(res.Modified) >> 16),
			byte(uint64(res.Modified) >> 8),
			byte(uint64(res.Modified)),
		})
		writeField(res.Content)
	}

	return Fingerprint(hex.EncodeToString(hasher.Sum(nil)))
}
