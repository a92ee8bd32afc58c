// Package scan walks a resource directory and produces the resource set
// that code generation embeds.
package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/mwarren/staticforge/internal/mimedb"
)

// Resource is one discovered file, immutable once constructed.
type Resource struct {
	// Path is the slash-normalized path relative to the scan root.
	// Keys in the generated mapping use exactly this form.
	Path string

	// MimeType is the classified content type.
	MimeType string

	// Modified is the file mtime in unix seconds.
	Modified int64

	// Content is the raw file content, read once at scan time.
	Content []byte
}

// Scanner produces the complete resource set for one build invocation.
//
// Ordering: with Sort disabled the result follows raw directory enumeration
// order, which is host- and filesystem-dependent. With Sort enabled the
// result is strictly sorted by normalized relative path, making downstream
// generated output byte-for-byte reproducible across machines and runs.
//
// Error policy: a missing root or any unreadable entry aborts the whole scan.
// Embedding a silently incomplete resource set is worse than failing the
// build, so there is no partial-success path.
type Scanner struct {
	// Root is the directory to walk. Required.
	Root string

	// Filter, when set, keeps only files whose normalized relative path
	// returns true. Directories are always descended into.
	Filter func(relPath string) bool

	// Sort enables lexicographic ordering of the result.
	Sort bool

	// Classifier resolves MIME types for scanned files.
	Classifier mimedb.Classifier
}

// Scan walks Root recursively and returns every regular file as a Resource.
func (s *Scanner) Scan() ([]Resource, error) {
	if s.Root == "" {
		return nil, fmt.Errorf("scan: root directory is empty")
	}
	info, err := os.Stat(s.Root)
	if err != nil {
		return nil, fmt.Errorf("scan: stat root %q: %w", s.Root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan: root %q is not a directory", s.Root)
	}

	var resources []Resource
	seen := make(map[string]struct{})
	if err := s.walk(s.Root, "", seen, &resources); err != nil {
		return nil, err
	}

	if s.Sort {
		sort.Slice(resources, func(i, j int) bool {
			return resources[i].Path < resources[j].Path
		})
	}
	return resources, nil
}

// walk recurses into dir, accumulating resources. rel is the slash-normalized
// path of dir relative to the root ("" for the root itself).
//
// Enumeration deliberately uses File.ReadDir rather than os.ReadDir: the
// latter sorts entries, which would mask the Sort toggle. Raw enumeration
// order is surfaced as-is and sorted once at the end when requested.
func (s *Scanner) walk(dir, rel string, seen map[string]struct{}, out *[]Resource) error {
	f, err := os.Open(dir)
	if err != nil {
		return fmt.Errorf("scan: open %q: %w", dir, err)
	}
	entries, err := f.ReadDir(-1)
	closeErr := f.Close()
	if err != nil {
		return fmt.Errorf("scan: read dir %q: %w", dir, err)
	}
	if closeErr != nil {
		return fmt.Errorf("scan: close dir %q: %w", dir, closeErr)
	}

	for _, entry := range entries {
		entryRel := entry.Name()
		if rel != "" {
			entryRel = rel + "/" + entry.Name()
		}
		full := filepath.Join(dir, entry.Name())

		if entry.IsDir() {
			if err := s.walk(full, entryRel, seen, out); err != nil {
				return err
			}
			continue
		}
		if !entry.Type().IsRegular() {
			continue
		}
		if s.Filter != nil && !s.Filter(entryRel) {
			continue
		}
		if _, dup := seen[entryRel]; dup {
			continue
		}

		fi, err := entry.Info()
		if err != nil {
			return fmt.Errorf("scan: stat %q: %w", full, err)
		}
		content, err := os.ReadFile(full)
		if err != nil {
			return fmt.Errorf("scan: read %q: %w", full, err)
		}

		seen[entryRel] = struct{}{}
		*out = append(*out, Resource{
			Path:     entryRel,
			MimeType: s.Classifier.Classify(entry.Name(), content),
			Modified: fi.ModTime().Unix(),
			Content:  content,
		})
	}
	return nil
}
