package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mwarren/staticforge/internal/fsutil"
)

// Store persists fingerprints between build invocations.
//
// The store is an explicit, injectable handle rather than process-global
// state, so pipelines can be tested in isolation. Every store operation is
// non-fatal: any I/O failure is logged at debug level and degrades to "always
// regenerate", never to a suppressed rebuild.
type Store struct {
	// Dir is the cache directory. Created on first save.
	Dir string

	// Log receives debug diagnostics for cache misses and I/O failures.
	Log zerolog.Logger
}

// NewStore creates a fingerprint store rooted at dir.
func NewStore(dir string, log zerolog.Logger) *Store {
	return &Store{Dir: dir, Log: log}
}

// Load returns the fingerprint recorded for outputPath by a previous
// invocation. The second return is false on any miss, including unreadable
// or malformed cache files.
func (s *Store) Load(outputPath string) (Fingerprint, bool) {
	data, err := os.ReadFile(s.entryPath(outputPath))
	if err != nil {
		if !os.IsNotExist(err) {
			s.Log.Debug().Err(err).Str("output", outputPath).Msg("fingerprint cache unreadable, regenerating")
		}
		return "", false
	}
	fp := Fingerprint(strings.TrimSpace(string(data)))
	if fp == "" {
		return "", false
	}
	return fp, true
}

// Save records the fingerprint for outputPath. Failures are logged and
// swallowed: the next invocation simply regenerates.
func (s *Store) Save(outputPath string, fp Fingerprint) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		s.Log.Debug().Err(err).Str("dir", s.Dir).Msg("cannot create fingerprint cache dir")
		return
	}
	if err := fsutil.WriteFileAtomic(s.entryPath(outputPath), []byte(fp+"\n"), 0o644); err != nil {
		s.Log.Debug().Err(err).Str("output", outputPath).Msg("cannot persist fingerprint")
	}
}

// entryPath derives a stable cache file name from the output path, so
// multiple bundles can share one cache directory without colliding.
func (s *Store) entryPath(outputPath string) string {
	abs, err := filepath.Abs(outputPath)
	if err != nil {
		abs = outputPath
	}
	sum := sha256.Sum256([]byte(filepath.ToSlash(abs)))
	return filepath.Join(s.Dir, hex.EncodeToString(sum[:8])+".fingerprint")
}
