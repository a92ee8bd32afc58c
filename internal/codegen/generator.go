// Package codegen serializes a scanned resource set into Go source that
// embeds every file's path, MIME type and raw bytes into the compiled
// binary.
//
// The emitted entry point builds a fresh map[string]resource.Resource on
// each call from the embedded static data; the embedded table itself is the
// cache, so no additional runtime caching layer exists.
package codegen

import (
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"

	"github.com/mwarren/staticforge/internal/fsutil"
	"github.com/mwarren/staticforge/internal/scan"
)

// Options describes one generation target.
type Options struct {
	// OutputPath is the generated file destination. Overwritten atomically.
	OutputPath string

	// Package is the package clause of the generated file(s).
	Package string

	// Function is the name of the generated entry point.
	Function string

	// Split, when set, breaks the embedded table into sibling set files.
	// Nil emits a single self-contained file.
	Split SplitStrategy
}

// Generate writes the generated source for resources according to opts.
//
// Every write goes through a temp-file-and-rename, so a failed run leaves
// any previous generated output intact rather than truncated.
func Generate(opts Options, resources []scan.Resource) error {
	if err := validateIdent("package name", opts.Package); err != nil {
		return err
	}
	if err := validateIdent("function name", opts.Function); err != nil {
		return err
	}
	if opts.OutputPath == "" {
		return fmt.Errorf("codegen: output path is empty")
	}

	if opts.Split == nil {
		return generateSingle(opts, resources)
	}
	return generateSets(opts, resources)
}

// generateSingle emits the whole table into one file.
func generateSingle(opts Options, resources []scan.Resource) error {
	var b strings.Builder
	emitFileHeader(&b, opts.Package)

	fmt.Fprintf(&b, "// %s returns the embedded static resources keyed by relative path.\n", opts.Function)
	fmt.Fprintf(&b, "func %s() map[string]resource.Resource {\n", opts.Function)
	emitMapHeader(&b, len(resources))
	for _, res := range resources {
		emitResourceInsert(&b, res)
	}
	emitMapReturn(&b)

	if err := fsutil.WriteFileAtomic(opts.OutputPath, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("codegen: write %q: %w", opts.OutputPath, err)
	}
	return nil
}

// generateSets splits the inserts across numbered sibling files, each holding
// one append function, and emits a main file that calls them in order.
//
// Set files are written before the main file so a mid-run failure never
// leaves a main file referencing set functions that do not exist yet.
func generateSets(opts Options, resources []scan.Resource) error {
	chunks := splitChunks(opts.Split, resources)

	for i, chunk := range chunks {
		var b strings.Builder
		emitFileHeader(&b, opts.Package)
		fmt.Fprintf(&b, "func %s(%s map[string]resource.Resource) {\n", setFuncName(i+1), mapVar)
		for _, res := range chunk {
			emitResourceInsert(&b, res)
		}
		b.WriteString("}\n")

		path := setFilePath(opts.OutputPath, i+1)
		if err := fsutil.WriteFileAtomic(path, []byte(b.String()), 0o644); err != nil {
			return fmt.Errorf("codegen: write %q: %w", path, err)
		}
	}

	var b strings.Builder
	emitFileHeader(&b, opts.Package)
	fmt.Fprintf(&b, "// %s returns the embedded static resources keyed by relative path.\n", opts.Function)
	fmt.Fprintf(&b, "func %s() map[string]resource.Resource {\n", opts.Function)
	emitMapHeader(&b, len(resources))
	for i := range chunks {
		fmt.Fprintf(&b, "\t%s(%s)\n", setFuncName(i+1), mapVar)
	}
	emitMapReturn(&b)

	if err := fsutil.WriteFileAtomic(opts.OutputPath, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("codegen: write %q: %w", opts.OutputPath, err)
	}

	return removeStaleSets(opts.OutputPath, len(chunks))
}

// PlannedFiles returns the files Generate would write for opts and
// resources, set files first and the main file last. Change detection uses
// it to verify a cached build's output is still on disk before skipping.
func PlannedFiles(opts Options, resources []scan.Resource) []string {
	if opts.Split == nil {
		return []string{opts.OutputPath}
	}
	chunks := splitChunks(opts.Split, resources)
	paths := make([]string, 0, len(chunks)+1)
	for i := range chunks {
		paths = append(paths, setFilePath(opts.OutputPath, i+1))
	}
	return append(paths, opts.OutputPath)
}

// splitChunks partitions resources according to the strategy. A full set
// triggers a new chunk before the next resource is placed, mirroring the
// register/should-split/reset protocol of SplitStrategy. The initial Reset
// makes the partition repeatable when the same strategy value is passed to
// both PlannedFiles and Generate.
func splitChunks(strategy SplitStrategy, resources []scan.Resource) [][]scan.Resource {
	strategy.Reset()
	chunks := [][]scan.Resource{{}}
	for _, res := range resources {
		if strategy.ShouldSplit() {
			strategy.Reset()
			chunks = append(chunks, []scan.Resource{})
		}
		strategy.Register(res)
		last := len(chunks) - 1
		chunks[last] = append(chunks[last], res)
	}
	return chunks
}

// removeStaleSets deletes set files left over from a previous run that
// produced more chunks than this one. Stale files still compile (their
// append functions just go unreferenced) but would keep dead resource data
// embedded in the consumer's binary.
func removeStaleSets(outputPath string, count int) error {
	// Enumerate the directory instead of globbing: a base name containing
	// glob metacharacters (gen[v1].go) must match itself literally.
	dir := filepath.Dir(outputPath)
	prefix := strings.TrimSuffix(filepath.Base(outputPath), ".go") + "_set_"
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("codegen: list stale sets in %q: %w", dir, err)
	}
	current := make(map[string]struct{}, count)
	for i := 1; i <= count; i++ {
		current[filepath.Base(setFilePath(outputPath, i))] = struct{}{}
	}
	var errs error
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".go") {
			continue
		}
		if _, keep := current[name]; keep {
			continue
		}
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("codegen: remove stale set %q: %w", name, err))
		}
	}
	return errs
}

func setFuncName(index int) string {
	return fmt.Sprintf("appendResourceSet%03d", index)
}

func setFilePath(outputPath string, index int) string {
	return fmt.Sprintf("%s_set_%03d.go", strings.TrimSuffix(outputPath, ".go"), index)
}

// validateIdent rejects names that would not compile as Go identifiers.
func validateIdent(what, name string) error {
	if name == "" {
		return fmt.Errorf("codegen: %s is empty", what)
	}
	if token.IsKeyword(name) {
		return fmt.Errorf("codegen: %s %q is a reserved word", what, name)
	}
	for i, r := range name {
		switch {
		case r == '_',
			r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return fmt.Errorf("codegen: %s %q starts with a digit", what, name)
			}
		default:
			return fmt.Errorf("codegen: %s %q contains invalid character %q", what, name, r)
		}
	}
	return nil
}
