// Package staticforge generates Go source embedding a directory of static
// files (HTML/CSS/JS/images) into the compiled binary.
//
// It is build-time glue: an optional package-manager step produces front-end
// assets, a recursive scan collects them, each file is classified with a
// MIME type, and a generated file exposes the set as a runtime mapping from
// relative path to embedded resource. The whole pipeline is a single linear
// pass with one optional early exit when change detection finds nothing to
// regenerate.
package staticforge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mwarren/staticforge/internal/codegen"
	"github.com/mwarren/staticforge/internal/execx"
	"github.com/mwarren/staticforge/internal/fingerprint"
	"github.com/mwarren/staticforge/internal/mimedb"
	"github.com/mwarren/staticforge/internal/scan"
)

// DefaultFunction is the generated entry point name when none is configured.
const DefaultFunction = "Generate"

// Builder configures one generation run. Zero-config usage:
//
//	err := staticforge.ResourceDir("./web/dist").
//		WithOutput("./internal/assets/assets_gen.go").
//		Build(context.Background())
//
// The builder is consumed by Build and not reused across invocations.
type Builder struct {
	dir         string
	output      string
	packageName string
	function    string
	filter      func(relPath string) bool
	sortEntries bool
	sniff       bool
	cacheDir    string
	split       codegen.SplitStrategy
	npm         *NpmBuild
	runner      execx.CommandRunner
	log         zerolog.Logger
}

// Result reports what one Build invocation did.
type Result struct {
	// Generated is false when change detection skipped regeneration.
	Generated bool

	// Resources is the number of files embedded (or found, when skipped).
	Resources int

	// Fingerprint is the computed input fingerprint; empty when change
	// detection is disabled.
	Fingerprint string
}

// ResourceDir starts a builder scanning dir.
func ResourceDir(dir string) *Builder {
	return &Builder{
		dir:         dir,
		function:    DefaultFunction,
		sortEntries: true,
		log:         zerolog.Nop(),
	}
}

// WithOutput sets the generated file path. Required.
func (b *Builder) WithOutput(path string) *Builder {
	b.output = path
	return b
}

// WithPackage sets the generated package name. Default: the output file's
// directory name.
func (b *Builder) WithPackage(name string) *Builder {
	b.packageName = name
	return b
}

// WithFunction sets the generated entry point name. Default: Generate.
func (b *Builder) WithFunction(name string) *Builder {
	b.function = name
	return b
}

// WithFilter keeps only files whose normalized relative path passes fn.
func (b *Builder) WithFilter(fn func(relPath string) bool) *Builder {
	b.filter = fn
	return b
}

// WithSorting toggles lexicographic ordering of the embedded table.
// Enabled by default; disabling surfaces raw filesystem enumeration order,
// which is not guaranteed stable across runs or machines.
func (b *Builder) WithSorting(enabled bool) *Builder {
	b.sortEntries = enabled
	return b
}

// WithContentSniffing resolves MIME types for unknown extensions by
// inspecting file content instead of falling back to application/octet-stream.
func (b *Builder) WithContentSniffing(enabled bool) *Builder {
	b.sniff = enabled
	return b
}

// WithChangeDetection enables fingerprint-based skipping, persisting
// fingerprints under cacheDir. Cache I/O failures degrade to regeneration,
// never to a suppressed rebuild.
func (b *Builder) WithChangeDetection(cacheDir string) *Builder {
	b.cacheDir = cacheDir
	return b
}

// WithSplit breaks the embedded table across sibling set files.
func (b *Builder) WithSplit(strategy codegen.SplitStrategy) *Builder {
	b.split = strategy
	return b
}

// WithNpm attaches a package-manager bridge that runs before scanning.
func (b *Builder) WithNpm(npm *NpmBuild) *Builder {
	b.npm = npm
	return b
}

// WithLogger injects a logger. Default is a no-op logger.
func (b *Builder) WithLogger(log zerolog.Logger) *Builder {
	b.log = log
	return b
}

// WithCommandRunner substitutes the subprocess runner; tests use a fake that
// records argument vectors.
func (b *Builder) WithCommandRunner(runner execx.CommandRunner) *Builder {
	b.runner = runner
	return b
}

// Build runs the pipeline: package-manager bridge, scan, classify,
// change-detection gate, generate, persist fingerprint.
//
// Filesystem and subprocess errors abort immediately; there is no retry and
// no partial output. ctx cancellation is honored by subprocess execution.
func (b *Builder) Build(ctx context.Context) (Result, error) {
	if b.output == "" {
		return Result{}, fmt.Errorf("staticforge: output path is required")
	}
	pkg := b.packageName
	if pkg == "" {
		pkg = derivePackageName(b.output)
	}

	if b.npm != nil {
		runner := b.runner
		if runner == nil {
			runner = &execx.Runner{Log: b.log}
		}
		if err := b.npm.execute(ctx, runner, b.log); err != nil {
			return Result{}, err
		}
	}

	scanner := &scan.Scanner{
		Root:       b.dir,
		Filter:     b.filter,
		Sort:       b.sortEntries,
		Classifier: mimedb.Classifier{Sniff: b.sniff},
	}
	resources, err := scanner.Scan()
	if err != nil {
		return Result{}, err
	}
	b.log.Debug().Int("resources", len(resources)).Str("dir", b.dir).Msg("scan complete")

	result := Result{Resources: len(resources)}
	opts := codegen.Options{
		OutputPath: b.output,
		Package:    pkg,
		Function:   b.function,
		Split:      b.split,
	}

	var store *fingerprint.Store
	var fp fingerprint.Fingerprint
	if b.cacheDir != "" {
		store = fingerprint.NewStore(b.cacheDir, b.log)
		fp = fingerprint.Compute(fingerprint.Summary{
			OutputPath: b.output,
			Package:    pkg,
			Function:   b.function,
			Sorted:     b.sortEntries,
			Split:      splitSummary(b.split),
		}, resources)
		result.Fingerprint = fp.String()

		// A fingerprint match alone is not enough to skip: the generated
		// files themselves must still be on disk (a clean checkout can
		// remove them while the cache directory survives).
		if prev, ok := store.Load(b.output); ok && prev == fp {
			missing := firstMissing(codegen.PlannedFiles(opts, resources))
			if missing == "" {
				b.log.Info().Str("output", b.output).Msg("resources unchanged, skipping generation")
				return result, nil
			}
			b.log.Debug().Str("path", missing).Msg("generated file missing, regenerating")
		}
	}

	if err := codegen.Generate(opts, resources); err != nil {
		return Result{}, err
	}
	result.Generated = true
	b.log.Info().
		Int("resources", len(resources)).
		Str("output", b.output).
		Msg("generated embedded resources")

	if store != nil {
		store.Save(b.output, fp)
	}
	return result, nil
}

// derivePackageName falls back to the output file's directory name, cleaned
// into a valid identifier.
func derivePackageName(output string) string {
	base := filepath.Base(filepath.Dir(output))
	var sb strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
			sb.WriteRune(r)
		case r >= '0' && r <= '9':
			if sb.Len() > 0 {
				sb.WriteRune(r)
			}
		}
	}
	if sb.Len() == 0 {
		return "static"
	}
	return strings.ToLower(sb.String())
}

// firstMissing returns the first path that does not exist, or "" when all do.
func firstMissing(paths []string) string {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			return path
		}
	}
	return ""
}

// splitSummary folds the split strategy into the fingerprint summary so
// toggling or reparameterizing it invalidates the previous fingerprint.
func splitSummary(strategy codegen.SplitStrategy) string {
	if strategy == nil {
		return ""
	}
	return strategy.String()
}
