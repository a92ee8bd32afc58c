package codegen

import (
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwarren/staticforge/internal/scan"
)

func sampleResources() []scan.Resource {
	return []scan.Resource{
		{Path: "css/site.css", MimeType: "text/css", Modified: 1700000100, Content: []byte("body{}")},
		{Path: "img/pixel.png", MimeType: "image/png", Modified: 1700000200, Content: []byte{0x89, 0x50, 0x4e, 0x47, 0x00, 0xff}},
		{Path: "index.html", MimeType: "text/html; charset=utf-8", Modified: 1700000300, Content: []byte("<html>\n</html>\n")},
	}
}

// parseGenerated asserts the file is syntactically valid Go and returns its
// source text.
func parseGenerated(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	_, err = parser.ParseFile(token.NewFileSet(), path, data, parser.ParseComments)
	require.NoError(t, err, "generated source must parse:\n%s", data)
	return string(data)
}

func TestGenerate_SingleFileParsesAndEmbedsAllPaths(t *testing.T) {
	out := filepath.Join(t.TempDir(), "assets_gen.go")
	err := Generate(Options{OutputPath: out, Package: "assets", Function: "Generate"}, sampleResources())
	require.NoError(t, err)

	src := parseGenerated(t, out)
	assert.Contains(t, src, "func Generate() map[string]resource.Resource {")
	for _, res := range sampleResources() {
		assert.Contains(t, src, fmt.Sprintf("%q", res.Path))
		assert.Contains(t, src, fmt.Sprintf("%q", res.MimeType))
	}
	assert.Contains(t, src, "make(map[string]resource.Resource, 3)")
}

func TestGenerate_PreservesInputOrdering(t *testing.T) {
	out := filepath.Join(t.TempDir(), "assets_gen.go")
	resources := sampleResources()
	err := Generate(Options{OutputPath: out, Package: "assets", Function: "Generate"}, resources)
	require.NoError(t, err)

	src := parseGenerated(t, out)
	last := -1
	for _, res := range resources {
		idx := strings.Index(src, fmt.Sprintf("%q", res.Path))
		require.GreaterOrEqual(t, idx, 0)
		assert.Greater(t, idx, last, "inserts must follow the resource order")
		last = idx
	}
}

func TestGenerate_OverwritesPreviousOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "assets_gen.go")
	require.NoError(t, os.WriteFile(out, []byte("stale content"), 0o644))

	err := Generate(Options{OutputPath: out, Package: "assets", Function: "Generate"}, sampleResources())
	require.NoError(t, err)

	src := parseGenerated(t, out)
	assert.NotContains(t, src, "stale content")
}

func TestGenerate_InvalidIdentifiersRejectedBeforeAnyWrite(t *testing.T) {
	out := filepath.Join(t.TempDir(), "assets_gen.go")

	err := Generate(Options{OutputPath: out, Package: "my-assets", Function: "Generate"}, nil)
	assert.Error(t, err)
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "no output may be written for an invalid configuration")

	err = Generate(Options{OutputPath: out, Package: "assets", Function: "9lives"}, nil)
	assert.Error(t, err)
}

func TestGenerate_KeywordIdentifiersRejected(t *testing.T) {
	out := filepath.Join(t.TempDir(), "assets_gen.go")

	// "func" and "range" pass the character checks but can never compile.
	err := Generate(Options{OutputPath: out, Package: "func", Function: "Generate"}, nil)
	assert.Error(t, err)
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "no output may be written for an invalid configuration")

	err = Generate(Options{OutputPath: out, Package: "assets", Function: "range"}, nil)
	assert.Error(t, err)
}

func TestGenerate_EmptyResourceSet(t *testing.T) {
	out := filepath.Join(t.TempDir(), "assets_gen.go")
	err := Generate(Options{OutputPath: out, Package: "assets", Function: "Generate"}, nil)
	require.NoError(t, err)

	src := parseGenerated(t, out)
	assert.Contains(t, src, "make(map[string]resource.Resource, 0)")
}

func TestGenerate_SplitByCountEmitsSetFiles(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "assets_gen.go")
	err := Generate(Options{
		OutputPath: out,
		Package:    "assets",
		Function:   "Generate",
		Split:      NewSplitByCount(2),
	}, sampleResources())
	require.NoError(t, err)

	mainSrc := parseGenerated(t, out)
	set1 := parseGenerated(t, filepath.Join(dir, "assets_gen_set_001.go"))
	set2 := parseGenerated(t, filepath.Join(dir, "assets_gen_set_002.go"))

	assert.Contains(t, mainSrc, "appendResourceSet001(r)")
	assert.Contains(t, mainSrc, "appendResourceSet002(r)")
	assert.NotContains(t, mainSrc, "appendResourceSet003")

	// Three resources split by two: 2 + 1.
	assert.Equal(t, 2, strings.Count(set1, "resource.New("))
	assert.Equal(t, 1, strings.Count(set2, "resource.New("))
}

func TestGenerate_StaleSetFilesRemoved(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "assets_gen.go")
	opts := Options{OutputPath: out, Package: "assets", Function: "Generate", Split: NewSplitByCount(1)}

	require.NoError(t, Generate(opts, sampleResources())) // three set files

	opts.Split = NewSplitByCount(2)
	require.NoError(t, Generate(opts, sampleResources()[:2])) // one set file

	_, err := os.Stat(filepath.Join(dir, "assets_gen_set_001.go"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "assets_gen_set_002.go"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "assets_gen_set_003.go"))
	assert.True(t, os.IsNotExist(err))
}

func TestGenerate_StaleSetRemovalWithGlobMetacharacters(t *testing.T) {
	// Stale cleanup must treat the base name literally even when it
	// contains characters that are special to path globbing.
	dir := t.TempDir()
	out := filepath.Join(dir, "gen[v1].go")
	stale := filepath.Join(dir, "gen[v1]_set_002.go")
	require.NoError(t, os.WriteFile(stale, []byte("package assets\n"), 0o644))

	opts := Options{OutputPath: out, Package: "assets", Function: "Generate", Split: NewSplitByCount(2)}
	require.NoError(t, Generate(opts, sampleResources()[:2])) // one set file

	_, err := os.Stat(filepath.Join(dir, "gen[v1]_set_001.go"))
	assert.NoError(t, err)
	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
}

func TestPlannedFiles_MatchWrittenFiles(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		OutputPath: filepath.Join(dir, "assets_gen.go"),
		Package:    "assets",
		Function:   "Generate",
		Split:      NewSplitByCount(2),
	}
	resources := sampleResources()

	// The same strategy value serves both the plan and the generation.
	planned := PlannedFiles(opts, resources)
	require.NoError(t, Generate(opts, resources))

	require.Len(t, planned, 3)
	assert.Equal(t, opts.OutputPath, planned[len(planned)-1])
	for _, path := range planned {
		_, err := os.Stat(path)
		assert.NoError(t, err, "planned file %q must be written", path)
	}

	single := Options{OutputPath: opts.OutputPath, Package: "assets", Function: "Generate"}
	assert.Equal(t, []string{opts.OutputPath}, PlannedFiles(single, resources))
}

func TestSplitChunks_Strategies(t *testing.T) {
	resources := sampleResources()

	byCount := splitChunks(NewSplitByCount(2), resources)
	require.Len(t, byCount, 2)
	assert.Len(t, byCount[0], 2)
	assert.Len(t, byCount[1], 1)

	// Size threshold below each file's size forces one chunk per resource.
	bySize := splitChunks(NewSplitBySize(1), resources)
	assert.Len(t, bySize, len(resources))
}
