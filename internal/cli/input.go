package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

const (
	ExitSuccess           = 0
	ExitBuildFailure      = 1
	ExitInvalidInvocation = 2
	ExitConfigError       = 3
	ExitInternalError     = 4
)

// Invocation is the fully resolved description of one CLI run: config file
// values overlaid with explicitly set flags. Parsing is deterministic; the
// only ambient input is the optional config file lookup in the working
// directory.
type Invocation struct {
	Config  Config
	Verbose bool
}

// InvocationError carries the semantic exit code for a parse failure.
type InvocationError struct {
	ExitCode int
	Message  string
}

func (e *InvocationError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func invalidInvocationf(format string, args ...any) error {
	return &InvocationError{ExitCode: ExitInvalidInvocation, Message: fmt.Sprintf(format, args...)}
}

func configErrorf(format string, args ...any) error {
	return &InvocationError{ExitCode: ExitConfigError, Message: fmt.Sprintf(format, args...)}
}

// ParseInvocation parses CLI flags, loads the config file, and merges the
// two with flag-over-file precedence.
func ParseInvocation(args []string) (Invocation, error) {
	fs := flag.NewFlagSet("staticforge", flag.ContinueOnError)
	fs.SetOutput(io.Discard) // parsing errors are returned, not printed

	var (
		configPath      string
		source          string
		output          string
		packageName     string
		function        string
		sortEntries     bool
		sniff           bool
		changeDetection bool
		cacheDir        string
		splitCount      int
		verbose         bool
	)

	fs.StringVar(&configPath, "config", "", "Path to staticforge.yaml (optional).")
	fs.StringVar(&source, "source", "", "Resource directory to scan.")
	fs.StringVar(&output, "output", "", "Generated file path.")
	fs.StringVar(&packageName, "package", "", "Generated package name.")
	fs.StringVar(&function, "function", "", "Generated entry point name.")
	fs.BoolVar(&sortEntries, "sort", true, "Sort embedded entries lexicographically.")
	fs.BoolVar(&sniff, "sniff", false, "Sniff MIME types for unknown extensions.")
	fs.BoolVar(&changeDetection, "change-detection", false, "Skip generation when inputs are unchanged.")
	fs.StringVar(&cacheDir, "cache-dir", "", "Fingerprint cache directory.")
	fs.IntVar(&splitCount, "split-count", 0, "Split output into set files of N resources (0 = off).")
	fs.BoolVar(&verbose, "verbose", false, "Enable debug logging.")

	if err := fs.Parse(args); err != nil {
		return Invocation{}, invalidInvocationf("%v", err)
	}
	if fs.NArg() != 0 {
		return Invocation{}, invalidInvocationf("unexpected positional arguments: %q", strings.Join(fs.Args(), " "))
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		return Invocation{}, configErrorf("%v", err)
	}

	// Flags set explicitly on the command line win over file values.
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["source"] {
		cfg.Source = source
	}
	if set["output"] {
		cfg.Output = output
	}
	if set["package"] {
		cfg.Package = packageName
	}
	if set["function"] {
		cfg.Function = function
	}
	if set["sort"] {
		cfg.Sort = sortEntries
	}
	if set["sniff"] {
		cfg.Sniff = sniff
	}
	if set["change-detection"] {
		cfg.ChangeDetection = changeDetection
	}
	if set["cache-dir"] {
		cfg.CacheDir = cacheDir
	}
	if set["split-count"] {
		cfg.SplitCount = splitCount
	}

	if cfg.Source == "" && cfg.Npm.Dir == "" {
		return Invocation{}, invalidInvocationf("--source is required (or configure npm.dir)")
	}
	if cfg.Output == "" {
		return Invocation{}, invalidInvocationf("--output is required")
	}
	if cfg.SplitCount < 0 {
		return Invocation{}, invalidInvocationf("--split-count must be >= 0 (got %d)", cfg.SplitCount)
	}
	if cfg.ChangeDetection && cfg.CacheDir == "" {
		return Invocation{}, invalidInvocationf("change detection requires a cache directory")
	}

	return Invocation{Config: *cfg, Verbose: verbose}, nil
}
