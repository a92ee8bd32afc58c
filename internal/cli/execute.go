package cli

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/mwarren/staticforge"
	"github.com/mwarren/staticforge/internal/codegen"
)

// Result carries the semantic exit code plus what the build did.
type Result struct {
	ExitCode int
	Build    staticforge.Result
}

// Execute maps a resolved Invocation onto the generation pipeline.
//
// Exit code mapping: any scan, subprocess, or write failure is a build
// failure (1); invocation and config problems were already rejected during
// parsing (2, 3). Fingerprint-cache problems never surface here — the
// pipeline demotes them to regeneration.
func Execute(ctx context.Context, inv Invocation, log zerolog.Logger) (Result, error) {
	builder, err := newBuilder(inv.Config)
	if err != nil {
		return Result{ExitCode: ExitInvalidInvocation}, err
	}
	builder.WithLogger(log)

	build, err := builder.Build(ctx)
	if err != nil {
		return Result{ExitCode: ExitBuildFailure, Build: build}, err
	}
	return Result{ExitCode: ExitSuccess, Build: build}, nil
}

// newBuilder translates file/flag configuration into the fluent builder.
func newBuilder(cfg Config) (*staticforge.Builder, error) {
	var builder *staticforge.Builder

	if cfg.Npm.Dir != "" {
		npm := staticforge.Npm(cfg.Npm.Dir)
		if cfg.Npm.Executable != "" {
			npm.WithExecutable(cfg.Npm.Executable)
		}
		if cfg.Npm.Install {
			npm.Install()
		}
		for _, script := range cfg.Npm.Run {
			npm.Run(script)
		}
		if cfg.Npm.Target != "" {
			npm.WithTarget(cfg.Npm.Target)
		}
		if cfg.Npm.CleanNodeModules {
			npm.CleanNodeModules()
		}
		if cfg.Npm.EnvFile != "" {
			npm.WithEnvFile(cfg.Npm.EnvFile)
		}
		if cfg.Source != "" {
			builder = staticforge.ResourceDir(cfg.Source).WithNpm(npm)
		} else {
			builder = npm.ToResourceDir()
		}
	} else {
		builder = staticforge.ResourceDir(cfg.Source)
	}

	builder.WithOutput(cfg.Output).WithSorting(cfg.Sort).WithContentSniffing(cfg.Sniff)
	if cfg.Package != "" {
		builder.WithPackage(cfg.Package)
	}
	if cfg.Function != "" {
		builder.WithFunction(cfg.Function)
	}
	if cfg.ChangeDetection {
		if cfg.CacheDir == "" {
			return nil, errors.New("change detection requires a cache directory")
		}
		builder.WithChangeDetection(cfg.CacheDir)
	}
	if cfg.SplitCount > 0 {
		builder.WithSplit(codegen.NewSplitByCount(cfg.SplitCount))
	}
	return builder, nil
}
