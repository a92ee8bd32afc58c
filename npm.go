package staticforge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/mwarren/staticforge/internal/execx"
)

// defaultTargetDir is where built front-end assets are expected relative to
// the package.json directory when no explicit target is configured.
const defaultTargetDir = "dist"

// NpmBuild runs JavaScript package-manager commands before resources are
// collected, so a front-end build can produce the assets that end up
// embedded.
//
//	err := staticforge.Npm("./web").
//		Install().
//		Run("build").
//		ToResourceDir().
//		WithOutput("./internal/assets/assets_gen.go").
//		Build(ctx)
//
// Commands run strictly in sequence in the package.json directory; any
// missing executable or non-zero exit aborts the whole generation, since
// assets from a failed build step cannot be trusted.
type NpmBuild struct {
	packageDir string
	executable string
	install    bool
	scripts    []string
	extra      [][]string
	targetDir  string
	cleanAfter bool
	envFile    string
}

// Npm creates a package-manager bridge rooted at the directory holding
// package.json.
func Npm(packageDir string) *NpmBuild {
	return &NpmBuild{
		packageDir: packageDir,
		executable: defaultExecutable(),
	}
}

// WithExecutable overrides the package-manager executable (yarn, pnpm, ...).
func (n *NpmBuild) WithExecutable(executable string) *NpmBuild {
	n.executable = executable
	return n
}

// Install queues the install command ahead of any run scripts.
func (n *NpmBuild) Install() *NpmBuild {
	n.install = true
	return n
}

// Run queues `<executable> run <script>`. May be called multiple times;
// scripts execute in the order they were added.
func (n *NpmBuild) Run(script string) *NpmBuild {
	n.scripts = append(n.scripts, script)
	return n
}

// WithCommand queues an arbitrary argument vector after the run scripts.
func (n *NpmBuild) WithCommand(argv ...string) *NpmBuild {
	n.extra = append(n.extra, argv)
	return n
}

// WithTarget sets the directory the build writes assets into. Relative paths
// are taken relative to the package directory. Default is "dist".
func (n *NpmBuild) WithTarget(dir string) *NpmBuild {
	n.targetDir = dir
	return n
}

// CleanNodeModules removes node_modules after the commands succeed, keeping
// dependency trees out of the scanned resource directory.
func (n *NpmBuild) CleanNodeModules() *NpmBuild {
	n.cleanAfter = true
	return n
}

// WithEnvFile loads KEY=value pairs from a dotenv file and appends them to
// the subprocess environment. A relative path is taken relative to the
// package directory.
func (n *NpmBuild) WithEnvFile(path string) *NpmBuild {
	n.envFile = path
	return n
}

// Target returns the resolved asset directory the bridge produces.
func (n *NpmBuild) Target() string {
	target := n.targetDir
	if target == "" {
		target = defaultTargetDir
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(n.packageDir, target)
	}
	return target
}

// ToResourceDir converts the bridge into a resource-dir builder scanning the
// build target. The bridge itself stays attached and runs first.
func (n *NpmBuild) ToResourceDir() *Builder {
	return ResourceDir(n.Target()).WithNpm(n)
}

// commands expands the configuration into the ordered argument vectors to
// execute.
func (n *NpmBuild) commands() ([]execx.Command, error) {
	env, err := n.environment()
	if err != nil {
		return nil, err
	}

	var cmds []execx.Command
	add := func(argv []string) {
		cmds = append(cmds, execx.Command{Argv: argv, Dir: n.packageDir, Env: env})
	}

	if n.install {
		add([]string{n.executable, "install"})
	}
	for _, script := range n.scripts {
		add([]string{n.executable, "run", script})
	}
	for _, argv := range n.extra {
		if len(argv) == 0 {
			return nil, fmt.Errorf("npm: empty custom command")
		}
		add(argv)
	}
	return cmds, nil
}

// environment builds the child environment: the host environment plus any
// dotenv entries, which win on conflict.
func (n *NpmBuild) environment() ([]string, error) {
	if n.envFile == "" {
		return nil, nil // inherit host environment untouched
	}
	path := n.envFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(n.packageDir, path)
	}
	extra, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("npm: read env file %q: %w", path, err)
	}
	env := os.Environ()
	for k, v := range extra {
		env = append(env, k+"="+v)
	}
	return env, nil
}

// execute runs all configured commands in sequence, then applies the
// node_modules cleanup if requested.
func (n *NpmBuild) execute(ctx context.Context, runner execx.CommandRunner, log zerolog.Logger) error {
	cmds, err := n.commands()
	if err != nil {
		return err
	}
	for _, cmd := range cmds {
		if err := runner.Run(ctx, cmd); err != nil {
			return fmt.Errorf("npm: %w", err)
		}
	}
	if n.cleanAfter {
		nodeModules := filepath.Join(n.packageDir, "node_modules")
		log.Debug().Str("dir", nodeModules).Msg("removing node_modules")
		if err := os.RemoveAll(nodeModules); err != nil {
			return fmt.Errorf("npm: clean node_modules: %w", err)
		}
	}
	return nil
}

func defaultExecutable() string {
	if runtime.GOOS == "windows" {
		return "npm.cmd"
	}
	return "npm"
}
