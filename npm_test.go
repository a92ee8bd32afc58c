package staticforge

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwarren/staticforge/internal/execx"
)

func TestNpm_CommandSequence(t *testing.T) {
	dir := t.TempDir()
	npm := Npm(dir).
		WithExecutable("yarn").
		Install().
		Run("lint").
		Run("build").
		WithCommand("node", "scripts/post.js")

	fake := execx.NewRecordingRunner()
	err := npm.execute(context.Background(), fake, zerolog.Nop())
	require.NoError(t, err)

	require.Len(t, fake.Commands, 4)
	assert.Equal(t, []string{"yarn", "install"}, fake.Commands[0].Argv)
	assert.Equal(t, []string{"yarn", "run", "lint"}, fake.Commands[1].Argv)
	assert.Equal(t, []string{"yarn", "run", "build"}, fake.Commands[2].Argv)
	assert.Equal(t, []string{"node", "scripts/post.js"}, fake.Commands[3].Argv)
	for _, cmd := range fake.Commands {
		assert.Equal(t, dir, cmd.Dir)
	}
}

func TestNpm_FailedCommandStopsSequence(t *testing.T) {
	npm := Npm(t.TempDir()).Install().Run("build")

	fake := execx.NewRecordingRunner()
	fake.FailAt = 0
	err := npm.execute(context.Background(), fake, zerolog.Nop())

	require.Error(t, err)
	assert.Len(t, fake.Commands, 1, "no command may run after a failure")
}

func TestNpm_EnvFileAugmentsEnvironment(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("API_BASE=/v2\n"), 0o644))

	npm := Npm(dir).Run("build").WithEnvFile(".env")
	fake := execx.NewRecordingRunner()
	require.NoError(t, npm.execute(context.Background(), fake, zerolog.Nop()))

	require.Len(t, fake.Commands, 1)
	assert.Contains(t, fake.Commands[0].Env, "API_BASE=/v2")
}

func TestNpm_MissingEnvFileFails(t *testing.T) {
	npm := Npm(t.TempDir()).Run("build").WithEnvFile("absent.env")
	err := npm.execute(context.Background(), execx.NewRecordingRunner(), zerolog.Nop())
	assert.Error(t, err)
}

func TestNpm_NoEnvFileInheritsHostEnvironment(t *testing.T) {
	npm := Npm(t.TempDir()).Run("build")
	fake := execx.NewRecordingRunner()
	require.NoError(t, npm.execute(context.Background(), fake, zerolog.Nop()))

	require.Len(t, fake.Commands, 1)
	assert.Nil(t, fake.Commands[0].Env)
}

func TestNpm_TargetResolution(t *testing.T) {
	dir := t.TempDir()

	assert.Equal(t, filepath.Join(dir, "dist"), Npm(dir).Target())
	assert.Equal(t, filepath.Join(dir, "public"), Npm(dir).WithTarget("public").Target())

	abs := t.TempDir()
	assert.Equal(t, abs, Npm(dir).WithTarget(abs).Target())
}

func TestNpm_CleanNodeModules(t *testing.T) {
	dir := t.TempDir()
	nodeModules := filepath.Join(dir, "node_modules", "leftpad")
	require.NoError(t, os.MkdirAll(nodeModules, 0o755))

	npm := Npm(dir).Run("build").CleanNodeModules()
	require.NoError(t, npm.execute(context.Background(), execx.NewRecordingRunner(), zerolog.Nop()))

	_, err := os.Stat(filepath.Join(dir, "node_modules"))
	assert.True(t, os.IsNotExist(err))
}

func TestNpm_ToResourceDirScansTarget(t *testing.T) {
	dir := t.TempDir()
	builder := Npm(dir).Install().ToResourceDir()

	assert.Equal(t, filepath.Join(dir, "dist"), builder.dir)
	assert.NotNil(t, builder.npm)
}

func TestNpm_EmptyCustomCommandRejected(t *testing.T) {
	npm := Npm(t.TempDir())
	npm.extra = append(npm.extra, nil)
	err := npm.execute(context.Background(), execx.NewRecordingRunner(), zerolog.Nop())
	assert.Error(t, err)
}
