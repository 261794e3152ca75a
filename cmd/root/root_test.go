package root_test

import (
	"os"
	"path/filepath"
	"testing"

	"fjacquet/trendfit/cmd/root"
	"fjacquet/trendfit/internal/store"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test in an empty directory with no user config and restores the
// package globals afterwards.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	// t.Chdir requires Go 1.24; equivalent chdir-and-restore for the local toolchain.
	prevDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prevDir) })

	t.Cleanup(func() {
		if root.AppContainer != nil {
			_ = root.AppContainer.Close()
		}
		root.AppContainer = nil
		root.AppConfig = nil
		root.SharedFlags = root.CommonFlags{}
	})
	return dir
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "trendfit", root.Cmd.Use)
	assert.Contains(t, root.Cmd.Short, "fit and select trend models")
	assert.Contains(t, root.Cmd.Long, "trendfit is a CLI tool")
	assert.NotNil(t, root.Cmd.Run)
	assert.NotNil(t, root.Cmd.PersistentPreRunE)
	assert.NotNil(t, root.Cmd.PersistentPostRun)
}

func TestRootCommand_Flags(t *testing.T) {
	root.Init()
	root.Init()

	configFlag := root.Cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "c", configFlag.Shorthand)

	for _, name := range []string{"log-level", "store", "store-path"} {
		assert.NotNil(t, root.Cmd.PersistentFlags().Lookup(name), name)
	}
}

func TestRootCommand_Run(t *testing.T) {
	assert.NotPanics(t, func() {
		root.Cmd.Run(&cobra.Command{}, []string{})
	})
}

func TestGetContainer_BeforeInitialize(t *testing.T) {
	isolate(t)

	_, err := root.GetContainer()
	assert.EqualError(t, err, "application not initialized")
	assert.NotNil(t, root.GetLogger())
}

func TestInitialize_FromConfigFile(t *testing.T) {
	dir := isolate(t)
	cfgPath := filepath.Join(dir, "trendfit.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("log:\n  level: warn\nstore:\n  backend: none\nfit:\n  workers: 2\n"), 0600))
	root.SharedFlags.ConfigFile = cfgPath

	require.NoError(t, root.Initialize())

	c, err := root.GetContainer()
	require.NoError(t, err)
	assert.Equal(t, "warn", root.AppConfig.Log.Level)
	assert.Equal(t, 2, root.AppConfig.Fit.Workers)
	assert.IsType(t, store.NopStore{}, c.GetStore())
	assert.Same(t, c.GetLogger(), root.GetLogger())
}

func TestInitialize_FlagOverrides(t *testing.T) {
	dir := isolate(t)
	root.SharedFlags.LogLevel = "debug"
	root.SharedFlags.StoreBackend = store.BackendSQLite
	root.SharedFlags.StorePath = filepath.Join(dir, "runs.db")

	require.NoError(t, root.Initialize())

	assert.Equal(t, "debug", root.AppConfig.Log.Level)
	assert.Equal(t, "sqlite", root.AppConfig.Store.Backend)
	assert.IsType(t, &store.SQLiteStore{}, root.AppContainer.GetStore())

	root.Cmd.PersistentPostRun(root.Cmd, nil)
	assert.Nil(t, root.AppContainer)
}

func TestInitialize_Errors(t *testing.T) {
	dir := isolate(t)

	root.SharedFlags.ConfigFile = filepath.Join(dir, "missing.yaml")
	err := root.Initialize()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialize configuration")

	root.SharedFlags.ConfigFile = ""
	root.SharedFlags.StoreBackend = "postgres"
	err = root.Initialize()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialize application")
	assert.Nil(t, root.AppContainer)
}
