package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate keeps the developer's own config out of the search path.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
}

func newCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("data", "", "")
	cmd.Flags().String("addr", "", "")
	cmd.Flags().String("log-level", "", "")
	return cmd
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	got, err := Load(newCmd(), "")
	require.NoError(t, err)
	if diff := cmp.Diff(Default(), got); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadExplicitFile(t *testing.T) {
	isolate(t)
	file := filepath.Join(t.TempDir(), "dash.yaml")
	yml := "data:\n  path: /srv/launches.csv\nserver:\n  addr: 0.0.0.0:9000\n  shutdown_timeout: 2s\nslider:\n  max: 12000\n"
	require.NoError(t, os.WriteFile(file, []byte(yml), 0o600))

	got, err := Load(newCmd(), file)
	require.NoError(t, err)
	assert.Equal(t, "/srv/launches.csv", got.Data.Path)
	assert.Equal(t, "0.0.0.0:9000", got.Server.Addr)
	assert.Equal(t, 2*time.Second, got.Server.ShutdownTimeout)
	assert.Equal(t, 12000.0, got.Slider.Max)
	assert.Equal(t, 1000.0, got.Slider.Step, "unset keys keep defaults")
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)
	_, err := Load(newCmd(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadPrecedence(t *testing.T) {
	isolate(t)
	file := filepath.Join(t.TempDir(), "dash.yaml")
	require.NoError(t, os.WriteFile(file, []byte("server:\n  addr: file:1\nlog:\n  level: warn\n"), 0o600))

	t.Setenv("LAUNCHDASH_SERVER_ADDR", "env:2")
	t.Setenv("LAUNCHDASH_DATA_PATH", "env.csv")

	cmd := newCmd()
	require.NoError(t, cmd.Flags().Set("data", "flag.csv"))

	got, err := Load(cmd, file)
	require.NoError(t, err)
	assert.Equal(t, "env:2", got.Server.Addr, "env beats file")
	assert.Equal(t, "flag.csv", got.Data.Path, "flag beats env")
	assert.Equal(t, "warn", got.Log.Level, "file beats default")
}

func TestLoadRejectsInvalid(t *testing.T) {
	isolate(t)
	file := filepath.Join(t.TempDir(), "dash.yaml")
	require.NoError(t, os.WriteFile(file, []byte("slider:\n  min: 5000\n  max: 100\n  step: 0\n"), 0o600))

	_, err := Load(newCmd(), file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "slider.max")
	assert.Contains(t, err.Error(), "slider.step")
}

func TestWriteRoundTrip(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "nested", "launchdash.yaml")

	want := Default()
	want.Server.Addr = ":8080"
	want.Log.Format = "json"
	require.NoError(t, Write(path, want))

	got, err := Load(nil, path)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSearchesWorkingDirectory(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "launchdash.yaml"), []byte("render:\n  width: 1024\n"), 0o600))
	t.Chdir(dir)

	got, err := Load(nil, "")
	require.NoError(t, err)
	assert.Equal(t, 1024, got.Render.Width)
}
