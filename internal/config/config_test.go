package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(oldWd) })
}

func TestLoad(t *testing.T) {
	// No config file: defaults apply
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.Development)
	assert.True(t, cfg.Navigation.SupportsBack)
	assert.True(t, cfg.Navigation.SupportsForward)
	assert.True(t, cfg.Navigation.AutoClearForward)
	assert.Equal(t, 0, cfg.Navigation.MaxDepth)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, "", cfg.Redis.URL)
	assert.Equal(t, "mvvm", cfg.Redis.ChannelPrefix)
	assert.Equal(t, 5, cfg.Save.Steps)
	assert.Equal(t, 200*time.Millisecond, cfg.Save.StepDelay)
}

func TestDefaultMatchesLoad(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
}

func TestLoadWithConfigFile(t *testing.T) {
	chdir(t, t.TempDir())

	configContent := `
log:
  level: debug
  development: true
navigation:
  auto_clear_forward: false
  max_depth: 10
server:
  port: 8080
  host: 0.0.0.0
redis:
  url: redis://localhost:6379/0
  channel_prefix: props
save:
  steps: 3
  step_delay: 1s
`
	require.NoError(t, os.WriteFile("mvvm.yml", []byte(configContent), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Development)
	assert.False(t, cfg.Navigation.AutoClearForward)
	assert.Equal(t, 10, cfg.Navigation.MaxDepth)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Equal(t, "props", cfg.Redis.ChannelPrefix)
	assert.Equal(t, 3, cfg.Save.Steps)
	assert.Equal(t, time.Second, cfg.Save.StepDelay)
}

func TestLoadEnvironmentOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("MVVM_SERVER_PORT", "9090")
	t.Setenv("MVVM_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadMalformedFile(t *testing.T) {
	chdir(t, t.TempDir())
	require.NoError(t, os.WriteFile("mvvm.yml", []byte("server: [unclosed"), 0644))

	_, err := Load()
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "bad level", content: "log:\n  level: loud\n", wantErr: "log.level"},
		{name: "bad port", content: "server:\n  port: 70000\n", wantErr: "server.port"},
		{name: "negative depth", content: "navigation:\n  max_depth: -1\n", wantErr: "navigation.max_depth"},
		{name: "zero steps", content: "save:\n  steps: 0\n", wantErr: "save.steps"},
		{name: "missing prefix", content: "redis:\n  url: redis://x\n  channel_prefix: \"\"\n", wantErr: "redis.channel_prefix"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "mvvm.yml"), []byte(tt.content), 0644))

			_, err := LoadFrom(dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNavigationOptions(t *testing.T) {
	opts := NavigationConfig{SupportsBack: true, MaxDepth: 4}.Options()

	assert.True(t, opts.SupportsBack)
	assert.False(t, opts.SupportsForward)
	assert.Equal(t, 4, opts.MaxDepth)
}

func TestFindConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "mvvm.yaml"), []byte(""), 0644))

	subDir := filepath.Join(tmpDir, "src", "deep", "nested")
	require.NoError(t, os.MkdirAll(subDir, 0755))
	chdir(t, subDir)

	path, err := FindConfigFile()
	require.NoError(t, err)

	// On macOS, /tmp is symlinked to /private/tmp, so resolve both paths
	resolved, _ := filepath.EvalSymlinks(filepath.Dir(path))
	resolvedTmpDir, _ := filepath.EvalSymlinks(tmpDir)
	assert.Equal(t, resolvedTmpDir, resolved)
	assert.Equal(t, "mvvm.yaml", filepath.Base(path))
}
