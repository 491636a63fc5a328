package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"kiosk/internal/config"
	"kiosk/internal/logging"
	"kiosk/internal/prefs"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// setupCLI points --config at a fresh file-backed store in a temp dir.
func setupCLI(t *testing.T) string {
	t.Helper()
	logger = zap.NewNop()

	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Storage.Backend = config.BackendFile
	cfg.Storage.Path = filepath.Join(dir, "prefs.json")
	path := filepath.Join(dir, "kiosk.yaml")
	require.NoError(t, cfg.Save(path))

	configPath = path
	t.Cleanup(func() {
		configPath = "kiosk.yaml"
		jsonOutput = false
		logger = nil
		appConfig = nil
	})
	return cfg.Storage.Path
}

// run invokes fn with cmd's output captured. Flags set on cmd are restored
// to their defaults afterwards.
func run(t *testing.T, cmd *cobra.Command, fn func(*cobra.Command, []string) error, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	t.Cleanup(func() {
		cmd.SetOut(nil)
		cmd.SetErr(nil)
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	})
	err := fn(cmd, args)
	return out.String(), err
}

func TestServicesListSeedsDefaults(t *testing.T) {
	setupCLI(t)

	out, err := run(t, &cobra.Command{}, runServicesList)
	require.NoError(t, err)
	for _, name := range []string{"ChatGPT", "Google", "YouTube", "Naver"} {
		assert.Contains(t, out, name)
	}

	jsonOutput = true
	out, err = run(t, &cobra.Command{}, runServicesList)
	require.NoError(t, err)
	var got []prefs.ServiceDescriptor
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, prefs.DefaultServices(), got)
}

func TestServicesAddUpdateRemove(t *testing.T) {
	setupCLI(t)

	require.NoError(t, servicesAddCmd.Flags().Set("id", "wiki"))
	require.NoError(t, servicesAddCmd.Flags().Set("name", "Wikipedia"))
	require.NoError(t, servicesAddCmd.Flags().Set("url", "https://www.wikipedia.org"))
	out, err := run(t, servicesAddCmd, runServicesAdd)
	require.NoError(t, err)
	assert.Contains(t, out, "Added service Wikipedia (wiki)")

	require.NoError(t, servicesUpdateCmd.Flags().Set("name", "Wiki"))
	_, err = run(t, servicesUpdateCmd, runServicesUpdate, "wiki")
	require.NoError(t, err)

	jsonOutput = true
	out, err = run(t, &cobra.Command{}, runServicesList)
	require.NoError(t, err)
	var got []prefs.ServiceDescriptor
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 5)
	assert.Equal(t, "Wiki", got[4].Name)
	assert.Equal(t, "https://www.wikipedia.org", got[4].URL)
	assert.Equal(t, "fas fa-globe", got[4].Icon)

	_, err = run(t, &cobra.Command{}, runServicesRemove, "wiki")
	require.NoError(t, err)
	out, err = run(t, &cobra.Command{}, runServicesList)
	require.NoError(t, err)
	got = nil
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, prefs.DefaultServices(), got)
}

func TestServicesAddRejectsInvalid(t *testing.T) {
	setupCLI(t)

	require.NoError(t, servicesAddCmd.Flags().Set("name", "Bad"))
	require.NoError(t, servicesAddCmd.Flags().Set("url", "ftp://example.com"))
	_, err := run(t, servicesAddCmd, runServicesAdd)
	assert.Error(t, err)
}

func TestServicesAddDuplicateID(t *testing.T) {
	setupCLI(t)

	require.NoError(t, servicesAddCmd.Flags().Set("id", "1"))
	require.NoError(t, servicesAddCmd.Flags().Set("name", "Again"))
	require.NoError(t, servicesAddCmd.Flags().Set("url", "https://example.com"))
	_, err := run(t, servicesAddCmd, runServicesAdd)
	require.Error(t, err)
	assert.ErrorIs(t, err, prefs.ErrInvalid)
}

func TestServicesUpdateUnknown(t *testing.T) {
	setupCLI(t)

	_, err := run(t, servicesUpdateCmd, runServicesUpdate, "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSettingsShowMasksPassword(t *testing.T) {
	setupCLI(t)

	out, err := run(t, settingsShowCmd, runSettingsShow)
	require.NoError(t, err)
	assert.Contains(t, out, "****")
	assert.NotContains(t, out, "1212")
	assert.Contains(t, out, "30s")

	require.NoError(t, settingsShowCmd.Flags().Set("reveal", "true"))
	out, err = run(t, settingsShowCmd, runSettingsShow)
	require.NoError(t, err)
	assert.Contains(t, out, "1212")
}

func TestSettingsSet(t *testing.T) {
	setupCLI(t)

	require.NoError(t, settingsSetCmd.Flags().Set("timeout", "60000"))
	require.NoError(t, settingsSetCmd.Flags().Set("allow-upload", "false"))
	_, err := run(t, settingsSetCmd, runSettingsSet)
	require.NoError(t, err)

	jsonOutput = true
	require.NoError(t, settingsShowCmd.Flags().Set("reveal", "true"))
	out, err := run(t, settingsShowCmd, runSettingsShow)
	require.NoError(t, err)
	var got prefs.AdminSettings
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, prefs.AdminSettings{
		Password:            "1212",
		InactivityTimeoutMs: 60000,
		MaxUploadBytes:      104857600,
		AllowUpload:         false,
	}, got)
}

func TestSettingsSetRequiresAFlag(t *testing.T) {
	setupCLI(t)

	_, err := run(t, settingsSetCmd, runSettingsSet)
	assert.Error(t, err)
}

func TestSettingsSetRejectsNegativeTimeout(t *testing.T) {
	setupCLI(t)

	require.NoError(t, settingsSetCmd.Flags().Set("timeout", "-1"))
	_, err := run(t, settingsSetCmd, runSettingsSet)
	require.Error(t, err)
	assert.ErrorIs(t, err, prefs.ErrInvalid)
}

func TestVideoCommands(t *testing.T) {
	setupCLI(t)

	out, err := run(t, &cobra.Command{}, runVideoGet, "intro.mp4")
	require.NoError(t, err)
	assert.Equal(t, "0\n", out)

	_, err = run(t, &cobra.Command{}, runVideoSave, "intro.mp4", "42.5")
	require.NoError(t, err)

	out, err = run(t, &cobra.Command{}, runVideoGet, "intro.mp4")
	require.NoError(t, err)
	assert.Equal(t, "42.5\n", out)

	out, err = run(t, &cobra.Command{}, runVideoList)
	require.NoError(t, err)
	assert.Contains(t, out, "intro.mp4")

	_, err = run(t, &cobra.Command{}, runVideoSave, "intro.mp4", "soon")
	assert.Error(t, err)
	_, err = run(t, &cobra.Command{}, runVideoSave, "intro.mp4", "-3")
	assert.ErrorIs(t, err, prefs.ErrInvalid)
}

func TestVideoIndex(t *testing.T) {
	setupCLI(t)

	out, err := run(t, &cobra.Command{}, runVideoIndex)
	require.NoError(t, err)
	assert.Equal(t, "0\n", out)

	_, err = run(t, &cobra.Command{}, runVideoIndex, "3")
	require.NoError(t, err)

	out, err = run(t, &cobra.Command{}, runVideoIndex)
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)

	_, err = run(t, &cobra.Command{}, runVideoIndex, "-1")
	assert.ErrorIs(t, err, prefs.ErrInvalid)
}

func TestActivityTouchAndShow(t *testing.T) {
	setupCLI(t)

	_, err := run(t, &cobra.Command{}, runActivityTouch)
	require.NoError(t, err)

	out, err := run(t, &cobra.Command{}, runActivityShow)
	require.NoError(t, err)
	assert.Contains(t, out, "Idle:          false")
}

func TestStatusMasksPassword(t *testing.T) {
	setupCLI(t)

	out, err := run(t, &cobra.Command{}, runStatus)
	require.NoError(t, err)

	var snap prefs.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	assert.Len(t, snap.Services, 4)
	assert.Empty(t, snap.Failures)
	assert.False(t, strings.Contains(out, "1212"))
}

func TestWatchPath(t *testing.T) {
	cfg := config.DefaultConfig()
	assert.Equal(t, cfg.Storage.Path, watchPath(cfg))

	cfg.Monitor.WatchStorage = false
	assert.Empty(t, watchPath(cfg))

	cfg.Monitor.WatchStorage = true
	cfg.Storage.Backend = config.BackendMemory
	assert.Empty(t, watchPath(cfg))
}

func TestCommandTree(t *testing.T) {
	for _, path := range [][]string{
		{"services", "list"},
		{"settings", "set"},
		{"video", "index"},
		{"activity", "touch"},
		{"status"},
		{"monitor"},
	} {
		cmd, _, err := rootCmd.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}

func TestSettingsVerify(t *testing.T) {
	setupCLI(t)

	out, err := run(t, &cobra.Command{}, runSettingsVerify, "1212")
	require.NoError(t, err)
	assert.Contains(t, out, "Password accepted")

	_, err = run(t, &cobra.Command{}, runSettingsVerify, "0000")
	assert.Error(t, err)
}

func TestRootPreRunRejectsInvalidConfig(t *testing.T) {
	setupCLI(t)
	t.Cleanup(func() { logging.SetRoot(nil) })

	cfg := config.DefaultConfig()
	cfg.Storage.Backend = "floppy"
	require.NoError(t, cfg.Save(configPath))

	err := rootCmd.PersistentPreRunE(rootCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid storage backend")
	assert.Nil(t, appConfig)
}

func TestRootPreRunConfigIsReused(t *testing.T) {
	storePath := setupCLI(t)
	t.Cleanup(func() { logging.SetRoot(nil) })

	cfg, err := config.Load(configPath)
	require.NoError(t, err)
	cfg.Logging.File = filepath.Join(filepath.Dir(storePath), "kiosk.log")
	require.NoError(t, cfg.Save(configPath))

	require.NoError(t, rootCmd.PersistentPreRunE(rootCmd, nil))
	require.NotNil(t, appConfig)
	assert.Equal(t, storePath, appConfig.Storage.Path)

	// Commands use the pre-run config, not the file.
	require.NoError(t, os.Remove(configPath))
	_, err = run(t, &cobra.Command{}, runServicesReset)
	require.NoError(t, err)
	_, err = os.Stat(storePath)
	assert.NoError(t, err)
}
