package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/irismpc/core/pkg/config"
)

func TestLoadOverlaysEnv(t *testing.T) {
	t.Setenv("IRIS_MPC_ROLE", "1")
	t.Setenv("IRIS_MPC_GPU_DEVICE_COUNT", "4")
	t.Setenv("IRIS_MPC_CURRENT_KEY_PATH", "/secret/current.key")

	cfg, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, uint8(1), cfg.Role)
	require.Equal(t, 4, cfg.GPUDeviceCount)
	require.Equal(t, "/secret/current.key", cfg.CurrentKeyPath)
}

func TestLoadFromFile(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "config-*.yaml")
	require.NoError(t, err)
	_, err = f.WriteString("role: 2\ngpu_device_count: 8\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	cfg, err := config.Load(f.Name())
	require.NoError(t, err)
	require.Equal(t, uint8(2), cfg.Role)
	require.Equal(t, 8, cfg.GPUDeviceCount)
}

func TestStringRedactsKeyPaths(t *testing.T) {
	cfg := config.PartyConfig{CurrentKeyPath: "/very/secret/path", PreviousKeyPath: "/another/secret"}
	s := cfg.String()
	require.NotContains(t, s, "/very/secret/path")
	require.NotContains(t, s, "/another/secret")
	require.Contains(t, s, "<redacted>")
}
