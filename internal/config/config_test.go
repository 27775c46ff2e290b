package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Environment: "development",
		},
		Logger: LoggerConfig{
			Level: "info",
		},
		Data: DataConfig{
			BasePath: "/some/path",
		},
		Auth: AuthConfig{
			SessionDuration: 168 * time.Hour,
		},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	err := validConfig().Validate()
	assert.NoError(t, err)
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_AllLogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"DEBUG", true},  // case insensitive
		{"trace", false}, // not supported
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.Logger.Level = tt.level

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_EmptyDataPath(t *testing.T) {
	cfg := validConfig()
	cfg.Data.BasePath = ""

	err := cfg.Validate()
	assert.Error(t, err)
}

func TestValidate_SessionDuration(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.SessionDuration = 0

	err := cfg.Validate()
	assert.Error(t, err)
}

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("SPINLIST_TEST_KEY", "from-env")

	assert.Equal(t, "from-flag", getConfigValue("from-flag", "SPINLIST_TEST_KEY", "default"))
	assert.Equal(t, "from-env", getConfigValue("", "SPINLIST_TEST_KEY", "default"))
	assert.Equal(t, "default", getConfigValue("", "SPINLIST_TEST_MISSING", "default"))
}

func TestSplitOrigins(t *testing.T) {
	assert.Nil(t, splitOrigins(""))
	assert.Equal(t, []string{"http://localhost:3000"}, splitOrigins("http://localhost:3000"))
	assert.Equal(t,
		[]string{"http://localhost:3000", "https://spinlist.example"},
		splitOrigins("http://localhost:3000, https://spinlist.example,"),
	)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")

	content := "# comment\nSPINLIST_ENV_A=hello\nSPINLIST_ENV_B=\"quoted\"\n\n"
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0o600))

	t.Setenv("SPINLIST_ENV_A", "")
	t.Setenv("SPINLIST_ENV_B", "")
	os.Unsetenv("SPINLIST_ENV_A")
	os.Unsetenv("SPINLIST_ENV_B")

	require.NoError(t, loadEnvFile(envPath))

	assert.Equal(t, "hello", os.Getenv("SPINLIST_ENV_A"))
	assert.Equal(t, "quoted", os.Getenv("SPINLIST_ENV_B"))
}

func TestLoadEnvFile_InvalidLine(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("NOT A VALID LINE\n"), 0o600))

	err := loadEnvFile(envPath)
	assert.Error(t, err)
}

func TestExpandPath(t *testing.T) {
	got, err := expandPath("", "/fallback")
	require.NoError(t, err)
	assert.Equal(t, "/fallback", got)

	got, err = expandPath("/already/absolute", "/fallback")
	require.NoError(t, err)
	assert.Equal(t, "/already/absolute", got)
}
