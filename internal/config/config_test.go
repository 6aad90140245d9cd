package config

import (
	"os"
	"path/filepath"
	"testing"

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
		Storage: StorageConfig{
			BasePath: "/some/path",
		},
		Images: ImagesConfig{
			MaxDimension: 1800,
			ThumbSize:    420,
			Strength:     "medium",
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

func TestValidate_EnhanceStrength(t *testing.T) {
	tests := []struct {
		strength string
		valid    bool
	}{
		{"low", true},
		{"medium", true},
		{"high", true},
		{"extreme", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run("strength_"+tt.strength, func(t *testing.T) {
			cfg := validConfig()
			cfg.Images.Strength = tt.strength

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestExpandPath_Tilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	expanded, err := expandPath("~/journals", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "journals"), expanded)
}

func TestExpandPath_EmptyUsesDefault(t *testing.T) {
	expanded, err := expandPath("", "/default/path")
	require.NoError(t, err)
	assert.Equal(t, "/default/path", expanded)
}

func TestStorageDerivedPaths(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.BasePath = "/data/junkjournal"

	assert.Equal(t, filepath.Join("/data/junkjournal", "media"), cfg.MediaPath())
	assert.Equal(t, filepath.Join("/data/junkjournal", "db"), cfg.DatabasePath())
}

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("JJ_TEST_KEY", "from-env")

	// Flag wins over env.
	assert.Equal(t, "from-flag", getConfigValue("from-flag", "JJ_TEST_KEY", "default"))
	// Env wins over default.
	assert.Equal(t, "from-env", getConfigValue("", "JJ_TEST_KEY", "default"))
	// Default when nothing else set.
	assert.Equal(t, "default", getConfigValue("", "JJ_TEST_MISSING", "default"))
}

func TestGetBoolConfigValue(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"1", true},
		{"yes", true},
		{"TRUE", true},
		{"false", false},
		{"0", false},
		{"banana", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, getBoolConfigValue(tt.value, "JJ_UNSET", !tt.want))
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")

	content := "# comment\nJJ_ENV_FILE_TEST=hello\n\nJJ_ENV_QUOTED=\"quoted value\"\n"
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0644))

	t.Cleanup(func() {
		os.Unsetenv("JJ_ENV_FILE_TEST")
		os.Unsetenv("JJ_ENV_QUOTED")
	})

	err := loadEnvFile(envPath)
	require.NoError(t, err)

	assert.Equal(t, "hello", os.Getenv("JJ_ENV_FILE_TEST"))
	assert.Equal(t, "quoted value", os.Getenv("JJ_ENV_QUOTED"))
}
