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
		Data: DataConfig{
			BasePath: "/some/path",
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
		{"INFO", true},   // case insensitive
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

func TestValidate_EmptyWebhookURLAllowed(t *testing.T) {
	cfg := validConfig()
	cfg.Discovery.WebhookURL = ""

	err := cfg.Validate()
	assert.NoError(t, err)
}

func TestExpandPath(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name        string
		path        string
		defaultPath string
		want        string
	}{
		{
			name:        "empty uses default",
			path:        "",
			defaultPath: "/default/path",
			want:        "/default/path",
		},
		{
			name: "tilde expands to home",
			path: "~/shelflife/data",
			want: filepath.Join(homeDir, "shelflife", "data"),
		},
		{
			name: "absolute path unchanged",
			path: "/var/lib/shelflife",
			want: "/var/lib/shelflife",
		},
		{
			name: "trailing slash cleaned",
			path: "/var/lib/shelflife/",
			want: "/var/lib/shelflife",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expandPath(tt.path, tt.defaultPath)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpandCatalogPath_EmptyStaysEmpty(t *testing.T) {
	cfg := validConfig()
	cfg.Discovery.CatalogPath = ""

	err := cfg.expandCatalogPath()
	require.NoError(t, err)
	assert.Empty(t, cfg.Discovery.CatalogPath)
}

func TestGetConfigValue_Precedence(t *testing.T) {
	const envKey = "SHELFLIFE_TEST_CONFIG_VALUE"
	t.Setenv(envKey, "from-env")

	// Flag wins over env
	assert.Equal(t, "from-flag", getConfigValue("from-flag", envKey, "from-default"))

	// Env wins over default
	assert.Equal(t, "from-env", getConfigValue("", envKey, "from-default"))

	// Default when nothing else set
	assert.Equal(t, "from-default", getConfigValue("", "SHELFLIFE_TEST_UNSET", "from-default"))
}

func TestGetBoolConfigValue(t *testing.T) {
	tests := []struct {
		value        string
		defaultValue bool
		want         bool
	}{
		{"true", false, true},
		{"TRUE", false, true},
		{"1", false, true},
		{"yes", false, true},
		{"false", true, false},
		{"0", true, false},
		{"nonsense", true, false},
		{"", true, true},  // default applies
		{"", false, false}, // default applies
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got := getBoolConfigValue(tt.value, "SHELFLIFE_TEST_UNSET_BOOL", tt.defaultValue)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")

	content := `# comment line
WEBHOOK_URL_TEST_LOAD=https://example.com/webhook

QUOTED_TEST_LOAD="quoted value"
`
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0o600))

	t.Cleanup(func() {
		os.Unsetenv("WEBHOOK_URL_TEST_LOAD")
		os.Unsetenv("QUOTED_TEST_LOAD")
	})

	err := loadEnvFile(envPath)
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/webhook", os.Getenv("WEBHOOK_URL_TEST_LOAD"))
	assert.Equal(t, "quoted value", os.Getenv("QUOTED_TEST_LOAD"))
}

func TestLoadEnvFile_ExistingEnvWins(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")

	require.NoError(t, os.WriteFile(envPath, []byte("PRESET_TEST_LOAD=from-file\n"), 0o600))
	t.Setenv("PRESET_TEST_LOAD", "from-env")

	err := loadEnvFile(envPath)
	require.NoError(t, err)

	assert.Equal(t, "from-env", os.Getenv("PRESET_TEST_LOAD"))
}

func TestLoadEnvFile_InvalidLine(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")

	require.NoError(t, os.WriteFile(envPath, []byte("not a key value pair\n"), 0o600))

	err := loadEnvFile(envPath)
	assert.Error(t, err)
}

func TestLoadEnvFile_Missing(t *testing.T) {
	err := loadEnvFile(filepath.Join(t.TempDir(), "nope.env"))
	assert.Error(t, err)
}
