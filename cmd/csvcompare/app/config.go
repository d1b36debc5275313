package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/devKoy/csv-version-compare/pkg/constants"
	"github.com/devKoy/csv-version-compare/pkg/schema"
)

// envPrefix namespaces engine settings in the environment, e.g.
// CSVCOMPARE_BATCH_SIZE.
const envPrefix = "CSVCOMPARE"

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Engine defaults
	Profile       string
	KeyColumns    string
	CompareFields []string
	BatchSize     int
	StyleColumn   string
	ProfilesFile  string
	Parallelism   int

	// Logging configuration. LogLevel holds the --log-level flag and wins
	// over -v/-q; EnvLogLevel comes from LOG_LEVEL and loses to both.
	LogLevel    string
	EnvLogLevel string
	LogFormat   string
	LogOutput   string

	// HTTP defaults for the serve command
	HTTPHost string
	HTTPPort int
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (path, or ~/.csvcompare.yaml)
// 5. Defaults
func LoadConfig(path string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	v.SetDefault("profile", schema.ProfileCanonical)
	v.SetDefault("batch_size", constants.DefaultBatchSize)
	v.SetDefault("style_column", constants.ColumnVLU)
	v.SetDefault("http_host", "localhost")
	v.SetDefault("http_port", 8080)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	} else {
		// Search for config in standard locations
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".csvcompare")
		// Read config file (ignore error if not found)
		_ = v.ReadInConfig()
	}

	config := &Config{
		Format:     v.GetString("format"),
		ConfigFile: v.ConfigFileUsed(),

		Profile:       v.GetString("profile"),
		KeyColumns:    v.GetString("key_columns"),
		CompareFields: splitList(v.GetStringSlice("compare_fields")),
		BatchSize:     v.GetInt("batch_size"),
		StyleColumn:   v.GetString("style_column"),
		ProfilesFile:  v.GetString("profiles_file"),
		Parallelism:   v.GetInt("parallelism"),

		EnvLogLevel: getEnvOrDefault("LOG_LEVEL", v.GetString("log_level")),
		LogFormat:   getEnvOrDefault("LOG_FORMAT", stringOr(v.GetString("log_format"), "auto")),
		LogOutput:   getEnvOrDefault("LOG_OUTPUT", stringOr(v.GetString("log_output"), "stderr")),

		HTTPHost: v.GetString("http_host"),
		HTTPPort: v.GetInt("http_port"),
	}

	return config, nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local is loaded after .env; godotenv never overrides a variable that
// is already set.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// splitList accepts both YAML lists and comma-separated env values.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func stringOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
