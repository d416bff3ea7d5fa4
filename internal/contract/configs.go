package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/memorymusicllc/pow3r/schema"
)

// Default values for configuration.
const (
	DefaultMaxDepth    = 2
	MaxWalkDepth       = 8
	DefaultPrecision   = 1
	DefaultRepoTimeout = 2 * time.Minute
	DefaultCacheTTL    = 24 * time.Hour
	DefaultHistoryLim  = 25
)

// DefaultWorkers is the default number of concurrent repository scans.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Config holds the runtime configuration for scanning and aggregation.
// This struct remains the "final, validated" config. Engine parameters are
// always passed explicitly; nothing here is read from ambient global state.
type Config struct {
	ScanPath  string // Root path: one repository or a tree of repositories
	OutputDir string // Directory for emitted status documents ("" = repo root)
	InputDirs []string

	MaxDepth    int // Directory walk depth bound for node synthesis
	RepoTimeout time.Duration
	Workers     int
	Excludes    []string

	Output     schema.OutputMode
	OutputFile string
	Precision  int

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext
	CacheTTL       time.Duration

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// These are set manually from positional args, so no tag
	ScanPathStr string
	InputDirs   []string

	// --- Fields from rootCmd.PersistentFlags() ---
	OutDir           string `mapstructure:"out-dir"`
	Depth            int    `mapstructure:"depth"`
	Timeout          string `mapstructure:"timeout"`
	Workers          int    `mapstructure:"workers"`
	Exclude          string `mapstructure:"exclude"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Precision        int    `mapstructure:"precision"`
	CacheBackend     string `mapstructure:"cache-backend"`
	CacheDBConnect   string `mapstructure:"cache-db-connect"`
	CacheTTL         string `mapstructure:"cache-ttl"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`
	Emoji            string `mapstructure:"emoji"`
	Color            string `mapstructure:"color"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Excludes != nil {
		clone.Excludes = make([]string, len(c.Excludes))
		copy(clone.Excludes, c.Excludes)
	}
	if c.InputDirs != nil {
		clone.InputDirs = make([]string, len(c.InputDirs))
		copy(clone.InputDirs, c.InputDirs)
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processDurations(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	return resolveScanPath(cfg, input)
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputDir = input.OutDir
	cfg.OutputFile = input.OutputFile
	cfg.InputDirs = input.InputDirs

	// Parse emoji flag
	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Depth Validation ---
	if input.Depth < 1 || input.Depth > MaxWalkDepth {
		return fmt.Errorf("depth must be between 1 and %d (received %d)", MaxWalkDepth, input.Depth)
	}
	cfg.MaxDepth = input.Depth

	// --- 2. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 3. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, json, csv, parquet", input.Output)
	}

	// --- 4. Excludes Processing ---
	defaults := []string{
		".git", "node_modules", "venv", ".venv", "__pycache__",
		".vscode", ".idea", "dist", "build", "out", "target", "bin",
		".next", ".cache", "vendor",
	}
	cfg.Excludes = defaults // Set defaults first

	if input.Exclude != "" {
		for p := range strings.SplitSeq(input.Exclude, ",") {
			trimmedP := strings.TrimSpace(p)
			if trimmedP != "" {
				cfg.Excludes = append(cfg.Excludes, trimmedP)
			}
		}
	}

	return nil
}

// processDurations parses the timeout and TTL inputs.
func processDurations(cfg *Config, input *ConfigRawInput) error {
	cfg.RepoTimeout = DefaultRepoTimeout
	if input.Timeout != "" {
		timeout, err := ParseLookbackDuration(input.Timeout)
		if err != nil {
			return fmt.Errorf("invalid --timeout: %w", err)
		}
		if timeout <= 0 {
			return fmt.Errorf("--timeout must be positive")
		}
		cfg.RepoTimeout = timeout
	}

	cfg.CacheTTL = DefaultCacheTTL
	if input.CacheTTL != "" {
		ttl, err := ParseLookbackDuration(input.CacheTTL)
		if err != nil {
			return fmt.Errorf("invalid --cache-ttl: %w", err)
		}
		cfg.CacheTTL = ttl
	}

	return nil
}

// validateBackendConfigs validates cache and history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	// --- History Backend Validation ---
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if cfg.HistoryBackend == "" {
		cfg.HistoryBackend = schema.NoneBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return err
	}

	// Cache and history must not share one SQLite database file
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.HistoryBackend == schema.SQLiteBackend {
		cacheDBPath := cfg.CacheDBConnect
		if cacheDBPath == "" {
			cacheDBPath = GetCacheDBFilePath()
		}
		historyDBPath := cfg.HistoryDBConnect
		if historyDBPath == "" {
			historyDBPath = GetHistoryDBFilePath()
		}
		if cacheDBPath == historyDBPath {
			return fmt.Errorf("cache and history storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
		}
	}

	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection
// strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// resolveScanPath resolves the scan root to an absolute, existing path.
func resolveScanPath(cfg *Config, input *ConfigRawInput) error {
	searchPath := input.ScanPathStr
	if searchPath == "" {
		searchPath = "."
	}
	absSearchPath, err := filepath.Abs(searchPath)
	if err != nil {
		return err
	}
	absSearchPath = filepath.Clean(absSearchPath)

	info, err := os.Stat(absSearchPath)
	if err != nil {
		return fmt.Errorf("scan path does not exist: %s", absSearchPath)
	}
	if !info.IsDir() {
		return fmt.Errorf("scan path must be a directory: %s", absSearchPath)
	}

	cfg.ScanPath = absSearchPath
	return nil
}
