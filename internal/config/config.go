package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the root configuration for hora-obra, stored in
// ~/.hora-obra/config.json. The file supports single-line // comments.
type Config struct {
	Import ImportConfig `json:"import"`
	Stats  StatsConfig  `json:"stats"`
	Report ReportConfig `json:"report"`
	Sheets SheetsConfig `json:"sheets"`
	Log    LogConfig    `json:"log"`
}

// ImportConfig tunes how rows are validated.
type ImportConfig struct {
	// StrictTime rejects times outside 00:00-23:59:59.
	StrictTime bool `json:"strict_time"`
}

// StatsConfig holds the dashboard thresholds and list sizes.
type StatsConfig struct {
	OvertimeAfterHours   float64 `json:"overtime_after_hours"`
	UnderAllocationHours float64 `json:"under_allocation_hours"`
	RankingSize          int     `json:"ranking_size"`
	ChartSize            int     `json:"chart_size"`
	DetailRows           int     `json:"detail_rows"`
}

// ReportConfig controls PDF report generation.
type ReportConfig struct {
	// OutputDir is where reports are written. Empty = current directory.
	OutputDir string `json:"output_dir"`
	// Delay between documents of a batch, as a Go duration ("1s", "500ms").
	Delay string `json:"delay"`
}

// DelayDuration parses Delay.
func (r ReportConfig) DelayDuration() (time.Duration, error) {
	d, err := time.ParseDuration(r.Delay)
	if err != nil {
		return 0, fmt.Errorf("report.delay: %w", err)
	}
	return d, nil
}

// SheetsConfig holds the Google OAuth client used for gsheet: sources.
type SheetsConfig struct {
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	Scopes       []string `json:"scopes"`
}

// LogConfig selects log verbosity and encoding.
type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

const (
	DefaultOvertimeAfterHours   = 8.0
	DefaultUnderAllocationHours = 40.0
	DefaultRankingSize          = 5
	DefaultChartSize            = 10
	DefaultDetailRows           = 10
	DefaultReportDelay          = "1s"
	DefaultLogLevel             = "warn"
	DefaultLogFormat            = "text"
	// DefaultSheetsScope allows exporting spreadsheets the user can read.
	DefaultSheetsScope = "https://www.googleapis.com/auth/drive.readonly"
)

// Environment variables that override file settings.
const (
	EnvStrictTime   = "HORA_OBRA_STRICT_TIME"
	EnvReportDir    = "HORA_OBRA_REPORT_DIR"
	EnvClientID     = "HORA_OBRA_SHEETS_CLIENT_ID"
	EnvClientSecret = "HORA_OBRA_SHEETS_CLIENT_SECRET"
	EnvLogLevel     = "HORA_OBRA_LOG_LEVEL"
	EnvLogFormat    = "HORA_OBRA_LOG_FORMAT"
)

// Default returns a Config pre-filled with the built-in defaults.
func Default() Config {
	return Config{
		Stats: StatsConfig{
			OvertimeAfterHours:   DefaultOvertimeAfterHours,
			UnderAllocationHours: DefaultUnderAllocationHours,
			RankingSize:          DefaultRankingSize,
			ChartSize:            DefaultChartSize,
			DetailRows:           DefaultDetailRows,
		},
		Report: ReportConfig{Delay: DefaultReportDelay},
		Sheets: SheetsConfig{Scopes: []string{DefaultSheetsScope}},
		Log:    LogConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
	}
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing.
const configTemplate = `// hora-obra configuration – ~/.hora-obra/config.json
//
// Every setting is optional. Environment variables prefixed HORA_OBRA_
// (also read from a .env file in the working directory) override it.
{
  "import": {
    // Reject times such as 25:00 or 08:75. Off by default: only the
    // HH:MM[:SS] shape is checked.
    "strict_time": false
  },

  "stats": {
    // A single record longer than this counts the excess as overtime.
    "overtime_after_hours": 8,
    // Employees with fewer total hours are listed as low load.
    "under_allocation_hours": 40,
    // Entries shown in the productivity ranking and hours chart.
    "ranking_size": 5,
    "chart_size": 10,
    // Records listed by 'dashboard' unless --all is given.
    "detail_rows": 10
  },

  "report": {
    // Directory for PDF reports. Empty = current directory.
    // Env: HORA_OBRA_REPORT_DIR
    "output_dir": "",
    // Pause between documents when generating reports for several employees.
    "delay": "1s"
  },

  // Google OAuth client (type "TVs and Limited Input devices") used to read
  // gsheet:<file-id> sources. Sign in with: hora-obra sheets login
  "sheets": {
    "client_id": "",
    "client_secret": "",
    "scopes": ["https://www.googleapis.com/auth/drive.readonly"]
  },

  "log": {
    // debug, info, warn or error. Env: HORA_OBRA_LOG_LEVEL
    "level": "warn",
    // text or json (Elastic Common Schema names). Env: HORA_OBRA_LOG_FORMAT
    "format": "text"
  }
}
`

// DefaultPath returns ~/.hora-obra/config.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".hora-obra", "config.json"), nil
}

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads the config from DefaultPath.
func Load() (Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return Default(), err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config file at path, creating it with annotated
// defaults when it does not exist, then applies environment overrides.
func LoadFrom(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		cfg := Default()
		applyEnv(&cfg)
		return cfg, nil
	}
	if err != nil {
		return Default(), fmt.Errorf("reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(stripLineComments(data), &cfg); err != nil {
		return Default(), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}
	fillDefaults(&cfg)
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// LoadDotEnv loads environment variables from the given files (default
// ".env"). Missing files are ignored; variables already set win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// fillDefaults replaces zero values with built-in defaults so a partially
// filled file still yields a usable Config.
func fillDefaults(cfg *Config) {
	def := Default()
	if cfg.Stats.OvertimeAfterHours == 0 {
		cfg.Stats.OvertimeAfterHours = def.Stats.OvertimeAfterHours
	}
	if cfg.Stats.UnderAllocationHours == 0 {
		cfg.Stats.UnderAllocationHours = def.Stats.UnderAllocationHours
	}
	if cfg.Stats.RankingSize == 0 {
		cfg.Stats.RankingSize = def.Stats.RankingSize
	}
	if cfg.Stats.ChartSize == 0 {
		cfg.Stats.ChartSize = def.Stats.ChartSize
	}
	if cfg.Stats.DetailRows == 0 {
		cfg.Stats.DetailRows = def.Stats.DetailRows
	}
	if cfg.Report.Delay == "" {
		cfg.Report.Delay = def.Report.Delay
	}
	if len(cfg.Sheets.Scopes) == 0 {
		cfg.Sheets.Scopes = def.Sheets.Scopes
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = def.Log.Format
	}
}

func applyEnv(cfg *Config) {
	if v := getEnv(EnvStrictTime, ""); v != "" {
		if strict, err := strconv.ParseBool(v); err == nil {
			cfg.Import.StrictTime = strict
		}
	}
	cfg.Report.OutputDir = getEnv(EnvReportDir, cfg.Report.OutputDir)
	cfg.Sheets.ClientID = getEnv(EnvClientID, cfg.Sheets.ClientID)
	cfg.Sheets.ClientSecret = getEnv(EnvClientSecret, cfg.Sheets.ClientSecret)
	cfg.Log.Level = getEnv(EnvLogLevel, cfg.Log.Level)
	cfg.Log.Format = getEnv(EnvLogFormat, cfg.Log.Format)
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

// Validate rejects settings no command can work with.
func (c Config) Validate() error {
	if c.Stats.OvertimeAfterHours < 0 {
		return fmt.Errorf("stats.overtime_after_hours must not be negative")
	}
	if c.Stats.UnderAllocationHours < 0 {
		return fmt.Errorf("stats.under_allocation_hours must not be negative")
	}
	if c.Stats.RankingSize < 0 || c.Stats.ChartSize < 0 || c.Stats.DetailRows < 0 {
		return fmt.Errorf("stats sizes must not be negative")
	}
	if d, err := c.Report.DelayDuration(); err != nil {
		return err
	} else if d < 0 {
		return fmt.Errorf("report.delay must not be negative")
	}
	return nil
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
