package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/stmtflow/internal/classify"
	"github.com/cleared-dev/stmtflow/internal/dedupe"
	"github.com/cleared-dev/stmtflow/internal/parser"
)

// FileName is the workspace configuration file.
const FileName = "stmtflow.yaml"

// Environment overrides, read after an optional .env in the workspace.
const (
	EnvLedger   = "STMTFLOW_LEDGER"
	EnvLogLevel = "STMTFLOW_LOG_LEVEL"
	EnvWorkers  = "STMTFLOW_WORKERS"
)

// Config represents the top-level stmtflow.yaml configuration.
type Config struct {
	Workspace  WorkspaceConfig  `yaml:"workspace"`
	Ledger     LedgerConfig     `yaml:"ledger"`
	Import     ImportConfig     `yaml:"import"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Accounts   []AccountConfig  `yaml:"accounts,omitempty"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// WorkspaceConfig names the workspace.
type WorkspaceConfig struct {
	Name string `yaml:"name"`
}

// LedgerConfig locates the SQLite ledger. Relative paths are resolved
// against the workspace directory.
type LedgerConfig struct {
	Path string `yaml:"path"`
}

// ImportConfig controls statement imports.
type ImportConfig struct {
	DefaultBank      string `yaml:"default_bank"` // a bank name or "auto"
	Workers          int    `yaml:"workers"`
	DescriptionLimit int    `yaml:"description_limit"`
	DedupePrefix     int    `yaml:"dedupe_prefix"`
}

// ClassifierConfig is the income/expense rule table. Empty lists fall back
// to the built-in vocabulary.
type ClassifierConfig struct {
	IncomeKeywords     []string `yaml:"income_keywords,omitempty"`
	ExpenseKeywords    []string `yaml:"expense_keywords,omitempty"`
	CompanyTokens      []string `yaml:"company_tokens,omitempty"`
	MerchantTokens     []string `yaml:"merchant_tokens,omitempty"`
	UPIPrefixes        []string `yaml:"upi_prefixes,omitempty"`
	UPIPersonThreshold float64  `yaml:"upi_person_threshold"`
	MagnitudeThreshold float64  `yaml:"magnitude_threshold"`
}

// AccountConfig seeds an account into the ledger on init.
type AccountConfig struct {
	Name           string `yaml:"name"`
	Type           string `yaml:"type"`
	Bank           string `yaml:"bank,omitempty"`
	Number         string `yaml:"number,omitempty"`
	OpeningBalance string `yaml:"opening_balance,omitempty"`
}

// LoggingConfig sets the log level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads a stmtflow.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// LoadWorkspace loads <dir>/stmtflow.yaml and applies environment overrides.
func LoadWorkspace(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, FileName))
	if err != nil {
		return nil, err
	}
	if err := ApplyEnv(cfg, dir); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new workspace.
func Default(name string) *Config {
	r := classify.DefaultRules()
	return &Config{
		Workspace: WorkspaceConfig{Name: name},
		Ledger:    LedgerConfig{Path: "ledger.db"},
		Import: ImportConfig{
			DefaultBank:      "auto",
			Workers:          4,
			DescriptionLimit: parser.DefaultDescriptionLimit,
			DedupePrefix:     dedupe.DefaultPrefixLength,
		},
		Classifier: ClassifierConfig{
			IncomeKeywords:     r.IncomeKeywords,
			ExpenseKeywords:    r.ExpenseKeywords,
			CompanyTokens:      r.CompanyTokens,
			MerchantTokens:     r.MerchantTokens,
			UPIPrefixes:        r.UPIPrefixes,
			UPIPersonThreshold: r.UPIPersonThreshold.InexactFloat64(),
			MagnitudeThreshold: r.MagnitudeThreshold.InexactFloat64(),
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// ApplyEnv loads <dir>/.env, if present, and overlays STMTFLOW_* variables.
// Variables already set in the process environment win over .env.
func ApplyEnv(cfg *Config, dir string) error {
	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	if v := os.Getenv(EnvLedger); v != "" {
		cfg.Ledger.Path = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return fmt.Errorf("%s: want a positive integer, got %q", EnvWorkers, v)
		}
		cfg.Import.Workers = n
	}
	return nil
}

// LedgerPath returns the ledger file path for a workspace directory.
func (c *Config) LedgerPath(dir string) string {
	p := c.Ledger.Path
	if p == "" {
		p = "ledger.db"
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// Rules builds the classifier rule table, filling gaps from the defaults.
func (c ClassifierConfig) Rules() classify.Rules {
	r := classify.DefaultRules()
	if len(c.IncomeKeywords) > 0 {
		r.IncomeKeywords = c.IncomeKeywords
	}
	if len(c.ExpenseKeywords) > 0 {
		r.ExpenseKeywords = c.ExpenseKeywords
	}
	if len(c.CompanyTokens) > 0 {
		r.CompanyTokens = c.CompanyTokens
	}
	if len(c.MerchantTokens) > 0 {
		r.MerchantTokens = c.MerchantTokens
	}
	if len(c.UPIPrefixes) > 0 {
		r.UPIPrefixes = c.UPIPrefixes
	}
	if c.UPIPersonThreshold > 0 {
		r.UPIPersonThreshold = decimal.NewFromFloat(c.UPIPersonThreshold)
	}
	if c.MagnitudeThreshold > 0 {
		r.MagnitudeThreshold = decimal.NewFromFloat(c.MagnitudeThreshold)
	}
	return r
}

// WorkerCount returns the bulk import concurrency, at least 1.
func (c ImportConfig) WorkerCount() int {
	if c.Workers < 1 {
		return 1
	}
	return c.Workers
}
