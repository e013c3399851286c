package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Company  CompanyConfig
	Report   ReportConfig
}

// DatabaseConfig holds sqlite settings for the Tally export.
type DatabaseConfig struct {
	Path string
}

// CompanyConfig identifies the business the ledger belongs to.
type CompanyConfig struct {
	Name string
}

// ReportConfig holds presentation and query defaults.
type ReportConfig struct {
	CurrencySymbol string
	DefaultYear    int
	TopN           int
	QueryTimeoutMS int
}

// QueryTimeout returns the per-query deadline as a duration.
func (r ReportConfig) QueryTimeout() time.Duration {
	return time.Duration(r.QueryTimeoutMS) * time.Millisecond
}

// Load reads configuration from file and env. Env var overrides use prefix FINSIGHT_.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "finsight", "tallydb.db"))
	v.SetDefault("company.name", "VASAVI TRADE ZONE")
	v.SetDefault("report.currency_symbol", "₹")
	v.SetDefault("report.default_year", 2024)
	v.SetDefault("report.top_n", 10)
	v.SetDefault("report.query_timeout_ms", 5000)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("FINSIGHT_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "finsight"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("FINSIGHT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
