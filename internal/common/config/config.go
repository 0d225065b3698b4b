package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Sources  SourcesConfig  `mapstructure:"sources"`
	Scoring  ScoringConfig  `mapstructure:"scoring"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port            int `mapstructure:"port"`
	ShutdownTimeout int `mapstructure:"shutdown_timeout"` // seconds
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string.
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// --- Upstream Source Configuration ---

// SourceConfig holds the core settings applicable to every upstream source.
type SourceConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	APIKey      string `mapstructure:"api_key"`
	Timeout     int    `mapstructure:"timeout"`      // milliseconds
	MaxAttempts int    `mapstructure:"max_attempts"` // retry budget per call
}

type SourcesConfig struct {
	BusinessRegistry SourceConfig `mapstructure:"business_registry"`
	PropertyDeals    SourceConfig `mapstructure:"property_deals"`
	Demographics     SourceConfig `mapstructure:"demographics"`
	PoiSearch        SourceConfig `mapstructure:"poi_search"`
	FranchiseOffice  SourceConfig `mapstructure:"franchise_office"`
	Vitality         SourceConfig `mapstructure:"vitality"`
}

// --- Scoring Configuration ---

// ScoringConfig holds the tunable constants of the composite pass.
// The regional correction bonuses are undocumented tuning constants from
// the source dataset calibration; they are configurable, not inferred.
type ScoringConfig struct {
	StableRegimeBonus    float64 `mapstructure:"stable_regime_bonus"`    // applied on the stable-competitive regime
	ExpandingRegimeBonus float64 `mapstructure:"expanding_regime_bonus"` // applied on the expanding regime
	SurvivalBlendWeight  float64 `mapstructure:"survival_blend_weight"`  // weight of the registry survival rate in the blend
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
