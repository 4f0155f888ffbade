package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "CAMPUSALERT"

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	App     AppConfig     `mapstructure:"app"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Seed    SeedConfig    `mapstructure:"seed"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxUploadMB     int64         `mapstructure:"max_upload_mb"`
}

type LogConfig struct {
	Development bool `mapstructure:"development"`
}

type AppConfig struct {
	// ActingUser is the catalog id every request acts as.
	ActingUser string `mapstructure:"acting_user"`
	// JitterSeed seeds synthesized report locations; 0 picks a time-based seed.
	JitterSeed int64 `mapstructure:"jitter_seed"`
}

// CatalogConfig points at an optional MongoDB holding categories and users.
// An empty MongoURI selects the built-in catalog.
type CatalogConfig struct {
	MongoURI             string        `mapstructure:"mongo_uri"`
	Database             string        `mapstructure:"database"`
	CategoriesCollection string        `mapstructure:"categories_collection"`
	UsersCollection      string        `mapstructure:"users_collection"`
	Timeout              time.Duration `mapstructure:"timeout"`
}

type SeedConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", "127.0.0.1:8000")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.max_upload_mb", 32)
	v.SetDefault("log.development", false)
	v.SetDefault("app.acting_user", "1")
	v.SetDefault("app.jitter_seed", 0)
	v.SetDefault("catalog.mongo_uri", "")
	v.SetDefault("catalog.database", "campusalert")
	v.SetDefault("catalog.categories_collection", "categories")
	v.SetDefault("catalog.users_collection", "users")
	v.SetDefault("catalog.timeout", "10s")
	v.SetDefault("seed.enabled", true)
	v.SetDefault("seed.path", "")
}

// Load reads defaults, then the YAML file at path (or ./config.yaml when
// path is empty and the file exists), then CAMPUSALERT_* variables such as
// CAMPUSALERT_SERVER_ADDR.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	err := v.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	err = v.Unmarshal(&cfg)
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.App.ActingUser == "" {
		return nil, fmt.Errorf("app.acting_user must be set")
	}
	if cfg.Server.MaxUploadMB <= 0 {
		return nil, fmt.Errorf("server.max_upload_mb must be positive, got %d", cfg.Server.MaxUploadMB)
	}

	return &cfg, nil
}

func (c ServerConfig) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}
