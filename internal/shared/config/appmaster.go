package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// AppMasterConfig contains all configuration for the status API service.
type AppMasterConfig struct {
	REST    RESTConfig    `mapstructure:"rest"`
	GRPC    GRPCConfig    `mapstructure:"grpc"`
	Auth    AuthConfig    `mapstructure:"auth"`
	App     AppConfig     `mapstructure:"app"`
	Model   ModelConfig   `mapstructure:"model"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// RESTConfig contains REST API server configuration.
type RESTConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// GRPCConfig contains configuration of the gRPC health endpoint.
type GRPCConfig struct {
	Addr             string        `mapstructure:"addr"`
	EnableReflection bool          `mapstructure:"enable_reflection"`
	KeepaliveMinTime time.Duration `mapstructure:"keepalive_min_time"`
}

// AuthConfig controls how callers are identified and whether anonymous
// callers may view jobs.
type AuthConfig struct {
	RequireAuthentication bool   `mapstructure:"require_authentication"`
	UserHeader            string `mapstructure:"user_header"`
	AllowQueryUser        bool   `mapstructure:"allow_query_user"`
}

// AppConfig describes the application served at the API root.
type AppConfig struct {
	ID   string `mapstructure:"id"`
	Name string `mapstructure:"name"`
	User string `mapstructure:"user"`
}

// ModelConfig points at the job model to serve.
type ModelConfig struct {
	Snapshot   string `mapstructure:"snapshot"`
	StagingDir string `mapstructure:"staging_dir"`
}

// LoadAppMaster loads the configuration from the given path.
// If configPath is empty, it looks for appmaster.yaml in the config/ directory.
// Environment variables with AMSTATUS_ prefix override config file values.
func LoadAppMaster(configPath string) (*AppMasterConfig, error) {
	v := viper.New()

	v.SetDefault("rest.addr", ":8080")
	v.SetDefault("rest.read_timeout", 15*time.Second)
	v.SetDefault("rest.write_timeout", 15*time.Second)
	v.SetDefault("rest.idle_timeout", 60*time.Second)
	v.SetDefault("grpc.addr", ":9090")
	v.SetDefault("grpc.enable_reflection", true)
	v.SetDefault("grpc.keepalive_min_time", 30*time.Second)
	v.SetDefault("auth.require_authentication", false)
	v.SetDefault("auth.user_header", "X-Remote-User")
	v.SetDefault("auth.allow_query_user", true)
	v.SetDefault("app.id", "application_0_0000")
	v.SetDefault("app.name", "MapReduce")
	v.SetDefault("app.user", "")
	v.SetDefault("model.snapshot", "")
	v.SetDefault("model.staging_dir", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("appmaster")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("AMSTATUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg AppMasterConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}
