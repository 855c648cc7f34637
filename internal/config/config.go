package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "EVENTAGG"

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Library  LibraryConfig  `mapstructure:"library"`
	Events   EventsConfig   `mapstructure:"events"`
}

type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // postgres, sqlite3
	DSN    string `mapstructure:"dsn"`
}

type LogConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type LibraryConfig struct {
	DownloadedEpisodesFolder string   `mapstructure:"downloaded_episodes_folder"`
	SeriesPaths              []string `mapstructure:"series_paths"`
}

// EventsConfig controla o repasse de eventos para o pub/sub em memória do watermill.
type EventsConfig struct {
	Forward     bool   `mapstructure:"forward"`
	TopicPrefix string `mapstructure:"topic_prefix"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("database.driver", "sqlite3")
	v.SetDefault("database.dsn", "rootfolders.db")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "json")

	v.SetDefault("library.downloaded_episodes_folder", "")
	v.SetDefault("library.series_paths", []string{})

	v.SetDefault("events.forward", false)
	v.SetDefault("events.topic_prefix", "rootfolders.")
}

// New cria um viper com defaults, arquivo opcional e variáveis de ambiente.
// configFile vazio procura config.yaml em . e ./configs.
func New(configFile string) *viper.Viper {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load lê o arquivo (se existir) e decodifica a configuração.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Address == "" {
		return errors.New("server.address is required")
	}
	if c.Database.DSN == "" {
		return errors.New("database.dsn is required")
	}
	switch c.Database.Driver {
	case "postgres", "sqlite3", "sqlite":
	default:
		return fmt.Errorf("database.driver %q is not supported", c.Database.Driver)
	}
	return nil
}
