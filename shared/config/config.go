package config

import (
	"fmt"
	"os"
	"path"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

// EnvPrefix is prepended to every environment override, e.g. AUTHCORE_JWT_KEY.
const EnvPrefix = "AUTHCORE_"

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	HttpPort int `yaml:"http_port" env:"HTTP_PORT" validate:"required,min=1,max=65535"`
	// Zero means tokens never expire and live until logout.
	JwtTTL         time.Duration `yaml:"jwt_ttl" env:"JWT_TTL"`
	BcryptCost     int           `yaml:"bcrypt_cost" env:"BCRYPT_COST" validate:"omitempty,min=4,max=31"`
	LogLevel       string        `yaml:"log_level" env:"LOG_LEVEL"`
	LogJSON        bool          `yaml:"log_json" env:"LOG_JSON"`
	AllowedOrigins []string      `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" envSeparator:","`
	SecureHeaders  bool          `yaml:"secure_headers" env:"SECURE_HEADERS"` // adds HSTS, enable behind https
}

type Pg struct {
	Host     string `yaml:"host" env:"HOST" validate:"required"`
	Port     int    `yaml:"port" env:"PORT" validate:"required"`
	User     string `yaml:"user" env:"USER" validate:"required"`
	Password string `yaml:"password" env:"PASSWORD"`
	Dbname   string `yaml:"dbname" env:"DBNAME" validate:"required"`
}

type Private struct {
	Pg     Pg     `yaml:"pg" envPrefix:"PG_"`
	JwtKey string `yaml:"jwt_key" env:"JWT_KEY" validate:"required"`
}

func (c *Config) JwtKey() string {
	return c.Private.JwtKey
}

func (c *Config) JwtTTL() time.Duration {
	return c.Public.JwtTTL
}

func loadPath(configPath string, output interface{}) error {
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("config file does not exist: %s", configPath)
		}
		return fmt.Errorf("can't read config file %s: %w", configPath, err)
	}
	if err := yaml.Unmarshal(configFile, output); err != nil {
		return fmt.Errorf("can't unmarshal config file %s: %w", configPath, err)
	}
	return nil
}

// MustLoad reads public.yaml and, if present, private.yaml from configFolder,
// then applies AUTHCORE_* environment overrides. Panics on any error or on a
// missing required field.
func MustLoad(configFolder string) *Config {
	cfg, err := Load(configFolder)
	if err != nil {
		panic(err.Error())
	}
	return cfg
}

func Load(configFolder string) (*Config, error) {
	var cfg Config
	if err := loadPath(path.Join(configFolder, "public.yaml"), &cfg.Public); err != nil {
		return nil, err
	}

	// secrets may come from the environment only
	privatePath := path.Join(configFolder, "private.yaml")
	if _, err := os.Stat(privatePath); err == nil {
		if err := loadPath(privatePath, &cfg.Private); err != nil {
			return nil, err
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("can't parse environment: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
