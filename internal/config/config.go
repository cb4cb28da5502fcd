package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultDotEnvFile = ".env"

type Config struct {
	Client  ClientConfig  `yaml:"client"`
	Service ServiceConfig `yaml:"service"`
}

// ClientConfig configures the terminal client and its backend connection.
type ClientConfig struct {
	ServerURL     string        `yaml:"server_url"`
	HTTPTimeout   time.Duration `yaml:"http_timeout"`
	TimeBudget    int           `yaml:"time_budget"`
	RedirectDelay time.Duration `yaml:"redirect_delay"`
}

// ServiceConfig configures the local stand-in backend.
type ServiceConfig struct {
	Addr          string `yaml:"addr"`
	DBPath        string `yaml:"db_path"`
	BankPath      string `yaml:"bank_path"`
	QuestionCount int    `yaml:"question_count"`
}

func Default() Config {
	return Config{
		Client: ClientConfig{
			ServerURL:     "http://127.0.0.1:8080",
			HTTPTimeout:   10 * time.Second,
			TimeBudget:    3600,
			RedirectDelay: 3 * time.Second,
		},
		Service: ServiceConfig{
			Addr:          ":8080",
			DBPath:        "interview.db",
			BankPath:      "configs/questions.yaml",
			QuestionCount: 5,
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file, a .env
// file in the working directory and the process environment, in that order of
// precedence.
func Load(file string) (Config, error) {
	return load(file, DefaultDotEnvFile, os.LookupEnv)
}

func load(file, dotEnvFile string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if strings.TrimSpace(file) != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", file, err)
		}
	}

	dotEnv, err := readDotEnv(dotEnvFile)
	if err != nil {
		return Config{}, err
	}
	env := func(key string) (string, bool) {
		if value, ok := lookup(key); ok {
			return value, true
		}
		value, ok := dotEnv[key]
		return value, ok
	}

	if err := applyEnv(&cfg, env); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func readDotEnv(path string) (map[string]string, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	values, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return values, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Client.ServerURL) == "" {
		return errors.New("client.server_url is required")
	}
	if c.Client.HTTPTimeout <= 0 {
		return errors.New("client.http_timeout must be positive")
	}
	if c.Client.TimeBudget <= 0 {
		return errors.New("client.time_budget must be positive")
	}
	if c.Client.RedirectDelay < 0 {
		return errors.New("client.redirect_delay cannot be negative")
	}
	if strings.TrimSpace(c.Service.Addr) == "" {
		return errors.New("service.addr is required")
	}
	if strings.TrimSpace(c.Service.DBPath) == "" {
		return errors.New("service.db_path is required")
	}
	if c.Service.QuestionCount <= 0 {
		return errors.New("service.question_count must be positive")
	}
	return nil
}
