package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

type Config struct {
	LogLevel   string  `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	LogFile    LogFile `yaml:"log-file"`
	HTTPPort   string  `yaml:"http-port" env:"PORT" env-default:"3002"`
	SocketPort string  `yaml:"socket-port" env:"SOCKET_PORT" env-default:"3003"`
	CORSOrigin string  `yaml:"cors-origin" env:"CORS_ORIGIN" env-default:"http://localhost:3000"`

	SessionStore    string        `yaml:"session-store" env:"SESSION_STORE" env-default:"memory"`
	SessionTTL      time.Duration `yaml:"session-ttl" env:"SESSION_TTL" env-default:"24h"`
	SessionCapacity int           `yaml:"session-capacity" env:"SESSION_CAPACITY" env-default:"10000"`

	Redis       Redis     `yaml:"redis"`
	JournalPath string    `yaml:"journal-path" env:"JOURNAL_PATH" env-default:"fairchain.db"`
	Stellar     Stellar   `yaml:"stellar"`
	Retry       Retry     `yaml:"retry"`
	RateLimit   RateLimit `yaml:"rate-limit"`
}

type LogFile struct {
	Path       string `yaml:"path" env:"LOG_FILE" env-default:""`
	MaxSizeMB  int    `yaml:"max-size-mb" env-default:"100"`
	MaxBackups int    `yaml:"max-backups" env-default:"3"`
	MaxAgeDays int    `yaml:"max-age-days" env-default:"28"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

type Stellar struct {
	HorizonURL        string        `yaml:"horizon-url" env:"HORIZON_URL" env-default:"https://horizon-testnet.stellar.org"`
	FriendbotURL      string        `yaml:"friendbot-url" env:"FRIENDBOT_URL" env-default:"https://friendbot.stellar.org"`
	NetworkPassphrase string        `yaml:"network-passphrase" env:"NETWORK_PASSPHRASE" env-default:"Test SDF Network ; September 2015"`
	BaseFee           int64         `yaml:"base-fee" env-default:"100"`
	TxTimeout         int64         `yaml:"tx-timeout-seconds" env-default:"30"`
	RequestTimeout    time.Duration `yaml:"request-timeout" env-default:"30s"`
}

type Retry struct {
	InitialInterval time.Duration `yaml:"initial-interval" env-default:"500ms"`
	MaxInterval     time.Duration `yaml:"max-interval" env-default:"5s"`
	MaxElapsedTime  time.Duration `yaml:"max-elapsed-time" env-default:"20s"`
}

type RateLimit struct {
	Disabled bool    `yaml:"disabled" env:"RATE_LIMIT_DISABLED"`
	Rate     float64 `yaml:"rate" env-default:"5"`
	Burst    int64   `yaml:"burst" env-default:"20"`
}

// MustLoad - load all configurations from the config file, falling back to the environment when the file is absent.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err = cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("failed to read env: %w", err)
		}

		return config, nil
	}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
