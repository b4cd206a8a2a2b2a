package config

import (
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

type Configs struct {
	Env string `toml:"env"`

	Database  DatabaseConfigs  `toml:"database"`
	ApiServer APIServerConfigs `toml:"api_server"`
	Auth      AuthConfigs      `toml:"auth"`
	Redis     RedisConfigs     `toml:"redis"`
	Log       LogConfigs       `toml:"log"`
}

type DatabaseConfigs struct {
	// Driver is either "mysql" or "sqlite".
	Driver string `toml:"driver"`
	DSN    string `toml:"dsn"`

	MaxOpenConns int `toml:"max_open_conns"`
	MaxIdleConns int `toml:"max_idle_conns"`
}

type APIServerConfigs struct {
	Host           string   `toml:"host"`
	Port           string   `toml:"port"`
	AllowedOrigins []string `toml:"allowed_origins"`

	// TrustedProxies lists the proxy addresses or CIDRs whose forwarding
	// headers are honored. Client addresses come from the connection when it
	// is empty.
	TrustedProxies []string `toml:"trusted_proxies"`
}

type AuthConfigs struct {
	TokenSecret     string        `toml:"token_secret"`
	TokenExpiration time.Duration `toml:"token_expiration"`
}

type RedisConfigs struct {
	// Addr is optional. The published results are not cached when it is empty.
	Addr       string        `toml:"addr"`
	ResultsTTL time.Duration `toml:"results_ttl"`
}

type LogConfigs struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

func Default() Configs {
	return Configs{
		Env: "local",
		Database: DatabaseConfigs{
			Driver:       "sqlite",
			DSN:          "raffle.db",
			MaxOpenConns: 1,
		},
		ApiServer: APIServerConfigs{
			Host:           "0.0.0.0",
			Port:           "8080",
			AllowedOrigins: []string{"*"},
		},
		Auth: AuthConfigs{
			TokenExpiration: 24 * time.Hour,
		},
		Redis: RedisConfigs{
			ResultsTTL: time.Minute,
		},
		Log: LogConfigs{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads the TOML file at path on top of the default configurations, then
// applies environment overrides. An empty path only applies the overrides.
func Load(path string) (Configs, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Configs{}, err
		}
	}

	overrideString(&cfg.Database.Driver, "RAFFLE_DB_DRIVER")
	overrideString(&cfg.Database.DSN, "RAFFLE_DB_DSN")
	overrideString(&cfg.ApiServer.Port, "RAFFLE_API_PORT")
	overrideString(&cfg.Auth.TokenSecret, "RAFFLE_TOKEN_SECRET")
	overrideString(&cfg.Redis.Addr, "RAFFLE_REDIS_ADDR")
	overrideString(&cfg.Log.Level, "RAFFLE_LOG_LEVEL")

	if v := os.Getenv("RAFFLE_DB_MAX_OPEN_CONNS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Configs{}, err
		}
		cfg.Database.MaxOpenConns = n
	}

	return cfg, nil
}

func overrideString(dst *string, env string) {
	if v, ok := os.LookupEnv(env); ok {
		*dst = v
	}
}
