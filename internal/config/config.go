package config

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
)

// Config is loaded from DECOHOGAR_* environment variables, flags and the
// YAML files config.yaml or /etc/decohogar/config.yaml. A .env file in the
// working directory is read first and never overrides the real environment.
type Config struct {
	Addr            string        `default:":8080" usage:"HTTP listen address"`
	DBDSN           string        `env:"DB_DSN" flag:"db-dsn" default:"decohogar.db" usage:"SQLite database file"`
	LogFile         string        `usage:"Extra log sink besides stdout"`
	LogLevel        string        `default:"info" usage:"debug, info, warn or error"`
	BodyLimit       int           `default:"1048576" usage:"Max request body in bytes"`
	Seed            bool          `default:"false" usage:"Insert the demo catalog into an empty database"`
	ReadTimeout     time.Duration `default:"15s" usage:"Max time to read a request"`
	WriteTimeout    time.Duration `default:"15s" usage:"Max time to write a response"`
	ShutdownTimeout time.Duration `default:"10s" usage:"Graceful shutdown deadline"`
	JWT             JWTConfig
	Hash            HashConfig
	Redis           RedisConfig
	RateLimit       LimitConfig
	LoginLimit      LimitConfig
}

type JWTConfig struct {
	Secret     string        `usage:"HS256 signing secret (required, 16+ bytes)"`
	Issuer     string        `default:"decohogar" usage:"Token issuer"`
	AccessTTL  time.Duration `default:"15m" usage:"Access token lifetime"`
	RefreshTTL time.Duration `default:"168h" usage:"Refresh token lifetime"`
}

type HashConfig struct {
	Iterations int `default:"260000" usage:"PBKDF2 iterations for new hashes"`
}

// RedisConfig enables the cart cache when Addr is set.
type RedisConfig struct {
	Addr     string        `usage:"Redis address, empty disables the cart cache"`
	Password string        `usage:"Redis password"`
	DB       int           `default:"0" usage:"Redis database"`
	TTL      time.Duration `default:"15m" usage:"Cart snapshot TTL"`
}

type LimitConfig struct {
	Max    int           `usage:"Max requests per window"`
	Window time.Duration `usage:"Limiter window"`
}

// Load reads the configuration. args are the command line flags without the
// program name.
func Load(args []string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrap(err, "load .env")
	}

	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "DECOHOGAR",
		Args:      args,
		Files:     []string{"config.yaml", "/etc/decohogar/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills the limiter settings left at zero and honours the
// platform PORT variable.
func (c *Config) applyDefaults() {
	if c.RateLimit.Max <= 0 {
		c.RateLimit.Max = 120
	}
	if c.RateLimit.Window <= 0 {
		c.RateLimit.Window = time.Minute
	}
	if c.LoginLimit.Max <= 0 {
		c.LoginLimit.Max = 5
	}
	if c.LoginLimit.Window <= 0 {
		c.LoginLimit.Window = 10 * time.Minute
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == ":8080" {
		c.Addr = ":" + port
	}
}

func (c *Config) Validate() error {
	switch {
	case c.JWT.Secret == "":
		return errors.New("jwt secret is required: set DECOHOGAR_JWT_SECRET")
	case len(c.JWT.Secret) < 16:
		return errors.New("jwt secret must be at least 16 bytes")
	case c.JWT.AccessTTL <= 0 || c.JWT.RefreshTTL <= 0:
		return errors.New("token lifetimes must be positive")
	case c.JWT.RefreshTTL < c.JWT.AccessTTL:
		return errors.New("refresh ttl must not be shorter than access ttl")
	case c.Hash.Iterations < 1:
		return errors.New("hash iterations must be positive")
	case c.BodyLimit <= 0:
		return errors.New("body limit must be positive")
	}
	return nil
}
