package config

import (
	"fmt"
	"time"

	"github.com/taskport/worker-match-system/pkg/configparser"
)

// Config contains all configuration variables of the application
type (
	Config struct {
		Server   ServerConfig
		Database DatabaseConfig
		RabbitMQ RabbitMQConfig
		Redis    RedisConfig
		Geocoder GeocoderConfig
		Booking  BookingConfig
		Search   SearchConfig
		Dispatch DispatchConfig
		Auth     AuthConfig
	}

	ServerConfig struct {
		Port     string `env:"SERVER_PORT" default:"3000"`
		LogLevel string `env:"SERVER_LOGLEVEL" default:"DEBUG"`
	}

	DatabaseConfig struct {
		Host     string `env:"DATABASE_HOST" default:"localhost"`
		Port     string `env:"DATABASE_PORT" default:"5432"`
		User     string `env:"DATABASE_USER" default:"market_user"`
		Password string `env:"DATABASE_PASSWORD" default:"market_pass"`
		Database string `env:"DATABASE_DATABASE" default:"market_db"`

		MaxConns        int32         `env:"DATABASE_MAXCONNS" default:"20"`
		MinConns        int32         `env:"DATABASE_MINCONNS" default:"2"`
		MaxConnLifetime time.Duration `env:"DATABASE_MAXCONNLIFETIME" default:"30m"`
		MaxConnIdleTime time.Duration `env:"DATABASE_MAXCONNIDLETIME" default:"5m"`
	}

	RabbitMQConfig struct {
		Host     string `env:"RABBITMQ_HOST" default:"localhost"`
		Port     string `env:"RABBITMQ_PORT" default:"5672"`
		User     string `env:"RABBITMQ_USER" default:"guest"`
		Password string `env:"RABBITMQ_PASSWORD" default:"guest"`
	}

	RedisConfig struct {
		Host     string        `env:"REDIS_HOST" default:"localhost"`
		Port     string        `env:"REDIS_PORT" default:"6379"`
		Password string        `env:"REDIS_PASSWORD"`
		CacheTTL time.Duration `env:"REDIS_CACHETTL" default:"24h"`
	}

	// GeocoderConfig configures the LocationIQ client. The key is secret and
	// must come from the environment, never from a committed file.
	GeocoderConfig struct {
		APIKey    string        `env:"GEOCODER_APIKEY"`
		BaseURL   string        `env:"GEOCODER_BASEURL" default:"https://us1.locationiq.com"`
		Timeout   time.Duration `env:"GEOCODER_TIMEOUT" default:"8s"`
		CallDelay time.Duration `env:"GEOCODER_CALLDELAY" default:"600ms"`
	}

	BookingConfig struct {
		BaseURL string        `env:"BOOKING_BASEURL" default:"http://localhost:4000"`
		Timeout time.Duration `env:"BOOKING_TIMEOUT" default:"10s"`
	}

	SearchConfig struct {
		DefaultRadiusMiles float64 `env:"SEARCH_DEFAULTRADIUSMILES" default:"10"`
		MaxRadiusMiles     float64 `env:"SEARCH_MAXRADIUSMILES" default:"50"`

		// Degree-per-mile approximations for the bounding-box prefilter.
		// Valid at mid-northern latitudes; see service/discovery.
		MilesPerDegreeLat float64 `env:"SEARCH_MILESPERDEGREELAT" default:"69"`
		MilesPerDegreeLon float64 `env:"SEARCH_MILESPERDEGREELON" default:"54.6"`
	}

	DispatchConfig struct {
		Workers int `env:"DISPATCH_WORKERS" default:"4"`
	}

	AuthConfig struct {
		JWTSecret string `env:"AUTH_JWT_SECRET" default:"supersecretkey"`
	}
)

func (c DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// PoolLimits exposes the connection pool settings for the pgx pool.
func (c DatabaseConfig) PoolLimits() (maxConns, minConns int32, maxConnLifetime, maxConnIdleTime time.Duration) {
	return c.MaxConns, c.MinConns, c.MaxConnLifetime, c.MaxConnIdleTime
}

func (c RabbitMQConfig) GetDSN() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/",
		c.User,
		c.Password,
		c.Host,
		c.Port,
	)
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func NewConfig(filepath string) (*Config, error) {
	cfg := &Config{}

	// Loading environment variables and parsing into the config struct.
	if err := configparser.LoadAndParseYaml(filepath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load and parse config: %w", err)
	}

	return cfg, nil
}
