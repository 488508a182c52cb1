package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	ServerPort string `env:"SERVER_PORT" envDefault:"8080"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"roomie"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"roomie_dev_password"`
	DBName     string `env:"DB_NAME" envDefault:"roomie"`

	// Nominatim-compatible geocoding endpoint. Lookups abort after
	// GeocodeTimeout so a slow provider can't hang registration.
	GeocoderURL    string        `env:"GEOCODER_URL" envDefault:"https://nominatim.openstreetmap.org"`
	GeocodeTimeout time.Duration `env:"GEOCODE_TIMEOUT" envDefault:"5s"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
