package config

import (
	"os"
	"strconv"
)

// Config holds environment-driven configuration.
type Config struct {
	Addr         string
	DatabaseURL  string
	JWTSecret    string
	AllowOrigins string
	// TopN is the maximum number of entries a recommendation response carries.
	TopN int
}

// Load reads configuration from environment variables.
func Load() Config {
	addr := os.Getenv("SHOP_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	origins := os.Getenv("CORS_ALLOW_ORIGINS")
	if origins == "" {
		origins = "*"
	}

	topN := 5
	if raw := os.Getenv("RECOMMEND_TOP_N"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			topN = v
		}
	}

	return Config{
		Addr:         addr,
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		AllowOrigins: origins,
		TopN:         topN,
	}
}
