package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           int
	TMDBAPIKey     string
	DataDir        string
	CatalogPath    string
	SimilarityPath string
}

// Load reads configuration from the environment, after merging a .env file
// if one is present next to the binary.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dataDir := env("DATA_DIR", "data")
	cfg := &Config{
		Port:           envInt("PORT", 8080),
		TMDBAPIKey:     env("TMDB_API_KEY", ""),
		DataDir:        dataDir,
		CatalogPath:    env("CATALOG_PATH", filepath.Join(dataDir, "movies.json")),
		SimilarityPath: env("SIMILARITY_PATH", filepath.Join(dataDir, "similarity.json")),
	}

	if cfg.TMDBAPIKey == "" {
		return nil, fmt.Errorf("TMDB_API_KEY is required")
	}
	return cfg, nil
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
