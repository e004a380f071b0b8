package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads dotenv files in priority order: .env.<APP_ENV>.local, .env.local,
// .env.<APP_ENV>, .env. godotenv.Load never overwrites variables that are already set,
// so the process environment always wins and earlier files win over later ones.
// Returns the files actually loaded.
func LoadDotEnv() []string {
	env := os.Getenv("APP_ENV")

	var candidates []string
	if env != "" {
		candidates = append(candidates, ".env."+env+".local")
	}
	candidates = append(candidates, ".env.local")
	if env != "" {
		candidates = append(candidates, ".env."+env)
	}
	candidates = append(candidates, ".env")

	var loaded []string
	for _, f := range candidates {
		if _, err := os.Stat(f); err == nil {
			loaded = append(loaded, f)
		}
	}
	if len(loaded) > 0 {
		_ = godotenv.Load(loaded...)
	}
	return loaded
}
