package queue

import (
	"errors"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// LoadConfig parses a backend Config from environment variables.
//
// When envFiles are given they are loaded first and a missing file is an error.
// Without envFiles a .env file in the working directory is loaded if present.
// Variables already set in the environment are never overridden.
func LoadConfig[T any](envFiles ...string) (T, error) {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			var zero T
			return zero, errors.Join(ErrInvalidConfig, err)
		}
	} else {
		// The .env file is optional.
		_ = godotenv.Load()
	}

	cfg, err := env.ParseAs[T]()
	if err != nil {
		return cfg, errors.Join(ErrInvalidConfig, err)
	}

	return cfg, nil
}
