package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

// loadDotEnv exports variables from a dotenv file into the process
// environment so the APP_ provider sees them. Variables already set in the
// environment win. A missing file is not an error.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return godotenv.Load(path)
}
