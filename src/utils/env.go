package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const DEV_ENV_FILENAME = ".env.development"
const PROD_ENV_FILENAME = ".env.production"

func GetEnv(key string) (string, error) {
	value, found := os.LookupEnv(key)
	if !found || value == "" {
		return "", fmt.Errorf("GetEnv: %s not set", key)
	}

	return value, nil
}

// GetEnvOrDefault returns fallback when key is unset.
func GetEnvOrDefault(key string, fallback string) string {
	if value, err := GetEnv(key); err == nil {
		return value
	}

	return fallback
}

// InitEnvironmentVariables loads the .env file of goEnv from projectsDir.
// Variables already set in the process environment take precedence.
func InitEnvironmentVariables(projectsDir string, goEnv string) error {
	envFile := filepath.Join(projectsDir, DEV_ENV_FILENAME) // default to development environment
	if goEnv == "production" {
		envFile = filepath.Join(projectsDir, PROD_ENV_FILENAME)
	}

	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		log.Infof("no %s file, using the process environment", envFile)
		return nil
	}

	if err := godotenv.Load(envFile); err != nil {
		return fmt.Errorf("failed to load %s file: %v", envFile, err)
	}

	return nil
}

// ParseLogLevel maps LOG_LEVEL to a logrus level, defaulting to info.
func ParseLogLevel(level string) log.Level {
	if level == "" {
		return log.InfoLevel
	}

	lvl, err := log.ParseLevel(level)
	if err != nil {
		log.Warnf("invalid log level %q, using info", level)
		return log.InfoLevel
	}

	return lvl
}
