package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/akeren/portfolio-api/internal/log"
	"github.com/akeren/portfolio-api/pkg/utils"
	"github.com/joho/godotenv"
)

const (
	AppEnvKey      = "APP_ENV"
	SkipDotenvKey  = "SKIP_DOTENV"
	DotenvFilesKey = "DOTENV_FILES"
)

// devLikeEnvs lists the APP_ENV values for which --auto-migrate is accepted.
var devLikeEnvs = map[string]struct{}{
	"":            {},
	"dev":         {},
	"development": {},
	"local":       {},
	"test":        {},
	"testing":     {},
}

// dotenvFiles returns the files named by DOTENV_FILES, or nil to let godotenv
// fall back to ./.env.
func dotenvFiles() []string {
	raw := utils.GetEnvTrimmed(DotenvFilesKey)
	if raw == "" {
		return nil
	}

	var files []string
	for _, f := range strings.Split(raw, ",") {
		if f = strings.TrimSpace(f); f != "" {
			files = append(files, f)
		}
	}

	return files
}

// InitializeEnvFile loads .env style files into the process environment.
// Variables already set in the environment are never overwritten.
func InitializeEnvFile(logger *log.Logger) {
	if utils.GetEnvBoolOrDefault(SkipDotenvKey, false) {
		logger.Info("Skipping .env file load", "flag", SkipDotenvKey)
		return
	}

	files := dotenvFiles()
	if err := godotenv.Load(files...); err != nil {
		logger.Warn("No .env file loaded", "files", files, "error", err.Error())
		return
	}

	logger.Info("Environment loaded from .env file", "files", files)
}

func GetValueFromEnvironmentVariable(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultValue
}

func GetAppEnv() string {
	return strings.ToLower(utils.GetEnvTrimmed(AppEnvKey))
}

func ValidateAutoMigrateAllowed(appEnv string) error {
	env := strings.ToLower(strings.TrimSpace(appEnv))
	if _, ok := devLikeEnvs[env]; ok {
		return nil
	}

	allowed := make([]string, 0, len(devLikeEnvs))
	for name := range devLikeEnvs {
		allowed = append(allowed, fmt.Sprintf("%q", name))
	}
	sort.Strings(allowed)

	return fmt.Errorf("--auto-migrate is not allowed when %s=%q (allowed: %s)", AppEnvKey, env, strings.Join(allowed, ", "))
}
