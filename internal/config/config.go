package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ProjectID     string
	BrandDataset  string
	CustomDataset string

	StoreDriver string
	DBPath      string
	PostgresDSN string

	ObjectStoreDriver string
	LocalObjectDir    string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string
	GoogleRefreshToken string

	SlackWebhookURL string

	Port                int
	EventDedupWindowSec int

	OutputDir string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		ProjectID:     getEnv("PROJECT_ID", "lemonade-brand-survey-tracker"),
		BrandDataset:  getEnv("BRAND_DATASET", "new_brand_survey"),
		CustomDataset: getEnv("CUSTOM_DATASET", "new_custom_brand_survey"),

		StoreDriver: getEnv("STORE_DRIVER", "sqlite"),
		DBPath:      getEnv("DB_PATH", filepath.Join(cwd, "data", "warehouse.db")),
		PostgresDSN: getEnv("POSTGRES_DSN", ""),

		ObjectStoreDriver: getEnv("OBJECT_STORE_DRIVER", "local"),
		LocalObjectDir:    getEnv("LOCAL_OBJECT_DIR", filepath.Join(cwd, "data", "objects")),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURI:  getEnv("GOOGLE_REDIRECT_URI", "https://developers.google.com/oauthplayground"),
		GoogleRefreshToken: getEnv("GOOGLE_REFRESH_TOKEN", ""),

		SlackWebhookURL: getEnv("SLACK_WEBHOOK_URL", ""),

		Port:                getEnvInt("PORT", 8080),
		EventDedupWindowSec: getEnvInt("EVENT_DEDUP_WINDOW_SEC", 60),

		OutputDir: getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),
	}

	return cfg, nil
}

// BrandTableID returns the fully qualified id of a table in the brand dataset.
func (c Config) BrandTableID(table string) string {
	return fmt.Sprintf("%s.%s.%s", c.ProjectID, c.BrandDataset, table)
}

// CustomTableID returns the fully qualified id of a table in the custom dataset.
func (c Config) CustomTableID(table string) string {
	return fmt.Sprintf("%s.%s.%s", c.ProjectID, c.CustomDataset, table)
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
