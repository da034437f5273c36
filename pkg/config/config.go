// Package config loads the client's environment configuration.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/formsense/formsense/pkg/coach"
	"github.com/formsense/formsense/pkg/coach/live"
	"github.com/formsense/formsense/pkg/plan"
)

// Env variable names.
const (
	EnvAPIKey      = "GEMINI_API_KEY"
	EnvLiveModel   = "FORMSENSE_LIVE_MODEL"
	EnvPlanModel   = "FORMSENSE_PLAN_MODEL"
	EnvVoice       = "FORMSENSE_VOICE"
	EnvHistoryPath = "FORMSENSE_HISTORY"
	EnvCameraW     = "FORMSENSE_CAMERA_WIDTH"
	EnvCameraH     = "FORMSENSE_CAMERA_HEIGHT"
)

// Config is the resolved client configuration.
type Config struct {
	APIKey       string
	LiveModel    string
	PlanModel    string
	Voice        string
	HistoryPath  string
	CameraWidth  int
	CameraHeight int
}

// Load reads a .env file if present, then the environment. A missing API key
// is fatal before any device or session is touched.
func Load() (Config, error) {
	_ = godotenv.Load()

	apiKey := os.Getenv(EnvAPIKey)
	if apiKey == "" {
		return Config{}, coach.NewConfigError(EnvAPIKey + " is not set")
	}

	cfg := Config{
		APIKey:       apiKey,
		LiveModel:    envOr(EnvLiveModel, live.DefaultModel),
		PlanModel:    envOr(EnvPlanModel, plan.DefaultModel),
		Voice:        envOr(EnvVoice, live.DefaultVoice),
		HistoryPath:  envOr(EnvHistoryPath, defaultHistoryPath()),
		CameraWidth:  envOrInt(EnvCameraW, 640),
		CameraHeight: envOrInt(EnvCameraH, 480),
	}
	return cfg, nil
}

// Live returns the live-session configuration slice of the config.
func (c Config) Live() live.Config {
	cfg := live.DefaultConfig(c.APIKey)
	cfg.Model = c.LiveModel
	cfg.Voice = c.Voice
	return cfg
}

// HistoryPath resolves the history database location on its own, for
// commands that never open a session.
func HistoryPath() string {
	_ = godotenv.Load()
	return envOr(EnvHistoryPath, defaultHistoryPath())
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "formsense-history.db"
	}
	return filepath.Join(home, ".formsense", "history.db")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
