package config

import (
	"os"
	"strconv"
	"time"
)

// ApplyEnv накладывает переменные окружения поверх конфигурации.
// Переменные имеют приоритет над YAML файлом.
func ApplyEnv(config *Config) {
	config.Backend.BaseURL = getEnv("INTERVIEW_API_BASE", config.Backend.BaseURL)
	config.Backend.TimeoutSeconds = getEnvAsInt("INTERVIEW_HTTP_TIMEOUT", config.Backend.TimeoutSeconds)
	config.Storage.StateDir = getEnv("INTERVIEW_STATE_DIR", config.Storage.StateDir)
	config.Audio.PlayerCommand = getEnv("INTERVIEW_PLAYER_CMD", config.Audio.PlayerCommand)
	config.Audio.LocalTTSCommand = getEnv("INTERVIEW_LOCAL_TTS_CMD", config.Audio.LocalTTSCommand)
	config.Audio.RecorderCommand = getEnv("INTERVIEW_RECORDER_CMD", config.Audio.RecorderCommand)
}

// Timeout возвращает таймаут HTTP-запросов к бэкенду
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSeconds) * time.Second
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
