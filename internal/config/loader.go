package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load загружает конфигурацию из YAML файла.
// Если файла нет, используются значения по умолчанию.
func Load(filename string) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("ошибка чтения файла %s: %w", filename, err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("ошибка парсинга YAML: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("ошибка валидации конфигурации: %w", err)
	}

	return config, nil
}

// validateConfig проверяет корректность конфигурации
func validateConfig(config *Config) error {
	if config.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url не может быть пустым")
	}

	if config.Backend.TimeoutSeconds <= 0 {
		return fmt.Errorf("backend.timeout_seconds должно быть больше 0")
	}

	if config.Audio.ChunkSeconds <= 0 {
		return fmt.Errorf("audio.chunk_seconds должно быть больше 0")
	}

	if config.Storage.StateDir == "" {
		return fmt.Errorf("storage.state_dir не может быть пустым")
	}

	return nil
}
