package config

// Config представляет конфигурацию клиента интервью
type Config struct {
	Backend BackendConfig `yaml:"backend"`
	Audio   AudioConfig   `yaml:"audio"`
	Storage StorageConfig `yaml:"storage"`
}

// BackendConfig содержит параметры подключения к бэкенду
type BackendConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// AudioConfig содержит внешние команды для работы со звуком
type AudioConfig struct {
	PlayerCommand   string `yaml:"player_command"`
	LocalTTSCommand string `yaml:"local_tts_command"`
	RecorderCommand string `yaml:"recorder_command"`
	ChunkSeconds    int    `yaml:"chunk_seconds"`
}

// StorageConfig содержит настройки локального хранилища
type StorageConfig struct {
	StateDir string `yaml:"state_dir"`
}

// Default возвращает конфигурацию по умолчанию:
// локальный бэкенд и стандартные linux-команды для звука
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			BaseURL:        "http://localhost:8000",
			TimeoutSeconds: 60,
		},
		Audio: AudioConfig{
			PlayerCommand:   "aplay",
			LocalTTSCommand: "espeak",
			RecorderCommand: "arecord",
			ChunkSeconds:    5,
		},
		Storage: StorageConfig{
			StateDir: "state",
		},
	}
}
