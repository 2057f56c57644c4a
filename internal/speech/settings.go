package speech

// Settings представляет настройки голосового режима.
// Объект загружается из локального хранилища при старте
// и сохраняется при каждом изменении.
type Settings struct {
	Enabled bool   `json:"enabled"`
	Voice   string `json:"voice"`
}

// DefaultSettings возвращает настройки по умолчанию
func DefaultSettings() Settings {
	return Settings{
		Enabled: false,
		Voice:   "rachel",
	}
}
