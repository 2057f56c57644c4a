package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"mock-interview-cli/internal/api"
	"mock-interview-cli/internal/speech"
)

// Имена файлов фиксированы: перезапуск клиента находит
// их без дополнительных ключей
const (
	snapshotFile = "session.json"
	planFile     = "plan.json"
	setupFile    = "setup.json"
	voiceFile    = "voice_settings.json"
	answersFile  = "answer_log.json"
)

// Store хранит состояние клиента в JSON-файлах внутри одной директории
type Store struct {
	dir string
}

// New создает хранилище в указанной директории
func New(dir string) *Store {
	return &Store{dir: dir}
}

// SaveSnapshot сохраняет последний обмен с бэкендом
func (s *Store) SaveSnapshot(snapshot *Snapshot) error {
	return s.writeJSON(snapshotFile, snapshot)
}

// LoadSnapshot загружает сохраненную сессию.
// Отсутствие файла — это не ошибка, а «сессии нет».
func (s *Store) LoadSnapshot() (*Snapshot, error) {
	var snapshot Snapshot
	ok, err := s.readJSON(snapshotFile, &snapshot)
	if err != nil || !ok {
		return nil, err
	}
	if snapshot.SessionID == "" {
		return nil, nil
	}
	return &snapshot, nil
}

// ClearSnapshot удаляет сохраненную сессию
func (s *Store) ClearSnapshot() error {
	return s.remove(snapshotFile)
}

// SavePlan сохраняет предварительный план интервью
func (s *Store) SavePlan(plan *api.PlanResponse) error {
	return s.writeJSON(planFile, plan)
}

// LoadPlan загружает сохраненный план, nil если его нет
func (s *Store) LoadPlan() (*api.PlanResponse, error) {
	var plan api.PlanResponse
	ok, err := s.readJSON(planFile, &plan)
	if err != nil || !ok {
		return nil, err
	}
	return &plan, nil
}

// SaveSetup сохраняет параметры запуска интервью
func (s *Store) SaveSetup(setup *SetupParams) error {
	return s.writeJSON(setupFile, setup)
}

// LoadSetup загружает параметры запуска, nil если их нет
func (s *Store) LoadSetup() (*SetupParams, error) {
	var setup SetupParams
	ok, err := s.readJSON(setupFile, &setup)
	if err != nil || !ok {
		return nil, err
	}
	return &setup, nil
}

// SaveVoiceSettings сохраняет настройки голосового режима
func (s *Store) SaveVoiceSettings(settings speech.Settings) error {
	return s.writeJSON(voiceFile, settings)
}

// LoadVoiceSettings загружает настройки голосового режима.
// Если файла нет, возвращаются настройки по умолчанию.
func (s *Store) LoadVoiceSettings() (speech.Settings, error) {
	settings := speech.DefaultSettings()
	ok, err := s.readJSON(voiceFile, &settings)
	if err != nil {
		return speech.DefaultSettings(), err
	}
	if !ok {
		return speech.DefaultSettings(), nil
	}
	return settings, nil
}

// AppendAnswer дописывает запись в журнал ответов
func (s *Store) AppendAnswer(entry AnswerEntry) error {
	var entries []AnswerEntry
	if _, err := s.readJSON(answersFile, &entries); err != nil {
		return err
	}
	entries = append(entries, entry)
	return s.writeJSON(answersFile, entries)
}

// LoadAnswers возвращает весь журнал ответов
func (s *Store) LoadAnswers() ([]AnswerEntry, error) {
	var entries []AnswerEntry
	if _, err := s.readJSON(answersFile, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Clear удаляет все состояние сессии, кроме настроек голоса
func (s *Store) Clear() error {
	for _, name := range []string{snapshotFile, planFile, setupFile, answersFile} {
		if err := s.remove(name); err != nil {
			return err
		}
	}
	return nil
}

// writeJSON сериализует значение с отступами и пишет его в файл
func (s *Store) writeJSON(name string, value interface{}) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("ошибка создания директории %s: %w", s.dir, err)
	}

	jsonData, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("ошибка сериализации %s: %w", name, err)
	}

	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return fmt.Errorf("ошибка записи файла %s: %w", path, err)
	}
	return nil
}

// readJSON читает файл в значение; false — файла нет
func (s *Store) readJSON(name string, value interface{}) (bool, error) {
	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("ошибка чтения файла %s: %w", path, err)
	}

	if err := json.Unmarshal(data, value); err != nil {
		return false, fmt.Errorf("ошибка десериализации %s: %w", path, err)
	}
	return true, nil
}

// remove удаляет файл, игнорируя его отсутствие
func (s *Store) remove(name string) error {
	path := filepath.Join(s.dir, name)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("ошибка удаления файла %s: %w", path, err)
	}
	return nil
}
