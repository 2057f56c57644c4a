package storage

import (
	"mock-interview-cli/internal/api"
)

// Snapshot — зеркало последнего обмена с бэкендом.
// По нему клиент возобновляет сессию после перезапуска,
// не дергая бэкенд заново.
type Snapshot struct {
	SessionID string                `json:"session_id"`
	SavedAt   string                `json:"saved_at"`
	Exchange  *api.ExchangeResponse `json:"exchange"`
}

// SetupParams — параметры, с которыми запускалось интервью.
// Нужны повторно для плана и ATS-проверки.
type SetupParams struct {
	ResumePath        string `json:"resume_path,omitempty"`
	JobDescription    string `json:"job_description"`
	YearsOfExperience int    `json:"years_of_experience"`
	JobRole           string `json:"job_role"`
	CompanyName       string `json:"company_name"`
}

// AnswerEntry — одна запись журнала ответов
type AnswerEntry struct {
	ID         string `json:"id"`
	RoundTitle string `json:"round_title"`
	RoundType  string `json:"round_type"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Timestamp  string `json:"timestamp"`
}
