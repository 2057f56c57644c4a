package session

import "time"

// RoundType — закрытый тип раунда интервью.
// Новый тип раунда добавляется здесь и в исчерпывающих switch ниже.
type RoundType int

const (
	RoundBehavioral RoundType = iota
	RoundTechnical
	RoundDSA
	RoundMCQ
)

// ParseRoundType разбирает тип раунда из ответа бэкенда.
// Незнакомые типы трактуются как behavioral — свободный текст.
func ParseRoundType(s string) RoundType {
	switch s {
	case "technical":
		return RoundTechnical
	case "dsa":
		return RoundDSA
	case "mcq":
		return RoundMCQ
	default:
		return RoundBehavioral
	}
}

// String возвращает имя типа в формате бэкенда
func (t RoundType) String() string {
	switch t {
	case RoundTechnical:
		return "technical"
	case RoundDSA:
		return "dsa"
	case RoundMCQ:
		return "mcq"
	default:
		return "behavioral"
	}
}

// Duration возвращает длительность раунда.
// Чистая функция типа: technical/dsa — 45 минут, mcq — 2, остальные — 8.
func (t RoundType) Duration() time.Duration {
	switch t {
	case RoundTechnical, RoundDSA:
		return 45 * time.Minute
	case RoundMCQ:
		return 2 * time.Minute
	default:
		return 8 * time.Minute
	}
}

// IsCode сообщает, отвечает ли пользователь кодом в этом раунде
func (t RoundType) IsCode() bool {
	return t == RoundTechnical || t == RoundDSA
}

// Question представляет текущий вопрос интервью
type Question struct {
	Text        string
	Type        RoundType
	Options     []string
	InitialCode string
}

// Feedback представляет оценку предыдущего ответа
type Feedback struct {
	Score      float64
	Strengths  []string
	Weaknesses []string
	Text       string
}

// State представляет состояние сессии интервью
type State string

const (
	StateIdle          State = "idle"
	StateWaitingAnswer State = "waiting_answer"
	StateSubmitting    State = "submitting"
	StateCompleted     State = "completed"
)
