package session

import (
	"fmt"
	"strings"
	"sync"

	"mock-interview-cli/internal/api"
	"mock-interview-cli/internal/metrics"
	"mock-interview-cli/internal/speech"
	"mock-interview-cli/internal/timer"
)

// Speaker — та часть синтезатора, которая нужна контроллеру
type Speaker interface {
	Speak(text, voice string)
	Stop()
}

// SubmitFunc отправляет ответ на бэкенд и возвращает следующий обмен
type SubmitFunc func(sessionID, userAnswer string) (*api.ExchangeResponse, error)

// Controller владеет всем состоянием одной сессии интервью:
// вопросом, буфером ответа, оценкой, таймером раунда и флагом завершения.
// Все мутации идут через ApplyExchange и Submit.
type Controller struct {
	mu sync.Mutex

	state      State
	sessionID  string
	roundTitle string
	question   *Question
	answer     string
	selected   int // индекс выбранного варианта mcq, -1 если не выбран
	feedback   *Feedback
	complete   bool
	inFlight   bool

	timer   *timer.RoundTimer
	speaker Speaker
	voice   *speech.Settings
	metrics *metrics.Metrics
}

// New создает контроллер сессии.
// Настройки голоса передаются явно и живут у вызывающей стороны.
func New(t *timer.RoundTimer, speaker Speaker, voice *speech.Settings, m *metrics.Metrics) *Controller {
	return &Controller{
		state:    StateIdle,
		selected: -1,
		timer:    t,
		speaker:  speaker,
		voice:    voice,
		metrics:  m,
	}
}

// Bootstrap принимает первый обмен с бэкенда и фиксирует sessionId.
// Идентификатор сессии после этого не меняется до конца работы.
func (c *Controller) Bootstrap(resp *api.ExchangeResponse) error {
	if resp == nil || resp.SessionID == "" {
		return fmt.Errorf("бэкенд не вернул идентификатор сессии")
	}

	c.mu.Lock()
	if c.sessionID != "" {
		c.mu.Unlock()
		return fmt.Errorf("сессия уже инициализирована: %s", c.sessionID)
	}
	c.sessionID = resp.SessionID
	c.mu.Unlock()

	return c.ApplyExchange(resp)
}

// ApplyExchange — единственная точка применения ответа бэкенда.
// Сначала полная валидация, потом мутации: никакое частично
// примененное состояние наружу не видно.
func (c *Controller) ApplyExchange(resp *api.ExchangeResponse) error {
	question, err := validateExchange(resp)
	if err != nil {
		return err
	}

	c.mu.Lock()

	// 1. Вопрос и раунд
	c.question = question
	c.roundTitle = resp.RoundTitle

	// 2. Сброс ответа: пусто, либо стартовый код для технических раундов
	if question.Type.IsCode() {
		c.answer = question.InitialCode
	} else {
		c.answer = ""
	}
	c.selected = -1

	// 3. Оценка предыдущего ответа: заменяется целиком или очищается
	if resp.Feedback != nil {
		c.feedback = &Feedback{
			Score:      resp.Feedback.Score,
			Strengths:  resp.Feedback.Strengths,
			Weaknesses: resp.Feedback.Weaknesses,
			Text:       resp.Feedback.FeedbackText,
		}
	} else {
		c.feedback = nil
	}

	// 4. Флаг завершения
	c.complete = resp.IsComplete

	feedback := c.feedback
	voiceOn := c.voice != nil && c.voice.Enabled
	voiceName := ""
	if c.voice != nil {
		voiceName = c.voice.Voice
	}

	if c.complete {
		c.state = StateCompleted
		c.mu.Unlock()
		// Интервью закончено: таймер больше не нужен
		c.timer.Cancel()
		return nil
	}

	c.state = StateWaitingAnswer
	c.mu.Unlock()

	// 5. Перевооружение таймера под тип нового раунда
	c.timer.Arm(question.Type.Duration())

	if c.metrics != nil {
		c.metrics.IncrementQuestionsReceived()
	}

	// 6. Озвучка нового вопроса и, если есть, оценки
	if voiceOn && c.speaker != nil {
		c.speaker.Speak(question.Text, voiceName)
		if feedback != nil && feedback.Text != "" {
			c.speaker.Speak(feedback.Text, voiceName)
		}
	}

	return nil
}

// validateExchange проверяет ответ бэкенда до любых мутаций
func validateExchange(resp *api.ExchangeResponse) (*Question, error) {
	if resp == nil {
		return nil, fmt.Errorf("пустой ответ бэкенда")
	}
	if resp.QuestionData == nil {
		return nil, fmt.Errorf("в ответе бэкенда нет questionData")
	}
	if strings.TrimSpace(resp.QuestionData.Question) == "" {
		return nil, fmt.Errorf("в ответе бэкенда пустой текст вопроса")
	}
	if strings.TrimSpace(resp.QuestionData.Type) == "" {
		return nil, fmt.Errorf("в ответе бэкенда не указан тип раунда")
	}

	roundType := ParseRoundType(resp.QuestionData.Type)
	if roundType == RoundMCQ && len(resp.QuestionData.Options) == 0 {
		return nil, fmt.Errorf("mcq-вопрос пришел без вариантов ответа")
	}

	return &Question{
		Text:        resp.QuestionData.Question,
		Type:        roundType,
		Options:     resp.QuestionData.Options,
		InitialCode: resp.QuestionData.InitialCode,
	}, nil
}

// SetAnswerText заменяет буфер ответа для текстовых и кодовых раундов
func (c *Controller) SetAnswerText(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.question == nil {
		return fmt.Errorf("вопрос еще не получен")
	}
	if c.question.Type == RoundMCQ {
		return fmt.Errorf("в mcq-раунде нужно выбрать вариант, а не вводить текст")
	}
	c.answer = text
	return nil
}

// SelectOption выбирает вариант ответа в mcq-раунде
func (c *Controller) SelectOption(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.question == nil || c.question.Type != RoundMCQ {
		return fmt.Errorf("сейчас не mcq-раунд")
	}
	if index < 0 || index >= len(c.question.Options) {
		return fmt.Errorf("нет варианта с номером %d", index+1)
	}
	c.selected = index
	return nil
}

// AppendTranscript дописывает финальный сегмент транскрипта в буфер ответа.
// Сегменты приходят порциями, пока пользователь говорит, поэтому
// текст добавляется, а не заменяет уже набранное.
func (c *Controller) AppendTranscript(segment string) {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.question == nil || c.question.Type == RoundMCQ {
		return
	}
	if c.answer == "" {
		c.answer = segment
	} else {
		c.answer = c.answer + " " + segment
	}
}

// Submit валидирует ответ и отправляет его на бэкенд.
// При локальной ошибке валидации сетевой вызов не выполняется.
// Повторная отправка, пока предыдущая в полете, блокируется.
func (c *Controller) Submit(send SubmitFunc) error {
	c.mu.Lock()

	if c.complete {
		c.mu.Unlock()
		return fmt.Errorf("интервью уже завершено")
	}
	if c.question == nil {
		c.mu.Unlock()
		return fmt.Errorf("вопрос еще не получен")
	}
	if c.inFlight {
		c.mu.Unlock()
		return fmt.Errorf("предыдущий ответ еще отправляется, подождите")
	}

	var answer string
	if c.question.Type == RoundMCQ {
		if c.selected < 0 {
			c.mu.Unlock()
			return fmt.Errorf("выберите один из вариантов ответа")
		}
		answer = c.question.Options[c.selected]
	} else {
		if strings.TrimSpace(c.answer) == "" {
			c.mu.Unlock()
			return fmt.Errorf("ответ пустой, напишите или надиктуйте его")
		}
		answer = c.answer
	}

	sessionID := c.sessionID
	c.inFlight = true
	c.state = StateSubmitting
	// Оценка относится к уже отправленному ответу — прячем ее
	c.feedback = nil
	c.mu.Unlock()

	c.timer.Cancel()

	resp, err := send(sessionID, answer)

	c.mu.Lock()
	c.inFlight = false
	if err != nil {
		// Вопрос и набранный ответ остаются как были, пользователь
		// отправит повторно сам
		c.state = StateWaitingAnswer
		c.mu.Unlock()
		return fmt.Errorf("не удалось отправить ответ: %w", err)
	}
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.IncrementAnswersSubmitted()
	}

	if err := c.ApplyExchange(resp); err != nil {
		return fmt.Errorf("бэкенд вернул некорректный следующий вопрос: %w", err)
	}
	return nil
}

// DismissFeedback скрывает оценку, не трогая вопрос и ответ
func (c *Controller) DismissFeedback() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.feedback = nil
}

// SessionID возвращает идентификатор сессии
func (c *Controller) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// RoundTitle возвращает название текущего раунда
func (c *Controller) RoundTitle() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.roundTitle
}

// Question возвращает текущий вопрос (копию)
func (c *Controller) Question() *Question {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.question == nil {
		return nil
	}
	q := *c.question
	return &q
}

// Answer возвращает текущий буфер ответа
func (c *Controller) Answer() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.answer
}

// SelectedOption возвращает индекс выбранного варианта, -1 если нет
func (c *Controller) SelectedOption() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

// Feedback возвращает текущую оценку или nil
func (c *Controller) Feedback() *Feedback {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.feedback == nil {
		return nil
	}
	f := *c.feedback
	return &f
}

// State возвращает состояние сессии
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Complete сообщает, завершено ли интервью
func (c *Controller) Complete() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.complete
}

// TimerState возвращает состояние таймера раунда
func (c *Controller) TimerState() timer.State {
	return c.timer.State()
}

// TimerRemaining возвращает оставшиеся секунды раунда
func (c *Controller) TimerRemaining() int {
	return c.timer.Remaining()
}

// Close освобождает таймер и глушит озвучку при завершении работы
func (c *Controller) Close() {
	c.timer.Cancel()
	if c.speaker != nil {
		c.speaker.Stop()
	}
}
