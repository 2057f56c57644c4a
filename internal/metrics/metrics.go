package metrics

import (
	"sync"
	"time"
)

// Metrics собирает счетчики работы клиента за время сессии
type Metrics struct {
	mu                 sync.RWMutex
	QuestionsReceived  int64
	AnswersSubmitted   int64
	HintsRequested     int64
	SpeechPlayed       int64
	SpeechTranscribed  int64
	APICallsTotal      int64
	APICallsSuccessful int64
	LastUpdateTime     time.Time
}

func NewMetrics() *Metrics {
	return &Metrics{
		LastUpdateTime: time.Now(),
	}
}

func (m *Metrics) IncrementQuestionsReceived() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.QuestionsReceived++
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementAnswersSubmitted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AnswersSubmitted++
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementHintsRequested() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.HintsRequested++
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementSpeechPlayed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SpeechPlayed++
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementSpeechTranscribed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SpeechTranscribed++
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementAPICall(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.APICallsTotal++
	if success {
		m.APICallsSuccessful++
	}
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) GetSnapshot() Metrics {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Metrics{
		QuestionsReceived:  m.QuestionsReceived,
		AnswersSubmitted:   m.AnswersSubmitted,
		HintsRequested:     m.HintsRequested,
		SpeechPlayed:       m.SpeechPlayed,
		SpeechTranscribed:  m.SpeechTranscribed,
		APICallsTotal:      m.APICallsTotal,
		APICallsSuccessful: m.APICallsSuccessful,
		LastUpdateTime:     m.LastUpdateTime,
	}
}
