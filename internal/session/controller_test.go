package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mock-interview-cli/internal/api"
	"mock-interview-cli/internal/speech"
	"mock-interview-cli/internal/timer"
)

// fakeSpeaker записывает озвученные тексты
type fakeSpeaker struct {
	mu     sync.Mutex
	spoken []string
	stops  int
}

func (f *fakeSpeaker) Speak(text, voice string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.spoken = append(f.spoken, text)
}

func (f *fakeSpeaker) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
}

func newTestController(voice *speech.Settings, speaker Speaker) *Controller {
	if voice == nil {
		v := speech.DefaultSettings()
		voice = &v
	}
	return New(timer.New(nil), speaker, voice, nil)
}

func exchangeFor(questionType string) *api.ExchangeResponse {
	resp := &api.ExchangeResponse{
		SessionID:  "sess-1",
		RoundTitle: "Test Round",
		QuestionData: &api.QuestionData{
			Question: "Tell me about yourself.",
			Type:     questionType,
		},
	}
	if questionType == "mcq" {
		resp.QuestionData.Options = []string{"A", "B", "C", "D"}
	}
	return resp
}

func TestRoundTypeDurations(t *testing.T) {
	assert.Equal(t, 45*time.Minute, RoundTechnical.Duration())
	assert.Equal(t, 45*time.Minute, RoundDSA.Duration())
	assert.Equal(t, 2*time.Minute, RoundMCQ.Duration())
	assert.Equal(t, 8*time.Minute, RoundBehavioral.Duration())
	// незнакомый тип — свободный текст с обычным таймером
	assert.Equal(t, 8*time.Minute, ParseRoundType("system-design").Duration())
}

func TestBootstrapRequiresSessionID(t *testing.T) {
	ctrl := newTestController(nil, nil)
	defer ctrl.Close()

	err := ctrl.Bootstrap(&api.ExchangeResponse{QuestionData: &api.QuestionData{Question: "q", Type: "behavioral"}})
	require.Error(t, err)
	assert.Equal(t, StateIdle, ctrl.State())

	require.NoError(t, ctrl.Bootstrap(exchangeFor("behavioral")))
	assert.Equal(t, "sess-1", ctrl.SessionID())
}

func TestApplyExchangeResetsAnswerPerRoundType(t *testing.T) {
	tests := []struct {
		name        string
		questionType string
		initialCode string
		wantAnswer  string
	}{
		{"behavioral", "behavioral", "", ""},
		{"mcq", "mcq", "", ""},
		{"technical with initial code", "technical", "def solve():\n    pass", "def solve():\n    pass"},
		{"dsa with initial code", "dsa", "func main() {}", "func main() {}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := newTestController(nil, nil)
			defer ctrl.Close()

			resp := exchangeFor(tt.questionType)
			resp.QuestionData.InitialCode = tt.initialCode
			require.NoError(t, ctrl.Bootstrap(resp))

			assert.Equal(t, tt.wantAnswer, ctrl.Answer())
			assert.Equal(t, -1, ctrl.SelectedOption())

			question := ctrl.Question()
			require.NotNil(t, question)
			assert.Equal(t, ParseRoundType(tt.questionType), question.Type)
		})
	}
}

func TestApplyExchangeArmsTimerForRoundType(t *testing.T) {
	ctrl := newTestController(nil, nil)
	defer ctrl.Close()

	require.NoError(t, ctrl.Bootstrap(exchangeFor("technical")))
	assert.Equal(t, timer.StateRunning, ctrl.TimerState())
	assert.Equal(t, 2700, ctrl.TimerRemaining())

	require.NoError(t, ctrl.ApplyExchange(exchangeFor("mcq")))
	assert.Equal(t, 120, ctrl.TimerRemaining())

	require.NoError(t, ctrl.ApplyExchange(exchangeFor("behavioral")))
	assert.Equal(t, 480, ctrl.TimerRemaining())
}

func TestApplyExchangeMalformedNoPartialUpdate(t *testing.T) {
	ctrl := newTestController(nil, nil)
	defer ctrl.Close()
	require.NoError(t, ctrl.Bootstrap(exchangeFor("behavioral")))
	require.NoError(t, ctrl.SetAnswerText("draft answer"))

	malformed := []*api.ExchangeResponse{
		nil,
		{RoundTitle: "X"},
		{QuestionData: &api.QuestionData{Question: "   ", Type: "behavioral"}},
		{QuestionData: &api.QuestionData{Question: "q", Type: ""}},
		{QuestionData: &api.QuestionData{Question: "q", Type: "mcq"}}, // mcq без вариантов
	}

	for _, resp := range malformed {
		err := ctrl.ApplyExchange(resp)
		require.Error(t, err)

		// состояние не тронуто
		assert.Equal(t, "Tell me about yourself.", ctrl.Question().Text)
		assert.Equal(t, "draft answer", ctrl.Answer())
		assert.Equal(t, "Test Round", ctrl.RoundTitle())
		assert.Equal(t, StateWaitingAnswer, ctrl.State())
	}
}

func TestApplyExchangeReplacesFeedbackEntirely(t *testing.T) {
	ctrl := newTestController(nil, nil)
	defer ctrl.Close()
	require.NoError(t, ctrl.Bootstrap(exchangeFor("behavioral")))

	withFeedback := exchangeFor("behavioral")
	withFeedback.Feedback = &api.Feedback{
		Score:        7,
		Strengths:    []string{"clear structure"},
		Weaknesses:   []string{"too short"},
		FeedbackText: "Good start.",
	}
	require.NoError(t, ctrl.ApplyExchange(withFeedback))

	feedback := ctrl.Feedback()
	require.NotNil(t, feedback)
	assert.Equal(t, 7.0, feedback.Score)
	assert.Equal(t, []string{"clear structure"}, feedback.Strengths)

	newFeedback := exchangeFor("behavioral")
	newFeedback.Feedback = &api.Feedback{Score: 4, FeedbackText: "Weaker."}
	require.NoError(t, ctrl.ApplyExchange(newFeedback))

	feedback = ctrl.Feedback()
	require.NotNil(t, feedback)
	assert.Equal(t, 4.0, feedback.Score)
	assert.Empty(t, feedback.Strengths, "оценка заменяется целиком, не сливается")

	// ответ без оценки очищает ее
	require.NoError(t, ctrl.ApplyExchange(exchangeFor("behavioral")))
	assert.Nil(t, ctrl.Feedback())
}

func TestDismissFeedbackKeepsQuestionAndAnswer(t *testing.T) {
	ctrl := newTestController(nil, nil)
	defer ctrl.Close()

	resp := exchangeFor("behavioral")
	resp.Feedback = &api.Feedback{Score: 5}
	require.NoError(t, ctrl.Bootstrap(resp))
	require.NoError(t, ctrl.SetAnswerText("my answer"))

	ctrl.DismissFeedback()
	assert.Nil(t, ctrl.Feedback())
	assert.Equal(t, "my answer", ctrl.Answer())
	assert.NotNil(t, ctrl.Question())
}

func TestSubmitMCQWithoutSelectionNoNetworkCall(t *testing.T) {
	ctrl := newTestController(nil, nil)
	defer ctrl.Close()
	require.NoError(t, ctrl.Bootstrap(exchangeFor("mcq")))

	calls := 0
	err := ctrl.Submit(func(sessionID, userAnswer string) (*api.ExchangeResponse, error) {
		calls++
		return nil, nil
	})

	require.Error(t, err)
	assert.Zero(t, calls, "валидация должна отсечь отправку до сети")
}

func TestSubmitEmptyTextNoNetworkCall(t *testing.T) {
	for _, questionType := range []string{"behavioral", "technical", "dsa"} {
		t.Run(questionType, func(t *testing.T) {
			ctrl := newTestController(nil, nil)
			defer ctrl.Close()

			resp := exchangeFor(questionType)
			require.NoError(t, ctrl.Bootstrap(resp))
			// стираем и стартовый код: пустой ответ не уходит в сеть
			ctrl.answer = "   \n\t"

			calls := 0
			err := ctrl.Submit(func(sessionID, userAnswer string) (*api.ExchangeResponse, error) {
				calls++
				return nil, nil
			})

			require.Error(t, err)
			assert.Zero(t, calls)
		})
	}
}

func TestSubmitSendsSelectedOption(t *testing.T) {
	ctrl := newTestController(nil, nil)
	defer ctrl.Close()
	require.NoError(t, ctrl.Bootstrap(exchangeFor("mcq")))
	require.NoError(t, ctrl.SelectOption(1))

	var gotSession, gotAnswer string
	err := ctrl.Submit(func(sessionID, userAnswer string) (*api.ExchangeResponse, error) {
		gotSession = sessionID
		gotAnswer = userAnswer
		return exchangeFor("behavioral"), nil
	})

	require.NoError(t, err)
	assert.Equal(t, "sess-1", gotSession)
	assert.Equal(t, "B", gotAnswer)
	// следующий вопрос применен, выбор сброшен
	assert.Equal(t, RoundBehavioral, ctrl.Question().Type)
	assert.Equal(t, -1, ctrl.SelectedOption())
}

func TestSubmitEditedCodeSentVerbatim(t *testing.T) {
	ctrl := newTestController(nil, nil)
	defer ctrl.Close()

	resp := exchangeFor("technical")
	resp.QuestionData.InitialCode = "def solve():\n    pass"
	require.NoError(t, ctrl.Bootstrap(resp))
	assert.Equal(t, "def solve():\n    pass", ctrl.Answer())

	edited := "def solve():\n    return 42"
	require.NoError(t, ctrl.SetAnswerText(edited))

	var gotAnswer string
	err := ctrl.Submit(func(sessionID, userAnswer string) (*api.ExchangeResponse, error) {
		gotAnswer = userAnswer
		return exchangeFor("behavioral"), nil
	})

	require.NoError(t, err)
	assert.Equal(t, edited, gotAnswer)
}

func TestSubmitFailureKeepsState(t *testing.T) {
	ctrl := newTestController(nil, nil)
	defer ctrl.Close()
	require.NoError(t, ctrl.Bootstrap(exchangeFor("behavioral")))
	require.NoError(t, ctrl.SetAnswerText("my answer"))

	err := ctrl.Submit(func(sessionID, userAnswer string) (*api.ExchangeResponse, error) {
		return nil, fmt.Errorf("бэкенд недоступен")
	})

	require.Error(t, err)
	assert.Equal(t, "Tell me about yourself.", ctrl.Question().Text)
	assert.Equal(t, "my answer", ctrl.Answer())
	assert.Equal(t, StateWaitingAnswer, ctrl.State())

	// повторная отправка вручную проходит
	err = ctrl.Submit(func(sessionID, userAnswer string) (*api.ExchangeResponse, error) {
		return exchangeFor("mcq"), nil
	})
	require.NoError(t, err)
}

func TestSubmitBlockedWhileInFlight(t *testing.T) {
	ctrl := newTestController(nil, nil)
	defer ctrl.Close()
	require.NoError(t, ctrl.Bootstrap(exchangeFor("behavioral")))
	require.NoError(t, ctrl.SetAnswerText("my answer"))

	started := make(chan struct{})
	release := make(chan struct{})
	firstDone := make(chan error, 1)

	go func() {
		firstDone <- ctrl.Submit(func(sessionID, userAnswer string) (*api.ExchangeResponse, error) {
			close(started)
			<-release
			return exchangeFor("behavioral"), nil
		})
	}()

	<-started
	err := ctrl.Submit(func(sessionID, userAnswer string) (*api.ExchangeResponse, error) {
		t.Fatal("вторая отправка не должна дойти до сети")
		return nil, nil
	})
	require.Error(t, err)

	close(release)
	require.NoError(t, <-firstDone)
}

func TestSubmitHidesFeedbackAndStopsTimer(t *testing.T) {
	ctrl := newTestController(nil, nil)
	defer ctrl.Close()

	resp := exchangeFor("behavioral")
	resp.Feedback = &api.Feedback{Score: 6}
	require.NoError(t, ctrl.Bootstrap(resp))
	require.NoError(t, ctrl.SetAnswerText("answer"))
	require.NotNil(t, ctrl.Feedback())
	require.Equal(t, timer.StateRunning, ctrl.TimerState())

	var feedbackDuringSend *Feedback
	var timerDuringSend timer.State
	err := ctrl.Submit(func(sessionID, userAnswer string) (*api.ExchangeResponse, error) {
		feedbackDuringSend = ctrl.Feedback()
		timerDuringSend = ctrl.TimerState()
		return exchangeFor("behavioral"), nil
	})

	require.NoError(t, err)
	assert.Nil(t, feedbackDuringSend, "оценка скрывается перед отправкой")
	assert.Equal(t, timer.StateIdle, timerDuringSend, "таймер гасится перед отправкой")
}

func TestCompletionStopsTimerAndState(t *testing.T) {
	ctrl := newTestController(nil, nil)
	defer ctrl.Close()
	require.NoError(t, ctrl.Bootstrap(exchangeFor("behavioral")))
	require.NoError(t, ctrl.SetAnswerText("final answer"))

	final := exchangeFor("behavioral")
	final.IsComplete = true
	err := ctrl.Submit(func(sessionID, userAnswer string) (*api.ExchangeResponse, error) {
		return final, nil
	})

	require.NoError(t, err)
	assert.True(t, ctrl.Complete())
	assert.Equal(t, StateCompleted, ctrl.State())
	assert.Equal(t, timer.StateIdle, ctrl.TimerState())

	// после завершения отправлять больше нечего
	err = ctrl.Submit(func(sessionID, userAnswer string) (*api.ExchangeResponse, error) {
		t.Fatal("отправка после завершения")
		return nil, nil
	})
	require.Error(t, err)
}

func TestAppendTranscriptAdditive(t *testing.T) {
	ctrl := newTestController(nil, nil)
	defer ctrl.Close()
	require.NoError(t, ctrl.Bootstrap(exchangeFor("behavioral")))

	ctrl.AppendTranscript("I worked on")
	ctrl.AppendTranscript("a large migration")
	ctrl.AppendTranscript("   ")
	ctrl.AppendTranscript("last year")

	assert.Equal(t, "I worked on a large migration last year", ctrl.Answer())
}

func TestSpeechPlaybackOnNewQuestion(t *testing.T) {
	speaker := &fakeSpeaker{}
	voice := speech.Settings{Enabled: true, Voice: "rachel"}
	ctrl := New(timer.New(nil), speaker, &voice, nil)
	defer ctrl.Close()

	resp := exchangeFor("behavioral")
	resp.Feedback = &api.Feedback{FeedbackText: "Nice answer."}
	require.NoError(t, ctrl.Bootstrap(resp))

	speaker.mu.Lock()
	defer speaker.mu.Unlock()
	require.Len(t, speaker.spoken, 2)
	assert.Equal(t, "Tell me about yourself.", speaker.spoken[0])
	assert.Equal(t, "Nice answer.", speaker.spoken[1])
}

func TestNoSpeechWhenVoiceDisabled(t *testing.T) {
	speaker := &fakeSpeaker{}
	voice := speech.Settings{Enabled: false}
	ctrl := New(timer.New(nil), speaker, &voice, nil)
	defer ctrl.Close()

	require.NoError(t, ctrl.Bootstrap(exchangeFor("behavioral")))

	speaker.mu.Lock()
	defer speaker.mu.Unlock()
	assert.Empty(t, speaker.spoken)
}

func TestSetAnswerTextRejectedForMCQ(t *testing.T) {
	ctrl := newTestController(nil, nil)
	defer ctrl.Close()
	require.NoError(t, ctrl.Bootstrap(exchangeFor("mcq")))

	assert.Error(t, ctrl.SetAnswerText("free text"))
	assert.Error(t, ctrl.SelectOption(10))
	assert.NoError(t, ctrl.SelectOption(0))
}
