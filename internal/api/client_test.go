package api

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, 5*time.Second)
}

func TestStartInterviewSendsFormFields(t *testing.T) {
	resumePath := filepath.Join(t.TempDir(), "resume.pdf")
	require.NoError(t, os.WriteFile(resumePath, []byte("resume body"), 0644))

	var gotFields map[string]string
	var gotResume string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/start-interview", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		gotFields = map[string]string{}
		for name := range r.MultipartForm.Value {
			gotFields[name] = r.FormValue(name)
		}

		file, header, err := r.FormFile("resumeFile")
		require.NoError(t, err)
		defer file.Close()
		gotResume = header.Filename

		json.NewEncoder(w).Encode(ExchangeResponse{
			SessionID:  "sess-42",
			RoundTitle: "Behavioral Round",
			QuestionData: &QuestionData{
				Question: "Why this company?",
				Type:     "behavioral",
			},
		})
	})

	exchange, err := client.StartInterview(&StartRequest{
		ResumePath:        resumePath,
		JobDescription:    "Go developer",
		YearsOfExperience: 5,
		JobRole:           "Backend Engineer",
		CompanyName:       "Acme",
	})

	require.NoError(t, err)
	assert.Equal(t, "sess-42", exchange.SessionID)
	assert.Equal(t, "Why this company?", exchange.QuestionData.Question)

	assert.Equal(t, "Go developer", gotFields["jobDescription"])
	assert.Equal(t, "5", gotFields["yearsOfExperience"])
	assert.Equal(t, "Backend Engineer", gotFields["jobRole"])
	assert.Equal(t, "Acme", gotFields["companyName"])
	assert.Equal(t, "resume.pdf", gotResume)
}

func TestStartInterviewResumeOptional(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, _, err := r.FormFile("resumeFile")
		assert.Error(t, err, "без резюме файл не отправляется")

		json.NewEncoder(w).Encode(ExchangeResponse{SessionID: "sess-1"})
	})

	_, err := client.StartInterview(&StartRequest{JobRole: "SRE"})
	require.NoError(t, err)
}

func TestSubmitAnswerBody(t *testing.T) {
	var gotBody map[string]string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/submit-answer", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(ExchangeResponse{
			RoundTitle: "Next Round",
			QuestionData: &QuestionData{Question: "Next?", Type: "technical"},
			Feedback:     &Feedback{Score: 8, FeedbackText: "Solid."},
		})
	})

	exchange, err := client.SubmitAnswer("sess-42", "my long answer")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"sessionId":  "sess-42",
		"userAnswer": "my long answer",
	}, gotBody)
	require.NotNil(t, exchange.Feedback)
	assert.Equal(t, 8.0, exchange.Feedback.Score)
}

func TestBackendErrorDetail(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Сессия не найдена"})
	})

	_, err := client.SubmitAnswer("missing", "answer")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "Сессия не найдена")
}

func TestCurrentSessionVariants(t *testing.T) {
	t.Run("нет активной сессии — 404", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		exchange, err := client.CurrentSession()
		require.NoError(t, err)
		assert.Nil(t, exchange)
	})

	t.Run("пустое тело", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
		exchange, err := client.CurrentSession()
		require.NoError(t, err)
		assert.Nil(t, exchange)
	})

	t.Run("ответ без sessionId", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"message": "no session"})
		})
		exchange, err := client.CurrentSession()
		require.NoError(t, err)
		assert.Nil(t, exchange)
	})

	t.Run("активная сессия", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(ExchangeResponse{
				SessionID:    "sess-7",
				RoundTitle:   "DSA Round",
				QuestionData: &QuestionData{Question: "Invert a tree", Type: "dsa"},
			})
		})
		exchange, err := client.CurrentSession()
		require.NoError(t, err)
		require.NotNil(t, exchange)
		assert.Equal(t, "sess-7", exchange.SessionID)
	})
}

func TestGetHint(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/get-hint", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "sess-1", body["sessionId"])
		assert.Equal(t, "draft", body["currentAnswer"])

		json.NewEncoder(w).Encode(HintResponse{Hint: "Think about STAR."})
	})

	hint, err := client.GetHint("sess-1", "draft")
	require.NoError(t, err)
	assert.Equal(t, "Think about STAR.", hint)
}

func TestSynthesizeAudioStream(t *testing.T) {
	audio := []byte("RIFF....WAVE")
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/tts", r.URL.Path)
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write(audio)
	})

	clip, err := client.Synthesize("hello", "rachel")
	require.NoError(t, err)
	assert.False(t, clip.Fallback)
	assert.Equal(t, audio, clip.Audio)
	assert.Equal(t, "audio/mpeg", clip.MIMEType)
}

func TestSynthesizeBase64JSON(t *testing.T) {
	audio := []byte{0x52, 0x49, 0x46, 0x46}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"audio_data": base64.StdEncoding.EncodeToString(audio),
		})
	})

	clip, err := client.Synthesize("hello", "rachel")
	require.NoError(t, err)
	assert.False(t, clip.Fallback)
	assert.Equal(t, audio, clip.Audio)
	assert.Equal(t, "audio/wav", clip.MIMEType)
}

func TestSynthesizeFallbackSignal(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"fallback": "client_tts",
			"text":     "read me locally",
		})
	})

	clip, err := client.Synthesize("hello", "rachel")
	require.NoError(t, err)
	assert.True(t, clip.Fallback)
	assert.Equal(t, "read me locally", clip.FallbackText)
}

func TestSynthesizeUnknownShapeFallsBack(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "queued"})
	})

	clip, err := client.Synthesize("original text", "rachel")
	require.NoError(t, err)
	assert.True(t, clip.Fallback)
	assert.Equal(t, "original text", clip.FallbackText)
}

func TestTranscribeMultipart(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/stt", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		file, header, err := r.FormFile("audio_file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "chunk.wav", header.Filename)

		json.NewEncoder(w).Encode(TranscriptResponse{Text: "I worked on migrations"})
	})

	text, err := client.Transcribe("chunk.wav", []byte("audio bytes"))
	require.NoError(t, err)
	assert.Equal(t, "I worked on migrations", text)
}

func TestInterviewSummaryPath(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/interview-summary/sess-9", r.URL.Path)
		json.NewEncoder(w).Encode(SummaryResponse{
			SessionID:    "sess-9",
			OverallScore: 7.5,
			TotalRounds:  3,
		})
	})

	summary, err := client.InterviewSummary("sess-9")
	require.NoError(t, err)
	assert.Equal(t, 7.5, summary.OverallScore)
	assert.Equal(t, 3, summary.TotalRounds)
}

func TestGenerateAvatarDefaults(t *testing.T) {
	var gotBody map[string]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/generate_avatar", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(AvatarResponse{VideoURL: "http://cdn/video.mp4"})
	})

	avatar, err := client.GenerateAvatar("question text", "", "")
	require.NoError(t, err)
	assert.Equal(t, "http://cdn/video.mp4", avatar.VideoURL)
	assert.Equal(t, "en_male", gotBody["voice"])
	assert.Equal(t, "neutral", gotBody["emotion"])
}
