package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Client представляет HTTP-клиент бэкенда интервью
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient создает новый клиент бэкенда
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL возвращает адрес бэкенда
func (c *Client) BaseURL() string {
	return c.baseURL
}

// StartInterview запускает новую сессию интервью
func (c *Client) StartInterview(req *StartRequest) (*ExchangeResponse, error) {
	body, contentType, err := c.buildStartForm(req)
	if err != nil {
		return nil, err
	}

	respBody, err := c.postRaw("/api/start-interview", contentType, body)
	if err != nil {
		return nil, err
	}

	var exchange ExchangeResponse
	if err := json.Unmarshal(respBody, &exchange); err != nil {
		return nil, fmt.Errorf("ошибка парсинга ответа start-interview: %w", err)
	}
	return &exchange, nil
}

// PreviewPlan запрашивает предварительный план интервью
func (c *Client) PreviewPlan(req *StartRequest) (*PlanResponse, error) {
	body, contentType, err := c.buildStartForm(req)
	if err != nil {
		return nil, err
	}

	respBody, err := c.postRaw("/api/preview-plan", contentType, body)
	if err != nil {
		return nil, err
	}

	var plan PlanResponse
	if err := json.Unmarshal(respBody, &plan); err != nil {
		return nil, fmt.Errorf("ошибка парсинга плана интервью: %w", err)
	}
	return &plan, nil
}

// CurrentSession пытается возобновить существующую сессию.
// Возвращает nil без ошибки, если активной сессии нет.
func (c *Client) CurrentSession() (*ExchangeResponse, error) {
	resp, err := c.client.Get(c.baseURL + "/api/current-session")
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса current-session: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp.StatusCode, body)
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	var exchange ExchangeResponse
	if err := json.Unmarshal(body, &exchange); err != nil {
		return nil, fmt.Errorf("ошибка парсинга ответа current-session: %w", err)
	}
	if exchange.SessionID == "" {
		return nil, nil
	}
	return &exchange, nil
}

// SubmitAnswer отправляет ответ пользователя и получает следующий вопрос
func (c *Client) SubmitAnswer(sessionID, userAnswer string) (*ExchangeResponse, error) {
	payload := map[string]string{
		"sessionId":  sessionID,
		"userAnswer": userAnswer,
	}

	respBody, err := c.postJSON("/api/submit-answer", payload)
	if err != nil {
		return nil, err
	}

	var exchange ExchangeResponse
	if err := json.Unmarshal(respBody, &exchange); err != nil {
		return nil, fmt.Errorf("ошибка парсинга ответа submit-answer: %w", err)
	}
	return &exchange, nil
}

// GetHint запрашивает подсказку для текущего вопроса
func (c *Client) GetHint(sessionID, currentAnswer string) (string, error) {
	payload := map[string]string{
		"sessionId":     sessionID,
		"currentAnswer": currentAnswer,
	}

	respBody, err := c.postJSON("/api/get-hint", payload)
	if err != nil {
		return "", err
	}

	var hint HintResponse
	if err := json.Unmarshal(respBody, &hint); err != nil {
		return "", fmt.Errorf("ошибка парсинга подсказки: %w", err)
	}
	return hint.Hint, nil
}

// Synthesize запрашивает синтез речи.
// Бэкенд может вернуть аудио-поток, base64 аудио в JSON
// или сигнал fallback для локального синтезатора.
func (c *Client) Synthesize(text, voice string) (*SpeechClip, error) {
	payload := map[string]string{
		"text":  text,
		"voice": voice,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации запроса tts: %w", err)
	}

	resp, err := c.client.Post(c.baseURL+"/api/tts", "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса tts: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения ответа tts: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp.StatusCode, body)
	}

	contentType := resp.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "audio/") {
		return &SpeechClip{Audio: body, MIMEType: contentType}, nil
	}

	var ttsResp ttsJSONResponse
	if err := json.Unmarshal(body, &ttsResp); err != nil {
		return nil, fmt.Errorf("ошибка парсинга ответа tts: %w", err)
	}

	if ttsResp.AudioData != "" {
		audio, err := base64.StdEncoding.DecodeString(ttsResp.AudioData)
		if err != nil {
			return nil, fmt.Errorf("ошибка декодирования аудио: %w", err)
		}
		return &SpeechClip{Audio: audio, MIMEType: "audio/wav"}, nil
	}

	if ttsResp.Fallback == "client_tts" {
		fallbackText := ttsResp.Text
		if fallbackText == "" {
			fallbackText = text
		}
		return &SpeechClip{Fallback: true, FallbackText: fallbackText}, nil
	}

	// Неизвестная форма ответа — переходим на локальный синтез
	return &SpeechClip{Fallback: true, FallbackText: text}, nil
}

// Transcribe отправляет записанное аудио на распознавание
func (c *Client) Transcribe(fileName string, audio []byte) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("audio_file", fileName)
	if err != nil {
		return "", fmt.Errorf("ошибка формирования запроса stt: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("ошибка записи аудио в запрос: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("ошибка завершения multipart: %w", err)
	}

	respBody, err := c.postRaw("/api/stt", writer.FormDataContentType(), &buf)
	if err != nil {
		return "", err
	}

	var transcript TranscriptResponse
	if err := json.Unmarshal(respBody, &transcript); err != nil {
		return "", fmt.Errorf("ошибка парсинга транскрипта: %w", err)
	}
	return transcript.Text, nil
}

// AnalyzeBehavior отправляет кадр с камеры на анализ поведения.
// Кадр передается как data URL (base64 JPEG), как это делает веб-клиент.
func (c *Client) AnalyzeBehavior(sessionID string, imageDataURL string) (*BehaviorReport, error) {
	payload := map[string]string{
		"image":     imageDataURL,
		"sessionId": sessionID,
	}

	respBody, err := c.postJSON("/api/analyze-behavior", payload)
	if err != nil {
		return nil, err
	}

	var report BehaviorReport
	if err := json.Unmarshal(respBody, &report); err != nil {
		return nil, fmt.Errorf("ошибка парсинга анализа поведения: %w", err)
	}
	return &report, nil
}

// GenerateAvatar запрашивает генерацию видео аватара для текста
func (c *Client) GenerateAvatar(text, voice, emotion string) (*AvatarResponse, error) {
	if voice == "" {
		voice = "en_male"
	}
	if emotion == "" {
		emotion = "neutral"
	}
	payload := map[string]string{
		"text":    text,
		"voice":   voice,
		"emotion": emotion,
	}

	respBody, err := c.postJSON("/generate_avatar", payload)
	if err != nil {
		return nil, err
	}

	var avatar AvatarResponse
	if err := json.Unmarshal(respBody, &avatar); err != nil {
		return nil, fmt.Errorf("ошибка парсинга ответа аватара: %w", err)
	}
	return &avatar, nil
}

// ATSReview отправляет резюме на ATS-проверку
func (c *Client) ATSReview(resumePath, jobDescription string) (*ATSReport, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := attachFile(writer, "resumeFile", resumePath); err != nil {
		return nil, err
	}
	if err := writer.WriteField("jobDescription", jobDescription); err != nil {
		return nil, fmt.Errorf("ошибка записи поля jobDescription: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("ошибка завершения multipart: %w", err)
	}

	respBody, err := c.postRaw("/api/ats-review", writer.FormDataContentType(), &buf)
	if err != nil {
		return nil, err
	}

	var report ATSReport
	if err := json.Unmarshal(respBody, &report); err != nil {
		return nil, fmt.Errorf("ошибка парсинга ATS-отчета: %w", err)
	}
	return &report, nil
}

// InterviewSummary запрашивает итоговый отчет по сессии
func (c *Client) InterviewSummary(sessionID string) (*SummaryResponse, error) {
	resp, err := c.client.Get(c.baseURL + "/api/interview-summary/" + sessionID)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса interview-summary: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения ответа: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp.StatusCode, body)
	}

	var summary SummaryResponse
	if err := json.Unmarshal(body, &summary); err != nil {
		return nil, fmt.Errorf("ошибка парсинга итогового отчета: %w", err)
	}
	return &summary, nil
}

// buildStartForm собирает multipart-форму с параметрами интервью
func (c *Client) buildStartForm(req *StartRequest) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if req.ResumePath != "" {
		if err := attachFile(writer, "resumeFile", req.ResumePath); err != nil {
			return nil, "", err
		}
	}

	fields := map[string]string{
		"jobDescription":    req.JobDescription,
		"yearsOfExperience": strconv.Itoa(req.YearsOfExperience),
		"jobRole":           req.JobRole,
		"companyName":       req.CompanyName,
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("ошибка записи поля %s: %w", name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("ошибка завершения multipart: %w", err)
	}
	return &buf, writer.FormDataContentType(), nil
}

// attachFile добавляет файл в multipart-форму
func attachFile(writer *multipart.Writer, field, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("ошибка открытия файла %s: %w", path, err)
	}
	defer file.Close()

	part, err := writer.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("ошибка формирования multipart: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("ошибка чтения файла %s: %w", path, err)
	}
	return nil
}

// postJSON выполняет POST с JSON-телом и возвращает тело ответа
func (c *Client) postJSON(path string, payload interface{}) ([]byte, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации запроса: %w", err)
	}
	return c.postRaw(path, "application/json", bytes.NewBuffer(jsonData))
}

// postRaw выполняет POST и проверяет статус ответа
func (c *Client) postRaw(path, contentType string, body io.Reader) ([]byte, error) {
	resp, err := c.client.Post(c.baseURL+path, contentType, body)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса %s: %w", path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения ответа: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.statusError(resp.StatusCode, respBody)
	}
	return respBody, nil
}

// statusError формирует ошибку по не-2xx ответу бэкенда
func (c *Client) statusError(status int, body []byte) error {
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Detail != "" {
		return fmt.Errorf("бэкенд вернул ошибку %d: %s", status, apiErr.Detail)
	}
	return fmt.Errorf("HTTP ошибка %d: %s", status, string(body))
}
