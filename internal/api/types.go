package api

// QuestionData представляет текущий вопрос интервью
type QuestionData struct {
	Question    string   `json:"question"`
	Type        string   `json:"type"`
	Options     []string `json:"options,omitempty"`
	InitialCode string   `json:"initial_code,omitempty"`
}

// Feedback представляет оценку предыдущего ответа
type Feedback struct {
	Score        float64  `json:"score"`
	Strengths    []string `json:"strengths"`
	Weaknesses   []string `json:"weaknesses"`
	FeedbackText string   `json:"feedback_text"`
}

// ExchangeResponse представляет ответ бэкенда на start-interview,
// current-session и submit-answer (общая форма)
type ExchangeResponse struct {
	Message      string        `json:"message,omitempty"`
	SessionID    string        `json:"sessionId,omitempty"`
	QuestionData *QuestionData `json:"questionData"`
	RoundTitle   string        `json:"roundTitle"`
	IsComplete   bool          `json:"isComplete"`
	Feedback     *Feedback     `json:"feedback,omitempty"`
}

// StartRequest содержит параметры запуска интервью
type StartRequest struct {
	ResumePath        string
	JobDescription    string
	YearsOfExperience int
	JobRole           string
	CompanyName       string
}

// PlanRound представляет один раунд в плане интервью
type PlanRound struct {
	Title            string `json:"title"`
	Type             string `json:"type"`
	QuestionCount    int    `json:"question_count"`
	EstimatedMinutes int    `json:"estimated_minutes"`
}

// PlanResponse представляет предварительный план интервью
type PlanResponse struct {
	Rounds                []PlanRound `json:"rounds"`
	TotalQuestions        int         `json:"total_questions"`
	TotalEstimatedMinutes int         `json:"total_estimated_minutes"`
	AIGenerated           bool        `json:"ai_generated"`
}

// HintResponse представляет подсказку от бэкенда
type HintResponse struct {
	Hint string `json:"hint"`
}

// SpeechClip представляет результат синтеза речи.
// Либо Audio с готовыми байтами, либо Fallback с текстом
// для локального синтезатора.
type SpeechClip struct {
	Audio        []byte
	MIMEType     string
	Fallback     bool
	FallbackText string
}

// ttsJSONResponse — JSON-вариант ответа /api/tts
type ttsJSONResponse struct {
	AudioData string `json:"audio_data,omitempty"`
	Fallback  string `json:"fallback,omitempty"`
	Text      string `json:"text,omitempty"`
}

// TranscriptResponse представляет результат распознавания речи
type TranscriptResponse struct {
	Text string `json:"text"`
}

// Posture описывает осанку кандидата
type Posture struct {
	SlouchAngle float64 `json:"slouch_angle"`
	IsGood      bool    `json:"is_good"`
}

// HeadPose описывает положение головы
type HeadPose struct {
	Yaw   float64 `json:"yaw"`
	Pitch float64 `json:"pitch"`
}

// BehaviorReport представляет анализ поведения по кадру с камеры
type BehaviorReport struct {
	Presence        bool     `json:"presence"`
	EyeContact      string   `json:"eye_contact"`
	ConfidenceScore float64  `json:"confidence_score"`
	Posture         Posture  `json:"posture"`
	HeadPose        HeadPose `json:"head_pose"`
	Feedback        []string `json:"feedback"`
	Overall         string   `json:"overall"`
	Timestamp       float64  `json:"timestamp"`
}

// AvatarResponse представляет ссылку на сгенерированное видео аватара
type AvatarResponse struct {
	VideoURL string `json:"video_url"`
}

// ATSReport представляет результат ATS-проверки резюме
type ATSReport struct {
	Score               float64  `json:"score"`
	Strengths           []string `json:"strengths"`
	Weaknesses          []string `json:"weaknesses"`
	Recommendations     []string `json:"recommendations"`
	KeywordMatchPercent float64  `json:"keyword_match_percent"`
}

// RoundSummary представляет итог одного раунда
type RoundSummary struct {
	RoundTitle    string   `json:"round_title"`
	QuestionsCount int     `json:"questions_count"`
	AverageScore  float64  `json:"average_score"`
	QuestionTypes []string `json:"question_types"`
}

// SummaryResponse представляет итоговый отчет по интервью
type SummaryResponse struct {
	SessionID           string         `json:"session_id"`
	TotalQuestions      int            `json:"total_questions"`
	TotalRounds         int            `json:"total_rounds"`
	OverallScore        float64        `json:"overall_score"`
	TimeTakenMinutes    float64        `json:"time_taken_minutes"`
	RoundSummaries      []RoundSummary `json:"round_summaries"`
	Strengths           []string       `json:"strengths"`
	AreasForImprovement []string       `json:"areas_for_improvement"`
	Recommendations     []string       `json:"recommendations"`
	OverallFeedback     string         `json:"overall_feedback"`
}

// apiErrorResponse — формат ошибки бэкенда (поле detail как в FastAPI)
type apiErrorResponse struct {
	Detail string `json:"detail"`
}
