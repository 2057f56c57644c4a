package console

import (
	"bufio"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"mock-interview-cli/internal/api"
	"mock-interview-cli/internal/config"
	"mock-interview-cli/internal/metrics"
	"mock-interview-cli/internal/session"
	"mock-interview-cli/internal/speech"
	"mock-interview-cli/internal/storage"
)

// errQuit сигнализирует о штатном выходе из цикла
var errQuit = errors.New("quit")

// Handler связывает консольный ввод с контроллером сессии,
// клиентом бэкенда и локальным хранилищем
type Handler struct {
	mu         sync.RWMutex
	ctrl       *session.Controller
	newCtrl    func() *session.Controller
	client     *api.Client
	store      *storage.Store
	cfg        *config.Config
	voice      *speech.Settings
	synth      *speech.Synthesizer
	recognizer *speech.Recognizer
	metrics    *metrics.Metrics
	scanner    *bufio.Scanner
	setup      *storage.SetupParams
}

// NewHandler создает обработчик консольного интерфейса
func NewHandler(
	ctrl *session.Controller,
	newCtrl func() *session.Controller,
	client *api.Client,
	store *storage.Store,
	cfg *config.Config,
	voice *speech.Settings,
	synth *speech.Synthesizer,
	m *metrics.Metrics,
) *Handler {
	h := &Handler{
		ctrl:    ctrl,
		newCtrl: newCtrl,
		client:  client,
		store:   store,
		cfg:     cfg,
		voice:   voice,
		synth:   synth,
		metrics: m,
		scanner: bufio.NewScanner(os.Stdin),
	}
	h.scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	return h
}

// SetRecognizer подключает распознаватель речи после создания обработчика
func (h *Handler) SetRecognizer(r *speech.Recognizer) {
	h.recognizer = r
}

// controller возвращает текущий контроллер сессии
func (h *Handler) controller() *session.Controller {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.ctrl
}

// replaceController ставит свежий контроллер вместо текущего
func (h *Handler) replaceController() *session.Controller {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ctrl.Close()
	h.ctrl = h.newCtrl()
	return h.ctrl
}

// OnTranscript принимает финальный сегмент транскрипта от распознавателя
func (h *Handler) OnTranscript(text string) {
	h.controller().AppendTranscript(text)
	h.metrics.IncrementSpeechTranscribed()
	fmt.Printf("📝 Распознано: %s\n", text)
}

// Run запускает консольный цикл интервью
func (h *Handler) Run() error {
	if err := h.bootstrap(); err != nil {
		return err
	}

	h.renderCurrent()

	for h.scanner.Scan() {
		line := strings.TrimSpace(h.scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if err := h.handleCommand(line); err != nil {
				if errors.Is(err, errQuit) {
					break
				}
				fmt.Printf("❌ %v\n", err)
			}
			continue
		}

		h.handleAnswerInput(line)
	}

	if h.recognizer != nil {
		h.recognizer.Stop()
	}
	h.controller().Close()
	fmt.Println("👋 До встречи на следующем интервью!")
	return nil
}

// handleCommand обрабатывает команды консоли
func (h *Handler) handleCommand(line string) error {
	fields := strings.Fields(line)
	command := fields[0]
	args := fields[1:]

	switch command {
	case "/help":
		h.printHelp()
	case "/status":
		h.printStatus()
	case "/plan":
		return h.handlePlan()
	case "/hint":
		return h.handleHint()
	case "/voice":
		return h.handleVoice(args)
	case "/listen":
		return h.handleListen()
	case "/say":
		return h.handleSay()
	case "/dismiss":
		h.controller().DismissFeedback()
		fmt.Println("✅ Оценка скрыта.")
	case "/submit":
		h.submit()
	case "/summary":
		return h.showSummary()
	case "/ats":
		return h.handleATS(args)
	case "/behavior":
		return h.handleBehavior(args)
	case "/avatar":
		return h.handleAvatar()
	case "/answers":
		return h.handleAnswers()
	case "/restart":
		return h.handleRestart()
	case "/stop":
		return errQuit
	default:
		fmt.Println("Неизвестная команда. Используйте /help для списка команд.")
	}
	return nil
}

// handleAnswerInput обрабатывает ввод ответа
func (h *Handler) handleAnswerInput(line string) {
	ctrl := h.controller()

	if ctrl.Complete() {
		fmt.Println("Интервью завершено. Используйте /summary для отчета или /restart для нового интервью.")
		return
	}

	question := ctrl.Question()
	if question == nil {
		fmt.Println("Вопрос еще не получен. Используйте /status для проверки состояния.")
		return
	}

	switch {
	case question.Type == session.RoundMCQ:
		index, err := parseOptionChoice(line, len(question.Options))
		if err != nil {
			fmt.Printf("❌ %v\n", err)
			return
		}
		if err := ctrl.SelectOption(index); err != nil {
			fmt.Printf("❌ %v\n", err)
			return
		}
		fmt.Printf("Выбран вариант: %s\n", question.Options[index])
		h.submit()

	case question.Type.IsCode():
		code := h.collectCode(line)
		if err := ctrl.SetAnswerText(code); err != nil {
			fmt.Printf("❌ %v\n", err)
			return
		}
		h.submit()

	default:
		// Надиктованный текст не теряем: набранная строка дописывается к нему
		existing := ctrl.Answer()
		answer := line
		if strings.TrimSpace(existing) != "" {
			answer = existing + " " + line
		}
		if err := ctrl.SetAnswerText(answer); err != nil {
			fmt.Printf("❌ %v\n", err)
			return
		}
		h.submit()
	}
}

// collectCode читает многострочный код до строки с одной точкой
func (h *Handler) collectCode(firstLine string) string {
	fmt.Println("✍️  Режим кода: вводите строки, завершите вводом одной точки (.)")

	var lines []string
	if firstLine != "." {
		lines = append(lines, firstLine)
	} else {
		return ""
	}

	for h.scanner.Scan() {
		line := h.scanner.Text()
		if strings.TrimSpace(line) == "." {
			break
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// parseOptionChoice разбирает выбор варианта: буква (A, B, ...) или номер
func parseOptionChoice(input string, optionCount int) (int, error) {
	input = strings.TrimSpace(strings.ToUpper(input))
	if input == "" {
		return 0, fmt.Errorf("укажите букву или номер варианта")
	}

	if len(input) == 1 && input[0] >= 'A' && input[0] <= 'Z' {
		index := int(input[0] - 'A')
		if index < optionCount {
			return index, nil
		}
		return 0, fmt.Errorf("нет варианта %s", input)
	}

	if number, err := strconv.Atoi(input); err == nil {
		if number >= 1 && number <= optionCount {
			return number - 1, nil
		}
		return 0, fmt.Errorf("нет варианта с номером %d", number)
	}

	return 0, fmt.Errorf("введите букву (A, B, ...) или номер варианта")
}

// submit отправляет текущий ответ и применяет следующий обмен
func (h *Handler) submit() {
	ctrl := h.controller()
	question := ctrl.Question()
	answerText := ctrl.Answer()
	if question != nil && question.Type == session.RoundMCQ && ctrl.SelectedOption() >= 0 {
		answerText = question.Options[ctrl.SelectedOption()]
	}

	fmt.Println("📤 Отправляю ответ...")

	var lastResp *api.ExchangeResponse
	err := ctrl.Submit(func(sessionID, userAnswer string) (*api.ExchangeResponse, error) {
		resp, err := h.client.SubmitAnswer(sessionID, userAnswer)
		h.metrics.IncrementAPICall(err == nil)
		if err == nil {
			lastResp = resp
		}
		return resp, err
	})
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		return
	}

	// Журнал ответов и зеркало сессии для восстановления после перезапуска
	if question != nil {
		entry := storage.AnswerEntry{
			ID:         uuid.New().String(),
			RoundTitle: ctrl.RoundTitle(),
			RoundType:  question.Type.String(),
			Question:   question.Text,
			Answer:     answerText,
			Timestamp:  time.Now().Format(time.RFC3339),
		}
		if err := h.store.AppendAnswer(entry); err != nil {
			fmt.Printf("⚠️ Не удалось записать журнал ответов: %v\n", err)
		}
	}
	h.saveSnapshot(lastResp)

	if ctrl.Complete() {
		fmt.Println("\n🎉 Интервью завершено! Поздравляем!")
		if err := h.showSummary(); err != nil {
			fmt.Printf("⚠️ Не удалось получить итоговый отчет: %v\n", err)
		}
		fmt.Println("\nИспользуйте /restart для нового интервью или /stop для выхода.")
		return
	}

	h.renderCurrent()
}

// saveSnapshot сохраняет последний обмен в локальное хранилище
func (h *Handler) saveSnapshot(resp *api.ExchangeResponse) {
	if resp == nil {
		return
	}
	snapshot := &storage.Snapshot{
		SessionID: h.controller().SessionID(),
		SavedAt:   time.Now().Format(time.RFC3339),
		Exchange:  resp,
	}
	if err := h.store.SaveSnapshot(snapshot); err != nil {
		fmt.Printf("⚠️ Не удалось сохранить сессию локально: %v\n", err)
	}
}

// handleHint запрашивает подсказку для текущего вопроса
func (h *Handler) handleHint() error {
	ctrl := h.controller()
	if ctrl.SessionID() == "" || ctrl.Question() == nil {
		return fmt.Errorf("подсказка доступна только во время интервью")
	}

	hint, err := h.client.GetHint(ctrl.SessionID(), ctrl.Answer())
	h.metrics.IncrementAPICall(err == nil)
	if err != nil {
		return fmt.Errorf("не удалось получить подсказку: %w", err)
	}
	h.metrics.IncrementHintsRequested()

	fmt.Printf("💡 Подсказка: %s\n", hint)
	return nil
}

// handleVoice управляет голосовым режимом: /voice [on|off|имя_голоса]
func (h *Handler) handleVoice(args []string) error {
	if len(args) == 0 {
		state := "выключен"
		if h.voice.Enabled {
			state = "включен"
		}
		fmt.Printf("🔊 Голосовой режим %s, голос: %s\n", state, h.voice.Voice)
		fmt.Println("Используйте /voice on, /voice off или /voice <имя_голоса>.")
		return nil
	}

	switch args[0] {
	case "on":
		if !h.synth.Supported() {
			fmt.Println("⚠️ Ни плеер, ни локальный синтезатор не найдены — озвучка работать не будет.")
		}
		h.voice.Enabled = true
		fmt.Println("🔊 Голосовой режим включен.")
	case "off":
		h.voice.Enabled = false
		h.synth.Stop()
		fmt.Println("🔇 Голосовой режим выключен.")
	default:
		h.voice.Voice = args[0]
		fmt.Printf("🎙 Голос переключен на: %s\n", h.voice.Voice)
	}

	// Настройки переживают перезапуск клиента
	if err := h.store.SaveVoiceSettings(*h.voice); err != nil {
		return fmt.Errorf("не удалось сохранить настройки голоса: %w", err)
	}
	return nil
}

// handleListen включает и выключает диктовку ответа
func (h *Handler) handleListen() error {
	if h.recognizer == nil {
		return fmt.Errorf("распознавание речи не настроено")
	}

	if h.recognizer.Listening() {
		h.recognizer.Stop()
		fmt.Println("🎤 Диктовка остановлена. Проверьте ответ и отправьте его командой /submit.")
		return nil
	}

	if !h.recognizer.Supported() {
		return fmt.Errorf("запись с микрофона недоступна: установите %s или укажите другую команду записи", h.cfg.Audio.RecorderCommand)
	}

	if err := h.recognizer.Start(); err != nil {
		return err
	}
	fmt.Println("🎤 Слушаю... Говорите ответ, распознанные фрагменты будут добавляться в буфер.")
	fmt.Println("Повторный /listen остановит диктовку.")
	return nil
}

// handleSay озвучивает текущий вопрос по явной просьбе
func (h *Handler) handleSay() error {
	question := h.controller().Question()
	if question == nil {
		return fmt.Errorf("сейчас нечего озвучивать")
	}

	h.synth.Speak(question.Text, h.voice.Voice)
	h.metrics.IncrementSpeechPlayed()
	fmt.Println("🔊 Озвучиваю вопрос...")
	return nil
}

// handlePlan показывает сохраненный план интервью
func (h *Handler) handlePlan() error {
	plan, err := h.store.LoadPlan()
	if err != nil {
		return err
	}
	if plan == nil {
		fmt.Println("План недоступен: он запрашивается при запуске нового интервью.")
		return nil
	}
	renderPlan(plan)
	return nil
}

// handleATS отправляет резюме на ATS-проверку
func (h *Handler) handleATS(args []string) error {
	resumePath := ""
	if len(args) > 0 {
		resumePath = args[0]
	} else if h.setup != nil {
		resumePath = h.setup.ResumePath
	}
	if resumePath == "" {
		return fmt.Errorf("укажите путь к резюме: /ats <файл>")
	}

	jobDescription := ""
	if h.setup != nil {
		jobDescription = h.setup.JobDescription
	}

	fmt.Println("📄 Отправляю резюме на ATS-проверку...")
	report, err := h.client.ATSReview(resumePath, jobDescription)
	h.metrics.IncrementAPICall(err == nil)
	if err != nil {
		return fmt.Errorf("ATS-проверка не удалась: %w", err)
	}

	renderATSReport(report)
	return nil
}

// handleBehavior отправляет кадр с камеры на анализ поведения
func (h *Handler) handleBehavior(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("укажите путь к снимку: /behavior <файл.jpg>")
	}

	ctrl := h.controller()
	if ctrl.SessionID() == "" {
		return fmt.Errorf("анализ поведения доступен только во время интервью")
	}

	imageData, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("не удалось прочитать снимок %s: %w", args[0], err)
	}
	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(imageData)

	report, err := h.client.AnalyzeBehavior(ctrl.SessionID(), dataURL)
	h.metrics.IncrementAPICall(err == nil)
	if err != nil {
		return fmt.Errorf("анализ поведения не удался: %w", err)
	}

	renderBehaviorReport(report)
	return nil
}

// handleAvatar генерирует видео аватара для текущего вопроса
func (h *Handler) handleAvatar() error {
	question := h.controller().Question()
	if question == nil {
		return fmt.Errorf("сейчас нет вопроса для аватара")
	}

	fmt.Println("🎬 Генерирую видео аватара, это может занять время...")
	avatar, err := h.client.GenerateAvatar(question.Text, h.voice.Voice, "neutral")
	h.metrics.IncrementAPICall(err == nil)
	if err != nil {
		return fmt.Errorf("генерация аватара не удалась: %w", err)
	}

	fmt.Printf("🎬 Видео готово: %s\n", avatar.VideoURL)
	return nil
}

// handleAnswers показывает локальный журнал ответов
func (h *Handler) handleAnswers() error {
	entries, err := h.store.LoadAnswers()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("Журнал ответов пока пуст.")
		return nil
	}

	fmt.Printf("📒 Журнал ответов (%d):\n", len(entries))
	for i, entry := range entries {
		fmt.Printf("%d. [%s] %s\n   Ответ: %s\n", i+1, entry.RoundTitle, entry.Question, entry.Answer)
	}
	return nil
}

// handleRestart сбрасывает сессию и запускает новое интервью
func (h *Handler) handleRestart() error {
	if h.recognizer != nil {
		h.recognizer.Stop()
	}
	if err := h.store.Clear(); err != nil {
		return fmt.Errorf("не удалось очистить локальное состояние: %w", err)
	}
	h.setup = nil
	h.replaceController()

	fmt.Println("🔄 Сессия сброшена. Начинаем новое интервью.")
	if err := h.runSetup(); err != nil {
		return err
	}
	h.renderCurrent()
	return nil
}

// showSummary запрашивает и показывает итоговый отчет
func (h *Handler) showSummary() error {
	sessionID := h.controller().SessionID()
	if sessionID == "" {
		return fmt.Errorf("итоговый отчет доступен только для запущенной сессии")
	}

	summary, err := h.client.InterviewSummary(sessionID)
	h.metrics.IncrementAPICall(err == nil)
	if err != nil {
		return fmt.Errorf("не удалось получить итоговый отчет: %w", err)
	}

	renderSummary(summary)

	if h.voice.Enabled && summary.OverallFeedback != "" {
		h.synth.Speak("Интервью завершено! "+summary.OverallFeedback, h.voice.Voice)
		h.metrics.IncrementSpeechPlayed()
	}
	return nil
}
