package speech

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"mock-interview-cli/internal/api"
)

// ttsBackend — та часть клиента бэкенда, которая нужна синтезатору
type ttsBackend interface {
	Synthesize(text, voice string) (*api.SpeechClip, error)
}

// utterance — одно проигрываемое высказывание
type utterance interface {
	wait() error
	halt()
}

// Synthesizer озвучивает текст. Сначала пробует бэкенд /api/tts,
// при сбое или сигнале fallback переходит на локальную команду синтеза.
// Слот высказывания один: новый Speak гасит предыдущее воспроизведение.
type Synthesizer struct {
	mu      sync.Mutex
	backend ttsBackend
	player  string // команда воспроизведения wav, например aplay
	local   string // команда локального синтеза, например espeak

	current utterance
	gen     uint64

	// точка подмены в тестах
	start func(text, voice string) (utterance, error)
}

// NewSynthesizer создает синтезатор речи
func NewSynthesizer(backend ttsBackend, playerCmd, localCmd string) *Synthesizer {
	s := &Synthesizer{
		backend: backend,
		player:  playerCmd,
		local:   localCmd,
	}
	s.start = s.startUtterance
	return s
}

// Supported сообщает, доступно ли хоть одно средство воспроизведения.
// Проверка выполняется заранее, а не через исключение в момент вызова.
func (s *Synthesizer) Supported() bool {
	if s.player != "" {
		if _, err := exec.LookPath(s.player); err == nil {
			return true
		}
	}
	if s.local != "" {
		if _, err := exec.LookPath(s.local); err == nil {
			return true
		}
	}
	return false
}

// Speak озвучивает текст в режиме fire-and-forget.
// Текущее высказывание, если оно есть, останавливается.
func (s *Synthesizer) Speak(text, voice string) {
	if strings.TrimSpace(text) == "" {
		return
	}

	s.mu.Lock()
	s.gen++
	gen := s.gen
	current := s.current
	s.current = nil
	s.mu.Unlock()

	if current != nil {
		current.halt()
	}

	go func() {
		u, err := s.start(text, voice)
		if err != nil {
			log.Printf("Озвучка не удалась: %v", err)
			return
		}

		s.mu.Lock()
		if s.gen != gen {
			// пока готовили аудио, слот заняло новое высказывание
			s.mu.Unlock()
			u.halt()
			return
		}
		s.current = u
		s.mu.Unlock()

		u.wait()

		s.mu.Lock()
		if s.current == u {
			s.current = nil
		}
		s.mu.Unlock()
	}()
}

// Stop останавливает текущее воспроизведение
func (s *Synthesizer) Stop() {
	s.mu.Lock()
	s.gen++
	current := s.current
	s.current = nil
	s.mu.Unlock()

	if current != nil {
		current.halt()
	}
}

// Speaking сообщает, занято ли сейчас воспроизведение
func (s *Synthesizer) Speaking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil
}

// startUtterance готовит и запускает воспроизведение
func (s *Synthesizer) startUtterance(text, voice string) (utterance, error) {
	clip, err := s.backend.Synthesize(text, voice)
	if err != nil || clip.Fallback {
		// Бэкенд недоступен или явно попросил локальный синтез
		fallbackText := text
		if err == nil && clip.FallbackText != "" {
			fallbackText = clip.FallbackText
		}
		return s.startLocal(fallbackText)
	}
	return s.startClip(clip)
}

// startClip проигрывает готовое аудио через внешний плеер
func (s *Synthesizer) startClip(clip *api.SpeechClip) (utterance, error) {
	if s.player == "" {
		return nil, fmt.Errorf("команда воспроизведения не настроена")
	}

	tmpPath := filepath.Join(os.TempDir(), fmt.Sprintf("tts_%s.wav", uuid.New().String()))
	if err := os.WriteFile(tmpPath, clip.Audio, 0644); err != nil {
		return nil, fmt.Errorf("ошибка записи аудио во временный файл: %w", err)
	}

	cmd := exec.Command(s.player, tmpPath)
	if err := cmd.Start(); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("ошибка запуска плеера %s: %w", s.player, err)
	}
	return &cmdUtterance{cmd: cmd, tmpPath: tmpPath}, nil
}

// startLocal озвучивает текст локальной командой синтеза
func (s *Synthesizer) startLocal(text string) (utterance, error) {
	if s.local == "" {
		return nil, fmt.Errorf("локальный синтез не настроен")
	}

	cmd := exec.Command(s.local, text)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("ошибка запуска синтезатора %s: %w", s.local, err)
	}
	return &cmdUtterance{cmd: cmd}, nil
}

// cmdUtterance — высказывание, проигрываемое внешним процессом
type cmdUtterance struct {
	cmd     *exec.Cmd
	tmpPath string
}

func (u *cmdUtterance) wait() error {
	err := u.cmd.Wait()
	if u.tmpPath != "" {
		os.Remove(u.tmpPath)
	}
	return err
}

func (u *cmdUtterance) halt() {
	if u.cmd.Process != nil {
		u.cmd.Process.Kill()
	}
}
