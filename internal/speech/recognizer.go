package speech

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// sttBackend — та часть клиента бэкенда, которая нужна распознавателю
type sttBackend interface {
	Transcribe(fileName string, audio []byte) (string, error)
}

// Recognizer пишет звук с микрофона порциями и отправляет их
// на распознавание. Финальные сегменты транскрипта передаются
// потребителю по мере готовности, не заменяя уже накопленный текст.
type Recognizer struct {
	mu        sync.Mutex
	backend   sttBackend
	synth     *Synthesizer
	recorder  string // команда записи, например arecord
	chunkSec  int
	supported bool
	listening bool
	stop      chan struct{}
	done      chan struct{}
	onSegment func(text string)

	// точка подмены в тестах: пишет одну порцию аудио,
	// возвращает false когда запись прервана
	record func(stop <-chan struct{}) ([]byte, bool)
}

// NewRecognizer создает распознаватель речи.
// Доступность записи определяется сразу по наличию команды,
// а не через ошибку в момент запуска.
func NewRecognizer(backend sttBackend, synth *Synthesizer, recorderCmd string, chunkSeconds int, onSegment func(string)) *Recognizer {
	r := &Recognizer{
		backend:   backend,
		synth:     synth,
		recorder:  recorderCmd,
		chunkSec:  chunkSeconds,
		onSegment: onSegment,
	}
	if recorderCmd != "" {
		if _, err := exec.LookPath(recorderCmd); err == nil {
			r.supported = true
		}
	}
	r.record = r.recordChunk
	return r
}

// Supported сообщает, доступна ли запись с микрофона
func (r *Recognizer) Supported() bool {
	return r.supported
}

// Listening сообщает, идет ли сейчас запись
func (r *Recognizer) Listening() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listening
}

// Start включает непрерывное прослушивание.
// Перед записью всегда глушится озвучка, чтобы микрофон
// не подхватил голос самой программы.
func (r *Recognizer) Start() error {
	r.mu.Lock()
	if !r.supported {
		r.mu.Unlock()
		return fmt.Errorf("запись с микрофона недоступна: команда %q не найдена", r.recorder)
	}
	if r.listening {
		r.mu.Unlock()
		return nil
	}
	r.listening = true
	r.stop = make(chan struct{})
	r.done = make(chan struct{})
	stop, done := r.stop, r.done
	r.mu.Unlock()

	if r.synth != nil {
		r.synth.Stop()
	}

	go r.listen(stop, done)
	return nil
}

// Stop выключает прослушивание и освобождает микрофон
func (r *Recognizer) Stop() {
	r.mu.Lock()
	if !r.listening {
		r.mu.Unlock()
		return
	}
	r.listening = false
	stop, done := r.stop, r.done
	r.stop, r.done = nil, nil
	r.mu.Unlock()

	close(stop)
	<-done
}

// listen пишет порции аудио до остановки и отдает их на распознавание
func (r *Recognizer) listen(stop <-chan struct{}, done chan struct{}) {
	defer close(done)

	for {
		select {
		case <-stop:
			return
		default:
		}

		audio, ok := r.record(stop)
		if !ok {
			return
		}
		if len(audio) == 0 {
			continue
		}

		text, err := r.backend.Transcribe("chunk.wav", audio)
		if err != nil {
			log.Printf("Ошибка распознавания: %v", err)
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		if r.onSegment != nil {
			r.onSegment(text)
		}
	}
}

// recordChunk пишет одну порцию аудио внешней командой записи
func (r *Recognizer) recordChunk(stop <-chan struct{}) ([]byte, bool) {
	tmpPath := filepath.Join(os.TempDir(), fmt.Sprintf("rec_%s.wav", uuid.New().String()))
	defer os.Remove(tmpPath)

	cmd := exec.Command(r.recorder, "-d", strconv.Itoa(r.chunkSec), tmpPath)
	if err := cmd.Start(); err != nil {
		log.Printf("Ошибка запуска записи %s: %v", r.recorder, err)
		return nil, false
	}

	waitErr := make(chan error, 1)
	go func() { waitErr <- cmd.Wait() }()

	select {
	case <-stop:
		cmd.Process.Kill()
		<-waitErr
		return nil, false
	case err := <-waitErr:
		if err != nil {
			log.Printf("Запись завершилась с ошибкой: %v", err)
			return nil, false
		}
	}

	audio, err := os.ReadFile(tmpPath)
	if err != nil {
		log.Printf("Ошибка чтения записанного аудио: %v", err)
		return nil, true
	}
	return audio, true
}
