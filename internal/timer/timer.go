package timer

import (
	"sync"
	"time"
)

// State представляет состояние таймера раунда
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StateExpired State = "expired"
)

// RoundTimer — владеющий дескриптор одного обратного отсчета.
// Инвариант: в любой момент живет не более одного отсчета,
// Arm всегда гасит предыдущий перед запуском нового.
type RoundTimer struct {
	mu        sync.Mutex
	state     State
	remaining int
	stop      chan struct{}
	done      chan struct{}
	onExpire  func()

	// интервал одного "тика-секунды", переопределяется в тестах
	tickInterval time.Duration
}

// New создает таймер в состоянии ожидания
func New(onExpire func()) *RoundTimer {
	return &RoundTimer{
		state:        StateIdle,
		onExpire:     onExpire,
		tickInterval: time.Second,
	}
}

// Arm запускает отсчет на заданную длительность.
// Предыдущий отсчет, если он был, останавливается и освобождается.
func (t *RoundTimer) Arm(d time.Duration) {
	t.Cancel()

	t.mu.Lock()
	t.state = StateRunning
	t.remaining = int(d / time.Second)
	t.stop = make(chan struct{})
	t.done = make(chan struct{})
	stop, done := t.stop, t.done
	t.mu.Unlock()

	go t.run(stop, done)
}

// Cancel останавливает отсчет и дожидается завершения его горутины.
// Повторный вызов безопасен.
func (t *RoundTimer) Cancel() {
	t.mu.Lock()
	stop, done := t.stop, t.done
	t.stop, t.done = nil, nil
	if t.state == StateRunning {
		t.state = StateIdle
	}
	t.mu.Unlock()

	if stop != nil {
		close(stop)
		<-done
	}
}

// Remaining возвращает оставшиеся секунды
func (t *RoundTimer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

// State возвращает текущее состояние таймера
func (t *RoundTimer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// run крутит отсчет до истечения или остановки
func (t *RoundTimer) run(stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(t.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			t.mu.Lock()
			if t.done != done {
				// отсчет уже перевооружен, этот тик устарел
				t.mu.Unlock()
				return
			}
			t.remaining--
			if t.remaining <= 0 {
				t.remaining = 0
				t.state = StateExpired
				t.stop, t.done = nil, nil
				onExpire := t.onExpire
				t.mu.Unlock()
				if onExpire != nil {
					onExpire()
				}
				return
			}
			t.mu.Unlock()
		}
	}
}
