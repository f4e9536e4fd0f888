package clock

import (
	"sync"
	"time"
)

// Clock abstrai a leitura do horário atual para que expiração de token e
// janelas de data possam ser testadas sem depender do relógio real
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// System retorna o relógio do sistema em UTC
func System() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// Fake é um relógio controlado manualmente
type Fake struct {
	mu  sync.Mutex
	now time.Time
}

func NewFake(now time.Time) *Fake {
	return &Fake{now: now}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Advance move o relógio para frente
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func (f *Fake) Set(now time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = now
}
