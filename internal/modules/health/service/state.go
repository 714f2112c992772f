package service

import (
	"sync"
	"sync/atomic"
	"time"

	"signal_bot/internal/models"
)

// State: то, что видно снаружи через /readyz и /healthz.
// Готовность выставляется после первого прохода оценки.
type State struct {
	ready     atomic.Bool
	startedAt time.Time
	hub       *Hub

	lastEvalUnix   atomic.Int64 // unix seconds
	lastReportUnix atomic.Int64

	mu        sync.RWMutex
	decisions map[string]models.Decision // symbol -> последнее решение
}

func NewState(hub *Hub) *State {
	s := &State{
		startedAt: time.Now(),
		hub:       hub,
		decisions: make(map[string]models.Decision),
	}
	s.ready.Store(false)
	return s
}

func (s *State) SetReady(v bool) { s.ready.Store(v) }
func (s *State) Ready() bool     { return s.ready.Load() }

func (s *State) OnSignal(sig models.Signal) {
	s.mu.Lock()
	s.decisions[sig.Instrument.Symbol] = sig.Decision
	s.mu.Unlock()

	if s.hub != nil {
		s.hub.Broadcast(NewSignalEvent(sig, time.Now()))
	}
}

func (s *State) OnEvaluated(at time.Time) {
	s.lastEvalUnix.Store(at.Unix())
	s.ready.Store(true)
}

func (s *State) OnReported(at time.Time) { s.lastReportUnix.Store(at.Unix()) }

func (s *State) LastEvaluation() time.Time { return fromUnix(s.lastEvalUnix.Load()) }
func (s *State) LastReport() time.Time     { return fromUnix(s.lastReportUnix.Load()) }

// Decisions: копия последних решений по символам.
func (s *State) Decisions() map[string]models.Decision {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]models.Decision, len(s.decisions))
	for k, v := range s.decisions {
		out[k] = v
	}
	return out
}

func (s *State) Uptime() time.Duration { return time.Since(s.startedAt) }

func fromUnix(u int64) time.Time {
	if u == 0 {
		return time.Time{}
	}
	return time.Unix(u, 0)
}
