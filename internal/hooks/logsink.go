package hooks

import (
	"context"
	"sync"

	"github.com/smndtrl/nocodb/internal/meta"
)

// LogSink persists hook invocation logs. Writes are best-effort: the
// dispatcher never lets a failed log write affect a delivery outcome.
type LogSink interface {
	Insert(ctx context.Context, c meta.Context, log *meta.HookLog) error
}

// MemLogSink is an in-memory LogSink for tests and single-process setups.
type MemLogSink struct {
	mu   sync.Mutex
	logs []*meta.HookLog
}

func NewMemLogSink() *MemLogSink {
	return &MemLogSink{}
}

func (s *MemLogSink) Insert(_ context.Context, _ meta.Context, log *meta.HookLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, log)
	return nil
}

// Logs returns a snapshot of everything inserted so far.
func (s *MemLogSink) Logs() []*meta.HookLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*meta.HookLog, len(s.logs))
	copy(out, s.logs)
	return out
}
