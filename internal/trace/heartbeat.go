package trace

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"
)

// Heartbeat periodically emits events so a stuck compilation shows up in the
// trace as heartbeats without matching SpanEnd events.
type Heartbeat struct {
	tracer   Tracer
	interval time.Duration
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	once     sync.Once
}

// StartHeartbeat starts emitting every interval until Stop or until ctx is
// done. Returns nil when tracing is off or interval is not positive.
func StartHeartbeat(ctx context.Context, tracer Tracer, interval time.Duration) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || interval <= 0 {
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	h := &Heartbeat{tracer: tracer, interval: interval, cancel: cancel}
	h.wg.Add(1)
	go h.run(ctx)
	return h
}

func (h *Heartbeat) run(ctx context.Context) {
	defer h.wg.Done()
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	var beat uint64
	for {
		select {
		case <-ticker.C:
			beat++
			h.tracer.Emit(&Event{
				Time:   time.Now(),
				Seq:    NextSeq(),
				Kind:   KindHeartbeat,
				Scope:  ScopeDriver,
				GID:    goroutineID(),
				Name:   "heartbeat",
				Detail: fmt.Sprintf("#%d goroutines=%d", beat, runtime.NumGoroutine()),
			})
		case <-ctx.Done():
			return
		}
	}
}

// Stop stops the heartbeat goroutine and waits for it. Safe on nil and when
// called twice.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() {
		h.cancel()
		h.wg.Wait()
	})
}
