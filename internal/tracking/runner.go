package tracking

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/pranaysuyash/advay-learning-sub002/internal/capture"
	"github.com/pranaysuyash/advay-learning-sub002/internal/detector"
	"github.com/pranaysuyash/advay-learning-sub002/internal/monitoring"
)

// ErrRunning is returned by Start when the loop is already active.
var ErrRunning = errors.New("tracking: runner already started")

// Runner drives a Session from a frame source at a fixed rate. Ticks run on
// one goroutine and never overlap; commands issued through Update are
// serialized with them.
type Runner struct {
	session  *Session
	source   capture.Source
	detector detector.Detector
	interval time.Duration

	mu      sync.Mutex // guards session, start, lastTS
	start   time.Time
	lastTS  int64
	latest  Frame
	onFrame func(Frame)

	loopMu sync.Mutex // guards stopCh, done
	stopCh chan struct{}
	done   chan struct{}
}

// NewRunner creates a Runner polling source at fps frames per second.
// Non-positive fps uses capture.DefaultFPS.
func NewRunner(session *Session, source capture.Source, det detector.Detector, fps int) *Runner {
	if fps <= 0 {
		fps = capture.DefaultFPS
	}
	return &Runner{
		session:  session,
		source:   source,
		detector: det,
		interval: time.Second / time.Duration(fps),
	}
}

// OnFrame registers a callback invoked with every tick's result on the loop
// goroutine. It must not block or call back into the Runner.
func (r *Runner) OnFrame(fn func(Frame)) {
	r.mu.Lock()
	r.onFrame = fn
	r.mu.Unlock()
}

// Latest returns the most recent tick result.
func (r *Runner) Latest() Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.latest
}

// Update runs fn against the session between ticks.
func (r *Runner) Update(fn func(s *Session)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.session)
}

// Start opens the source and begins ticking until Stop is called or ctx is
// done. After ctx ends, Stop must still be called before starting again.
func (r *Runner) Start(ctx context.Context) error {
	r.loopMu.Lock()
	defer r.loopMu.Unlock()

	if r.stopCh != nil {
		return ErrRunning
	}
	if err := r.source.Open(); err != nil {
		return err
	}

	r.mu.Lock()
	r.start = time.Now()
	r.lastTS = -1
	r.mu.Unlock()

	r.stopCh = make(chan struct{})
	r.done = make(chan struct{})
	go r.loop(ctx, r.stopCh, r.done)

	monitoring.Logf("Tracking loop started at %v per frame", r.interval)
	return nil
}

// Stop halts the loop, releases any active pinch and closes the source.
// It blocks until the final tick has finished. Stopping an idle runner is
// a no-op.
func (r *Runner) Stop() {
	r.loopMu.Lock()
	stopCh, done := r.stopCh, r.done
	r.stopCh, r.done = nil, nil
	r.loopMu.Unlock()

	if stopCh == nil {
		return
	}
	close(stopCh)
	<-done
}

func (r *Runner) loop(ctx context.Context, stopCh, done chan struct{}) {
	defer close(done)
	defer r.shutdown()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case <-ticker.C:
			r.Tick()
		}
	}
}

// shutdown publishes the forced release and closes the source.
func (r *Runner) shutdown() {
	r.mu.Lock()
	r.publish(r.session.loseHand(r.timestamp()))
	r.mu.Unlock()

	if err := r.source.Close(); err != nil {
		monitoring.Logf("Error closing frame source: %v", err)
	}
	monitoring.Logf("Tracking loop stopped")
}

// Tick reads one frame, runs detection and processes the result. The loop
// calls it on every tick; tests and replays may call it directly.
func (r *Runner) Tick() Frame {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := r.timestamp()

	frame, err := r.source.ReadFrame()
	if err != nil {
		monitoring.Debugf("Error reading frame: %v", err)
		return r.publish(r.session.Process(ts, nil, err))
	}

	hands, err := r.detector.DetectForVideoFrame(frame, ts)
	if frame != nil {
		frame.Close()
	}
	return r.publish(r.session.Process(ts, hands, err))
}

// timestamp returns a strictly increasing millisecond offset from Start.
// Callers hold r.mu.
func (r *Runner) timestamp() int64 {
	if r.start.IsZero() {
		r.start = time.Now()
		r.lastTS = -1
	}
	ts := time.Since(r.start).Milliseconds()
	if ts <= r.lastTS {
		ts = r.lastTS + 1
	}
	r.lastTS = ts
	return ts
}

// publish records out and hands it to the subscriber. Callers hold r.mu.
func (r *Runner) publish(out Frame) Frame {
	r.latest = out
	if r.onFrame != nil {
		r.onFrame(out)
	}
	return out
}
