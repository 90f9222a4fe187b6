package capture

import (
	"sync"

	"gocv.io/x/gocv"
)

// Playback replays a fixed set of frames. It backs tests and replays where
// no device is attached.
type Playback struct {
	mu      sync.Mutex
	frames  []*gocv.Mat
	index   int
	loop    bool
	running bool
	fps     int
}

// NewPlayback creates a Playback over frames. With loop set the sequence
// restarts instead of returning ErrExhausted.
func NewPlayback(frames []*gocv.Mat, loop bool) *Playback {
	return &Playback{frames: frames, loop: loop, fps: DefaultFPS}
}

func (p *Playback) Open() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.running = true
	p.index = 0
	return nil
}

func (p *Playback) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.running = false
	return nil
}

// ReadFrame returns a clone of the next frame.
func (p *Playback) ReadFrame() (*gocv.Mat, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return nil, ErrNotOpen
	}
	if len(p.frames) == 0 {
		return nil, ErrExhausted
	}
	if p.index >= len(p.frames) {
		if !p.loop {
			return nil, ErrExhausted
		}
		p.index = 0
	}

	frame := p.frames[p.index].Clone()
	p.index++
	return &frame, nil
}

func (p *Playback) SetFPS(fps int) {
	if fps <= 0 {
		return
	}
	p.mu.Lock()
	p.fps = fps
	p.mu.Unlock()
}

func (p *Playback) FPS() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fps
}

func (p *Playback) IsOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Blank is an endless Source of black frames, paired with a scripted
// detector when running without a camera.
type Blank struct {
	mu      sync.Mutex
	width   int
	height  int
	running bool
}

// NewBlank creates a Blank source of the given size. Non-positive sizes use
// the defaults.
func NewBlank(width, height int) *Blank {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &Blank{width: width, height: height}
}

func (b *Blank) Open() error {
	b.mu.Lock()
	b.running = true
	b.mu.Unlock()
	return nil
}

func (b *Blank) Close() error {
	b.mu.Lock()
	b.running = false
	b.mu.Unlock()
	return nil
}

func (b *Blank) ReadFrame() (*gocv.Mat, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.running {
		return nil, ErrNotOpen
	}
	mat := gocv.NewMatWithSize(b.height, b.width, gocv.MatTypeCV8UC3)
	return &mat, nil
}
