package capture

import (
	"errors"
	"testing"

	"gocv.io/x/gocv"
)

func TestPlayback_Sequence(t *testing.T) {
	frame1 := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame1.Close()
	frame2 := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame2.Close()

	src := NewPlayback([]*gocv.Mat{&frame1, &frame2}, false)

	if _, err := src.ReadFrame(); !errors.Is(err, ErrNotOpen) {
		t.Fatalf("ReadFrame() before Open error = %v, want ErrNotOpen", err)
	}

	if err := src.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer src.Close()

	for i := 0; i < 2; i++ {
		f, err := src.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame() %d error = %v", i, err)
		}
		f.Close()
	}

	if _, err := src.ReadFrame(); !errors.Is(err, ErrExhausted) {
		t.Errorf("expected ErrExhausted after all frames consumed, got %v", err)
	}
}

func TestPlayback_Loop(t *testing.T) {
	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	src := NewPlayback([]*gocv.Mat{&frame}, true)
	src.Open()
	defer src.Close()

	for i := 0; i < 5; i++ {
		f, err := src.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame() iteration %d error = %v", i, err)
		}
		f.Close()
	}
}

func TestPlayback_Empty(t *testing.T) {
	src := NewPlayback(nil, true)
	src.Open()

	if _, err := src.ReadFrame(); !errors.Is(err, ErrExhausted) {
		t.Errorf("expected ErrExhausted for empty playback, got %v", err)
	}
}

func TestBlank(t *testing.T) {
	src := NewBlank(0, 0)
	if _, err := src.ReadFrame(); !errors.Is(err, ErrNotOpen) {
		t.Fatalf("expected ErrNotOpen, got %v", err)
	}

	src.Open()
	f, err := src.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}
	defer f.Close()

	if f.Cols() != DefaultWidth || f.Rows() != DefaultHeight {
		t.Errorf("frame size = %dx%d, want %dx%d", f.Cols(), f.Rows(), DefaultWidth, DefaultHeight)
	}
}
