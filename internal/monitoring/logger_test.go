package monitoring

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
)

func TestSetLogger(t *testing.T) {
	orig := Logf
	defer func() { Logf = orig }()

	var got string
	SetLogger(func(format string, v ...interface{}) {
		got = fmt.Sprintf(format, v...)
	})
	Logf("hello %d", 7)
	if got != "hello 7" {
		t.Errorf("expected %q, got %q", "hello 7", got)
	}

	SetLogger(nil)
	Logf("muted")
	if got != "hello 7" {
		t.Errorf("nil logger should be a no-op, got %q", got)
	}
}

func TestDebugf(t *testing.T) {
	orig := Logf
	defer func() {
		Logf = orig
		SetVerbose(false)
	}()

	calls := 0
	SetLogger(func(string, ...interface{}) { calls++ })

	Debugf("quiet")
	if calls != 0 {
		t.Errorf("expected no output when not verbose, got %d calls", calls)
	}

	SetVerbose(true)
	Debugf("loud")
	if calls != 1 {
		t.Errorf("expected 1 call when verbose, got %d", calls)
	}
}

func TestSetVerbose_Concurrent(t *testing.T) {
	orig := Logf
	defer func() {
		Logf = orig
		SetVerbose(false)
	}()

	var calls atomic.Int64
	SetLogger(func(string, ...interface{}) { calls.Add(1) })

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			Debugf("tick %d", i)
		}
	}()
	for i := 0; i < 100; i++ {
		SetVerbose(i%2 == 0)
	}
	wg.Wait()

	SetVerbose(true)
	before := calls.Load()
	Debugf("on")
	if calls.Load() != before+1 {
		t.Errorf("expected Debugf to log once verbose is on")
	}
}
