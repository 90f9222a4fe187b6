package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/pranaysuyash/advay-learning-sub002/internal/capture"
	"github.com/pranaysuyash/advay-learning-sub002/internal/config"
	"github.com/pranaysuyash/advay-learning-sub002/internal/detector"
	"github.com/pranaysuyash/advay-learning-sub002/internal/monitoring"
	"github.com/pranaysuyash/advay-learning-sub002/internal/server"
	"github.com/pranaysuyash/advay-learning-sub002/internal/server/api"
	"github.com/pranaysuyash/advay-learning-sub002/internal/store"
	"github.com/pranaysuyash/advay-learning-sub002/internal/trace"
	"github.com/pranaysuyash/advay-learning-sub002/internal/tracking"
)

var (
	listen     = flag.String("listen", ":8080", "Listen address")
	dbPath     = flag.String("db", "", "Database path (default ~/.advay/advay.db)")
	tuningPath = flag.String("config", "", "YAML tuning file applied over the active preset")
	cameraID   = flag.Int("camera", 0, "Camera device index")
	mock       = flag.Bool("mock", false, "Use a blank video source and a fixed open-palm hand")
	verbose    = flag.Bool("verbose", false, "Log per-frame diagnostics")
)

func main() {
	flag.Parse()
	monitoring.SetVerbose(*verbose)

	fmt.Println("Advay - Hand Tracking Input")

	path, err := resolveDBPath(*dbPath)
	if err != nil {
		log.Fatalf("Failed to resolve database path: %v", err)
	}
	st, err := store.New(path)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	cfg, fps, err := loadTuning(st, *tuningPath)
	if err != nil {
		log.Fatalf("Failed to load tuning: %v", err)
	}

	matcher := trace.NewMatcher()
	n, err := api.LoadTemplates(st, matcher)
	if err != nil {
		log.Fatalf("Failed to load trace templates: %v", err)
	}
	monitoring.Logf("Loaded %d trace templates", n)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	det := newDetector(*mock)
	defer det.Close()

	runner, err := startRunner(ctx, tracking.NewSession(cfg), det, fps)
	if err != nil {
		log.Fatalf("Failed to start tracking: %v", err)
	}
	defer runner.Stop()

	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		Matcher:   matcher,
		Tracker:   runner,
	})

	fmt.Printf("Starting server on %s\n", *listen)
	if err := srv.ListenAndServe(ctx, *listen); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
	fmt.Println("Shutting down")
}

// resolveDBPath returns path, or ~/.advay/advay.db when path is empty,
// creating the parent directory.
func resolveDBPath(path string) (string, error) {
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, ".advay", "advay.db")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	return path, nil
}

// loadTuning layers the active preset and then the tuning file over the
// defaults.
func loadTuning(st *store.Store, path string) (tracking.Config, int, error) {
	cfg := tracking.DefaultConfig()
	fps := capture.DefaultFPS

	id, err := st.Settings().Get(store.SettingActivePreset)
	switch {
	case err == nil:
		p, err := st.Presets().GetByID(id)
		if err != nil {
			return cfg, fps, fmt.Errorf("failed to load active preset %s: %w", id, err)
		}
		t, err := config.Parse([]byte(p.Body))
		if err != nil {
			return cfg, fps, fmt.Errorf("preset %q: %w", p.Name, err)
		}
		cfg, fps = t.Apply(cfg), t.GetFPS(fps)
		monitoring.Logf("Using tuning preset %q", p.Name)
	case !errors.Is(err, store.ErrNotFound):
		return cfg, fps, err
	}

	if path != "" {
		t, err := config.Load(path)
		if err != nil {
			return cfg, fps, err
		}
		cfg, fps = t.Apply(cfg), t.GetFPS(fps)
		monitoring.Logf("Using tuning file %s", path)
	}
	return cfg, fps, nil
}

func newDetector(mock bool) detector.Detector {
	if !mock {
		d, err := detector.NewMediaPipeDetector(detector.DefaultConfig())
		if err == nil {
			return d
		}
		monitoring.Logf("MediaPipe unavailable, using mock detector: %v", err)
	}
	m := detector.NewMockDetector()
	m.SetHands([]detector.LandmarkFrame{detector.OpenPalmFrame()})
	return m
}

// startRunner starts tracking on the camera, falling back to a blank source
// when the camera cannot be opened.
func startRunner(ctx context.Context, session *tracking.Session, det detector.Detector, fps int) (*tracking.Runner, error) {
	if !*mock {
		cam := capture.NewCamera(*cameraID)
		cam.SetFPS(fps)
		runner := tracking.NewRunner(session, cam, det, fps)
		err := runner.Start(ctx)
		if err == nil {
			return runner, nil
		}
		monitoring.Logf("Camera %d unavailable, using blank source: %v", *cameraID, err)
	}

	runner := tracking.NewRunner(session, capture.NewBlank(capture.DefaultWidth, capture.DefaultHeight), det, fps)
	if err := runner.Start(ctx); err != nil {
		return nil, err
	}
	return runner, nil
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.advay/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".advay", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
