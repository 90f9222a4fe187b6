// Command tracereplay runs a JSON-lines detector recording through the
// tracking pipeline and reports what it drew.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/pranaysuyash/advay-learning-sub002/internal/config"
	"github.com/pranaysuyash/advay-learning-sub002/internal/detector"
	"github.com/pranaysuyash/advay-learning-sub002/internal/server/api"
	"github.com/pranaysuyash/advay-learning-sub002/internal/store"
	"github.com/pranaysuyash/advay-learning-sub002/internal/trace"
	"github.com/pranaysuyash/advay-learning-sub002/internal/tracking"
)

var (
	input      = flag.String("in", "", "Recording to replay (JSON lines)")
	tuningPath = flag.String("config", "", "YAML tuning file")
	pngPath    = flag.String("png", "", "Write the drawn strokes to this PNG")
	dbPath     = flag.String("db", "", "Score the drawing against the trace templates in this database")
)

func main() {
	flag.Parse()
	if *input == "" {
		fmt.Fprintln(os.Stderr, "usage: tracereplay -in recording.jsonl [-config tuning.yaml] [-png out.png] [-db advay.db]")
		os.Exit(2)
	}

	cfg := tracking.DefaultConfig()
	if *tuningPath != "" {
		t, err := config.Load(*tuningPath)
		if err != nil {
			log.Fatalf("Failed to load tuning: %v", err)
		}
		cfg = t.Apply(cfg)
	}

	f, err := os.Open(*input)
	if err != nil {
		log.Fatalf("Failed to open recording: %v", err)
	}
	defer f.Close()

	sum, err := Replay(detector.NewRecordingReader(f), cfg)
	if err != nil {
		log.Fatalf("Replay failed: %v", err)
	}
	fmt.Print(sum)

	if *pngPath != "" {
		if err := savePlot(sum.Strokes, *pngPath); err != nil {
			log.Fatalf("Failed to plot strokes: %v", err)
		}
		fmt.Printf("wrote %s\n", *pngPath)
	}

	if *dbPath != "" {
		if err := scoreTemplates(*dbPath, sum); err != nil {
			log.Fatalf("Failed to score templates: %v", err)
		}
	}
}

func scoreTemplates(path string, sum *Summary) error {
	st, err := store.New(path)
	if err != nil {
		return err
	}
	defer st.Close()

	m := trace.NewMatcher()
	if _, err := api.LoadTemplates(st, m); err != nil {
		return err
	}

	matches := m.Match(sum.Strokes)
	if len(matches) == 0 {
		fmt.Println("no template matched")
		return nil
	}
	for _, match := range matches {
		fmt.Printf("  %-12s score %.3f (distance %.4f)\n", match.Template.Name, match.Score, match.Distance)
	}
	return nil
}
