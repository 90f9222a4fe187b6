package detector

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Record is one line of a detector recording. Each line is a service
// response with the frame timestamp added:
//
//	{"timestamp_ms":33,"hands":[{"landmarks":[{"x":0.5,"y":0.8,"z":0}, ...]}]}
//
// A line carrying "error" replays as a failed detection.
type Record struct {
	TimestampMs int64
	Hands       []LandmarkFrame
	Err         error
}

type jsonRecord struct {
	TimestampMs int64 `json:"timestamp_ms"`
	jsonResponse
}

// RecordingReader reads a JSON-lines detector recording.
type RecordingReader struct {
	scanner *bufio.Scanner
	line    int
}

// NewRecordingReader creates a RecordingReader over r.
func NewRecordingReader(r io.Reader) *RecordingReader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), 1<<20)
	return &RecordingReader{scanner: s}
}

// Next returns the next record, skipping blank lines. It returns io.EOF at
// the end of the recording.
func (rr *RecordingReader) Next() (Record, error) {
	for rr.scanner.Scan() {
		rr.line++
		line := bytes.TrimSpace(rr.scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var rec jsonRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return Record{}, fmt.Errorf("line %d: %w", rr.line, err)
		}
		out := Record{TimestampMs: rec.TimestampMs}
		if rec.Error != "" {
			out.Err = errors.New(rec.Error)
			return out, nil
		}
		out.Hands = rec.frames(rec.TimestampMs)
		return out, nil
	}
	if err := rr.scanner.Err(); err != nil {
		return Record{}, fmt.Errorf("line %d: %w", rr.line+1, err)
	}
	return Record{}, io.EOF
}

// WriteRecord appends one recording line for hands detected at timestampMs.
func WriteRecord(w io.Writer, timestampMs int64, hands []LandmarkFrame) error {
	rec := jsonRecord{TimestampMs: timestampMs}
	rec.Hands = make([]jsonHand, len(hands))
	for i, h := range hands {
		pts := make([]jsonPoint, len(h.Landmarks))
		for j, lm := range h.Landmarks {
			x, y := lm.X, lm.Y
			pts[j] = jsonPoint{X: &x, Y: &y, Z: lm.Z}
		}
		rec.Hands[i] = jsonHand{Landmarks: pts}
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
