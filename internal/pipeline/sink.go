// Package pipeline orchestrates scoring runs over candidate collections.
package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/jonathan/jd-fit-evaluator/internal/types"
)

// ResultSink receives score results as they are produced. Implementations
// must be safe for concurrent use; results arrive in completion order, not
// input order.
type ResultSink interface {
	Write(result types.ScoreResult) error
}

// JSONLSink appends one self-contained JSON record per result to a writer,
// flushing incrementally so an interrupted run still yields usable output.
type JSONLSink struct {
	mu  sync.Mutex
	out io.Writer
}

// NewJSONLSink wraps a writer as a line-delimited JSON sink.
func NewJSONLSink(out io.Writer) *JSONLSink {
	return &JSONLSink{out: out}
}

// Write implements ResultSink.
func (s *JSONLSink) Write(result types.ScoreResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal score result: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.out.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write score result: %w", err)
	}
	return nil
}

// MultiSink fans each result out to several sinks, stopping at the first
// error.
type MultiSink []ResultSink

// Write implements ResultSink.
func (m MultiSink) Write(result types.ScoreResult) error {
	for _, sink := range m {
		if err := sink.Write(result); err != nil {
			return err
		}
	}
	return nil
}
