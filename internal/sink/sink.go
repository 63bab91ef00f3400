// Package sink delivers dashboard events.
package sink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/naka-gawa/pr-quality-stats/internal/domain"
)

// Sink receives the complete event set of one run.
type Sink interface {
	Emit(ctx context.Context, events []domain.Event) error
}

// JSON writes the events as an indented JSON array.
type JSON struct {
	w io.Writer
}

// NewJSON creates a sink writing to w.
func NewJSON(w io.Writer) *JSON {
	return &JSON{w: w}
}

func (s *JSON) Emit(_ context.Context, events []domain.Event) error {
	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal events to JSON: %w", err)
	}
	if _, err := fmt.Fprintln(s.w, string(data)); err != nil {
		return fmt.Errorf("failed to write events: %w", err)
	}
	return nil
}

// Multi fans events out to every sink and joins their errors.
type Multi []Sink

func (m Multi) Emit(ctx context.Context, events []domain.Event) error {
	var errs []error
	for _, s := range m {
		if err := s.Emit(ctx, events); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
