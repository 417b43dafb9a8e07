package db

import (
	"github.com/gyeh/clinicprep/internal/model"
	"github.com/jackc/pgx/v5"
)

// ChannelSource implements pgx.CopyFromSource by reading StoredExamples from a channel.
// This provides natural backpressure between the producer and COPY writer.
type ChannelSource struct {
	ch      <-chan *model.StoredExample
	current *model.StoredExample
	err     error
}

// NewChannelSource creates a CopyFromSource backed by a channel.
func NewChannelSource(ch <-chan *model.StoredExample) *ChannelSource {
	return &ChannelSource{ch: ch}
}

// Next advances to the next row. Returns false when the channel is closed.
func (s *ChannelSource) Next() bool {
	row, ok := <-s.ch
	if !ok {
		return false
	}
	s.current = row
	return true
}

// Values returns the current row's values in COPY column order.
func (s *ChannelSource) Values() ([]any, error) {
	vals, err := s.current.CopyValues()
	if err != nil {
		s.err = err
	}
	return vals, err
}

// Err returns any error encountered during iteration.
func (s *ChannelSource) Err() error {
	return s.err
}

// Compile-time check that ChannelSource satisfies the interface.
var _ pgx.CopyFromSource = (*ChannelSource)(nil)
