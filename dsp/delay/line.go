// Package delay provides sample history buffers for adaptive filters.
package delay

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-aec/dsp/core"
)

// ErrInvalidSize is returned when a line is created with a non-positive size.
var ErrInvalidSize = errors.New("delay: size must be > 0")

// Line is a circular history of the most recent samples.
//
// The buffer is stored twice back to back so the last Len() samples are
// always available as one contiguous slice in chronological order. Slots that
// have not been written yet read as zero, which is the same as left-padding
// the input with Len()-1 zeros.
type Line struct {
	buffer   []float64 // 2*size, second half mirrors the first
	size     int
	writePos int
}

// New returns a history line holding size samples.
func New(size int) (*Line, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	return &Line{buffer: make([]float64, 2*size), size: size}, nil
}

// Len returns the number of samples held.
func (d *Line) Len() int {
	return d.size
}

// Write appends one sample, discarding the oldest.
func (d *Line) Write(sample float64) {
	d.buffer[d.writePos] = sample
	d.buffer[d.writePos+d.size] = sample
	d.writePos++
	if d.writePos >= d.size {
		d.writePos = 0
	}
}

// Window returns the last Len() samples, oldest first and newest last.
// The slice aliases internal storage and is only valid until the next Write.
func (d *Line) Window() []float64 {
	return d.buffer[d.writePos : d.writePos+d.size]
}

// Reset clears line state.
func (d *Line) Reset() {
	core.Zero(d.buffer)
	d.writePos = 0
}
