// Package capturetest provides an in-memory capture.Device for tests.
package capturetest

import (
	"context"
	"github.com/jaam8/survey_client/internal/capture"
	"sync"
)

type Device struct {
	// Err, when set, denies every Acquire.
	Err  error
	Mime string

	mu       sync.Mutex
	acquired int
	released int
	last     *Stream
}

func (d *Device) Acquire(ctx context.Context) (capture.Stream, error) {
	if d.Err != nil {
		return nil, d.Err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.acquired++
	d.last = &Stream{d: d, chunks: make(chan []byte, 64)}
	return d.last, nil
}

// Feed delivers chunks on the most recently acquired stream.
func (d *Device) Feed(chunks ...[]byte) {
	d.mu.Lock()
	s := d.last
	d.mu.Unlock()
	for _, c := range chunks {
		s.chunks <- c
	}
}

func (d *Device) Acquired() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.acquired
}

func (d *Device) Released() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.released
}

// Held reports whether an acquired stream has not been released.
func (d *Device) Held() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.acquired > d.released
}

type Stream struct {
	d      *Device
	chunks chan []byte
	once   sync.Once
}

func (s *Stream) Chunks() <-chan []byte {
	return s.chunks
}

func (s *Stream) MimeType() string {
	return s.d.Mime
}

func (s *Stream) Release() error {
	s.once.Do(func() {
		close(s.chunks)
		s.d.mu.Lock()
		s.d.released++
		s.d.mu.Unlock()
	})
	return nil
}
