package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/jaam8/survey_client/internal/models"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"sync"
)

type State int

const (
	StateIdle State = iota
	StateRequestingDevice
	StateRecording
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRequestingDevice:
		return "requesting_device"
	case StateRecording:
		return "recording"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Device is the audio input. Acquire blocks while access is being granted and
// fails when it is denied or unavailable.
type Device interface {
	Acquire(ctx context.Context) (Stream, error)
}

// Stream is an acquired input. Chunks delivers data in arrival order and is
// closed once the stream ends or after Release. Release must be safe to call
// more than once.
type Stream interface {
	Chunks() <-chan []byte
	MimeType() string
	Release() error
}

type Recording struct {
	ID       string
	Payload  string
	MimeType string
	Size     int
}

// CompletionFunc stores a finished recording. Its error is returned by Stop.
type CompletionFunc func(Recording) error

var errAbandoned = errors.New("capture: recording abandoned while waiting for the device")

// Pipeline records one capture at a time and holds the device exclusively
// between Start and the matching release.
type Pipeline struct {
	device      Device
	defaultMime string
	l           *zap.Logger

	mu        sync.Mutex
	state     State
	id        string
	stream    Stream
	chunks    [][]byte
	collected chan struct{}
	done      CompletionFunc
}

func New(device Device, defaultMime string, l *zap.Logger) *Pipeline {
	return &Pipeline{
		device:      device,
		defaultMime: defaultMime,
		l:           l,
	}
}

func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Start acquires the device and begins buffering chunks. done is invoked with
// the encoded result when Stop succeeds.
func (p *Pipeline) Start(ctx context.Context, done CompletionFunc) error {
	p.mu.Lock()
	if p.state != StateIdle {
		p.mu.Unlock()
		return models.ErrCaptureBusy
	}
	p.state = StateRequestingDevice
	p.mu.Unlock()

	stream, err := p.device.Acquire(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.state = StateIdle
		p.l.Warn("audio device unavailable", zap.Error(err))
		return fmt.Errorf("capture: %w: %w", models.ErrCaptureDenied, err)
	}
	if p.state != StateRequestingDevice {
		return multierr.Combine(errAbandoned, stream.Release())
	}

	p.state = StateRecording
	p.id = uuid.New().String()
	p.stream = stream
	p.chunks = nil
	p.done = done
	p.collected = make(chan struct{})
	go p.collect(stream, p.collected)

	p.l.Debug("recording started", zap.String("recording_id", p.id))
	return nil
}

func (p *Pipeline) collect(stream Stream, collected chan<- struct{}) {
	defer close(collected)
	for chunk := range stream.Chunks() {
		if len(chunk) == 0 {
			continue
		}
		p.mu.Lock()
		if p.stream == stream {
			p.chunks = append(p.chunks, chunk)
		}
		p.mu.Unlock()
	}
}

// Stop releases the device, joins the buffered chunks and encodes them.
// It is a no-op returning models.ErrNotRecording unless a recording is running.
func (p *Pipeline) Stop(ctx context.Context) (Recording, error) {
	p.mu.Lock()
	if p.state != StateRecording {
		p.mu.Unlock()
		return Recording{}, models.ErrNotRecording
	}
	p.state = StateStopped
	id, stream, collected, done := p.id, p.stream, p.collected, p.done
	p.mu.Unlock()

	releaseErr := stream.Release()
	if releaseErr != nil {
		p.l.Warn("failed to release audio device", zap.String("recording_id", id), zap.Error(releaseErr))
	}

	var waitErr error
	select {
	case <-collected:
	case <-ctx.Done():
		waitErr = ctx.Err()
	}

	p.mu.Lock()
	blob := bytes.Join(p.chunks, nil)
	p.reset()
	p.mu.Unlock()

	if waitErr != nil {
		return Recording{}, multierr.Combine(fmt.Errorf("capture: encoding interrupted: %w", waitErr), releaseErr)
	}
	if len(blob) == 0 {
		return Recording{}, multierr.Combine(fmt.Errorf("capture: %w", models.ErrNoAudio), releaseErr)
	}

	mime := detectMime(stream.MimeType(), p.defaultMime, blob)
	rec := Recording{
		ID:       id,
		Payload:  EncodeDataURI(mime, blob),
		MimeType: mime,
		Size:     len(blob),
	}
	p.l.Debug("recording encoded",
		zap.String("recording_id", id),
		zap.String("mime_type", mime),
		zap.Int("bytes", rec.Size))
	if done != nil {
		if err := done(rec); err != nil {
			p.l.Warn("failed to store recording", zap.String("recording_id", id), zap.Error(err))
			return rec, fmt.Errorf("capture: failed to store recording: %w", err)
		}
	}
	return rec, nil
}

// Abandon drops an unfinished recording and releases the device.
func (p *Pipeline) Abandon() error {
	p.mu.Lock()
	switch p.state {
	case StateRequestingDevice:
		p.state = StateIdle
		p.mu.Unlock()
		return nil
	case StateRecording:
	default:
		p.mu.Unlock()
		return nil
	}
	id, stream := p.id, p.stream
	p.reset()
	p.mu.Unlock()

	p.l.Debug("recording abandoned", zap.String("recording_id", id))
	return stream.Release()
}

func (p *Pipeline) reset() {
	p.state = StateIdle
	p.id = ""
	p.stream = nil
	p.chunks = nil
	p.collected = nil
	p.done = nil
}
