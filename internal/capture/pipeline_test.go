package capture_test

import (
	"context"
	"encoding/base64"
	"errors"
	"github.com/jaam8/survey_client/internal/capture"
	"github.com/jaam8/survey_client/internal/capture/capturetest"
	"github.com/jaam8/survey_client/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"os"
	"path/filepath"
	"testing"
)

func TestRecordAndEncode(t *testing.T) {
	dev := &capturetest.Device{Mime: "audio/webm"}
	p := capture.New(dev, "audio/webm", zaptest.NewLogger(t))

	var got []capture.Recording
	require.NoError(t, p.Start(context.Background(), func(r capture.Recording) error {
		got = append(got, r)
		return nil
	}))
	assert.Equal(t, capture.StateRecording, p.State())

	dev.Feed([]byte("ab"), nil, []byte("cd"))
	rec, err := p.Stop(context.Background())
	require.NoError(t, err)

	want := "data:audio/webm;base64," + base64.StdEncoding.EncodeToString([]byte("abcd"))
	assert.Equal(t, want, rec.Payload)
	assert.Equal(t, "audio/webm", rec.MimeType)
	assert.Equal(t, 4, rec.Size)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, []capture.Recording{rec}, got)
	assert.Equal(t, capture.StateIdle, p.State())
	assert.False(t, dev.Held())
}

func TestStopWhenIdleIsNoop(t *testing.T) {
	dev := &capturetest.Device{}
	p := capture.New(dev, "audio/webm", zaptest.NewLogger(t))

	_, err := p.Stop(context.Background())
	assert.ErrorIs(t, err, models.ErrNotRecording)
	assert.Equal(t, capture.StateIdle, p.State())
	assert.Zero(t, dev.Acquired())
}

func TestStartWhileRecording(t *testing.T) {
	dev := &capturetest.Device{}
	p := capture.New(dev, "audio/webm", zaptest.NewLogger(t))

	require.NoError(t, p.Start(context.Background(), nil))
	assert.ErrorIs(t, p.Start(context.Background(), nil), models.ErrCaptureBusy)
	assert.Equal(t, 1, dev.Acquired())

	require.NoError(t, p.Abandon())
	assert.False(t, dev.Held())
}

func TestDeniedDevice(t *testing.T) {
	dev := &capturetest.Device{Err: errors.New("permission denied")}
	p := capture.New(dev, "audio/webm", zaptest.NewLogger(t))

	err := p.Start(context.Background(), nil)
	assert.ErrorIs(t, err, models.ErrCaptureDenied)
	assert.Equal(t, models.FailureCapture, models.KindOf(err))
	assert.Equal(t, capture.StateIdle, p.State())
	assert.False(t, dev.Held())
}

func TestEmptyRecordingStillReleases(t *testing.T) {
	dev := &capturetest.Device{}
	p := capture.New(dev, "audio/webm", zaptest.NewLogger(t))
	called := false

	require.NoError(t, p.Start(context.Background(), func(capture.Recording) error {
		called = true
		return nil
	}))
	_, err := p.Stop(context.Background())
	assert.ErrorIs(t, err, models.ErrNoAudio)
	assert.False(t, called)
	assert.False(t, dev.Held())
	assert.Equal(t, capture.StateIdle, p.State())
}

func TestStoreFailureIsReturnedByStop(t *testing.T) {
	dev := &capturetest.Device{}
	p := capture.New(dev, "audio/webm", zaptest.NewLogger(t))
	full := errors.New("no room for audio")

	require.NoError(t, p.Start(context.Background(), func(capture.Recording) error { return full }))
	dev.Feed([]byte("x"))
	_, err := p.Stop(context.Background())
	assert.ErrorIs(t, err, full)
	assert.False(t, dev.Held())
	assert.Equal(t, capture.StateIdle, p.State())
}

func TestCancelledStopStillReleases(t *testing.T) {
	dev := &capturetest.Device{}
	p := capture.New(dev, "audio/webm", zaptest.NewLogger(t))
	require.NoError(t, p.Start(context.Background(), nil))
	dev.Feed([]byte("x"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _ = p.Stop(ctx)
	assert.False(t, dev.Held())
	assert.Equal(t, capture.StateIdle, p.State())
}

func TestEveryStartIsReleased(t *testing.T) {
	dev := &capturetest.Device{}
	p := capture.New(dev, "audio/webm", zaptest.NewLogger(t))

	for i := 0; i < 5; i++ {
		require.NoError(t, p.Start(context.Background(), nil))
		dev.Feed([]byte{byte(i + 1)})
		if i%2 == 0 {
			_, err := p.Stop(context.Background())
			require.NoError(t, err)
		} else {
			require.NoError(t, p.Abandon())
		}
	}
	assert.Equal(t, 5, dev.Acquired())
	assert.Equal(t, 5, dev.Released())
}

func TestAbandonWhenIdle(t *testing.T) {
	dev := &capturetest.Device{}
	p := capture.New(dev, "audio/webm", zaptest.NewLogger(t))
	assert.NoError(t, p.Abandon())
	assert.Zero(t, dev.Released())
}

func TestFileDevice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "answer.webm")
	data := []byte("0123456789")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	dev := &capture.FileDevice{Path: path, MimeType: "audio/webm", ChunkSize: 4}
	stream, err := dev.Acquire(context.Background())
	require.NoError(t, err)

	var got []byte
	for chunk := range stream.Chunks() {
		assert.LessOrEqual(t, len(chunk), 4)
		got = append(got, chunk...)
	}
	assert.Equal(t, data, got)
	assert.Equal(t, "audio/webm", stream.MimeType())
	require.NoError(t, stream.Release())
	assert.NoError(t, stream.Release())
}

func TestFileDeviceMissingSource(t *testing.T) {
	_, err := (&capture.FileDevice{}).Acquire(context.Background())
	assert.ErrorIs(t, err, capture.ErrNoSource)

	_, err = (&capture.FileDevice{Path: filepath.Join(t.TempDir(), "missing")}).Acquire(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}
