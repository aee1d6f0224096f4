package api

import (
	"bytes"
	"context"
	"github.com/jaam8/survey_client/internal/capture"
	"github.com/jaam8/survey_client/internal/capture/capturetest"
	"github.com/jaam8/survey_client/internal/models"
	"github.com/jaam8/survey_client/internal/repository"
	"github.com/jaam8/survey_client/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRunTerminal(t *testing.T) {
	srv := httptest.NewServer((&fakeServer{}).handler(t))
	t.Cleanup(srv.Close)
	l := zaptest.NewLogger(t)
	s := service.New(repository.New(srv.URL, srv.Client(), l), capture.New(&capturetest.Device{}, "audio/webm", l), l)

	in := strings.NewReader("login user pw\n\ntake 5\nquit\nhome\n")
	var out bytes.Buffer
	require.NoError(t, RunTerminal(context.Background(), s, in, &out, l))

	assert.Equal(t, models.ViewTake, s.View())
	assert.True(t, strings.HasPrefix(out.String(), "**Login**"))
	assert.Contains(t, out.String(), "**Team pulse**")
}

func TestRunTerminalStopsAtEOF(t *testing.T) {
	l := zaptest.NewLogger(t)
	dev := &capturetest.Device{}
	s := service.New(repository.New("http://127.0.0.1:1", http.DefaultClient, l), capture.New(dev, "audio/webm", l), l)

	var out bytes.Buffer
	require.NoError(t, RunTerminal(context.Background(), s, strings.NewReader("help\n"), &out, l))
	assert.Contains(t, out.String(), HelpMessage)
	assert.Equal(t, models.ViewLogin, s.View())
}
