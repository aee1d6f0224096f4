package api

import (
	"bufio"
	"context"
	"fmt"
	"github.com/jaam8/survey_client/internal/service"
	"go.uber.org/zap"
	"io"
	"strings"
)

type writerSender struct {
	w io.Writer
}

func (s writerSender) SendMsg(message string) error {
	_, err := fmt.Fprintf(s.w, "%s\n> ", message)
	return err
}

// RunTerminal reads commands line by line from in until EOF, `quit` or ctx is
// done. Lines are handled on the calling goroutine.
func RunTerminal(ctx context.Context, s *service.SessionController, in io.Reader, out io.Writer, l *zap.Logger) error {
	h := New(s, l, writerSender{w: out})
	if err := h.SendMsg(Render(s)); err != nil {
		return fmt.Errorf("api: failed to write to terminal: %w", err)
	}

	lines := make(chan string)
	scanErr := make(chan error, 1)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-quit:
				return
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	defer func() {
		if err := s.DiscardRecording(); err != nil {
			l.Warn("failed to release audio device", zap.Error(err))
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					if err != nil {
						return fmt.Errorf("api: failed to read terminal input: %w", err)
					}
				default:
				}
				return nil
			}
			switch strings.ToLower(strings.TrimSpace(line)) {
			case "quit", "exit":
				return nil
			}
			h.Handle(ctx, line)
		}
	}
}
