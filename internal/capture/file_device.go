package capture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
)

var ErrNoSource = errors.New("no audio source configured")

// FileDevice reads a recorded file or a FIFO fed by an external recorder.
type FileDevice struct {
	Path      string
	MimeType  string
	ChunkSize int
}

func (d *FileDevice) Acquire(ctx context.Context) (Stream, error) {
	if d.Path == "" {
		return nil, ErrNoSource
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(d.Path)
	if err != nil {
		return nil, fmt.Errorf("open audio source: %w", err)
	}
	size := d.ChunkSize
	if size <= 0 {
		size = 4096
	}
	s := &fileStream{
		f:      f,
		mime:   d.MimeType,
		chunks: make(chan []byte),
		quit:   make(chan struct{}),
	}
	go s.read(size)
	return s, nil
}

type fileStream struct {
	f      *os.File
	mime   string
	chunks chan []byte
	quit   chan struct{}
	once   sync.Once
}

func (s *fileStream) read(size int) {
	defer close(s.chunks)
	for {
		buf := make([]byte, size)
		n, err := s.f.Read(buf)
		if n > 0 {
			select {
			case s.chunks <- buf[:n]:
			case <-s.quit:
				return
			}
		}
		if err != nil {
			return
		}
		select {
		case <-s.quit:
			return
		default:
		}
	}
}

func (s *fileStream) Chunks() <-chan []byte {
	return s.chunks
}

func (s *fileStream) MimeType() string {
	return s.mime
}

func (s *fileStream) Release() error {
	var err error
	s.once.Do(func() {
		close(s.quit)
		err = s.f.Close()
	})
	return err
}
