package export

import (
	"context"
	"io"
	"sync"

	"github.com/joshnies/bygg/models"
)

// Archive exposed as a readable byte stream.
//
// The archive is produced by a goroutine writing into an unbuffered pipe, so a consumer that
// stops reading pauses the producer. Production starts on the first Read.
type ArchiveStream struct {
	ctx    context.Context
	cancel context.CancelFunc
	files  []models.ResolvedFile
	opts   []BuildOption

	pr *io.PipeReader
	pw *io.PipeWriter

	start sync.Once
	done  chan struct{}

	entries []models.ArchiveEntry
	err     error
}

// Create a stream that builds an archive of `files` when read.
func Stream(ctx context.Context, files []models.ResolvedFile, opts ...BuildOption) *ArchiveStream {
	ctx, cancel := context.WithCancel(ctx)
	pr, pw := io.Pipe()

	return &ArchiveStream{
		ctx:    ctx,
		cancel: cancel,
		files:  files,
		opts:   opts,
		pr:     pr,
		pw:     pw,
		done:   make(chan struct{}),
	}
}

func (s *ArchiveStream) produce() {
	defer close(s.done)

	entries, err := Build(s.ctx, s.pw, s.files, s.opts...)
	s.entries, s.err = entries, err

	// A nil error gives the reader io.EOF
	s.pw.CloseWithError(err)
}

// Read archive bytes. Errors from building the archive are returned here.
func (s *ArchiveStream) Read(p []byte) (int, error) {
	s.start.Do(func() {
		go s.produce()
	})
	return s.pr.Read(p)
}

// Stop the producer and wait until it has released its files.
// Safe to call more than once, and before or after the stream was fully read.
func (s *ArchiveStream) Close() error {
	s.start.Do(func() {
		close(s.done)
	})
	s.cancel()
	s.pr.Close()
	<-s.done
	return nil
}

// Wait for the producer to exit and return the written entries and the build error.
// Only call after reading to EOF or calling Close.
func (s *ArchiveStream) Wait() ([]models.ArchiveEntry, error) {
	<-s.done
	return s.entries, s.err
}
