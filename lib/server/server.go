package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/joshnies/bygg/constants"
	"github.com/joshnies/bygg/lib/console"
	"github.com/joshnies/bygg/lib/export"
	"github.com/joshnies/bygg/lib/httpw"
	"github.com/joshnies/bygg/lib/throttle"
	"github.com/joshnies/bygg/lib/util"
	"github.com/lucsky/cuid"
)

// HTTP transport for project exports.
type Server struct {
	Exporter *export.Exporter
	// Per-export bandwidth cap. 0 disables the cap.
	BytesPerSecond int
	// Generates export IDs. Defaults to cuid.New.
	NewID func() string
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /projects/{id}/export", s.handleExport)

	return logRequests(mux)
}

// Serve on `addr` until ctx is done, then shut down gracefully.
//
// @param shutdownTimeout - Time in-flight exports get to finish after ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	console.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httpw.WriteJSON(w, http.StatusOK, map[string]any{
		"ok":   true,
		"time": time.Now().UTC().Format(time.RFC3339Nano),
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("id")

	// Look up project and resolve files
	exp, err := s.Exporter.Open(r.Context(), projectID)
	if errors.Is(err, export.ErrProjectNotFound) {
		httpw.WriteText(w, http.StatusNotFound, constants.ErrMsgProjectNotFound)
		return
	}
	if err != nil {
		console.ErrorPrint("Failed to open export of project %q: %v", projectID, err)
		httpw.WriteText(w, http.StatusInternalServerError, constants.ErrMsgInternal)
		return
	}
	defer exp.Stream.Close()

	exportID := s.newID()

	// Commit headers before any archive bytes exist
	h := w.Header()
	h.Set("Content-Type", exp.ContentType)
	h.Set("Content-Disposition", httpw.ContentDisposition(exp.Filename))
	h.Set(constants.ExportIDHeader, exportID)
	w.WriteHeader(http.StatusOK)
	if err := http.NewResponseController(w).Flush(); err != nil {
		console.Verbose("Export %s: flushing headers: %v", exportID, err)
	}

	// Stream archive
	start := time.Now()
	out := throttle.NewWriter(r.Context(), w, s.BytesPerSecond)
	n, err := io.Copy(out, exp.Stream)
	if err != nil {
		// Stop the producer before deciding how to end the response
		exp.Stream.Close()

		if r.Context().Err() != nil {
			console.Warning("Export %s of project %q cancelled by client after %s", exportID, projectID, util.FormatBytesSize(n))
			return
		}

		// Headers are sent, so the only way to report the failure is to cut the connection
		console.ErrorPrint("Export %s of project %q failed after %s: %v", exportID, projectID, util.FormatBytesSize(n), err)
		panic(http.ErrAbortHandler)
	}

	entries, _ := exp.Stream.Wait()
	console.Success("Export %s of project %q delivered: %d files, %s in %s",
		exportID, projectID, len(entries), util.FormatBytesSize(n), time.Since(start).Truncate(time.Millisecond))
	for _, e := range entries {
		console.Verbose("  %s (%s, xxh64 %s)", e.Name, util.FormatBytesSize(e.Size), e.Digest)
	}
}

func (s *Server) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return cuid.New()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

// Log method, path, status and duration of every request.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}

		defer func() {
			console.Verbose("%s %s %d (%s)", r.Method, r.URL.Path, rec.status, time.Since(start).Truncate(time.Microsecond))
		}()

		next.ServeHTTP(rec, r)
	})
}
