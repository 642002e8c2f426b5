// Package server exposes the upload areas and report downloads over HTTP.
// Each client gets an isolated docmerge.Session identified by a cookie.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ArthurChan93/AnMao-docs/pkg/docmerge"
	"github.com/ArthurChan93/AnMao-docs/pkg/docmerge/classify"
	"github.com/ArthurChan93/AnMao-docs/pkg/docmerge/output"
)

// SessionCookie is the cookie carrying the client id.
const SessionCookie = "docmerge_session"

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ctxKey struct{}

// Server routes upload and download requests to per-client sessions.
type Server struct {
	store     *Store
	log       zerolog.Logger
	maxUpload int64
	router    chi.Router
}

// New builds a server. maxUpload caps the multipart body in bytes.
func New(store *Store, logger zerolog.Logger, maxUpload int64) *Server {
	s := &Server{store: store, log: logger, maxUpload: maxUpload}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(s.sessionID)
		r.Get("/datasets", s.handleDatasets)
		r.Get("/download", s.handleDownload)
		r.Delete("/session", s.handleReset)
		r.Post("/{group}/upload", s.handleUpload)
		r.Get("/{group}/download", s.handleDownload)
	})

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("Listening")
		errCh <- srv.ListenAndServe()
	}()

	if s.store.ttl > 0 {
		go s.sweep(ctx, max(s.store.ttl/2, time.Second))
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// sweep evicts idle sessions every interval until ctx is cancelled.
func (s *Server) sweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.store.Sweep(); n > 0 {
				s.log.Debug().Int("evicted", n).Int("live", s.store.Len()).Msg("Swept idle sessions")
			}
		}
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("Request")
	})
}

// sessionID attaches the client id from the cookie, issuing a new one when
// the cookie is absent or does not hold an id from NewID.
func (s *Server) sessionID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(SessionCookie); err == nil && ValidID(c.Value) {
			id = c.Value
		} else {
			id = NewID()
			http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: id, Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func clientID(r *http.Request) string {
	id, _ := r.Context().Value(ctxKey{}).(string)
	return id
}

func (s *Server) group(w http.ResponseWriter, r *http.Request) (classify.Group, bool) {
	name := chi.URLParam(r, "group")
	if name == "" {
		return classify.GroupAuto, true
	}
	g, err := classify.ParseGroup(name)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return "", false
	}
	return g, true
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	g, ok := s.group(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("parse upload: %v", err)})
		return
	}
	defer r.MultipartForm.RemoveAll()

	var uploads []docmerge.Upload
	for _, fh := range r.MultipartForm.File["files"] {
		data, err := readPart(fh)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("read %s: %v", fh.Filename, err)})
			return
		}
		uploads = append(uploads, docmerge.Upload{Name: fh.Filename, Data: data})
	}
	if len(uploads) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "no files in field \"files\""})
		return
	}

	var report *docmerge.BatchReport
	err := s.store.With(clientID(r), func(sess *docmerge.Session) error {
		var err error
		report, err = sess.Process(r.Context(), g, uploads)
		return err
	})

	var nerr *docmerge.NameValidationError
	switch {
	case errors.As(err, &nerr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":   nerr.Error(),
			"names":   nerr.Names,
			"notices": report.Notices,
		})
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusOK, report)
	}
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (s *Server) handleDatasets(w http.ResponseWriter, r *http.Request) {
	var data []byte
	err := s.store.View(clientID(r), func(sess *docmerge.Session) error {
		var err error
		data, err = output.ToJSON(sess.Datasets(classify.GroupAuto), false)
		return err
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	g, ok := s.group(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	err := s.store.View(clientID(r), func(sess *docmerge.Session) error {
		return sess.WriteReport(&buf, g)
	})
	switch {
	case errors.Is(err, docmerge.ErrNoData):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", g.ReportName()))
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.store.Drop(clientID(r))
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
