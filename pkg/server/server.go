// Package server exposes a read-only HTTP API over the notes library.
package server

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/notedown-sh/notedown/internal/document"
	"github.com/notedown-sh/notedown/internal/note"
	"github.com/notedown-sh/notedown/internal/revision"
	"github.com/notedown-sh/notedown/internal/version"
)

//go:embed openapi.json
var openapiSpec []byte

type Server struct {
	echo *echo.Echo
	port int
	log  *slog.Logger
}

type noteJSON struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Path      string    `json:"path"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type revisionJSON struct {
	ID        string    `json:"id"`
	NoteID    string    `json:"noteId"`
	Version   string    `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
}

// New builds the server. The embedded API document is validated up front so
// a malformed spec fails at startup, not when a client asks for it.
func New(port int) (*Server, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openapiSpec)
	if err != nil {
		return nil, fmt.Errorf("loading OpenAPI document: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI document: %w", err)
	}

	if port == 0 {
		listener, err := net.Listen("tcp", ":0")
		if err != nil {
			return nil, err
		}
		port = listener.Addr().(*net.TCPAddr).Port
		listener.Close()
	}

	s := &Server{
		port: port,
		log:  slog.With("service", "server"),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.log.Info("request", "method", v.Method, "uri", v.URI, "status", v.Status)
			return nil
		},
	}))

	e.GET("/", s.health)
	e.GET("/openapi.json", s.openapi)
	e.GET("/notes", s.listNotes)
	e.GET("/notes/:id", s.getNote)
	e.GET("/notes/:id/markdown", s.getNoteMarkdown)
	e.GET("/notes/:id/document", s.getNoteDocument)
	e.GET("/notes/:id/revisions", s.listNoteRevisions)

	s.echo = e
	return s, nil
}

// Port reports the port the server will bind to.
func (s *Server) Port() int {
	return s.port
}

// Start serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.log.Info("listening", "port", s.port)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			s.log.Error("shutdown", "error", err)
		}
	}()
	err := s.echo.Start(fmt.Sprintf(":%d", s.port))
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"name":    "notedown",
		"version": version.Version,
	})
}

func (s *Server) openapi(c echo.Context) error {
	return c.JSONBlob(http.StatusOK, openapiSpec)
}

func (s *Server) listNotes(c echo.Context) error {
	ctx := c.Request().Context()

	var notes []note.Note
	var err error
	if q := c.QueryParam("q"); q != "" {
		notes, err = note.Search(ctx, q)
	} else {
		notes, err = note.List(ctx)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	out := make([]noteJSON, len(notes))
	for i, n := range notes {
		out[i] = toNoteJSON(n)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) getNote(c echo.Context) error {
	n, err := note.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, toNoteJSON(n))
}

func (s *Server) getNoteMarkdown(c echo.Context) error {
	n, err := note.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.Blob(http.StatusOK, "text/markdown; charset=utf-8", []byte(n.Body))
}

// getNoteDocument serves the note as validated schema JSON, the structured
// interchange format.
func (s *Server) getNoteDocument(c echo.Context) error {
	n, err := note.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	doc := document.ParseMarkdown([]byte(n.Body))
	data, err := document.SchemaJSON(doc)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSONBlob(http.StatusOK, data)
}

func (s *Server) listNoteRevisions(c echo.Context) error {
	revs, err := revision.ListByNote(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	out := make([]revisionJSON, len(revs))
	for i, r := range revs {
		out[i] = revisionJSON{
			ID:        r.ID,
			NoteID:    r.NoteID,
			Version:   r.Version,
			CreatedAt: r.CreatedAt,
		}
	}
	return c.JSON(http.StatusOK, out)
}

func toNoteJSON(n note.Note) noteJSON {
	return noteJSON{
		ID:        n.ID,
		Title:     n.Title,
		Path:      n.Path,
		Body:      n.Body,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}
