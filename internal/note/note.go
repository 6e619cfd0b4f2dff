// Package note manages the notes library: persistence, lookup, search, and
// change events.
package note

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/notedown-sh/notedown/internal/db"
	"github.com/notedown-sh/notedown/internal/pubsub"
)

type Note struct {
	ID        string
	Title     string
	Path      string
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

const (
	EventNoteCreated pubsub.EventType = "note_created"
	EventNoteUpdated pubsub.EventType = "note_updated"
	EventNoteDeleted pubsub.EventType = "note_deleted"
)

type Service interface {
	pubsub.Subscriber[Note]

	Create(ctx context.Context, title, path, body string) (Note, error)
	Get(ctx context.Context, id string) (Note, error)
	GetByPath(ctx context.Context, path string) (Note, error)
	List(ctx context.Context) ([]Note, error)
	Search(ctx context.Context, term string) ([]Note, error)
	Update(ctx context.Context, id, title, body string) (Note, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db     *db.Queries
	broker *pubsub.Broker[Note]
}

var globalNoteService *service

func InitService(dbConn *sql.DB) error {
	if globalNoteService != nil {
		return fmt.Errorf("note service already initialized")
	}
	globalNoteService = &service{
		db:     db.New(dbConn),
		broker: pubsub.NewBroker[Note](),
	}
	return nil
}

func GetService() Service {
	if globalNoteService == nil {
		panic("note service not initialized. Call note.InitService() first.")
	}
	return globalNoteService
}

func (s *service) Create(ctx context.Context, title, path, body string) (Note, error) {
	if path == "" {
		return Note{}, fmt.Errorf("note path must not be empty")
	}
	dbNote, err := s.db.CreateNote(ctx, db.CreateNoteParams{
		ID:    uuid.New().String(),
		Title: title,
		Path:  path,
		Body:  body,
	})
	if err != nil {
		return Note{}, fmt.Errorf("db.CreateNote: %w", err)
	}
	n := s.fromDBItem(dbNote)
	s.broker.Publish(EventNoteCreated, n)
	return n, nil
}

func (s *service) Get(ctx context.Context, id string) (Note, error) {
	dbNote, err := s.db.GetNoteByID(ctx, id)
	if err != nil {
		return Note{}, fmt.Errorf("db.GetNoteByID: %w", err)
	}
	return s.fromDBItem(dbNote), nil
}

func (s *service) GetByPath(ctx context.Context, path string) (Note, error) {
	dbNote, err := s.db.GetNoteByPath(ctx, path)
	if err != nil {
		return Note{}, fmt.Errorf("db.GetNoteByPath: %w", err)
	}
	return s.fromDBItem(dbNote), nil
}

func (s *service) List(ctx context.Context) ([]Note, error) {
	dbNotes, err := s.db.ListNotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("db.ListNotes: %w", err)
	}
	notes := make([]Note, len(dbNotes))
	for i, item := range dbNotes {
		notes[i] = s.fromDBItem(item)
	}
	return notes, nil
}

func (s *service) Search(ctx context.Context, term string) ([]Note, error) {
	dbNotes, err := s.db.SearchNotes(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("db.SearchNotes: %w", err)
	}
	notes := make([]Note, len(dbNotes))
	for i, item := range dbNotes {
		notes[i] = s.fromDBItem(item)
	}
	return notes, nil
}

func (s *service) Update(ctx context.Context, id, title, body string) (Note, error) {
	dbNote, err := s.db.UpdateNote(ctx, db.UpdateNoteParams{
		ID:    id,
		Title: title,
		Body:  body,
	})
	if err != nil {
		return Note{}, fmt.Errorf("db.UpdateNote: %w", err)
	}
	n := s.fromDBItem(dbNote)
	s.broker.Publish(EventNoteUpdated, n)
	return n, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	n, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.db.DeleteNote(ctx, id); err != nil {
		return fmt.Errorf("db.DeleteNote: %w", err)
	}
	s.broker.Publish(EventNoteDeleted, n)
	return nil
}

func (s *service) Subscribe(ctx context.Context) <-chan pubsub.Event[Note] {
	return s.broker.Subscribe(ctx)
}

func (s *service) fromDBItem(item db.Note) Note {
	n := Note{
		ID:    item.ID,
		Title: item.Title,
		Path:  item.Path,
		Body:  item.Body,
	}
	if t, err := time.Parse(time.RFC3339Nano, item.CreatedAt); err == nil {
		n.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339Nano, item.UpdatedAt); err == nil {
		n.UpdatedAt = t
	}
	return n
}

func Create(ctx context.Context, title, path, body string) (Note, error) {
	return GetService().Create(ctx, title, path, body)
}

func Get(ctx context.Context, id string) (Note, error) {
	return GetService().Get(ctx, id)
}

func GetByPath(ctx context.Context, path string) (Note, error) {
	return GetService().GetByPath(ctx, path)
}

func List(ctx context.Context) ([]Note, error) {
	return GetService().List(ctx)
}

func Search(ctx context.Context, term string) ([]Note, error) {
	return GetService().Search(ctx, term)
}

func Update(ctx context.Context, id, title, body string) (Note, error) {
	return GetService().Update(ctx, id, title, body)
}

func Delete(ctx context.Context, id string) error {
	return GetService().Delete(ctx, id)
}

func Subscribe(ctx context.Context) <-chan pubsub.Event[Note] {
	return GetService().Subscribe(ctx)
}

// Slug derives a filesystem-safe file stem from a title.
func Slug(title string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
		case unicode.IsSpace(r) || r == '-' || r == '_':
			sb.WriteByte('-')
		}
	}
	slug := strings.Trim(sb.String(), "-")
	if slug == "" {
		slug = "untitled"
	}
	return slug
}
