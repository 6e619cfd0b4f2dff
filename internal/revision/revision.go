// Package revision keeps an append-only version history per note.
package revision

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/notedown-sh/notedown/internal/db"
	"github.com/notedown-sh/notedown/internal/pubsub"
)

const (
	InitialVersion = "initial"
)

type Revision struct {
	ID        string
	NoteID    string
	Version   string
	Body      string
	CreatedAt time.Time
}

const (
	EventRevisionCreated pubsub.EventType = "revision_created"
)

type Service interface {
	pubsub.Subscriber[Revision]

	Create(ctx context.Context, noteID, body string) (Revision, error)
	CreateVersion(ctx context.Context, noteID, body string) (Revision, error)
	Get(ctx context.Context, id string) (Revision, error)
	ListByNote(ctx context.Context, noteID string) ([]Revision, error)
	Latest(ctx context.Context, noteID string) (Revision, error)
}

type service struct {
	db     *db.Queries
	sqlDB  *sql.DB
	broker *pubsub.Broker[Revision]
	mu     sync.RWMutex
}

var globalRevisionService *service

func InitService(sqlDatabase *sql.DB) error {
	if globalRevisionService != nil {
		return fmt.Errorf("revision service already initialized")
	}
	globalRevisionService = &service{
		db:     db.New(sqlDatabase),
		sqlDB:  sqlDatabase,
		broker: pubsub.NewBroker[Revision](),
	}
	return nil
}

func GetService() Service {
	if globalRevisionService == nil {
		panic("revision service not initialized. Call revision.InitService() first.")
	}
	return globalRevisionService
}

func (s *service) Create(ctx context.Context, noteID, body string) (Revision, error) {
	return s.createWithVersion(ctx, noteID, body, InitialVersion)
}

func (s *service) CreateVersion(ctx context.Context, noteID, body string) (Revision, error) {
	s.mu.RLock()
	revisions, err := s.db.ListRevisionsByNote(ctx, noteID)
	s.mu.RUnlock()

	if err != nil && err != sql.ErrNoRows {
		return Revision{}, fmt.Errorf("db.ListRevisionsByNote for next version: %w", err)
	}

	latestVersionNumber := 0
	if len(revisions) > 0 {
		slices.SortFunc(revisions, func(a, b db.Revision) int {
			if strings.HasPrefix(a.Version, "v") && strings.HasPrefix(b.Version, "v") {
				vA, _ := strconv.Atoi(a.Version[1:])
				vB, _ := strconv.Atoi(b.Version[1:])
				return vB - vA // descending, latest first
			}
			if a.Version == InitialVersion && b.Version != InitialVersion {
				return 1 // initial sorts after vX
			}
			if b.Version == InitialVersion && a.Version != InitialVersion {
				return -1
			}
			return strings.Compare(b.CreatedAt, a.CreatedAt)
		})

		latest := revisions[0]
		if strings.HasPrefix(latest.Version, "v") {
			if vNum, parseErr := strconv.Atoi(latest.Version[1:]); parseErr == nil {
				latestVersionNumber = vNum
			}
		}
	}
	nextVersion := fmt.Sprintf("v%d", latestVersionNumber+1)
	return s.createWithVersion(ctx, noteID, body, nextVersion)
}

func (s *service) createWithVersion(ctx context.Context, noteID, body, version string) (Revision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	const maxRetries = 3

	for attempt := range maxRetries {
		tx, txErr := s.sqlDB.BeginTx(ctx, nil)
		if txErr != nil {
			return Revision{}, fmt.Errorf("failed to begin transaction: %w", txErr)
		}
		qtx := s.db.WithTx(tx)

		dbRev, createErr := qtx.CreateRevision(ctx, db.CreateRevisionParams{
			ID:      uuid.New().String(),
			NoteID:  noteID,
			Version: version,
			Body:    body,
		})

		if createErr != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				slog.Error("Failed to rollback transaction on create error", "error", rbErr)
			}
			if strings.Contains(createErr.Error(), "UNIQUE constraint failed: revisions.note_id, revisions.version") {
				if attempt < maxRetries-1 {
					slog.Warn("Version conflict, retrying with incremented version", "note", noteID, "attempted_version", version, "attempt", attempt+1)
					if strings.HasPrefix(version, "v") {
						if num, parseErr := strconv.Atoi(version[1:]); parseErr == nil {
							version = fmt.Sprintf("v%d", num+1)
							continue
						}
					}
					version = fmt.Sprintf("%s-retry%d", version, attempt+1)
					continue
				}
			}
			return Revision{}, fmt.Errorf("db.CreateRevision within transaction: %w", createErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return Revision{}, fmt.Errorf("failed to commit transaction: %w", commitErr)
		}

		rev := s.fromDBItem(dbRev)
		s.broker.Publish(EventRevisionCreated, rev)
		return rev, nil
	}

	return Revision{}, fmt.Errorf("failed to create revision after %d retries due to version conflicts", maxRetries)
}

func (s *service) Get(ctx context.Context, id string) (Revision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	dbRev, err := s.db.GetRevision(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return Revision{}, fmt.Errorf("revision with ID '%s' not found", id)
		}
		return Revision{}, fmt.Errorf("db.GetRevision: %w", err)
	}
	return s.fromDBItem(dbRev), nil
}

func (s *service) ListByNote(ctx context.Context, noteID string) ([]Revision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	dbRevs, err := s.db.ListRevisionsByNote(ctx, noteID)
	if err != nil {
		return nil, fmt.Errorf("db.ListRevisionsByNote: %w", err)
	}
	revs := make([]Revision, len(dbRevs))
	for i, item := range dbRevs {
		revs[i] = s.fromDBItem(item)
	}
	return revs, nil
}

func (s *service) Latest(ctx context.Context, noteID string) (Revision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	dbRev, err := s.db.GetLatestRevision(ctx, noteID)
	if err != nil {
		if err == sql.ErrNoRows {
			return Revision{}, fmt.Errorf("no revisions for note '%s'", noteID)
		}
		return Revision{}, fmt.Errorf("db.GetLatestRevision: %w", err)
	}
	return s.fromDBItem(dbRev), nil
}

func (s *service) Subscribe(ctx context.Context) <-chan pubsub.Event[Revision] {
	return s.broker.Subscribe(ctx)
}

func (s *service) fromDBItem(item db.Revision) Revision {
	rev := Revision{
		ID:      item.ID,
		NoteID:  item.NoteID,
		Version: item.Version,
		Body:    item.Body,
	}
	if t, err := time.Parse(time.RFC3339Nano, item.CreatedAt); err == nil {
		rev.CreatedAt = t
	}
	return rev
}

func Create(ctx context.Context, noteID, body string) (Revision, error) {
	return GetService().Create(ctx, noteID, body)
}

func CreateVersion(ctx context.Context, noteID, body string) (Revision, error) {
	return GetService().CreateVersion(ctx, noteID, body)
}

func Get(ctx context.Context, id string) (Revision, error) {
	return GetService().Get(ctx, id)
}

func ListByNote(ctx context.Context, noteID string) ([]Revision, error) {
	return GetService().ListByNote(ctx, noteID)
}

func Latest(ctx context.Context, noteID string) (Revision, error) {
	return GetService().Latest(ctx, noteID)
}

func Subscribe(ctx context.Context) <-chan pubsub.Event[Revision] {
	return GetService().Subscribe(ctx)
}
