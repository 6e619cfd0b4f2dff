// Package status broadcasts transient status messages to the UI.
package status

import (
	"context"
	"sync"
	"time"

	"github.com/notedown-sh/notedown/internal/pubsub"
)

// Level represents the severity level of a status message
type Level string

const (
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
	LevelDebug Level = "debug"
)

const (
	EventStatusPublished pubsub.EventType = "status_published"
)

// StatusMessage represents a status update to be displayed in the UI
type StatusMessage struct {
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Service defines the interface for the status service
type Service interface {
	pubsub.Subscriber[StatusMessage]
	Info(message string)
	Warn(message string)
	Error(message string)
	Debug(message string)
}

type service struct {
	broker *pubsub.Broker[StatusMessage]
}

func (s *service) Info(message string) {
	s.publish(LevelInfo, message)
}

func (s *service) Warn(message string) {
	s.publish(LevelWarn, message)
}

func (s *service) Error(message string) {
	s.publish(LevelError, message)
}

func (s *service) Debug(message string) {
	s.publish(LevelDebug, message)
}

func (s *service) Subscribe(ctx context.Context) <-chan pubsub.Event[StatusMessage] {
	return s.broker.Subscribe(ctx)
}

func (s *service) publish(level Level, message string) {
	statusMsg := StatusMessage{
		Level:     level,
		Message:   message,
		Timestamp: time.Now(),
	}
	s.broker.Publish(EventStatusPublished, statusMsg)
}

var (
	globalStatusService Service
	initOnce            sync.Once
)

// GetService returns the global status service, initializing it on first use.
func GetService() Service {
	initOnce.Do(func() {
		globalStatusService = &service{
			broker: pubsub.NewBroker[StatusMessage](),
		}
	})
	return globalStatusService
}

func Info(message string) {
	GetService().Info(message)
}

func Warn(message string) {
	GetService().Warn(message)
}

func Error(message string) {
	GetService().Error(message)
}

func Debug(message string) {
	GetService().Debug(message)
}

func Subscribe(ctx context.Context) <-chan pubsub.Event[StatusMessage] {
	return GetService().Subscribe(ctx)
}
