package backend

import (
	"context"

	"fintrack/internal/services"
	"fintrack/internal/store"
)

type CleanupFunc func() error

// BackendResult is the store selected by configuration plus the optional
// event publisher. Publisher is nil when no broker is configured.
type BackendResult struct {
	Store     store.Store
	Publisher services.EventPublisher
	Cleanup   CleanupFunc
}

type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

type Config struct {
	Type BackendType

	SQLiteDBPath string

	// Demo account seeding, hashed with BcryptCost.
	SeedDemo   bool
	BcryptCost int

	// AMQP is optional for every backend.
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
