package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/krople/gpsmapp/internal/models"
)

// Database is the subset of pgxpool.Pool used by the repository.
type Database interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Repository struct {
	db  Database
	log *slog.Logger
}

// LocationStore reads and appends location records.
type LocationStore interface {
	ListLocations(ctx context.Context, limit int) ([]models.Location, error)
	InsertLocation(ctx context.Context, loc models.Location) (models.Location, error)
}

// MemoryStore holds memories, friendships and the user directory.
type MemoryStore interface {
	ListMemories(ctx context.Context, userID string) ([]models.Memory, error)
	InsertMemory(ctx context.Context, memory models.Memory) error
	ListFriends(ctx context.Context, userID string) ([]models.Friend, error)
	InsertFriend(ctx context.Context, friend models.Friend) error
	DeleteFriend(ctx context.Context, friend models.Friend) error
	SearchUsers(ctx context.Context, query string, limit int) ([]models.User, error)
	AddUser(ctx context.Context, username string) error
}

type Interface interface {
	LocationStore
	MemoryStore
}

var _ Interface = (*Repository)(nil)

// NewRepository creates a new instance of Repository with the provided Database.
// It returns a pointer to the newly created Repository.
func NewRepository(db Database, log *slog.Logger) *Repository {
	return &Repository{db: db, log: log}
}

// NewDatabase opens a pgx connection pool and verifies it with a ping.
func NewDatabase(ctx context.Context, host, port, user, password, name string) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", host, port, user, password, name)

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}
