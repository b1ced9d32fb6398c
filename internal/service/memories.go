package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/krople/gpsmapp/internal/mapview"
	"github.com/krople/gpsmapp/internal/models"
	"github.com/krople/gpsmapp/internal/repository"
	"github.com/krople/gpsmapp/internal/widget"
)

// Memory and friend limits.
const (
	MaxCreators    = 10
	MinSearchRunes = 2
	SearchLimit    = 5
	photoPrefix    = "data:image/"
)

var (
	// ErrInvalidMemory is returned when a memory is missing its name or carries a malformed photo.
	ErrInvalidMemory = errors.New("invalid memory")
	// ErrTooManyCreators is returned when a memory lists more than MaxCreators creators.
	ErrTooManyCreators = errors.New("too many creators")
	// ErrInvalidFriend is returned for an empty friend name or for befriending yourself.
	ErrInvalidFriend = errors.New("invalid friend")
	// ErrInvalidUser is returned when registering a blank user name.
	ErrInvalidUser = errors.New("invalid user")
)

// MemoryService manages memories, friends and the user directory.
type MemoryService struct {
	log        *slog.Logger
	store      repository.MemoryStore
	reconciler *mapview.Reconciler
	now        func() time.Time
	newID      func() string
}

// NewMemoryService creates a MemoryService on top of store. The reconciler
// lays out memory maps; nil uses the default frame and local time.
func NewMemoryService(log *slog.Logger, store repository.MemoryStore, reconciler *mapview.Reconciler) *MemoryService {
	if reconciler == nil {
		reconciler = mapview.NewReconciler(mapview.Options{})
	}

	return &MemoryService{
		log:        log,
		store:      store,
		reconciler: reconciler,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// RegisterUser adds name to the user directory searched by SearchUsers.
// Registering an existing user is not an error.
func (ms *MemoryService) RegisterUser(ctx context.Context, name string) (models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.User{}, fmt.Errorf("%w: name is required", ErrInvalidUser)
	}

	if err := ms.store.AddUser(ctx, name); err != nil {
		return models.User{}, fmt.Errorf("failed to register user: %w", err)
	}

	ms.log.InfoContext(ctx, "User registered", "user", name)

	return models.User{Username: name}, nil
}

// Friends lists the friends of user.
func (ms *MemoryService) Friends(ctx context.Context, user string) ([]models.Friend, error) {
	friends, err := ms.store.ListFriends(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}

	return friends, nil
}

// AddFriend adds name to the friends of user.
func (ms *MemoryService) AddFriend(ctx context.Context, user, name string) (models.Friend, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Friend{}, fmt.Errorf("%w: name is required", ErrInvalidFriend)
	}
	if name == user {
		return models.Friend{}, fmt.Errorf("%w: cannot add yourself", ErrInvalidFriend)
	}

	friend := models.Friend{UserID: user, FriendName: name}
	if err := ms.store.InsertFriend(ctx, friend); err != nil {
		return models.Friend{}, fmt.Errorf("failed to add friend: %w", err)
	}

	ms.log.InfoContext(ctx, "Friend added", "user", user, "friend", name)

	return friend, nil
}

// RemoveFriend removes name from the friends of user.
func (ms *MemoryService) RemoveFriend(ctx context.Context, user, name string) error {
	if err := ms.store.DeleteFriend(ctx, models.Friend{UserID: user, FriendName: name}); err != nil {
		return fmt.Errorf("failed to remove friend: %w", err)
	}

	return nil
}

// SearchUsers finds users whose name contains query. Queries shorter than
// MinSearchRunes return no results without touching the store.
func (ms *MemoryService) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinSearchRunes {
		return []models.User{}, nil
	}

	users, err := ms.store.SearchUsers(ctx, query, SearchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}

	return users, nil
}

// Memories lists the memories of user, newest first.
func (ms *MemoryService) Memories(ctx context.Context, user string) ([]models.Memory, error) {
	memories, err := ms.store.ListMemories(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to list memories: %w", err)
	}

	return memories, nil
}

// MemoryMap lays the memories of user out on a fresh scene: one locked
// marker per memory and a viewport fitted to all of them.
func (ms *MemoryService) MemoryMap(ctx context.Context, user string) (widget.Snapshot, error) {
	memories, err := ms.Memories(ctx, user)
	if err != nil {
		return widget.Snapshot{}, err
	}

	scene := widget.NewScene()
	ms.reconciler.PlanMemories(memories).Draw(scene)

	return scene.Snapshot(), nil
}

// CreateMemory validates memory, assigns its ID and creation time and stores it.
func (ms *MemoryService) CreateMemory(ctx context.Context, memory models.Memory) (models.Memory, error) {
	memory.Name = strings.TrimSpace(memory.Name)
	if memory.Name == "" {
		return models.Memory{}, fmt.Errorf("%w: name is required", ErrInvalidMemory)
	}
	if err := memory.Coordinates().Validate(); err != nil {
		return models.Memory{}, err
	}
	if len(memory.Creators) > MaxCreators {
		return models.Memory{}, fmt.Errorf("%w: %d given, at most %d allowed",
			ErrTooManyCreators, len(memory.Creators), MaxCreators)
	}
	for idx, photo := range memory.Photos {
		if !strings.HasPrefix(photo, photoPrefix) {
			return models.Memory{}, fmt.Errorf("%w: photo %d is not an image data URL", ErrInvalidMemory, idx+1)
		}
	}

	memory.TaggedUsers = dedupe(memory.TaggedUsers)
	memory.ID = ms.newID()
	memory.CreatedAt = ms.now().UTC()

	if err := ms.store.InsertMemory(ctx, memory); err != nil {
		return models.Memory{}, fmt.Errorf("failed to save memory: %w", err)
	}

	ms.log.InfoContext(ctx, "Memory created",
		"id", memory.ID,
		"user", memory.UserID,
		"creators", len(memory.Creators),
		"photos", len(memory.Photos))

	return memory, nil
}

// dedupe drops blank and repeated names, keeping first occurrences in order.
func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	result := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		result = append(result, name)
	}

	return result
}
