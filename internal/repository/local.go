package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/krople/gpsmapp/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// locationRow is the gorm model of the locations table.
type locationRow struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	Latitude  float64
	Longitude float64
	Accuracy  *float64
	Altitude  *float64
	Speed     *float64
	Timestamp time.Time `gorm:"index"`
}

func (locationRow) TableName() string { return "locations" }

type memoryRow struct {
	ID          string `gorm:"primaryKey"`
	UserID      string `gorm:"index"`
	Name        string
	Description string
	Latitude    float64
	Longitude   float64
	Creators    datatypes.JSONSlice[string]
	TaggedUsers datatypes.JSONSlice[string]
	Photos      datatypes.JSONSlice[string]
	CreatedAt   time.Time
}

func (memoryRow) TableName() string { return "memories" }

type friendRow struct {
	UserID     string `gorm:"primaryKey"`
	FriendName string `gorm:"primaryKey"`
}

func (friendRow) TableName() string { return "friends" }

type userRow struct {
	Username string `gorm:"primaryKey"`
}

func (userRow) TableName() string { return "app_users" }

// LocalRepository stores everything in a SQLite database through gorm.
// It implements the same Interface as the PostgreSQL Repository.
type LocalRepository struct {
	db  *gorm.DB
	log *slog.Logger
}

var _ Interface = (*LocalRepository)(nil)

// NewLocalDatabase opens a SQLite database at path and migrates it.
// An empty path opens a private in-memory database.
func NewLocalDatabase(path string) (*gorm.DB, error) {
	dsn := path
	if dsn == "" {
		dsn = ":memory:"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if dsn == ":memory:" {
		// Every connection to :memory: is a separate database.
		sqlDB, errDB := db.DB()
		if errDB != nil {
			return nil, fmt.Errorf("failed to access sqlite pool: %w", errDB)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err = db.AutoMigrate(&locationRow{}, &memoryRow{}, &friendRow{}, &userRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate sqlite database: %w", err)
	}

	return db, nil
}

// NewLocalRepository creates a LocalRepository on top of an open gorm database.
func NewLocalRepository(db *gorm.DB, log *slog.Logger) *LocalRepository {
	return &LocalRepository{db: db, log: log}
}

// Ping checks the underlying connection.
func (r *LocalRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to access sqlite pool: %w", err)
	}

	return sqlDB.PingContext(ctx)
}

// AddUser registers a user name in the directory.
func (r *LocalRepository) AddUser(ctx context.Context, username string) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&userRow{Username: username}).Error
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// ListLocations retrieves the most recent location records, newest first.
func (r *LocalRepository) ListLocations(ctx context.Context, limit int) ([]models.Location, error) {
	var rows []locationRow
	if err := r.db.WithContext(ctx).Order("timestamp DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query locations: %w", err)
	}

	locations := make([]models.Location, 0, len(rows))
	for _, row := range rows {
		locations = append(locations, models.Location{
			ID:        row.ID,
			Latitude:  row.Latitude,
			Longitude: row.Longitude,
			Accuracy:  row.Accuracy,
			Altitude:  row.Altitude,
			Speed:     row.Speed,
			Timestamp: row.Timestamp,
		})
	}

	r.log.DebugContext(ctx, "Locations fetched", "count", len(locations), "limit", limit)

	return locations, nil
}

// InsertLocation stores a new record and returns it with the assigned ID.
func (r *LocalRepository) InsertLocation(ctx context.Context, loc models.Location) (models.Location, error) {
	row := locationRow{
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
		Accuracy:  loc.Accuracy,
		Altitude:  loc.Altitude,
		Speed:     loc.Speed,
		Timestamp: loc.Timestamp.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return models.Location{}, fmt.Errorf("failed to insert location: %w", err)
	}
	loc.ID = row.ID

	return loc, nil
}

// ListMemories returns the memories of a user, newest first.
func (r *LocalRepository) ListMemories(ctx context.Context, userID string) ([]models.Memory, error) {
	var rows []memoryRow
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query memories: %w", err)
	}

	memories := make([]models.Memory, 0, len(rows))
	for _, row := range rows {
		memories = append(memories, models.Memory{
			ID:          row.ID,
			UserID:      row.UserID,
			Name:        row.Name,
			Description: row.Description,
			Latitude:    row.Latitude,
			Longitude:   row.Longitude,
			Creators:    []string(row.Creators),
			TaggedUsers: []string(row.TaggedUsers),
			Photos:      []string(row.Photos),
			CreatedAt:   row.CreatedAt,
		})
	}

	return memories, nil
}

// InsertMemory stores a new memory.
func (r *LocalRepository) InsertMemory(ctx context.Context, memory models.Memory) error {
	row := memoryRow{
		ID:          memory.ID,
		UserID:      memory.UserID,
		Name:        memory.Name,
		Description: memory.Description,
		Latitude:    memory.Latitude,
		Longitude:   memory.Longitude,
		Creators:    datatypes.NewJSONSlice(nonNil(memory.Creators)),
		TaggedUsers: datatypes.NewJSONSlice(nonNil(memory.TaggedUsers)),
		Photos:      datatypes.NewJSONSlice(nonNil(memory.Photos)),
		CreatedAt:   memory.CreatedAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert memory: %w", err)
	}

	return nil
}

// ListFriends returns the friends of a user ordered by name.
func (r *LocalRepository) ListFriends(ctx context.Context, userID string) ([]models.Friend, error) {
	var rows []friendRow
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("friend_name").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query friends: %w", err)
	}

	friends := make([]models.Friend, 0, len(rows))
	for _, row := range rows {
		friends = append(friends, models.Friend{UserID: row.UserID, FriendName: row.FriendName})
	}

	return friends, nil
}

// InsertFriend adds a friendship. Adding an existing friend is a no-op.
func (r *LocalRepository) InsertFriend(ctx context.Context, friend models.Friend) error {
	row := friendRow{UserID: friend.UserID, FriendName: friend.FriendName}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert friend: %w", err)
	}

	return nil
}

// DeleteFriend removes a friendship.
func (r *LocalRepository) DeleteFriend(ctx context.Context, friend models.Friend) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND friend_name = ?", friend.UserID, friend.FriendName).
		Delete(&friendRow{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete friend: %w", err)
	}

	return nil
}

// SearchUsers finds users whose name contains query, case-insensitively.
func (r *LocalRepository) SearchUsers(ctx context.Context, query string, limit int) ([]models.User, error) {
	var rows []userRow
	err := r.db.WithContext(ctx).
		Where(`LOWER(username) LIKE ? ESCAPE '\'`, strings.ToLower(LikePattern(query))).
		Order("username").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}

	users := make([]models.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, models.User{Username: row.Username})
	}

	return users, nil
}
