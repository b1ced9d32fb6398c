package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/krople/gpsmapp/internal/models"
)

// Schema creates the tables used by the service when they do not exist yet.
const Schema = `
	CREATE TABLE IF NOT EXISTS public.locations (
		id BIGSERIAL PRIMARY KEY,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		accuracy DOUBLE PRECISION,
		altitude DOUBLE PRECISION,
		speed DOUBLE PRECISION,
		timestamp TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS locations_timestamp_idx ON public.locations (timestamp DESC);
	CREATE TABLE IF NOT EXISTS public.memories (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		creators TEXT[] NOT NULL DEFAULT '{}',
		tagged_users TEXT[] NOT NULL DEFAULT '{}',
		photos TEXT[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE TABLE IF NOT EXISTS public.friends (
		user_id TEXT NOT NULL,
		friend_name TEXT NOT NULL,
		PRIMARY KEY (user_id, friend_name)
	);
	CREATE TABLE IF NOT EXISTS public.app_users (
		username TEXT PRIMARY KEY
	);
`

// Migrate applies Schema.
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	return nil
}

// ListLocations retrieves the most recent location records, newest first.
//
// Parameters:
// - ctx: The context for the operation, allowing for cancellation and timeout.
// - limit: The maximum number of records to retrieve.
//
// Returns:
// - A slice of models.Location ordered by timestamp descending.
// - An error if the query fails or if there is an issue scanning the results.
func (r *Repository) ListLocations(ctx context.Context, limit int) ([]models.Location, error) {
	var locations []models.Location
	query := `
		SELECT id, latitude, longitude, accuracy, altitude, speed, timestamp
		FROM public.locations
		ORDER BY timestamp DESC
		LIMIT $1;
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query locations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var loc models.Location
		if errScan := rows.Scan(
			&loc.ID, &loc.Latitude, &loc.Longitude, &loc.Accuracy, &loc.Altitude, &loc.Speed, &loc.Timestamp,
		); errScan != nil {
			return nil, fmt.Errorf("failed to scan location: %w", errScan)
		}
		locations = append(locations, loc)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	r.log.DebugContext(ctx, "Locations fetched", "count", len(locations), "limit", limit)

	return locations, nil
}

// InsertLocation stores a new record and returns it with the assigned ID.
func (r *Repository) InsertLocation(ctx context.Context, loc models.Location) (models.Location, error) {
	query := `
		INSERT INTO public.locations (latitude, longitude, accuracy, altitude, speed, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id;
	`

	err := r.db.QueryRow(ctx, query,
		loc.Latitude, loc.Longitude, loc.Accuracy, loc.Altitude, loc.Speed, loc.Timestamp,
	).Scan(&loc.ID)
	if err != nil {
		return models.Location{}, fmt.Errorf("failed to insert location: %w", err)
	}

	return loc, nil
}

// ListMemories returns the memories of a user, newest first.
func (r *Repository) ListMemories(ctx context.Context, userID string) ([]models.Memory, error) {
	var memories []models.Memory
	query := `
		SELECT id, user_id, name, COALESCE(description, ''), latitude, longitude,
			creators, tagged_users, photos, created_at
		FROM public.memories
		WHERE user_id = $1
		ORDER BY created_at DESC;
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query memories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var mem models.Memory
		if errScan := rows.Scan(
			&mem.ID, &mem.UserID, &mem.Name, &mem.Description, &mem.Latitude, &mem.Longitude,
			&mem.Creators, &mem.TaggedUsers, &mem.Photos, &mem.CreatedAt,
		); errScan != nil {
			return nil, fmt.Errorf("failed to scan memory: %w", errScan)
		}
		memories = append(memories, mem)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return memories, nil
}

// InsertMemory stores a new memory.
func (r *Repository) InsertMemory(ctx context.Context, memory models.Memory) error {
	query := `
		INSERT INTO public.memories
			(id, user_id, name, description, latitude, longitude, creators, tagged_users, photos, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`

	_, err := r.db.Exec(ctx, query,
		memory.ID, memory.UserID, memory.Name, memory.Description, memory.Latitude, memory.Longitude,
		nonNil(memory.Creators), nonNil(memory.TaggedUsers), nonNil(memory.Photos), memory.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert memory: %w", err)
	}

	return nil
}

// ListFriends returns the friends of a user ordered by name.
func (r *Repository) ListFriends(ctx context.Context, userID string) ([]models.Friend, error) {
	var friends []models.Friend
	query := `
		SELECT user_id, friend_name
		FROM public.friends
		WHERE user_id = $1
		ORDER BY friend_name;
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query friends: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var friend models.Friend
		if errScan := rows.Scan(&friend.UserID, &friend.FriendName); errScan != nil {
			return nil, fmt.Errorf("failed to scan friend: %w", errScan)
		}
		friends = append(friends, friend)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return friends, nil
}

// InsertFriend adds a friendship. Adding an existing friend is a no-op.
func (r *Repository) InsertFriend(ctx context.Context, friend models.Friend) error {
	query := `
		INSERT INTO public.friends (user_id, friend_name)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING;
	`

	if _, err := r.db.Exec(ctx, query, friend.UserID, friend.FriendName); err != nil {
		return fmt.Errorf("failed to insert friend: %w", err)
	}

	return nil
}

// DeleteFriend removes a friendship.
func (r *Repository) DeleteFriend(ctx context.Context, friend models.Friend) error {
	query := `
		DELETE FROM public.friends
		WHERE user_id = $1 AND friend_name = $2;
	`

	if _, err := r.db.Exec(ctx, query, friend.UserID, friend.FriendName); err != nil {
		return fmt.Errorf("failed to delete friend: %w", err)
	}

	return nil
}

// AddUser registers a user name in the directory. Adding an existing user is a no-op.
func (r *Repository) AddUser(ctx context.Context, username string) error {
	query := `
		INSERT INTO public.app_users (username)
		VALUES ($1)
		ON CONFLICT DO NOTHING;
	`

	if _, err := r.db.Exec(ctx, query, username); err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// SearchUsers finds users whose name contains query, case-insensitively.
func (r *Repository) SearchUsers(ctx context.Context, query string, limit int) ([]models.User, error) {
	var users []models.User
	sql := `
		SELECT username
		FROM public.app_users
		WHERE username ILIKE $1 ESCAPE '\'
		ORDER BY username
		LIMIT $2;
	`

	rows, err := r.db.Query(ctx, sql, LikePattern(query), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var user models.User
		if errScan := rows.Scan(&user.Username); errScan != nil {
			return nil, fmt.Errorf("failed to scan user: %w", errScan)
		}
		users = append(users, user)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return users, nil
}

// LikePattern wraps query in % wildcards, escaping LIKE metacharacters.
func LikePattern(query string) string {
	escaper := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + escaper.Replace(query) + "%"
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}

	return values
}
