package service

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/krople/gpsmapp/internal/mapview"
	"github.com/krople/gpsmapp/internal/models"
	"github.com/krople/gpsmapp/test/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newMemoryService(t *testing.T) (*MemoryService, *mocks.Interface) {
	t.Helper()

	store := mocks.NewInterface(t)
	reconciler := mapview.NewReconciler(mapview.Options{Location: time.UTC})
	service := NewMemoryService(slog.New(slog.NewTextHandler(os.Stdout, nil)), store, reconciler)
	service.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	service.newID = func() string { return "memory-1" }

	return service, store
}

func TestMemoryService_Friends(t *testing.T) {
	ctx := t.Context()

	t.Run("add trims the name", func(t *testing.T) {
		service, store := newMemoryService(t)
		store.On("InsertFriend", mock.Anything, models.Friend{UserID: "minji", FriendName: "jisoo"}).Return(nil).Once()

		friend, err := service.AddFriend(ctx, "minji", "  jisoo ")

		require.NoError(t, err)
		assert.Equal(t, "jisoo", friend.FriendName)
	})

	t.Run("add rejects empty names and yourself", func(t *testing.T) {
		service, _ := newMemoryService(t)

		_, err := service.AddFriend(ctx, "minji", "   ")
		require.ErrorIs(t, err, ErrInvalidFriend)

		_, err = service.AddFriend(ctx, "minji", "minji")
		require.ErrorIs(t, err, ErrInvalidFriend)
	})

	t.Run("store errors are wrapped", func(t *testing.T) {
		service, store := newMemoryService(t)
		store.On("ListFriends", mock.Anything, "minji").Return(nil, assert.AnError).Once()
		store.On("DeleteFriend", mock.Anything, models.Friend{UserID: "minji", FriendName: "hana"}).
			Return(assert.AnError).Once()

		_, err := service.Friends(ctx, "minji")
		require.ErrorIs(t, err, assert.AnError)

		err = service.RemoveFriend(ctx, "minji", "hana")
		require.ErrorIs(t, err, assert.AnError)
	})

	t.Run("list and remove", func(t *testing.T) {
		service, store := newMemoryService(t)
		friends := []models.Friend{{UserID: "minji", FriendName: "hana"}}
		store.On("ListFriends", mock.Anything, "minji").Return(friends, nil).Once()
		store.On("DeleteFriend", mock.Anything, friends[0]).Return(nil).Once()

		got, err := service.Friends(ctx, "minji")
		require.NoError(t, err)
		assert.Equal(t, friends, got)

		require.NoError(t, service.RemoveFriend(ctx, "minji", "hana"))
	})
}

func TestMemoryService_RegisterUser(t *testing.T) {
	ctx := t.Context()

	t.Run("trims and stores the name", func(t *testing.T) {
		service, store := newMemoryService(t)
		store.On("AddUser", mock.Anything, "jisoo").Return(nil).Once()

		user, err := service.RegisterUser(ctx, " jisoo ")

		require.NoError(t, err)
		assert.Equal(t, models.User{Username: "jisoo"}, user)
	})

	t.Run("rejects a blank name", func(t *testing.T) {
		service, _ := newMemoryService(t)

		_, err := service.RegisterUser(ctx, "  ")

		require.ErrorIs(t, err, ErrInvalidUser)
	})

	t.Run("store failure", func(t *testing.T) {
		service, store := newMemoryService(t)
		store.On("AddUser", mock.Anything, "jisoo").Return(assert.AnError).Once()

		_, err := service.RegisterUser(ctx, "jisoo")

		require.ErrorIs(t, err, assert.AnError)
	})
}

func TestMemoryService_SearchUsers(t *testing.T) {
	ctx := t.Context()

	t.Run("short queries skip the store", func(t *testing.T) {
		service, _ := newMemoryService(t)

		for _, query := range []string{"", " ", "j", " 민 "} {
			users, err := service.SearchUsers(ctx, query)

			require.NoError(t, err)
			assert.Empty(t, users)
		}
	})

	t.Run("searches with the result limit", func(t *testing.T) {
		service, store := newMemoryService(t)
		users := []models.User{{Username: "민지"}}
		store.On("SearchUsers", mock.Anything, "민지", SearchLimit).Return(users, nil).Once()

		got, err := service.SearchUsers(ctx, " 민지 ")

		require.NoError(t, err)
		assert.Equal(t, users, got)
	})
}

func TestMemoryService_CreateMemory(t *testing.T) {
	ctx := t.Context()

	t.Run("assigns id and creation time", func(t *testing.T) {
		service, store := newMemoryService(t)
		input := models.Memory{
			UserID:      "minji",
			Name:        " Han river ",
			Latitude:    37.52,
			Longitude:   126.93,
			Creators:    []string{"minji", "jisoo"},
			TaggedUsers: []string{"hana", "hana", " ", "jisoo"},
			Photos:      []string{"data:image/jpeg;base64,AAAA"},
		}
		expected := input
		expected.ID = "memory-1"
		expected.Name = "Han river"
		expected.TaggedUsers = []string{"hana", "jisoo"}
		expected.CreatedAt = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		store.On("InsertMemory", mock.Anything, expected).Return(nil).Once()

		got, err := service.CreateMemory(ctx, input)

		require.NoError(t, err)
		assert.Equal(t, expected, got)
	})

	t.Run("validation", func(t *testing.T) {
		service, _ := newMemoryService(t)
		creators := make([]string, MaxCreators+1)
		for i := range creators {
			creators[i] = string(rune('a' + i))
		}

		tests := []struct {
			name   string
			memory models.Memory
			err    error
		}{
			{"missing name", models.Memory{Name: "  "}, ErrInvalidMemory},
			{"bad coordinates", models.Memory{Name: "x", Latitude: 120}, models.ErrInvalidCoordinates},
			{"too many creators", models.Memory{Name: "x", Creators: creators}, ErrTooManyCreators},
			{"photo is not an image", models.Memory{Name: "x", Photos: []string{"https://example.com/a.png"}}, ErrInvalidMemory},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := service.CreateMemory(ctx, tt.memory)
				require.ErrorIs(t, err, tt.err)
			})
		}
	})

	t.Run("store failure", func(t *testing.T) {
		service, store := newMemoryService(t)
		store.On("InsertMemory", mock.Anything, mock.Anything).Return(assert.AnError).Once()

		_, err := service.CreateMemory(ctx, models.Memory{Name: "x"})

		require.ErrorIs(t, err, assert.AnError)
	})

	t.Run("list", func(t *testing.T) {
		service, store := newMemoryService(t)
		store.On("ListMemories", mock.Anything, "minji").Return([]models.Memory{{ID: "m-1"}}, nil).Once()

		got, err := service.Memories(ctx, "minji")

		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}

func TestMemoryService_MemoryMap(t *testing.T) {
	ctx := t.Context()
	created := time.Date(2025, 5, 5, 1, 30, 0, 0, time.UTC)
	namsan := models.Memory{ID: "m-1", UserID: "minji", Name: "Namsan", Description: "night view",
		Latitude: 37.5512, Longitude: 126.9882, CreatedAt: created}
	hangang := models.Memory{ID: "m-2", UserID: "minji", Name: "Hangang",
		Latitude: 37.5284, Longitude: 126.9327, CreatedAt: created}

	t.Run("single memory", func(t *testing.T) {
		service, store := newMemoryService(t)
		store.On("ListMemories", mock.Anything, "minji").Return([]models.Memory{namsan}, nil).Once()

		snapshot, err := service.MemoryMap(ctx, "minji")

		require.NoError(t, err)
		require.Len(t, snapshot.Markers, 1)
		assert.Equal(t, mapview.Viewport{Center: namsan.Coordinates(), Zoom: mapview.DefaultSingleZoom}, snapshot.Viewport)
		overlay := snapshot.Markers[0]
		assert.Equal(t, mapview.MemoryGlyph, overlay.Label.Text)
		assert.Equal(t, mapview.SecondaryColor, overlay.Label.Color)
		require.NotNil(t, overlay.Detail)
		assert.Equal(t, mapview.MemoryGlyph+" Namsan", overlay.Detail.Title)
		assert.Equal(t, "2025-05-05 01:30:00", overlay.Detail.Time)
		assert.Equal(t, "night view", overlay.Detail.Description)
	})

	t.Run("several memories", func(t *testing.T) {
		service, store := newMemoryService(t)
		store.On("ListMemories", mock.Anything, "minji").Return([]models.Memory{namsan, hangang}, nil).Once()

		snapshot, err := service.MemoryMap(ctx, "minji")

		require.NoError(t, err)
		require.Len(t, snapshot.Markers, 2)
		expected, ok := mapview.Fit([]models.Coordinates{namsan.Coordinates(), hangang.Coordinates()},
			mapview.DefaultFrame(), mapview.DefaultSingleZoom)
		require.True(t, ok)
		assert.Equal(t, expected, snapshot.Viewport)
	})

	t.Run("no memories", func(t *testing.T) {
		service, store := newMemoryService(t)
		store.On("ListMemories", mock.Anything, "minji").Return(nil, nil).Once()

		snapshot, err := service.MemoryMap(ctx, "minji")

		require.NoError(t, err)
		assert.Empty(t, snapshot.Markers)
		assert.Equal(t, mapview.Viewport{}, snapshot.Viewport)
	})

	t.Run("store failure", func(t *testing.T) {
		service, store := newMemoryService(t)
		store.On("ListMemories", mock.Anything, "minji").Return(nil, assert.AnError).Once()

		_, err := service.MemoryMap(ctx, "minji")

		require.ErrorIs(t, err, assert.AnError)
	})
}
