package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/krople/gpsmapp/internal/mapview"
	"github.com/krople/gpsmapp/internal/models"
	"github.com/krople/gpsmapp/internal/service"
	"github.com/krople/gpsmapp/internal/widget"
)

// maxBodyBytes bounds request bodies; memories carry inline photos.
const maxBodyBytes = 16 << 20

// Locations is the location logger side of the API.
type Locations interface {
	Refresh(ctx context.Context) (mapview.Result, error)
	Record(ctx context.Context, loc models.Location) (models.Location, mapview.Result, error)
	History(ctx context.Context, limit int) ([]models.Location, error)
	Locate(ctx context.Context, lat, lng float64) (mapview.MarkerEntry, bool)
}

// Memories is the memory lock side of the API.
type Memories interface {
	Friends(ctx context.Context, user string) ([]models.Friend, error)
	AddFriend(ctx context.Context, user, name string) (models.Friend, error)
	RemoveFriend(ctx context.Context, user, name string) error
	RegisterUser(ctx context.Context, name string) (models.User, error)
	SearchUsers(ctx context.Context, query string) ([]models.User, error)
	Memories(ctx context.Context, user string) ([]models.Memory, error)
	MemoryMap(ctx context.Context, user string) (widget.Snapshot, error)
	CreateMemory(ctx context.Context, memory models.Memory) (models.Memory, error)
}

// Scene exposes the widget state shown by the Leaflet page.
type Scene interface {
	Snapshot() widget.Snapshot
}

// Renderer draws the map as an image.
type Renderer interface {
	Render(ctx context.Context, w io.Writer) error
}

// Handler serves the HTTP API.
type Handler struct {
	log       *slog.Logger
	locations Locations
	memories  Memories
	scene     Scene
	renderer  Renderer
}

// NewHandler creates a Handler. A nil renderer makes the static map endpoint
// answer 503.
func NewHandler(log *slog.Logger, locations Locations, memories Memories, scene Scene, renderer Renderer) *Handler {
	return &Handler{
		log:       log,
		locations: locations,
		memories:  memories,
		scene:     scene,
		renderer:  renderer,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

type recordResponse struct {
	Location models.Location  `json:"location"`
	Markers  int              `json:"markers"`
	Viewport mapview.Viewport `json:"viewport"`
}

type friendRequest struct {
	FriendName string `json:"friend_name"`
}

type userRequest struct {
	Username string `json:"username"`
}

// ListLocations handles GET /api/locations?limit=N.
func (h *Handler) ListLocations(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a non-negative integer"})
			return
		}
		limit = parsed
	}

	locations, err := h.locations.History(r.Context(), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, nonNilSlice(locations))
}

// RecordLocation handles POST /api/locations.
func (h *Handler) RecordLocation(w http.ResponseWriter, r *http.Request) {
	var loc models.Location
	if !h.decode(w, r, &loc) {
		return
	}

	saved, result, err := h.locations.Record(r.Context(), loc)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, recordResponse{
		Location: saved,
		Markers:  len(result.Entries),
		Viewport: result.Viewport,
	})
}

// MapScene handles GET /api/map.
func (h *Handler) MapScene(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, h.scene.Snapshot())
}

// RefreshMap handles POST /api/map/refresh.
func (h *Handler) RefreshMap(w http.ResponseWriter, r *http.Request) {
	result, err := h.locations.Refresh(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

// LookupMarker handles GET /api/map/lookup?lat=&lng=. A miss answers 204.
func (h *Handler) LookupMarker(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	lat, errLat := strconv.ParseFloat(query.Get("lat"), 64)
	lng, errLng := strconv.ParseFloat(query.Get("lng"), 64)
	if errLat != nil || errLng != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "lat and lng must be numbers"})
		return
	}

	entry, ok := h.locations.Locate(r.Context(), lat, lng)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.writeJSON(w, http.StatusOK, entry)
}

// StaticMap handles GET /api/map/static.png.
func (h *Handler) StaticMap(w http.ResponseWriter, r *http.Request) {
	if h.renderer == nil {
		h.writeError(w, r, widget.ErrStaticMapUnavailable)
		return
	}

	var buf bytes.Buffer
	if err := h.renderer.Render(r.Context(), &buf); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := buf.WriteTo(w); err != nil {
		h.log.ErrorContext(r.Context(), "failed to write reply", "error", err)
	}
}

// RegisterUser handles POST /api/users.
func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.memories.RegisterUser(r.Context(), req.Username)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, user)
}

// SearchUsers handles GET /api/users/search?q=.
func (h *Handler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.memories.SearchUsers(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, nonNilSlice(users))
}

// ListFriends handles GET /api/users/{user}/friends.
func (h *Handler) ListFriends(w http.ResponseWriter, r *http.Request) {
	friends, err := h.memories.Friends(r.Context(), mux.Vars(r)["user"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, nonNilSlice(friends))
}

// AddFriend handles POST /api/users/{user}/friends.
func (h *Handler) AddFriend(w http.ResponseWriter, r *http.Request) {
	var req friendRequest
	if !h.decode(w, r, &req) {
		return
	}

	friend, err := h.memories.AddFriend(r.Context(), mux.Vars(r)["user"], req.FriendName)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, friend)
}

// RemoveFriend handles DELETE /api/users/{user}/friends/{name}.
func (h *Handler) RemoveFriend(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.memories.RemoveFriend(r.Context(), vars["user"], vars["name"]); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListMemories handles GET /api/users/{user}/memories.
func (h *Handler) ListMemories(w http.ResponseWriter, r *http.Request) {
	memories, err := h.memories.Memories(r.Context(), mux.Vars(r)["user"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, nonNilSlice(memories))
}

// MemoryMap handles GET /api/users/{user}/memories/map.
func (h *Handler) MemoryMap(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.memories.MemoryMap(r.Context(), mux.Vars(r)["user"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, snapshot)
}

// CreateMemory handles POST /api/users/{user}/memories.
func (h *Handler) CreateMemory(w http.ResponseWriter, r *http.Request) {
	var memory models.Memory
	if !h.decode(w, r, &memory) {
		return
	}
	memory.UserID = mux.Vars(r)["user"]

	created, err := h.memories.CreateMemory(r.Context(), memory)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		h.log.DebugContext(r.Context(), "Rejected request body", "path", r.URL.Path, "error", err)
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}

	return true
}

// writeError maps service errors to status codes.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrInvalidCoordinates),
		errors.Is(err, service.ErrInvalidMemory),
		errors.Is(err, service.ErrTooManyCreators),
		errors.Is(err, service.ErrInvalidFriend),
		errors.Is(err, service.ErrInvalidUser):
		status = http.StatusBadRequest
	case errors.Is(err, widget.ErrStaticMapUnavailable),
		errors.Is(err, mapview.ErrSessionDisposed):
		status = http.StatusServiceUnavailable
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		h.log.ErrorContext(r.Context(), "Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		message = http.StatusText(status)
	}

	h.writeJSON(w, status, errorResponse{Error: message})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.Error("failed to write reply", "error", err)
	}
}

func nonNilSlice[T any](values []T) []T {
	if values == nil {
		return []T{}
	}

	return values
}
