// Package api exposes the location logger and memory lock over HTTP.
package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter registers every API route on a new gorilla/mux router.
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/locations", h.ListLocations).Methods(http.MethodGet)
	r.HandleFunc("/api/locations", h.RecordLocation).Methods(http.MethodPost)

	r.HandleFunc("/api/map", h.MapScene).Methods(http.MethodGet)
	r.HandleFunc("/api/map/refresh", h.RefreshMap).Methods(http.MethodPost)
	r.HandleFunc("/api/map/lookup", h.LookupMarker).Methods(http.MethodGet)
	r.HandleFunc("/api/map/static.png", h.StaticMap).Methods(http.MethodGet)

	r.HandleFunc("/api/users", h.RegisterUser).Methods(http.MethodPost)
	r.HandleFunc("/api/users/search", h.SearchUsers).Methods(http.MethodGet)
	r.HandleFunc("/api/users/{user}/friends", h.ListFriends).Methods(http.MethodGet)
	r.HandleFunc("/api/users/{user}/friends", h.AddFriend).Methods(http.MethodPost)
	r.HandleFunc("/api/users/{user}/friends/{name}", h.RemoveFriend).Methods(http.MethodDelete)
	r.HandleFunc("/api/users/{user}/memories", h.ListMemories).Methods(http.MethodGet)
	r.HandleFunc("/api/users/{user}/memories", h.CreateMemory).Methods(http.MethodPost)
	r.HandleFunc("/api/users/{user}/memories/map", h.MemoryMap).Methods(http.MethodGet)

	return r
}
