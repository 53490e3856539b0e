package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/mux"

	"github.com/archanaprabhat/CineMania/internal/catalog"
	"github.com/archanaprabhat/CineMania/internal/model"
	"github.com/archanaprabhat/CineMania/internal/store"
	"github.com/archanaprabhat/CineMania/internal/watchlist"
)

// WatchlistService is the part of the watchlist container the API uses.
type WatchlistService interface {
	Items() []model.WatchlistRecord
	Contains(id int64) bool
	Add(ctx context.Context, e model.Entry) error
	Remove(ctx context.Context, id int64) error
	Refresh(ctx context.Context) error
}

// CatalogService is the part of the catalog the API uses.
type CatalogService interface {
	Entry(kind model.MediaKind, id int64) (model.Entry, error)
	Find(id int64) (model.Entry, error)
	Search(query string, perKind int) catalog.SearchResults
}

var (
	_ WatchlistService = (*watchlist.Container)(nil)
	_ CatalogService   = (*catalog.Catalog)(nil)
)

// Handler serves the watchlist API.
type Handler struct {
	Watchlist WatchlistService
	Catalog   CatalogService
	logger    *slog.Logger

	// toggles holds the Toggle of every id with a request in flight, so
	// concurrent toggles of the same entry collapse into one.
	togglesMu sync.Mutex
	toggles   map[int64]*toggleSlot
}

type toggleSlot struct {
	toggle *watchlist.Toggle
	refs   int
}

// NewHandler creates a Handler. cat may be nil, which disables adding by id
// and search.
func NewHandler(wl WatchlistService, cat CatalogService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		Watchlist: wl,
		Catalog:   cat,
		logger:    logger,
		toggles:   make(map[int64]*toggleSlot),
	}
}

type addRequest struct {
	ID    int64           `json:"id"`
	Kind  string          `json:"kind,omitempty"`
	Entry json.RawMessage `json:"entry,omitempty"`
}

type toggleResponse struct {
	Result      string `json:"result"`
	Message     string `json:"message,omitempty"`
	InWatchlist bool   `json:"in_watchlist"`
}

type searchResponse struct {
	Query  string         `json:"query"`
	Movies []searchResult `json:"movies"`
	Shows  []searchResult `json:"shows"`
	Actors []model.Actor  `json:"actors"`
}

type searchResult struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	PosterURL   string  `json:"poster_url"`
	Rating      float64 `json:"rating"`
	Date        string  `json:"date,omitempty"`
	InWatchlist bool    `json:"in_watchlist"`
}

// List returns the watchlist, newest first, after reloading it from the store.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if err := h.Watchlist.Refresh(r.Context()); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Watchlist.Items())
}

// Status returns the watchlist badge.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	if err := h.Watchlist.Refresh(r.Context()); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, watchlist.NewBadge(h.Watchlist.Items()))
}

// Get returns one watchlist record.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	for _, rec := range h.Watchlist.Items() {
		if rec.ID == id {
			writeJSON(w, http.StatusOK, rec)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "not in watchlist"})
}

// Add adds a catalog entry by id, or a full entry object, to the watchlist.
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	var body addRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	entry, err := h.resolve(body)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := h.Watchlist.Add(r.Context(), entry); err != nil {
		h.writeError(w, err)
		return
	}

	for _, rec := range h.Watchlist.Items() {
		if rec.ID == entry.ID() {
			writeJSON(w, http.StatusOK, rec)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// Remove deletes a record. Removing an absent id succeeds.
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.Watchlist.Remove(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Toggle adds or removes the catalog entry with the path id. A request that
// arrives while another toggle for the same id is running is answered with
// 409 and does nothing.
func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	t, err := h.acquireToggle(id, r.URL.Query().Get("kind"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	defer h.releaseToggle(id)

	result, err := t.Run(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	status := http.StatusOK
	if result == watchlist.ToggleIgnored {
		status = http.StatusConflict
	}
	writeJSON(w, status, toggleResponse{
		Result:      result.String(),
		Message:     result.Message(),
		InWatchlist: h.Watchlist.Contains(id),
	})
}

// acquireToggle returns the in-flight Toggle for id, or a new one for the
// resolved entry. Every successful call must be paired with releaseToggle.
func (h *Handler) acquireToggle(id int64, kind string) (*watchlist.Toggle, error) {
	h.togglesMu.Lock()
	if slot, ok := h.toggles[id]; ok {
		slot.refs++
		h.togglesMu.Unlock()
		return slot.toggle, nil
	}
	h.togglesMu.Unlock()

	entry, err := h.toggleEntry(id, kind)
	if err != nil {
		return nil, err
	}

	h.togglesMu.Lock()
	defer h.togglesMu.Unlock()
	slot, ok := h.toggles[id]
	if !ok {
		slot = &toggleSlot{toggle: watchlist.NewToggle(h.Watchlist, entry)}
		h.toggles[id] = slot
	}
	slot.refs++
	return slot.toggle, nil
}

func (h *Handler) releaseToggle(id int64) {
	h.togglesMu.Lock()
	defer h.togglesMu.Unlock()
	slot, ok := h.toggles[id]
	if !ok {
		return
	}
	slot.refs--
	if slot.refs <= 0 {
		delete(h.toggles, id)
	}
}

// toggleEntry resolves the entry a toggle acts on. Listed ids use their
// stored record so they can be removed even when the catalog lacks them.
func (h *Handler) toggleEntry(id int64, kind string) (model.Entry, error) {
	for _, rec := range h.Watchlist.Items() {
		if rec.ID == id {
			return rec.Entry(), nil
		}
	}
	return h.resolve(addRequest{ID: id, Kind: kind})
}

// Search runs a catalog search and marks watchlisted results.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	if h.Catalog == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "catalog not loaded"})
		return
	}

	q := r.URL.Query().Get("q")
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		limit = n
	}

	res := h.Catalog.Search(q, limit)
	out := searchResponse{
		Query:  q,
		Movies: make([]searchResult, 0, len(res.Movies)),
		Shows:  make([]searchResult, 0, len(res.Shows)),
		Actors: res.Actors,
	}
	for _, m := range res.Movies {
		out.Movies = append(out.Movies, h.searchResult(model.MovieEntry(m)))
	}
	for _, s := range res.Shows {
		out.Shows = append(out.Shows, h.searchResult(model.ShowEntry(s)))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) searchResult(e model.Entry) searchResult {
	return searchResult{
		ID:          e.ID(),
		Title:       e.Title(),
		PosterURL:   catalog.PosterURL(e.PosterPath(), ""),
		Rating:      e.Rating(),
		Date:        e.Date(),
		InWatchlist: h.Watchlist.Contains(e.ID()),
	}
}

// resolve turns an add request into a catalog entry.
func (h *Handler) resolve(body addRequest) (model.Entry, error) {
	if len(body.Entry) > 0 {
		e, err := model.DecodeEntry(body.Entry)
		if err != nil {
			return model.Entry{}, errors.Join(watchlist.ErrInvalidEntry, err)
		}
		return e, nil
	}

	if body.ID <= 0 {
		return model.Entry{}, errors.Join(watchlist.ErrInvalidEntry, model.ErrInvalidID)
	}
	if h.Catalog == nil {
		return model.Entry{}, catalog.ErrNotFound
	}
	if body.Kind != "" {
		kind, err := model.ParseMediaKind(body.Kind)
		if err != nil {
			return model.Entry{}, errors.Join(watchlist.ErrInvalidEntry, err)
		}
		return h.Catalog.Entry(kind, body.ID)
	}
	return h.Catalog.Find(body.ID)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// statusFor maps an error to an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, watchlist.ErrInvalidEntry), errors.Is(err, model.ErrInvalidKind):
		return http.StatusBadRequest
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrQuotaExceeded):
		return http.StatusInsufficientStorage
	case errors.Is(err, store.ErrStorageUnavailable),
		errors.Is(err, store.ErrStoreClosed),
		errors.Is(err, watchlist.ErrContainerClosed):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Warn("watchlist api error", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
