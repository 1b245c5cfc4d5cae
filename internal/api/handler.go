package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/skip2/go-qrcode"
	"github.com/user/arena-games/config"
	"github.com/user/arena-games/internal/game"
	"github.com/user/arena-games/internal/interfaces"
	"github.com/user/arena-games/internal/types"
	"go.uber.org/zap"
)

// Handler exposes a GameManager over HTTP
type Handler struct {
	games     interfaces.GameManager
	config    config.Config
	logger    *zap.Logger
	validator *validator.Validate
}

// NewHandler creates a new HTTP handler
func NewHandler(games interfaces.GameManager, cfg config.Config, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		games:     games,
		config:    cfg,
		logger:    logger,
		validator: validator.New(),
	}
}

// CreateGameRequest is the body of POST /games
type CreateGameRequest struct {
	Participants []game.RosterEntry `json:"participants" validate:"required,min=1,dive"`
}

// AutoplayRequest is the body of PUT /games/{id}/autoplay
type AutoplayRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

// AdvanceResponse is returned by POST /games/{id}/advance
type AdvanceResponse struct {
	State  *types.GameState  `json:"state"`
	Events []types.GameEvent `json:"events"`
}

// GameSummary is one row of GET /games
type GameSummary struct {
	ID        string      `json:"id"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	Steps     int         `json:"steps"`
	Autoplay  bool        `json:"autoplay"`
	Day       int         `json:"day"`
	Phase     types.Phase `json:"phase"`
	Alive     int         `json:"alive"`
	Winner    string      `json:"winner,omitempty"`
}

// Routes builds the router
func (h *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	router.Get("/health", h.health)

	router.Route("/games", func(r chi.Router) {
		r.Post("/", h.createGame)
		r.Get("/", h.listGames)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.getGame)
			r.Delete("/", h.deleteGame)
			r.Post("/advance", h.advance)
			r.Post("/run", h.run)
			r.Put("/autoplay", h.autoplay)
			r.Get("/events", h.events)
			r.Get("/qr", h.qr)
		})
	})

	return router
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}

func (h *Handler) createGame(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := game.ValidateRoster(req.Participants); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	g, err := h.games.CreateGame(game.ToParticipants(req.Participants))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, g)
}

func (h *Handler) listGames(w http.ResponseWriter, r *http.Request) {
	games := h.games.ListGames()
	summaries := make([]GameSummary, 0, len(games))
	for _, g := range games {
		summary := GameSummary{
			ID:        g.ID,
			CreatedAt: g.CreatedAt,
			UpdatedAt: g.UpdatedAt,
			Steps:     g.Steps,
			Autoplay:  g.Autoplay,
			Day:       g.State.Day,
			Phase:     g.State.Phase,
			Alive:     len(g.State.Alive()),
		}
		if g.State.Winner != nil {
			summary.Winner = g.State.Winner.Name
		}
		summaries = append(summaries, summary)
	}
	h.writeJSON(w, http.StatusOK, summaries)
}

func (h *Handler) getGame(w http.ResponseWriter, r *http.Request) {
	g, err := h.games.GetGame(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, g)
}

func (h *Handler) deleteGame(w http.ResponseWriter, r *http.Request) {
	if err := h.games.DeleteGame(chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) advance(w http.ResponseWriter, r *http.Request) {
	state, events, err := h.games.Advance(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, AdvanceResponse{State: state, Events: events})
}

func (h *Handler) run(w http.ResponseWriter, r *http.Request) {
	maxSteps := 0
	if raw := r.URL.Query().Get("max_steps"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "Invalid max_steps", http.StatusBadRequest)
			return
		}
		maxSteps = n
	}

	state, err := h.games.RunToCompletion(chi.URLParam(r, "id"), maxSteps)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, state)
}

func (h *Handler) autoplay(w http.ResponseWriter, r *http.Request) {
	var req AutoplayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.games.SetAutoplay(chi.URLParam(r, "id"), *req.Enabled); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) events(w http.ResponseWriter, r *http.Request) {
	g, err := h.games.GetGame(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	day := 0
	if raw := r.URL.Query().Get("day"); raw != "" {
		day, err = strconv.Atoi(raw)
		if err != nil || day < 1 {
			http.Error(w, "Invalid day", http.StatusBadRequest)
			return
		}
	}
	phase := types.Phase(r.URL.Query().Get("phase"))

	h.writeJSON(w, http.StatusOK, g.State.EventsFor(day, phase))
}

// qr renders a PNG QR code pointing at the game's public URL
func (h *Handler) qr(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.games.GetGame(id); err != nil {
		h.fail(w, r, err)
		return
	}

	link := strings.TrimRight(h.config.Server.PublicURL, "/") + "/games/" + id
	png, err := qrcode.Encode(link, qrcode.Medium, 256)
	if err != nil {
		h.logger.Error("Failed to generate QR code",
			zap.String("game_id", id),
			zap.Error(err))
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// fail maps manager errors to status codes
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, game.ErrGameNotFound):
		status = http.StatusNotFound
	case errors.Is(err, game.ErrGameFinished):
		status = http.StatusConflict
	case errors.Is(err, game.ErrEmptyRoster):
		status = http.StatusBadRequest
	case errors.Is(err, game.ErrStepLimit):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
	http.Error(w, err.Error(), status)
}

// writeJSON sends v with the given status and logs encoding failures
func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response",
			zap.Int("status", status),
			zap.Error(err))
	}
}
