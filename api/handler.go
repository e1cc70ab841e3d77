package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/cmars/broadside/grid"
)

func Router(newEngine func() Engine, logger *log.Logger) http.Handler {
	r := chi.NewRouter()
	h := &handler{newEngine: newEngine, logger: logger, matches: map[string]*match{}}
	r.Get("/", h.Info)
	r.Post("/start", h.Start)
	r.Post("/{id}/shot", h.Shot)
	r.Delete("/{id}", h.End)
	return r
}

type handler struct {
	newEngine func() Engine
	logger    *log.Logger

	mu      sync.RWMutex
	matches map[string]*match
}

// match serializes access to one engine; engines are not safe for
// concurrent use.
type match struct {
	mu  sync.Mutex
	eng Engine
}

func (h *handler) Info(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, &InfoResponse{APIVersion: "1"})
}

func (h *handler) Start(w http.ResponseWriter, r *http.Request) {
	var startReq StartRequest
	err := json.NewDecoder(r.Body).Decode(&startReq)
	if err != nil {
		h.logger.Warn("failed to decode request", "err", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	eng := h.newEngine()
	err = eng.Init(startReq.Width, startReq.Height, startReq.Ships)
	if err != nil {
		h.logger.Warn("engine cannot start match", "err", err)
		http.Error(w, "engine cannot start match: "+err.Error(), http.StatusBadRequest)
		return
	}
	resp := StartResponse{ID: uuid.NewString(), Over: eng.IsOver()}
	if !resp.Over {
		target, err := eng.NextTarget()
		if err != nil {
			h.fail(w, err)
			return
		}
		resp.Target = pointOf(target)
	}

	h.mu.Lock()
	h.matches[resp.ID] = &match{eng: eng}
	h.mu.Unlock()

	h.logger.Info("match started", "id", resp.ID,
		"width", startReq.Width, "height", startReq.Height, "ships", startReq.Ships)
	h.writeJSON(w, &resp)
}

func (h *handler) Shot(w http.ResponseWriter, r *http.Request) {
	var shotReq ShotRequest
	err := json.NewDecoder(r.Body).Decode(&shotReq)
	if err != nil {
		h.logger.Warn("failed to decode request", "err", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	outcome, err := grid.ParseOutcome(shotReq.Result)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id := chi.URLParam(r, "id")
	h.mu.RLock()
	m, ok := h.matches[id]
	h.mu.RUnlock()
	if !ok {
		http.Error(w, "match not found", http.StatusNotFound)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	err = m.eng.RecordOutcome(shotReq.Target.Coord(), outcome)
	if err != nil {
		h.logger.Warn("engine rejected outcome", "id", id, "target", shotReq.Target.Coord(), "result", outcome, "err", err)
		h.fail(w, err)
		return
	}
	resp := ShotResponse{Over: m.eng.IsOver()}
	if !resp.Over {
		target, err := m.eng.NextTarget()
		if err != nil {
			h.logger.Error("engine cannot choose a target", "id", id, "err", err)
			h.fail(w, err)
			return
		}
		resp.Target = pointOf(target)
	} else {
		h.logger.Info("match over", "id", id)
	}
	h.writeJSON(w, &resp)
}

func (h *handler) End(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.mu.Lock()
	_, ok := h.matches[id]
	delete(h.matches, id)
	h.mu.Unlock()
	if !ok {
		http.Error(w, "match not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// fail maps engine errors onto status codes.
func (h *handler) fail(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, grid.ErrOutOfBounds), errors.Is(err, ErrInvalidTransition):
		code = http.StatusBadRequest
	case errors.Is(err, ErrMatchOver), errors.Is(err, ErrInProgress):
		code = http.StatusConflict
	}
	http.Error(w, err.Error(), code)
}

func (h *handler) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		h.logger.Error("failed to write response", "err", err)
	}
}
