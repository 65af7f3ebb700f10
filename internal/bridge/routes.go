package bridge

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type setRequest struct {
	Value any `json:"value"`
}

// Routes mounts the websocket endpoint and the JSON API over the hub's objects:
//
//	GET  /ws
//	GET  /api/objects
//	GET  /api/objects/{object}/properties
//	PUT  /api/objects/{object}/properties/{name}
//	GET  /api/objects/{object}/graph
//	POST /api/objects/{object}/commands/{name}
func Routes(h *Hub) http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(accessLog(h.logger, "/ws"))
	r.Use(middleware.Recoverer)

	r.Get("/ws", h.HandleWebSocket)

	r.Route("/api/objects", func(r chi.Router) {
		r.Get("/", h.listObjects)
		r.Route("/{object}", func(r chi.Router) {
			r.Get("/properties", h.getProperties)
			r.Put("/properties/{name}", h.setProperty)
			r.Get("/graph", h.getGraph)
			r.Post("/commands/{name}", h.executeCommand)
		})
	})

	return r
}

func (h *Hub) listObjects(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"objects": h.Objects()})
}

func (h *Hub) getProperties(w http.ResponseWriter, r *http.Request) {
	t, ok := h.Lookup(chi.URLParam(r, "object"))
	if !ok {
		writeError(w, ErrUnknownObject)
		return
	}

	var snap Snapshot
	err := h.invoker.Invoke(r.Context(), func() error {
		snap = TakeSnapshot(t)
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *Hub) setProperty(w http.ResponseWriter, r *http.Request) {
	var req setRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: err.Error()})
		return
	}

	err := h.Apply(r.Context(), Message{
		Type:   MessageSet,
		Object: chi.URLParam(r, "object"),
		Name:   chi.URLParam(r, "name"),
		Value:  req.Value,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Hub) getGraph(w http.ResponseWriter, r *http.Request) {
	t, ok := h.Lookup(chi.URLParam(r, "object"))
	if !ok {
		writeError(w, ErrUnknownObject)
		return
	}
	// Metadata is immutable once built.
	writeJSON(w, http.StatusOK, DescribeGraph(t.Metadata()))
}

func (h *Hub) executeCommand(w http.ResponseWriter, r *http.Request) {
	err := h.Apply(r.Context(), Message{
		Type:   MessageExecute,
		Object: chi.URLParam(r, "object"),
		Name:   chi.URLParam(r, "name"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func writeError(w http.ResponseWriter, err error) {
	status, code := http.StatusInternalServerError, "internal_error"
	switch {
	case errors.Is(err, ErrUnknownObject), errors.Is(err, ErrUnknownProperty), errors.Is(err, ErrUnknownCommand):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, ErrCannotExecute):
		status, code = http.StatusConflict, "cannot_execute"
	case errors.Is(err, ErrReadOnlyProperty):
		status, code = http.StatusMethodNotAllowed, "read_only"
	case errors.As(err, new(*ValueError)):
		status, code = http.StatusUnprocessableEntity, "invalid_value"
	}
	writeJSON(w, status, ErrorResponse{Error: code, Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
