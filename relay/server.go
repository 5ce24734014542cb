package relay

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Server serves the relay HTTP API on a Store.
type Server struct {
	store Store
	log   *slog.Logger
	now   func() time.Time
}

// NewServer returns a relay server.
func NewServer(store Store, log *slog.Logger) *Server {
	return &Server{store: store, log: log, now: time.Now}
}

// Routes registers the relay API on r.
//
//	POST   /sessions
//	GET    /sessions/{id}
//	POST   /sessions/{id}/join
//	POST   /sessions/{id}/{identities|commitments|shares}
//	DELETE /sessions/{id}
//
// DELETE carries {identity} and means that participant is done with the
// session; it is removed once every participant has said so.
func (s *Server) Routes(r chi.Router) {
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleStart)
		r.Get("/{id}", s.handleStatus)
		r.Delete("/{id}", s.handleEnd)
		r.Post("/{id}/join", s.handleJoin)
		r.Post("/{id}/{kind}", s.handleSubmit)
	})
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		s.writeError(w, err)
		return
	}

	st := &Status{
		ID:                  uuid.NewString(),
		NumSigners:          req.NumSigners,
		UnsignedTransaction: req.UnsignedTransaction,
		Identities:          []string{},
		Commitments:         []string{},
		SignatureShares:     []string{},
		CreatedAt:           s.now().UTC(),
	}
	if err := s.store.Create(r.Context(), st); err != nil {
		s.writeError(w, err)
		return
	}

	s.log.Info("Session started", "session", st.ID, "numSigners", st.NumSigners)
	writeJSON(w, http.StatusCreated, st)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	st, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.log.Info("Participant joined", "session", st.ID)
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	kind := Kind(chi.URLParam(r, "kind"))
	if !kind.Valid() {
		http.NotFound(w, r)
		return
	}
	var req SubmitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Value == "" {
		s.writeError(w, errors.Wrap(ErrInvalidRequest, "value is required"))
		return
	}

	id := chi.URLParam(r, "id")
	st, err := s.store.Append(r.Context(), id, kind, req.Value)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.log.Debug("Value submitted", "session", id, "round", kind, "have", len(st.Values(kind)), "want", st.NumSigners)
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleEnd(w http.ResponseWriter, r *http.Request) {
	var req FinishRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	id := chi.URLParam(r, "id")
	if err := s.store.Finish(r.Context(), id, req.Identity); err != nil {
		s.writeError(w, err)
		return
	}
	s.log.Info("Participant finished", "session", id)
	w.WriteHeader(http.StatusNoContent)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(ErrInvalidRequest, err.Error())
	}
	return nil
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrSessionFull):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := statusCode(err)
	if code == http.StatusInternalServerError {
		s.log.Error("Relay request failed", "err", err)
	}
	writeJSON(w, code, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
