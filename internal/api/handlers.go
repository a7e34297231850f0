package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mattjoyce/simdeck/internal/action"
	"github.com/mattjoyce/simdeck/internal/device"
	"github.com/mattjoyce/simdeck/internal/events"
	"github.com/mattjoyce/simdeck/internal/runner"
)

const maxActionBody = 1 << 20

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	active := len(s.targets)
	s.mu.Unlock()

	respondJSON(w, http.StatusOK, HealthzResponse{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(s.startedAt).Seconds()),
		ActiveTargets: active,
	})
}

func (s *Server) handleListActions(w http.ResponseWriter, r *http.Request) {
	tags := action.Tags()
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t == action.TagCustom {
			continue
		}
		out = append(out, string(t))
	}
	respondJSON(w, http.StatusOK, map[string][]string{"actions": out})
}

// handleAction decodes one action, runs it against the target in the path and
// returns its Result.
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	udid := chi.URLParam(r, "udid")
	reqID := getRequestID(r.Context())
	logger := s.logger.With("request_id", reqID, "udid", udid)

	var req ActionRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxActionBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if action.Tag(req.Action) == action.TagCustom {
		s.writeError(w, r, http.StatusBadRequest, "custom actions cannot be sent over HTTP")
		return
	}

	a, err := action.FromParams(req.Action, req.Params)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	target, err := s.lookup(r.Context(), udid)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, device.ErrNotFound) {
			status = http.StatusNotFound
		}
		s.writeError(w, r, status, err.Error())
		return
	}

	m := s.targetMutex(udid)
	m.Lock()
	defer m.Unlock()

	c := s.base.WithReporter(events.NewReporter(s.hub)).WithLogger(logger)
	res := s.executor.Execute(r.Context(), a, target, c)

	respondJSON(w, statusFor(res), ActionResponse{
		RequestID: reqID,
		Action:    req.Action,
		Target:    udid,
		OK:        res.OK(),
		Kind:      res.Kind,
		Message:   res.Message,
		Subject:   res.Subject,
	})
}

func statusFor(res runner.Result) int {
	if res.OK() {
		return http.StatusOK
	}
	switch res.Kind {
	case runner.KindMissing:
		return http.StatusNotFound
	case runner.KindUnimplemented:
		return http.StatusNotImplemented
	default:
		return http.StatusBadGateway
	}
}

func respondJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, statusCode int, message string) {
	respondJSON(w, statusCode, ErrorResponse{Error: message, RequestID: getRequestID(r.Context())})
}
