package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/blind-hire/internal/audit"
	"github.com/jonathan/blind-hire/internal/types"
)

// VerifyResponse reports the state of the reveal audit chain.
type VerifyResponse struct {
	Valid   bool   `json:"valid"`
	Events  int    `json:"events"`
	Index   int    `json:"broken_at,omitempty"`
	EventID string `json:"event_id,omitempty"`
	Message string `json:"message,omitempty"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.service.Stats(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, r, http.StatusOK, stats)
}

// handleRevealEvents lists the audit trail, filtered by candidate_id, job_id and recruiter_id.
func (s *Server) handleRevealEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	events, err := s.service.RevealEvents(r.Context(), types.RevealEventFilter{
		CandidateID: q.Get("candidate_id"),
		JobID:       q.Get("job_id"),
		RecruiterID: q.Get("recruiter_id"),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if events == nil {
		events = []types.RevealEvent{}
	}
	s.jsonResponse(w, r, http.StatusOK, events)
}

func (s *Server) handleVerifyAudit(w http.ResponseWriter, r *http.Request) {
	events, err := s.service.RevealEvents(r.Context(), types.RevealEventFilter{})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	resp := VerifyResponse{Valid: true, Events: len(events)}
	if err := audit.Verify(events); err != nil {
		var chainErr *audit.ChainError
		if !errors.As(err, &chainErr) {
			s.fail(w, r, err)
			return
		}
		resp.Valid = false
		resp.Index = chainErr.Index
		resp.EventID = chainErr.EventID
		resp.Message = chainErr.Message
	}
	s.jsonResponse(w, r, http.StatusOK, resp)
}
