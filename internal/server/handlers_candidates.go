package server

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/jonathan/blind-hire/internal/recruiting"
	"github.com/jonathan/blind-hire/internal/types"
)

// RevealRequest names the recruiter the identity is disclosed to.
type RevealRequest struct {
	RecruiterID string `json:"recruiter_id"`
}

func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	sortBy, err := recruiting.ParseSortBy(r.URL.Query().Get("sort"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	shortlisted, err := boolParam(r, "shortlisted")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	views, err := s.service.ListAnonymizedCandidates(r.Context(), r.PathValue("id"), recruiting.ListOptions{
		SortBy:          sortBy,
		Query:           strings.TrimSpace(r.URL.Query().Get("q")),
		ShortlistedOnly: shortlisted,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, r, http.StatusOK, views)
}

// handleGetCandidate returns the anonymized view, or the revealed view with ?view=revealed.
func (s *Server) handleGetCandidate(w http.ResponseWriter, r *http.Request) {
	candidateID, jobID := r.PathValue("candidate_id"), r.PathValue("id")

	switch view := r.URL.Query().Get("view"); view {
	case "", "anonymized":
		v, err := s.service.GetAnonymizedCandidate(r.Context(), candidateID, jobID)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		s.jsonResponse(w, r, http.StatusOK, v)
	case "revealed":
		v, err := s.service.GetRevealedCandidate(r.Context(), candidateID, jobID)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		s.jsonResponse(w, r, http.StatusOK, v)
	default:
		s.fail(w, r, &types.ValidationError{Field: "view", Message: "expected anonymized or revealed"})
	}
}

func (s *Server) handleShortlist(w http.ResponseWriter, r *http.Request) {
	app, err := s.service.Shortlist(r.Context(), r.PathValue("candidate_id"), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, r, http.StatusOK, app)
}

func (s *Server) handleUnshortlist(w http.ResponseWriter, r *http.Request) {
	app, err := s.service.Unshortlist(r.Context(), r.PathValue("candidate_id"), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, r, http.StatusOK, app)
}

// handleReveal takes the recruiter from the body, falling back to the X-Recruiter-ID header.
func (s *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req RevealRequest
	// Chunked requests report ContentLength -1 even when empty.
	if len(bytes.TrimSpace(body)) > 0 {
		if err := decodeJSON(body, &req); err != nil {
			s.fail(w, r, err)
			return
		}
	}
	if strings.TrimSpace(req.RecruiterID) == "" {
		req.RecruiterID = r.Header.Get("X-Recruiter-ID")
	}

	view, err := s.service.Reveal(r.Context(), r.PathValue("candidate_id"), r.PathValue("id"), req.RecruiterID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, r, http.StatusOK, view)
}

func (s *Server) handleScheduleInterview(w http.ResponseWriter, r *http.Request) {
	var req types.ScheduleInterviewRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	iv, err := s.service.ScheduleInterview(r.Context(), r.PathValue("candidate_id"), r.PathValue("id"), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, r, http.StatusCreated, iv)
}

// handleSubmitCV creates a candidate. The response is the anonymized view so the
// submitting client never round-trips identity data through this endpoint.
func (s *Server) handleSubmitCV(w http.ResponseWriter, r *http.Request) {
	var req types.SubmitCVRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	rec, err := s.service.SubmitCV(r.Context(), r.PathValue("id"), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, r, http.StatusCreated, candidateResponse(rec))
}

// handleApply opens the lifecycle entry for one candidate and job.
func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	app, err := s.service.Apply(r.Context(), r.PathValue("id"), r.PathValue("job_id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, r, http.StatusCreated, app)
}

func (s *Server) handleUpdateCV(w http.ResponseWriter, r *http.Request) {
	var req types.UpdateCVRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	rec, err := s.service.UpdateCV(r.Context(), r.PathValue("id"), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, r, http.StatusOK, candidateResponse(rec))
}

func (s *Server) handleMatchingJobs(w http.ResponseWriter, r *http.Request) {
	filter, err := jobFilter(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	matches, err := s.service.MatchingJobs(r.Context(), r.PathValue("id"), filter)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, r, http.StatusOK, matches)
}

// CandidateResponse acknowledges a CV write without echoing identity fields.
type CandidateResponse struct {
	CandidateID string        `json:"candidate_id"`
	Skills      []types.Skill `json:"skills"`
	Experience  int           `json:"experience_entries"`
	Education   int           `json:"education_entries"`
}

func candidateResponse(rec *types.CandidateRecord) CandidateResponse {
	return CandidateResponse{
		CandidateID: rec.CandidateID,
		Skills:      rec.Skills,
		Experience:  len(rec.Experience),
		Education:   len(rec.Education),
	}
}
