package server

import (
	"encoding/json"
	"net/http"

	embedded "github.com/jonathan/blind-hire/schemas"

	"github.com/jonathan/blind-hire/internal/schemas"
	"github.com/jonathan/blind-hire/internal/types"
)

// UpdateSkillsRequest replaces a job's required skills.
type UpdateSkillsRequest struct {
	RequiredSkills []types.Skill `json:"required_skills"`
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	filter, err := jobFilter(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	jobs, err := s.service.ListJobs(r.Context(), filter)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, r, http.StatusOK, jobs)
}

// handlePostJob checks the body against the job schema before decoding it.
func (s *Server) handlePostJob(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := schemas.Validate(embedded.Job, body); err != nil {
		s.fail(w, r, asRequestError(err))
		return
	}

	// the schema already rejects unknown fields; id and status are accepted and ignored
	var req types.PostJobRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.fail(w, r, &RequestError{Message: "invalid request body", Cause: err})
		return
	}
	job, err := s.service.PostJob(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, r, http.StatusCreated, job)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.service.GetJob(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, r, http.StatusOK, job)
}

func (s *Server) handleUpdateJobSkills(w http.ResponseWriter, r *http.Request) {
	var req UpdateSkillsRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	job, err := s.service.UpdateJobSkills(r.Context(), r.PathValue("id"), req.RequiredSkills)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, r, http.StatusOK, job)
}

func (s *Server) handleCloseJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.service.CloseJob(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, r, http.StatusOK, job)
}

func (s *Server) handleListInterviews(w http.ResponseWriter, r *http.Request) {
	interviews, err := s.service.ListInterviews(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, r, http.StatusOK, interviews)
}

// asRequestError wraps a schema parse failure so it maps to 400. Schema
// violations and load errors pass through unchanged.
func asRequestError(err error) error {
	switch err.(type) {
	case *schemas.ValidationError, *schemas.SchemaLoadError:
		return err
	default:
		return &RequestError{Message: "invalid request body", Cause: err}
	}
}
