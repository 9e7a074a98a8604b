package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/jonathan/blind-hire/internal/types"
)

const maxBodyBytes = 1 << 20

// readBody reads a bounded request body.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, &RequestError{Message: fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)}
		}
		return nil, &RequestError{Message: "failed to read request body", Cause: err}
	}
	return body, nil
}

// decodeBody reads a JSON object into v, rejecting unknown fields.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}
	return decodeJSON(body, v)
}

func decodeJSON(body []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &RequestError{Message: "invalid request body", Cause: err}
	}
	return nil
}

// jobFilter builds a JobFilter from status, experience_level and q query parameters.
func jobFilter(r *http.Request) (types.JobFilter, error) {
	q := r.URL.Query()
	filter := types.JobFilter{Query: strings.TrimSpace(q.Get("q"))}

	switch status := types.JobStatus(strings.ToLower(q.Get("status"))); status {
	case "", types.JobActive, types.JobClosed:
		filter.Status = status
	default:
		return filter, &types.ValidationError{Field: "status", Message: fmt.Sprintf("unknown job status %q", q.Get("status"))}
	}

	if raw := q.Get("experience_level"); raw != "" {
		level, err := types.ParseExperienceLevel(raw)
		if err != nil {
			return filter, &types.ValidationError{Field: "experience_level", Message: err.Error()}
		}
		filter.ExperienceLevel = level
	}
	return filter, nil
}

// boolParam parses an optional boolean query parameter.
func boolParam(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, &types.ValidationError{Field: name, Message: fmt.Sprintf("expected a boolean, got %q", raw)}
	}
	return b, nil
}
