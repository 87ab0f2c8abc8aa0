package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/hikinghacker/resume-improvement-api/internal/pipeline"
	"github.com/hikinghacker/resume-improvement-api/internal/records"
)

// ImproveRequest is the request body for /api/v1/improve.
type ImproveRequest struct {
	ResumeText string `json:"resume_text" validate:"required,min=1"`
}

// ImproveResponse is the response for /api/v1/improve.
type ImproveResponse struct {
	RequestID    string              `json:"request_id"`
	RunID        string              `json:"run_id"`
	Outcome      string              `json:"outcome"`
	BulletPoints []records.JobRecord `json:"bullet_points"`
	Flattened    []string            `json:"flattened,omitempty"`
}

// BatchRequest is the request body for /api/v1/improve/batch.
type BatchRequest struct {
	Sections []string `json:"sections" validate:"required,min=1,dive,required"`
}

// BatchResponse is the response for /api/v1/improve/batch.
type BatchResponse struct {
	RequestID string            `json:"request_id"`
	Results   []ImproveResponse `json:"results"`
}

// handleImprove runs one resume text through the pipeline.
func (s *Server) handleImprove(w http.ResponseWriter, r *http.Request) {
	var req ImproveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := validator.New().Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "resume_text is required")
		return
	}

	result, err := s.pipeline.Run(r.Context(), pipeline.Inputs{ResumeText: req.ResumeText})
	if err != nil {
		log.Printf("improve request %s failed: %v", requestID(r.Context()), err)
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, improveResponse(r, result))
}

// handleImproveBatch improves several resume sections in one request.
func (s *Server) handleImproveBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := validator.New().Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "sections must be a non-empty list of non-empty strings")
		return
	}

	inputs := make([]pipeline.Inputs, len(req.Sections))
	for i, section := range req.Sections {
		inputs[i] = pipeline.Inputs{ResumeText: section}
	}

	results, err := s.pipeline.RunBatch(r.Context(), inputs)
	if err != nil {
		log.Printf("batch request %s failed: %v", requestID(r.Context()), err)
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	resp := BatchResponse{RequestID: requestID(r.Context())}
	for _, result := range results {
		resp.Results = append(resp.Results, improveResponse(r, result))
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func improveResponse(r *http.Request, result *pipeline.Result) ImproveResponse {
	return ImproveResponse{
		RequestID:    requestID(r.Context()),
		RunID:        result.RunID.String(),
		Outcome:      string(result.Outcome),
		BulletPoints: result.Dataset.BulletPoints,
		Flattened:    result.Flattened,
	}
}
