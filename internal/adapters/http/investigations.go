package httpadapter

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"whohub/internal/domain"
	"whohub/internal/ports"
	"whohub/internal/workers/pipeline"
)

const defaultWaitTimeout = 60 * time.Second

type createInvestigationRequest struct {
	Type           string `json:"investigation_type"`
	TargetName     string `json:"target_name"`
	TargetEmail    string `json:"target_email"`
	TargetPhone    string `json:"target_phone"`
	DatingPlatform string `json:"dating_platform"`
	AdditionalInfo string `json:"additional_info"`
	AcceptedTerms  bool   `json:"accepted_terms"`
}

func (s *Server) handleCreateInvestigation(w http.ResponseWriter, r *http.Request) {
	var req createInvestigationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, domain.NewValidationError("body", "invalid JSON"))
		return
	}
	inv, err := s.investigations.Create(r.Context(), ports.CreateInvestigationInput{
		Type:           domain.InvestigationType(req.Type),
		TargetName:     req.TargetName,
		TargetEmail:    req.TargetEmail,
		TargetPhone:    req.TargetPhone,
		DatingPlatform: req.DatingPlatform,
		AdditionalInfo: req.AdditionalInfo,
		AcceptedTerms:  req.AcceptedTerms,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toInvestigationJSON(inv))
}

func (s *Server) handleListInvestigations(w http.ResponseWriter, r *http.Request) {
	list, err := s.investigations.ListRecent(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]investigationJSON, 0, len(list))
	for _, inv := range list {
		out = append(out, toInvestigationJSON(inv))
	}
	writeJSON(w, http.StatusOK, map[string]any{"investigations": out})
}

func (s *Server) handleGetInvestigation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	detail, err := s.investigations.Detail(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDetailJSON(detail))
}

// handleStartInvestigation triggers the pipeline. With ?wait=true the request
// blocks until processing finishes, reusing the exact worker code path.
func (s *Server) handleStartInvestigation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.investigations.Start(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}

	if r.URL.Query().Get("wait") == "true" {
		timeout := defaultWaitTimeout
		if raw := r.URL.Query().Get("timeout"); raw != "" {
			if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
				timeout = time.Duration(secs) * time.Second
			}
		}
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()
		if err := pipeline.ProcessInline(ctx, s.jobs, s.processor, id); err != nil {
			s.writeError(w, err)
			return
		}
		detail, err := s.investigations.Detail(ctx, id)
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toDetailJSON(detail))
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{"investigation_id": id, "status": "processing"})
}

func (s *Server) handleDeleteInvestigation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.investigations.Delete(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}
