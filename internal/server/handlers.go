package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/diogo/careerpilot/internal/advisor"
	"github.com/diogo/careerpilot/internal/models"
	"github.com/diogo/careerpilot/internal/pdf"
)

// Error details returned to clients
const (
	msgModelUnavailable = "Failed to reach the AI model."
	msgRenderFailed     = "Failed to render PDF."
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]string{
		"status":        "ok",
		"model":         s.advisor.Model(),
		"profile_store": s.advisor.Storage(),
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if !s.decode(w, r, &req) {
		return
	}

	resp, err := s.advisor.Chat(r.Context(), req.ChatHistory)
	if err != nil {
		s.logger.Error("chat failed", "error", err, "request_id", requestID(r))
		Error(w, http.StatusBadGateway, msgModelUnavailable)
		return
	}
	JSON(w, http.StatusOK, resp)
}

func (s *Server) handleGenerate(kind models.DocumentKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.JobRequest
		if !s.decode(w, r, &req) {
			return
		}

		content, err := s.advisor.Generate(r.Context(), kind, req.JobDescription)
		switch {
		case err == nil:
			JSON(w, http.StatusOK, models.DocumentResponse{Content: content})
		case errors.Is(err, advisor.ErrProfileIncomplete):
			Error(w, http.StatusBadRequest, advisor.MsgIncomplete)
		case errors.Is(err, advisor.ErrEmptyJobDescription):
			Error(w, http.StatusUnprocessableEntity, err.Error())
		default:
			s.logger.Error("generation failed", "kind", kind, "error", err, "request_id", requestID(r))
			Error(w, http.StatusInternalServerError, advisor.MsgGenerateError)
		}
	}
}

func (s *Server) handlePDF(w http.ResponseWriter, r *http.Request) {
	var req models.PDFRequest
	if !s.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		Error(w, http.StatusUnprocessableEntity, "text is required")
		return
	}
	if s.renderer == nil {
		Error(w, http.StatusServiceUnavailable, msgRenderFailed)
		return
	}

	data, err := s.renderer.Render(r.Context(), req.Text)
	if err != nil {
		if errors.Is(err, pdf.ErrEmptyText) {
			Error(w, http.StatusUnprocessableEntity, "text is required")
			return
		}
		s.logger.Error("pdf rendering failed", "error", err, "request_id", requestID(r))
		Error(w, http.StatusInternalServerError, msgRenderFailed)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment;filename="+models.PDFDownloadName)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.advisor.Profile(r.Context())
	if err != nil {
		s.logger.Error("profile load failed", "error", err, "request_id", requestID(r))
		Error(w, http.StatusInternalServerError, "Failed to load profile.")
		return
	}
	JSON(w, http.StatusOK, map[string]any{
		"profile":  p,
		"complete": p.IsComplete(),
		"missing":  p.Missing(),
	})
}
