package api

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/getsitespark/sitespark/internal/fetcher"
	"github.com/getsitespark/sitespark/internal/microsite"
	"github.com/getsitespark/sitespark/internal/socialproof"
	"github.com/getsitespark/sitespark/internal/telemetry"
)

const socialProofCount = 3

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type createMicrositeRequest struct {
	URL string `json:"url"`
}

func (s *Server) createMicrosite(w http.ResponseWriter, r *http.Request) {
	var req createMicrositeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(s.logger, w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		writeError(s.logger, w, http.StatusBadRequest, "url is required")
		return
	}
	// Validate before the pipeline runs so a bad URL has no side effects.
	if _, _, err := fetcher.NormalizeURL(req.URL); err != nil {
		writeError(s.logger, w, http.StatusBadRequest, "invalid url")
		return
	}

	created, err := s.generator.Generate(r.Context(), req.URL)
	if err != nil {
		s.logger.Error("microsite generation failed", zap.String("url", req.URL), zap.Error(err))
		writeError(s.logger, w, http.StatusInternalServerError, "generation failed")
		return
	}
	writeJSON(s.logger, w, http.StatusCreated, map[string]any{
		"microsite": created,
		"view_url":  s.viewURL(created.Slug),
	})
}

func (s *Server) listMicrosites(w http.ResponseWriter, r *http.Request) {
	sites, err := s.store.ListMicrosites(r.Context())
	if err != nil {
		writeError(s.logger, w, http.StatusInternalServerError, "list failed")
		return
	}
	writeJSON(s.logger, w, http.StatusOK, map[string]any{"microsites": sites})
}

func (s *Server) getMicrosite(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "microsite_id")
	m, err := s.store.GetMicrositeByID(r.Context(), id)
	if err != nil {
		writeError(s.logger, w, http.StatusInternalServerError, "lookup failed")
		return
	}
	if m == nil {
		writeError(s.logger, w, http.StatusNotFound, "microsite not found")
		return
	}
	writeJSON(s.logger, w, http.StatusOK, map[string]any{"microsite": m})
}

// getMicrositePage serves the payload the public page is rendered from,
// including the social-proof customer logos.
func (s *Server) getMicrositePage(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	m, err := s.store.GetMicrositeBySlug(r.Context(), slug)
	if err != nil {
		writeError(s.logger, w, http.StatusInternalServerError, "lookup failed")
		return
	}
	if m == nil {
		writeError(s.logger, w, http.StatusNotFound, "microsite not found")
		return
	}
	proof := socialproof.Select(m.TargetIndustry, m.TargetSize, "", socialProofCount)
	writeJSON(s.logger, w, http.StatusOK, map[string]any{
		"microsite":    m,
		"social_proof": proof,
	})
}

func (s *Server) updateMicrosite(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "microsite_id")
	var patch microsite.MicrositePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(s.logger, w, http.StatusBadRequest, "invalid JSON")
		return
	}
	updated, err := s.store.UpdateMicrosite(r.Context(), id, patch)
	if err != nil {
		writeError(s.logger, w, http.StatusInternalServerError, "update failed")
		return
	}
	if updated == nil {
		writeError(s.logger, w, http.StatusNotFound, "microsite not found")
		return
	}
	writeJSON(s.logger, w, http.StatusOK, map[string]any{"microsite": updated})
}

// deleteMicrosite acknowledges without deleting; records are never removed.
func (s *Server) deleteMicrosite(w http.ResponseWriter, r *http.Request) {
	writeJSON(s.logger, w, http.StatusOK, map[string]string{
		"id":     chi.URLParam(r, "microsite_id"),
		"status": "ok",
	})
}

func (s *Server) getAnalytics(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "microsite_id")
	m, err := s.store.GetMicrositeByID(r.Context(), id)
	if err != nil {
		writeError(s.logger, w, http.StatusInternalServerError, "lookup failed")
		return
	}
	if m == nil {
		writeError(s.logger, w, http.StatusNotFound, "microsite not found")
		return
	}
	leads, err := s.store.ListLeads(r.Context(), id)
	if err != nil {
		writeError(s.logger, w, http.StatusInternalServerError, "lead count failed")
		return
	}
	writeJSON(s.logger, w, http.StatusOK, map[string]any{
		"microsite_id":    m.ID,
		"views":           m.Views,
		"unique_visitors": m.UniqueVisitors,
		"leads":           len(leads),
	})
}

type createLeadRequest struct {
	MicrositeID string `json:"microsite_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	JobTitle    string `json:"job_title"`
	Message     string `json:"message"`
}

func (req createLeadRequest) validate() string {
	switch {
	case strings.TrimSpace(req.MicrositeID) == "":
		return "microsite_id is required"
	case strings.TrimSpace(req.FirstName) == "":
		return "first_name is required"
	case strings.TrimSpace(req.LastName) == "":
		return "last_name is required"
	case strings.TrimSpace(req.Email) == "":
		return "email is required"
	case !emailPattern.MatchString(req.Email):
		return "email is not valid"
	default:
		return ""
	}
}

func (s *Server) createLead(w http.ResponseWriter, r *http.Request) {
	var req createLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(s.logger, w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(s.logger, w, http.StatusBadRequest, msg)
		return
	}

	id, err := s.idGen.NewID()
	if err != nil {
		writeError(s.logger, w, http.StatusInternalServerError, "id generation failed")
		return
	}
	lead := microsite.Lead{
		ID:          id,
		MicrositeID: req.MicrositeID,
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		Email:       strings.TrimSpace(req.Email),
		Phone:       strings.TrimSpace(req.Phone),
		JobTitle:    strings.TrimSpace(req.JobTitle),
		Message:     strings.TrimSpace(req.Message),
		Status:      microsite.LeadStatusNew,
		CreatedAt:   s.clock.Now(),
	}
	created, err := s.store.CreateLead(r.Context(), lead)
	if err != nil {
		writeError(s.logger, w, http.StatusInternalServerError, "save failed")
		return
	}
	telemetry.ObserveLead()
	writeJSON(s.logger, w, http.StatusCreated, map[string]any{"lead": created})
}

func (s *Server) listLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := s.store.ListLeads(r.Context(), r.URL.Query().Get("microsite_id"))
	if err != nil {
		writeError(s.logger, w, http.StatusInternalServerError, "list failed")
		return
	}
	writeJSON(s.logger, w, http.StatusOK, map[string]any{"leads": leads})
}

type leadStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) updateLeadStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "lead_id")
	var req leadStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(s.logger, w, http.StatusBadRequest, "invalid JSON")
		return
	}
	status := microsite.LeadStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	if !microsite.ValidLeadStatus(status) {
		writeError(s.logger, w, http.StatusBadRequest, "unknown lead status")
		return
	}
	updated, err := s.store.UpdateLeadStatus(r.Context(), id, status)
	if err != nil {
		writeError(s.logger, w, http.StatusInternalServerError, "update failed")
		return
	}
	if updated == nil {
		writeError(s.logger, w, http.StatusNotFound, "lead not found")
		return
	}
	writeJSON(s.logger, w, http.StatusOK, map[string]any{"lead": updated})
}

type trackRequest struct {
	MicrositeID string `json:"microsite_id"`
	Event       string `json:"event"`
	VisitorID   string `json:"visitor_id"`
}

// trackEvent records a pageview against a microsite. The first sighting of a
// visitor counts as unique; later sightings only bump totals. Events other
// than "pageview" are acknowledged without touching counters.
func (s *Server) trackEvent(w http.ResponseWriter, r *http.Request) {
	var req trackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(s.logger, w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if strings.TrimSpace(req.MicrositeID) == "" || strings.TrimSpace(req.Event) == "" {
		writeError(s.logger, w, http.StatusBadRequest, "microsite_id and event are required")
		return
	}

	m, err := s.store.GetMicrositeByID(r.Context(), req.MicrositeID)
	if err != nil {
		writeError(s.logger, w, http.StatusInternalServerError, "lookup failed")
		return
	}
	if m == nil {
		writeError(s.logger, w, http.StatusNotFound, "microsite not found")
		return
	}

	if req.Event != "pageview" {
		writeJSON(s.logger, w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	visitorID := strings.TrimSpace(req.VisitorID)
	if visitorID == "" {
		visitorID, err = s.idGen.NewID()
		if err != nil {
			writeError(s.logger, w, http.StatusInternalServerError, "id generation failed")
			return
		}
	}

	visit, err := s.store.GetVisitByVisitor(r.Context(), req.MicrositeID, visitorID)
	if err != nil {
		writeError(s.logger, w, http.StatusInternalServerError, "visit lookup failed")
		return
	}

	unique := visit == nil
	if unique {
		visitID, idErr := s.idGen.NewID()
		if idErr != nil {
			writeError(s.logger, w, http.StatusInternalServerError, "id generation failed")
			return
		}
		now := s.clock.Now()
		_, err = s.store.CreateVisit(r.Context(), microsite.Visit{
			ID:          visitID,
			MicrositeID: req.MicrositeID,
			VisitorID:   visitorID,
			PageViews:   1,
			FirstSeen:   now,
			LastSeen:    now,
		})
	} else {
		err = s.store.IncrementPageViews(r.Context(), visit.ID)
	}
	if err != nil {
		writeError(s.logger, w, http.StatusInternalServerError, "visit update failed")
		return
	}

	if err := s.store.IncrementViews(r.Context(), req.MicrositeID, unique); err != nil {
		writeError(s.logger, w, http.StatusInternalServerError, "counter update failed")
		return
	}
	telemetry.ObservePageview(unique)
	writeJSON(s.logger, w, http.StatusOK, map[string]any{
		"status":     "ok",
		"visitor_id": visitorID,
		"unique":     unique,
	})
}

type settingsResponse struct {
	LLMConfigured bool `json:"llm_configured"`
	SetupComplete bool `json:"setup_complete"`
}

// getSettings reports configuration state; the API key itself is never
// echoed back.
func (s *Server) getSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.store.GetSettings(r.Context())
	if err != nil {
		writeError(s.logger, w, http.StatusInternalServerError, "read failed")
		return
	}
	writeJSON(s.logger, w, http.StatusOK, settingsResponse{
		LLMConfigured: settings.OpenAIAPIKey != "",
		SetupComplete: settings.SetupComplete,
	})
}

func (s *Server) putSettings(w http.ResponseWriter, r *http.Request) {
	var patch microsite.SettingsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(s.logger, w, http.StatusBadRequest, "invalid JSON")
		return
	}
	saved, err := s.store.SaveSettings(r.Context(), patch)
	if err != nil {
		writeError(s.logger, w, http.StatusInternalServerError, "save failed")
		return
	}
	writeJSON(s.logger, w, http.StatusOK, settingsResponse{
		LLMConfigured: saved.OpenAIAPIKey != "",
		SetupComplete: saved.SetupComplete,
	})
}
