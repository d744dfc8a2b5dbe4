package http

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/fredcamaral/deckforge/internal/domain/entities"
	"github.com/fredcamaral/deckforge/internal/domain/services"
)

const (
	pptxMIME         = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	downloadFilename = "generated_presentation.pptx"

	// multipartMemory is how much of a form is held in memory before spilling to disk
	multipartMemory = 8 << 20
)

//go:embed web/index.html
var indexHTML []byte

// ErrorResponse represents an error response. Detail mirrors Message for
// clients written against the form-based API.
type ErrorResponse struct {
	Error   string    `json:"error"`
	Message string    `json:"message"`
	Detail  string    `json:"detail"`
	Time    time.Time `json:"time"`
}

// OutlineResponse is returned by the outline preview endpoint
type OutlineResponse struct {
	Source entities.OutlineSource `json:"source"`
	Slides entities.Outline       `json:"slides"`
}

// handleRoot returns the API banner
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "Text to PowerPoint Generator API"})
}

// handleHealth reports liveness
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleIndex serves the embedded frontend page
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(indexHTML); err != nil {
		s.logger.Error("Failed to write index page: %v", err)
	}
}

// handleGenerate turns the submitted text and template into a downloadable deck
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r) {
		return
	}

	credential := entities.NewCredential(r.FormValue("api_key"))

	req := services.GenerateRequest{
		Text:       r.FormValue("input_text"),
		Guidance:   r.FormValue("guidance"),
		Provider:   r.FormValue("llm_provider"),
		Credential: credential,
	}

	file, header, err := r.FormFile("template_file")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		s.handleDeckError(w, entities.NewValidationError("template_file is required"), credential)
		return
	case err != nil:
		s.handleDeckError(w, entities.NewValidationError("template_file could not be read"), credential)
		return
	}
	defer func() { _ = file.Close() }()

	req.TemplateName = header.Filename
	req.Template = file

	result, err := s.pipeline.Generate(r.Context(), req)
	if err != nil {
		s.handleDeckError(w, err, credential)
		return
	}
	defer func() {
		if err := result.Release(); err != nil {
			s.logger.Warn("Failed to release workspace: %v", err)
		}
	}()

	s.serveDeck(w, r, result)
}

// serveDeck streams the generated document as an attachment
func (s *Server) serveDeck(w http.ResponseWriter, r *http.Request, result *services.GenerateResult) {
	f, err := os.Open(result.Path) // #nosec G304 - path is produced inside the request workspace
	if err != nil {
		s.handleDeckError(w, entities.NewStorageError("opening generated deck", err), entities.Credential{})
		return
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		s.handleDeckError(w, entities.NewStorageError("reading generated deck", err), entities.Credential{})
		return
	}

	w.Header().Set("Content-Type", pptxMIME)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", downloadFilename))
	w.Header().Set("X-Outline-Source", string(result.Source))

	http.ServeContent(w, r, downloadFilename, info.ModTime(), f)
}

// handleOutline returns the outline a request would produce
func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r) {
		return
	}

	credential := entities.NewCredential(r.FormValue("api_key"))
	req := entities.OutlineRequest{
		Text:       r.FormValue("input_text"),
		Guidance:   r.FormValue("guidance"),
		Provider:   r.FormValue("llm_provider"),
		Credential: credential,
	}

	outline, source, err := s.pipeline.Preview(r.Context(), req)
	if err != nil {
		s.handleDeckError(w, err, credential)
		return
	}

	s.writeJSON(w, http.StatusOK, OutlineResponse{Source: source, Slides: outline})
}

// parseForm bounds the request body and parses multipart or urlencoded forms
func (s *Server) parseForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.GetMaxUploadBytes())

	err := r.ParseMultipartForm(multipartMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err == nil {
		return true
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		s.writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("request exceeds %d bytes", maxErr.Limit))
		return false
	}
	s.writeError(w, http.StatusBadRequest, "invalid form submission")
	return false
}

// handleDeckError maps pipeline errors to status codes. The credential is
// scrubbed from everything that leaves the process.
func (s *Server) handleDeckError(w http.ResponseWriter, err error, credential entities.Credential) {
	description := credential.Scrub(err.Error())

	switch entities.ErrorTypeOf(err) {
	case entities.ErrorTypeValidation:
		var deckErr *entities.DeckError
		message := description
		if errors.As(err, &deckErr) {
			message = credential.Scrub(deckErr.Message)
		}
		s.logger.Debug("Rejected request: %s", message)
		s.writeError(w, http.StatusBadRequest, message)
	case entities.ErrorTypeAssembly:
		s.logger.Error("Deck assembly failed: %s", description)
		s.writeError(w, http.StatusInternalServerError, "Error generating presentation: template could not be processed")
	default:
		s.logger.Error("Deck generation failed: %s", description)
		s.writeError(w, http.StatusInternalServerError, "Error generating presentation: "+description)
	}
}

// writeError writes an ErrorResponse
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Detail:  message,
		Time:    time.Now(),
	})
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("Failed to encode JSON response: %v", err)
	}
}
