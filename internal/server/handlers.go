package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/jonathan/resume-insight/internal/cache"
	"github.com/jonathan/resume-insight/internal/pipeline"
	"github.com/jonathan/resume-insight/internal/skills"
	"github.com/jonathan/resume-insight/internal/types"
)

// maxUploadBytes caps resume upload size.
const maxUploadBytes = 10 << 20

// decodeDocument reads the uploaded resume from either a multipart form
// (field "resume", optional field "format") or a JSON body with
// base64-encoded content.
func decodeDocument(w http.ResponseWriter, r *http.Request) (types.ResumeDocument, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		return decodeMultipart(r)
	}

	var req types.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return types.ResumeDocument{}, fmt.Errorf("invalid request body: %w", err)
	}
	if err := req.Validate(); err != nil {
		return types.ResumeDocument{}, err
	}

	content, err := base64.StdEncoding.DecodeString(req.Content)
	if err != nil {
		return types.ResumeDocument{}, fmt.Errorf("invalid base64 content: %w", err)
	}

	return types.ResumeDocument{
		FileName: req.FileName,
		Format:   types.DocumentFormat(req.Format),
		Content:  content,
	}, nil
}

func decodeMultipart(r *http.Request) (types.ResumeDocument, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return types.ResumeDocument{}, fmt.Errorf("invalid multipart form: %w", err)
	}

	file, header, err := r.FormFile("resume")
	if err != nil {
		return types.ResumeDocument{}, fmt.Errorf("missing resume file: %w", err)
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(file)
	if err != nil {
		return types.ResumeDocument{}, fmt.Errorf("failed to read upload: %w", err)
	}

	format := r.FormValue("format")
	if format == "" {
		// Fall back to the file extension
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(header.Filename)), ".")
	}
	if format != string(types.FormatPDF) && format != string(types.FormatDOCX) {
		return types.ResumeDocument{}, fmt.Errorf("unsupported format %q, expected pdf or docx", format)
	}

	return types.ResumeDocument{
		FileName: header.Filename,
		Format:   types.DocumentFormat(format),
		Content:  content,
	}, nil
}

// handleAnalyze runs the cache-fronted pipeline and returns the full
// result. An ingest failure maps to 422 with the marked result in the
// body; a failed cache write is logged and the result still returned.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	doc, err := decodeDocument(w, r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.analyzer.Analyze(r.Context(), pipeline.AnalyzeOptions{Document: doc})
	switch {
	case err == nil:
		s.jsonResponse(w, http.StatusOK, result)
	case errors.Is(err, cache.ErrCacheWrite):
		s.log.Warn().Err(err).Msg("analysis completed but cache write failed")
		s.jsonResponse(w, http.StatusOK, result)
	case result != nil:
		s.jsonResponse(w, http.StatusUnprocessableEntity, result)
	default:
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
	}
}

// handleAnalyzeStream runs the pipeline while streaming stage events and
// model output fragments as SSE. Cache hits replay the stored output.
func (s *Server) handleAnalyzeStream(w http.ResponseWriter, r *http.Request) {
	doc, err := decodeDocument(w, r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	stream, err := newAnalysisStream(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	opts := pipeline.AnalyzeOptions{
		Document:        doc,
		ReplayFragments: true,
		OnProgress:      stream.Stage,
		OnFragment:      stream.Fragment,
	}

	result, err := s.analyzer.Analyze(r.Context(), opts)
	if err != nil && !errors.Is(err, cache.ErrCacheWrite) && result == nil {
		stream.Fail(err.Error())
		return
	}
	if errors.Is(err, cache.ErrCacheWrite) {
		s.log.Warn().Err(err).Msg("analysis completed but cache write failed")
	}

	stream.Finish(result)
}

// handleSkillGap aggregates postings for the requested role and compares
// them against the supplied resume skills.
func (s *Server) handleSkillGap(w http.ResponseWriter, r *http.Request) {
	var req types.SkillGapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	country := req.Country
	if country == "" {
		country = "us"
	}

	postings, err := s.aggregator.Search(r.Context(), types.SearchQuery{
		Role:    req.Role,
		Country: country,
	})
	if err != nil {
		s.errorResponse(w, http.StatusBadGateway, err.Error())
		return
	}

	report := skills.Analyze(req.ResumeSkills, postings, req.Role)
	s.jsonResponse(w, http.StatusOK, report)
}

// handleCacheStats returns aggregate cache statistics.
func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.analyzer.Stats(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, stats)
}

// handleCacheClear removes all cached analyses.
func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	cleared, err := s.analyzer.ClearCache(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]int64{"cleared": cleared})
}

// handleToken exchanges the admin password for a bearer token.
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if s.jwtService == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "authentication is not enabled")
		return
	}

	var req types.TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if !s.authConfig.VerifyPassword(req.Password) {
		s.errorResponse(w, http.StatusUnauthorized, "invalid password")
		return
	}

	token, err := s.jwtService.GenerateToken()
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"token": token})
}
