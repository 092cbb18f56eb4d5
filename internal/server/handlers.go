package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/deanlockgaard/ArchiveIQ/internal/auth"
	"github.com/deanlockgaard/ArchiveIQ/internal/domain"
)

// LoginRequest is the request body for POST /login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the response body for POST /login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// SearchRequest is the request body for POST /api/search.
type SearchRequest struct {
	Query string `json:"query"`
}

// SearchHit is one ranked result in a SearchResponse.
type SearchHit struct {
	Content    string  `json:"content"`
	Similarity float32 `json:"similarity"`
}

// SearchResponse is the response body for POST /api/search.
type SearchResponse struct {
	Results []SearchHit `json:"results"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

type searchPage struct {
	Query   string
	Results []domain.SearchResult
}

// statusFor maps pipeline error kinds to HTTP status codes. Anything not
// recognized is a server fault.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnsupportedFormat),
		errors.Is(err, domain.ErrEmptyDocument),
		errors.Is(err, domain.ErrEmptyQuery):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) pipelineError(c echo.Context, err error) error {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("pipeline failure", zap.Error(err))
	}
	return c.String(status, err.Error())
}

func (s *Server) handleIndex(c echo.Context) error {
	return c.Render(http.StatusOK, "index.html", nil)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// handleLogin exchanges email/password credentials for a bearer token.
func (s *Server) handleLogin(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ownerID, err := s.creds.Authenticate(req.Email, req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	token, err := s.tokens.Issue(ownerID)
	if err != nil {
		s.logger.Error("issuing token", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "could not issue token")
	}

	return c.JSON(http.StatusOK, LoginResponse{AccessToken: token, TokenType: "bearer"})
}

// handleUpload ingests one multipart document for the authenticated owner.
func (s *Server) handleUpload(c echo.Context) error {
	header, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, `multipart field "file" is required`)
	}
	if header.Size > s.config.MaxUploadBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge,
			fmt.Sprintf("file exceeds the %d byte upload limit", s.config.MaxUploadBytes))
	}

	f, err := header.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not open uploaded file")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, s.config.MaxUploadBytes+1))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not read uploaded file")
	}
	if int64(len(data)) > s.config.MaxUploadBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge,
			fmt.Sprintf("file exceeds the %d byte upload limit", s.config.MaxUploadBytes))
	}

	report, err := s.ingester.Ingest(c.Request().Context(), data, header.Filename, auth.OwnerID(c))
	if err != nil {
		return s.pipelineError(c, err)
	}

	return c.String(http.StatusOK,
		fmt.Sprintf("Stored %q in %d chunks.\n", report.Filename, report.ChunkCount))
}

// handleSearch answers a form query with a rendered HTML result list.
func (s *Server) handleSearch(c echo.Context) error {
	query := c.FormValue("query")

	results, err := s.searcher.Search(c.Request().Context(), query, auth.OwnerID(c))
	if err != nil {
		return s.pipelineError(c, err)
	}

	return c.Render(http.StatusOK, "results.html", searchPage{Query: query, Results: results})
}

// handleAPISearch answers a JSON query, serving the terminal console and
// other programmatic clients.
func (s *Server) handleAPISearch(c echo.Context) error {
	var req SearchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	results, err := s.searcher.Search(c.Request().Context(), req.Query, auth.OwnerID(c))
	if err != nil {
		return s.pipelineError(c, err)
	}

	hits := make([]SearchHit, 0, len(results))
	for _, r := range results {
		hits = append(hits, SearchHit{Content: r.Content, Similarity: r.Similarity})
	}
	return c.JSON(http.StatusOK, SearchResponse{Results: hits})
}
