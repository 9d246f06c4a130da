package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"go.uber.org/zap"

	"github.com/kailas-cloud/schemedex/internal/domain"
	"github.com/kailas-cloud/schemedex/internal/logger"
	"github.com/kailas-cloud/schemedex/internal/metrics"
	"github.com/kailas-cloud/schemedex/internal/redact"
	cataloguc "github.com/kailas-cloud/schemedex/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/schemedex/internal/usecase/health"
)

// NoResultsMessage is shown for a search that matches nothing.
const NoResultsMessage = "No results found."

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the JSON API and the HTML page.
type Server struct {
	catalog       *cataloguc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	page          *page
	errorHandlers []errorHandler
}

// NewServer creates an HTTP server over the catalog.
func NewServer(catalog *cataloguc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	s := &Server{
		catalog: catalog,
		health:  health,
		logger:  logger,
		page:    newPage(),
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrNotLoaded, http.StatusServiceUnavailable, ErrorCodeCatalogUnavailable),
		sentinelHandler(domain.ErrSchema, http.StatusUnprocessableEntity, ErrorCodeSchemaMismatch),
		sentinelHandler(domain.ErrSourceUnavailable, http.StatusBadGateway, ErrorCodeSourceUnavailable),
		sentinelHandler(domain.ErrMalformedSource, http.StatusUnprocessableEntity, ErrorCodeMalformedSource),
		sentinelHandler(domain.ErrMalformedLink, http.StatusUnprocessableEntity, ErrorCodeMalformedLink),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeNotFound),
		sentinelHandler(domain.ErrFetchTimeout, http.StatusGatewayTimeout, ErrorCodeFetchTimeout),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, ErrorCodeRateLimited),
		sentinelHandler(domain.ErrNotImage, http.StatusUnsupportedMediaType, ErrorCodeNotImage),
		sentinelHandler(domain.ErrPamphletTooLarge, http.StatusRequestEntityTooLarge, ErrorCodePamphletTooLarge),
		sentinelHandler(domain.ErrPamphletUnavailable, http.StatusBadGateway, ErrorCodePamphletUnavailable),
	}
	return s
}

// Routes registers every endpoint on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/", s.Index)
	r.Get("/health", s.HealthCheck)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/options", s.GetOptions)
		r.Get("/schemes", s.ListSchemes)
		r.Get("/search", s.SearchScheme)
		r.Get("/pamphlet", s.GetPamphlet)
		r.Post("/reload", s.Reload)
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, ErrorCodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrorCodeBadRequest, "method not allowed")
	})
}

// Handler returns a router with every endpoint registered.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	s.Routes(r)
	return r
}

// GetOptions handles GET /api/v1/options.
func (s *Server) GetOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := s.catalog.Options(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, OptionsResponse{
		CompanyTypes: opts.CompanyTypes,
		Sectors:      opts.Sectors,
		Schemes:      opts.Names,
	})
}

// ListSchemes handles GET /api/v1/schemes.
func (s *Server) ListSchemes(w http.ResponseWriter, r *http.Request) {
	var companyType, sector string
	if err := runtime.BindQueryParameter("form", true, false, "company_type", r.URL.Query(), &companyType); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "invalid company_type: "+err.Error())
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "sector", r.URL.Query(), &sector); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "invalid sector: "+err.Error())
		return
	}

	res, err := s.catalog.Filter(r.Context(), companyType, sector)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]SchemeItem, len(res.Items))
	for i, l := range res.Items {
		items[i] = listingToItem(l)
	}
	writeJSON(w, http.StatusOK, FilterResponse{
		Items:      items,
		Count:      len(items),
		SnapshotID: res.SnapshotID,
	})
}

// SearchScheme handles GET /api/v1/search. A miss is a 200 with found=false.
func (s *Server) SearchScheme(w http.ResponseWriter, r *http.Request) {
	var name string
	if err := runtime.BindQueryParameter("form", true, true, "name", r.URL.Query(), &name); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "name query parameter is required")
		return
	}

	m, err := s.catalog.Search(r.Context(), name)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if !m.Found {
		writeJSON(w, http.StatusOK, SearchResponse{Found: false, Message: NoResultsMessage})
		return
	}

	resp := SearchResponse{
		Found:       true,
		Scheme:      schemeToDetail(m.Scheme),
		PamphletURL: m.PamphletURL,
	}
	if m.PamphletErr != nil {
		resp.PamphletError = domain.ErrMalformedLink.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetPamphlet handles GET /api/v1/pamphlet by proxying the image bytes.
func (s *Server) GetPamphlet(w http.ResponseWriter, r *http.Request) {
	var name string
	if err := runtime.BindQueryParameter("form", true, true, "name", r.URL.Query(), &name); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "name query parameter is required")
		return
	}

	p, err := s.catalog.Pamphlet(r.Context(), name)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", p.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(p.Data)))
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(p.Data)
}

// Reload handles POST /api/v1/reload. A failed reload keeps serving the
// previous snapshot and reports the error.
func (s *Server) Reload(w http.ResponseWriter, r *http.Request) {
	snap, err := s.catalog.Reload(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshotToResponse(snap))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	var se *domain.SchemaError
	if errors.As(err, &se) {
		return se.Error()
	}
	sentinels := []error{
		domain.ErrNotLoaded,
		domain.ErrSchema,
		domain.ErrSourceUnavailable,
		domain.ErrMalformedSource,
		domain.ErrMalformedLink,
		domain.ErrNotFound,
		domain.ErrFetchTimeout,
		domain.ErrRateLimited,
		domain.ErrNotImage,
		domain.ErrPamphletTooLarge,
		domain.ErrPamphletUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context(), s.logger)
	log.Warn("domain error", zap.String("error", redact.Error(err)))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.String("error", redact.Error(err)))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
