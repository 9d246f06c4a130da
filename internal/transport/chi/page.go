package chi

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/schemedex/internal/domain"
	"github.com/kailas-cloud/schemedex/internal/domain/scheme"
	"github.com/kailas-cloud/schemedex/internal/logger"
	cataloguc "github.com/kailas-cloud/schemedex/internal/usecase/catalog"
)

//go:embed templates/*.html
var templateFS embed.FS

type page struct {
	tmpl *template.Template
}

func newPage() *page {
	funcs := template.FuncMap{
		"join": func(ts scheme.TagSet) string { return ts.String() },
	}
	return &page{
		tmpl: template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")),
	}
}

type pageData struct {
	Options     scheme.Options
	CompanyType string
	Sector      string
	Listings    []scheme.Listing
	SnapshotID  string

	Name        string
	Searched    bool
	Match       cataloguc.Match
	PamphletURL string
	Message     string

	Error string
}

// Index handles GET /: the filter table, the search box and the match view.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	data := pageData{
		CompanyType: strings.TrimSpace(q.Get("company_type")),
		Sector:      strings.TrimSpace(q.Get("sector")),
		Name:        q.Get("name"),
	}
	criteria := scheme.NewCriteria(data.CompanyType, data.Sector)
	data.CompanyType, data.Sector = criteria.CompanyType(), criteria.Sector()

	status := http.StatusOK
	if err := s.fillPage(r, &data); err != nil {
		logger.FromContext(r.Context(), s.logger).Warn("page query failed", zap.Error(err))
		status = http.StatusInternalServerError
		if errors.Is(err, domain.ErrNotLoaded) {
			status = http.StatusServiceUnavailable
		}
		data.Error = safeDomainMessage(err)
	}

	var buf bytes.Buffer
	if err := s.page.tmpl.ExecuteTemplate(&buf, "index.html", data); err != nil {
		logger.FromContext(r.Context(), s.logger).Error("template error", zap.Error(err))
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) fillPage(r *http.Request, data *pageData) error {
	ctx := r.Context()

	opts, err := s.catalog.Options(ctx)
	if err != nil {
		return err
	}
	data.Options = opts

	res, err := s.catalog.Filter(ctx, data.CompanyType, data.Sector)
	if err != nil {
		return err
	}
	data.Listings, data.SnapshotID = res.Items, res.SnapshotID

	if strings.TrimSpace(data.Name) == "" {
		return nil
	}
	data.Searched = true
	m, err := s.catalog.Search(ctx, data.Name)
	if err != nil {
		return err
	}
	data.Match = m
	data.PamphletURL = m.PamphletURL
	if !m.Found {
		data.Message = NoResultsMessage
	}
	return nil
}
