package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the catalog is served but its source is failing.
	Degraded Status = "degraded"
	// Unhealthy indicates no catalog can be served.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names in Report.Checks.
const (
	ComponentCatalog = "catalog"
	ComponentSource  = "source"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	catalog CatalogState
	source  SourcePinger
}

// New creates a Service. source can be nil; the last load outcome then
// stands in for source reachability.
func New(catalog CatalogState, source SourcePinger) *Service {
	return &Service{catalog: catalog, source: source}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, 2)

	checks[ComponentCatalog] = result(s.catalog.Loaded())

	if s.source != nil {
		checks[ComponentSource] = result(s.source.Ping(ctx) == nil)
	} else {
		checks[ComponentSource] = result(s.catalog.LastError() == nil)
	}

	status := Healthy
	switch {
	case checks[ComponentCatalog] == CheckError:
		status = Unhealthy
	case checks[ComponentSource] == CheckError:
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}

func result(ok bool) CheckResult {
	if ok {
		return CheckOK
	}
	return CheckError
}
