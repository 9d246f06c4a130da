package schemes

import (
	"context"

	"github.com/kailas-cloud/schemedex/internal/domain"
	"github.com/kailas-cloud/schemedex/internal/domain/scheme"
	cataloguc "github.com/kailas-cloud/schemedex/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/schemedex/internal/usecase/health"
)

// --- catalogUseCase mock ---

type mockCatalogUC struct {
	reloadFn   func(ctx context.Context) (cataloguc.Snapshot, error)
	filterFn   func(ctx context.Context, companyType, sector string) (cataloguc.FilterResult, error)
	searchFn   func(ctx context.Context, name string) (cataloguc.Match, error)
	optionsFn  func(ctx context.Context) (scheme.Options, error)
	pamphletFn func(ctx context.Context, name string) (domain.Pamphlet, error)
}

func (m *mockCatalogUC) Reload(ctx context.Context) (cataloguc.Snapshot, error) {
	return m.reloadFn(ctx)
}

func (m *mockCatalogUC) Filter(ctx context.Context, companyType, sector string) (cataloguc.FilterResult, error) {
	return m.filterFn(ctx, companyType, sector)
}

func (m *mockCatalogUC) Search(ctx context.Context, name string) (cataloguc.Match, error) {
	return m.searchFn(ctx, name)
}

func (m *mockCatalogUC) Options(ctx context.Context) (scheme.Options, error) {
	return m.optionsFn(ctx)
}

func (m *mockCatalogUC) Pamphlet(ctx context.Context, name string) (domain.Pamphlet, error) {
	return m.pamphletFn(ctx, name)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report {
	return m.report
}
