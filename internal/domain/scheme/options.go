package scheme

// Options are the selectable values offered to a user.
type Options struct {
	CompanyTypes []string
	Sectors      []string
	Names        []string
}

// OptionsOf collects the unique company type and sector tags in first-seen
// order, each list led by its sentinel, plus every scheme name in table order.
func OptionsOf(t Table) Options {
	opts := Options{
		CompanyTypes: []string{AllCompanyTypes},
		Sectors:      []string{AllSectors},
		Names:        make([]string, 0, len(t.schemes)),
	}
	seenCT := map[string]struct{}{AllCompanyTypes: {}}
	seenSec := map[string]struct{}{AllSectors: {}}

	for _, s := range t.schemes {
		for _, tag := range s.companyType.tags {
			if _, ok := seenCT[tag]; !ok {
				seenCT[tag] = struct{}{}
				opts.CompanyTypes = append(opts.CompanyTypes, tag)
			}
		}
		for _, tag := range s.sector.tags {
			if _, ok := seenSec[tag]; !ok {
				seenSec[tag] = struct{}{}
				opts.Sectors = append(opts.Sectors, tag)
			}
		}
		opts.Names = append(opts.Names, s.name)
	}
	return opts
}
