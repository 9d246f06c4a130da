// Package schemes provides a Go client for the government scheme catalog:
// a spreadsheet of schemes that is loaded once, normalized to live rows and
// then queried in memory.
//
// The catalog can come from the Google Sheets API, a CSV export, a local
// workbook or in-memory rows:
//
//	client, _ := schemes.New(ctx, schemes.WithSheets("SPREADSHEET_ID", "Sheet1", "sa.json"))
//
//	opts, _ := client.Options(ctx)
//	list, _ := client.Filter(ctx, "Startup", schemes.AllSectors)
//	m, _ := client.Search(ctx, "Startup Seed Fund")
//	if m.Found && m.PamphletURL != "" {
//	    img, _ := client.Pamphlet(ctx, m.Scheme.Name)
//	    _ = os.WriteFile("pamphlet", img.Data, 0o644)
//	}
//
// Filter matches company type and sector tags exactly; the ALL and
// All Sector tags match every selection. Results are ordered by days left,
// with schemes lacking a number last. Search is an exact, case-sensitive
// name lookup.
package schemes
