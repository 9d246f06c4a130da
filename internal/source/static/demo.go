package static

// DemoSheet is a small scheme sheet for local runs without credentials.
const DemoSheet = "Sheet1"

var demoRows = [][]string{
	{"SR. NO.", "Scheme", "Benefits", "SECTOR", "COMPANY TYPE", "Deadline", "Days left", "Status", "Pamphlet link"},
	{"1", "Startup Seed Fund", "Grant up to 20 lakh for prototype and market entry", "Tech, Manufacturing", "Startup", "31/03/2027", "45", "Live", "https://drive.google.com/file/d/1seedFundPamphletId/view?usp=sharing"},
	{"2", "MSME Credit Guarantee", "Collateral free loans up to 5 crore", "All Sector", "MSME", "30/06/2027", "120", "Live", ""},
	{"3", "Export Promotion Assistance", "Reimbursement of trade fair participation", "Agri, Textiles", "Exporter, MSME", "15/01/2027", "12", "Live", "https://drive.google.com/open?id=1exportPamphletId"},
	{"4", "Women Entrepreneur Grant", "Matching grant for women-led enterprises", "All Sector", "ALL", "28/02/2027", "", "Live", ""},
	{"5", "Legacy Technology Upgrade", "Interest subvention on machinery", "Manufacturing", "MSME", "01/01/2024", "0", "Closed", ""},
}

// NewDemo returns a source preloaded with DemoSheet under source id "demo".
func NewDemo() *Source {
	s := New()
	s.Put("demo", DemoSheet, demoRows)
	return s
}

// DemoRows returns a copy of the demo sheet cells, header first.
func DemoRows() [][]string {
	return cloneRows(demoRows)
}
