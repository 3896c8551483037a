package extract

import "testing"

func TestParseFinancialsKeywordScan(t *testing.T) {
	rows := [][]string{
		{"The Frank T12"},
		{"Rental Income", "", "540000"},
		{"Other Income", "12000"},
		{"Management Fee", "27000"},
		{"Maintenance & Repairs", "45000"},
		{"Utilities", "38000"},
		{"Insurance", "21000"},
		{"Property Taxes", "52000"},
	}
	summary := ParseFinancials(rows, "T12 Income Statement.xlsx")
	if summary == nil {
		t.Fatal("expected summary")
	}
	if summary.TotalRevenue != 552000 {
		t.Fatalf("expected synthesized revenue 552000, got %v", summary.TotalRevenue)
	}
	if summary.TotalExpenses != 183000 {
		t.Fatalf("expected synthesized expenses 183000, got %v", summary.TotalExpenses)
	}
	if summary.NetOperatingIncome != 369000 {
		t.Fatalf("expected NOI 369000, got %v", summary.NetOperatingIncome)
	}
	if summary.PeriodStart != "T12" {
		t.Fatalf("expected T12 period, got %s", summary.PeriodStart)
	}
}

func TestParseFinancialsExplicitTotalsWin(t *testing.T) {
	rows := [][]string{
		{"Total Income", "600000"},
		{"Total Operating Expenses", "200000"},
	}
	summary := ParseFinancials(rows, "financials-2024.csv")
	if summary.TotalRevenue != 600000 {
		t.Fatalf("expected 600000, got %v", summary.TotalRevenue)
	}
	if summary.TotalExpenses != 200000 {
		t.Fatalf("expected 200000, got %v", summary.TotalExpenses)
	}
	if summary.PeriodStart != "2024" {
		t.Fatalf("expected 2024 period, got %s", summary.PeriodStart)
	}
}

func TestParseFinancialsIncomeTaxExcluded(t *testing.T) {
	rows := [][]string{
		{"Income Tax Provision", "9999"},
		{"Property Tax", "52000"},
	}
	summary := ParseFinancials(rows, "statement.xlsx")
	if summary.OperatingExpenses.Taxes != 52000 {
		t.Fatalf("expected property tax 52000, got %v", summary.OperatingExpenses.Taxes)
	}
}
