package deal

import "testing"

func TestExpenseRatioExact(t *testing.T) {
	if got := ExpenseRatio(40000, 100000); got != 40.0 {
		t.Fatalf("expected 40.0, got %v", got)
	}
}

func TestExpenseRatioZeroRevenue(t *testing.T) {
	if got := ExpenseRatio(40000, 0); got != 0 {
		t.Fatalf("expected 0 on zero revenue, got %v", got)
	}
}

func TestPricePerUnit(t *testing.T) {
	if got := PricePerUnit(5000000, 50); got != 100000 {
		t.Fatalf("expected 100000, got %v", got)
	}
	if got := PricePerUnit(0, 50); got != 0 {
		t.Fatalf("expected 0 on unknown price, got %v", got)
	}
	if got := PricePerUnit(5000000, 0); got != 0 {
		t.Fatalf("expected 0 on unknown units, got %v", got)
	}
}

func TestApplyFinancials(t *testing.T) {
	d := &Deal{
		BasicInfo: BasicInfo{TotalUnits: 50, AskingPrice: 2000000},
	}
	summary := &FinancialSummary{
		TotalRevenue:       100000,
		RentalIncome:       90000,
		TotalExpenses:      40000,
		NetOperatingIncome: 60000,
		OccupancyMetrics:   OccupancyMetrics{OccupancyRate: 92.5},
	}
	d.ApplyFinancials(summary)

	if d.FinancialData.ExpenseRatio != 40.0 {
		t.Fatalf("expected expense ratio 40.0, got %v", d.FinancialData.ExpenseRatio)
	}
	if d.BasicInfo.PricePerUnit != 40000 {
		t.Fatalf("expected price per unit 40000, got %v", d.BasicInfo.PricePerUnit)
	}
	if d.FinancialData.OccupancyRate != 92.5 {
		t.Fatalf("expected occupancy 92.5, got %v", d.FinancialData.OccupancyRate)
	}
}
