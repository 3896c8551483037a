package deal

import "github.com/shopspring/decimal"

// PricePerUnit divides asking price by unit count, rounded to cents.
// Returns 0 when either value is unknown.
func PricePerUnit(askingPrice float64, totalUnits int) float64 {
	if askingPrice <= 0 || totalUnits <= 0 {
		return 0
	}
	price := decimal.NewFromFloat(askingPrice)
	units := decimal.NewFromInt(int64(totalUnits))
	result, _ := price.Div(units).Round(2).Float64()
	return result
}

// ExpenseRatio is total expenses over total revenue as a percentage,
// rounded to one decimal place. Returns 0 when revenue is 0.
func ExpenseRatio(totalExpenses, totalRevenue float64) float64 {
	if totalRevenue == 0 {
		return 0
	}
	expenses := decimal.NewFromFloat(totalExpenses)
	revenue := decimal.NewFromFloat(totalRevenue)
	result, _ := expenses.Div(revenue).Mul(decimal.NewFromInt(100)).Round(1).Float64()
	return result
}

// NOIPerUnit divides net operating income by unit count, 0 when units unknown.
func NOIPerUnit(noi float64, totalUnits int) float64 {
	if totalUnits <= 0 {
		return 0
	}
	result, _ := decimal.NewFromFloat(noi).
		Div(decimal.NewFromInt(int64(totalUnits))).
		Round(2).Float64()
	return result
}

// ApplyFinancials folds the extracted financial summary back into the deal's
// top-level financial fields and recomputes the derived values.
func (d *Deal) ApplyFinancials(summary *FinancialSummary) {
	if d == nil {
		return
	}
	if summary != nil {
		d.FinancialData.AnnualGrossRent = summary.RentalIncome
		d.FinancialData.NetOperatingIncome = summary.NetOperatingIncome
		d.FinancialData.OperatingExpenses = summary.TotalExpenses
		d.FinancialData.ExpenseRatio = ExpenseRatio(summary.TotalExpenses, summary.TotalRevenue)
		d.FinancialData.OccupancyRate = summary.OccupancyMetrics.OccupancyRate
	}
	d.BasicInfo.PricePerUnit = PricePerUnit(d.BasicInfo.AskingPrice, d.BasicInfo.TotalUnits)
}
