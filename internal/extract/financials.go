package extract

import (
	"strings"

	"github.com/domoslabs/underwriter/internal/deal"
)

// ParseFinancials scans tabular income statement rows by first-cell keyword
// and builds a financial summary. Missing totals are synthesized from the
// sub-categories that were found.
func ParseFinancials(rows [][]string, sourceName string) *deal.FinancialSummary {
	if len(rows) == 0 {
		return nil
	}

	var (
		rentalIncome  float64
		otherIncome   float64
		totalIncome   float64
		management    float64
		maintenance   float64
		utilities     float64
		insurance     float64
		taxes         float64
		totalExpenses float64
	)

	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		label := strings.ToLower(strings.TrimSpace(row[0]))
		if label == "" {
			continue
		}
		switch {
		case strings.Contains(label, "rental income") || strings.Contains(label, "rent income"):
			rentalIncome = firstNumericValue(row)
		case strings.Contains(label, "other income") || strings.Contains(label, "miscellaneous"):
			otherIncome = firstNumericValue(row)
		case strings.Contains(label, "total income") || strings.Contains(label, "gross income"):
			totalIncome = firstNumericValue(row)
		case strings.Contains(label, "management") && strings.Contains(label, "fee"):
			management = firstNumericValue(row)
		case strings.Contains(label, "maintenance") || strings.Contains(label, "repair"):
			maintenance = firstNumericValue(row)
		case strings.Contains(label, "utilities"):
			utilities = firstNumericValue(row)
		case strings.Contains(label, "insurance"):
			insurance = firstNumericValue(row)
		case strings.Contains(label, "tax") && !strings.Contains(label, "income"):
			taxes = firstNumericValue(row)
		case strings.Contains(label, "total expense") || strings.Contains(label, "total operating"):
			totalExpenses = firstNumericValue(row)
		}
	}

	if totalIncome == 0 {
		totalIncome = rentalIncome + otherIncome
	}
	if totalExpenses == 0 {
		totalExpenses = management + maintenance + utilities + insurance + taxes
	}

	period := determinePeriod(sourceName)
	return &deal.FinancialSummary{
		PeriodStart:  period,
		PeriodEnd:    period,
		TotalRevenue: totalIncome,
		RentalIncome: rentalIncome,
		OtherIncome:  otherIncome,
		OperatingExpenses: deal.OperatingExpenses{
			Management:  management,
			Maintenance: maintenance,
			Utilities:   utilities,
			Insurance:   insurance,
			Taxes:       taxes,
		},
		TotalExpenses:      totalExpenses,
		NetOperatingIncome: totalIncome - totalExpenses,
	}
}

func determinePeriod(sourceName string) string {
	lower := strings.ToLower(sourceName)
	switch {
	case strings.Contains(lower, "t12"):
		return "T12"
	case strings.Contains(lower, "2024"):
		return "2024"
	case strings.Contains(lower, "2023"):
		return "2023"
	default:
		return "T12"
	}
}

// firstNumericValue scans a row past the label cell for the first nonzero
// numeric cell, which holds the amount in most statement layouts.
func firstNumericValue(row []string) float64 {
	for i := 1; i < len(row); i++ {
		if num := parseNumber(row[i]); num != 0 {
			return num
		}
	}
	return 0
}
