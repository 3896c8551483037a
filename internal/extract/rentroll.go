package extract

import (
	"strconv"
	"strings"

	"github.com/domoslabs/underwriter/internal/deal"
)

// RentRollSummary aggregates the parsed rent roll rows.
type RentRollSummary struct {
	TotalUnits       int
	OccupiedUnits    int
	VacantUnits      int
	TotalMonthlyRent float64
	AverageRent      float64
}

var headerIndicators = []string{"unit", "tenant", "rent", "sqft", "bedroom"}

// DetectHeader returns the index of the first row within the first ten that
// matches at least two rent roll header indicators, or -1.
func DetectHeader(rows [][]string) int {
	limit := len(rows)
	if limit > 10 {
		limit = 10
	}
	for i := 0; i < limit; i++ {
		joined := strings.ToLower(strings.Join(rows[i], ""))
		matches := 0
		for _, indicator := range headerIndicators {
			if strings.Contains(joined, indicator) {
				matches++
			}
		}
		if matches >= 2 {
			return i
		}
	}
	return -1
}

// Column mapping follows a fixed priority: a later match never overrides an
// earlier one within the same cell, and "unit" without "type" always means
// the unit number.
func mapColumns(headers []string) map[string]int {
	columns := map[string]int{}
	for i, raw := range headers {
		header := strings.ToLower(strings.TrimSpace(raw))
		if header == "" {
			continue
		}
		switch {
		case strings.Contains(header, "unit") && !strings.Contains(header, "type"):
			columns["unitNumber"] = i
		case strings.Contains(header, "unit") && strings.Contains(header, "type"):
			columns["unitType"] = i
		case strings.Contains(header, "bedroom") || strings.Contains(header, "br"):
			columns["unitType"] = i
		case strings.Contains(header, "rent") && !strings.Contains(header, "market"):
			columns["currentRent"] = i
		case strings.Contains(header, "market") && strings.Contains(header, "rent"):
			columns["marketRent"] = i
		case strings.Contains(header, "tenant") && !strings.Contains(header, "type"):
			columns["tenantName"] = i
		case strings.Contains(header, "sqft") || strings.Contains(header, "sq ft"):
			columns["squareFeet"] = i
		case strings.Contains(header, "lease") && strings.Contains(header, "start"):
			columns["leaseStart"] = i
		case strings.Contains(header, "lease") && strings.Contains(header, "end"):
			columns["leaseEnd"] = i
		}
	}
	return columns
}

// ParseRentRoll converts tabular rows into tenant records. Rows without a
// unit number are discarded. Returns nil tenants when no header is found.
func ParseRentRoll(rows [][]string) ([]deal.Tenant, *RentRollSummary) {
	if len(rows) < 2 {
		return nil, nil
	}
	headerRow := DetectHeader(rows)
	if headerRow == -1 {
		return nil, nil
	}

	columns := mapColumns(rows[headerRow])
	var tenants []deal.Tenant
	for _, row := range rows[headerRow+1:] {
		if len(row) == 0 {
			continue
		}
		tenant, ok := parseRow(columns, row)
		if ok {
			tenants = append(tenants, tenant)
		}
	}
	return tenants, summarize(tenants)
}

func parseRow(columns map[string]int, row []string) (deal.Tenant, bool) {
	unitNumber := strings.TrimSpace(cell(row, columns, "unitNumber"))
	if unitNumber == "" {
		return deal.Tenant{}, false
	}

	tenantName := strings.TrimSpace(cell(row, columns, "tenantName"))
	occupied := tenantName != "" && !strings.EqualFold(tenantName, "vacant")

	status := "vacant"
	if occupied {
		status = "occupied"
	}

	unitType := strings.TrimSpace(cell(row, columns, "unitType"))
	if unitType == "" {
		unitType = "Unknown"
	}

	return deal.Tenant{
		UnitNumber:      unitNumber,
		UnitType:        unitType,
		Sqft:            parseNumber(cell(row, columns, "squareFeet")),
		MonthlyRent:     parseNumber(cell(row, columns, "currentRent")),
		TenantName:      tenantName,
		LeaseStart:      strings.TrimSpace(cell(row, columns, "leaseStart")),
		LeaseEnd:        strings.TrimSpace(cell(row, columns, "leaseEnd")),
		OccupancyStatus: status,
	}, true
}

func summarize(tenants []deal.Tenant) *RentRollSummary {
	summary := &RentRollSummary{TotalUnits: len(tenants)}
	for _, tenant := range tenants {
		if tenant.OccupancyStatus == "occupied" {
			summary.OccupiedUnits++
		}
		summary.TotalMonthlyRent += tenant.MonthlyRent
	}
	summary.VacantUnits = summary.TotalUnits - summary.OccupiedUnits
	if summary.TotalUnits > 0 {
		summary.AverageRent = summary.TotalMonthlyRent / float64(summary.TotalUnits)
	}
	return summary
}

func cell(row []string, columns map[string]int, field string) string {
	index, ok := columns[field]
	if !ok || index < 0 || index >= len(row) {
		return ""
	}
	return row[index]
}

func parseNumber(value string) float64 {
	cleaned := strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(value))
	if cleaned == "" {
		return 0
	}
	num, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return num
}
