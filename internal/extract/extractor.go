package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/domoslabs/underwriter/internal/deal"
	"github.com/domoslabs/underwriter/pkg/logger"
	"go.uber.org/multierr"
)

// Ordered probe list for the rent roll. The first existing tabular file wins.
var rentRollCandidates = []string{
	filepath.Join("Historic Financials", "Rent Roll.xlsx"),
	"Rent Roll.xlsx",
	filepath.Join("Historic Financials", "rent-roll.csv"),
	"rent-roll.csv",
	"rentroll.csv",
}

var financialFileKeywords = []string{"t12", "income", "financial", "statement"}

const (
	placeholderUnitsWithRentRoll = 45
	placeholderUnitsMinimal      = 5
)

// Result is the extractor's output. It is always complete: missing or
// unreadable inputs degrade to placeholder values, never to a failure.
type Result struct {
	Tenants          []deal.Tenant
	FinancialSummary *deal.FinancialSummary
	Warnings         []string
}

// Extractor pulls tenant and financial data out of a due diligence folder.
type Extractor struct {
	log *logger.Logger
}

func NewExtractor(log *logger.Logger) *Extractor {
	return &Extractor{log: log}
}

// Extract probes the folder for a rent roll and a financial statement and
// parses whatever it finds. It never returns an error; problems are absorbed
// into the result's warnings.
func (e *Extractor) Extract(ctx context.Context, folder string) *Result {
	result := &Result{}
	var warnErr error

	tenants, warn := e.extractTenants(folder)
	if warn != nil {
		warnErr = multierr.Append(warnErr, warn)
	}
	result.Tenants = tenants

	summary, warn := e.extractFinancials(folder)
	if warn != nil {
		warnErr = multierr.Append(warnErr, warn)
	}
	if summary == nil {
		summary = placeholderFinancials(len(tenants))
	}
	summary.OccupancyMetrics = occupancyMetrics(tenants)
	result.FinancialSummary = summary

	for _, err := range multierr.Errors(warnErr) {
		result.Warnings = append(result.Warnings, err.Error())
	}
	if e.log != nil {
		for _, warning := range result.Warnings {
			e.log.Warn(ctx, "extraction: "+warning)
		}
		e.log.Info(ctx, fmt.Sprintf("extracted %d tenant records", len(result.Tenants)))
	}
	return result
}

func (e *Extractor) extractTenants(folder string) ([]deal.Tenant, error) {
	for _, candidate := range rentRollCandidates {
		path := filepath.Join(folder, candidate)
		if _, err := os.Stat(path); err != nil {
			continue
		}

		rows := ReadTable(path)
		tenants, _ := ParseRentRoll(rows)
		if len(tenants) > 0 {
			return tenants, nil
		}
		// File is present but yielded nothing; fall back to the
		// full-size placeholder roll.
		return placeholderTenants(placeholderUnitsWithRentRoll),
			fmt.Errorf("rent roll %s parsed empty, using placeholder units", candidate)
	}
	return placeholderTenants(placeholderUnitsMinimal),
		fmt.Errorf("no rent roll found, using minimal placeholder units")
}

func (e *Extractor) extractFinancials(folder string) (*deal.FinancialSummary, error) {
	path := findFinancialFile(folder)
	if path == "" {
		return nil, fmt.Errorf("no financial statement found")
	}

	rows := ReadFinancialTable(path)
	summary := ParseFinancials(rows, filepath.Base(path))
	if summary == nil {
		return nil, fmt.Errorf("financial statement %s parsed empty", filepath.Base(path))
	}
	return summary, nil
}

func findFinancialFile(folder string) string {
	for _, dir := range []string{filepath.Join(folder, "Historic Financials"), folder} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			name := strings.ToLower(entry.Name())
			ext := filepath.Ext(name)
			if ext != ".xlsx" && ext != ".csv" {
				continue
			}
			if strings.Contains(name, "rent") {
				continue
			}
			for _, keyword := range financialFileKeywords {
				if strings.Contains(name, keyword) {
					return filepath.Join(dir, entry.Name())
				}
			}
		}
	}
	return ""
}

func placeholderTenants(count int) []deal.Tenant {
	tenants := make([]deal.Tenant, 0, count)
	for i := 1; i <= count; i++ {
		tenants = append(tenants, deal.Tenant{
			UnitNumber:      fmt.Sprintf("%d", i),
			LeaseStart:      "TBD",
			LeaseEnd:        "TBD",
			TenantName:      "TBD",
			OccupancyStatus: "occupied",
			UnitType:        "TBD",
		})
	}
	return tenants
}

func placeholderFinancials(totalUnits int) *deal.FinancialSummary {
	return &deal.FinancialSummary{
		PeriodStart: "TBD",
		PeriodEnd:   "TBD",
		OccupancyMetrics: deal.OccupancyMetrics{
			TotalUnits: totalUnits,
		},
	}
}

func occupancyMetrics(tenants []deal.Tenant) deal.OccupancyMetrics {
	metrics := deal.OccupancyMetrics{TotalUnits: len(tenants)}
	var totalRent float64
	for _, tenant := range tenants {
		if tenant.OccupancyStatus == "occupied" {
			metrics.OccupiedUnits++
		}
		totalRent += tenant.MonthlyRent
	}
	if metrics.TotalUnits > 0 {
		metrics.OccupancyRate = float64(metrics.OccupiedUnits) / float64(metrics.TotalUnits) * 100
		metrics.AvgRentPerUnit = totalRent / float64(metrics.TotalUnits)
	}
	return metrics
}
