package extract

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestExtractParsesCSVRentRoll(t *testing.T) {
	folder := t.TempDir()
	csv := "Unit,Tenant,Rent,Sqft\n101,J. Smith,1200,650\n102,vacant,0,650\n"
	if err := os.WriteFile(filepath.Join(folder, "rent-roll.csv"), []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	result := NewExtractor(nil).Extract(context.Background(), folder)
	if len(result.Tenants) != 2 {
		t.Fatalf("expected 2 tenants, got %d", len(result.Tenants))
	}
	if result.FinancialSummary == nil {
		t.Fatal("expected a financial summary even without a statement")
	}
	if result.FinancialSummary.OccupancyMetrics.OccupiedUnits != 1 {
		t.Fatalf("expected 1 occupied unit, got %d",
			result.FinancialSummary.OccupancyMetrics.OccupiedUnits)
	}
}

func TestExtractEmptyRentRollUsesFullPlaceholder(t *testing.T) {
	folder := t.TempDir()
	if err := os.WriteFile(filepath.Join(folder, "rent-roll.csv"), []byte("no header here\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	result := NewExtractor(nil).Extract(context.Background(), folder)
	if len(result.Tenants) != 45 {
		t.Fatalf("expected 45 placeholder tenants, got %d", len(result.Tenants))
	}
	if len(result.Warnings) == 0 {
		t.Fatal("expected a warning for the empty rent roll")
	}
}

func TestExtractMissingRentRollUsesMinimalPlaceholder(t *testing.T) {
	result := NewExtractor(nil).Extract(context.Background(), t.TempDir())
	if len(result.Tenants) != 5 {
		t.Fatalf("expected 5 placeholder tenants, got %d", len(result.Tenants))
	}
	if result.FinancialSummary.OccupancyMetrics.TotalUnits != 5 {
		t.Fatalf("expected placeholder unit count 5, got %d",
			result.FinancialSummary.OccupancyMetrics.TotalUnits)
	}
}

func TestCandidateOrderPrefersHistoricFinancials(t *testing.T) {
	folder := t.TempDir()
	if err := os.MkdirAll(filepath.Join(folder, "Historic Financials"), 0o755); err != nil {
		t.Fatal(err)
	}
	nested := "Unit,Tenant,Rent\n201,A. Jones,1500\n"
	flat := "Unit,Tenant,Rent\n101,B. Brown,1000\n102,C. White,1100\n"
	if err := os.WriteFile(filepath.Join(folder, "Historic Financials", "rent-roll.csv"), []byte(nested), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(folder, "rent-roll.csv"), []byte(flat), 0o644); err != nil {
		t.Fatal(err)
	}

	result := NewExtractor(nil).Extract(context.Background(), folder)
	if len(result.Tenants) != 1 || result.Tenants[0].UnitNumber != "201" {
		t.Fatalf("expected the nested rent roll to win, got %+v", result.Tenants)
	}
}
