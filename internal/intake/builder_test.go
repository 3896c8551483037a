package intake

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/domoslabs/underwriter/internal/dealstore"
	"github.com/domoslabs/underwriter/internal/extract"
	"github.com/domoslabs/underwriter/pkg/enums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() func() time.Time {
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func writeRentRoll(t *testing.T, folder string, units int) {
	t.Helper()
	var b strings.Builder
	b.WriteString("Unit,Tenant,Rent\n")
	for i := 1; i <= units; i++ {
		fmt.Fprintf(&b, "%d,Tenant %d,1000\n", 100+i, i)
	}
	require.NoError(t, os.WriteFile(
		filepath.Join(folder, "rent-roll.csv"), []byte(b.String()), 0o644))
}

func newTestBuilder(t *testing.T, outputDir string) *Builder {
	t.Helper()
	return NewBuilder(outputDir, extract.NewExtractor(nil),
		dealstore.NewStore(), nil, nil).WithClock(fixedClock())
}

func TestProcessFolderBuildsStructuredDeal(t *testing.T) {
	folder := filepath.Join(t.TempDir(), "the-frank")
	require.NoError(t, os.MkdirAll(folder, 0o755))
	writeRentRoll(t, folder, 50)

	outputDir := t.TempDir()
	dealPath, structure, err := newTestBuilder(t, outputDir).
		ProcessFolder(context.Background(), folder)
	require.NoError(t, err)

	assert.Equal(t, "The Frank", structure.Deal.PropertyName)
	assert.Equal(t, "the-frank-2024-06-01T12-00-00", structure.Deal.ID)
	assert.Equal(t, 50, structure.Deal.BasicInfo.TotalUnits)
	assert.Equal(t, enums.DealStatusIncoming, structure.Deal.Status)

	// Price is unknown at intake, so the derived value stays 0.
	assert.Equal(t, 0.0, structure.Deal.BasicInfo.PricePerUnit)

	// The triple and journey land on disk.
	loaded, err := dealstore.NewStore().LoadDeal(dealPath)
	require.NoError(t, err)
	assert.Equal(t, structure.Deal.ID, loaded.ID)

	journeyBytes, err := os.ReadFile(filepath.Join(dealPath, "AnalysisJourney.md"))
	require.NoError(t, err)
	assert.Contains(t, string(journeyBytes), "# Analysis Journey: The Frank")
}

func TestProcessFolderCatalogsDocuments(t *testing.T) {
	folder := filepath.Join(t.TempDir(), "sunset-gardens")
	require.NoError(t, os.MkdirAll(filepath.Join(folder, "Historic Financials"), 0o755))
	writeRentRoll(t, folder, 10)
	require.NoError(t, os.WriteFile(
		filepath.Join(folder, "Historic Financials", "T12 Income Statement.csv"),
		[]byte("Total Income,500000\nTotal Operating Expenses,200000\n"), 0o644))
	require.NoError(t, os.WriteFile(
		filepath.Join(folder, "lease-master.pdf"), []byte("pdf"), 0o644))

	_, structure, err := newTestBuilder(t, t.TempDir()).
		ProcessFolder(context.Background(), folder)
	require.NoError(t, err)

	categories := map[enums.DocumentCategory]int{}
	for _, document := range structure.SourceDocuments {
		categories[document.Category]++
	}
	assert.Equal(t, 1, categories[enums.DocumentCategoryFinancial])
	assert.Equal(t, 1, categories[enums.DocumentCategoryRentRoll])
	assert.Equal(t, 1, categories[enums.DocumentCategoryLegal])

	// Extracted financials flow into the deal record.
	assert.Equal(t, 300000.0, structure.Deal.FinancialData.NetOperatingIncome)
	assert.Equal(t, 40.0, structure.Deal.FinancialData.ExpenseRatio)
}

func TestProcessFolderReanalysisPrefix(t *testing.T) {
	folder := filepath.Join(t.TempDir(), "the-frank")
	require.NoError(t, os.MkdirAll(filepath.Join(folder, "Structured"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(folder, "Structured", "deal.json"), []byte("{}"), 0o644))

	_, structure, err := newTestBuilder(t, t.TempDir()).
		ProcessFolder(context.Background(), folder)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(structure.Deal.ID, "reanalysis-the-frank-"))
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "the-frank", slug("The Frank"))
	assert.Equal(t, "sunset-gardens-2", slug("Sunset Gardens #2"))
}
