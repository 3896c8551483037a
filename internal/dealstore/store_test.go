package dealstore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/domoslabs/underwriter/internal/deal"
	"github.com/domoslabs/underwriter/pkg/enums"
	"github.com/domoslabs/underwriter/pkg/errors"
	"github.com/stretchr/testify/require"
)

func sampleDeal() *deal.Deal {
	now := time.Now().UTC()
	return &deal.Deal{
		ID:           "the-frank-20240101",
		PropertyName: "The Frank",
		BasicInfo:    deal.BasicInfo{TotalUnits: 45, AskingPrice: 2000000, PricePerUnit: 44444.44},
		Status:       enums.DealStatusProcessing,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestSaveAndLoadTriple(t *testing.T) {
	dealPath := t.TempDir()
	store := NewStore()

	tenants := []deal.Tenant{{UnitNumber: "101", OccupancyStatus: "occupied"}}
	summary := &deal.FinancialSummary{TotalRevenue: 100000, TotalExpenses: 40000}

	require.NoError(t, store.SaveTriple(dealPath, sampleDeal(), tenants, summary))

	loaded, err := store.LoadDeal(dealPath)
	require.NoError(t, err)
	require.Equal(t, "The Frank", loaded.PropertyName)
	require.Equal(t, 45, loaded.BasicInfo.TotalUnits)

	loadedTenants, err := store.LoadTenants(dealPath)
	require.NoError(t, err)
	require.Len(t, loadedTenants, 1)

	loadedSummary, err := store.LoadFinancials(dealPath)
	require.NoError(t, err)
	require.Equal(t, 100000.0, loadedSummary.TotalRevenue)
}

func TestLoadDealNotFound(t *testing.T) {
	_, err := NewStore().LoadDeal(t.TempDir())
	require.Error(t, err)
	require.True(t, errors.HasCode(err, errors.CodeNotFound))
}

func TestLoadTenantsMissingFileIsNil(t *testing.T) {
	tenants, err := NewStore().LoadTenants(t.TempDir())
	require.NoError(t, err)
	require.Nil(t, tenants)
}

func TestSaveTripleRejectsInvalidDeal(t *testing.T) {
	invalid := sampleDeal()
	invalid.ID = ""
	err := NewStore().SaveTriple(t.TempDir(), invalid, nil, nil)
	require.Error(t, err)
	require.True(t, errors.HasCode(err, errors.CodeValidation))
}

func TestPathLockerBlocksSecondWriter(t *testing.T) {
	dealPath := t.TempDir()
	locker := NewPathLocker(200 * time.Millisecond)

	release, err := locker.Lock(dealPath)
	require.NoError(t, err)

	// A second locker sharing only the filesystem must time out on the
	// advisory lock file.
	other := NewPathLocker(200 * time.Millisecond)
	_, err = other.Lock(dealPath)
	require.Error(t, err)
	require.True(t, errors.HasCode(err, errors.CodeConflict))

	release()

	release2, err := other.Lock(dealPath)
	require.NoError(t, err)
	release2()
}

func TestCanonicalPathNormalizes(t *testing.T) {
	a := canonicalPath(filepath.Join("deals", "x", "..", "y"))
	b := canonicalPath(filepath.Join("deals", "y"))
	require.Equal(t, a, b)
}
