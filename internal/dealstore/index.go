package dealstore

import (
	"context"
	"time"

	"github.com/domoslabs/underwriter/pkg/db"
	"github.com/domoslabs/underwriter/pkg/enums"
	"github.com/domoslabs/underwriter/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DealRecord is the index row for a processed deal.
type DealRecord struct {
	ID            string `gorm:"primaryKey"`
	PropertyName  string `gorm:"index"`
	Status        string `gorm:"index"`
	CurrentStage  string
	CanonicalPath string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// DealSnapshot records one copy of a deal folder in the pipeline. The
// canonical flag marks the copy the next stage should read.
type DealSnapshot struct {
	ID        string `gorm:"primaryKey"`
	DealID    string `gorm:"index"`
	StagePath string
	Stage     string
	Substate  string
	Canonical bool `gorm:"index"`
	CopiedAt  time.Time
}

// Index tracks deals and their pipeline snapshots in the sqlite index.
type Index struct {
	client *db.Client
}

func NewIndex(client *db.Client) (*Index, error) {
	if err := client.DB().AutoMigrate(&DealRecord{}, &DealSnapshot{}); err != nil {
		return nil, errors.Wrap(errors.CodeIO, err, "migrating deal index")
	}
	return &Index{client: client}, nil
}

// Register inserts a deal record and its initial canonical snapshot.
func (i *Index) Register(ctx context.Context, record DealRecord, snapshotPath string, stage enums.Stage) error {
	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now
	snapshot := DealSnapshot{
		ID:        uuid.NewString(),
		DealID:    record.ID,
		StagePath: canonicalPath(snapshotPath),
		Stage:     stage.String(),
		Substate:  enums.SubstateNotStarted.String(),
		Canonical: true,
		CopiedAt:  now,
	}
	err := i.client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		return tx.Create(&snapshot).Error
	})
	if err != nil {
		return errors.Wrap(errors.CodeIO, err, "registering deal")
	}
	return nil
}

// RecordSnapshot appends a new snapshot and promotes it to canonical,
// demoting every earlier copy of the same deal.
func (i *Index) RecordSnapshot(ctx context.Context, dealID, stagePath string, stage enums.Stage, substate enums.Substate) error {
	snapshot := DealSnapshot{
		ID:        uuid.NewString(),
		DealID:    dealID,
		StagePath: canonicalPath(stagePath),
		Stage:     stage.String(),
		Substate:  substate.String(),
		Canonical: true,
		CopiedAt:  time.Now().UTC(),
	}
	err := i.client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Model(&DealSnapshot{}).
			Where("deal_id = ? AND canonical = ?", dealID, true).
			Update("canonical", false).Error; err != nil {
			return err
		}
		if err := tx.Create(&snapshot).Error; err != nil {
			return err
		}
		return tx.Model(&DealRecord{}).
			Where("id = ?", dealID).
			Updates(map[string]any{
				"current_stage":  stage.String(),
				"canonical_path": snapshot.StagePath,
				"updated_at":     snapshot.CopiedAt,
			}).Error
	})
	if err != nil {
		return errors.Wrap(errors.CodeIO, err, "recording deal snapshot")
	}
	return nil
}

// UpdateStatus sets the deal's index status.
func (i *Index) UpdateStatus(ctx context.Context, dealID string, status enums.DealStatus) error {
	result := i.client.DB().WithContext(ctx).
		Model(&DealRecord{}).
		Where("id = ?", dealID).
		Updates(map[string]any{
			"status":     status.String(),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return errors.Wrap(errors.CodeIO, result.Error, "updating deal status")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.CodeNotFound, "deal not indexed")
	}
	return nil
}

// Get fetches one deal record by id.
func (i *Index) Get(ctx context.Context, dealID string) (*DealRecord, error) {
	var record DealRecord
	err := i.client.DB().WithContext(ctx).First(&record, "id = ?", dealID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New(errors.CodeNotFound, "deal not indexed")
		}
		return nil, errors.Wrap(errors.CodeIO, err, "loading deal record")
	}
	return &record, nil
}

// List returns all deal records, newest first.
func (i *Index) List(ctx context.Context) ([]DealRecord, error) {
	var records []DealRecord
	err := i.client.DB().WithContext(ctx).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, errors.Wrap(errors.CodeIO, err, "listing deal records")
	}
	return records, nil
}

// CanonicalSnapshot returns the live copy for a deal.
func (i *Index) CanonicalSnapshot(ctx context.Context, dealID string) (*DealSnapshot, error) {
	var snapshot DealSnapshot
	err := i.client.DB().WithContext(ctx).
		First(&snapshot, "deal_id = ? AND canonical = ?", dealID, true).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New(errors.CodeNotFound, "no canonical snapshot")
		}
		return nil, errors.Wrap(errors.CodeIO, err, "loading canonical snapshot")
	}
	return &snapshot, nil
}
