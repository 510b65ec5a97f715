// Package store is the Postgres-backed implementation of the script and
// catalog interfaces.
package store

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/spinstage/backend/internal/script"
)

type cueRecord struct {
	ID           uint   `gorm:"primaryKey"`
	CampaignID   string `gorm:"size:64;index:idx_cues_campaign"`
	Step         int
	TargetItemID string `gorm:"size:64"`
	Question     string
}

func (cueRecord) TableName() string { return "director_cues" }

type itemRecord struct {
	ID         string `gorm:"primaryKey;size:64"`
	CampaignID string `gorm:"size:64;index:idx_items_campaign"`
	Name       string
	Color      string `gorm:"size:16"`
	ImageURL   string
}

func (itemRecord) TableName() string { return "catalog_items" }

type Postgres struct {
	db *gorm.DB
}

func Open(dsn string) (*Postgres, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.AutoMigrate(&cueRecord{}, &itemRecord{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Postgres{db: db}, nil
}

func (p *Postgres) CuesByCampaign(ctx context.Context, campaignID string) ([]script.Cue, error) {
	var recs []cueRecord
	err := p.db.WithContext(ctx).
		Where("campaign_id = ?", campaignID).
		Order("step asc").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("load cues for %s: %w", campaignID, err)
	}
	cues := make([]script.Cue, 0, len(recs))
	for _, r := range recs {
		cues = append(cues, script.Cue{Step: r.Step, TargetItemID: r.TargetItemID, Question: r.Question})
	}
	return cues, nil
}

func (p *Postgres) ReplaceCues(ctx context.Context, campaignID string, cues []script.Cue) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("campaign_id = ?", campaignID).Delete(&cueRecord{}).Error; err != nil {
			return fmt.Errorf("clear cues for %s: %w", campaignID, err)
		}
		if len(cues) == 0 {
			return nil
		}
		recs := make([]cueRecord, 0, len(cues))
		for _, c := range cues {
			recs = append(recs, cueRecord{
				CampaignID:   campaignID,
				Step:         c.Step,
				TargetItemID: c.TargetItemID,
				Question:     c.Question,
			})
		}
		if err := tx.Create(&recs).Error; err != nil {
			return fmt.Errorf("insert cues for %s: %w", campaignID, err)
		}
		return nil
	})
}

func (p *Postgres) ItemsByCampaign(ctx context.Context, campaignID string) ([]script.Item, error) {
	var recs []itemRecord
	err := p.db.WithContext(ctx).
		Where("campaign_id = ?", campaignID).
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("load items for %s: %w", campaignID, err)
	}
	items := make([]script.Item, 0, len(recs))
	for _, r := range recs {
		items = append(items, script.Item{ID: r.ID, Name: r.Name, Color: r.Color, ImageURL: r.ImageURL})
	}
	return items, nil
}
