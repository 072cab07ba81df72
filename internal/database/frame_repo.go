package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/kdimtricp/vshazam-fixtures/internal/models"
)

type FrameRepository struct {
	db *DB
}

func NewFrameRepository(db *DB) *FrameRepository {
	return &FrameRepository{db: db}
}

// InsertFrames writes frames through tx, or through the repository's own
// handle when tx is nil. IDs assigned by the database are written back into
// the slice.
func (r *FrameRepository) InsertFrames(ctx context.Context, tx *gorm.DB, frames []models.Frame) error {
	if len(frames) == 0 {
		return nil
	}
	if tx == nil {
		tx = r.db.GORM()
	}
	if err := tx.WithContext(ctx).CreateInBatches(frames, insertBatchSize).Error; err != nil {
		return fmt.Errorf("failed to insert frames: %w", err)
	}
	return nil
}

func (r *FrameRepository) GetByVideoID(ctx context.Context, videoID string) ([]models.Frame, error) {
	var frames []models.Frame
	result := r.db.GORM().WithContext(ctx).
		Where("video_id = ?", videoID).
		Order("frame_number").
		Find(&frames)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to query frames: %w", result.Error)
	}
	return frames, nil
}

func (r *FrameRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GORM().WithContext(ctx).Model(&models.Frame{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count frames: %w", err)
	}
	return count, nil
}
