package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/kdimtricp/vshazam-fixtures/internal/models"
)

// insertBatchSize bounds the rows per INSERT statement.
const insertBatchSize = 100

type VideoRepository struct {
	db *DB
}

func NewVideoRepository(db *DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// InsertVideos writes videos through tx, or through the repository's own
// handle when tx is nil.
func (r *VideoRepository) InsertVideos(ctx context.Context, tx *gorm.DB, videos []models.Video) error {
	if len(videos) == 0 {
		return nil
	}
	if tx == nil {
		tx = r.db.GORM()
	}
	if err := tx.WithContext(ctx).CreateInBatches(videos, insertBatchSize).Error; err != nil {
		return fmt.Errorf("failed to insert videos: %w", err)
	}
	return nil
}

func (r *VideoRepository) GetVideoByID(ctx context.Context, id string) (*models.Video, error) {
	var video models.Video
	result := r.db.GORM().WithContext(ctx).First(&video, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("video not found")
		}
		return nil, fmt.Errorf("failed to get video: %w", result.Error)
	}
	return &video, nil
}

func (r *VideoRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GORM().WithContext(ctx).Model(&models.Video{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count videos: %w", err)
	}
	return count, nil
}
