package repository

import (
	"fmt"

	"gorm.io/gorm"

	"seoulholic-bot/internal/model"
)

type TranscriptRepository struct {
	db *gorm.DB
}

func NewTranscriptRepository(db *gorm.DB) *TranscriptRepository {
	return &TranscriptRepository{db: db}
}

func (r *TranscriptRepository) Create(msg *model.TranscriptMessage) error {
	if err := r.db.Create(msg).Error; err != nil {
		return fmt.Errorf("create transcript message failed: %w", err)
	}
	return nil
}

func (r *TranscriptRepository) ListByUserID(userID string, limit int) ([]model.TranscriptMessage, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var messages []model.TranscriptMessage
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Limit(limit).Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("list transcript messages failed: %w", err)
	}
	return messages, nil
}

func (r *TranscriptRepository) ListRecent(limit int) ([]model.TranscriptMessage, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var messages []model.TranscriptMessage
	if err := r.db.Order("created_at DESC").Limit(limit).Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("list recent transcript messages failed: %w", err)
	}
	return messages, nil
}
