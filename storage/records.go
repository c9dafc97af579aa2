package storage

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/harut-11/Emotional/apperrors"
	"github.com/harut-11/Emotional/models"
)

// RecordStore 情绪记录存储
type RecordStore struct {
	db *gorm.DB
}

func NewRecordStore(db *gorm.DB) *RecordStore {
	return &RecordStore{db: db}
}

// Append 插入一条新记录并返回分配的ID
// 记录插入后不可变
func (s *RecordStore) Append(record *models.EmotionRecord) (uint, error) {
	if err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(record).Error
	}); err != nil {
		return 0, fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err)
	}
	return record.ID, nil
}

// ListAll 按创建时间升序返回全部历史记录
func (s *RecordStore) ListAll() ([]models.EmotionRecord, error) {
	var records []models.EmotionRecord
	if err := s.db.Order("created_at asc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err)
	}
	return records, nil
}

// ListRecent 返回最近limit条记录
// 底层按created_at降序取出，返回前反转为时间升序
func (s *RecordStore) ListRecent(limit int) ([]models.EmotionRecord, error) {
	var records []models.EmotionRecord
	if err := s.db.Order("created_at desc").Limit(limit).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err)
	}
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}
