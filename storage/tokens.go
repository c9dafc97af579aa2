package storage

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/harut-11/Emotional/apperrors"
	"github.com/harut-11/Emotional/models"
)

// TokenStore Twitter凭证存储
// 单活跃凭证：重新授权时在同一事务内覆盖旧行
type TokenStore struct {
	db *gorm.DB
}

func NewTokenStore(db *gorm.DB) *TokenStore {
	return &TokenStore{db: db}
}

// Save 保存访问令牌，覆盖已有凭证
func (s *TokenStore) Save(token *models.TwitterToken) error {
	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.TwitterToken{}).Error; err != nil {
			return err
		}
		token.ID = 0
		return tx.Create(token).Error
	}); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err)
	}
	return nil
}

// Get 返回当前凭证，未连携时返回ErrNotFound
func (s *TokenStore) Get() (*models.TwitterToken, error) {
	var token models.TwitterToken
	err := s.db.Order("id desc").First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err)
	}
	return &token, nil
}
