package models

import "time"

// TwitterToken Twitter访问令牌模型
// 单行表，重新授权时覆盖旧凭证（最近一次登录生效）
type TwitterToken struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	ScreenName        string    `gorm:"type:varchar(100)" json:"screen_name"`
	AccessToken       string    `gorm:"type:varchar(255);not null" json:"-"`
	AccessTokenSecret string    `gorm:"type:varchar(255);not null" json:"-"`
	UpdatedAt         time.Time `json:"updated_at"`
}
