package models

import "time"

// EmotionRecord 情绪记录模型
// 记录创建后不可变，没有更新接口
type EmotionRecord struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	TextContent string    `gorm:"type:varchar(500)" json:"text_content"`
	Happiness   float64   `gorm:"not null" json:"happiness"`
	Anger       float64   `gorm:"not null" json:"anger"`
	ImagePath   *string   `gorm:"type:varchar(255)" json:"image_path"` // 保存的图片文件名，无图片时为空
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}
