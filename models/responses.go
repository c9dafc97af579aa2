package models

// AnalyzeEmotionResponse 情绪分析响应结构体
type AnalyzeEmotionResponse struct {
	Status        string  `json:"status"`
	Happiness     float64 `json:"happiness"`
	Anger         float64 `json:"anger"`
	RecordID      uint    `json:"record_id"`
	TwitterPosted bool    `json:"twitter_posted"`
}

// EmotionHistoryItem 历史记录响应中的单条记录
type EmotionHistoryItem struct {
	ID          uint    `json:"id"`
	Happiness   float64 `json:"happiness"`
	Anger       float64 `json:"anger"`
	TextContent string  `json:"text_content"`
	ImagePath   *string `json:"image_path"` // /images/<filename> 形式的URL路径
	CreatedAt   string  `json:"created_at"`
}

// EmotionHistoryResponse 历史记录响应结构体
type EmotionHistoryResponse struct {
	History []EmotionHistoryItem `json:"history"`
}

// EmotionPrediction 情绪预测结果
type EmotionPrediction struct {
	PredictionDate     string   `json:"prediction_date"`
	PredictedHappiness float64  `json:"predicted_happiness"`
	PredictedAnger     float64  `json:"predicted_anger"`
	TendencySummary    string   `json:"tendency_summary"`
	Advice             []string `json:"advice"`
}

// PredictEmotionResponse 情绪预测响应结构体
type PredictEmotionResponse struct {
	Status     string            `json:"status"`
	Prediction EmotionPrediction `json:"prediction"`
}

// TwitterStatusResponse Twitter连携状态响应结构体
type TwitterStatusResponse struct {
	Status     string `json:"status"` // linked / unlinked
	ScreenName string `json:"screen_name,omitempty"`
}

// AuthStatusResponse 前端轮询的认证状态响应结构体
type AuthStatusResponse struct {
	Authenticated bool   `json:"authenticated"`
	ScreenName    string `json:"screen_name,omitempty"`
}
