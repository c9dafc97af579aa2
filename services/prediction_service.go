package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"github.com/harut-11/Emotional/apperrors"
	"github.com/harut-11/Emotional/config"
	"github.com/harut-11/Emotional/models"
)

// 预测时最多使用的历史条数
const PredictionHistoryLimit = 30

// Predictor 情绪预测接口
type Predictor interface {
	PredictEmotion(ctx context.Context, history []models.EmotionRecord) (*models.EmotionPrediction, error)
}

// PredictionService 基于历史记录生成未来3天的情绪预报与建议
type PredictionService struct {
	client *GeminiClient
}

func NewPredictionService(client *GeminiClient) *PredictionService {
	return &PredictionService{client: client}
}

const predictPrompt = `你是分析时间序列数据和人类情绪模式的数据科学家兼心理咨询师。
请分析提供的历史情绪数据（JSON格式），以JSON格式输出今后3天内的用户「情绪天气预报」。

【重要】分析指南:
1.  识别趋势: 从历史数据的幸福度和愤怒度推移中，找出周期性（例: 周末幸福度上升）、近期趋势（例: 愤怒度呈上升态势）、特定事件（例: 愤怒度骤升的日期）。
2.  有依据的预测: 基于识别出的趋势，预测今后3天内（数据最后一天的次日起）情绪的平均状态。预测评分范围为0.0到10.0（浮点数）。
3.  具体可执行的建议: 基于预测结果，提出2到3条帮助用户改善情绪状态的、具体可执行（actionable）的建议。（例: 「愤怒度可能升高，请安排深呼吸的时间」「幸福度较高，不妨尝试新事物」）
4.  说明依据: 在tendency_summary中简明说明预测的依据（为什么会得出该预测）。

--- 输出格式示例 ---
{
  "prediction_date": "距今约3天后的预测日期（例: 2025-10-17）",
  "predicted_happiness": 7.2,
  "predicted_anger": 1.5,
  "tendency_summary": "从历史数据看幸福度保持稳定，3天后愤怒度可能小幅上升。",
  "advice": [
    "(例: 针对预期的愤怒度上升，3天后不要勉强自己，安排休息。)",
    "(例: 为保持幸福度，加入散步或兴趣爱好的时间，注意排解压力。)"
  ]
}

--- 历史情绪数据 ---
%s`

// historyPoint 传给模型的单条历史数据
type historyPoint struct {
	Date      string  `json:"date"`
	Happiness float64 `json:"happiness"`
	Anger     float64 `json:"anger"`
}

// PredictEmotion 调用一次模型生成预测，history须为时间升序且非空
func (s *PredictionService) PredictEmotion(ctx context.Context, history []models.EmotionRecord) (*models.EmotionPrediction, error) {
	if len(history) == 0 {
		return nil, apperrors.ErrInsufficientData
	}
	if len(history) > PredictionHistoryLimit {
		history = history[len(history)-PredictionHistoryLimit:]
	}

	points := make([]historyPoint, 0, len(history))
	for _, record := range history {
		points = append(points, historyPoint{
			Date:      record.CreatedAt.Format("2006-01-02 15:04:05"),
			Happiness: record.Happiness,
			Anger:     record.Anger,
		})
	}

	historyJSON, err := json.Marshal(points)
	if err != nil {
		return nil, fmt.Errorf("%w: 历史数据序列化失败: %v", apperrors.ErrMalformedForecast, err)
	}

	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(fmt.Sprintf(predictPrompt, historyJSON))},
		},
	}

	callCtx, cancel := context.WithTimeout(ctx, llmTimeout)
	defer cancel()

	response, err := s.client.Model.GenerateContent(callCtx, messages, llms.WithTemperature(0.3))
	if err != nil {
		config.Logger.Errorw("情绪预测调用失败", "error", err)
		return nil, fmt.Errorf("%w: %v", apperrors.ErrMalformedForecast, err)
	}
	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("%w: 模型未返回内容", apperrors.ErrMalformedForecast)
	}

	return parsePrediction(response.Choices[0].Content)
}

// parsePrediction 解析预测JSON并校验必要字段
func parsePrediction(content string) (*models.EmotionPrediction, error) {
	var result struct {
		PredictionDate     string   `json:"prediction_date"`
		PredictedHappiness *float64 `json:"predicted_happiness"`
		PredictedAnger     *float64 `json:"predicted_anger"`
		TendencySummary    string   `json:"tendency_summary"`
		Advice             []string `json:"advice"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &result); err != nil {
		return nil, fmt.Errorf("%w: 响应解析失败: %v", apperrors.ErrMalformedForecast, err)
	}
	if result.PredictedHappiness == nil || result.PredictedAnger == nil ||
		result.TendencySummary == "" || len(result.Advice) == 0 {
		return nil, fmt.Errorf("%w: 响应缺少必要字段", apperrors.ErrMalformedForecast)
	}

	return &models.EmotionPrediction{
		PredictionDate:     result.PredictionDate,
		PredictedHappiness: clampScore(*result.PredictedHappiness),
		PredictedAnger:     clampScore(*result.PredictedAnger),
		TendencySummary:    result.TendencySummary,
		Advice:             result.Advice,
	}, nil
}
