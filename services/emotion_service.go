package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"

	"github.com/harut-11/Emotional/apperrors"
	"github.com/harut-11/Emotional/config"
)

// 情绪评分范围
const (
	ScoreMin = 0.0
	ScoreMax = 10.0
)

// 外部模型调用的统一超时，超时视为该调用失败
const llmTimeout = 60 * time.Second

// Scorer 情绪打分接口
type Scorer interface {
	AnalyzeEmotion(ctx context.Context, textContent, imagePath string) (happiness, anger float64, err error)
}

// EmotionService 调用Gemini对文本和图片进行情绪打分
type EmotionService struct {
	client *GeminiClient
}

func NewEmotionService(client *GeminiClient) *EmotionService {
	return &EmotionService{client: client}
}

const analyzePrompt = `你是深刻理解人类情感的心理分析专家。
请综合分析提供的文本和图片，在0.0到10.0的范围内（浮点数）准确评估作者的「幸福度（happiness）」和「愤怒度（anger）」。

【重要】分析指南:
1.  情绪定义:
    * 幸福度 (happiness): 不仅是表面的喜悦，满足感、成就感、安心、感激、平静、期待感也计入幸福度。
    * 愤怒度 (anger): 不仅是强烈的愤怒，烦躁、不满、失望、焦虑、不快、对不公的抵触也计入愤怒度。
2.  综合语境分析:
    * 文本和图片同时存在时，优先考察二者的关联性。
    * [互补]: 图片强化文本含义时（例: 文本「最棒的一天」＋图片「笑脸」），加强评分。
    * [矛盾・反讽]: 文本与图片矛盾时（例: 文本「糟透了」＋图片「满面笑容」），考虑反讽或逞强的可能，推测隐藏的真实情绪。此时以文本内容为主，同时把图片表情体现的复杂性反映到评分中。
    * [背景线索]: 图片中的背景、物品、场景（例: 凌乱的房间、美丽的风景、餐食）也是判断情绪状态的重要线索。
3.  语义解读:
    * 不要停留在文本的表面词汇，从整体语境读取隐含情绪（implicit meaning）。
    * 只提供了文本或图片其中之一时，基于已有的单一信息做最大限度的深入分析。

--- 输出格式 ---
严格按以下JSON结构输出，评分必须是保留一位小数的数值（float）:
{"happiness": 0.0, "anger": 0.0}

--- 输入信息 ---
文本: %s`

// AnalyzeEmotion 对文本与可选图片做一次情绪打分，返回裁剪到范围内的评分
// 调用方需保证文本和图片至少有一项
func (s *EmotionService) AnalyzeEmotion(ctx context.Context, textContent, imagePath string) (float64, float64, error) {
	parts := []llms.ContentPart{
		llms.TextPart(fmt.Sprintf(analyzePrompt, textContent)),
	}

	if imagePath != "" {
		data, err := os.ReadFile(imagePath)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: 读取图片失败: %v", apperrors.ErrAnalysisFailed, err)
		}
		parts = append(parts, llms.BinaryPart(imageMIMEType(imagePath), data))
	}

	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: parts,
		},
	}

	callCtx, cancel := context.WithTimeout(ctx, llmTimeout)
	defer cancel()

	response, err := s.client.Model.GenerateContent(callCtx, messages, llms.WithTemperature(0.2))
	if err != nil {
		config.Logger.Errorw("情绪分析调用失败", "error", err)
		return 0, 0, fmt.Errorf("%w: %v", apperrors.ErrAnalysisFailed, err)
	}
	if len(response.Choices) == 0 {
		return 0, 0, fmt.Errorf("%w: 模型未返回内容", apperrors.ErrAnalysisFailed)
	}

	return parseEmotionScores(response.Choices[0].Content)
}

// parseEmotionScores 解析模型返回的JSON并裁剪评分范围
func parseEmotionScores(content string) (float64, float64, error) {
	var result struct {
		Happiness *float64 `json:"happiness"`
		Anger     *float64 `json:"anger"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &result); err != nil {
		return 0, 0, fmt.Errorf("%w: 响应解析失败: %v", apperrors.ErrAnalysisFailed, err)
	}
	if result.Happiness == nil || result.Anger == nil {
		return 0, 0, fmt.Errorf("%w: 响应缺少评分字段", apperrors.ErrAnalysisFailed)
	}

	return clampScore(*result.Happiness), clampScore(*result.Anger), nil
}

// clampScore 把评分裁剪到[ScoreMin, ScoreMax]，对范围内的值是恒等变换
func clampScore(v float64) float64 {
	if v < ScoreMin {
		return ScoreMin
	}
	if v > ScoreMax {
		return ScoreMax
	}
	return v
}

func imageMIMEType(path string) string {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
