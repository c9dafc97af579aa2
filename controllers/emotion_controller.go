package controllers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/harut-11/Emotional/apperrors"
	"github.com/harut-11/Emotional/config"
	"github.com/harut-11/Emotional/models"
	"github.com/harut-11/Emotional/services"
	"github.com/harut-11/Emotional/storage"
	"github.com/harut-11/Emotional/utils"
)

// EmotionController 情绪分析・历史・预测控制器
type EmotionController struct {
	records   *storage.RecordStore
	tokens    *storage.TokenStore
	scorer    services.Scorer
	predictor services.Predictor
	publisher services.Publisher
	uploadDir string
}

func NewEmotionController(
	records *storage.RecordStore,
	tokens *storage.TokenStore,
	scorer services.Scorer,
	predictor services.Predictor,
	publisher services.Publisher,
	uploadDir string,
) *EmotionController {
	return &EmotionController{
		records:   records,
		tokens:    tokens,
		scorer:    scorer,
		predictor: predictor,
		publisher: publisher,
		uploadDir: uploadDir,
	}
}

// AnalyzeEmotion 分析文本和图片的情绪并写入记录
// 流程：保存图片 → 模型打分 → 写记录 → 可选发推，后续步骤失败时删除已保存的图片
func (ec *EmotionController) AnalyzeEmotion(c *gin.Context) {
	textContent := c.PostForm("text_content")
	shouldPost := strings.EqualFold(c.PostForm("post_to_twitter"), "true")

	file, err := c.FormFile("file")
	if err != nil {
		file = nil
	}

	if textContent == "" && file == nil {
		respondError(c, apperrors.ErrValidation, "需要提供文本或图片")
		return
	}

	// 1. 图片保存（在写记录之前）
	var savedFilename string
	var savePath string
	if file != nil {
		ext, ok := utils.ImageExt(file.Filename)
		if !ok {
			respondError(c, apperrors.ErrValidation, "不支持的图片格式")
			return
		}

		savedFilename = utils.NewImageFilename(ext)
		savePath = filepath.Join(ec.uploadDir, savedFilename)
		if err := c.SaveUploadedFile(file, savePath); err != nil {
			config.Logger.Errorw("图片保存失败", "error", err, "path", savePath)
			respondError(c, apperrors.ErrStorageUnavailable, "图片保存失败")
			return
		}
	}

	// 2. 模型打分
	happiness, anger, err := ec.scorer.AnalyzeEmotion(c.Request.Context(), textContent, savePath)
	if err != nil {
		config.Logger.Errorw("情绪分析失败", "error", err)
		ec.removeSavedImage(savePath)
		respondError(c, err, "情绪分析失败，请检查输入内容或API配置")
		return
	}

	// 3. 写入记录
	record := &models.EmotionRecord{
		TextContent: textContent,
		Happiness:   happiness,
		Anger:       anger,
	}
	if savedFilename != "" {
		record.ImagePath = &savedFilename
	}

	recordID, err := ec.records.Append(record)
	if err != nil {
		config.Logger.Errorw("情绪记录保存失败", "error", err)
		ec.removeSavedImage(savePath)
		respondError(c, err, "情绪记录保存失败")
		return
	}

	// 4. 可选的Twitter投稿，失败不影响本次请求
	twitterPosted := false
	if shouldPost {
		twitterPosted = ec.postToTwitter(c, textContent, happiness, anger, savePath)
	}

	c.JSON(http.StatusOK, models.AnalyzeEmotionResponse{
		Status:        "success",
		Happiness:     happiness,
		Anger:         anger,
		RecordID:      recordID,
		TwitterPosted: twitterPosted,
	})
}

// postToTwitter 尝试发推，未连携或失败时返回false
func (ec *EmotionController) postToTwitter(c *gin.Context, text string, happiness, anger float64, imagePath string) bool {
	token, err := ec.tokens.Get()
	if err != nil {
		return false
	}

	message := services.ComposeTweet(text, happiness, anger)
	if err := ec.publisher.Post(c.Request.Context(), token, message, imagePath); err != nil {
		config.Logger.Warnw("Twitter投稿失败", "error", err)
		return false
	}
	return true
}

// removeSavedImage 补偿动作：删除本次请求已保存的图片，尽力而为
func (ec *EmotionController) removeSavedImage(savePath string) {
	if savePath == "" {
		return
	}
	if err := os.Remove(savePath); err != nil && !os.IsNotExist(err) {
		config.Logger.Warnw("图片删除失败", "error", err, "path", savePath)
	}
}

// GetEmotionHistory 按时间升序返回全部情绪历史
func (ec *EmotionController) GetEmotionHistory(c *gin.Context) {
	records, err := ec.records.ListAll()
	if err != nil {
		config.Logger.Errorw("历史记录获取失败", "error", err)
		respondError(c, err, "历史记录获取失败")
		return
	}

	history := make([]models.EmotionHistoryItem, 0, len(records))
	for _, record := range records {
		item := models.EmotionHistoryItem{
			ID:          record.ID,
			Happiness:   record.Happiness,
			Anger:       record.Anger,
			TextContent: record.TextContent,
			CreatedAt:   record.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if record.ImagePath != nil {
			url := "/images/" + *record.ImagePath
			item.ImagePath = &url
		}
		history = append(history, item)
	}

	c.JSON(http.StatusOK, models.EmotionHistoryResponse{History: history})
}

// PredictEmotion 基于最近的历史记录生成情绪预报
func (ec *EmotionController) PredictEmotion(c *gin.Context) {
	history, err := ec.records.ListRecent(services.PredictionHistoryLimit)
	if err != nil {
		config.Logger.Errorw("历史记录获取失败", "error", err)
		respondError(c, err, "历史记录获取失败")
		return
	}

	if len(history) == 0 {
		respondError(c, apperrors.ErrInsufficientData, "预测所需的情绪数据不足（至少需要1条）")
		return
	}

	prediction, err := ec.predictor.PredictEmotion(c.Request.Context(), history)
	if err != nil {
		config.Logger.Errorw("情绪预测失败", "error", err)
		respondError(c, err, "情绪预测失败，请确认数据量或API配置")
		return
	}

	c.JSON(http.StatusOK, models.PredictEmotionResponse{
		Status:     "success",
		Prediction: *prediction,
	})
}
