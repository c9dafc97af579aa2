package controllers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/harut-11/Emotional/apperrors"
	"github.com/harut-11/Emotional/models"
)

func postAnalyze(t *testing.T, env *testEnv, fields map[string]string, fileName string, fileContent []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := buildMultipart(t, fields, fileName, fileContent)
	req := httptest.NewRequest(http.MethodPost, "/analyze_emotion", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func TestAnalyzeEmotionRequiresTextOrImage(t *testing.T) {
	env := newTestEnv(t)

	w := postAnalyze(t, env, map[string]string{}, "", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// 没有文件落盘，也没有记录写入
	require.Zero(t, uploadedFileCount(t, env.uploadDir))
	records, err := env.records.ListAll()
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestAnalyzeEmotionRejectsUnsupportedExtension(t *testing.T) {
	env := newTestEnv(t)

	w := postAnalyze(t, env, map[string]string{"text_content": "配图"}, "picture.bmp", []byte("bmp-bytes"))
	require.Equal(t, http.StatusBadRequest, w.Code)

	require.Zero(t, uploadedFileCount(t, env.uploadDir))
	records, err := env.records.ListAll()
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestAnalyzeEmotionTextOnly(t *testing.T) {
	env := newTestEnv(t)
	env.scorer.happiness = 9.0
	env.scorer.anger = 0.0

	w := postAnalyze(t, env, map[string]string{"text_content": "最高の一日だった"}, "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.AnalyzeEmotionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "success", resp.Status)
	require.Equal(t, 9.0, resp.Happiness)
	require.Equal(t, 0.0, resp.Anger)
	require.NotZero(t, resp.RecordID)
	// 未连携时不发推
	require.False(t, resp.TwitterPosted)
	require.False(t, env.publisher.called)

	records, err := env.records.ListAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "最高の一日だった", records[0].TextContent)
	require.Nil(t, records[0].ImagePath)
}

func TestAnalyzeEmotionSavesImageWithRandomName(t *testing.T) {
	env := newTestEnv(t)

	w := postAnalyze(t, env, map[string]string{}, "my photo.PNG", []byte("png-bytes"))
	require.Equal(t, http.StatusOK, w.Code)

	require.Equal(t, 1, uploadedFileCount(t, env.uploadDir))

	records, err := env.records.ListAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].ImagePath)
	// 文件名是随机生成的，不沿用用户提供的名字
	require.NotContains(t, *records[0].ImagePath, "my photo")
}

func TestAnalyzeEmotionScorerFailureRemovesImage(t *testing.T) {
	env := newTestEnv(t)
	env.scorer.err = apperrors.ErrAnalysisFailed

	w := postAnalyze(t, env, map[string]string{"text_content": "写真付き"}, "photo.jpg", []byte("jpg-bytes"))
	require.Equal(t, http.StatusInternalServerError, w.Code)

	// 分析失败时删除已保存的图片，也不留记录
	require.Zero(t, uploadedFileCount(t, env.uploadDir))
	records, err := env.records.ListAll()
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestAnalyzeEmotionPublishFailureDoesNotFailRequest(t *testing.T) {
	env := newTestEnv(t)
	env.scorer.happiness = 6.0
	env.scorer.anger = 2.0
	env.publisher.err = errors.New("rate limited")

	require.NoError(t, env.tokens.Save(&models.TwitterToken{
		ScreenName:        "archive_user",
		AccessToken:       "token",
		AccessTokenSecret: "secret",
	}))

	w := postAnalyze(t, env, map[string]string{
		"text_content":    "投稿テスト",
		"post_to_twitter": "true",
	}, "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.AnalyzeEmotionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	// 发推失败只降级twitter_posted标志，记录本身已保存
	require.Equal(t, "success", resp.Status)
	require.False(t, resp.TwitterPosted)
	require.True(t, env.publisher.called)

	records, err := env.records.ListAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestAnalyzeEmotionPostsWhenLinked(t *testing.T) {
	env := newTestEnv(t)
	env.scorer.happiness = 8.5
	env.scorer.anger = 0.5

	require.NoError(t, env.tokens.Save(&models.TwitterToken{
		ScreenName:        "archive_user",
		AccessToken:       "token",
		AccessTokenSecret: "secret",
	}))

	w := postAnalyze(t, env, map[string]string{
		"text_content":    "素晴らしい一日",
		"post_to_twitter": "true",
	}, "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.AnalyzeEmotionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.TwitterPosted)
	require.Contains(t, env.publisher.lastMessage, "素晴らしい一日")
	require.Contains(t, env.publisher.lastMessage, "#感情アーカイブ")
}

func TestEmotionHistoryRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	env.scorer.happiness = 9.0
	env.scorer.anger = 0.0

	w := postAnalyze(t, env, map[string]string{"text_content": "最高の一日だった"}, "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/emotion_history", nil)
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.EmotionHistoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.History, 1)
	// 数值字段与写入时一致
	require.Equal(t, 9.0, resp.History[0].Happiness)
	require.Equal(t, 0.0, resp.History[0].Anger)
	require.Equal(t, "最高の一日だった", resp.History[0].TextContent)
	require.Nil(t, resp.History[0].ImagePath)
}

func TestEmotionHistoryImagePathIsURL(t *testing.T) {
	env := newTestEnv(t)

	w := postAnalyze(t, env, map[string]string{}, "photo.jpeg", []byte("jpeg-bytes"))
	require.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/emotion_history", nil)
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	var resp models.EmotionHistoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.History, 1)
	require.NotNil(t, resp.History[0].ImagePath)
	require.Contains(t, *resp.History[0].ImagePath, "/images/")
}

func TestPredictEmotionWithoutHistory(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/predict_emotion", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPredictEmotionSuccess(t *testing.T) {
	env := newTestEnv(t)
	env.predictor.prediction = &models.EmotionPrediction{
		PredictionDate:     "2025-10-17",
		PredictedHappiness: 7.2,
		PredictedAnger:     1.5,
		TendencySummary:    "幸福度保持稳定。",
		Advice:             []string{"保持散步习惯。", "安排休息时间。"},
	}

	w := postAnalyze(t, env, map[string]string{"text_content": "記録"}, "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/predict_emotion", nil)
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.PredictEmotionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "success", resp.Status)
	require.Equal(t, 7.2, resp.Prediction.PredictedHappiness)
	require.Len(t, resp.Prediction.Advice, 2)
}

func TestPredictEmotionForecastFailure(t *testing.T) {
	env := newTestEnv(t)
	env.predictor.err = apperrors.ErrMalformedForecast

	w := postAnalyze(t, env, map[string]string{"text_content": "記録"}, "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/predict_emotion", nil)
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestServeImageNotFound(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/images/nope.png", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestServeImageReturnsBytes(t *testing.T) {
	env := newTestEnv(t)

	w := postAnalyze(t, env, map[string]string{}, "photo.gif", []byte("gif-bytes"))
	require.Equal(t, http.StatusOK, w.Code)

	var analyzeResp models.AnalyzeEmotionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &analyzeResp))

	var historyResp models.EmotionHistoryResponse
	req := httptest.NewRequest(http.MethodGet, "/emotion_history", nil)
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &historyResp))
	require.Len(t, historyResp.History, 1)
	require.NotNil(t, historyResp.History[0].ImagePath)

	req = httptest.NewRequest(http.MethodGet, *historyResp.History[0].ImagePath, nil)
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "gif-bytes", w.Body.String())
}
