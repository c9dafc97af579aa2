package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/dghubble/oauth1"
	twitterOAuth "github.com/dghubble/oauth1/twitter"

	"github.com/harut-11/Emotional/models"
)

const (
	verifyCredentialsURL = "https://api.twitter.com/1.1/account/verify_credentials.json"
	mediaUploadURL       = "https://upload.twitter.com/1.1/media/upload.json"
	createTweetURL       = "https://api.twitter.com/2/tweets"

	// 推文长度上限（按字符数计）
	tweetMaxRunes = 280

	// Twitter API调用超时
	twitterTimeout = 15 * time.Second
)

// 推文中附带的固定后缀：话题标签＋情绪评分（面向用户的文案用日语）
const tweetSuffixFormat = "\n\n#感情アーカイブ\nポジティブ: %.1f/10.0, ネガティブ: %.1f/10.0"

// Authenticator OAuth1握手接口
type Authenticator interface {
	StartAuth(ctx context.Context) (authURL, requestToken, requestSecret string, err error)
	CompleteAuth(ctx context.Context, requestToken, requestSecret, verifier string) (*models.TwitterToken, error)
}

// Publisher 推文发布接口
type Publisher interface {
	Post(ctx context.Context, token *models.TwitterToken, message, imagePath string) error
}

// TwitterService Twitter OAuth1握手与推文发布
type TwitterService struct {
	oauthConfig *oauth1.Config
}

func NewTwitterService(apiKey, apiSecret, callbackURL string) *TwitterService {
	return &TwitterService{
		oauthConfig: &oauth1.Config{
			ConsumerKey:    apiKey,
			ConsumerSecret: apiSecret,
			CallbackURL:    callbackURL,
			Endpoint:       twitterOAuth.AuthorizeEndpoint,
		},
	}
}

// StartAuth 获取临时request token并返回用户授权页URL
func (s *TwitterService) StartAuth(ctx context.Context) (string, string, string, error) {
	requestToken, requestSecret, err := s.oauthConfig.RequestToken()
	if err != nil {
		return "", "", "", fmt.Errorf("获取request token失败: %w", err)
	}

	authURL, err := s.oauthConfig.AuthorizationURL(requestToken)
	if err != nil {
		return "", "", "", fmt.Errorf("构造授权URL失败: %w", err)
	}

	return authURL.String(), requestToken, requestSecret, nil
}

// CompleteAuth 用verifier换取访问令牌，并取回账号的screen_name
func (s *TwitterService) CompleteAuth(ctx context.Context, requestToken, requestSecret, verifier string) (*models.TwitterToken, error) {
	accessToken, accessSecret, err := s.oauthConfig.AccessToken(requestToken, requestSecret, verifier)
	if err != nil {
		return nil, fmt.Errorf("换取access token失败: %w", err)
	}

	token := &models.TwitterToken{
		AccessToken:       accessToken,
		AccessTokenSecret: accessSecret,
	}

	screenName, err := s.verifyCredentials(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("获取账号信息失败: %w", err)
	}
	token.ScreenName = screenName

	return token, nil
}

// Post 发布一条推文，有图片时先走v1.1媒体上传再用v2接口发推
func (s *TwitterService) Post(ctx context.Context, token *models.TwitterToken, message, imagePath string) error {
	callCtx, cancel := context.WithTimeout(ctx, twitterTimeout)
	defer cancel()
	client := s.apiClient(callCtx, token)

	var mediaIDs []string
	if imagePath != "" {
		mediaID, err := s.uploadMedia(callCtx, client, imagePath)
		if err != nil {
			return fmt.Errorf("媒体上传失败: %w", err)
		}
		mediaIDs = []string{mediaID}
	}

	payload := map[string]interface{}{"text": message}
	if len(mediaIDs) > 0 {
		payload["media"] = map[string]interface{}{"media_ids": mediaIDs}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, createTweetURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("发推请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("发推失败: status=%d body=%s", resp.StatusCode, detail)
	}
	return nil
}

// apiClient 返回带OAuth1签名的HTTP客户端
func (s *TwitterService) apiClient(ctx context.Context, token *models.TwitterToken) *http.Client {
	client := s.oauthConfig.Client(ctx, oauth1.NewToken(token.AccessToken, token.AccessTokenSecret))
	client.Timeout = twitterTimeout
	return client
}

// verifyCredentials 调用v1.1接口确认凭证有效并取得screen_name
func (s *TwitterService) verifyCredentials(ctx context.Context, token *models.TwitterToken) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, twitterTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodGet, verifyCredentialsURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := s.apiClient(callCtx, token).Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("凭证校验失败: status=%d", resp.StatusCode)
	}

	var user struct {
		ScreenName string `json:"screen_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return "", err
	}
	return user.ScreenName, nil
}

// uploadMedia v1.1媒体上传，返回media_id_string
func (s *TwitterService) uploadMedia(ctx context.Context, client *http.Client, imagePath string) (string, error) {
	file, err := os.Open(imagePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("media", filepath.Base(imagePath))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, mediaUploadURL, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("status=%d body=%s", resp.StatusCode, detail)
	}

	var media struct {
		MediaIDString string `json:"media_id_string"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&media); err != nil {
		return "", err
	}
	return media.MediaIDString, nil
}

// ComposeTweet 组装推文正文：原文＋固定后缀
// 原文超长时按字符截断并加省略号，保证整体不超过长度上限
func ComposeTweet(text string, happiness, anger float64) string {
	suffix := fmt.Sprintf(tweetSuffixFormat, happiness, anger)

	available := tweetMaxRunes - len([]rune(suffix))
	runes := []rune(text)
	if len(runes) > available {
		runes = append(runes[:available-1], '…')
	}
	return string(runes) + suffix
}
