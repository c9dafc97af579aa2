package controllers

import (
	"fmt"
	"html"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harut-11/Emotional/config"
	"github.com/harut-11/Emotional/models"
	"github.com/harut-11/Emotional/services"
	"github.com/harut-11/Emotional/storage"
)

// AuthController Twitter OAuth握手控制器
type AuthController struct {
	twitter services.Authenticator
	tokens  *storage.TokenStore
	state   storage.RequestTokenStore
}

func NewAuthController(twitter services.Authenticator, tokens *storage.TokenStore, state storage.RequestTokenStore) *AuthController {
	return &AuthController{
		twitter: twitter,
		tokens:  tokens,
		state:   state,
	}
}

// TwitterAuth 开始Twitter认证：获取request token后跳转到授权页
func (ac *AuthController) TwitterAuth(c *gin.Context) {
	authURL, requestToken, requestSecret, err := ac.twitter.StartAuth(c.Request.Context())
	if err != nil {
		config.Logger.Errorw("Twitter认证开始失败", "error", err)
		renderErrorPage(c, fmt.Sprintf("Twitter认证错误: %v", err))
		return
	}

	// request token暂存到带TTL的临时存储，回调时取回
	if err := ac.state.Put(c.Request.Context(), requestToken, requestSecret); err != nil {
		config.Logger.Errorw("request token暂存失败", "error", err)
		renderErrorPage(c, "Twitter认证错误: 临时凭证保存失败")
		return
	}

	c.Redirect(http.StatusFound, authURL)
}

// TwitterCallback Twitter认证回调：用verifier换取访问令牌并落库
// 任何一步失败都丢弃临时状态，不留下半写入的凭证
func (ac *AuthController) TwitterCallback(c *gin.Context) {
	verifier := c.Query("oauth_verifier")
	requestToken := c.Query("oauth_token")
	if verifier == "" || requestToken == "" {
		renderErrorPage(c, "Twitter认证回调错误: 缺少verifier参数")
		return
	}

	requestSecret, err := ac.state.Take(c.Request.Context(), requestToken)
	if err != nil {
		config.Logger.Warnw("request token不存在或已过期", "error", err)
		renderErrorPage(c, "Twitter认证回调错误: 认证会话不存在或已过期，请重新开始认证")
		return
	}

	token, err := ac.twitter.CompleteAuth(c.Request.Context(), requestToken, requestSecret, verifier)
	if err != nil {
		config.Logger.Errorw("access token交换失败", "error", err)
		renderErrorPage(c, fmt.Sprintf("Twitter认证回调错误: %v", err))
		return
	}

	// 覆盖旧凭证（最近一次登录生效）
	if err := ac.tokens.Save(token); err != nil {
		config.Logger.Errorw("凭证保存失败", "error", err)
		renderErrorPage(c, "Twitter认证回调错误: 凭证保存失败")
		return
	}

	renderSuccessPage(c, token.ScreenName)
}

// TwitterStatus Twitter连携状态检查
func (ac *AuthController) TwitterStatus(c *gin.Context) {
	token, err := ac.tokens.Get()
	if err != nil {
		c.JSON(http.StatusOK, models.TwitterStatusResponse{Status: "unlinked"})
		return
	}
	c.JSON(http.StatusOK, models.TwitterStatusResponse{
		Status:     "linked",
		ScreenName: token.ScreenName,
	})
}

// AuthStatus 前端轮询的认证状态检查
func (ac *AuthController) AuthStatus(c *gin.Context) {
	token, err := ac.tokens.Get()
	if err != nil {
		c.JSON(http.StatusOK, models.AuthStatusResponse{Authenticated: false})
		return
	}
	c.JSON(http.StatusOK, models.AuthStatusResponse{
		Authenticated: true,
		ScreenName:    token.ScreenName,
	})
}

func renderErrorPage(c *gin.Context, message string) {
	body := fmt.Sprintf(
		"<html><body><h1>认证失败</h1><p>%s</p></body></html>",
		html.EscapeString(message),
	)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(body))
}

func renderSuccessPage(c *gin.Context, screenName string) {
	body := fmt.Sprintf(
		"<html><body><h1>认证成功</h1><p>已连携账号: @%s</p><p>可以关闭本窗口。</p></body></html>",
		html.EscapeString(screenName),
	)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(body))
}
