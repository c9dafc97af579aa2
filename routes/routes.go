package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/harut-11/Emotional/controllers"
)

func RegisterRoutes(
	r *gin.Engine,
	emotionController *controllers.EmotionController,
	authController *controllers.AuthController,
	imageController *controllers.ImageController,
) {
	// 情绪分析・历史・预测
	r.POST("/analyze_emotion", emotionController.AnalyzeEmotion)
	r.GET("/emotion_history", emotionController.GetEmotionHistory)
	r.GET("/predict_emotion", emotionController.PredictEmotion)

	// Twitter OAuth握手与状态
	r.GET("/auth/twitter", authController.TwitterAuth)
	r.GET("/callback/twitter", authController.TwitterCallback)
	r.GET("/twitter_status", authController.TwitterStatus)
	r.GET("/auth/status", authController.AuthStatus)

	// 已上传图片
	r.GET("/images/:filename", imageController.ServeImage)

	// 测试路由
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
}
