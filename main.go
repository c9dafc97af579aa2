package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/harut-11/Emotional/config"
	"github.com/harut-11/Emotional/controllers"
	"github.com/harut-11/Emotional/middleware"
	"github.com/harut-11/Emotional/routes"
	"github.com/harut-11/Emotional/services"
	"github.com/harut-11/Emotional/storage"
)

func main() {
	// 初始化日志
	if err := config.InitLogger(); err != nil {
		log.Fatalf("无法初始化日志: %v", err)
	}
	defer config.Logger.Sync()

	// 加载配置
	conf, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("无法加载配置: %v", err)
	}

	// 创建上传目录
	if err := os.MkdirAll(conf.UploadDir, 0o755); err != nil {
		log.Fatalf("无法创建上传目录: %v", err)
	}

	// 初始化数据库
	db, err := config.InitDB(conf)
	if err != nil {
		log.Fatalf("无法初始化数据库: %v", err)
	}

	// 初始化OAuth临时状态存储：配置了Redis时用Redis，否则退化为内存存储
	var stateStore storage.RequestTokenStore
	if conf.RedisHost != "" {
		redisClient, err := config.InitRedis(conf)
		if err != nil {
			log.Fatalf("无法初始化Redis: %v", err)
		}
		stateStore = storage.NewRedisRequestTokenStore(redisClient)
	} else {
		config.Logger.Warnw("未配置Redis，OAuth临时状态使用内存存储")
		stateStore = storage.NewMemoryRequestTokenStore()
	}

	// 初始化Gemini客户端
	geminiClient, err := services.NewGeminiClient(conf.GeminiAPIKey, conf.GeminiAPIEndpoint, conf.GeminiModel)
	if err != nil {
		log.Fatalf("无法初始化Gemini客户端: %v", err)
	}

	// 组装各层依赖
	recordStore := storage.NewRecordStore(db)
	tokenStore := storage.NewTokenStore(db)
	emotionService := services.NewEmotionService(geminiClient)
	predictionService := services.NewPredictionService(geminiClient)
	twitterService := services.NewTwitterService(conf.TwitterAPIKey, conf.TwitterAPISecret, conf.TwitterCallbackURL)

	emotionController := controllers.NewEmotionController(
		recordStore, tokenStore, emotionService, predictionService, twitterService, conf.UploadDir)
	authController := controllers.NewAuthController(twitterService, tokenStore, stateStore)
	imageController := controllers.NewImageController(conf.UploadDir)

	// 设置Gin模式
	if conf.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建Gin引擎
	r := gin.New()

	// 设置中间件
	middleware.SetupMiddleware(r, conf.CORSOrigin)

	// 注册路由
	routes.RegisterRoutes(r, emotionController, authController, imageController)

	// 创建HTTP服务器
	srv := &http.Server{
		Addr:    ":" + conf.ServerPort,
		Handler: r,
	}

	// 在goroutine中启动服务器
	go func() {
		log.Printf("启动服务器，监听端口: %s", conf.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("服务器启动失败: %v", err)
		}
	}()

	// 等待中断信号以实现优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务器关闭失败: %v", err)
	}

	log.Println("服务器已关闭")
}
