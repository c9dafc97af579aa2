package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config 存储所有配置信息
type Config struct {
	Environment string `mapstructure:"ENVIRONMENT"`
	ServerPort  string `mapstructure:"SERVER_PORT"`
	CORSOrigin  string `mapstructure:"CORS_ORIGIN"`

	// 数据库配置（SQLite文件路径）
	DBPath string `mapstructure:"DB_PATH"`

	// 图片上传目录
	UploadDir string `mapstructure:"UPLOAD_DIR"`

	// Redis配置
	RedisHost     string `mapstructure:"REDIS_HOST"`
	RedisPort     string `mapstructure:"REDIS_PORT"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	// Gemini API配置（OpenAI兼容接口）
	GeminiAPIKey      string `mapstructure:"GEMINI_API_KEY"`
	GeminiAPIEndpoint string `mapstructure:"GEMINI_API_ENDPOINT"`
	GeminiModel       string `mapstructure:"GEMINI_MODEL"`

	// Twitter OAuth1配置
	TwitterAPIKey      string `mapstructure:"TWITTER_API_KEY"`
	TwitterAPISecret   string `mapstructure:"TWITTER_API_SECRET"`
	TwitterCallbackURL string `mapstructure:"TWITTER_CALLBACK_URL"`
}

// LoadConfig 从环境变量或配置文件加载配置
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "5000")
	viper.SetDefault("DB_PATH", "emotion_archive.db")
	viper.SetDefault("UPLOAD_DIR", "uploads/images")
	viper.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	viper.SetDefault("CORS_ORIGIN", "http://127.0.0.1:5500")
	viper.SetDefault("TWITTER_CALLBACK_URL", "http://127.0.0.1:5000/callback/twitter")

	err = viper.ReadInConfig()
	if err != nil {
		// 允许配置文件不存在，此时会从环境变量中读取
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	if config.GeminiAPIKey == "" {
		err = fmt.Errorf("GEMINI_API_KEY 未配置")
	}
	return
}

// GetRedisConnString 返回Redis连接字符串
func (c *Config) GetRedisConnString() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}
