// Package apperrors 定义各操作的错误种类，由HTTP层统一映射为状态码
package apperrors

import "errors"

var (
	// ErrValidation 输入校验失败（缺少必填项、不支持的文件类型等）
	ErrValidation = errors.New("validation failed")

	// ErrAnalysisFailed 情绪分析服务调用失败或返回内容无法解析
	ErrAnalysisFailed = errors.New("analysis failed")

	// ErrInsufficientData 预测所需的历史数据不足
	ErrInsufficientData = errors.New("insufficient data")

	// ErrMalformedForecast 预测服务返回缺少必要字段
	ErrMalformedForecast = errors.New("malformed forecast")

	// ErrStorageUnavailable 存储层不可用
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrNotFound 请求的资源不存在
	ErrNotFound = errors.New("not found")
)
