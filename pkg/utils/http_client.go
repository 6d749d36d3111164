package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// NewSmsClient 创建配置好超时和重试的短信网关 Resty 客户端
// 它是系统对短信网关的统一请求入口
func NewSmsClient(baseURL, apiKey string) *resty.Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10*time.Second).
		SetRetryCount(3).
		SetHeader("User-Agent", "Estate-Go-App/1.0")

	// 网关要求 Header 中携带 x-api-key
	if apiKey != "" {
		client.SetHeader("x-api-key", apiKey)
	}

	return client
}
