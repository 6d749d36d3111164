package service

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// ==================== 短信网关 ====================

// SmsSender 短信发送接口
type SmsSender interface {
	SendOtp(ctx context.Context, phone, code string) error
}

// SmsGateway 基于 HTTP 网关的短信发送实现
type SmsGateway struct {
	client *resty.Client
	sender string
}

// NewSmsGateway 创建短信网关客户端
func NewSmsGateway(client *resty.Client, sender string) *SmsGateway {
	return &SmsGateway{client: client, sender: sender}
}

// SendOtp 发送验证码短信
func (g *SmsGateway) SendOtp(ctx context.Context, phone, code string) error {
	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"to":      phone,
			"from":    g.sender,
			"message": fmt.Sprintf("您的验证码是 %s，5分钟内有效，请勿泄露。", code),
		}).
		Post("/sms/send")

	if err != nil {
		return fmt.Errorf("短信网关请求失败: %v", err)
	}
	if resp.StatusCode() >= 300 {
		return fmt.Errorf("短信网关返回异常 (状态码 %d): %s", resp.StatusCode(), resp.String())
	}
	return nil
}
