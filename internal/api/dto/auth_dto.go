package dto

// ==================== 请求 DTO ====================

// SendOtpRequest 发送验证码请求
type SendOtpRequest struct {
	Phone string `json:"phone" binding:"required"`
}

// VerifyOtpRequest 校验验证码请求
type VerifyOtpRequest struct {
	Phone string `json:"phone" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

// RefreshTokenRequest 刷新令牌请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ==================== 响应 DTO ====================

// SendOtpResult 发送验证码结果
type SendOtpResult struct {
	Reference string `json:"reference"`  // OTP 引用号
	ExpiresIn int    `json:"expires_in"` // 有效期（秒）
}

// LoginResult 登录结果
type LoginResult struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	User         *UserVO `json:"user"`
}

// TokenPair 令牌对
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// UserVO 用户信息
type UserVO struct {
	ID      int64  `json:"id"`
	Phone   string `json:"phone"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Balance int64  `json:"balance"`
}
