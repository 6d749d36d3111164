package service

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"estate_dev_v1_202608/internal/api/dto"
	"estate_dev_v1_202608/internal/middleware"
	"estate_dev_v1_202608/internal/model"
	"estate_dev_v1_202608/internal/repository"
	"estate_dev_v1_202608/pkg/utils"
)

// ==================== 错误定义 ====================

var (
	ErrInvalidPhone     = errors.New("手机号必须为10位数字")
	ErrInvalidOtpFormat = errors.New("验证码必须为6位数字")
	ErrOtpNotFound      = errors.New("请先获取验证码")
	ErrOtpExpired       = errors.New("验证码已过期，请重新获取")
	ErrOtpMismatch      = errors.New("验证码错误")
	ErrOtpTooMany       = errors.New("尝试次数过多，请重新获取验证码")
	ErrOtpCooldown      = errors.New("发送过于频繁，请稍后再试")
	ErrUserDisabled     = errors.New("账号已被禁用")
)

// OTP 重发冷却时间
const otpCooldown = 60 * time.Second

// ==================== AuthService 认证服务 ====================

// AuthService OTP 登录/注册认证服务
type AuthService struct {
	userRepo repository.UserRepository
	otpRepo  repository.OtpRepository
	sms      SmsSender
	devMode  bool
}

// NewAuthService 创建认证服务
// devMode 为 true 时不调用短信网关，验证码只打到服务端日志
// （不会在接口响应中回显，避免复刻原实现的不安全行为）
func NewAuthService(userRepo repository.UserRepository, otpRepo repository.OtpRepository, sms SmsSender, devMode bool) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		otpRepo:  otpRepo,
		sms:      sms,
		devMode:  devMode,
	}
}

// ==================== OTP 发送 ====================

// SendOtp 生成并发送验证码
func (s *AuthService) SendOtp(ctx context.Context, phone string) (*dto.SendOtpResult, error) {
	if !isValidPhone(phone) {
		return nil, ErrInvalidPhone
	}

	// 重发冷却
	if _, hit := utils.GetCache("otp_cd:" + phone); hit {
		return nil, ErrOtpCooldown
	}

	code, err := utils.GenerateNumericCode(6)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	reference, err := utils.GenerateRandomString(24)
	if err != nil {
		return nil, err
	}

	otp := &model.OtpCode{
		Phone:     phone,
		Reference: reference,
		CodeHash:  string(hash),
		ExpiresAt: time.Now().Add(model.OtpTTLMinutes * time.Minute),
	}
	if err := s.otpRepo.Create(ctx, otp); err != nil {
		return nil, err
	}

	if s.devMode {
		log.Printf("[dev] OTP for %s: %s", phone, code)
	} else if err := s.sms.SendOtp(ctx, phone, code); err != nil {
		return nil, err
	}

	utils.SetCache("otp_cd:"+phone, reference, otpCooldown)

	return &dto.SendOtpResult{
		Reference: reference,
		ExpiresIn: model.OtpTTLMinutes * 60,
	}, nil
}

// ==================== OTP 校验与登录 ====================

// VerifyOtp 校验验证码并登录（手机号不存在时自动注册）
// 格式不合法的验证码在任何存储访问之前就被拒绝
func (s *AuthService) VerifyOtp(ctx context.Context, phone, code string) (*dto.LoginResult, error) {
	if !isValidPhone(phone) {
		return nil, ErrInvalidPhone
	}
	if !isSixDigits(code) {
		return nil, ErrInvalidOtpFormat
	}

	otp, err := s.otpRepo.GetLatestByPhone(ctx, phone)
	if err != nil {
		return nil, ErrOtpNotFound
	}

	now := time.Now()
	if otp.Used || otp.ExpiresAt.Before(now) {
		return nil, ErrOtpExpired
	}
	if otp.Attempts >= model.OtpMaxAttempts {
		return nil, ErrOtpTooMany
	}

	if err := bcrypt.CompareHashAndPassword([]byte(otp.CodeHash), []byte(code)); err != nil {
		_ = s.otpRepo.IncrementAttempts(ctx, otp.ID)
		return nil, ErrOtpMismatch
	}

	if err := s.otpRepo.MarkUsed(ctx, otp.ID); err != nil {
		return nil, err
	}
	utils.DeleteCache("otp_cd:" + phone)

	// 查找或注册用户
	user, err := s.userRepo.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user = &model.User{
			Phone:  phone,
			Role:   model.UserRoleOwner,
			Status: model.UserStatusActive,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
	}

	if user.Status != model.UserStatusActive {
		return nil, ErrUserDisabled
	}

	accessToken, refreshToken, err := middleware.GenerateTokenPair(user.ID, user.Phone, user.Role)
	if err != nil {
		return nil, err
	}

	_ = s.userRepo.UpdateLastLogin(ctx, user.ID)

	return &dto.LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         toUserVO(user),
	}, nil
}

// ==================== 令牌刷新与资料 ====================

// Refresh 用 Refresh Token 换取新令牌对
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenPair, error) {
	claims, err := middleware.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user.Status != model.UserStatusActive {
		return nil, ErrUserDisabled
	}

	access, refresh, err := middleware.GenerateTokenPair(user.ID, user.Phone, user.Role)
	if err != nil {
		return nil, err
	}
	return &dto.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Profile 获取当前用户资料
func (s *AuthService) Profile(ctx context.Context, userID int64) (*dto.UserVO, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toUserVO(user), nil
}

// ==================== 辅助函数 ====================

func toUserVO(user *model.User) *dto.UserVO {
	return &dto.UserVO{
		ID:      user.ID,
		Phone:   user.Phone,
		Name:    user.Name,
		Email:   user.Email,
		Role:    user.Role,
		Balance: user.Balance,
	}
}

func isValidPhone(s string) bool {
	return len(s) == 10 && allDigits(s)
}

func isSixDigits(s string) bool {
	return len(s) == 6 && allDigits(s)
}

func allDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}
