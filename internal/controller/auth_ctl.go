package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"estate_dev_v1_202608/internal/api/dto"
	"estate_dev_v1_202608/internal/middleware"
	"estate_dev_v1_202608/internal/service"
)

// ==================== 控制器 ====================

// AuthController 认证控制器
type AuthController struct {
	authService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// ==================== API 方法 ====================

// SendOtp 发送验证码
// @Summary 发送登录验证码短信
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body dto.SendOtpRequest true "发送请求"
// @Success 200 {object} dto.SendOtpResult
// @Router /api/auth/otp [post]
func (ctrl *AuthController) SendOtp(c *gin.Context) {
	var req dto.SendOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	result, err := ctrl.authService.SendOtp(ctx, req.Phone)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrOtpCooldown) {
			status = http.StatusTooManyRequests
		}
		c.JSON(status, gin.H{
			"code":    status,
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    result,
	})
}

// VerifyOtp 验证码登录
// @Summary 校验验证码并换取令牌对
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body dto.VerifyOtpRequest true "校验请求"
// @Success 200 {object} dto.LoginResult
// @Router /api/auth/otp/verify [post]
func (ctrl *AuthController) VerifyOtp(c *gin.Context) {
	var req dto.VerifyOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	result, err := ctrl.authService.VerifyOtp(ctx, req.Phone, req.Code)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    result,
	})
}

// Refresh 刷新令牌
// @Summary 用刷新令牌换取新的令牌对
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body dto.RefreshTokenRequest true "刷新请求"
// @Success 200 {object} dto.TokenPair
// @Router /api/auth/refresh [post]
func (ctrl *AuthController) Refresh(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	pair, err := ctrl.authService.Refresh(ctx, req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"code":    401,
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    pair,
	})
}

// Profile 当前用户信息
// @Summary 获取当前登录用户信息
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserVO
// @Router /api/auth/profile [get]
func (ctrl *AuthController) Profile(c *gin.Context) {
	userID := middleware.GetUserID(c)

	ctx := c.Request.Context()
	user, err := ctrl.authService.Profile(ctx, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"code":    404,
			"message": "用户不存在",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    user,
	})
}
