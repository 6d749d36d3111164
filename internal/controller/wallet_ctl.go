package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"estate_dev_v1_202608/internal/middleware"
	"estate_dev_v1_202608/internal/service"
)

// ==================== 控制器 ====================

// WalletController 钱包控制器
type WalletController struct {
	walletService *service.WalletService
}

func NewWalletController(walletService *service.WalletService) *WalletController {
	return &WalletController{walletService: walletService}
}

// ==================== API 方法 ====================

// Balance 钱包余额
// @Summary 查询钱包余额
// @Tags Wallet
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.WalletVO
// @Router /api/wallet [get]
func (ctrl *WalletController) Balance(c *gin.Context) {
	userID := middleware.GetUserID(c)

	ctx := c.Request.Context()
	result, err := ctrl.walletService.Balance(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "查询失败: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    result,
	})
}

// Transactions 钱包流水
// @Summary 分页查询钱包流水
// @Tags Wallet
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} map[string]interface{}
// @Router /api/wallet/transactions [get]
func (ctrl *WalletController) Transactions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	userID := middleware.GetUserID(c)
	ctx := c.Request.Context()
	txns, total, err := ctrl.walletService.Transactions(ctx, userID, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "查询失败: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":     0,
		"message":  "success",
		"data":     txns,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
	})
}
