package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"estate_dev_v1_202608/internal/service"
)

// ==================== 控制器 ====================

// MastersController 基础数据控制器
type MastersController struct {
	mastersService *service.MastersService
}

func NewMastersController(mastersService *service.MastersService) *MastersController {
	return &MastersController{mastersService: mastersService}
}

// ==================== API 方法 ====================

// GetMasters 全量基础数据
// @Summary 获取类别/设施/套餐基础数据，每个会话拉取一次
// @Tags Masters
// @Produce json
// @Success 200 {object} dto.MastersResponse
// @Router /api/masters [get]
func (ctrl *MastersController) GetMasters(c *gin.Context) {
	ctx := c.Request.Context()
	result, err := ctrl.mastersService.GetMasters(ctx)
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

// GetPlan 套餐详情
// @Summary 按编码获取发布套餐
// @Tags Masters
// @Produce json
// @Param code path string true "套餐编码"
// @Success 200 {object} dto.PlanVO
// @Router /api/masters/plans/{code} [get]
func (ctrl *MastersController) GetPlan(c *gin.Context) {
	ctx := c.Request.Context()
	plan, err := ctrl.mastersService.GetPlan(ctx, c.Param("code"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"code":    404,
			"message": "套餐不存在",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    plan,
	})
}
