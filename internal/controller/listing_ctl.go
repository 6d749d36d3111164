package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"estate_dev_v1_202608/internal/api/dto"
	"estate_dev_v1_202608/internal/middleware"
	"estate_dev_v1_202608/internal/service"
)

// ==================== 控制器 ====================

// ListingController 房源控制器
type ListingController struct {
	listingService *service.ListingService
}

func NewListingController(listingService *service.ListingService) *ListingController {
	return &ListingController{listingService: listingService}
}

// ==================== API 方法 ====================

// List 我的房源列表
// @Summary 按状态查询我的房源（published/draft/rejected/expired）
// @Tags Listing
// @Produce json
// @Security BearerAuth
// @Param status query string false "状态筛选"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} map[string]interface{}
// @Router /api/listings [get]
func (ctrl *ListingController) List(c *gin.Context) {
	var req dto.ListListingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	userID := middleware.GetUserID(c)
	ctx := c.Request.Context()
	listings, total, err := ctrl.listingService.List(ctx, userID, &req)
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
		"data":     listings,
		"total":    total,
		"page":     req.Page,
		"pageSize": req.PageSize,
	})
}

// GetDetail 房源详情
// @Summary 获取房源详情
// @Tags Listing
// @Produce json
// @Security BearerAuth
// @Param id path int true "房源ID"
// @Success 200 {object} dto.ListingDetailVO
// @Router /api/listings/{id} [get]
func (ctrl *ListingController) GetDetail(c *gin.Context) {
	listingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || listingID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "无效的房源ID",
		})
		return
	}

	userID := middleware.GetUserID(c)
	ctx := c.Request.Context()
	detail, err := ctrl.listingService.GetDetail(ctx, userID, listingID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"code":    404,
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    detail,
	})
}

// Delete 删除房源
// @Summary 删除自己的房源
// @Tags Listing
// @Produce json
// @Security BearerAuth
// @Param id path int true "房源ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/listings/{id} [delete]
func (ctrl *ListingController) Delete(c *gin.Context) {
	listingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || listingID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "无效的房源ID",
		})
		return
	}

	userID := middleware.GetUserID(c)
	ctx := c.Request.Context()
	if err := ctrl.listingService.Delete(ctx, userID, listingID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"code":    404,
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "删除成功",
	})
}

// Enquire 房源咨询
// @Summary 提交房源咨询
// @Tags Listing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "房源ID"
// @Param body body dto.EnquiryRequest true "咨询内容"
// @Success 200 {object} map[string]interface{}
// @Router /api/listings/{id}/enquiry [post]
func (ctrl *ListingController) Enquire(c *gin.Context) {
	listingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || listingID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "无效的房源ID",
		})
		return
	}

	var req dto.EnquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	userID := middleware.GetUserID(c)
	ctx := c.Request.Context()
	if err := ctrl.listingService.Enquire(ctx, userID, listingID, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "咨询已提交",
	})
}

// Enquiries 我的房源咨询列表
// @Summary 业主查看自己房源收到的咨询
// @Tags Listing
// @Produce json
// @Security BearerAuth
// @Param id path int true "房源ID"
// @Success 200 {array} dto.EnquiryVO
// @Router /api/listings/{id}/enquiries [get]
func (ctrl *ListingController) Enquiries(c *gin.Context) {
	listingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || listingID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "无效的房源ID",
		})
		return
	}

	userID := middleware.GetUserID(c)
	ctx := c.Request.Context()
	enquiries, err := ctrl.listingService.Enquiries(ctx, userID, listingID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"code":    404,
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    enquiries,
	})
}

// ToggleSave 收藏切换
// @Summary 收藏/取消收藏房源
// @Tags Listing
// @Produce json
// @Security BearerAuth
// @Param id path int true "房源ID"
// @Success 200 {object} dto.SaveToggleResult
// @Router /api/listings/{id}/save [post]
func (ctrl *ListingController) ToggleSave(c *gin.Context) {
	listingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || listingID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "无效的房源ID",
		})
		return
	}

	userID := middleware.GetUserID(c)
	ctx := c.Request.Context()
	result, err := ctrl.listingService.ToggleSave(ctx, userID, listingID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
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
