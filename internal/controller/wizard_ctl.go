package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"estate_dev_v1_202608/internal/api/dto"
	"estate_dev_v1_202608/internal/middleware"
	"estate_dev_v1_202608/internal/service"
	"estate_dev_v1_202608/internal/wizard"
)

// ==================== 控制器 ====================

// WizardController 发布向导控制器
type WizardController struct {
	wizardService *service.WizardService
}

func NewWizardController(wizardService *service.WizardService) *WizardController {
	return &WizardController{wizardService: wizardService}
}

// ==================== API 方法 ====================

// Start 开启向导会话
// @Summary 开启发布向导会话，可从已有草稿续编
// @Tags Wizard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.StartWizardRequest true "开启请求"
// @Success 200 {object} dto.WizardStateVO
// @Router /api/wizard [post]
func (ctrl *WizardController) Start(c *gin.Context) {
	var req dto.StartWizardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	userID := middleware.GetUserID(c)
	ctx := c.Request.Context()
	state, err := ctrl.wizardService.Start(ctx, userID, req.ListingID)
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
		"data":    state,
	})
}

// GetState 会话状态
// @Summary 获取向导会话全量状态
// @Tags Wizard
// @Produce json
// @Security BearerAuth
// @Param token path string true "会话令牌"
// @Success 200 {object} dto.WizardStateVO
// @Router /api/wizard/{token} [get]
func (ctrl *WizardController) GetState(c *gin.Context) {
	userID := middleware.GetUserID(c)
	state, err := ctrl.wizardService.State(c.Param("token"), userID)
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
		"data":    state,
	})
}

// UpdateFields 更新草稿字段
// @Summary 更新草稿字段，位置字段触发级联重置
// @Tags Wizard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param token path string true "会话令牌"
// @Param body body dto.UpdateDraftRequest true "字段更新"
// @Success 200 {object} dto.WizardStateVO
// @Router /api/wizard/{token}/fields [put]
func (ctrl *WizardController) UpdateFields(c *gin.Context) {
	var req dto.UpdateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	userID := middleware.GetUserID(c)
	ctx := c.Request.Context()
	state, err := ctrl.wizardService.UpdateFields(ctx, c.Param("token"), userID, &req)
	if err != nil {
		ctrl.renderSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    state,
	})
}

// Next 前进一步
// @Summary 校验当前步骤后前进，校验失败返回字段错误
// @Tags Wizard
// @Produce json
// @Security BearerAuth
// @Param token path string true "会话令牌"
// @Success 200 {object} dto.StepResultVO
// @Router /api/wizard/{token}/next [post]
func (ctrl *WizardController) Next(c *gin.Context) {
	userID := middleware.GetUserID(c)
	result, err := ctrl.wizardService.Next(c.Param("token"), userID)
	if err != nil {
		ctrl.renderSessionError(c, err)
		return
	}

	// 校验门阻塞不算请求失败，错误随数据返回供表单内联展示
	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    result,
	})
}

// Prev 后退一步
// @Summary 后退一步，不做校验
// @Tags Wizard
// @Produce json
// @Security BearerAuth
// @Param token path string true "会话令牌"
// @Success 200 {object} dto.StepResultVO
// @Router /api/wizard/{token}/prev [post]
func (ctrl *WizardController) Prev(c *gin.Context) {
	userID := middleware.GetUserID(c)
	result, err := ctrl.wizardService.Prev(c.Param("token"), userID)
	if err != nil {
		ctrl.renderSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    result,
	})
}

// Jump 跳转步骤
// @Summary 跳转到已到达过的步骤
// @Tags Wizard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param token path string true "会话令牌"
// @Param body body dto.JumpStepRequest true "跳转请求"
// @Success 200 {object} dto.StepResultVO
// @Router /api/wizard/{token}/jump [post]
func (ctrl *WizardController) Jump(c *gin.Context) {
	var req dto.JumpStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	userID := middleware.GetUserID(c)
	result, err := ctrl.wizardService.Jump(c.Param("token"), userID, req.Step)
	if err != nil {
		if errors.Is(err, wizard.ErrStepNotReached) {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": err.Error(),
			})
			return
		}
		ctrl.renderSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    result,
	})
}

// AddPhotos 批量上传图片
// @Summary 批量上传图片，超大小逐个拒绝，超套餐上限整批拒绝
// @Tags Wizard
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param token path string true "会话令牌"
// @Param photos formData file true "图片文件（可多个）"
// @Success 200 {object} dto.PhotoAddVO
// @Router /api/wizard/{token}/photos [post]
func (ctrl *WizardController) AddPhotos(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "上传解析失败: " + err.Error(),
		})
		return
	}
	files := form.File["photos"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "未选择图片文件",
		})
		return
	}

	userID := middleware.GetUserID(c)
	result, err := ctrl.wizardService.AddPhotos(c.Param("token"), userID, files)
	if err != nil {
		if errors.Is(err, wizard.ErrPhotoLimitExceeded) {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": err.Error(),
			})
			return
		}
		ctrl.renderSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    result,
	})
}

// RemovePhoto 移除图片
// @Summary 按位置移除图片，移除封面后下一张顶替
// @Tags Wizard
// @Produce json
// @Security BearerAuth
// @Param token path string true "会话令牌"
// @Param index path int true "图片位置"
// @Success 200 {object} dto.PhotoAddVO
// @Router /api/wizard/{token}/photos/{index} [delete]
func (ctrl *WizardController) RemovePhoto(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "无效的图片位置",
		})
		return
	}

	userID := middleware.GetUserID(c)
	result, err := ctrl.wizardService.RemovePhoto(c.Param("token"), userID, index)
	if err != nil {
		ctrl.renderSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    result,
	})
}

// Save 保存草稿
// @Summary 保存草稿，返回可复用的房源ID
// @Tags Wizard
// @Produce json
// @Security BearerAuth
// @Param token path string true "会话令牌"
// @Success 200 {object} dto.SaveDraftResult
// @Router /api/wizard/{token}/save [post]
func (ctrl *WizardController) Save(c *gin.Context) {
	userID := middleware.GetUserID(c)
	ctx := c.Request.Context()
	result, err := ctrl.wizardService.Save(ctx, c.Param("token"), userID)
	if err != nil {
		ctrl.renderSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "保存成功",
		"data":    result,
	})
}

// Publish 发布房源
// @Summary 发布房源，付费套餐从钱包扣款，发布后会话终结
// @Tags Wizard
// @Produce json
// @Security BearerAuth
// @Param token path string true "会话令牌"
// @Success 200 {object} dto.PublishResult
// @Router /api/wizard/{token}/publish [post]
func (ctrl *WizardController) Publish(c *gin.Context) {
	userID := middleware.GetUserID(c)
	ctx := c.Request.Context()
	result, err := ctrl.wizardService.Publish(ctx, c.Param("token"), userID)
	if err != nil {
		var vErr *service.ValidationError
		switch {
		case errors.As(err, &vErr):
			// 校验失败属可恢复错误，字段错误随响应返回，本地状态不丢
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"code":    422,
				"message": vErr.Error(),
				"errors":  vErr.Fields,
			})
		case errors.Is(err, service.ErrInsufficientBalance):
			c.JSON(http.StatusPaymentRequired, gin.H{
				"code":    402,
				"message": err.Error(),
			})
		default:
			ctrl.renderSessionError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "发布成功",
		"data":    result,
	})
}

// Close 关闭会话
// @Summary 关闭向导会话，释放临时预览资源
// @Tags Wizard
// @Produce json
// @Security BearerAuth
// @Param token path string true "会话令牌"
// @Success 200 {object} map[string]interface{}
// @Router /api/wizard/{token} [delete]
func (ctrl *WizardController) Close(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if err := ctrl.wizardService.Close(c.Param("token"), userID); err != nil {
		ctrl.renderSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "会话已关闭",
	})
}

// renderSessionError 会话级错误统一处理
func (ctrl *WizardController) renderSessionError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrSessionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"code":    404,
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"code":    500,
		"message": err.Error(),
	})
}
