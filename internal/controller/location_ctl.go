package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"estate_dev_v1_202608/internal/service"
)

// ==================== 控制器 ====================

// LocationController 位置级联数据控制器
type LocationController struct {
	locationService *service.LocationService
}

func NewLocationController(locationService *service.LocationService) *LocationController {
	return &LocationController{locationService: locationService}
}

// ==================== API 方法 ====================

// Countries 国家列表
// @Summary 获取国家列表
// @Tags Location
// @Produce json
// @Success 200 {object} []wizard.Option
// @Router /api/locations/countries [get]
func (ctrl *LocationController) Countries(c *gin.Context) {
	ctx := c.Request.Context()
	options, err := ctrl.locationService.Countries(ctx)
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
		"data":    options,
	})
}

// States 省份列表
// @Summary 按国家获取省份列表
// @Tags Location
// @Produce json
// @Param country_id path int true "国家ID"
// @Success 200 {object} []wizard.Option
// @Router /api/locations/countries/{country_id}/states [get]
func (ctrl *LocationController) States(c *gin.Context) {
	countryID, err := strconv.ParseInt(c.Param("country_id"), 10, 64)
	if err != nil || countryID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "无效的国家ID",
		})
		return
	}

	ctx := c.Request.Context()
	options, err := ctrl.locationService.States(ctx, countryID)
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
		"data":    options,
	})
}

// Cities 城市列表
// @Summary 按省份获取城市列表
// @Tags Location
// @Produce json
// @Param state_id path int true "省份ID"
// @Success 200 {object} []wizard.Option
// @Router /api/locations/states/{state_id}/cities [get]
func (ctrl *LocationController) Cities(c *gin.Context) {
	stateID, err := strconv.ParseInt(c.Param("state_id"), 10, 64)
	if err != nil || stateID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "无效的省份ID",
		})
		return
	}

	ctx := c.Request.Context()
	options, err := ctrl.locationService.Cities(ctx, stateID)
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
		"data":    options,
	})
}

// Localities 片区列表
// @Summary 按城市获取片区列表，空列表表示支持自由文本输入
// @Tags Location
// @Produce json
// @Param city_id path int true "城市ID"
// @Success 200 {object} []wizard.Option
// @Router /api/locations/cities/{city_id}/localities [get]
func (ctrl *LocationController) Localities(c *gin.Context) {
	cityID, err := strconv.ParseInt(c.Param("city_id"), 10, 64)
	if err != nil || cityID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "无效的城市ID",
		})
		return
	}

	ctx := c.Request.Context()
	options, err := ctrl.locationService.Localities(ctx, cityID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "查询失败: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":            0,
		"message":         "success",
		"data":            options,
		"free_text_input": len(options) == 0,
	})
}
