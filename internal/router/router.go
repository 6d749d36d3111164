package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"estate_dev_v1_202608/internal/controller"
	"estate_dev_v1_202608/internal/middleware"
)

// Controllers 控制器集合
type Controllers struct {
	Auth     *controller.AuthController
	Masters  *controller.MastersController
	Location *controller.LocationController
	Wizard   *controller.WizardController
	Listing  *controller.ListingController
	Wallet   *controller.WalletController

	// 上传图片的本地目录，静态路由挂载用
	UploadDir string
}

// SetupRouter 创建引擎并注册所有路由
func SetupRouter(ctrls *Controllers) *gin.Engine {
	r := gin.Default()
	InitRoutes(r, ctrls)
	return r
}

// InitRoutes 注册所有路由
func InitRoutes(r *gin.Engine, ctrls *Controllers) {
	// 1. Swagger 文档路由
	// 访问 http://localhost:8080/swagger/index.html 即可查看
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 2. 上传图片静态访问
	if ctrls.UploadDir != "" {
		r.Static("/static/uploads", ctrls.UploadDir)
	}

	// 3. API 路由组
	api := r.Group("/api")
	{
		// auth 鉴权组
		auth := api.Group("/auth")
		{
			// POST /api/auth/otp
			auth.POST("/otp", ctrls.Auth.SendOtp)
			auth.POST("/otp/verify", ctrls.Auth.VerifyOtp)
			auth.POST("/refresh", ctrls.Auth.Refresh)
			auth.GET("/profile", middleware.AuthRequired(), ctrls.Auth.Profile)
		}

		// masters 基础数据，登录前即可拉取
		masters := api.Group("/masters")
		{
			masters.GET("", ctrls.Masters.GetMasters)
			masters.GET("/plans/:code", ctrls.Masters.GetPlan)
		}

		// locations 位置级联数据
		locations := api.Group("/locations")
		{
			locations.GET("/countries", ctrls.Location.Countries)
			locations.GET("/countries/:country_id/states", ctrls.Location.States)
			locations.GET("/states/:state_id/cities", ctrls.Location.Cities)
			locations.GET("/cities/:city_id/localities", ctrls.Location.Localities)
		}

		// wizard 发布向导，全程需登录
		wizard := api.Group("/wizard", middleware.AuthRequired())
		{
			wizard.POST("", ctrls.Wizard.Start)
			wizard.GET("/:token", ctrls.Wizard.GetState)
			wizard.DELETE("/:token", ctrls.Wizard.Close)
			wizard.PUT("/:token/fields", ctrls.Wizard.UpdateFields)
			wizard.POST("/:token/next", ctrls.Wizard.Next)
			wizard.POST("/:token/prev", ctrls.Wizard.Prev)
			wizard.POST("/:token/jump", ctrls.Wizard.Jump)
			wizard.POST("/:token/photos", ctrls.Wizard.AddPhotos)
			wizard.DELETE("/:token/photos/:index", ctrls.Wizard.RemovePhoto)
			wizard.POST("/:token/save", ctrls.Wizard.Save)
			wizard.POST("/:token/publish", ctrls.Wizard.Publish)
		}

		// listings 房源管理
		listings := api.Group("/listings", middleware.AuthRequired())
		{
			listings.GET("", ctrls.Listing.List)
			listings.GET("/:id", ctrls.Listing.GetDetail)
			listings.DELETE("/:id", ctrls.Listing.Delete)
			listings.POST("/:id/enquiry", ctrls.Listing.Enquire)
			listings.GET("/:id/enquiries", ctrls.Listing.Enquiries)
			listings.POST("/:id/save", ctrls.Listing.ToggleSave)
		}

		// wallet 钱包
		wallet := api.Group("/wallet", middleware.AuthRequired())
		{
			wallet.GET("", ctrls.Wallet.Balance)
			wallet.GET("/transactions", ctrls.Wallet.Transactions)
		}
	}
}
