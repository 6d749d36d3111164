package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"estate_dev_v1_202608/internal/controller"
	"estate_dev_v1_202608/internal/middleware"
	"estate_dev_v1_202608/internal/model"
	"estate_dev_v1_202608/internal/repository"
	"estate_dev_v1_202608/internal/router"
	"estate_dev_v1_202608/internal/service"
	"estate_dev_v1_202608/internal/task"
	"estate_dev_v1_202608/pkg/database"
	"estate_dev_v1_202608/pkg/utils"
)

func main() {
	// 0. 加载环境变量
	if err := godotenv.Load(); err != nil {
		log.Println("未找到 .env 文件，使用系统环境变量")
	}

	// 1. JWT 配置
	initJWT()

	// 2. 初始化数据库
	db := initDatabase()

	// 3. 初始化依赖
	deps := initDependencies(db)

	// 4. 启动定时任务
	initTasks(deps)

	// 5. 初始化路由
	r := router.SetupRouter(deps.Controllers)

	// 6. 启动服务
	startServer(r)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	Repos       *Repositories
	Services    *Services
	Controllers *router.Controllers
}

// Repositories 仓库集合
type Repositories struct {
	User       repository.UserRepository
	Otp        repository.OtpRepository
	Location   repository.LocationRepository
	Masters    repository.MastersRepository
	ListingUow *repository.ListingUnitOfWork
	Wallet     repository.WalletRepository
	Enquiry    repository.EnquiryRepository
	Saved      repository.SavedListingRepository
}

// Services 服务集合
type Services struct {
	Auth     *service.AuthService
	Location *service.LocationService
	Masters  *service.MastersService
	Storage  *service.StorageService
	Listing  *service.ListingService
	Wallet   *service.WalletService
	Wizard   *service.WizardService
}

// ==================== 初始化函数 ====================

// initJWT 加载 JWT 配置
func initJWT() {
	cfg := middleware.DefaultJWTConfig()
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.SecretKey = secret
	}
	middleware.SetJWTConfig(cfg)
}

// initDatabase 初始化数据库
func initDatabase() *gorm.DB {
	dsn := getEnv("DATABASE_DSN",
		"host=localhost user=estate_admin password=1234 dbname=estate_portal port=5432 sslmode=disable")

	return database.InitDB(dsn,
		// User
		&model.User{}, &model.OtpCode{},
		// Location
		&model.Country{}, &model.State{}, &model.City{}, &model.Locality{},
		// Masters
		&model.PropertyCategory{}, &model.PropertySubcategory{}, &model.Amenity{}, &model.ListingPlan{},
		// Listing
		&model.Listing{}, &model.ListingPhoto{},
		// Wallet
		&model.WalletTransaction{}, &model.Enquiry{}, &model.SavedListing{},
	)
}

// initDependencies 初始化所有依赖
func initDependencies(db *gorm.DB) *Dependencies {
	// -------- Repo 层 --------
	repos := initRepositories(db)

	// -------- 存储 & 短信服务 --------
	uploadDir := getEnv("UPLOAD_DIR", "./static/uploads")
	storageSvc, err := service.NewStorageService(&service.StorageConfig{
		Provider:  getEnv("STORAGE_PROVIDER", "local"),
		Bucket:    os.Getenv("S3_BUCKET"),
		Region:    os.Getenv("S3_REGION"),
		AccessKey: os.Getenv("S3_ACCESS_KEY"),
		SecretKey: os.Getenv("S3_SECRET_KEY"),
		CDNDomain: os.Getenv("S3_CDN_DOMAIN"),
		BasePath:  getEnv("STORAGE_BASE_PATH", uploadDir),
		BaseURL:   "/static/uploads",
		TempDir:   uploadDir + "/tmp",
	})
	if err != nil {
		log.Fatalf("存储服务初始化失败: %v", err)
	}

	smsClient := utils.NewSmsClient(
		getEnv("SMS_GATEWAY_URL", "https://sms.example.com"),
		getEnv("SMS_API_KEY", ""),
	)
	smsGateway := service.NewSmsGateway(smsClient, getEnv("SMS_SENDER", "ESTATE"))

	// -------- 业务服务 --------
	devMode := getEnv("GIN_MODE", "debug") != "release"

	services := &Services{Storage: storageSvc}
	services.Auth = service.NewAuthService(repos.User, repos.Otp, smsGateway, devMode)
	services.Location = service.NewLocationService(repos.Location)
	services.Masters = service.NewMastersService(repos.Masters)
	services.Listing = service.NewListingService(repos.ListingUow, repos.Enquiry, repos.Saved, storageSvc.Provider())
	services.Wallet = service.NewWalletService(repos.Wallet, repos.User)
	services.Wizard = service.NewWizardService(
		services.Location, storageSvc, services.Listing, services.Wallet, services.Masters,
	)

	// -------- Controller 层 --------
	controllers := &router.Controllers{
		Auth:      controller.NewAuthController(services.Auth),
		Masters:   controller.NewMastersController(services.Masters),
		Location:  controller.NewLocationController(services.Location),
		Wizard:    controller.NewWizardController(services.Wizard),
		Listing:   controller.NewListingController(services.Listing),
		Wallet:    controller.NewWalletController(services.Wallet),
		UploadDir: uploadDir,
	}

	return &Dependencies{
		DB:          db,
		Repos:       repos,
		Services:    services,
		Controllers: controllers,
	}
}

// initRepositories 初始化所有仓库
func initRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:       repository.NewUserRepository(db),
		Otp:        repository.NewOtpRepository(db),
		Location:   repository.NewLocationRepository(db),
		Masters:    repository.NewMastersRepository(db),
		ListingUow: repository.NewListingUnitOfWork(db),
		Wallet:     repository.NewWalletRepository(db),
		Enquiry:    repository.NewEnquiryRepository(db),
		Saved:      repository.NewSavedListingRepository(db),
	}
}

// ==================== 定时任务 ====================

// initTasks 初始化定时任务
func initTasks(deps *Dependencies) {
	// 房源过期
	expiryTask := task.NewExpiryTask(deps.Repos.ListingUow.Listings)
	expiryTask.Start()

	// 会话与验证码清理
	cleanupTask := task.NewCleanupTask(deps.Services.Wizard, deps.Repos.Otp)
	cleanupTask.Start()

	log.Println("定时任务已启动")
}

// ==================== 服务启动 ====================

// startServer 启动服务
func startServer(r *gin.Engine) {
	port := getEnv("SERVER_PORT", "8080")

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// 异步启动服务
	go func() {
		log.Printf("服务启动在 :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("正在关闭服务...")

	// 优雅关闭，最多等待 30 秒
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务强制关闭: %v", err)
	}

	log.Println("服务已退出")
}

// ==================== 工具函数 ====================

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
