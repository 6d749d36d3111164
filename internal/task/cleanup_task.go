package task

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"estate_dev_v1_202608/internal/repository"
	"estate_dev_v1_202608/internal/service"
)

// ==================== CleanupTask 清理任务 ====================

// CleanupTask 定时回收空闲向导会话和过期验证码记录
type CleanupTask struct {
	wizardService *service.WizardService
	otpRepo       repository.OtpRepository
	cron          *cron.Cron
}

// NewCleanupTask 创建清理任务
func NewCleanupTask(wizardService *service.WizardService, otpRepo repository.OtpRepository) *CleanupTask {
	return &CleanupTask{
		wizardService: wizardService,
		otpRepo:       otpRepo,
		cron:          cron.New(cron.WithSeconds()),
	}
}

// Start 启动定时任务
func (t *CleanupTask) Start() {
	// 定时策略：每10分钟执行
	_, err := t.cron.AddFunc("0 */10 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		t.execute(ctx)
	})
	if err != nil {
		log.Fatalf("[CleanupTask] 无法启动定时任务: %v", err)
	}

	t.cron.Start()
	log.Println("[CleanupTask] 清理任务已启动")
}

// Stop 停止定时任务
func (t *CleanupTask) Stop() {
	t.cron.Stop()
}

// execute 执行一轮清理
func (t *CleanupTask) execute(ctx context.Context) {
	// 空闲会话：释放临时预览文件
	if cleaned := t.wizardService.CleanupExpired(); cleaned > 0 {
		log.Printf("[CleanupTask] 回收空闲向导会话 %d 个", cleaned)
	}

	// 过期验证码记录
	deleted, err := t.otpRepo.DeleteExpired(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		log.Printf("[CleanupTask] 清理过期验证码失败: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("[CleanupTask] 清理过期验证码记录 %d 条", deleted)
	}
}
