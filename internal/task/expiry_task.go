package task

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"estate_dev_v1_202608/internal/repository"
)

// ==================== ExpiryTask 房源过期任务 ====================

// ExpiryTask 定时扫描发布后超过有效期的房源并标记为过期
type ExpiryTask struct {
	listingRepo repository.ListingRepository
	cron        *cron.Cron
}

// NewExpiryTask 创建房源过期任务
func NewExpiryTask(listingRepo repository.ListingRepository) *ExpiryTask {
	return &ExpiryTask{
		listingRepo: listingRepo,
		cron:        cron.New(cron.WithSeconds()),
	}
}

// Start 启动定时任务
func (t *ExpiryTask) Start() {
	// 定时策略：每小时执行
	_, err := t.cron.AddFunc("0 0 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		t.execute(ctx)
	})
	if err != nil {
		log.Fatalf("[ExpiryTask] 无法启动定时任务: %v", err)
	}

	t.cron.Start()
	log.Println("[ExpiryTask] 房源过期任务已启动")
}

// Stop 停止定时任务
func (t *ExpiryTask) Stop() {
	t.cron.Stop()
}

// execute 执行一轮过期扫描
func (t *ExpiryTask) execute(ctx context.Context) {
	now := time.Now()
	listings, err := t.listingRepo.FindExpired(ctx, now)
	if err != nil {
		log.Printf("[ExpiryTask] 查询过期房源失败: %v", err)
		return
	}
	if len(listings) == 0 {
		return
	}

	expired := 0
	for _, listing := range listings {
		// 查询和标记之间状态可能已变，标记前复核
		if !listing.IsExpired(now) {
			continue
		}
		if err := t.listingRepo.MarkExpired(ctx, listing.ID); err != nil {
			log.Printf("[ExpiryTask] 标记房源 %d 过期失败: %v", listing.ID, err)
			continue
		}
		expired++
	}
	log.Printf("[ExpiryTask] 本轮标记过期房源 %d 个", expired)
}
