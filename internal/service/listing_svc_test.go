package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"estate_dev_v1_202608/internal/api/dto"
	"estate_dev_v1_202608/internal/model"
	"estate_dev_v1_202608/internal/repository"
	"estate_dev_v1_202608/internal/wizard"
)

// ==================== 测试辅助 ====================

func setupListingTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}

	err = db.AutoMigrate(
		&model.Listing{}, &model.ListingPhoto{},
		&model.Enquiry{}, &model.SavedListing{},
	)
	if err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}
	return db
}

func newListingService(t *testing.T) (*ListingService, *gorm.DB, string) {
	db := setupListingTestDB(t)

	dir := t.TempDir()
	provider, err := NewStorageProvider(&StorageConfig{
		Provider: "local",
		BasePath: dir,
		BaseURL:  "/static/uploads",
	})
	if err != nil {
		t.Fatalf("存储提供者初始化失败: %v", err)
	}

	svc := NewListingService(
		repository.NewListingUnitOfWork(db),
		repository.NewEnquiryRepository(db),
		repository.NewSavedListingRepository(db),
		provider,
	)
	return svc, db, dir
}

func publishableDraft() *wizard.Draft {
	return &wizard.Draft{
		Category:        wizard.CategoryResidential,
		Intent:          wizard.IntentRent,
		PlanTier:        wizard.PlanTierFree,
		ResidentialType: "apartment",
		Title:           "两室出租",
		BHK:             "2",
		Area:            "950",
		Price:           "25000",
		CountryID:       1,
		StateID:         10,
		CityID:          100,
		Locality:        "Andheri West",
		Pincode:         "400053",
		OwnerName:       "Ramesh",
		OwnerPhone:      "9876543210",
	}
}

// ==================== 草稿保存 ====================

func TestListingService_SaveDraftAssignsReusableID(t *testing.T) {
	svc, _, _ := newListingService(t)
	ctx := context.Background()

	d := &wizard.Draft{Category: wizard.CategoryResidential, Title: "草稿"}
	id, err := svc.SaveDraft(ctx, 1, d)
	if err != nil {
		t.Fatalf("SaveDraft() error = %v", err)
	}
	if id == 0 {
		t.Fatal("首次保存应分配服务端ID")
	}
	if d.ListingID != id {
		t.Errorf("ID 应写回草稿, got %d", d.ListingID)
	}

	// 再次保存复用同一ID，不新建记录
	d.Title = "改过的标题"
	id2, err := svc.SaveDraft(ctx, 1, d)
	if err != nil {
		t.Fatalf("二次保存失败: %v", err)
	}
	if id2 != id {
		t.Errorf("二次保存应复用ID %d, got %d", id, id2)
	}

	listings, total, err := svc.List(ctx, 1, &dto.ListListingsRequest{Status: model.ListingStatusDraft})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 1 {
		t.Errorf("应只有1条记录, got %d", total)
	}
	if listings[0].Title != "改过的标题" {
		t.Errorf("标题应已更新, got %q", listings[0].Title)
	}
}

func TestListingService_SaveDraftRejectsForeignListing(t *testing.T) {
	svc, _, _ := newListingService(t)
	ctx := context.Background()

	d := &wizard.Draft{Category: wizard.CategoryResidential}
	id, _ := svc.SaveDraft(ctx, 1, d)

	// 其他用户不能往这个ID上保存
	other := &wizard.Draft{ListingID: id, Category: wizard.CategoryCommercial}
	if _, err := svc.SaveDraft(ctx, 2, other); err == nil {
		t.Error("保存他人草稿应失败")
	}
}

// ==================== 发布 ====================

func TestListingService_PublishRequiresFullValidation(t *testing.T) {
	svc, _, _ := newListingService(t)
	ctx := context.Background()

	d := publishableDraft()
	d.OwnerPhone = "" // 缺联系电话

	_, err := svc.Publish(ctx, 1, d, nil)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("不完整草稿发布应返回 *ValidationError, got %v", err)
	}
	if len(vErr.Fields) == 0 {
		t.Error("校验错误应包含字段列表")
	}
}

func TestListingService_PublishSetsStatusAndPhotos(t *testing.T) {
	svc, db, _ := newListingService(t)
	ctx := context.Background()

	photos := []PhotoInput{
		{URL: "/static/uploads/a.jpg", Size: 1024},
		{URL: "/static/uploads/b.jpg", Size: 2048},
	}
	listing, err := svc.Publish(ctx, 1, publishableDraft(), photos)
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	if listing.Status != model.ListingStatusPublished {
		t.Errorf("状态应为 published, got %q", listing.Status)
	}
	if listing.ExpiresAt == nil {
		t.Error("发布后应设置过期时间")
	}

	var rows []model.ListingPhoto
	db.Where("listing_id = ?", listing.ID).Order("sort_index ASC").Find(&rows)
	if len(rows) != 2 {
		t.Fatalf("应落库2张图片, got %d", len(rows))
	}
	if rows[0].URL != "/static/uploads/a.jpg" || rows[0].SortIndex != 0 {
		t.Errorf("第0张应为封面, got %+v", rows[0])
	}
}

func TestListingService_RepublishReplacesPhotos(t *testing.T) {
	svc, db, _ := newListingService(t)
	ctx := context.Background()

	d := publishableDraft()
	listing, err := svc.Publish(ctx, 1, d, []PhotoInput{{URL: "/static/uploads/old.jpg", Size: 1}})
	if err != nil {
		t.Fatalf("首次发布失败: %v", err)
	}

	// 再次发布（编辑后重新提交）整体重建图片记录
	if _, err := svc.Publish(ctx, 1, d, []PhotoInput{{URL: "/static/uploads/new.jpg", Size: 2}}); err != nil {
		t.Fatalf("再次发布失败: %v", err)
	}

	var rows []model.ListingPhoto
	db.Where("listing_id = ?", listing.ID).Find(&rows)
	if len(rows) != 1 || rows[0].URL != "/static/uploads/new.jpg" {
		t.Errorf("图片记录应被重建, got %+v", rows)
	}
}

// ==================== 查询与互动 ====================

func TestListingService_ListFiltersByStatus(t *testing.T) {
	svc, _, _ := newListingService(t)
	ctx := context.Background()

	svc.SaveDraft(ctx, 1, &wizard.Draft{Category: wizard.CategoryResidential, Title: "草稿1"})
	svc.Publish(ctx, 1, publishableDraft(), nil)

	drafts, total, err := svc.List(ctx, 1, &dto.ListListingsRequest{Status: model.ListingStatusDraft})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 1 || drafts[0].Status != model.ListingStatusDraft {
		t.Errorf("草稿过滤错误: total=%d", total)
	}

	published, total, _ := svc.List(ctx, 1, &dto.ListListingsRequest{Status: model.ListingStatusPublished})
	if total != 1 || published[0].Status != model.ListingStatusPublished {
		t.Errorf("已发布过滤错误: total=%d", total)
	}
}

func TestListingService_ToggleSave(t *testing.T) {
	svc, _, _ := newListingService(t)
	ctx := context.Background()

	listing, err := svc.Publish(ctx, 1, publishableDraft(), nil)
	if err != nil {
		t.Fatalf("发布失败: %v", err)
	}

	result, err := svc.ToggleSave(ctx, 2, listing.ID)
	if err != nil {
		t.Fatalf("ToggleSave() error = %v", err)
	}
	if !result.Saved {
		t.Error("首次切换应为已收藏")
	}

	result, _ = svc.ToggleSave(ctx, 2, listing.ID)
	if result.Saved {
		t.Error("再次切换应取消收藏")
	}
}

func TestListingService_HideNumberMasksPhone(t *testing.T) {
	svc, _, _ := newListingService(t)
	ctx := context.Background()

	d := publishableDraft()
	d.HideNumber = true
	listing, err := svc.Publish(ctx, 1, d, nil)
	if err != nil {
		t.Fatalf("发布失败: %v", err)
	}

	// 他人看不到电话
	detail, err := svc.GetDetail(ctx, 2, listing.ID)
	if err != nil {
		t.Fatalf("GetDetail() error = %v", err)
	}
	if detail.OwnerPhone != "" {
		t.Error("开启隐藏后他人不应看到电话")
	}

	// 本人可见
	detail, _ = svc.GetDetail(ctx, 1, listing.ID)
	if detail.OwnerPhone != "9876543210" {
		t.Error("本人应看到电话")
	}
}

func TestListingService_EnquiriesOwnerOnly(t *testing.T) {
	svc, _, _ := newListingService(t)
	ctx := context.Background()

	listing, err := svc.Publish(ctx, 1, publishableDraft(), nil)
	if err != nil {
		t.Fatalf("发布失败: %v", err)
	}

	err = svc.Enquire(ctx, 2, listing.ID, &dto.EnquiryRequest{
		Name:    "Suresh",
		Phone:   "9123456780",
		Message: "想看房",
	})
	if err != nil {
		t.Fatalf("Enquire() error = %v", err)
	}

	// 业主能看到咨询
	enquiries, err := svc.Enquiries(ctx, 1, listing.ID)
	if err != nil {
		t.Fatalf("Enquiries() error = %v", err)
	}
	if len(enquiries) != 1 {
		t.Fatalf("应有1条咨询, got %d", len(enquiries))
	}
	if enquiries[0].Name != "Suresh" || enquiries[0].Phone != "9123456780" {
		t.Errorf("咨询内容错误: %+v", enquiries[0])
	}

	// 非业主不能查看
	if _, err := svc.Enquiries(ctx, 2, listing.ID); err == nil {
		t.Error("非业主查看咨询应失败")
	}
}

func TestListingService_DeleteOwnershipCheck(t *testing.T) {
	svc, _, _ := newListingService(t)
	ctx := context.Background()

	d := &wizard.Draft{Category: wizard.CategoryResidential}
	id, _ := svc.SaveDraft(ctx, 1, d)

	if err := svc.Delete(ctx, 2, id); err == nil {
		t.Error("删除他人房源应失败")
	}
	if err := svc.Delete(ctx, 1, id); err != nil {
		t.Errorf("删除自己的房源失败: %v", err)
	}
}

func TestListingService_DeleteRemovesPhotoFiles(t *testing.T) {
	svc, _, dir := newListingService(t)
	ctx := context.Background()

	path := filepath.Join(dir, "cover.jpg")
	if err := os.WriteFile(path, []byte("jpeg-data"), 0644); err != nil {
		t.Fatalf("写入测试文件失败: %v", err)
	}

	listing, err := svc.Publish(ctx, 1, publishableDraft(), []PhotoInput{
		{URL: "/static/uploads/cover.jpg", Size: 9},
	})
	if err != nil {
		t.Fatalf("发布失败: %v", err)
	}

	if err := svc.Delete(ctx, 1, listing.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	// 记录删了，正式区文件也要跟着清掉
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("删除房源后图片文件应被清理, stat err = %v", err)
	}
}
