package service

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
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

// stubLookup 固定返回的三级位置数据源
type stubLookup struct {
	localities []wizard.Option
}

func (s *stubLookup) Countries(ctx context.Context) ([]wizard.Option, error) {
	return []wizard.Option{{ID: 1, Name: "India"}}, nil
}

func (s *stubLookup) States(ctx context.Context, countryID int64) ([]wizard.Option, error) {
	return []wizard.Option{{ID: 10, Name: "Maharashtra"}}, nil
}

func (s *stubLookup) Cities(ctx context.Context, stateID int64) ([]wizard.Option, error) {
	return []wizard.Option{{ID: 100, Name: "Mumbai"}}, nil
}

func (s *stubLookup) Localities(ctx context.Context, cityID int64) ([]wizard.Option, error) {
	return s.localities, nil
}

type wizardTestEnv struct {
	svc     *WizardService
	db      *gorm.DB
	storage *StorageService
}

func setupWizardEnv(t *testing.T) *wizardTestEnv {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	err = db.AutoMigrate(
		&model.User{}, &model.Listing{}, &model.ListingPhoto{},
		&model.WalletTransaction{}, &model.Enquiry{}, &model.SavedListing{},
		&model.ListingPlan{},
	)
	if err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}

	dir := t.TempDir()
	storage, err := NewStorageService(&StorageConfig{
		Provider: "local",
		BasePath: dir,
		BaseURL:  "/static/uploads",
		TempDir:  filepath.Join(dir, "tmp"),
	})
	if err != nil {
		t.Fatalf("存储服务初始化失败: %v", err)
	}

	listingSvc := NewListingService(
		repository.NewListingUnitOfWork(db),
		repository.NewEnquiryRepository(db),
		repository.NewSavedListingRepository(db),
		storage.Provider(),
	)
	walletSvc := NewWalletService(
		repository.NewWalletRepository(db),
		repository.NewUserRepository(db),
	)
	mastersSvc := NewMastersService(repository.NewMastersRepository(db))

	lookup := &stubLookup{localities: []wizard.Option{{ID: 1000, Name: "Andheri West"}}}
	svc := NewWizardService(lookup, storage, listingSvc, walletSvc, mastersSvc)

	return &wizardTestEnv{svc: svc, db: db, storage: storage}
}

// fillDraft 把会话草稿填到可发布状态
func fillDraft(t *testing.T, env *wizardTestEnv, token string, userID int64) {
	t.Helper()
	s := func(v string) *string { return &v }
	n := func(v int64) *int64 { return &v }

	req := &dto.UpdateDraftRequest{
		Category:        s("residential"),
		Intent:          s("rent"),
		ResidentialType: s("apartment"),
		Title:           s("两室出租"),
		BHK:             s("2"),
		Area:            s("950"),
		Price:           s("25000"),
		CountryID:       n(1),
		StateID:         n(10),
		CityID:          n(100),
		Locality:        s("Andheri West"),
		Pincode:         s("400053"),
		OwnerName:       s("Ramesh"),
		OwnerPhone:      s("9876543210"),
	}
	if _, err := env.svc.UpdateFields(context.Background(), token, userID, req); err != nil {
		t.Fatalf("UpdateFields() error = %v", err)
	}
}

// makeFileHeaders 构造 multipart 上传文件头
func makeFileHeaders(t *testing.T, names []string, sizes []int) []*multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for i, name := range names {
		fw, err := w.CreateFormFile("photos", name)
		if err != nil {
			t.Fatalf("构造上传表单失败: %v", err)
		}
		fw.Write(bytes.Repeat([]byte("a"), sizes[i]))
	}
	w.Close()

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(64 << 20)
	if err != nil {
		t.Fatalf("解析上传表单失败: %v", err)
	}
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["photos"]
}

// ==================== 会话生命周期 ====================

func TestWizardService_StartNewSession(t *testing.T) {
	env := setupWizardEnv(t)
	ctx := context.Background()

	state, err := env.svc.Start(ctx, 1, 0)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if state.Token == "" {
		t.Error("应分配会话令牌")
	}
	if state.Step != 1 {
		t.Errorf("新会话应位于第1步, got %d", state.Step)
	}
	if state.Draft.PlanTier != "free" {
		t.Errorf("默认免费档位, got %q", state.Draft.PlanTier)
	}
	if state.PhotoLimit != wizard.FreePlanPhotoLimit {
		t.Errorf("免费档位图片上限应为5, got %d", state.PhotoLimit)
	}
}

func TestWizardService_SessionOwnership(t *testing.T) {
	env := setupWizardEnv(t)
	state, _ := env.svc.Start(context.Background(), 1, 0)

	// 其他用户拿不到会话
	if _, err := env.svc.State(state.Token, 2); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("他人访问会话应返回 ErrSessionNotFound, got %v", err)
	}
}

// ==================== 步骤导航 ====================

func TestWizardService_NextBlockedThenAdvances(t *testing.T) {
	env := setupWizardEnv(t)
	ctx := context.Background()
	state, _ := env.svc.Start(ctx, 1, 0)

	// 空草稿被第1步校验门阻塞
	result, err := env.svc.Next(state.Token, 1)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if len(result.Errors) == 0 {
		t.Fatal("空草稿前进应返回字段错误")
	}
	if result.Step != 1 {
		t.Errorf("阻塞后应停在第1步, got %d", result.Step)
	}

	fillDraft(t, env, state.Token, 1)
	result, _ = env.svc.Next(state.Token, 1)
	if len(result.Errors) != 0 || result.Step != 2 {
		t.Errorf("填好后应前进到第2步, got step=%d errors=%v", result.Step, result.Errors)
	}
}

// ==================== 位置级联 ====================

func TestWizardService_LocationFieldsRouteThroughCascade(t *testing.T) {
	env := setupWizardEnv(t)
	ctx := context.Background()
	state, _ := env.svc.Start(ctx, 1, 0)

	n := func(v int64) *int64 { return &v }
	s, err := env.svc.UpdateFields(ctx, state.Token, 1, &dto.UpdateDraftRequest{CountryID: n(1)})
	if err != nil {
		t.Fatalf("UpdateFields() error = %v", err)
	}
	if len(s.States) != 1 {
		t.Errorf("选择国家后应加载省份列表, got %d", len(s.States))
	}

	s, _ = env.svc.UpdateFields(ctx, state.Token, 1, &dto.UpdateDraftRequest{StateID: n(10)})
	s, _ = env.svc.UpdateFields(ctx, state.Token, 1, &dto.UpdateDraftRequest{CityID: n(100)})
	if len(s.Localities) != 1 {
		t.Errorf("选择城市后应加载片区列表, got %d", len(s.Localities))
	}

	// 重新选国家，下级全部重置
	s, _ = env.svc.UpdateFields(ctx, state.Token, 1, &dto.UpdateDraftRequest{CountryID: n(1)})
	if s.Draft.StateID != 0 || s.Draft.CityID != 0 {
		t.Error("上级变更应重置下级选择")
	}
	if len(s.Cities) != 0 || len(s.Localities) != 0 {
		t.Error("下级列表应清空")
	}
}

func TestWizardService_PlanChangeAdjustsPhotoLimit(t *testing.T) {
	env := setupWizardEnv(t)
	ctx := context.Background()
	state, _ := env.svc.Start(ctx, 1, 0)

	s := func(v string) *string { return &v }
	st, err := env.svc.UpdateFields(ctx, state.Token, 1, &dto.UpdateDraftRequest{PlanTier: s("paid")})
	if err != nil {
		t.Fatalf("UpdateFields() error = %v", err)
	}
	if st.PhotoLimit != wizard.PaidPlanPhotoLimit {
		t.Errorf("付费档位图片上限应为25, got %d", st.PhotoLimit)
	}
}

// ==================== 图片上传 ====================

func TestWizardService_AddAndRemovePhotos(t *testing.T) {
	env := setupWizardEnv(t)
	ctx := context.Background()
	state, _ := env.svc.Start(ctx, 1, 0)

	files := makeFileHeaders(t, []string{"a.jpg", "b.jpg"}, []int{1024, 2048})
	result, err := env.svc.AddPhotos(state.Token, 1, files)
	if err != nil {
		t.Fatalf("AddPhotos() error = %v", err)
	}
	if result.Added != 2 || result.Count != 2 {
		t.Errorf("应加入2张, added=%d count=%d", result.Added, result.Count)
	}
	for _, p := range result.Photos {
		if !strings.Contains(p.PreviewURL, "/tmp/") {
			t.Errorf("上传后预览应指向临时区, got %q", p.PreviewURL)
		}
	}

	// 移除第0张，临时文件应被删除
	removedURL := result.Photos[0].PreviewURL
	result, err = env.svc.RemovePhoto(state.Token, 1, 0)
	if err != nil {
		t.Fatalf("RemovePhoto() error = %v", err)
	}
	if result.Count != 1 {
		t.Errorf("移除后应剩1张, got %d", result.Count)
	}

	path := filepath.Join(env.storage.TempDir, filepath.Base(removedURL))
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("移除的临时预览文件应被删除")
	}
}

func TestWizardService_PhotoBatchOverLimit(t *testing.T) {
	env := setupWizardEnv(t)
	ctx := context.Background()
	state, _ := env.svc.Start(ctx, 1, 0)

	names := make([]string, 6)
	sizes := make([]int, 6)
	for i := range names {
		names[i] = "p" + string(rune('a'+i)) + ".jpg"
		sizes[i] = 1024
	}
	files := makeFileHeaders(t, names, sizes)

	_, err := env.svc.AddPhotos(state.Token, 1, files)
	if !errors.Is(err, wizard.ErrPhotoLimitExceeded) {
		t.Fatalf("免费档位一次加6张应整批拒绝, got %v", err)
	}

	// 整批拒绝后临时区不残留文件
	entries, _ := os.ReadDir(env.storage.TempDir)
	if len(entries) != 0 {
		t.Errorf("被拒批次的临时文件应全部回收, got %d", len(entries))
	}
}

func TestWizardService_PhotoBatchFailureReclaimsTempFiles(t *testing.T) {
	env := setupWizardEnv(t)
	ctx := context.Background()
	state, _ := env.svc.Start(ctx, 1, 0)

	// 第2个文件头没有内容来源，读取必然失败
	files := makeFileHeaders(t, []string{"good.jpg"}, []int{1024})
	files = append(files, &multipart.FileHeader{Filename: "broken.jpg", Size: 1024})

	if _, err := env.svc.AddPhotos(state.Token, 1, files); err == nil {
		t.Fatal("批次中有文件读取失败应整体报错")
	}

	// 前面成功落盘的临时文件不能遗留
	entries, _ := os.ReadDir(env.storage.TempDir)
	if len(entries) != 0 {
		t.Errorf("失败批次的临时文件应全部回收, got %d", len(entries))
	}

	// 会话里也不应留下半截批次
	files = makeFileHeaders(t, []string{"retry.jpg"}, []int{1024})
	result, err := env.svc.AddPhotos(state.Token, 1, files)
	if err != nil {
		t.Fatalf("重试上传失败: %v", err)
	}
	if result.Count != 1 {
		t.Errorf("失败批次不应计入会话, count=%d", result.Count)
	}
}

// ==================== 保存与发布 ====================

func TestWizardService_SaveReturnsReusableID(t *testing.T) {
	env := setupWizardEnv(t)
	ctx := context.Background()
	state, _ := env.svc.Start(ctx, 1, 0)
	fillDraft(t, env, state.Token, 1)

	result, err := env.svc.Save(ctx, state.Token, 1)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if result.ListingID == 0 {
		t.Fatal("保存应返回服务端ID")
	}

	// 再次保存复用同一ID
	result2, _ := env.svc.Save(ctx, state.Token, 1)
	if result2.ListingID != result.ListingID {
		t.Errorf("再次保存应复用ID %d, got %d", result.ListingID, result2.ListingID)
	}
}

func TestWizardService_PublishIsTerminal(t *testing.T) {
	env := setupWizardEnv(t)
	ctx := context.Background()
	state, _ := env.svc.Start(ctx, 1, 0)
	fillDraft(t, env, state.Token, 1)

	files := makeFileHeaders(t, []string{"cover.jpg"}, []int{1024})
	if _, err := env.svc.AddPhotos(state.Token, 1, files); err != nil {
		t.Fatalf("AddPhotos() error = %v", err)
	}

	result, err := env.svc.Publish(ctx, state.Token, 1)
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if result.Status != model.ListingStatusPublished {
		t.Errorf("发布后状态应为 published, got %q", result.Status)
	}

	// 临时预览已转正
	var photos []model.ListingPhoto
	env.db.Where("listing_id = ?", result.ListingID).Find(&photos)
	if len(photos) != 1 {
		t.Fatalf("应落库1张图片, got %d", len(photos))
	}
	if strings.Contains(photos[0].URL, "/tmp/") {
		t.Errorf("发布后图片应为永久 URL, got %q", photos[0].URL)
	}

	// 发布是会话终点，之后任何操作都找不到会话
	if _, err := env.svc.Publish(ctx, state.Token, 1); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("重复发布应返回 ErrSessionNotFound, got %v", err)
	}
	if _, err := env.svc.State(state.Token, 1); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("发布后会话应已关闭, got %v", err)
	}
}

func TestWizardService_PublishValidationKeepsSession(t *testing.T) {
	env := setupWizardEnv(t)
	ctx := context.Background()
	state, _ := env.svc.Start(ctx, 1, 0)

	// 校验失败属可恢复错误，会话和本地状态保留
	_, err := env.svc.Publish(ctx, state.Token, 1)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("不完整草稿发布应返回 *ValidationError, got %v", err)
	}
	if _, err := env.svc.State(state.Token, 1); err != nil {
		t.Errorf("校验失败后会话应保留: %v", err)
	}
}

// ==================== 付费套餐扣款 ====================

func TestWizardService_PaidPublishChargesWallet(t *testing.T) {
	env := setupWizardEnv(t)
	ctx := context.Background()

	env.db.Create(&model.User{ID: 1, Phone: "9876543210", Status: model.UserStatusActive, Balance: 1000})
	env.db.Create(&model.ListingPlan{Code: "gold", Name: "黄金套餐", Tier: model.PlanTierPaid, Price: 600, PhotoLimit: 25, ActiveDays: 90})

	state, _ := env.svc.Start(ctx, 1, 0)
	fillDraft(t, env, state.Token, 1)
	s := func(v string) *string { return &v }
	env.svc.UpdateFields(ctx, state.Token, 1, &dto.UpdateDraftRequest{
		PlanTier:     s("paid"),
		SelectedPlan: s("gold"),
	})

	if _, err := env.svc.Publish(ctx, state.Token, 1); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	var user model.User
	env.db.First(&user, 1)
	if user.Balance != 400 {
		t.Errorf("余额应扣减为400, got %d", user.Balance)
	}

	var txn model.WalletTransaction
	if err := env.db.Where("user_id = ?", 1).First(&txn).Error; err != nil {
		t.Fatal("应生成一条扣款流水")
	}
	if txn.Type != model.WalletTxnDebit || txn.Amount != 600 {
		t.Errorf("流水应为600扣款, got %+v", txn)
	}
}

func TestWizardService_PaidPublishInsufficientBalance(t *testing.T) {
	env := setupWizardEnv(t)
	ctx := context.Background()

	env.db.Create(&model.User{ID: 1, Phone: "9876543210", Status: model.UserStatusActive, Balance: 100})
	env.db.Create(&model.ListingPlan{Code: "gold", Name: "黄金套餐", Tier: model.PlanTierPaid, Price: 600, PhotoLimit: 25, ActiveDays: 90})

	state, _ := env.svc.Start(ctx, 1, 0)
	fillDraft(t, env, state.Token, 1)
	s := func(v string) *string { return &v }
	env.svc.UpdateFields(ctx, state.Token, 1, &dto.UpdateDraftRequest{
		PlanTier:     s("paid"),
		SelectedPlan: s("gold"),
	})

	if _, err := env.svc.Publish(ctx, state.Token, 1); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("余额不足应返回 ErrInsufficientBalance, got %v", err)
	}

	// 失败后余额不动，会话保留
	var user model.User
	env.db.First(&user, 1)
	if user.Balance != 100 {
		t.Errorf("失败后余额不应变化, got %d", user.Balance)
	}
	if _, err := env.svc.State(state.Token, 1); err != nil {
		t.Errorf("扣款失败后会话应保留: %v", err)
	}
}

func TestWizardService_PaidPublishRefundsOnPromoteFailure(t *testing.T) {
	env := setupWizardEnv(t)
	ctx := context.Background()

	env.db.Create(&model.User{ID: 1, Phone: "9876543210", Status: model.UserStatusActive, Balance: 1000})
	env.db.Create(&model.ListingPlan{Code: "gold", Name: "黄金套餐", Tier: model.PlanTierPaid, Price: 600, PhotoLimit: 25, ActiveDays: 90})

	state, _ := env.svc.Start(ctx, 1, 0)
	fillDraft(t, env, state.Token, 1)
	s := func(v string) *string { return &v }
	env.svc.UpdateFields(ctx, state.Token, 1, &dto.UpdateDraftRequest{
		PlanTier:     s("paid"),
		SelectedPlan: s("gold"),
	})

	files := makeFileHeaders(t, []string{"cover.jpg"}, []int{1024})
	if _, err := env.svc.AddPhotos(state.Token, 1, files); err != nil {
		t.Fatalf("AddPhotos() error = %v", err)
	}

	// 从背后删掉临时文件，转正必然失败
	entries, _ := os.ReadDir(env.storage.TempDir)
	for _, e := range entries {
		os.Remove(filepath.Join(env.storage.TempDir, e.Name()))
	}

	if _, err := env.svc.Publish(ctx, state.Token, 1); err == nil {
		t.Fatal("图片转正失败时发布应报错")
	}

	// 已扣的款要退回来
	var user model.User
	env.db.First(&user, 1)
	if user.Balance != 1000 {
		t.Errorf("发布失败后余额应退回1000, got %d", user.Balance)
	}

	var txns []model.WalletTransaction
	env.db.Where("user_id = ?", 1).Order("id ASC").Find(&txns)
	if len(txns) != 2 {
		t.Fatalf("应有扣款+退款两条流水, got %d", len(txns))
	}
	if txns[0].Type != model.WalletTxnDebit || txns[0].Amount != 600 {
		t.Errorf("第1条应为600扣款, got %+v", txns[0])
	}
	if txns[1].Type != model.WalletTxnCredit || txns[1].Amount != 600 {
		t.Errorf("第2条应为600退款, got %+v", txns[1])
	}

	// 会话保留，用户可以重新上传后再发布
	if _, err := env.svc.State(state.Token, 1); err != nil {
		t.Errorf("发布失败后会话应保留: %v", err)
	}
}

// ==================== 草稿续编 ====================

func TestWizardService_StartFromExistingDraft(t *testing.T) {
	env := setupWizardEnv(t)
	ctx := context.Background()

	// 先开一个会话保存草稿
	state, _ := env.svc.Start(ctx, 1, 0)
	fillDraft(t, env, state.Token, 1)
	saved, err := env.svc.Save(ctx, state.Token, 1)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	env.svc.Close(state.Token, 1)

	// 从服务端草稿续编
	resumed, err := env.svc.Start(ctx, 1, saved.ListingID)
	if err != nil {
		t.Fatalf("续编 Start() error = %v", err)
	}
	if resumed.Draft.ListingID != saved.ListingID {
		t.Errorf("续编应复用ID %d, got %d", saved.ListingID, resumed.Draft.ListingID)
	}
	if resumed.Draft.Title != "两室出租" {
		t.Errorf("字段应回填, got %q", resumed.Draft.Title)
	}

	// 他人不能续编
	if _, err := env.svc.Start(ctx, 2, saved.ListingID); err == nil {
		t.Error("续编他人草稿应失败")
	}
}
