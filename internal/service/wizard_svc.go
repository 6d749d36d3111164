package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"sync"
	"time"

	"github.com/google/uuid"

	"estate_dev_v1_202608/internal/api/dto"
	"estate_dev_v1_202608/internal/wizard"
)

// ==================== 错误定义 ====================

var (
	// ErrSessionNotFound 会话不存在或已过期
	ErrSessionNotFound = errors.New("向导会话不存在或已过期")
	// ErrAlreadyPublished 已发布房源不可再次发布
	ErrAlreadyPublished = errors.New("该房源已发布")
)

// 会话空闲超时，清理任务按此回收
const sessionIdleTimeout = 30 * time.Minute

// ==================== 向导会话 ====================

// WizardSession 一次发布向导的服务端会话
// Draft 被 Sequencer/Cascade/PhotoManager 共享，mu 串行化会话级操作
type WizardSession struct {
	Token  string
	UserID int64

	mu         sync.Mutex
	draft      *wizard.Draft
	seq        *wizard.Sequencer
	photos     *wizard.PhotoManager
	cascade    *wizard.Cascade
	published  bool
	lastActive time.Time
}

func (s *WizardSession) touch() {
	s.lastActive = time.Now()
}

// ==================== WizardService 向导服务 ====================

// WizardService 管理发布向导会话的生命周期
type WizardService struct {
	sessions sync.Map // token -> *WizardSession

	lookup   wizard.LookupProvider
	storage  *StorageService
	listings *ListingService
	wallet   *WalletService
	masters  *MastersService
}

// NewWizardService 创建向导服务
func NewWizardService(lookup wizard.LookupProvider, storage *StorageService, listings *ListingService, wallet *WalletService, masters *MastersService) *WizardService {
	return &WizardService{
		lookup:   lookup,
		storage:  storage,
		listings: listings,
		wallet:   wallet,
		masters:  masters,
	}
}

// ==================== 会话生命周期 ====================

// Start 开启向导会话
// listingID 非 0 时从服务端草稿回填字段和已有图片，继续编辑复用同一ID
func (s *WizardService) Start(ctx context.Context, userID, listingID int64) (*dto.WizardStateVO, error) {
	var draft *wizard.Draft
	var photoURLs []string

	if listingID > 0 {
		d, urls, err := s.listings.DraftFromListing(ctx, userID, listingID)
		if err != nil {
			return nil, err
		}
		draft = d
		photoURLs = urls
	} else {
		draft = &wizard.Draft{PlanTier: wizard.PlanTierFree}
	}

	session := &WizardSession{
		Token:      uuid.NewString(),
		UserID:     userID,
		draft:      draft,
		seq:        wizard.NewSequencer(),
		photos:     wizard.NewPhotoManager(draft.PhotoLimit()),
		lastActive: time.Now(),
	}
	session.cascade = wizard.NewCascade(s.lookup, draft)
	session.photos.Hydrate(photoURLs)

	s.sessions.Store(session.Token, session)
	return s.stateVO(session), nil
}

// get 取会话并做归属校验
func (s *WizardService) get(token string, userID int64) (*WizardSession, error) {
	v, ok := s.sessions.Load(token)
	if !ok {
		return nil, ErrSessionNotFound
	}
	session := v.(*WizardSession)
	if session.UserID != userID {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// State 会话全量状态
func (s *WizardService) State(token string, userID int64) (*dto.WizardStateVO, error) {
	session, err := s.get(token, userID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	session.touch()
	session.mu.Unlock()
	return s.stateVO(session), nil
}

// Close 关闭会话，释放所有临时预览资源
func (s *WizardService) Close(token string, userID int64) error {
	session, err := s.get(token, userID)
	if err != nil {
		return err
	}
	s.sessions.Delete(token)
	return session.photos.Close()
}

// CleanupExpired 回收空闲超时的会话，返回回收数量（清理任务调用）
func (s *WizardService) CleanupExpired() int {
	cleaned := 0
	now := time.Now()
	s.sessions.Range(func(key, value interface{}) bool {
		session := value.(*WizardSession)
		session.mu.Lock()
		idle := now.Sub(session.lastActive) > sessionIdleTimeout
		session.mu.Unlock()
		if idle {
			s.sessions.Delete(key)
			_ = session.photos.Close()
			cleaned++
		}
		return true
	})
	return cleaned
}

// ==================== 字段更新 ====================

// UpdateFields 应用草稿字段更新
// 位置三级字段路由到级联联动器（上级变更重置下级）；套餐变更同步图片上限
func (s *WizardService) UpdateFields(ctx context.Context, token string, userID int64, req *dto.UpdateDraftRequest) (*dto.WizardStateVO, error) {
	session, err := s.get(token, userID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	d := session.draft
	session.touch()

	if req.Category != nil {
		d.Category = wizard.Category(*req.Category)
	}
	if req.Intent != nil {
		d.Intent = wizard.Intent(*req.Intent)
	}
	if req.PlanTier != nil {
		d.PlanTier = wizard.PlanTier(*req.PlanTier)
		session.photos.SetLimit(d.PhotoLimit())
	}
	if req.SelectedPlan != nil {
		d.SelectedPlan = *req.SelectedPlan
	}
	if req.ResidentialType != nil {
		d.ResidentialType = *req.ResidentialType
	}
	if req.CommercialType != nil {
		d.CommercialType = *req.CommercialType
	}
	if req.IndustrialType != nil {
		d.IndustrialType = *req.IndustrialType
	}
	if req.Title != nil {
		d.Title = *req.Title
	}
	if req.Description != nil {
		d.Description = *req.Description
	}
	if req.BHK != nil {
		d.BHK = *req.BHK
	}
	if req.Bathrooms != nil {
		d.Bathrooms = *req.Bathrooms
	}
	if req.Balconies != nil {
		d.Balconies = *req.Balconies
	}
	if req.Area != nil {
		d.Area = *req.Area
	}
	if req.Price != nil {
		d.Price = *req.Price
	}
	if req.Furnishing != nil {
		d.Furnishing = *req.Furnishing
	}
	if req.Facing != nil {
		d.Facing = *req.Facing
	}
	if req.PropertyAge != nil {
		d.PropertyAge = *req.PropertyAge
	}
	if req.Amenities != nil {
		d.Amenities = *req.Amenities
	}
	if req.Society != nil {
		d.Society = *req.Society
	}
	if req.Pincode != nil {
		d.Pincode = *req.Pincode
	}
	if req.Negotiable != nil {
		d.Negotiable = *req.Negotiable
	}
	if req.Urgent != nil {
		d.Urgent = *req.Urgent
	}
	if req.LoanAvailable != nil {
		d.LoanAvailable = *req.LoanAvailable
	}
	if req.Featured != nil {
		d.Featured = *req.Featured
	}
	if req.HideNumber != nil {
		d.HideNumber = *req.HideNumber
	}
	if req.VirtualTour != nil {
		d.VirtualTour = *req.VirtualTour
	}
	if req.OwnerName != nil {
		d.OwnerName = *req.OwnerName
	}
	if req.OwnerPhone != nil {
		d.OwnerPhone = *req.OwnerPhone
	}
	session.mu.Unlock()

	// 级联操作自带锁且会发起数据请求，放在会话锁外
	if req.CountryID != nil {
		if err := session.cascade.SetCountry(ctx, *req.CountryID); err != nil {
			return nil, err
		}
	}
	if req.StateID != nil {
		if err := session.cascade.SetState(ctx, *req.StateID); err != nil {
			return nil, err
		}
	}
	if req.CityID != nil {
		if err := session.cascade.SetCity(ctx, *req.CityID); err != nil {
			return nil, err
		}
	}
	if req.Locality != nil {
		session.cascade.SetLocality(*req.Locality)
	}

	return s.stateVO(session), nil
}

// ==================== 步骤导航 ====================

// Next 前进一步，被校验门阻塞时返回字段错误且步骤不变
func (s *WizardService) Next(token string, userID int64) (*dto.StepResultVO, error) {
	session, err := s.get(token, userID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	session.touch()

	errs := session.seq.GoNext(session.draft)
	return stepResultVO(session.seq.Current(), errs), nil
}

// Prev 后退一步，不做校验
func (s *WizardService) Prev(token string, userID int64) (*dto.StepResultVO, error) {
	session, err := s.get(token, userID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	session.touch()

	step := session.seq.GoPrev()
	return stepResultVO(step, nil), nil
}

// Jump 跳转到到达过的步骤
func (s *WizardService) Jump(token string, userID int64, step int) (*dto.StepResultVO, error) {
	session, err := s.get(token, userID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	session.touch()

	if err := session.seq.JumpTo(wizard.Step(step)); err != nil {
		return nil, err
	}
	return stepResultVO(session.seq.Current(), nil), nil
}

// ==================== 图片附件 ====================

// AddPhotos 批量添加上传的图片
// 先落到临时区拿预览 URL，再交给附件管理器裁决；
// 超大小的逐个拒绝，突破套餐上限的整批拒绝（附件管理器负责回收预览）
func (s *WizardService) AddPhotos(token string, userID int64, files []*multipart.FileHeader) (*dto.PhotoAddVO, error) {
	session, err := s.get(token, userID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	session.touch()
	session.mu.Unlock()

	candidates := make([]wizard.Candidate, 0, len(files))
	for _, fh := range files {
		// 超大小的文件不必落盘，直接构造无资源候选交给管理器计数
		if fh.Size > wizard.MaxPhotoSize {
			candidates = append(candidates, wizard.Candidate{FileName: fh.Filename, Size: fh.Size})
			continue
		}
		src, err := fh.Open()
		if err != nil {
			releaseCandidates(candidates)
			return nil, fmt.Errorf("读取上传文件失败: %v", err)
		}
		previewURL, release, err := s.storage.SaveTemp(fh.Filename, src)
		src.Close()
		if err != nil {
			releaseCandidates(candidates)
			return nil, err
		}
		candidates = append(candidates, wizard.Candidate{
			FileName:   fh.Filename,
			Size:       fh.Size,
			PreviewURL: previewURL,
			Release:    release,
		})
	}

	result, err := session.photos.Add(candidates)
	if err != nil {
		return nil, err
	}

	return &dto.PhotoAddVO{
		Added:            result.Added,
		RejectedOversize: result.RejectedOversize,
		Count:            session.photos.Count(),
		Limit:            session.photos.Limit(),
		Photos:           photoVOs(session.photos.List()),
	}, nil
}

// RemovePhoto 按位置移除图片，临时预览立即释放；移除封面后下一张顶替
func (s *WizardService) RemovePhoto(token string, userID int64, index int) (*dto.PhotoAddVO, error) {
	session, err := s.get(token, userID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	session.touch()
	session.mu.Unlock()

	if err := session.photos.Remove(index); err != nil {
		return nil, err
	}
	return &dto.PhotoAddVO{
		Count:  session.photos.Count(),
		Limit:  session.photos.Limit(),
		Photos: photoVOs(session.photos.List()),
	}, nil
}

// ==================== 保存与发布 ====================

// Save 保存草稿，返回可复用的服务端ID（写回草稿，后续保存走更新）
func (s *WizardService) Save(ctx context.Context, token string, userID int64) (*dto.SaveDraftResult, error) {
	session, err := s.get(token, userID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	session.touch()

	id, err := s.listings.SaveDraft(ctx, userID, session.draft)
	if err != nil {
		return nil, err
	}
	return &dto.SaveDraftResult{ListingID: id}, nil
}

// Publish 发布房源，发布是会话的终点
// 顺序：全量校验 → 付费套餐扣款 → 临时图片转正 → 落库发布 → 关闭会话
func (s *WizardService) Publish(ctx context.Context, token string, userID int64) (*dto.PublishResult, error) {
	session, err := s.get(token, userID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	session.touch()

	if session.published {
		return nil, ErrAlreadyPublished
	}

	d := session.draft
	if errs := wizard.ValidateAll(d); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	var charged int64
	var refundDesc string
	if d.PlanTier == wizard.PlanTierPaid {
		plan, err := s.masters.GetPlan(ctx, d.SelectedPlan)
		if err != nil {
			return nil, fmt.Errorf("套餐不存在: %s", d.SelectedPlan)
		}
		desc := fmt.Sprintf("发布付费套餐 %s", plan.Code)
		if err := s.wallet.Charge(ctx, userID, plan.Price, desc); err != nil {
			return nil, err
		}
		charged = plan.Price
		refundDesc = fmt.Sprintf("发布失败退回套餐 %s", plan.Code)
	}

	// 临时预览转正，服务端已有图片保持原 URL
	attachments := session.photos.List()
	photos := make([]PhotoInput, 0, len(attachments))
	for _, a := range attachments {
		url := a.PreviewURL
		if !a.Remote() && s.storage.IsTemp(url) {
			permanent, err := s.storage.Promote(ctx, url)
			if err != nil {
				s.refundCharge(ctx, userID, charged, refundDesc)
				return nil, err
			}
			url = permanent
		}
		photos = append(photos, PhotoInput{URL: url, Size: a.Size})
	}

	listing, err := s.listings.Publish(ctx, userID, d, photos)
	if err != nil {
		s.refundCharge(ctx, userID, charged, refundDesc)
		return nil, err
	}

	// 转正后临时文件已不存在，Close 的释放均为空操作
	session.published = true
	s.sessions.Delete(token)
	_ = session.photos.Close()

	return &dto.PublishResult{ListingID: listing.ID, Status: listing.Status}, nil
}

// refundCharge 扣款之后发布失败的补偿：退回已扣金额，避免只扣款不发布
func (s *WizardService) refundCharge(ctx context.Context, userID, amount int64, description string) {
	if amount <= 0 {
		return
	}
	if err := s.wallet.Recharge(ctx, userID, amount, description); err != nil {
		log.Printf("[WizardService] 发布失败退款异常: user=%d amount=%d err=%v", userID, amount, err)
	}
}

// releaseCandidates 批次中途失败时回收已落盘的临时预览
func releaseCandidates(candidates []wizard.Candidate) {
	for _, c := range candidates {
		if c.Release != nil {
			_ = c.Release()
		}
	}
}

// ==================== VO 映射 ====================

func (s *WizardService) stateVO(session *WizardSession) *dto.WizardStateVO {
	session.mu.Lock()
	defer session.mu.Unlock()

	d := session.draft
	return &dto.WizardStateVO{
		Token:       session.Token,
		Step:        int(session.seq.Current()),
		StepName:    session.seq.Current().String(),
		HighestStep: int(session.seq.Highest()),
		Draft: dto.DraftVO{
			ListingID:       d.ListingID,
			Category:        string(d.Category),
			Intent:          string(d.Intent),
			PlanTier:        string(d.PlanTier),
			SelectedPlan:    d.SelectedPlan,
			ResidentialType: d.ResidentialType,
			CommercialType:  d.CommercialType,
			IndustrialType:  d.IndustrialType,
			Title:           d.Title,
			Description:     d.Description,
			BHK:             d.BHK,
			Bathrooms:       d.Bathrooms,
			Balconies:       d.Balconies,
			Area:            d.Area,
			Price:           d.Price,
			Furnishing:      d.Furnishing,
			Facing:          d.Facing,
			PropertyAge:     d.PropertyAge,
			Amenities:       d.Amenities,
			CountryID:       d.CountryID,
			StateID:         d.StateID,
			CityID:          d.CityID,
			Locality:        d.Locality,
			Society:         d.Society,
			Pincode:         d.Pincode,
			Negotiable:      d.Negotiable,
			Urgent:          d.Urgent,
			LoanAvailable:   d.LoanAvailable,
			Featured:        d.Featured,
			HideNumber:      d.HideNumber,
			VirtualTour:     d.VirtualTour,
			OwnerName:       d.OwnerName,
			OwnerPhone:      d.OwnerPhone,
		},
		Photos:           photoVOs(session.photos.List()),
		PhotoLimit:       session.photos.Limit(),
		States:           session.cascade.States(),
		Cities:           session.cascade.Cities(),
		Localities:       session.cascade.Localities(),
		FreeTextLocality: session.cascade.FreeTextLocality(),
	}
}

func photoVOs(attachments []*wizard.Attachment) []dto.PhotoVO {
	out := make([]dto.PhotoVO, len(attachments))
	for i, a := range attachments {
		out[i] = dto.PhotoVO{
			FileName:   a.FileName,
			Size:       a.Size,
			PreviewURL: a.PreviewURL,
			Remote:     a.Remote(),
		}
	}
	return out
}

func stepResultVO(step wizard.Step, errs []wizard.FieldError) *dto.StepResultVO {
	vo := &dto.StepResultVO{Step: int(step), StepName: step.String()}
	for _, e := range errs {
		vo.Errors = append(vo.Errors, dto.FieldErrorVO{Field: e.Field, Message: e.Message})
	}
	return vo
}
