package service

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"gorm.io/datatypes"

	"estate_dev_v1_202608/internal/api/dto"
	"estate_dev_v1_202608/internal/model"
	"estate_dev_v1_202608/internal/repository"
	"estate_dev_v1_202608/internal/wizard"
)

// ==================== 错误定义 ====================

// ValidationError 发布前服务端校验失败，可恢复错误，随字段错误列表返回给前端内联展示
type ValidationError struct {
	Fields []wizard.FieldError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("共 %d 个字段未通过校验", len(e.Fields))
}

// PhotoInput 发布时落库的图片
type PhotoInput struct {
	URL  string
	Size int64
}

// ==================== ListingService 房源服务 ====================

// ListingService 房源草稿保存/发布桥接与 CRUD
type ListingService struct {
	uow         *repository.ListingUnitOfWork
	enquiryRepo repository.EnquiryRepository
	savedRepo   repository.SavedListingRepository
	photoStore  StorageProvider
}

// NewListingService 创建房源服务
func NewListingService(uow *repository.ListingUnitOfWork, enquiryRepo repository.EnquiryRepository, savedRepo repository.SavedListingRepository, photoStore StorageProvider) *ListingService {
	return &ListingService{
		uow:         uow,
		enquiryRepo: enquiryRepo,
		savedRepo:   savedRepo,
		photoStore:  photoStore,
	}
}

// ==================== 草稿保存 ====================

// SaveDraft 保存草稿
// 首次保存创建记录并返回服务端ID，之后的保存复用该ID做更新；
// 已发布房源的再次保存只更新字段，不回退状态（重新提交才改状态）
func (s *ListingService) SaveDraft(ctx context.Context, userID int64, d *wizard.Draft) (int64, error) {
	if d.ListingID == 0 {
		listing := draftToModel(userID, d)
		listing.Status = model.ListingStatusDraft
		if err := s.uow.Listings.Create(ctx, listing); err != nil {
			return 0, err
		}
		d.ListingID = listing.ID
		return listing.ID, nil
	}

	// 归属校验后按字段更新
	if _, err := s.uow.Listings.GetByIDForUser(ctx, d.ListingID, userID); err != nil {
		return 0, fmt.Errorf("草稿不存在")
	}
	if err := s.uow.Listings.UpdateFields(ctx, d.ListingID, draftToFields(d)); err != nil {
		return 0, err
	}
	return d.ListingID, nil
}

// ==================== 发布 ====================

// Publish 发布房源
// 服务端在客户端校验门之外再做一次全量校验；失败返回 *ValidationError，
// 属可恢复错误，调用方内联展示，不丢失本地状态
func (s *ListingService) Publish(ctx context.Context, userID int64, d *wizard.Draft, photos []PhotoInput) (*model.Listing, error) {
	if errs := wizard.ValidateAll(d); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	var published *model.Listing
	err := s.uow.Transaction(ctx, func(uow *repository.ListingUnitOfWork) error {
		var listing *model.Listing

		if d.ListingID == 0 {
			listing = draftToModel(userID, d)
			if err := uow.Listings.Create(ctx, listing); err != nil {
				return err
			}
			d.ListingID = listing.ID
		} else {
			existing, err := uow.Listings.GetByIDForUser(ctx, d.ListingID, userID)
			if err != nil {
				return fmt.Errorf("草稿不存在")
			}
			if err := uow.Listings.UpdateFields(ctx, d.ListingID, draftToFields(d)); err != nil {
				return err
			}
			listing = existing
		}

		listing.MarkPublished(time.Now())
		if err := uow.Listings.UpdateFields(ctx, listing.ID, map[string]interface{}{
			"status":       listing.Status,
			"published_at": listing.PublishedAt,
			"expires_at":   listing.ExpiresAt,
		}); err != nil {
			return err
		}

		// 重建图片记录，位置 0 即封面
		if err := uow.Photos.DeleteByListingID(ctx, listing.ID); err != nil {
			return err
		}
		rows := make([]model.ListingPhoto, len(photos))
		for i, p := range photos {
			rows[i] = model.ListingPhoto{
				ListingID: listing.ID,
				SortIndex: i,
				URL:       p.URL,
				FileSize:  p.Size,
			}
		}
		if err := uow.Photos.CreateBatch(ctx, rows); err != nil {
			return err
		}

		published = listing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return published, nil
}

// ==================== 查询 ====================

// List 按状态查询用户房源（published/draft/rejected/expired）
func (s *ListingService) List(ctx context.Context, userID int64, req *dto.ListListingsRequest) ([]dto.ListingSummaryVO, int64, error) {
	listings, total, err := s.uow.Listings.List(ctx, repository.ListingFilter{
		UserID:   userID,
		Status:   req.Status,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		return nil, 0, err
	}

	result := make([]dto.ListingSummaryVO, len(listings))
	for i, l := range listings {
		vo := dto.ListingSummaryVO{
			ID:        l.ID,
			Title:     l.Title,
			Category:  l.Category,
			Intent:    l.Intent,
			Price:     l.Price,
			Area:      l.Area,
			CityID:    l.CityID,
			Locality:  l.Locality,
			Status:    l.Status,
			CreatedAt: l.CreatedAt.Format(time.RFC3339),
		}
		if l.ExpiresAt != nil {
			vo.ExpiresAt = l.ExpiresAt.Format(time.RFC3339)
		}
		if photos, err := s.uow.Photos.GetByListingID(ctx, l.ID); err == nil && len(photos) > 0 {
			vo.CoverURL = photos[0].URL
		}
		result[i] = vo
	}

	return result, total, nil
}

// GetDetail 房源详情
func (s *ListingService) GetDetail(ctx context.Context, userID, listingID int64) (*dto.ListingDetailVO, error) {
	listing, err := s.uow.Listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("房源不存在")
	}

	vo := &dto.ListingDetailVO{
		ID:              listing.ID,
		Category:        listing.Category,
		Intent:          listing.Intent,
		ResidentialType: listing.ResidentialType,
		CommercialType:  listing.CommercialType,
		IndustrialType:  listing.IndustrialType,
		Title:           listing.Title,
		Description:     listing.Description,
		BHK:             listing.BHK,
		Bathrooms:       listing.Bathrooms,
		Balconies:       listing.Balconies,
		Area:            listing.Area,
		Price:           listing.Price,
		Furnishing:      listing.Furnishing,
		Facing:          listing.Facing,
		PropertyAge:     listing.PropertyAge,
		Amenities:       []string(listing.Amenities),
		CountryID:       listing.CountryID,
		StateID:         listing.StateID,
		CityID:          listing.CityID,
		Locality:        listing.Locality,
		Society:         listing.Society,
		Pincode:         listing.Pincode,
		Negotiable:      listing.Negotiable,
		Urgent:          listing.Urgent,
		LoanAvailable:   listing.LoanAvailable,
		Featured:        listing.Featured,
		HideNumber:      listing.HideNumber,
		VirtualTour:     listing.VirtualTour,
		OwnerName:       listing.OwnerName,
		PlanTier:        listing.PlanTier,
		SelectedPlan:    listing.SelectedPlan,
		Status:          listing.Status,
		CreatedAt:       listing.CreatedAt.Format(time.RFC3339),
	}

	// 业主开启隐藏电话后仅本人可见
	if !listing.HideNumber || listing.UserID == userID {
		vo.OwnerPhone = listing.OwnerPhone
	}
	if listing.PublishedAt != nil {
		vo.PublishedAt = listing.PublishedAt.Format(time.RFC3339)
	}
	for _, p := range listing.Photos {
		vo.Photos = append(vo.Photos, p.URL)
	}
	if userID > 0 {
		saved, _ := s.savedRepo.Exists(ctx, userID, listingID)
		vo.Saved = saved
	}

	return vo, nil
}

// Delete 删除自己的房源，随后清理正式区的图片文件
func (s *ListingService) Delete(ctx context.Context, userID, listingID int64) error {
	listing, err := s.uow.Listings.GetByIDForUser(ctx, listingID, userID)
	if err != nil {
		return fmt.Errorf("房源不存在")
	}
	if err := s.uow.Listings.Delete(ctx, listingID); err != nil {
		return err
	}
	// 文件清理失败只记日志，记录已删
	for _, p := range listing.Photos {
		if err := s.photoStore.Delete(ctx, p.URL); err != nil {
			log.Printf("[ListingService] 删除图片文件失败: %s err=%v", p.URL, err)
		}
	}
	return nil
}

// ==================== 互动 ====================

// Enquire 提交房源咨询
func (s *ListingService) Enquire(ctx context.Context, userID, listingID int64, req *dto.EnquiryRequest) error {
	if _, err := s.uow.Listings.GetByID(ctx, listingID); err != nil {
		return fmt.Errorf("房源不存在")
	}
	return s.enquiryRepo.Create(ctx, &model.Enquiry{
		ListingID: listingID,
		UserID:    userID,
		Name:      req.Name,
		Phone:     req.Phone,
		Message:   req.Message,
	})
}

// Enquiries 业主查看自己房源收到的咨询
func (s *ListingService) Enquiries(ctx context.Context, userID, listingID int64) ([]dto.EnquiryVO, error) {
	if _, err := s.uow.Listings.GetByIDForUser(ctx, listingID, userID); err != nil {
		return nil, fmt.Errorf("房源不存在")
	}
	enquiries, err := s.enquiryRepo.ListByListing(ctx, listingID)
	if err != nil {
		return nil, err
	}

	result := make([]dto.EnquiryVO, len(enquiries))
	for i, e := range enquiries {
		result[i] = dto.EnquiryVO{
			ID:        e.ID,
			Name:      e.Name,
			Phone:     e.Phone,
			Message:   e.Message,
			CreatedAt: e.CreatedAt.Format(time.RFC3339),
		}
	}
	return result, nil
}

// ToggleSave 收藏/取消收藏切换
func (s *ListingService) ToggleSave(ctx context.Context, userID, listingID int64) (*dto.SaveToggleResult, error) {
	exists, err := s.savedRepo.Exists(ctx, userID, listingID)
	if err != nil {
		return nil, err
	}
	if exists {
		if err := s.savedRepo.Delete(ctx, userID, listingID); err != nil {
			return nil, err
		}
		return &dto.SaveToggleResult{Saved: false}, nil
	}
	if err := s.savedRepo.Create(ctx, &model.SavedListing{UserID: userID, ListingID: listingID}); err != nil {
		return nil, err
	}
	return &dto.SaveToggleResult{Saved: true}, nil
}

// ==================== 草稿回填 ====================

// DraftFromListing 从服务端房源回填向导草稿，返回草稿和已有图片 URL
func (s *ListingService) DraftFromListing(ctx context.Context, userID, listingID int64) (*wizard.Draft, []string, error) {
	listing, err := s.uow.Listings.GetByIDForUser(ctx, listingID, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("房源不存在")
	}

	d := &wizard.Draft{
		ListingID:       listing.ID,
		Category:        wizard.Category(listing.Category),
		Intent:          wizard.Intent(listing.Intent),
		PlanTier:        wizard.PlanTier(listing.PlanTier),
		SelectedPlan:    listing.SelectedPlan,
		ResidentialType: listing.ResidentialType,
		CommercialType:  listing.CommercialType,
		IndustrialType:  listing.IndustrialType,
		Title:           listing.Title,
		Description:     listing.Description,
		BHK:             listing.BHK,
		Bathrooms:       listing.Bathrooms,
		Balconies:       listing.Balconies,
		Furnishing:      listing.Furnishing,
		Facing:          listing.Facing,
		PropertyAge:     listing.PropertyAge,
		Amenities:       []string(listing.Amenities),
		CountryID:       listing.CountryID,
		StateID:         listing.StateID,
		CityID:          listing.CityID,
		Locality:        listing.Locality,
		Society:         listing.Society,
		Pincode:         listing.Pincode,
		Negotiable:      listing.Negotiable,
		Urgent:          listing.Urgent,
		LoanAvailable:   listing.LoanAvailable,
		Featured:        listing.Featured,
		HideNumber:      listing.HideNumber,
		VirtualTour:     listing.VirtualTour,
		OwnerName:       listing.OwnerName,
		OwnerPhone:      listing.OwnerPhone,
	}
	if listing.Area > 0 {
		d.Area = strconv.FormatInt(listing.Area, 10)
	}
	if listing.Price > 0 {
		d.Price = strconv.FormatInt(listing.Price, 10)
	}
	if d.PlanTier == "" {
		d.PlanTier = wizard.PlanTierFree
	}

	urls := make([]string, len(listing.Photos))
	for i, p := range listing.Photos {
		urls[i] = p.URL
	}
	return d, urls, nil
}

// ==================== 映射辅助 ====================

func draftToModel(userID int64, d *wizard.Draft) *model.Listing {
	listing := &model.Listing{UserID: userID}
	applyDraft(listing, d)
	return listing
}

func applyDraft(listing *model.Listing, d *wizard.Draft) {
	listing.Category = string(d.Category)
	listing.Intent = string(d.Intent)
	listing.ResidentialType = d.ResidentialType
	listing.CommercialType = d.CommercialType
	listing.IndustrialType = d.IndustrialType
	listing.Title = d.Title
	listing.Description = d.Description
	listing.BHK = d.BHK
	listing.Bathrooms = d.Bathrooms
	listing.Balconies = d.Balconies
	listing.Area = parseInt(d.Area)
	listing.Price = parseInt(d.Price)
	listing.Furnishing = d.Furnishing
	listing.Facing = d.Facing
	listing.PropertyAge = d.PropertyAge
	listing.Amenities = datatypes.JSONSlice[string](d.Amenities)
	listing.CountryID = d.CountryID
	listing.StateID = d.StateID
	listing.CityID = d.CityID
	listing.Locality = d.Locality
	listing.Society = d.Society
	listing.Pincode = d.Pincode
	listing.Negotiable = d.Negotiable
	listing.Urgent = d.Urgent
	listing.LoanAvailable = d.LoanAvailable
	listing.Featured = d.Featured
	listing.HideNumber = d.HideNumber
	listing.VirtualTour = d.VirtualTour
	listing.OwnerName = d.OwnerName
	listing.OwnerPhone = d.OwnerPhone
	listing.PlanTier = string(d.PlanTier)
	listing.SelectedPlan = d.SelectedPlan
	if listing.PlanTier == "" {
		listing.PlanTier = model.PlanTierFree
	}
}

func draftToFields(d *wizard.Draft) map[string]interface{} {
	planTier := string(d.PlanTier)
	if planTier == "" {
		planTier = model.PlanTierFree
	}
	return map[string]interface{}{
		"category":         string(d.Category),
		"intent":           string(d.Intent),
		"residential_type": d.ResidentialType,
		"commercial_type":  d.CommercialType,
		"industrial_type":  d.IndustrialType,
		"title":            d.Title,
		"description":      d.Description,
		"bhk":              d.BHK,
		"bathrooms":        d.Bathrooms,
		"balconies":        d.Balconies,
		"area":             parseInt(d.Area),
		"price":            parseInt(d.Price),
		"furnishing":       d.Furnishing,
		"facing":           d.Facing,
		"property_age":     d.PropertyAge,
		"amenities":        datatypes.JSONSlice[string](d.Amenities),
		"country_id":       d.CountryID,
		"state_id":         d.StateID,
		"city_id":          d.CityID,
		"locality":         d.Locality,
		"society":          d.Society,
		"pincode":          d.Pincode,
		"negotiable":       d.Negotiable,
		"urgent":           d.Urgent,
		"loan_available":   d.LoanAvailable,
		"featured":         d.Featured,
		"hide_number":      d.HideNumber,
		"virtual_tour":     d.VirtualTour,
		"owner_name":       d.OwnerName,
		"owner_phone":      d.OwnerPhone,
		"plan_tier":        planTier,
		"selected_plan":    d.SelectedPlan,
	}
}

func parseInt(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}
