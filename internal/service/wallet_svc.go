package service

import (
	"context"
	"errors"
	"time"

	"estate_dev_v1_202608/internal/api/dto"
	"estate_dev_v1_202608/internal/repository"
)

// ==================== 错误定义 ====================

// ErrInsufficientBalance 余额不足以支付套餐
var ErrInsufficientBalance = errors.New("钱包余额不足")

// ==================== WalletService 钱包服务 ====================

// WalletService 钱包余额与流水服务
type WalletService struct {
	walletRepo repository.WalletRepository
	userRepo   repository.UserRepository
}

// NewWalletService 创建钱包服务
func NewWalletService(walletRepo repository.WalletRepository, userRepo repository.UserRepository) *WalletService {
	return &WalletService{
		walletRepo: walletRepo,
		userRepo:   userRepo,
	}
}

// Balance 查询余额
func (s *WalletService) Balance(ctx context.Context, userID int64) (*dto.WalletVO, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.WalletVO{Balance: user.Balance}, nil
}

// Transactions 分页查询流水
func (s *WalletService) Transactions(ctx context.Context, userID int64, page, pageSize int) ([]dto.WalletTxnVO, int64, error) {
	txns, total, err := s.walletRepo.ListByUser(ctx, userID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	result := make([]dto.WalletTxnVO, len(txns))
	for i, t := range txns {
		result[i] = dto.WalletTxnVO{
			ID:          t.ID,
			Amount:      t.Amount,
			Type:        t.Type,
			Description: t.Description,
			CreatedAt:   t.CreatedAt.Format(time.RFC3339),
		}
	}
	return result, total, nil
}

// Charge 发布付费套餐时扣款
func (s *WalletService) Charge(ctx context.Context, userID, amount int64, description string) error {
	if amount <= 0 {
		return nil
	}
	err := s.walletRepo.Debit(ctx, userID, amount, description)
	if errors.Is(err, repository.ErrInsufficientFunds) {
		return ErrInsufficientBalance
	}
	return err
}

// Recharge 充值
func (s *WalletService) Recharge(ctx context.Context, userID, amount int64, description string) error {
	if amount <= 0 {
		return errors.New("充值金额必须大于0")
	}
	return s.walletRepo.Credit(ctx, userID, amount, description)
}
