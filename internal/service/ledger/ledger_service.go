// Package ledger 账本服务，负责余额变动与流水记录
package ledger

import (
	"context"
	stderrors "errors"

	"gorm.io/gorm"

	"github.com/JoelCaquene/temeisheng-platform/internal/common/errors"
	"github.com/JoelCaquene/temeisheng-platform/internal/common/utils"
	"github.com/JoelCaquene/temeisheng-platform/internal/models"
	"github.com/JoelCaquene/temeisheng-platform/internal/repository"
)

// Service 账本服务
type Service struct {
	db         *gorm.DB
	ledgerRepo *repository.LedgerRepository
	txRepo     *repository.TransactionRepository
}

// NewService 创建账本服务
func NewService(db *gorm.DB) *Service {
	return &Service{
		db:         db,
		ledgerRepo: repository.NewLedgerRepository(db),
		txRepo:     repository.NewTransactionRepository(db),
	}
}

// GetAccount 获取用户账本（包含激活等级）
func (s *Service) GetAccount(ctx context.Context, userID int64) (*models.LedgerAccount, error) {
	account, err := s.ledgerRepo.GetByUserIDWithLevel(ctx, userID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrLedgerNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return account, nil
}

// GetTransactions 获取用户账本流水
func (s *Service) GetTransactions(ctx context.Context, userID int64, txType string, page *utils.Pagination) ([]*models.LedgerTransaction, error) {
	page.Normalize()

	filter := &repository.TransactionFilter{
		UserID: &userID,
		Type:   txType,
	}
	txs, total, err := s.txRepo.List(ctx, filter, page.GetOffset(), page.GetLimit())
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	page.Total = total
	return txs, nil
}

// UpdateBankInfo 更新收款银行信息
func (s *Service) UpdateBankInfo(ctx context.Context, userID int64, bankName, iban, holderName string) error {
	iban = utils.NormalizeIBAN(iban)
	if !utils.ValidateIBAN(iban) {
		return errors.ErrInvalidParams.WithMessage("IBAN inválido, use o formato AO06 seguido de 21 dígitos")
	}
	if bankName == "" || holderName == "" {
		return errors.ErrInvalidParams.WithMessage("Nome do banco e do titular são obrigatórios")
	}

	if _, err := s.ledgerRepo.GetByUserID(ctx, userID); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrLedgerNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}

	if err := s.ledgerRepo.UpdateBankInfo(ctx, userID, bankName, iban, holderName); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// CreditTx 在事务中入账。
// extra 里的额外字段（如累计列的 gorm.Expr 增量）与余额一起更新，
// 随后追加一条流水，余额快照取锁后的读数。
func (s *Service) CreditTx(ctx context.Context, tx *gorm.DB, userID int64, amount float64, txType string, refNo *string, remark string, extra map[string]interface{}) (float64, error) {
	account, err := s.ledgerRepo.GetForUpdate(ctx, tx, userID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return 0, errors.ErrLedgerNotFound
		}
		return 0, errors.ErrDatabaseError.WithError(err)
	}

	balanceBefore := account.Balance
	balanceAfter := balanceBefore + amount

	fields := map[string]interface{}{
		"balance": balanceAfter,
	}
	for k, v := range extra {
		fields[k] = v
	}

	if err := s.ledgerRepo.UpdateFieldsTx(ctx, tx, userID, fields); err != nil {
		return 0, errors.ErrDatabaseError.WithError(err)
	}

	record := &models.LedgerTransaction{
		UserID:        userID,
		Type:          txType,
		Amount:        amount,
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceAfter,
		RefNo:         refNo,
		Remark:        utils.StringPtr(remark),
	}
	if err := s.txRepo.CreateTx(ctx, tx, record); err != nil {
		return 0, errors.ErrDatabaseError.WithError(err)
	}

	return balanceAfter, nil
}

// DebitTx 在事务中扣款。
// 先锁行读余额快照，再走带余额条件的扣减，0 行视为余额不足。
func (s *Service) DebitTx(ctx context.Context, tx *gorm.DB, userID int64, amount float64, txType string, refNo *string, remark string, extra map[string]interface{}) (float64, error) {
	account, err := s.ledgerRepo.GetForUpdate(ctx, tx, userID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return 0, errors.ErrLedgerNotFound
		}
		return 0, errors.ErrDatabaseError.WithError(err)
	}

	rows, err := s.ledgerRepo.DebitBalanceTx(ctx, tx, userID, amount)
	if err != nil {
		return 0, errors.ErrDatabaseError.WithError(err)
	}
	if rows == 0 {
		return 0, errors.ErrInsufficientBalance
	}

	balanceBefore := account.Balance
	balanceAfter := balanceBefore - amount

	if len(extra) > 0 {
		if err := s.ledgerRepo.UpdateFieldsTx(ctx, tx, userID, extra); err != nil {
			return 0, errors.ErrDatabaseError.WithError(err)
		}
	}

	record := &models.LedgerTransaction{
		UserID:        userID,
		Type:          txType,
		Amount:        amount,
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceAfter,
		RefNo:         refNo,
		Remark:        utils.StringPtr(remark),
	}
	if err := s.txRepo.CreateTx(ctx, tx, record); err != nil {
		return 0, errors.ErrDatabaseError.WithError(err)
	}

	return balanceAfter, nil
}
