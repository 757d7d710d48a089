package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"fraudguard-backend/internal/models"
	"fraudguard-backend/internal/services/fraud"
	"fraudguard-backend/internal/services/ledger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrNotSender           = errors.New("only the original sender may act on this transaction")
	ErrNotFlagged          = errors.New("transaction is not awaiting review")
)

type AccountStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
}

type TransactionStore interface {
	Create(ctx context.Context, tx *models.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	Save(ctx context.Context, tx *models.Transaction) error
	ListByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]models.Transaction, error)
	ListFlaggedBySender(ctx context.Context, senderID uuid.UUID) ([]models.Transaction, error)
}

type Ledger interface {
	Transfer(ctx context.Context, senderID, receiverID uuid.UUID, amount decimal.Decimal) error
}

type Engine interface {
	AnalyzeTransaction(ctx context.Context, txc fraud.TransactionContext) fraud.Verdict
}

// Service runs the transfer decision pipeline and the review state machine.
// Transfers below the large-transaction threshold skip analysis entirely; the
// threshold is a cost control on the external classifier, not a security
// boundary.
type Service struct {
	accounts     AccountStore
	transactions TransactionStore
	ledger       Ledger
	engine       Engine

	largeTxThreshold decimal.Decimal
	flagScore        float64

	reviewMu sync.Mutex
}

func NewService(
	accounts AccountStore,
	transactions TransactionStore,
	ldg Ledger,
	engine Engine,
	largeTxThreshold decimal.Decimal,
	flagScore float64,
) *Service {
	return &Service{
		accounts:         accounts,
		transactions:     transactions,
		ledger:           ldg,
		engine:           engine,
		largeTxThreshold: largeTxThreshold,
		flagScore:        flagScore,
	}
}

// Transfer validates the request, conditionally scores it, and either moves
// the funds or persists a flagged transaction without touching the ledger.
// The returned transaction is either "completed" or "flagged".
func (s *Service) Transfer(ctx context.Context, senderID, receiverID uuid.UUID, amount decimal.Decimal, description string) (*models.Transaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ledger.ErrInvalidAmount
	}
	if senderID == receiverID {
		return nil, ledger.ErrSelfTransfer
	}

	sender, err := s.accounts.GetByID(ctx, senderID)
	if err != nil {
		return nil, err
	}
	receiver, err := s.accounts.GetByID(ctx, receiverID)
	if err != nil {
		return nil, err
	}

	tx := &models.Transaction{
		ID:          uuid.New(),
		SenderID:    senderID,
		ReceiverID:  receiverID,
		Amount:      amount,
		Description: description,
		Status:      models.StatusPending,
		CreatedAt:   time.Now(),
	}

	if amount.GreaterThan(sender.Balance.Mul(s.largeTxThreshold)) {
		// Insufficient funds fails here, before the (costly) analysis call
		// and without creating a transaction record.
		if sender.Balance.LessThan(amount) {
			return nil, ledger.ErrInsufficientFunds
		}

		verdict := s.engine.AnalyzeTransaction(ctx, fraud.TransactionContext{
			Amount:        amount,
			Sender:        sender.Username,
			Receiver:      receiver.Username,
			Description:   description,
			SenderBalance: sender.Balance,
		})
		applyVerdict(tx, verdict)

		// Both checks on purpose: the two classifier variants may disagree
		// on whether is_fraud tracks the score.
		if verdict.IsFraud || verdict.Score > s.flagScore {
			tx.Status = models.StatusFlagged
			tx.RequiresReview = true
			if err := s.transactions.Create(ctx, tx); err != nil {
				return nil, err
			}
			return tx, nil
		}
	}

	if err := s.ledger.Transfer(ctx, senderID, receiverID, amount); err != nil {
		return nil, err
	}

	now := time.Now()
	tx.Status = models.StatusCompleted
	tx.CompletedAt = &now
	if err := s.transactions.Create(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// Approve releases a flagged transaction. Only the original sender may
// approve, only from the flagged state, and current balance sufficiency is
// re-checked by the ledger at approval time.
func (s *Service) Approve(ctx context.Context, actorID, txID uuid.UUID) (*models.Transaction, error) {
	s.reviewMu.Lock()
	defer s.reviewMu.Unlock()

	tx, err := s.transactions.GetByID(ctx, txID)
	if err != nil {
		return nil, err
	}
	if tx.SenderID != actorID {
		return nil, ErrNotSender
	}
	if tx.Status != models.StatusFlagged {
		return nil, ErrNotFlagged
	}

	if err := s.ledger.Transfer(ctx, tx.SenderID, tx.ReceiverID, tx.Amount); err != nil {
		return nil, err
	}

	now := time.Now()
	tx.Status = models.StatusCompleted
	tx.CompletedAt = &now
	tx.RequiresReview = false
	if err := s.transactions.Save(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// Cancel discards a flagged transaction without moving funds.
func (s *Service) Cancel(ctx context.Context, actorID, txID uuid.UUID) (*models.Transaction, error) {
	s.reviewMu.Lock()
	defer s.reviewMu.Unlock()

	tx, err := s.transactions.GetByID(ctx, txID)
	if err != nil {
		return nil, err
	}
	if tx.SenderID != actorID {
		return nil, ErrNotSender
	}
	if tx.Status != models.StatusFlagged {
		return nil, ErrNotFlagged
	}

	tx.Status = models.StatusCancelled
	tx.RequiresReview = false
	if err := s.transactions.Save(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

func (s *Service) History(ctx context.Context, accountID uuid.UUID, limit int) ([]models.Transaction, error) {
	return s.transactions.ListByAccount(ctx, accountID, limit)
}

func (s *Service) FlaggedForSender(ctx context.Context, senderID uuid.UUID) ([]models.Transaction, error) {
	return s.transactions.ListFlaggedBySender(ctx, senderID)
}

func applyVerdict(tx *models.Transaction, v fraud.Verdict) {
	score := v.Score
	tx.FraudScore = &score
	tx.FraudReason = v.Reason
	if len(v.Indicators) > 0 {
		if data, err := json.Marshal(v.Indicators); err == nil {
			tx.FraudIndicators = data
		}
	}
}
