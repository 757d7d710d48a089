package ledger

import (
	"context"
	"errors"
	"sync"

	"fraudguard-backend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrSelfTransfer      = errors.New("cannot transfer to the same account")
	ErrAccountNotFound   = errors.New("account not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// AccountStore is the persistence contract the ledger needs. GetByID returns
// ErrAccountNotFound for unknown ids; SaveBalances persists both rows as one
// atomic unit.
type AccountStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	SaveBalances(ctx context.Context, a, b *models.Account) error
}

// Service is the money-movement primitive. It owns balance invariants and
// nothing else; fraud policy lives in the workflow.
type Service struct {
	accounts AccountStore

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func NewService(accounts AccountStore) *Service {
	return &Service{
		accounts: accounts,
		locks:    make(map[uuid.UUID]*sync.Mutex),
	}
}

// Transfer debits the sender and credits the receiver atomically. Transfers
// touching the same account are serialized through per-account locks taken in
// id order, so concurrent A->B and B->A cannot deadlock and two transfers
// cannot both pass the sufficiency check against a stale balance.
func (s *Service) Transfer(ctx context.Context, senderID, receiverID uuid.UUID, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if senderID == receiverID {
		return ErrSelfTransfer
	}

	first, second := senderID, receiverID
	if second.String() < first.String() {
		first, second = second, first
	}
	firstLock, secondLock := s.lockFor(first), s.lockFor(second)
	firstLock.Lock()
	defer firstLock.Unlock()
	secondLock.Lock()
	defer secondLock.Unlock()

	sender, err := s.accounts.GetByID(ctx, senderID)
	if err != nil {
		return err
	}
	receiver, err := s.accounts.GetByID(ctx, receiverID)
	if err != nil {
		return err
	}

	if sender.Balance.LessThan(amount) {
		return ErrInsufficientFunds
	}

	sender.Balance = sender.Balance.Sub(amount)
	receiver.Balance = receiver.Balance.Add(amount)

	return s.accounts.SaveBalances(ctx, sender, receiver)
}

func (s *Service) lockFor(id uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}
