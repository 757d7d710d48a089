package twofa_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"fraudguard-backend/internal/models"
	"fraudguard-backend/internal/services/ledger"
	"fraudguard-backend/internal/services/twofa"

	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
)

type memAccounts struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*models.Account
}

func newMemAccounts(accounts ...*models.Account) *memAccounts {
	m := &memAccounts{accounts: make(map[uuid.UUID]*models.Account)}
	for _, a := range accounts {
		m.accounts[a.ID] = a
	}
	return m
}

func (m *memAccounts) GetByID(_ context.Context, id uuid.UUID) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok {
		return nil, ledger.ErrAccountNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memAccounts) Save(_ context.Context, acct *models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *acct
	m.accounts[acct.ID] = &cp
	return nil
}

func (m *memAccounts) get(id uuid.UUID) models.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.accounts[id]
}

func TestVerifyAtWindow(t *testing.T) {
	key, err := totp.Generate(totp.GenerateOpts{Issuer: "FraudGuard", AccountName: "alice"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	secret := key.Secret()

	at := time.Date(2025, 6, 1, 12, 0, 15, 0, time.UTC)
	code, err := totp.GenerateCode(secret, at)
	if err != nil {
		t.Fatalf("generate code: %v", err)
	}

	// one 30-second step of drift is tolerated either side
	for _, offset := range []time.Duration{0, 30 * time.Second, -30 * time.Second} {
		if !twofa.VerifyAt(secret, code, at.Add(offset)) {
			t.Errorf("code rejected at offset %v", offset)
		}
	}
	for _, offset := range []time.Duration{90 * time.Second, -90 * time.Second} {
		if twofa.VerifyAt(secret, code, at.Add(offset)) {
			t.Errorf("code accepted at offset %v", offset)
		}
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	key, err := totp.Generate(totp.GenerateOpts{Issuer: "FraudGuard", AccountName: "alice"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	for _, code := range []string{"", "000000", "12345", "abcdef"} {
		if twofa.Verify(key.Secret(), code) {
			t.Errorf("accepted code %q", code)
		}
	}
}

func TestProvisioningURI(t *testing.T) {
	uri := twofa.ProvisioningURI("JBSWY3DPEHPK3PXP", "alice", "FraudGuard")

	if !strings.HasPrefix(uri, "otpauth://totp/FraudGuard:alice?") {
		t.Fatalf("unexpected URI prefix: %s", uri)
	}
	for _, want := range []string{"secret=JBSWY3DPEHPK3PXP", "issuer=FraudGuard", "period=30", "digits=6", "algorithm=SHA1"} {
		if !strings.Contains(uri, want) {
			t.Errorf("URI missing %s: %s", want, uri)
		}
	}
}

func TestSetupIsGenerateOnce(t *testing.T) {
	acct := &models.Account{ID: uuid.New(), Username: "alice"}
	store := newMemAccounts(acct)
	svc := twofa.NewService(store, "FraudGuard")

	secret, uri, err := svc.InitiateSetup(context.Background(), acct.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if secret == "" {
		t.Fatal("expected a secret")
	}
	if !strings.Contains(uri, "secret="+secret) {
		t.Fatalf("URI does not carry the secret: %s", uri)
	}

	again, _, err := svc.InitiateSetup(context.Background(), acct.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again != secret {
		t.Fatal("repeat setup rotated the secret")
	}
	if store.get(acct.ID).TwoFAEnabled {
		t.Fatal("setup alone must not enable 2FA")
	}
}

func TestEnableRequiresValidCode(t *testing.T) {
	acct := &models.Account{ID: uuid.New(), Username: "alice"}
	store := newMemAccounts(acct)
	svc := twofa.NewService(store, "FraudGuard")

	secret, _, err := svc.InitiateSetup(context.Background(), acct.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.Enable(context.Background(), acct.ID, "000000"); !errors.Is(err, twofa.ErrInvalidCode) {
		t.Fatalf("expected invalid code error, got %v", err)
	}
	if store.get(acct.ID).TwoFAEnabled {
		t.Fatal("invalid code enabled 2FA")
	}

	code, err := totp.GenerateCode(secret, time.Now().UTC())
	if err != nil {
		t.Fatalf("generate code: %v", err)
	}
	if err := svc.Enable(context.Background(), acct.ID, code); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !store.get(acct.ID).TwoFAEnabled {
		t.Fatal("valid code did not enable 2FA")
	}

	// enrollment is one-way
	if _, _, err := svc.InitiateSetup(context.Background(), acct.ID); !errors.Is(err, twofa.ErrAlreadyEnabled) {
		t.Fatalf("expected already-enabled error, got %v", err)
	}
	if err := svc.Enable(context.Background(), acct.ID, code); !errors.Is(err, twofa.ErrAlreadyEnabled) {
		t.Fatalf("expected already-enabled error, got %v", err)
	}
}

func TestEnableWithoutSetup(t *testing.T) {
	acct := &models.Account{ID: uuid.New(), Username: "alice"}
	svc := twofa.NewService(newMemAccounts(acct), "FraudGuard")

	if err := svc.Enable(context.Background(), acct.ID, "123456"); !errors.Is(err, twofa.ErrSetupNotStarted) {
		t.Fatalf("expected setup-not-started error, got %v", err)
	}
}
