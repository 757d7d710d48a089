package twofa

import (
	"context"
	"errors"
	"net/url"
	"time"

	"fraudguard-backend/internal/models"

	"github.com/google/uuid"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

var (
	ErrAlreadyEnabled  = errors.New("2FA is already enabled")
	ErrSetupNotStarted = errors.New("2FA setup has not been started")
	ErrInvalidCode     = errors.New("invalid TOTP code")
)

// validateOpts pins the conventional TOTP parameters: 30-second steps, six
// digits, SHA1, and one step of clock-drift tolerance either side.
var validateOpts = totp.ValidateOpts{
	Period:    30,
	Skew:      1,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

// Verify checks a submitted code against the secret, accepting the current
// time step and one adjacent step in each direction.
func Verify(secret, code string) bool {
	return VerifyAt(secret, code, time.Now().UTC())
}

func VerifyAt(secret, code string, t time.Time) bool {
	ok, err := totp.ValidateCustom(code, secret, t, validateOpts)
	return err == nil && ok
}

// ProvisioningURI builds the otpauth:// URI an authenticator app enrolls
// from. Rendering it as a QR code is the caller's concern.
func ProvisioningURI(secret, account, issuer string) string {
	v := url.Values{}
	v.Set("secret", secret)
	v.Set("issuer", issuer)
	v.Set("period", "30")
	v.Set("algorithm", "SHA1")
	v.Set("digits", "6")

	u := url.URL{
		Scheme:   "otpauth",
		Host:     "totp",
		Path:     "/" + issuer + ":" + account,
		RawQuery: v.Encode(),
	}
	return u.String()
}

type AccountStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	Save(ctx context.Context, acct *models.Account) error
}

// Service runs two-phase 2FA enrollment: InitiateSetup hands out the secret,
// Enable flips the flag only after the holder proves possession with one
// valid code.
type Service struct {
	accounts AccountStore
	issuer   string
}

func NewService(accounts AccountStore, issuer string) *Service {
	return &Service{accounts: accounts, issuer: issuer}
}

// InitiateSetup generates the account's TOTP secret on first call and returns
// it with its provisioning URI. The secret is generated once and never
// rotated; repeat calls return the existing one.
func (s *Service) InitiateSetup(ctx context.Context, accountID uuid.UUID) (secret, uri string, err error) {
	acct, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return "", "", err
	}
	if acct.TwoFAEnabled {
		return "", "", ErrAlreadyEnabled
	}

	if acct.TOTPSecret == "" {
		key, err := totp.Generate(totp.GenerateOpts{
			Issuer:      s.issuer,
			AccountName: acct.Username,
			Period:      30,
			SecretSize:  32,
			Algorithm:   otp.AlgorithmSHA1,
		})
		if err != nil {
			return "", "", err
		}
		acct.TOTPSecret = key.Secret()
		if err := s.accounts.Save(ctx, acct); err != nil {
			return "", "", err
		}
	}

	return acct.TOTPSecret, ProvisioningURI(acct.TOTPSecret, acct.Username, s.issuer), nil
}

// Enable verifies the submitted code against the pending secret and marks
// the account as two-factor enabled.
func (s *Service) Enable(ctx context.Context, accountID uuid.UUID, code string) error {
	acct, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	if acct.TwoFAEnabled {
		return ErrAlreadyEnabled
	}
	if acct.TOTPSecret == "" {
		return ErrSetupNotStarted
	}
	if !Verify(acct.TOTPSecret, code) {
		return ErrInvalidCode
	}

	acct.TwoFAEnabled = true
	return s.accounts.Save(ctx, acct)
}
