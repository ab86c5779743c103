package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/fintrackhq/fintrack/internal/shared/apperr"
	"github.com/fintrackhq/fintrack/pkg/money"
)

const (
	maxNameLen  = 100
	maxEmailLen = 254
	minPassword = 8
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Owner is an account holder. InitialBalance is the balance before the
// first ledger row; the ledger never mutates it.
type Owner struct {
	ID             int64
	Name           string
	Email          string
	PasswordHash   string
	InitialBalance decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewOwner validates and normalizes the fields of a new owner. Email is
// lowercased; the password is hashed with bcrypt.
func NewOwner(name, email, password string, initialBalance decimal.Decimal) (*Owner, error) {
	var errs apperr.ValidationErrors

	name = strings.TrimSpace(name)
	if err := ValidateName(name); err != nil {
		errs = append(errs, err)
	}

	email = NormalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		errs = append(errs, err)
	}

	if len(password) < minPassword {
		errs = append(errs, apperr.Newf(apperr.KindInvalidPassword, "password shorter than %d characters", minPassword))
	}

	if !money.HasValidScale(initialBalance) {
		errs = append(errs, apperr.New(apperr.KindInvalidAmount, "initial balance must have at most two fractional digits"))
	}

	if err := errs.OrNil(); err != nil {
		return nil, err
	}

	owner := &Owner{
		Name:           name,
		Email:          email,
		InitialBalance: initialBalance,
	}
	if err := owner.SetPassword(password); err != nil {
		return nil, err
	}
	return owner, nil
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateName checks an already-trimmed owner name.
func ValidateName(name string) *apperr.Error {
	if name == "" {
		return apperr.New(apperr.KindInvalidName, "name must not be empty")
	}
	if len(name) > maxNameLen {
		return apperr.Newf(apperr.KindInvalidName, "name longer than %d characters", maxNameLen)
	}
	return nil
}

// ValidateEmail checks an already-normalized email address.
func ValidateEmail(email string) *apperr.Error {
	if email == "" || len(email) > maxEmailLen || !emailPattern.MatchString(email) {
		return apperr.Newf(apperr.KindInvalidEmail, "invalid email address %q", email)
	}
	return nil
}

// SetPassword hashes the password with bcrypt and stores the hash.
func (o *Owner) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Wrap(err, apperr.KindInvalidPassword, "failed to hash password")
	}
	o.PasswordHash = string(hash)
	return nil
}

// CheckPassword compares a candidate password against the stored hash.
func (o *Owner) CheckPassword(password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(o.PasswordHash), []byte(password)); err != nil {
		return apperr.Wrap(err, apperr.KindInvalidPassword, "password does not match")
	}
	return nil
}
