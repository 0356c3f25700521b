package domain

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Language is the preferred interface language of an account.
type Language string

const (
	LanguageFrench  Language = "fr"
	LanguageEnglish Language = "en"
	LanguageHebrew  Language = "he"
	LanguageArabic  Language = "ar"

	// DefaultLanguage is applied when registration omits a language.
	DefaultLanguage = LanguageHebrew
)

// Valid reports whether l is a supported language.
func (l Language) Valid() bool {
	switch l {
	case LanguageFrench, LanguageEnglish, LanguageHebrew, LanguageArabic:
		return true
	}
	return false
}

// Account holds the fields shared by every identity kind: who the person is
// and how they authenticate.
type Account struct {
	ID           uuid.UUID `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"` // Never expose password hash in JSON
	Language     Language  `json:"language"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Identity is the sum type over the two account kinds. Client and Provider
// are its only variants; callers switch on the concrete type when they need
// role-specific fields.
type Identity interface {
	// Base returns the shared account record of the identity.
	Base() *Account
	Role() Role
}

// FullName returns "First Last".
func (a *Account) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// NormalizeEmail lower-cases and trims an address so that lookups and
// uniqueness checks are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// newAccount builds an Account with a fresh ID, normalized email and the
// default language when none is given.
func newAccount(firstName, lastName, email, phone, passwordHash string, lang Language) Account {
	if lang == "" {
		lang = DefaultLanguage
	}
	return Account{
		ID:           uuid.New(),
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
		Email:        NormalizeEmail(email),
		Phone:        strings.TrimSpace(phone),
		PasswordHash: passwordHash,
		Language:     lang,
		CreatedAt:    time.Now().UTC(),
	}
}

// Validate checks the shared account fields.
func (a *Account) Validate() error {
	if a.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if a.FirstName == "" {
		return NewValidationError("firstName", "is required", nil)
	}
	if a.LastName == "" {
		return NewValidationError("lastName", "is required", nil)
	}
	if a.Email == "" {
		return NewValidationError("email", "is required", nil)
	}
	if _, err := mail.ParseAddress(a.Email); err != nil || !strings.Contains(a.Email, "@") {
		return NewValidationError("email", "has invalid format", ErrInvalidEmail)
	}
	if a.Phone == "" {
		return NewValidationError("phone", "is required", nil)
	}
	if a.PasswordHash == "" {
		return NewValidationError("password", "hash cannot be empty", nil)
	}
	if !a.Language.Valid() {
		return NewValidationError("language", "must be one of fr, en, he, ar", nil)
	}
	return nil
}
