package core

import (
	"errors"
	"net/mail"
	"strings"
	"time"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

type (
	// Kind discriminates income from expense records.
	Kind string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Transaction struct {
		ID          string
		UserID      string
		Description string
		Amount      Money
		Kind        Kind
		Category    string // Category name, not referentially enforced
		Date        Date
		Notes       string
		CreatedAt   time.Time
	}

	// TransactionFields is the replaceable part of a transaction.
	TransactionFields struct {
		Description string
		Amount      Money
		Kind        Kind
		Category    string
		Date        Date
		Notes       string
	}

	Category struct {
		ID     string
		UserID string
		Name   string
		Kind   Kind
	}

	User struct {
		ID           string
		Name         string
		Email        string
		PasswordHash string
		CreatedAt    time.Time
	}

	// Budget is a monthly spending limit for one expense category.
	Budget struct {
		ID        string
		UserID    string
		Category  string
		Amount    Money
		CreatedAt time.Time
	}
)

var (
	ErrInvalidDay       = errors.New("invalid day")
	ErrInvalidMonth     = errors.New("invalid month")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidKind      = errors.New("type must be income or expense")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyCategory    = errors.New("empty category")
	ErrEmptyName        = errors.New("empty name")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrWeakPassword     = errors.New("password must be at least 6 characters")
	ErrMissingOwner     = errors.New("record must belong to a user")
	ErrDescriptionLong  = errors.New("description too long (max 200 characters)")
	ErrNotesLong        = errors.New("notes too long (max 1000 characters)")
)

const (
	maxDescriptionLen = 200
	maxNotesLen       = 1000
	minPasswordLen    = 6
)

// ParseKind normalizes a kind string.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if err := k.Validate(); err != nil {
		return "", err
	}
	return k, nil
}

func (k Kind) Validate() error {
	switch k {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidKind
	}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	// Check basic ranges
	_, month, day := d.Time.Date()
	if day < 1 || day > 31 {
		return ErrInvalidDay
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// Year returns the calendar year
func (d Date) Year() int {
	return d.Time.Year()
}

// Month returns the calendar month (1-12)
func (d Date) Month() int {
	return int(d.Time.Month())
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate accepts YYYY-MM-DD or an RFC3339 timestamp; the time of day is dropped.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return DateOf(t), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return DateOf(t.UTC()), nil
	}
	return Date{}, ErrInvalidDate
}

// String renders the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (m Money) Validate() error {
	if m.Cents <= 0 || m.Cents > MaxAmountCents {
		return ErrInvalidAmount
	}
	return nil
}

// Add returns m+o.
func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

// Sub returns m-o.
func (m Money) Sub(o Money) Money {
	return Money{Cents: m.Cents - o.Cents}
}

func (f TransactionFields) Validate() error {
	if len(strings.TrimSpace(f.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(f.Description) > maxDescriptionLen {
		return ErrDescriptionLong
	}
	if err := f.Amount.Validate(); err != nil {
		return err
	}
	if err := f.Kind.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(f.Category) == "" {
		return ErrEmptyCategory
	}
	if err := f.Date.Validate(); err != nil {
		return err
	}
	if len(f.Notes) > maxNotesLen {
		return ErrNotesLong
	}
	return nil
}

// Fields returns the replaceable part of t.
func (t Transaction) Fields() TransactionFields {
	return TransactionFields{
		Description: t.Description,
		Amount:      t.Amount,
		Kind:        t.Kind,
		Category:    t.Category,
		Date:        t.Date,
		Notes:       t.Notes,
	}
}

// Apply replaces every mutable field of t; ID, owner and CreatedAt are kept.
func (t Transaction) Apply(f TransactionFields) Transaction {
	t.Description = f.Description
	t.Amount = f.Amount
	t.Kind = f.Kind
	t.Category = f.Category
	t.Date = f.Date
	t.Notes = f.Notes
	return t
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.UserID) == "" {
		return ErrMissingOwner
	}
	return t.Fields().Validate()
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.UserID) == "" {
		return ErrMissingOwner
	}
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	return c.Kind.Validate()
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.UserID) == "" {
		return ErrMissingOwner
	}
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	return b.Amount.Validate()
}

// ValidateProfile checks the user-editable profile fields.
func ValidateProfile(name, email string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < minPasswordLen {
		return ErrWeakPassword
	}
	return nil
}

// NormalizeEmail lowercases and trims an email for lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
