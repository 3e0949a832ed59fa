package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Pratyush-06/Barista-Agent/internal/logging"
)

// Fraud case statuses.
const (
	StatusPending            = "pending_review"
	StatusSafe               = "confirmed_safe"
	StatusFraud              = "confirmed_fraud"
	StatusVerificationFailed = "verification_failed"
)

// FraudCase is one suspicious transaction awaiting the customer's answer.
type FraudCase struct {
	ID               string    `json:"id"`
	UserName         string    `json:"user_name"`
	SecurityQuestion string    `json:"security_question"`
	SecurityAnswer   string    `json:"security_answer"`
	CardEnding       string    `json:"card_ending"`
	Merchant         string    `json:"merchant"`
	Amount           int64     `json:"amount"` // minor units
	Currency         string    `json:"currency"`
	Category         string    `json:"category"`
	Source           string    `json:"source"`
	Location         string    `json:"location"`
	TransactionTime  time.Time `json:"transaction_time"`
	Status           string    `json:"status"`
	OutcomeNote      string    `json:"outcome_note,omitempty"`
	FailedAttempts   int       `json:"failed_attempts,omitempty"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// FormatAmount renders Amount in major units, e.g. "4,999.00 INR".
func (c *FraudCase) FormatAmount() string {
	return FormatMoney(c.Amount, c.Currency)
}

// CaseStore is a document store of fraud cases keyed by id.
type CaseStore interface {
	// Get returns the case with id or ErrNotFound.
	Get(ctx context.Context, id string) (*FraudCase, error)

	// FindPendingByUser returns the oldest pending case of a customer,
	// matching the name case-insensitively, or ErrNotFound.
	FindPendingByUser(ctx context.Context, userName string) (*FraudCase, error)

	// List returns all cases ordered by id.
	List(ctx context.Context) ([]*FraudCase, error)

	// Put inserts or overwrites a case.
	Put(ctx context.Context, c *FraudCase) error

	// Close releases the backend connection.
	Close() error
}

// CaseStoreOptions selects and configures a CaseStore backend.
type CaseStoreOptions struct {
	Backend     string // sqlite, redis, memory
	SQLitePath  string
	RedisAddr   string
	RedisDB     int
	RedisPrefix string
}

// OpenCaseStore opens the configured backend.
func OpenCaseStore(ctx context.Context, opts CaseStoreOptions) (CaseStore, error) {
	timer := logging.StartTimer(logging.CategoryStore, "OpenCaseStore")
	defer timer.Stop()

	switch strings.ToLower(opts.Backend) {
	case "", "sqlite":
		return NewSQLiteCaseStore(opts.SQLitePath)
	case "redis":
		return DialRedisCaseStore(ctx, opts.RedisAddr, opts.RedisDB, opts.RedisPrefix)
	case "memory":
		return NewMemoryCaseStore(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, opts.Backend)
	}
}

// SeedCases inserts each case whose id is not stored yet and returns how
// many were added. Existing cases keep their status.
func SeedCases(ctx context.Context, s CaseStore, cases []*FraudCase) (int, error) {
	added := 0
	for _, c := range cases {
		_, err := s.Get(ctx, c.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return added, err
		}
		if err := s.Put(ctx, c); err != nil {
			return added, fmt.Errorf("failed to seed case %s: %w", c.ID, err)
		}
		added++
	}
	if added > 0 {
		logging.Store("Seeded %d fraud cases", added)
	}
	return added, nil
}

// SampleCases returns the demo cases used by `seed` and first runs.
func SampleCases() []*FraudCase {
	at := func(s string) time.Time {
		t, _ := time.Parse(time.RFC3339, s)
		return t
	}
	return []*FraudCase{
		{
			ID:               "case-1001",
			UserName:         "Aarav Sharma",
			SecurityQuestion: "What is the name of your first pet?",
			SecurityAnswer:   "Bruno",
			CardEnding:       "4242",
			Merchant:         "ABC Industry",
			Amount:           499900,
			Currency:         "INR",
			Category:         "e-commerce",
			Source:           "alibaba.com",
			Location:         "Shenzhen, China",
			TransactionTime:  at("2025-11-24T22:14:00+05:30"),
			Status:           StatusPending,
		},
		{
			ID:               "case-1002",
			UserName:         "Priya Nair",
			SecurityQuestion: "In which city were you born?",
			SecurityAnswer:   "Kochi",
			CardEnding:       "1881",
			Merchant:         "Skyline Electronics",
			Amount:           8450000,
			Currency:         "INR",
			Category:         "electronics",
			Source:           "skyline-deals.shop",
			Location:         "Dubai, UAE",
			TransactionTime:  at("2025-11-25T03:02:00+05:30"),
			Status:           StatusPending,
		},
		{
			ID:               "case-1003",
			UserName:         "Rohan Mehta",
			SecurityQuestion: "What was your childhood nickname?",
			SecurityAnswer:   "Chintu",
			CardEnding:       "7310",
			Merchant:         "Nightowl Travel",
			Amount:           2315000,
			Currency:         "INR",
			Category:         "travel",
			Source:           "nightowl-travel.net",
			Location:         "Lagos, Nigeria",
			TransactionTime:  at("2025-11-23T01:47:00+05:30"),
			Status:           StatusPending,
		},
	}
}

func cloneCase(c *FraudCase) *FraudCase {
	cp := *c
	return &cp
}
