// Package fraud calls a bank customer about a suspicious card transaction,
// verifies them and records whether they made it.
package fraud

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Pratyush-06/Barista-Agent/internal/agent"
	"github.com/Pratyush-06/Barista-Agent/internal/logging"
	"github.com/Pratyush-06/Barista-Agent/internal/store"
	"github.com/Pratyush-06/Barista-Agent/internal/textmatch"
	"github.com/Pratyush-06/Barista-Agent/internal/tools"
	"github.com/Pratyush-06/Barista-Agent/internal/voice"
)

// Name is the persona key.
const Name = "fraud"

// MaxAttempts is the number of wrong security answers allowed.
const MaxAttempts = 3

// answerThreshold is the minimum similarity for a spoken security answer.
const answerThreshold = 0.8

// State is the call in progress.
type State struct {
	CaseID   string `json:"case_id,omitempty"`
	UserName string `json:"user_name,omitempty"`
	Status   string `json:"status,omitempty"`
	Verified bool   `json:"verified"`
	Attempts int    `json:"attempts"`
}

type session struct {
	state State
	fc    *store.FraudCase
	cases store.CaseStore
}

// New builds a fraud alert agent. deps.Cases is required.
func New(deps agent.Deps) (*agent.Agent, error) {
	if err := deps.Require("fraud case store", deps.Cases != nil); err != nil {
		return nil, err
	}
	s := &session{cases: deps.Cases}
	return &agent.Agent{
		Name:         Name,
		Title:        "Fraud Alert Officer",
		Company:      deps.Company,
		Instructions: Instructions(deps.Company),
		Greeting:     fmt.Sprintf("Hello, this is the fraud prevention team at %s. May I have your full name, please?", deps.Company),
		Tools:        s.registry(),
		Voice:        voice.Options{Voice: "en-US-ken", Style: "Conversational", TextPacing: true},
		Snapshot:     func() any { return s.state },
	}, nil
}

func (s *session) registry() *tools.Registry {
	reg := tools.NewRegistry(Name)
	reg.MustRegister(&tools.Tool{
		Name:        "load_case",
		Description: "Find the pending fraud case for the customer's full name.",
		Execute:     s.loadCase,
		Schema: tools.ToolSchema{
			Required:   []string{"user_name"},
			Properties: map[string]tools.Property{"user_name": {Type: "string", Description: "customer's full name"}},
		},
	})
	reg.MustRegister(&tools.Tool{
		Name:        "verify_customer",
		Description: "Check the customer's answer to the security question.",
		Execute:     s.verifyCustomer,
		Schema: tools.ToolSchema{
			Required:   []string{"answer"},
			Properties: map[string]tools.Property{"answer": {Type: "string"}},
		},
	})
	reg.MustRegister(&tools.Tool{
		Name:        "get_transaction_details",
		Description: "Read out the suspicious transaction. Only after verification.",
		Execute:     s.getTransactionDetails,
	})
	noteSchema := tools.ToolSchema{
		Properties: map[string]tools.Property{"note": {Type: "string", Description: "what the customer said"}},
	}
	reg.MustRegister(&tools.Tool{
		Name:        "mark_transaction_safe",
		Description: "Record that the customer made the transaction.",
		Execute:     s.markSafe,
		Schema:      noteSchema,
	})
	reg.MustRegister(&tools.Tool{
		Name:        "mark_transaction_fraudulent",
		Description: "Record that the customer did not make the transaction. Blocks the card.",
		Execute:     s.markFraudulent,
		Schema:      noteSchema,
	})
	return reg
}

func (s *session) loadCase(ctx context.Context, args map[string]any) (string, error) {
	name := tools.String(args, "user_name")
	if name == "" {
		return "", tools.Rejectf("I need the customer's full name.")
	}
	fc, err := s.cases.FindPendingByUser(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		return "", tools.Rejectf("There is no pending case for %s. Ask them to confirm the spelling of their full name.", name)
	}
	if err != nil {
		return "", err
	}

	verified := s.state.Verified && s.state.CaseID == fc.ID
	s.fc = fc
	s.state = State{CaseID: fc.ID, UserName: fc.UserName, Status: fc.Status, Verified: verified, Attempts: fc.FailedAttempts}
	logging.Persona("Fraud case %s loaded (%d failed attempts)", fc.ID, fc.FailedAttempts)
	return fmt.Sprintf("Case found for %s. Before sharing details, ask the security question: %s", fc.UserName, fc.SecurityQuestion), nil
}

func (s *session) verifyCustomer(ctx context.Context, args map[string]any) (string, error) {
	if s.fc == nil {
		return "", tools.Rejectf("No case is loaded yet. Ask for the customer's full name first.")
	}
	if s.state.Verified {
		return "The customer is already verified.", nil
	}
	if s.state.Attempts >= MaxAttempts {
		return "", tools.Rejectf("Verification is locked for this call. Ask the customer to visit a branch with ID.")
	}

	answer := tools.String(args, "answer")
	if textmatch.Ratio(answer, s.fc.SecurityAnswer) >= answerThreshold {
		s.state.Verified = true
		return "Verified. You may now describe the transaction.", nil
	}

	attempts := s.state.Attempts + 1
	if attempts < MaxAttempts {
		updated := *s.fc
		updated.FailedAttempts = attempts
		if err := s.cases.Put(ctx, &updated); err != nil {
			return "", fmt.Errorf("failed to update case %s: %w", s.fc.ID, err)
		}
		*s.fc = updated
		s.state.Attempts = attempts
		return "", tools.Rejectf("That answer doesn't match our records. %d attempt(s) left.", MaxAttempts-attempts)
	}
	s.fc.FailedAttempts = attempts
	s.state.Attempts = attempts

	if err := s.close(ctx, store.StatusVerificationFailed, "security question failed "+fmt.Sprint(MaxAttempts)+" times"); err != nil {
		return "", err
	}
	return "", tools.Rejectf("Verification failed %d times. The case is now marked %s. Do not share any details; ask the customer to call back or visit a branch.", MaxAttempts, store.StatusVerificationFailed)
}

func (s *session) requireVerified() error {
	if s.fc == nil {
		return tools.Rejectf("No case is loaded yet.")
	}
	if !s.state.Verified {
		return tools.Rejectf("The customer is not verified. Ask the security question first.")
	}
	return nil
}

func (s *session) getTransactionDetails(_ context.Context, _ map[string]any) (string, error) {
	if err := s.requireVerified(); err != nil {
		return "", err
	}
	fc := s.fc
	return fmt.Sprintf("Card ending %s was charged %s at %s (%s) through %s, from %s, on %s.",
		fc.CardEnding, fc.FormatAmount(), fc.Merchant, fc.Category, fc.Source, fc.Location,
		fc.TransactionTime.Format("Jan 2 at 3:04 PM")), nil
}

func (s *session) markSafe(ctx context.Context, args map[string]any) (string, error) {
	if err := s.requireVerified(); err != nil {
		return "", err
	}
	if s.state.Status != store.StatusPending {
		return "", tools.Rejectf("This case is already closed as %s.", s.state.Status)
	}
	if err := s.close(ctx, store.StatusSafe, noteOr(args, "customer confirmed the transaction")); err != nil {
		return "", err
	}
	return fmt.Sprintf("Marked as safe. No further action is needed on the card ending %s.", s.fc.CardEnding), nil
}

func (s *session) markFraudulent(ctx context.Context, args map[string]any) (string, error) {
	if err := s.requireVerified(); err != nil {
		return "", err
	}
	if s.state.Status != store.StatusPending {
		return "", tools.Rejectf("This case is already closed as %s.", s.state.Status)
	}
	if err := s.close(ctx, store.StatusFraud, noteOr(args, "customer denied the transaction; card blocked")); err != nil {
		return "", err
	}
	return fmt.Sprintf("Marked as fraudulent. The card ending %s is now blocked, a dispute for %s has been raised and a replacement card will be sent.",
		s.fc.CardEnding, s.fc.FormatAmount()), nil
}

// close persists the outcome and only then updates the loaded case.
func (s *session) close(ctx context.Context, status, note string) error {
	updated := *s.fc
	updated.Status = status
	updated.OutcomeNote = note
	if err := s.cases.Put(ctx, &updated); err != nil {
		return fmt.Errorf("failed to update case %s: %w", s.fc.ID, err)
	}
	*s.fc = updated
	s.state.Status = status
	logging.Persona("Fraud case %s closed as %s", s.fc.ID, status)
	return nil
}

func noteOr(args map[string]any, def string) string {
	if note := strings.TrimSpace(tools.String(args, "note")); note != "" {
		return note
	}
	return def
}
