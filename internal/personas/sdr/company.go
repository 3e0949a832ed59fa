package sdr

import (
	"github.com/Pratyush-06/Barista-Agent/internal/store"
	"github.com/Pratyush-06/Barista-Agent/internal/textmatch"
)

// CompanyFile is the company profile inside the data dir.
const CompanyFile = "sdr_company.json"

// FAQ is one known question.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Plan is one pricing tier.
type Plan struct {
	Name    string `json:"name"`
	Price   string `json:"price"`
	Details string `json:"details"`
}

// Company is what the rep may say about the business.
type Company struct {
	Name    string `json:"name"`
	Pitch   string `json:"pitch"`
	FAQs    []FAQ  `json:"faqs"`
	Pricing []Plan `json:"pricing"`
}

// DefaultCompany is written to the company file on first run.
func DefaultCompany(name string) Company {
	return Company{
		Name:  name,
		Pitch: name + " lets online businesses accept UPI, cards and net banking through one API, with next-day settlement and a no-code payment links dashboard.",
		FAQs: []FAQ{
			{Question: "What does your product do?", Answer: "We provide a single payments API and dashboard to accept UPI, cards, wallets and net banking, plus payment links and subscriptions."},
			{Question: "How much does it cost?", Answer: "Standard pricing is 2% per successful domestic transaction with no setup or annual fees. Enterprise pricing is custom."},
			{Question: "How long does settlement take?", Answer: "Settlements reach your bank account on the next working day by default. Instant settlement is available on the Growth plan."},
			{Question: "Do you support international payments?", Answer: "Yes, we accept cards from over 100 countries, with settlement in INR."},
			{Question: "How long does onboarding take?", Answer: "Most businesses complete KYC and go live within 2 to 3 working days."},
			{Question: "Is there a free trial?", Answer: "Test mode is free forever, so your developers can integrate before paying anything."},
			{Question: "Is my data secure?", Answer: "We are PCI DSS Level 1 compliant and store card data in a tokenised vault."},
		},
		Pricing: []Plan{
			{Name: "Standard", Price: "2% per transaction", Details: "No setup fee, next-day settlement."},
			{Name: "Growth", Price: "1.8% per transaction", Details: "Instant settlement and priority support for 10 lakh+ monthly volume."},
			{Name: "Enterprise", Price: "Custom", Details: "Dedicated account manager and custom integrations."},
		},
	}
}

// LoadCompany reads path, creating it from DefaultCompany when missing.
func LoadCompany(path, name string) (Company, error) {
	return store.LoadDocument(path, DefaultCompany(name))
}

// faqThreshold is the minimum score for an FAQ to count as an answer.
const faqThreshold = 0.5

// MatchFAQ finds the FAQ closest to question. The score is the better of
// edit-distance similarity and the share of the FAQ's words the question
// repeats.
func (c Company) MatchFAQ(question string) (FAQ, float64, bool) {
	best, bestScore := -1, 0.0
	for i, f := range c.FAQs {
		score := textmatch.Similarity(question, f.Question)
		if overlap, total := textmatch.KeywordOverlap(f.Question, question); total > 0 {
			if kw := float64(overlap) / float64(total); kw > score {
				score = kw
			}
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 || bestScore < faqThreshold {
		return FAQ{}, bestScore, false
	}
	return c.FAQs[best], bestScore, true
}
