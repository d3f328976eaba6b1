// Package config loads and validates the loansync.yaml configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// APIKeyEnv is the environment variable carrying the ledger developer key.
// The key never lives in the YAML file.
const APIKeyEnv = "LOANSYNC_API_KEY"

// Loan names, in the fixed batch order.
const (
	LoanMortgage    = "mortgage"
	LoanStudentLoan = "student_loan"
	LoanCarLoan     = "car_loan"
)

// Decimal wraps decimal.Decimal so YAML scalars (quoted or not) decode
// exactly; yaml.v3 has no TextUnmarshaler support and a float detour would
// lose precision.
type Decimal struct {
	decimal.Decimal
}

// UnmarshalYAML parses a YAML scalar into a Decimal.
func (d *Decimal) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := decimal.NewFromString(node.Value)
	if err != nil {
		return fmt.Errorf("parsing decimal %q: %w", node.Value, err)
	}
	d.Decimal = parsed
	return nil
}

// MarshalYAML renders the Decimal as a string scalar.
func (d Decimal) MarshalYAML() (any, error) {
	return d.String(), nil
}

// Config represents the top-level loansync.yaml configuration.
type Config struct {
	API                APIConfig    `yaml:"api"`
	UserID             int64        `yaml:"user_id"`
	CheckingAccountID  int64        `yaml:"checking_account_id"`
	TransferCategoryID string       `yaml:"transfer_category_id"`
	Loans              []LoanConfig `yaml:"loans"`
}

// APIConfig points at the remote ledger service.
type APIConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds,omitempty"`
	Key            string `yaml:"-"` // from LOANSYNC_API_KEY only
}

// Timeout returns the configured HTTP timeout, defaulting to 30 seconds.
func (a APIConfig) Timeout() time.Duration {
	if a.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// LoanConfig describes one loan account to reconcile.
type LoanConfig struct {
	Name               string        `yaml:"name"`
	AccountID          int64         `yaml:"account_id"`
	SearchPhrase       string        `yaml:"search_phrase"`
	InterestRate       Decimal       `yaml:"interest_rate"` // annual percent, 3.5 = 3.5%
	InterestCategoryID string        `yaml:"interest_category_id"`
	InterestPayee      string        `yaml:"interest_payee"`
	Accrual            string        `yaml:"accrual"`
	Escrow             *EscrowConfig `yaml:"escrow,omitempty"`
}

// EscrowConfig holds the mortgage-only secondary postings: a fixed escrow
// transfer and a fixed insurance charge.
type EscrowConfig struct {
	AccountID           int64   `yaml:"account_id"`
	Payee               string  `yaml:"payee"`
	Amount              Decimal `yaml:"amount"`
	InsuranceCategoryID string  `yaml:"insurance_category_id"`
	InsuranceAmount     Decimal `yaml:"insurance_amount"`
	InsurancePayee      string  `yaml:"insurance_payee"`
}

// Load reads a loansync.yaml file from disk and resolves the API key from
// the environment (a .env file alongside the process is honored if present).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Best effort; a missing .env just means the key must already be exported.
	_ = godotenv.Load()
	cfg.API.Key = os.Getenv(APIKeyEnv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that every required setting is present. It runs before
// any reconciliation begins, so a misconfigured loan fails the whole run
// at startup rather than mid-sequence.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("config: api.base_url is required")
	}
	if c.API.Key == "" {
		return fmt.Errorf("config: %s must be set", APIKeyEnv)
	}
	if c.CheckingAccountID == 0 {
		return fmt.Errorf("config: checking_account_id is required")
	}
	if len(c.Loans) == 0 {
		return fmt.Errorf("config: at least one loan is required")
	}
	for i, loan := range c.Loans {
		if err := loan.validate(); err != nil {
			return fmt.Errorf("config: loans[%d] (%s): %w", i, loan.Name, err)
		}
	}
	return nil
}

func (l LoanConfig) validate() error {
	switch {
	case l.Name == "":
		return fmt.Errorf("name is required")
	case l.AccountID == 0:
		return fmt.Errorf("account_id is required")
	case l.SearchPhrase == "":
		return fmt.Errorf("search_phrase is required")
	case l.InterestRate.IsNegative():
		return fmt.Errorf("interest_rate must not be negative")
	case l.InterestCategoryID == "":
		return fmt.Errorf("interest_category_id is required")
	case l.InterestPayee == "":
		return fmt.Errorf("interest_payee is required")
	case l.Accrual == "":
		return fmt.Errorf("accrual is required")
	}
	if l.Escrow != nil {
		e := l.Escrow
		switch {
		case e.AccountID == 0:
			return fmt.Errorf("escrow.account_id is required")
		case e.Payee == "":
			return fmt.Errorf("escrow.payee is required")
		case !e.Amount.IsPositive():
			return fmt.Errorf("escrow.amount must be positive")
		case e.InsuranceCategoryID == "":
			return fmt.Errorf("escrow.insurance_category_id is required")
		case !e.InsuranceAmount.IsPositive():
			return fmt.Errorf("escrow.insurance_amount must be positive")
		case e.InsurancePayee == "":
			return fmt.Errorf("escrow.insurance_payee is required")
		}
	}
	return nil
}
