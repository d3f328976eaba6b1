package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `api:
  base_url: https://ledger.example.com/v2
  timeout_seconds: 10
user_id: 7001
checking_account_id: 100
transfer_category_id: "cat-transfer"
loans:
  - name: mortgage
    account_id: 200
    search_phrase: mortgage payment
    interest_rate: 3.5
    interest_category_id: "cat-interest"
    interest_payee: First National Mortgage Interest
    accrual: monthly_simple
    escrow:
      account_id: 300
      payee: Escrow Transfer
      amount: 412.50
      insurance_category_id: "cat-pmi"
      insurance_amount: 87.33
      insurance_payee: PMI Premium
  - name: student_loan
    account_id: 400
    search_phrase: student loan payment
    interest_rate: 5.8
    interest_category_id: "cat-interest-sl"
    interest_payee: StudentCorp Interest
    accrual: daily_truncated
`

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "loansync.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv(APIKeyEnv, "test-key")

	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "https://ledger.example.com/v2", cfg.API.BaseURL)
	assert.Equal(t, "test-key", cfg.API.Key)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout())
	assert.Equal(t, int64(7001), cfg.UserID)
	assert.Equal(t, int64(100), cfg.CheckingAccountID)
	assert.Equal(t, "cat-transfer", cfg.TransferCategoryID)

	require.Len(t, cfg.Loans, 2)
	mortgage := cfg.Loans[0]
	assert.Equal(t, LoanMortgage, mortgage.Name)
	assert.True(t, mortgage.InterestRate.Equal(decimal.RequireFromString("3.5")))
	require.NotNil(t, mortgage.Escrow)
	assert.True(t, mortgage.Escrow.Amount.Equal(decimal.RequireFromString("412.50")))
	assert.Equal(t, "PMI Premium", mortgage.Escrow.InsurancePayee)

	student := cfg.Loans[1]
	assert.Equal(t, LoanStudentLoan, student.Name)
	assert.Equal(t, "daily_truncated", student.Accrual)
	assert.Nil(t, student.Escrow)
}

func TestLoadMissingAPIKey(t *testing.T) {
	t.Setenv(APIKeyEnv, "")

	_, err := Load(writeConfig(t, sampleYAML))
	require.Error(t, err)
	assert.Contains(t, err.Error(), APIKeyEnv)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestTimeoutDefault(t *testing.T) {
	assert.Equal(t, 30*time.Second, APIConfig{}.Timeout())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			API:               APIConfig{BaseURL: "https://ledger.example.com/v2", Key: "k"},
			CheckingAccountID: 100,
			Loans: []LoanConfig{{
				Name:               LoanCarLoan,
				AccountID:          500,
				SearchPhrase:       "car loan payment",
				InterestRate:       Decimal{Decimal: decimal.RequireFromString("4.1")},
				InterestCategoryID: "cat-interest-car",
				InterestPayee:      "AutoFin Interest",
				Accrual:            "daily_truncated",
			}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing base url", func(c *Config) { c.API.BaseURL = "" }, "base_url"},
		{"missing checking account", func(c *Config) { c.CheckingAccountID = 0 }, "checking_account_id"},
		{"no loans", func(c *Config) { c.Loans = nil }, "at least one loan"},
		{"missing search phrase", func(c *Config) { c.Loans[0].SearchPhrase = "" }, "search_phrase"},
		{"negative rate", func(c *Config) { c.Loans[0].InterestRate = Decimal{Decimal: decimal.RequireFromString("-1")} }, "interest_rate"},
		{"missing payee", func(c *Config) { c.Loans[0].InterestPayee = "" }, "interest_payee"},
		{"missing accrual", func(c *Config) { c.Loans[0].Accrual = "" }, "accrual"},
		{"escrow missing payee", func(c *Config) { c.Loans[0].Escrow = &EscrowConfig{AccountID: 300} }, "escrow.payee"},
		{"escrow missing amount", func(c *Config) {
			c.Loans[0].Escrow = &EscrowConfig{AccountID: 300, Payee: "Escrow Transfer"}
		}, "escrow.amount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
