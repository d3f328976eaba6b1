package reconcile

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loansync-dev/loansync/internal/accrual"
	"github.com/loansync-dev/loansync/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		API:                config.APIConfig{BaseURL: "https://ledger.example.com/v2", Key: "k"},
		CheckingAccountID:  checkingID,
		TransferCategoryID: "9",
		Loans: []config.LoanConfig{
			{
				Name:               config.LoanMortgage,
				AccountID:          mortgageID,
				SearchPhrase:       "mortgage payment",
				InterestRate:       config.Decimal{Decimal: dec("3.5")},
				InterestCategoryID: "42",
				InterestPayee:      "First National Mortgage Interest",
				Accrual:            "monthly_simple",
				Escrow: &config.EscrowConfig{
					AccountID:           escrowID,
					Payee:               "Escrow Transfer",
					Amount:              config.Decimal{Decimal: dec("412.50")},
					InsuranceCategoryID: "13",
					InsuranceAmount:     config.Decimal{Decimal: dec("87.33")},
					InsurancePayee:      "PMI Premium",
				},
			},
			{
				Name:               config.LoanStudentLoan,
				AccountID:          studentID,
				SearchPhrase:       "student loan payment",
				InterestRate:       config.Decimal{Decimal: dec("5.8")},
				InterestCategoryID: "51",
				InterestPayee:      "StudentCorp Interest",
				Accrual:            "daily_truncated",
			},
		},
	}
}

func TestFromConfig(t *testing.T) {
	recs, err := FromConfig(testConfig(), newFakeLedger(), accrual.DefaultRegistry(), BuildOptions{}, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, recs, 2)

	mortgage := recs[0].Loan()
	assert.Equal(t, config.LoanMortgage, mortgage.Name)
	assert.Equal(t, "monthly_simple", mortgage.Strategy.Name())
	require.NotNil(t, mortgage.Secondary)

	handler, ok := mortgage.Secondary.(*EscrowHandler)
	require.True(t, ok)
	assert.Equal(t, escrowID, handler.EscrowAccountID)
	assert.Equal(t, "9", handler.TransferCategoryID, "escrow transfer uses the global transfer category")

	student := recs[1].Loan()
	assert.Equal(t, "daily_truncated", student.Strategy.Name())
	assert.Nil(t, student.Secondary)
}

func TestFromConfigUnknownStrategy(t *testing.T) {
	cfg := testConfig()
	cfg.Loans[1].Accrual = "compound_weekly"

	_, err := FromConfig(cfg, newFakeLedger(), accrual.DefaultRegistry(), BuildOptions{}, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compound_weekly")
}
