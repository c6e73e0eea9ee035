package accounting

import (
	"fmt"

	"github.com/parishware/church_finance_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedAmount applies the double-entry sign convention to one leg of a
// transaction. It is used by both the ledger fold and the trial balance so
// the two can never disagree.
//
// DEBIT to ASSET/EXPENSE -> Positive (+)
// CREDIT to ASSET/EXPENSE -> Negative (-)
// DEBIT to LIABILITY/EQUITY/REVENUE -> Negative (-)
// CREDIT to LIABILITY/EQUITY/REVENUE -> Positive (+)
func SignedAmount(amount decimal.Decimal, accountType domain.AccountType, isDebit bool) (decimal.Decimal, error) {
	switch accountType {
	case domain.Asset, domain.Expense:
		if !isDebit {
			return amount.Neg(), nil
		}
		return amount, nil
	case domain.Liability, domain.Equity, domain.Revenue:
		if isDebit {
			return amount.Neg(), nil
		}
		return amount, nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s'", accountType)
	}
}

// SignedBalance converts aggregated debit and credit totals for one account
// into its signed period balance under the same convention.
func SignedBalance(debitTotal, creditTotal decimal.Decimal, accountType domain.AccountType) (decimal.Decimal, error) {
	switch accountType {
	case domain.Asset, domain.Expense:
		return debitTotal.Sub(creditTotal), nil
	case domain.Liability, domain.Equity, domain.Revenue:
		return creditTotal.Sub(debitTotal), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s'", accountType)
	}
}

// ExecutionRate computes usedAmount / totalBudget * 100, rounded to two
// decimal places. A zero total budget yields a zero rate, not a division error.
func ExecutionRate(usedAmount, totalBudget decimal.Decimal) decimal.Decimal {
	if totalBudget.IsZero() {
		return decimal.Zero
	}
	return usedAmount.Div(totalBudget).Mul(decimal.NewFromInt(100)).Round(2)
}
