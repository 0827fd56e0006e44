package account

import (
	"context"

	"github.com/Rhymond/go-money"
	"github.com/pysugar/account-tabs/internal/db/models"
	"github.com/shopspring/decimal"
)

// Stats summarizes one group.
type Stats struct {
	Group          models.Group                 `json:"tab"`
	Total          int                          `json:"total"`
	ByStatus       map[models.AccountStatus]int `json:"byStatus"`
	Other          int                          `json:"other"`
	Balance        float64                      `json:"balance"`
	BalanceDisplay string                       `json:"balanceDisplay"`
}

// Stats counts accounts of g per account status and sums their balances.
func (s *Service) Stats(ctx context.Context, g models.Group) (Stats, error) {
	list, err := s.List(ctx, g)
	if err != nil {
		return Stats{}, err
	}

	st := Stats{
		Group: g,
		Total: len(list),
		ByStatus: map[models.AccountStatus]int{
			models.StatusIdle:      0,
			models.StatusInUse:     0,
			models.StatusCancelled: 0,
		},
	}
	sum := decimal.Zero
	for _, a := range list {
		if status, ok := models.ParseAccountStatus(string(a.AccountStatus)); ok {
			st.ByStatus[status]++
		} else {
			st.Other++
		}
		sum = sum.Add(decimal.NewFromFloat(a.Balance))
	}
	st.Balance = sum.InexactFloat64()
	st.BalanceDisplay = FormatBalance(st.Balance)
	return st, nil
}

// vndFormatter groups dong with dots as written in Vietnam; go-money's
// built-in VND uses commas.
var vndFormatter = money.NewFormatter(0, ",", ".", "\u20ab", "1 $")

// FormatBalance renders an amount in Vietnamese dong, e.g. "48.000 ₫".
func FormatBalance(amount float64) string {
	return vndFormatter.Format(decimal.NewFromFloat(amount).Round(0).IntPart())
}
