package models

import (
	"context"
	"sort"

	"bitbucket.org/mmdatafocus/cashlink_backend/utils"
	"github.com/shopspring/decimal"
)

// PaymentModeTotals is one payment mode's slice of a month.
type PaymentModeTotals struct {
	TotalIn  decimal.Decimal `json:"totalIn"`
	TotalOut decimal.Decimal `json:"totalOut"`
}

// MonthlyAnalytics is one "YYYY-MM" bucket of a business's transaction log:
// the per-mode breakdown plus the combined totals and net balance. Derived on
// every call, never persisted.
type MonthlyAnalytics struct {
	Month    string            `json:"month"`
	Cash     PaymentModeTotals `json:"cash"`
	Online   PaymentModeTotals `json:"online"`
	TotalIn  decimal.Decimal   `json:"totalIn"`
	TotalOut decimal.Decimal   `json:"totalOut"`
	Balance  decimal.Decimal   `json:"balance"`
}

// GetAnalytics scans the business's transactions and folds them into one
// record per month, ascending by month key. Pure read; recomputed per call.
func (s *Store) GetAnalytics(ctx context.Context, businessId string) ([]*MonthlyAnalytics, error) {
	if _, err := s.GetBusinessById(ctx, businessId); err != nil {
		return nil, err
	}

	transactions, err := utils.FetchAllModels[Transaction](scoped(ctx, businessId), s.db, businessId)
	if err != nil {
		return nil, err
	}

	buckets := map[string]*MonthlyAnalytics{}
	for _, t := range transactions {
		if len(t.Date) < 7 {
			continue
		}
		month := t.Date[:7]

		bucket, ok := buckets[month]
		if !ok {
			bucket = &MonthlyAnalytics{Month: month}
			buckets[month] = bucket
		}

		var mode *PaymentModeTotals
		switch t.PaymentMode {
		case PaymentModeCash:
			mode = &bucket.Cash
		case PaymentModeOnline:
			mode = &bucket.Online
		default:
			continue
		}

		switch t.Type {
		case TransactionTypeIn:
			mode.TotalIn = mode.TotalIn.Add(t.Amount)
			bucket.TotalIn = bucket.TotalIn.Add(t.Amount)
		case TransactionTypeOut:
			mode.TotalOut = mode.TotalOut.Add(t.Amount)
			bucket.TotalOut = bucket.TotalOut.Add(t.Amount)
		}
	}

	results := make([]*MonthlyAnalytics, 0, len(buckets))
	for _, bucket := range buckets {
		bucket.Balance = bucket.TotalIn.Sub(bucket.TotalOut)
		results = append(results, bucket)
	}

	// "YYYY-MM" keys sort chronologically as strings
	sort.Slice(results, func(i, j int) bool {
		return results[i].Month < results[j].Month
	})

	return results, nil
}
