package application

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/syaswanth456/moneymanager/internal/ledger/domain"
	ledgerErrors "github.com/syaswanth456/moneymanager/internal/ledger/errors"
)

type FinancialSummary struct {
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Net          decimal.Decimal `json:"net"`
	StartDate    time.Time       `json:"start_date"`
	EndDate      time.Time       `json:"end_date"`
}

type SummaryService struct {
	entryRepo domain.EntryRepository
}

func NewSummaryService(entryRepo domain.EntryRepository) *SummaryService {
	return &SummaryService{entryRepo: entryRepo}
}

// GetFinancialSummary totals income and expense entries over the range.
// Transfers move money between the user's own accounts, so they net to zero
// and stay out of both totals.
func (s *SummaryService) GetFinancialSummary(ctx context.Context, userID string, startDate, endDate time.Time) (*FinancialSummary, error) {
	entries, err := s.entryRepo.List(ctx, userID, domain.EntryFilter{
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		return nil, ledgerErrors.NewStoreUnavailableError("entry list", err)
	}

	summary := &FinancialSummary{
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
		StartDate:    startDate,
		EndDate:      endDate,
	}
	for _, entry := range entries {
		switch entry.Type {
		case domain.EntryTypeIncome:
			summary.TotalIncome = summary.TotalIncome.Add(entry.Amount)
		case domain.EntryTypeExpense:
			summary.TotalExpense = summary.TotalExpense.Add(entry.Amount)
		}
	}
	summary.Net = summary.TotalIncome.Sub(summary.TotalExpense)
	return summary, nil
}
