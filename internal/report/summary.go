package report

import (
	"facturas/internal/cfdi"
	"facturas/pkg/models"
)

// Summary holds the period totals. Amounts are unrounded sums of the record
// values; credit notes issued by the taxpayer contribute negative income.
type Summary struct {
	Period cfdi.Period

	IncomeSubtotal  float64
	ExpenseSubtotal float64
	IncomeTax       float64
	ExpenseTax      float64

	IncomeCount  int
	ExpenseCount int
	OtherCount   int
}

// Summarize sums subtotal and tax per classification. Records labelled
// "otro" are counted but do not contribute to any total.
func Summarize(period cfdi.Period, records []*models.InvoiceRecord) Summary {
	s := Summary{Period: period}

	for _, rec := range records {
		switch rec.Classification {
		case models.ClassificationIncome:
			s.IncomeSubtotal += rec.Subtotal
			s.IncomeTax += rec.Tax
			s.IncomeCount++
		case models.ClassificationExpense:
			s.ExpenseSubtotal += rec.Subtotal
			s.ExpenseTax += rec.Tax
			s.ExpenseCount++
		default:
			s.OtherCount++
		}
	}

	return s
}

// Balance is income minus expense, before tax.
func (s Summary) Balance() float64 {
	return s.IncomeSubtotal - s.ExpenseSubtotal
}

// NetTax is the IVA collected on income minus the IVA paid on expenses.
func (s Summary) NetTax() float64 {
	return s.IncomeTax - s.ExpenseTax
}
