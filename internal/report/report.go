// Package report aggregates classified CFDI records of one period into
// totals and renders them as the Detalle, Pagos and Resumen tables.
package report

import (
	"errors"
	"fmt"

	"facturas/internal/cfdi"
	"facturas/pkg/models"
)

// Sheet names of the export
const (
	SheetDetail   = "Detalle"
	SheetPayments = "Pagos"
	SheetSummary  = "Resumen"
)

// ErrNoData is returned when no record matched the period.
var ErrNoData = errors.New("no invoices found for period")

// Report is everything exported for one period.
type Report struct {
	Period  cfdi.Period
	Records []*models.InvoiceRecord
	Summary Summary
}

// Table is a named sheet with a header row. AmountColumns are the 0-based
// indexes of monetary columns.
type Table struct {
	Name          string
	Headers       []string
	Rows          [][]any
	AmountColumns []int
}

// Build aggregates records into a report. It fails with ErrNoData when
// records is empty, in which case nothing should be written.
func Build(period cfdi.Period, records []*models.InvoiceRecord) (*Report, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w %s", ErrNoData, period)
	}

	return &Report{
		Period:  period,
		Records: records,
		Summary: Summarize(period, records),
	}, nil
}

// FileName is the export file name for a period.
func FileName(period cfdi.Period) string {
	return fmt.Sprintf("resumen_%s.xlsx", period)
}

// Tables returns the three export tables in sheet order.
func (r *Report) Tables() []Table {
	return []Table{r.DetailTable(), r.PaymentsTable(), r.SummaryTable()}
}

// DetailTable has one row per record, without the related invoices.
func (r *Report) DetailTable() Table {
	t := Table{
		Name: SheetDetail,
		Headers: []string{
			"UUID", "Fecha", "Tipo CFDI", "Tipo", "RFC Emisor", "RFC Receptor",
			"Subtotal", "IVA", "Total", "Método Pago", "Serie", "Folio",
		},
		AmountColumns: []int{6, 7, 8},
	}

	for _, rec := range r.Records {
		t.Rows = append(t.Rows, []any{
			rec.UUID,
			rec.Date,
			string(rec.Kind),
			string(rec.Classification),
			rec.IssuerRFC,
			rec.ReceiverRFC,
			rec.Subtotal,
			rec.Tax,
			rec.Total,
			rec.PaymentMethod,
			rec.Series,
			rec.Folio,
		})
	}

	return t
}

// PaymentsTable has one row per (payment document, related invoice) pair.
func (r *Report) PaymentsTable() Table {
	t := Table{
		Name: SheetPayments,
		Headers: []string{
			"UUID Pago", "Fecha Pago", "Serie Pago", "Folio Pago",
			"UUID Relacionado", "Serie Relacionada", "Folio Relacionado",
		},
	}

	for _, rec := range r.Records {
		if !rec.IsPayment() {
			continue
		}
		for _, rel := range rec.RelatedInvoices {
			t.Rows = append(t.Rows, []any{
				rec.UUID, rec.Date, rec.Series, rec.Folio,
				rel.UUID, rel.Series, rel.Folio,
			})
		}
	}

	return t
}

// SummaryTable is the single-row period summary.
func (r *Report) SummaryTable() Table {
	s := r.Summary
	return Table{
		Name: SheetSummary,
		Headers: []string{
			"Periodo", "Total Ingresos", "Total Egresos", "Balance",
			"IVA Ingresos", "IVA Egresos", "IVA a Pagar",
		},
		Rows: [][]any{{
			s.Period.String(),
			s.IncomeSubtotal,
			s.ExpenseSubtotal,
			s.Balance(),
			s.IncomeTax,
			s.ExpenseTax,
			s.NetTax(),
		}},
		AmountColumns: []int{1, 2, 3, 4, 5, 6},
	}
}
