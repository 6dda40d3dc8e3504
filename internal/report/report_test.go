package report

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"facturas/internal/cfdi"
	"facturas/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var may2024 = cfdi.Period{Year: 2024, Month: time.May}

func record(class models.Classification, kind models.DocumentKind, subtotal float64) *models.InvoiceRecord {
	tax := subtotal * cfdi.TaxRate
	return &models.InvoiceRecord{
		UUID:           string(class) + "-" + string(kind),
		Date:           "10/05/2024",
		Kind:           kind,
		Classification: class,
		Subtotal:       subtotal,
		Tax:            tax,
		Total:          subtotal + tax,
		Series:         "A",
		Folio:          "1",
	}
}

func sampleRecords() []*models.InvoiceRecord {
	payment := record(models.ClassificationIncome, models.KindPayment, 500)
	payment.RelatedInvoices = []models.RelatedInvoice{
		{UUID: "REL-1", Series: "A", Folio: "90"},
		{UUID: "REL-2", Series: "A", Folio: "91"},
	}
	creditNote := record(models.ClassificationIncome, models.KindEgreso, -200)
	creditNote.Adjustment = models.AdjustmentCreditNote

	return []*models.InvoiceRecord{
		record(models.ClassificationIncome, models.KindIncome, 1000),
		creditNote,
		payment,
		record(models.ClassificationExpense, models.KindIncome, 300),
		record(models.ClassificationExpense, models.KindIncome, 0.1),
		record(models.ClassificationOther, models.KindIncome, 999),
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(may2024, sampleRecords())

	assert.InDelta(t, 1300.0, s.IncomeSubtotal, 1e-9)
	assert.InDelta(t, 208.0, s.IncomeTax, 1e-9)
	assert.InDelta(t, 300.1, s.ExpenseSubtotal, 1e-9)
	assert.InDelta(t, 48.016, s.ExpenseTax, 1e-9)
	assert.InDelta(t, 999.9, s.Balance(), 1e-9)
	assert.InDelta(t, 159.984, s.NetTax(), 1e-9)
	assert.Equal(t, 3, s.IncomeCount)
	assert.Equal(t, 2, s.ExpenseCount)
	assert.Equal(t, 1, s.OtherCount)
}

func TestSummaryMatchesDetailRows(t *testing.T) {
	r, err := Build(may2024, sampleRecords())
	require.NoError(t, err)

	var incomeSub, incomeTax, expenseSub, expenseTax float64
	for _, row := range r.DetailTable().Rows {
		switch models.Classification(row[3].(string)) {
		case models.ClassificationIncome:
			incomeSub += row[6].(float64)
			incomeTax += row[7].(float64)
		case models.ClassificationExpense:
			expenseSub += row[6].(float64)
			expenseTax += row[7].(float64)
		}
	}

	summary := r.SummaryTable().Rows[0]
	assert.Equal(t, "2024-05", summary[0])
	assert.Equal(t, incomeSub, summary[1])
	assert.Equal(t, expenseSub, summary[2])
	assert.Equal(t, incomeSub-expenseSub, summary[3])
	assert.Equal(t, incomeTax, summary[4])
	assert.Equal(t, expenseTax, summary[5])
	assert.Equal(t, incomeTax-expenseTax, summary[6])
}

func TestBuild_NoData(t *testing.T) {
	r, err := Build(may2024, nil)
	assert.Nil(t, r)
	require.ErrorIs(t, err, ErrNoData)
	assert.Contains(t, err.Error(), "2024-05")
}

func TestDetailTable(t *testing.T) {
	r, err := Build(may2024, sampleRecords())
	require.NoError(t, err)

	detail := r.DetailTable()
	assert.Equal(t, SheetDetail, detail.Name)
	assert.Len(t, detail.Headers, 12)
	assert.NotContains(t, detail.Headers, "facturas_relacionadas")
	require.Len(t, detail.Rows, 6)
	for _, row := range detail.Rows {
		assert.Len(t, row, len(detail.Headers))
	}
	assert.Equal(t, "ingreso", detail.Rows[0][3])
	assert.Equal(t, "E", detail.Rows[1][2])
	assert.Equal(t, -200.0, detail.Rows[1][6])
}

func TestPaymentsTable(t *testing.T) {
	r, err := Build(may2024, sampleRecords())
	require.NoError(t, err)

	payments := r.PaymentsTable()
	assert.Equal(t, SheetPayments, payments.Name)
	require.Len(t, payments.Rows, 2)
	assert.Equal(t, []any{"ingreso-P", "10/05/2024", "A", "1", "REL-1", "A", "90"}, payments.Rows[0])
	assert.Equal(t, "REL-2", payments.Rows[1][4])
}

func TestTablesOrder(t *testing.T) {
	r, err := Build(may2024, sampleRecords())
	require.NoError(t, err)

	var names []string
	for _, table := range r.Tables() {
		names = append(names, table.Name)
	}
	assert.Equal(t, []string{"Detalle", "Pagos", "Resumen"}, names)
}

func TestWriteExcel(t *testing.T) {
	r, err := Build(may2024, sampleRecords())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out", FileName(may2024))
	assert.Equal(t, "resumen_2024-05.xlsx", filepath.Base(path))
	require.NoError(t, WriteExcel(path, r.Tables()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Detalle", "Pagos", "Resumen"}, f.GetSheetList())

	rows, err := f.GetRows(SheetDetail, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, 7)
	assert.Equal(t, "UUID", rows[0][0])
	assert.Equal(t, "Folio", rows[0][11])
	assert.Equal(t, "ingreso-I", rows[1][0])
	assert.Equal(t, "1000", rows[1][6])

	payments, err := f.GetRows(SheetPayments)
	require.NoError(t, err)
	assert.Len(t, payments, 3)

	summary, err := f.GetRows(SheetSummary, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, summary, 2)
	assert.Equal(t, "Periodo", summary[0][0])
	assert.Equal(t, "2024-05", summary[1][0])
}

func TestWriteExcel_NoTables(t *testing.T) {
	err := WriteExcel(filepath.Join(t.TempDir(), "x.xlsx"), nil)
	assert.Error(t, err)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "160.00", FormatAmount(1000*0.16))
	assert.Equal(t, "-232.00", FormatAmount(-232))
	assert.Equal(t, "0.13", FormatAmount(0.125))
	assert.Equal(t, "500.00", FormatAmount(580/1.16))
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	WriteSummary(&buf, Summarize(may2024, sampleRecords()))

	out := buf.String()
	assert.Contains(t, out, "RESUMEN 2024-05")
	assert.Contains(t, out, "1300.00")
	assert.Contains(t, out, "IVA a Pagar:")
	assert.Contains(t, out, "159.98")
	assert.Contains(t, out, "Otros (sin clasificar): 1")
}
