package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatAmount renders an amount with two decimals, rounding half away from zero.
func FormatAmount(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// WriteSummary prints the period summary box shown at the end of a run.
func WriteSummary(w io.Writer, s Summary) {
	line := strings.Repeat("=", 50)
	fmt.Fprintln(w, line)
	fmt.Fprintf(w, "            RESUMEN %s\n", s.Period)
	fmt.Fprintln(w, line)
	fmt.Fprintf(w, "Ingresos (%d):   %14s\n", s.IncomeCount, FormatAmount(s.IncomeSubtotal))
	fmt.Fprintf(w, "Egresos (%d):    %14s\n", s.ExpenseCount, FormatAmount(s.ExpenseSubtotal))
	fmt.Fprintf(w, "Balance:         %14s\n", FormatAmount(s.Balance()))
	fmt.Fprintf(w, "IVA Ingresos:    %14s\n", FormatAmount(s.IncomeTax))
	fmt.Fprintf(w, "IVA Egresos:     %14s\n", FormatAmount(s.ExpenseTax))
	fmt.Fprintf(w, "IVA a Pagar:     %14s\n", FormatAmount(s.NetTax()))
	if s.OtherCount > 0 {
		fmt.Fprintf(w, "Otros (sin clasificar): %d\n", s.OtherCount)
	}
	fmt.Fprintln(w, line)
}
