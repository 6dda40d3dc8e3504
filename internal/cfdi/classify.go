package cfdi

import "facturas/pkg/models"

// TaxRate is the fixed IVA rate applied to every document.
const TaxRate = 0.16

// Amounts is a subtotal/tax/total triple. Total is always Subtotal + Tax.
type Amounts struct {
	Subtotal float64
	Tax      float64
	Total    float64
}

func amountsFromSubtotal(subtotal float64) Amounts {
	tax := subtotal * TaxRate
	return Amounts{Subtotal: subtotal, Tax: tax, Total: subtotal + tax}
}

// Negate flips the sign of all three components together.
func (a Amounts) Negate() Amounts {
	return Amounts{Subtotal: -a.Subtotal, Tax: -a.Tax, Total: -a.Total}
}

// Recompute derives consistent amounts for a document. Payment documents with
// a positive payments total treat that total as tax-inclusive and ignore the
// SubTotal attribute; every other document applies the rate to subtotal.
func Recompute(kind models.DocumentKind, subtotal, paymentsTotal float64) Amounts {
	if kind == models.KindPayment && paymentsTotal > 0 {
		return amountsFromSubtotal(paymentsTotal / (1 + TaxRate))
	}
	return amountsFromSubtotal(subtotal)
}

// Classify labels a document relative to taxpayerRFC and applies the credit
// note sign policy. The issuer is checked first; the receiver is only
// consulted when the issuer does not match. Comparison is exact.
//
// An egreso issued by the taxpayer reduces income, so its amounts are negated
// and the returned adjustment is AdjustmentCreditNote. Received egresos keep
// their sign.
func Classify(kind models.DocumentKind, issuerRFC, receiverRFC, taxpayerRFC string, amounts Amounts) (models.Classification, models.Adjustment, Amounts) {
	switch {
	case issuerRFC == taxpayerRFC:
		if kind == models.KindEgreso {
			return models.ClassificationIncome, models.AdjustmentCreditNote, amounts.Negate()
		}
		return models.ClassificationIncome, models.AdjustmentNone, amounts
	case receiverRFC == taxpayerRFC:
		return models.ClassificationExpense, models.AdjustmentNone, amounts
	default:
		return models.ClassificationOther, models.AdjustmentNone, amounts
	}
}
