package cfdi

import (
	"facturas/pkg/models"
	"github.com/beevik/etree"
)

// PaymentSummary is the result of walking a payments complement.
type PaymentSummary struct {
	// Total is the sum of every Pago Monto in the document.
	Total float64

	// Related lists every DoctoRelacionado in document order, each once.
	Related []models.RelatedInvoice
}

// AggregatePayments sums the payments complement of a document. A document
// without a Complemento element yields a zero summary.
func AggregatePayments(root *etree.Element, ns Namespaces) PaymentSummary {
	var summary PaymentSummary

	complement := findChild(root, ns.CFDI, "Complemento")
	if complement == nil {
		return summary
	}

	for _, payment := range findDescendants(complement, PaymentsNamespace, "Pago") {
		summary.Total += AttrAmount(payment, "Monto")
		summary.Related = appendRelated(summary.Related, payment)
	}

	return summary
}

// appendRelated appends the DoctoRelacionado entries under el in document
// order. A nested Pago owns its entries and is not entered.
func appendRelated(related []models.RelatedInvoice, el *etree.Element) []models.RelatedInvoice {
	for _, child := range el.ChildElements() {
		switch {
		case matches(child, PaymentsNamespace, "DoctoRelacionado"):
			related = append(related, models.RelatedInvoice{
				UUID:   AttrString(child, "IdDocumento"),
				Series: AttrString(child, "Serie"),
				Folio:  AttrString(child, "Folio"),
			})
		case matches(child, PaymentsNamespace, "Pago"):
			continue
		default:
			related = appendRelated(related, child)
		}
	}
	return related
}
