package models

import "time"

// DocumentKind is the CFDI TipoDeComprobante code as read from the document.
type DocumentKind string

const (
	KindIncome   DocumentKind = "I" // Ingreso
	KindEgreso   DocumentKind = "E" // Egreso: credit notes, returns, discounts
	KindTransfer DocumentKind = "T" // Traslado
	KindPayroll  DocumentKind = "N" // Nómina
	KindPayment  DocumentKind = "P" // Pago, carries a payments complement
)

// Classification places a document relative to the configured taxpayer.
type Classification string

const (
	ClassificationIncome  Classification = "ingreso"
	ClassificationExpense Classification = "egreso"
	ClassificationOther   Classification = "otro"
)

// Adjustment records whether amounts were sign-adjusted during classification.
// It is kept apart from DocumentKind so an "E" document issued by the taxpayer
// (a credit note against own income) is distinguishable from one received.
type Adjustment string

const (
	AdjustmentNone       Adjustment = "none"
	AdjustmentCreditNote Adjustment = "credit_note"
)

// RelatedInvoice is one DoctoRelacionado entry of a payments complement.
type RelatedInvoice struct {
	UUID   string `json:"uuid"`
	Series string `json:"serie"`
	Folio  string `json:"folio"`
}

type InvoiceRecord struct {
	// Fiscal stamp UUID, empty when the document is not stamped
	UUID string `json:"uuid"`

	// Date is the issue date in dd/mm/yyyy form, or the raw Fecha attribute
	// when it could not be parsed.
	Date     string    `json:"fecha"`
	IssuedAt time.Time `json:"-"` // zero when Date holds the raw attribute

	Kind           DocumentKind   `json:"tipo_cfdi"`
	Classification Classification `json:"tipo"`
	Adjustment     Adjustment     `json:"ajuste"`

	IssuerRFC   string `json:"emisor_rfc"`
	ReceiverRFC string `json:"receptor_rfc"`

	// Amounts in the document currency; Total always equals Subtotal + Tax
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"iva"`
	Total    float64 `json:"total"`

	PaymentMethod string `json:"metodo_pago"`
	Series        string `json:"serie"`
	Folio         string `json:"folio"`

	// Only populated for payment documents
	RelatedInvoices []RelatedInvoice `json:"facturas_relacionadas,omitempty"`
}

// IsPayment reports whether the record came from a payment (kind P) document.
func (r *InvoiceRecord) IsPayment() bool {
	return r.Kind == KindPayment
}

// IsCreditNote reports whether the record is an issued credit note with negated amounts.
func (r *InvoiceRecord) IsCreditNote() bool {
	return r.Adjustment == AdjustmentCreditNote
}
