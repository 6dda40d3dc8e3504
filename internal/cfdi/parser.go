// Package cfdi parses Mexican CFDI 3.3/4.0 electronic invoices and classifies
// them relative to a configured taxpayer RFC.
//
// Parsing is tolerant: missing optional attributes and elements default to
// empty values and never fail a document. Only unreadable XML or a document
// without a root element is reported as an error.
//
// Amounts follow a fixed 16% IVA rate:
//   - subtotal, tax and total are recomputed from the SubTotal attribute
//   - payment (P) documents use the payments complement total as a tax-inclusive amount
//   - egreso (E) documents issued by the taxpayer are recorded as negative income
package cfdi

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"facturas/internal/logger"
	"facturas/pkg/models"
	"github.com/beevik/etree"
	"github.com/rs/zerolog"
)

// Parser turns CFDI documents into classified invoice records.
type Parser struct {
	taxpayerRFC string
	log         zerolog.Logger
}

// NewParser creates a parser that classifies documents against taxpayerRFC.
func NewParser(taxpayerRFC string) *Parser {
	return &Parser{
		taxpayerRFC: taxpayerRFC,
		log:         logger.WithComponent("cfdi-parser"),
	}
}

// TaxpayerRFC returns the RFC documents are classified against.
func (p *Parser) TaxpayerRFC() string {
	return p.taxpayerRFC
}

// ParseFile reads and parses a single CFDI file.
func (p *Parser) ParseFile(path string) (*models.InvoiceRecord, error) {
	const op = "ParseFile"

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewDocumentError(op, err, "failed to read file")
	}

	return p.Parse(bytes.NewReader(data))
}

// Parse reads a CFDI document from r and classifies it.
func (p *Parser) Parse(r io.Reader) (*models.InvoiceRecord, error) {
	const op = "Parse"

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, NewDocumentError(op, ErrMalformedXML, err.Error())
	}
	if roots := len(doc.ChildElements()); roots > 1 {
		return nil, NewDocumentError(op, ErrMalformedXML, fmt.Sprintf("%d top-level elements", roots))
	}
	if err := checkPrefixes(doc.Root()); err != nil {
		return nil, NewDocumentError(op, ErrMalformedXML, err.Error())
	}

	return p.ParseDocument(doc)
}

// ParseDocument classifies an already parsed document.
func (p *Parser) ParseDocument(doc *etree.Document) (*models.InvoiceRecord, error) {
	const op = "ParseDocument"

	root := doc.Root()
	if root == nil {
		return nil, NewDocumentError(op, ErrMissingRoot, "")
	}

	ns := ResolveNamespaces(QualifiedTag(root))
	record := extractFields(root, ns)

	subtotal := AttrAmount(root, "SubTotal")
	var payments PaymentSummary
	if record.Kind == models.KindPayment {
		payments = AggregatePayments(root, ns)
		record.RelatedInvoices = payments.Related
	}

	amounts := Recompute(record.Kind, subtotal, payments.Total)
	classification, adjustment, amounts := Classify(record.Kind, record.IssuerRFC, record.ReceiverRFC, p.taxpayerRFC, amounts)

	record.Classification = classification
	record.Adjustment = adjustment
	record.Subtotal = amounts.Subtotal
	record.Tax = amounts.Tax
	record.Total = amounts.Total

	p.log.Debug().
		Str("uuid", record.UUID).
		Str("namespace", ns.CFDI).
		Str("kind", string(record.Kind)).
		Str("classification", string(record.Classification)).
		Float64("subtotal", record.Subtotal).
		Int("related_invoices", len(record.RelatedInvoices)).
		Msg("Document classified")

	return record, nil
}

// extractFields reads the invoice-level attributes, the parties and the
// fiscal stamp. Amounts and classification are filled in by the caller.
func extractFields(root *etree.Element, ns Namespaces) *models.InvoiceRecord {
	date, issuedAt, _ := NormalizeIssueDate(AttrString(root, "Fecha"))

	record := &models.InvoiceRecord{
		Date:          date,
		IssuedAt:      issuedAt,
		Kind:          models.DocumentKind(AttrString(root, "TipoDeComprobante")),
		PaymentMethod: AttrString(root, "MetodoPago"),
		Series:        AttrString(root, "Serie"),
		Folio:         AttrString(root, "Folio"),
		IssuerRFC:     AttrString(findChild(root, ns.CFDI, "Emisor"), "Rfc"),
		ReceiverRFC:   AttrString(findChild(root, ns.CFDI, "Receptor"), "Rfc"),
		UUID:          AttrString(findDescendant(root, ns.Stamp, "TimbreFiscalDigital"), "UUID"),
	}

	return record
}
