package cfdi

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testRFC  = "AAA010101AAA"
	otherRFC = "XEXX010101000"
	thirdRFC = "BBB020202BBB"
)

// fixture renders a CFDI document. Empty fields fall back to an income
// invoice issued by testRFC in May 2024.
type fixture struct {
	Namespace string
	Date      string
	Kind      string
	Subtotal  string
	Issuer    string
	Receiver  string
	UUID      string
	Payments  string
	NoParties bool
}

func (f fixture) xml() string {
	if f.Namespace == "" {
		f.Namespace = DefaultNamespace
	}
	if f.Date == "" {
		f.Date = "2024-05-10T12:30:00"
	}
	if f.Kind == "" {
		f.Kind = "I"
	}
	if f.Subtotal == "" {
		f.Subtotal = "1000.00"
	}
	if f.Issuer == "" {
		f.Issuer = testRFC
	}
	if f.Receiver == "" {
		f.Receiver = otherRFC
	}

	parties := fmt.Sprintf(`
  <cfdi:Emisor Rfc="%s" Nombre="EMISOR SA DE CV" RegimenFiscal="601"/>
  <cfdi:Receptor Rfc="%s" Nombre="RECEPTOR SA DE CV" UsoCFDI="G03"/>`, f.Issuer, f.Receiver)
	if f.NoParties {
		parties = ""
	}

	stamp := ""
	if f.UUID != "" {
		stamp = fmt.Sprintf(`<tfd:TimbreFiscalDigital Version="1.1" UUID="%s" FechaTimbrado="%s"/>`, f.UUID, f.Date)
	}

	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<cfdi:Comprobante xmlns:cfdi="%s" xmlns:tfd="%s" xmlns:pago20="%s" Version="4.0" Serie="A" Folio="101" Fecha="%s" SubTotal="%s" Moneda="MXN" TipoDeComprobante="%s" MetodoPago="PUE" LugarExpedicion="06000">%s
  <cfdi:Conceptos>
    <cfdi:Concepto ClaveProdServ="84111506" Cantidad="1" Descripcion="Servicio" ValorUnitario="%s" Importe="%s"/>
  </cfdi:Conceptos>
  <cfdi:Complemento>
    %s
    %s
  </cfdi:Complemento>
</cfdi:Comprobante>
`, f.Namespace, StampNamespace, PaymentsNamespace, f.Date, f.Subtotal, f.Kind, parties,
		f.Subtotal, f.Subtotal, f.Payments, stamp)
}

const twoPayments = `<pago20:Pagos Version="2.0">
      <pago20:Totales MontoTotalPagos="580.00"/>
      <pago20:Pago FechaPago="2024-05-20T10:00:00" FormaDePagoP="03" MonedaP="MXN" Monto="580.00">
        <pago20:DoctoRelacionado IdDocumento="11111111-1111-1111-1111-111111111111" Serie="A" Folio="90" ImpPagado="348.00"/>
        <pago20:DoctoRelacionado IdDocumento="22222222-2222-2222-2222-222222222222" Serie="A" Folio="91" ImpPagado="232.00"/>
      </pago20:Pago>
      <pago20:Pago FechaPago="2024-05-21T10:00:00" FormaDePagoP="03" MonedaP="MXN" Monto="0.00">
        <pago20:DoctoRelacionado IdDocumento="33333333-3333-3333-3333-333333333333" Folio="92"/>
      </pago20:Pago>
    </pago20:Pagos>`

const malformedXML = `<?xml version="1.0" encoding="UTF-8"?>
<cfdi:Comprobante xmlns:cfdi="http://www.sat.gob.mx/cfd/4" Fecha="2024-05-10T12:30:00" SubTotal="100`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
