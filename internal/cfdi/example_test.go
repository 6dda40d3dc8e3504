package cfdi_test

import (
	"fmt"
	"log"
	"strings"
	"time"

	"facturas/internal/cfdi"
)

const exampleInvoice = `<?xml version="1.0" encoding="UTF-8"?>
<cfdi:Comprobante xmlns:cfdi="http://www.sat.gob.mx/cfd/4" xmlns:tfd="http://www.sat.gob.mx/TimbreFiscalDigital"
    Version="4.0" Serie="F" Folio="1024" Fecha="2024-05-10T12:30:00" SubTotal="1000.00" TipoDeComprobante="I" MetodoPago="PUE">
  <cfdi:Emisor Rfc="AAA010101AAA"/>
  <cfdi:Receptor Rfc="XEXX010101000"/>
  <cfdi:Complemento>
    <tfd:TimbreFiscalDigital UUID="5FB2822E-396D-4725-8521-CDC4BDD20CCF"/>
  </cfdi:Complemento>
</cfdi:Comprobante>`

// Example parses a single invoice issued by the configured taxpayer.
func Example() {
	parser := cfdi.NewParser("AAA010101AAA")

	record, err := parser.Parse(strings.NewReader(exampleInvoice))
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("%s %s %s\n", record.UUID, record.Date, record.Classification)
	fmt.Printf("subtotal=%.2f iva=%.2f total=%.2f\n", record.Subtotal, record.Tax, record.Total)
	// Output:
	// 5FB2822E-396D-4725-8521-CDC4BDD20CCF 10/05/2024 ingreso
	// subtotal=1000.00 iva=160.00 total=1160.00
}

// ExampleCollector_Collect processes a folder of XML files for one period.
func ExampleCollector_Collect() {
	period, err := cfdi.ParsePeriod("2024-05")
	if err != nil {
		log.Fatal(err)
	}

	collector := cfdi.NewCollector(cfdi.NewParser("AAA010101AAA"), period)
	result, err := collector.Collect("facturas_xml")
	if err != nil {
		log.Fatal(err)
	}

	for _, parseErr := range result.Errors {
		fmt.Printf("skipped %s: %v\n", parseErr.File, parseErr.Err)
	}
	fmt.Printf("%d documents in %s\n", len(result.Records), period)
}

// ExamplePeriod shows how a period is derived from a date.
func ExamplePeriod() {
	period := cfdi.PeriodOf(time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC))
	fmt.Println(period, period.Contains(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)))
	// Output: 2024-05 false
}
