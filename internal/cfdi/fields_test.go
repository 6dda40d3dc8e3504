package cfdi

import (
	"strings"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"1000.00", 1000},
		{" 12.5 ", 12.5},
		{"0", 0},
		{"-3.25", -3.25},
		{"", 0},
		{"abc", 0},
		{"1,000.00", 0},
		{"NaN", 0},
		{"Inf", 0},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAmount(tt.raw))
		})
	}
}

func TestNormalizeIssueDate(t *testing.T) {
	tests := []struct {
		raw     string
		display string
		ok      bool
	}{
		{"2024-05-10T12:30:00", "10/05/2024", true},
		{"2024-05-10 12:30:00", "10/05/2024", true},
		{"2024-05-10T12:30:00.123", "10/05/2024", true},
		{"2024-05-10T12:30:00-06:00", "10/05/2024", true},
		{"2024-05-10T12:30", "10/05/2024", true},
		{"2024-05-10", "10/05/2024", true},
		{"10/05/2024", "10/05/2024", false},
		{"2024-13-01T00:00:00", "2024-13-01T00:00:00", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			display, issued, ok := NormalizeIssueDate(tt.raw)
			assert.Equal(t, tt.display, display)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, !tt.ok, issued.IsZero())
		})
	}
}

func TestParseDisplayDate(t *testing.T) {
	got, err := ParseDisplayDate("31/12/2023")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseDisplayDate("2023-12-31T00:00:00")
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = ParseDisplayDate("")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestAttrString(t *testing.T) {
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(`<a Serie="B" SubTotal="10.5"/>`))

	root := doc.Root()
	assert.Equal(t, "B", AttrString(root, "Serie"))
	assert.Equal(t, "", AttrString(root, "Folio"))
	assert.Equal(t, 10.5, AttrAmount(root, "SubTotal"))
	assert.Equal(t, "", AttrString(nil, "Serie"))
	assert.Zero(t, AttrAmount(nil, "Monto"))
}

func TestResolveNamespaces(t *testing.T) {
	tests := []struct {
		tag  string
		want string
	}{
		{"{http://www.sat.gob.mx/cfd/4}Comprobante", "http://www.sat.gob.mx/cfd/4"},
		{"{http://www.sat.gob.mx/cfd/3}Comprobante", "http://www.sat.gob.mx/cfd/3"},
		{"Comprobante", DefaultNamespace},
		{"{unterminated", DefaultNamespace},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			ns := ResolveNamespaces(tt.tag)
			assert.Equal(t, tt.want, ns.CFDI)
			assert.Equal(t, StampNamespace, ns.Stamp)
		})
	}
}

func TestQualifiedTag(t *testing.T) {
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(`<cfdi:Comprobante xmlns:cfdi="http://www.sat.gob.mx/cfd/3"><Plain/></cfdi:Comprobante>`))

	root := doc.Root()
	assert.Equal(t, "{http://www.sat.gob.mx/cfd/3}Comprobante", QualifiedTag(root))
	assert.Equal(t, "Plain", QualifiedTag(root.ChildElements()[0]))
}

func TestFindDescendants_DocumentOrder(t *testing.T) {
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(strings.TrimSpace(`
<r xmlns:p="urn:p">
  <p:x id="1"><p:x id="2"/></p:x>
  <wrap><p:x id="3"/></wrap>
  <x id="unqualified"/>
</r>`)))

	found := findDescendants(doc.Root(), "urn:p", "x")
	require.Len(t, found, 3)
	for i, el := range found {
		assert.Equal(t, string(rune('1'+i)), el.SelectAttrValue("id", ""))
	}
	assert.Nil(t, findChild(doc.Root(), "urn:p", "missing"))
	assert.Equal(t, "3", findDescendant(doc.Root().ChildElements()[1], "urn:p", "x").SelectAttrValue("id", ""))
}
