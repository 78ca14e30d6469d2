package htmldoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/izvod-dev/izvod/internal/layout"
)

const page = `<html><body>
<p>Izvod   za period od: 01.02.2026</p>
<table>
  <tr><td>Naziv klijenta:</td><td>GLOBEX DOO</td></tr>
  <tr><td>
    <table><tr><th>Datum dokumenta</th><th>Iznos</th></tr>
      <tr><td>01.02.2026.<br>02.02.2026.</td><td>1.234,56</td></tr>
    </table>
  </td></tr>
</table>
</body></html>`

func TestDecode_Windows1250(t *testing.T) {
	raw, err := charmap.Windows1250.NewEncoder().String("Broj računa: Početno stanje Šifra")
	require.NoError(t, err)
	assert.Equal(t, "Broj računa: Početno stanje Šifra", Decode([]byte(raw)))
}

func TestDecode_FallsBackToUTF8(t *testing.T) {
	// 0x98 is undefined in Windows-1250
	data := append([]byte("Konačno "), 0x98)
	got := Decode(data)
	assert.Contains(t, got, "Konačno")
}

func TestParagraphs(t *testing.T) {
	doc, err := Parse([]byte(page))
	require.NoError(t, err)
	assert.Equal(t, []string{"Izvod za period od: 01.02.2026"}, doc.Paragraphs())
}

func TestCells(t *testing.T) {
	doc, err := Parse([]byte(page))
	require.NoError(t, err)
	cells := doc.Cells()
	assert.Equal(t, "Naziv klijenta:", cells[0])
	assert.Equal(t, "GLOBEX DOO", cells[1])
	assert.Contains(t, cells, "01.02.2026.\n02.02.2026.")
}

func TestTable_Innermost(t *testing.T) {
	doc, err := Parse([]byte(page))
	require.NoError(t, err)

	rows, ok := doc.Table("Datum dokumenta")
	require.True(t, ok)
	assert.Equal(t, layout.Table{
		{"Datum dokumenta", "Iznos"},
		{"01.02.2026.\n02.02.2026.", "1.234,56"},
	}, rows)

	_, ok = doc.Table("missing marker")
	assert.False(t, ok)
}

func TestTable_OuterRowsSkipNested(t *testing.T) {
	doc, err := Parse([]byte(page))
	require.NoError(t, err)

	rows, ok := doc.Table("Naziv klijenta")
	require.True(t, ok)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Naziv klijenta:", "GLOBEX DOO"}, rows[0])
}
