package pdfdoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Garbage(t *testing.T) {
	_, err := Load([]byte("not a pdf at all"))
	require.Error(t, err)

	_, err = Load(nil)
	require.Error(t, err)
}

func TestBox(t *testing.T) {
	b := box{10, 0, 595, 842}
	assert.Equal(t, 42.0, b.top(800))
	assert.Equal(t, 90.0, b.left(100))
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "Arial-BoldMT", baseName("ABCDEF+Arial-BoldMT"))
	assert.Equal(t, "Helvetica", baseName("Helvetica"))
}

func TestMatrix(t *testing.T) {
	m := translate(10, 20).mul(matrix{{2, 0, 0}, {0, 2, 0}, {5, 5, 1}})
	assert.Equal(t, matrix{{2, 0, 0}, {0, 2, 0}, {25, 45, 1}}, m)
	assert.Equal(t, m, m.mul(identity))
}

func TestTextState_Advance(t *testing.T) {
	st := &textState{ctm: identity, tm: identity, tlm: identity, scale: 1, size: 10}
	cf := &cidFont{base: "Arial-BoldMT", defaultWidth: 1000, widths: map[int]float64{36: 500}}

	st.moveLine(100, 700)
	g := st.glyph(cf, 36)
	assert.Equal(t, 100.0, g.X)
	assert.Equal(t, 700.0, g.Top)
	assert.Equal(t, 5.0, g.Width)
	assert.Equal(t, 10.0, g.Size)
	assert.Equal(t, 36, g.CID)

	st.advance(cf.width(36), false)
	assert.Equal(t, 105.0, st.glyph(cf, 1).X)

	st.advance(cf.width(1), false)
	assert.Equal(t, 115.0, st.glyph(cf, 1).X)
}
