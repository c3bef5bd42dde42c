package statement

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerdesk-dev/ledgerdesk/internal/logger"
	"github.com/ledgerdesk-dev/ledgerdesk/internal/model"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

const sampleStatement = `date,description,amount,balance,reference
2025-03-01,Pagamento Cliente X,1500.00,8500.00,stmt_001
2025-03-02,Tarifa bancária,-29.90,8470.10,stmt_002
2025-03-03,TED Fornecedor ABC,-1200.00,7270.10
`

func TestParse_Generic(t *testing.T) {
	p := &GenericParser{Log: logger.Nop()}

	lines, err := p.Parse(strings.NewReader(sampleStatement))
	require.NoError(t, err)
	require.Len(t, lines, 3)

	first := lines[0]
	assert.Equal(t, "Pagamento Cliente X", first.Description)
	assert.True(t, first.Amount.Equal(first.AbsAmount()))
	assert.Equal(t, model.DirectionCredit, first.Direction)
	assert.Equal(t, "stmt_001", first.Reference)
	assert.Equal(t, 2025, first.Date.Year())

	second := lines[1]
	assert.Equal(t, model.DirectionDebit, second.Direction)
	assert.True(t, second.AbsAmount().Equal(dec("29.90")))
	assert.True(t, second.RunningBalance.Equal(dec("8470.10")))

	// Reference column is optional.
	assert.Empty(t, lines[2].Reference)
}

func TestParse_SkipsMalformedLines(t *testing.T) {
	raw := `date,description,amount,balance,reference
2025-03-01,Good line,100.00,100.00,ref_1
not-a-date,Bad date,100.00,200.00,ref_2
2025-03-03,Bad amount,abc,300.00,ref_3
2025-03-04,Too few fields
2025-03-05,Another good line,-50.00,250.00,ref_5
`
	var logBuf bytes.Buffer
	p := &GenericParser{Log: logger.NewWithWriter(&logBuf)}

	lines, err := p.Parse(strings.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "Good line", lines[0].Description)
	assert.Equal(t, "Another good line", lines[1].Description)

	// Each skipped row leaves a warning.
	warnings := strings.Count(logBuf.String(), "skipping malformed statement line")
	assert.Equal(t, 3, warnings)
}

func TestParse_BareQuoteRowSkipped(t *testing.T) {
	raw := "date,description,amount,balance,reference\n" +
		"2025-03-01,Good line,100.00,100.00,ref_1\n" +
		"2025-03-02,Bad \"quote line,-50.00,50.00,ref_2\n" +
		"2025-03-03,Another good line,25.00,75.00,ref_3\n"

	var logBuf bytes.Buffer
	p := &GenericParser{Log: logger.NewWithWriter(&logBuf)}

	// A CSV-level parse error on one row must not take down the rest of
	// the file.
	lines, err := p.Parse(strings.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "Good line", lines[0].Description)
	assert.Equal(t, "Another good line", lines[1].Description)

	assert.Contains(t, logBuf.String(), "skipping malformed statement line")
}

func TestParse_HeaderOnly(t *testing.T) {
	p := &GenericParser{Log: logger.Nop()}
	lines, err := p.Parse(strings.NewReader("date,description,amount,balance,reference\n"))
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestParse_Empty(t *testing.T) {
	p := &GenericParser{Log: logger.Nop()}
	lines, err := p.Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry(logger.Nop())
	assert.NotNil(t, r.Get("generic"))
	assert.NotNil(t, r.Get("GENERIC"), "lookup is case-insensitive")
	assert.Nil(t, r.Get("unknown-bank"))
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(&GenericParser{Log: logger.Nop()})
	assert.Panics(t, func() {
		r.Register(&GenericParser{Log: logger.Nop()})
	})
}
