package statement

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ledgerdesk-dev/ledgerdesk/internal/model"
)

// Parser converts a raw bank statement into StatementLines.
type Parser interface {
	Parse(r io.Reader) ([]model.StatementLine, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry(log zerolog.Logger) *Registry {
	r := NewRegistry()
	r.Register(&GenericParser{Log: log})
	return r
}

// GenericParser parses the common line-delimited export format:
// date, description, signed amount, running balance, optional reference.
// The first line is a header and is discarded.
type GenericParser struct {
	Log zerolog.Logger
}

const (
	genericDateFormat = "2006-01-02"
	colDate           = 0
	colDesc           = 1
	colAmount         = 2
	colBalance        = 3
	colReference      = 4
)

// Format returns the parser name.
func (p *GenericParser) Format() string { return "generic" }

// Parse reads a statement and returns its lines. Statement exports come
// from untrusted, inconsistently formatted sources, so malformed rows,
// including rows the CSV layer itself cannot parse, are skipped with a
// warning rather than failing the whole file.
func (p *GenericParser) Parse(r io.Reader) ([]model.StatementLine, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var lines []model.StatementLine
	header := true
	row := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				p.Log.Warn().Int("row", row).Err(err).Msg("skipping malformed statement line")
				continue
			}
			return nil, fmt.Errorf("reading statement: %w", err)
		}
		if header {
			header = false
			continue
		}

		line, err := parseRow(rec)
		if err != nil {
			p.Log.Warn().Int("row", row).Err(err).Msg("skipping malformed statement line")
			continue
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func parseRow(rec []string) (model.StatementLine, error) {
	if len(rec) < 4 || len(rec) > 5 {
		return model.StatementLine{}, fmt.Errorf("expected 4 or 5 fields, got %d", len(rec))
	}

	date, err := time.Parse(genericDateFormat, strings.TrimSpace(rec[colDate]))
	if err != nil {
		return model.StatementLine{}, fmt.Errorf("parsing date %q: %w", rec[colDate], err)
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(rec[colAmount]))
	if err != nil {
		return model.StatementLine{}, fmt.Errorf("parsing amount %q: %w", rec[colAmount], err)
	}

	balance, err := decimal.NewFromString(strings.TrimSpace(rec[colBalance]))
	if err != nil {
		return model.StatementLine{}, fmt.Errorf("parsing running balance %q: %w", rec[colBalance], err)
	}

	direction := model.DirectionCredit
	if amount.IsNegative() {
		direction = model.DirectionDebit
	}

	var ref string
	if len(rec) == 5 {
		ref = strings.TrimSpace(rec[colReference])
	}

	return model.StatementLine{
		Date:           date,
		Description:    strings.TrimSpace(rec[colDesc]),
		Amount:         amount,
		Direction:      direction,
		RunningBalance: balance,
		Reference:      ref,
	}, nil
}
