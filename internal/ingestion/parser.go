package ingestion

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/guttosm/b3yield/internal/domain/models"
	"github.com/guttosm/b3yield/internal/storage"
)

// expectedHeaders enforces strict column ordering for ANBIMA rate files.
// If the header doesn't match EXACTLY (order + count), ingestion must fail.
var expectedHeaders = []string{
	"Codigo",
	"Tipo",
	"DataEmissao",
	"DataVencimento",
	"TaxaCupom",
	"Frequencia",
	"ValorNominal",
	"DataLiquidacao",
	"Taxa",
	"Truncamento",
}

// kindAliases maps the Tipo column to an instrument kind. Treasury names are
// accepted alongside the generic ones.
var kindAliases = map[string]string{
	"bill":  "bill",
	"ltn":   "bill",
	"lft":   "bill",
	"bond":  "bond",
	"ntn-f": "bond",
	"ntnf":  "bond",
}

// defaultBondFrequency applies when a bond row leaves Frequencia empty.
const defaultBondFrequency = 2

var rowDateLayouts = []string{"02/01/2006", "2006-01-02"}

// parseAndPersistFile opens, validates, prices, and persists one file in batches.
// It fails on:
//   - header not matching expected order/length
//   - a row that does not parse or cannot be priced
//   - unrecoverable I/O errors
//
// Parameters:
//   - ctx:    context for cancellation/timeouts.
//   - path:   file path.
//   - day:    business date the file belongs to; becomes the reference date.
//   - repo:   repository for DB insertion.
//   - pricer: prices each parsed row.
//   - batch:  batch size for inserts (e.g., 500).
func parseAndPersistFile(ctx context.Context, path string, day time.Time, repo storage.QuotationsRepository, pricer Pricer, batch int) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.Comma = ';'
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return 0, fmt.Errorf("read header: %w", err)
	}
	if len(header) != len(expectedHeaders) {
		return 0, fmt.Errorf("invalid header length: expected %d, got %d", len(expectedHeaders), len(header))
	}
	for i, h := range header {
		if strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")) != expectedHeaders[i] {
			return 0, fmt.Errorf("invalid header at col %d: expected %q, got %q", i+1, expectedHeaders[i], h)
		}
	}

	buf := make([]models.Quotation, 0, batch)
	lineNumber := 1

	flush := func() error {
		if len(buf) == 0 {
			return nil
		}
		if err := repo.InsertQuotationsBatch(buf); err != nil {
			return err
		}
		buf = buf[:0]
		return nil
	}

	total := 0

	for {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		default:
		}

		rec, err := r.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return 0, fmt.Errorf("read line after %d: %w", lineNumber, err)
		}
		lineNumber++

		if len(rec) != len(expectedHeaders) {
			return 0, fmt.Errorf("invalid column count on line %d: expected %d got %d", lineNumber, len(expectedHeaders), len(rec))
		}

		rate, err := recordToRate(rec, day)
		if err != nil {
			return 0, fmt.Errorf("line %d: %w", lineNumber, err)
		}
		q, err := pricer.PriceRecord(ctx, rate)
		if err != nil {
			return 0, fmt.Errorf("line %d: price: %w", lineNumber, err)
		}
		q.ReferenceDate = day

		buf = append(buf, *q)
		total++
		if len(buf) >= batch {
			if err := flush(); err != nil {
				return 0, fmt.Errorf("flush batch ending line %d: %w", lineNumber, err)
			}
		}
	}

	if err := flush(); err != nil {
		return 0, fmt.Errorf("final flush: %w", err)
	}

	return total, nil
}

// recordToRate converts a single record (already validated length==10) into
// a models.RateRecord. Numbers use a comma as decimal separator.
//
// Column order (Portuguese header → model fields):
//
//	0 Codigo          → Code (required)
//	1 Tipo            → Kind (bill|bond, or LTN, LFT, NTN-F)
//	2 DataEmissao     → IssueDate (DD/MM/YYYY or YYYY-MM-DD)
//	3 DataVencimento  → MaturityDate
//	4 TaxaCupom       → CouponRate (percent a year; bonds only)
//	5 Frequencia      → Frequency (periods a year; bonds default to 2)
//	6 ValorNominal    → Face
//	7 DataLiquidacao  → SettlementDate (empty → file date)
//	8 Taxa            → Yield (percent a year, stored as a fraction)
//	9 Truncamento     → Truncation (empty → untruncated)
func recordToRate(rec []string, day time.Time) (models.RateRecord, error) {
	var r models.RateRecord

	r.Code = strings.TrimSpace(rec[0])
	if r.Code == "" {
		return r, fmt.Errorf("empty Codigo")
	}

	kind, ok := kindAliases[strings.ToLower(strings.TrimSpace(rec[1]))]
	if !ok {
		return r, fmt.Errorf("invalid Tipo %q", rec[1])
	}
	r.Kind = kind

	var err error
	if r.IssueDate, err = parseRowDate("DataEmissao", rec[2]); err != nil {
		return r, err
	}
	if r.MaturityDate, err = parseRowDate("DataVencimento", rec[3]); err != nil {
		return r, err
	}

	if kind == "bond" {
		if r.CouponRate, err = parseRowDecimal("TaxaCupom", rec[4]); err != nil {
			return r, err
		}
		r.Frequency = defaultBondFrequency
		if s := strings.TrimSpace(rec[5]); s != "" {
			if r.Frequency, err = strconv.Atoi(s); err != nil {
				return r, fmt.Errorf("invalid Frequencia: %v", err)
			}
		}
	}

	if r.Face, err = parseRowDecimal("ValorNominal", rec[6]); err != nil {
		return r, err
	}

	r.SettlementDate = day
	if strings.TrimSpace(rec[7]) != "" {
		if r.SettlementDate, err = parseRowDate("DataLiquidacao", rec[7]); err != nil {
			return r, err
		}
	}

	pct, err := parseRowDecimal("Taxa", rec[8])
	if err != nil {
		return r, err
	}
	r.Yield = pct.Shift(-2)

	if s := strings.TrimSpace(rec[9]); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return r, fmt.Errorf("invalid Truncamento: %v", err)
		}
		r.Truncation = &n
	}

	return r, nil
}

func parseRowDate(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty %s", field)
	}
	for _, layout := range rowDateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid %s: %q", field, s)
}

// rowDecimal accepts Brazilian notation: "," for decimals and "." only as a
// thousands separator ("1.000,00", "14,36", "1000").
var rowDecimal = regexp.MustCompile(`^[+-]?(\d{1,3}(\.\d{3})+|\d+)(,\d+)?$`)

func parseRowDecimal(field, s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty %s", field)
	}
	if !rowDecimal.MatchString(s) {
		return decimal.Zero, fmt.Errorf("invalid %s: %q is not in 1.234,56 notation", field, s)
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.ReplaceAll(s, ".", ""), ",", "."))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %v", field, err)
	}
	return d, nil
}
