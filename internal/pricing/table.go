// Package pricing loads and serves the reference price table: a
// read-only mapping from procedure code to a positive median price,
// loaded once at process start and shared across concurrent requests.
package pricing

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Table is the in-memory price reference. A nil or empty Table is valid
// and means "no pricing opinion": price-dependent rules skip themselves.
type Table struct {
	prices map[string]float64
}

// New builds a Table from a code → price map. Non-positive prices are
// dropped.
func New(prices map[string]float64) *Table {
	m := make(map[string]float64, len(prices))
	for code, price := range prices {
		if price > 0 {
			m[code] = price
		}
	}
	return &Table{prices: m}
}

// Lookup returns the reference price for a code. Absence means "no
// pricing opinion", not "invalid code" -- except where a rule explicitly
// treats absence-from-table as the error condition.
func (t *Table) Lookup(code string) (float64, bool) {
	if t == nil {
		return 0, false
	}
	price, ok := t.prices[code]
	return price, ok
}

// Len reports how many codes the table covers.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.prices)
}

// Load reads a price table from path, dispatching on extension:
// .parquet goes to the Parquet reader, anything else is read as the
// two-column CSV produced by the ingest-pfs ETL.
func Load(path string) (*Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".parquet") {
		return LoadParquet(path)
	}
	return LoadCSV(path)
}

// LoadCSV reads a two-column (cpt_code, median_price) CSV. A header row
// is tolerated; rows with unparseable or non-positive prices are
// skipped, not fatal.
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pricing csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	prices := make(map[string]float64)
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read pricing csv: %w", err)
		}
		if len(rec) < 2 {
			continue
		}
		code := strings.TrimSpace(rec[0])
		if code == "" || strings.EqualFold(code, "cpt_code") {
			continue
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if err != nil || price <= 0 {
			continue
		}
		prices[code] = price
	}
	return &Table{prices: prices}, nil
}
