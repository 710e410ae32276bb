// Package ingestpfs converts a CMS Physician Fee Schedule RVU file into
// the two-column reference price table the validator loads at startup.
// One-off ETL: price = (work RVU + non-facility PE RVU + non-facility
// MP RVU) x conversion factor.
package ingestpfs

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"
	"github.com/rs/zerolog"

	"github.com/gyeh/billaudit/internal/pricing"
)

// DefaultConversionFactor is the CY2025 PFS conversion factor.
const DefaultConversionFactor = 32.3465

// Result summarizes one ETL run.
type Result struct {
	RowsRead    int
	RowsSkipped int
	Codes       int
}

// Run reads the RVU CSV at inPath and writes the pricing table to
// outPath (.parquet for Parquet, anything else CSV).
func Run(inPath, outPath string, conversionFactor float64, log zerolog.Logger) (*Result, error) {
	if conversionFactor <= 0 {
		return nil, fmt.Errorf("conversion factor must be positive, got %v", conversionFactor)
	}

	headerIdx, err := findHeaderRow(inPath)
	if err != nil {
		return nil, err
	}
	log.Info().Int("header_row", headerIdx).Str("file", filepath.Base(inPath)).Msg("found RVU header")

	prices, res, err := readPrices(inPath, headerIdx, conversionFactor)
	if err != nil {
		return nil, err
	}
	if len(prices) == 0 {
		return nil, fmt.Errorf("no rows with a positive calculated price in %s", inPath)
	}
	res.Codes = len(prices)

	if strings.EqualFold(filepath.Ext(outPath), ".parquet") {
		err = writeParquet(outPath, prices)
	} else {
		err = writeCSV(outPath, prices)
	}
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("rows_read", res.RowsRead).
		Int("rows_skipped", res.RowsSkipped).
		Int("codes", res.Codes).
		Str("out", outPath).
		Msg("pricing table written")
	return res, nil
}

// findHeaderRow scans for the first line containing the HCPCS column
// marker; CMS files carry several junk banner lines above the header.
func findHeaderRow(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open rvu file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	for i := 0; scanner.Scan(); i++ {
		if strings.Contains(scanner.Text(), "HCPCS") {
			return i, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("scan rvu file: %w", err)
	}
	return 0, fmt.Errorf("no HCPCS header row found in %s", path)
}

// rvuColumns locates the columns the price formula needs. The CMS
// header names the work and malpractice RVU columns identically ("RVU");
// the first occurrence is work, the second is non-facility malpractice.
type rvuColumns struct {
	hcpcs int
	work  int
	pe    int
	mp    int
}

func resolveColumns(header []string) (rvuColumns, error) {
	cols := rvuColumns{hcpcs: -1, work: -1, pe: -1, mp: -1}
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case "HCPCS":
			if cols.hcpcs < 0 {
				cols.hcpcs = i
			}
		case "RVU":
			if cols.work < 0 {
				cols.work = i
			} else if cols.mp < 0 {
				cols.mp = i
			}
		case "PE RVU":
			if cols.pe < 0 {
				cols.pe = i
			}
		}
	}
	if cols.hcpcs < 0 || cols.work < 0 || cols.pe < 0 || cols.mp < 0 {
		return cols, fmt.Errorf("rvu file is missing required columns (HCPCS, RVU, PE RVU, RVU): got %v", header)
	}
	return cols, nil
}

func readPrices(path string, headerIdx int, conversionFactor float64) (map[string]float64, *Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open rvu file: %w", err)
	}
	defer f.Close()

	// Skip the junk lines above the header.
	reader := bufio.NewReader(f)
	for i := 0; i < headerIdx; i++ {
		if _, err := reader.ReadString('\n'); err != nil {
			return nil, nil, fmt.Errorf("skip to header: %w", err)
		}
	}

	r := csv.NewReader(reader)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	cols, err := resolveColumns(header)
	if err != nil {
		return nil, nil, err
	}

	maxIdx := cols.hcpcs
	for _, i := range []int{cols.work, cols.pe, cols.mp} {
		if i > maxIdx {
			maxIdx = i
		}
	}

	prices := make(map[string]float64)
	res := &Result{}
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read rvu row: %w", err)
		}
		res.RowsRead++
		if len(rec) <= maxIdx {
			res.RowsSkipped++
			continue
		}

		code := strings.TrimSpace(rec[cols.hcpcs])
		work, err1 := strconv.ParseFloat(strings.TrimSpace(rec[cols.work]), 64)
		pe, err2 := strconv.ParseFloat(strings.TrimSpace(rec[cols.pe]), 64)
		mp, err3 := strconv.ParseFloat(strings.TrimSpace(rec[cols.mp]), 64)
		if code == "" || err1 != nil || err2 != nil || err3 != nil {
			res.RowsSkipped++
			continue
		}

		price := round2((work + pe + mp) * conversionFactor)
		if price <= 0 {
			res.RowsSkipped++
			continue
		}
		// Duplicate codes keep their first price.
		if _, ok := prices[code]; ok {
			res.RowsSkipped++
			continue
		}
		prices[code] = price
	}
	return prices, res, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func sortedCodes(prices map[string]float64) []string {
	codes := make([]string, 0, len(prices))
	for code := range prices {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func writeCSV(path string, prices map[string]float64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"cpt_code", "median_price"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, code := range sortedCodes(prices) {
		if err := w.Write([]string{code, strconv.FormatFloat(prices[code], 'f', 2, 64)}); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return f.Close()
}

func writeParquet(path string, prices map[string]float64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	w := parquet.NewGenericWriter[pricing.PriceRow](f)
	rows := make([]pricing.PriceRow, 0, len(prices))
	for _, code := range sortedCodes(prices) {
		rows = append(rows, pricing.PriceRow{CPTCode: code, MedianPrice: prices[code]})
	}
	if _, err := w.Write(rows); err != nil {
		return fmt.Errorf("write parquet rows: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return f.Close()
}
