package pricing

import (
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"
)

// PriceRow is the Parquet schema for one reference price record, the
// same two columns the CSV form carries.
type PriceRow struct {
	CPTCode     string  `parquet:"cpt_code"`
	MedianPrice float64 `parquet:"median_price"`
}

// LoadParquet reads a price table from a Parquet file. Rows with
// non-positive prices are skipped.
func LoadParquet(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pricing parquet: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat pricing parquet: %w", err)
	}
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[PriceRow](pf)
	defer reader.Close()

	prices := make(map[string]float64, reader.NumRows())
	buf := make([]PriceRow, 1024)
	for {
		n, readErr := reader.Read(buf)
		for i := 0; i < n; i++ {
			if buf[i].CPTCode != "" && buf[i].MedianPrice > 0 {
				prices[buf[i].CPTCode] = buf[i].MedianPrice
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("read pricing parquet: %w", readErr)
		}
	}
	return &Table{prices: prices}, nil
}
