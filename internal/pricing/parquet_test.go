package pricing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
)

func TestLoadParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.parquet")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create fixture: %v", err)
	}
	w := parquet.NewGenericWriter[PriceRow](f)
	_, err = w.Write([]PriceRow{
		{CPTCode: "99213", MedianPrice: 100.00},
		{CPTCode: "99214", MedianPrice: 145.50},
		{CPTCode: "99215", MedianPrice: 0}, // dropped
	})
	if err != nil {
		t.Fatalf("write rows: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	f.Close()

	table, err := LoadParquet(path)
	if err != nil {
		t.Fatalf("LoadParquet: %v", err)
	}
	if table.Len() != 2 {
		t.Fatalf("Len = %d, want 2", table.Len())
	}
	if price, ok := table.Lookup("99214"); !ok || price != 145.50 {
		t.Errorf("Lookup(99214) = %v, %v; want 145.50, true", price, ok)
	}
}

func TestLoad_DispatchByExtension(t *testing.T) {
	csvPath := writeCSV(t, "99213,100.00\n")
	table, err := Load(csvPath)
	if err != nil {
		t.Fatalf("Load csv: %v", err)
	}
	if table.Len() != 1 {
		t.Errorf("Len = %d, want 1", table.Len())
	}
}
