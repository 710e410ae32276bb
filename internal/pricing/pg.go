package pricing

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool creates a pgxpool suitable for the read-only price lookups.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// LoadPostgres reads the full price table from ref.cpt_prices, so a
// price-serving database can feed the validator instead of a local file.
// Non-positive prices are skipped.
func LoadPostgres(ctx context.Context, pool *pgxpool.Pool) (*Table, error) {
	rows, err := pool.Query(ctx, `SELECT cpt_code, median_price FROM ref.cpt_prices`)
	if err != nil {
		return nil, fmt.Errorf("query cpt_prices: %w", err)
	}
	defer rows.Close()

	prices := make(map[string]float64)
	for rows.Next() {
		var code string
		var price float64
		if err := rows.Scan(&code, &price); err != nil {
			return nil, fmt.Errorf("scan cpt_prices row: %w", err)
		}
		if code != "" && price > 0 {
			prices[code] = price
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cpt_prices: %w", err)
	}
	return &Table{prices: prices}, nil
}
