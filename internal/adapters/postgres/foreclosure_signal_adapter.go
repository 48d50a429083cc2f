package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresForeclosureSignalAdapter looks accounts up in the foreclosure_sales
// table, which is fed by the county's sale results. An account present there
// left the roll for a known reason and is not a presumed-dead lead.
type PostgresForeclosureSignalAdapter struct {
	pool *pgxpool.Pool
}

func NewPostgresForeclosureSignalAdapter(pool *pgxpool.Pool) *PostgresForeclosureSignalAdapter {
	return &PostgresForeclosureSignalAdapter{pool: pool}
}

func (a *PostgresForeclosureSignalAdapter) KnownForeclosures(ctx context.Context, accounts []string) (map[string]struct{}, error) {
	known := make(map[string]struct{})
	if len(accounts) == 0 {
		return known, nil
	}

	rows, err := a.pool.Query(ctx,
		`SELECT account_number FROM foreclosure_sales WHERE account_number = ANY($1)`,
		accounts,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query foreclosure sales: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var account string
		if err := rows.Scan(&account); err != nil {
			return nil, fmt.Errorf("failed to scan foreclosure sale: %w", err)
		}
		known[account] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read foreclosure sales: %w", err)
	}

	return known, nil
}
