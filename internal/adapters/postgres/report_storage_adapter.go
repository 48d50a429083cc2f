package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rauljr10980/county-cad-tracker-sub005/internal/core/domain"
)

// PostgresReportStorageAdapter stores diff reports with a few indexed columns
// for lookups and the full report as a jsonb payload.
type PostgresReportStorageAdapter struct {
	pool *pgxpool.Pool
}

func NewPostgresReportStorageAdapter(pool *pgxpool.Pool) *PostgresReportStorageAdapter {
	return &PostgresReportStorageAdapter{pool: pool}
}

func (a *PostgresReportStorageAdapter) SaveReport(ctx context.Context, report domain.DiffReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report payload: %w", err)
	}

	_, err = a.pool.Exec(ctx,
		`INSERT INTO diff_reports (id, current_snapshot_id, previous_snapshot_id, generated_at, payload)
		 VALUES ($1, $2, $3, $4, $5)`,
		report.ID, report.CurrentSnapshotID, report.PreviousSnapshotID, report.GeneratedAt, payload,
	)
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}
	return nil
}

func (a *PostgresReportStorageAdapter) ReportForSnapshot(ctx context.Context, snapshotID uuid.UUID) (*domain.DiffReport, error) {
	var payload []byte
	err := a.pool.QueryRow(ctx,
		`SELECT payload FROM diff_reports WHERE current_snapshot_id = $1`,
		snapshotID,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query report for snapshot: %w", err)
	}

	return unmarshalReport(payload)
}

func (a *PostgresReportStorageAdapter) LatestReport(ctx context.Context) (*domain.DiffReport, error) {
	var payload []byte
	err := a.pool.QueryRow(ctx,
		`SELECT payload FROM diff_reports ORDER BY generated_at DESC LIMIT 1`,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query latest report: %w", err)
	}

	return unmarshalReport(payload)
}

func unmarshalReport(payload []byte) (*domain.DiffReport, error) {
	var report domain.DiffReport
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report payload: %w", err)
	}
	return &report, nil
}
