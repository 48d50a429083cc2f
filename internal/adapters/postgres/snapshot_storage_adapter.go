package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rauljr10980/county-cad-tracker-sub005/internal/core/domain"
)

// PostgresSnapshotStorageAdapter implements port.SnapshotStoragePort on top of
// a pgx connection pool.
type PostgresSnapshotStorageAdapter struct {
	pool *pgxpool.Pool
}

func NewPostgresSnapshotStorageAdapter(pool *pgxpool.Pool) *PostgresSnapshotStorageAdapter {
	return &PostgresSnapshotStorageAdapter{pool: pool}
}

func (a *PostgresSnapshotStorageAdapter) CreateSnapshot(ctx context.Context, source string) (domain.Snapshot, error) {
	snapshot := domain.Snapshot{
		ID:         uuid.New(),
		Source:     source,
		Status:     domain.SnapshotProcessing,
		IngestedAt: time.Now().UTC(),
	}

	_, err := a.pool.Exec(ctx,
		`INSERT INTO snapshots (id, source, status, ingested_at, record_count)
		 VALUES ($1, $2, $3, $4, 0)`,
		snapshot.ID, snapshot.Source, snapshot.Status, snapshot.IngestedAt,
	)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("failed to insert snapshot: %w", err)
	}

	return snapshot, nil
}

// SaveRecords writes the whole record set of one snapshot with the COPY
// protocol. The snapshot is new, so these are pure inserts.
func (a *PostgresSnapshotStorageAdapter) SaveRecords(ctx context.Context, snapshotID uuid.UUID, records []domain.DelinquentProperty) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	rows := make([][]interface{}, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []interface{}{
			snapshotID, rec.AccountNumber, rec.OwnerName, rec.PropertyAddress, rec.MailingAddress,
			string(rec.Status), rec.TotalDue, rec.PercentageDue,
			rec.LegalDescription, rec.MarketValue, rec.LandValue, rec.ImprovementValue, rec.AssessedValue,
			rec.YearBuilt, rec.Acreage, rec.LawsuitNumber, rec.JudgmentDate,
			rec.LastPaymentDate, rec.LastPaymentAmount,
			rec.Exemptions, rec.Jurisdictions,
		})
	}

	columns := []string{
		"snapshot_id", "account_number", "owner_name", "property_address", "mailing_address",
		"status", "total_due", "percentage_due",
		"legal_description", "market_value", "land_value", "improvement_value", "assessed_value",
		"year_built", "acreage", "lawsuit_number", "judgment_date",
		"last_payment_date", "last_payment_amount",
		"exemptions", "jurisdictions",
	}

	_, err = tx.CopyFrom(
		ctx,
		pgx.Identifier{"delinquent_properties"},
		columns,
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to copy to delinquent_properties: %w", err)
	}

	return tx.Commit(ctx)
}

func (a *PostgresSnapshotStorageAdapter) MarkCompleted(ctx context.Context, snapshotID uuid.UUID, recordCount int) error {
	_, err := a.pool.Exec(ctx,
		`UPDATE snapshots SET status = $2, record_count = $3 WHERE id = $1`,
		snapshotID, domain.SnapshotCompleted, recordCount,
	)
	if err != nil {
		return fmt.Errorf("failed to mark snapshot completed: %w", err)
	}
	return nil
}

func (a *PostgresSnapshotStorageAdapter) MarkError(ctx context.Context, snapshotID uuid.UUID) error {
	_, err := a.pool.Exec(ctx,
		`UPDATE snapshots SET status = $2 WHERE id = $1`,
		snapshotID, domain.SnapshotError,
	)
	if err != nil {
		return fmt.Errorf("failed to mark snapshot errored: %w", err)
	}
	return nil
}

func (a *PostgresSnapshotStorageAdapter) LatestCompleted(ctx context.Context, excludeID uuid.UUID) (*domain.Snapshot, error) {
	var s domain.Snapshot
	err := a.pool.QueryRow(ctx,
		`SELECT id, source, status, ingested_at, record_count
		 FROM snapshots
		 WHERE status = $1 AND id <> $2
		 ORDER BY ingested_at DESC
		 LIMIT 1`,
		domain.SnapshotCompleted, excludeID,
	).Scan(&s.ID, &s.Source, &s.Status, &s.IngestedAt, &s.RecordCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query latest completed snapshot: %w", err)
	}
	return &s, nil
}

func (a *PostgresSnapshotStorageAdapter) RecordsOf(ctx context.Context, snapshotID uuid.UUID) ([]domain.DelinquentProperty, error) {
	rows, err := a.pool.Query(ctx,
		`SELECT account_number, owner_name, property_address, mailing_address,
		        status, total_due, percentage_due,
		        legal_description, market_value, land_value, improvement_value, assessed_value,
		        year_built, acreage, lawsuit_number, judgment_date,
		        last_payment_date, last_payment_amount,
		        exemptions, jurisdictions
		 FROM delinquent_properties
		 WHERE snapshot_id = $1
		 ORDER BY account_number`,
		snapshotID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot records: %w", err)
	}
	defer rows.Close()

	var records []domain.DelinquentProperty
	for rows.Next() {
		var rec domain.DelinquentProperty
		var status string
		err := rows.Scan(
			&rec.AccountNumber, &rec.OwnerName, &rec.PropertyAddress, &rec.MailingAddress,
			&status, &rec.TotalDue, &rec.PercentageDue,
			&rec.LegalDescription, &rec.MarketValue, &rec.LandValue, &rec.ImprovementValue, &rec.AssessedValue,
			&rec.YearBuilt, &rec.Acreage, &rec.LawsuitNumber, &rec.JudgmentDate,
			&rec.LastPaymentDate, &rec.LastPaymentAmount,
			&rec.Exemptions, &rec.Jurisdictions,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		rec.Status = domain.PropertyStatus(status)
		if rec.Exemptions == nil {
			rec.Exemptions = []string{}
		}
		if rec.Jurisdictions == nil {
			rec.Jurisdictions = []string{}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read snapshot records: %w", err)
	}

	return records, nil
}

func (a *PostgresSnapshotStorageAdapter) ListSnapshots(ctx context.Context, limit int) ([]domain.Snapshot, error) {
	rows, err := a.pool.Query(ctx,
		`SELECT id, source, status, ingested_at, record_count
		 FROM snapshots
		 ORDER BY ingested_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []domain.Snapshot
	for rows.Next() {
		var s domain.Snapshot
		if err := rows.Scan(&s.ID, &s.Source, &s.Status, &s.IngestedAt, &s.RecordCount); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read snapshots: %w", err)
	}

	return snapshots, nil
}
