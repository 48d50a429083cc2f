package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rauljr10980/county-cad-tracker-sub005/internal/contextkeys"
	"github.com/rauljr10980/county-cad-tracker-sub005/internal/core/diff"
	"github.com/rauljr10980/county-cad-tracker-sub005/internal/core/domain"
	"github.com/rauljr10980/county-cad-tracker-sub005/internal/core/ingestion"
	"github.com/rauljr10980/county-cad-tracker-sub005/internal/core/port"
)

// IngestSnapshotUseCase runs one full ingestion: read rows, resolve columns,
// extract canonical records, persist the snapshot, compare against the most
// recent completed snapshot and persist the resulting diff report.
type IngestSnapshotUseCase struct {
	extractor    *ingestion.Extractor
	snapshots    port.SnapshotStoragePort
	reports      port.DiffReportStoragePort
	foreclosures port.ForeclosureSignalPort
	events       port.IngestionEventsPort
	sampleCap    int
}

func NewIngestSnapshotUseCase(
	snapshots port.SnapshotStoragePort,
	reports port.DiffReportStoragePort,
	foreclosures port.ForeclosureSignalPort,
	events port.IngestionEventsPort,
	sampleCap int,
) *IngestSnapshotUseCase {
	if sampleCap <= 0 {
		sampleCap = diff.DefaultSampleCap
	}
	return &IngestSnapshotUseCase{
		extractor:    ingestion.NewExtractor(),
		snapshots:    snapshots,
		reports:      reports,
		foreclosures: foreclosures,
		events:       events,
		sampleCap:    sampleCap,
	}
}

// Execute returns the id of the new snapshot. On any failure after the
// snapshot row exists it is marked error, so it can never participate in a
// later comparison half-written.
func (uc *IngestSnapshotUseCase) Execute(ctx context.Context, source port.TabularSourcePort, sourceName string) (uuid.UUID, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "IngestSnapshot",
		"source":   sourceName,
	})
	logger.Info("Use case started: ingesting export", nil)

	headers, rows, err := source.ReadAll(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to read rows from source %s: %w", sourceName, err)
	}

	columnMap, unresolved := ingestion.ResolveColumns(headers)
	if len(unresolved) > 0 {
		// Not fatal: the extractor has its own fallbacks, but classification
		// quality degrades silently, so operators must see this.
		logger.Warn("Required fields did not resolve to any column", port.Fields{
			"unresolved_fields": unresolved,
			"header_count":      len(headers),
		})
	}

	records, stats, err := uc.extractor.Extract(ctx, rows, columnMap)
	if err != nil {
		return uuid.Nil, fmt.Errorf("extraction aborted for source %s: %w", sourceName, err)
	}
	stats.UnresolvedFields = unresolved
	logger.Info("Extraction finished", port.Fields{
		"rows_in":        stats.RowsIn,
		"rows_extracted": stats.RowsExtracted,
		"rows_dropped":   stats.RowsDroppedNoIdentity,
		"fallback_rows":  stats.FallbackIdentityRows,
	})
	if stats.RowsDroppedNoIdentity > 0 {
		logger.Warn("Rows dropped for missing identity", port.Fields{
			"dropped": stats.RowsDroppedNoIdentity,
		})
	}

	snapshot, err := uc.snapshots.CreateSnapshot(ctx, sourceName)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create snapshot: %w", err)
	}
	snapLogger := logger.WithFields(port.Fields{"snapshot_id": snapshot.ID.String()})

	if err := uc.snapshots.SaveRecords(ctx, snapshot.ID, records); err != nil {
		uc.markError(ctx, snapLogger, snapshot.ID)
		return snapshot.ID, fmt.Errorf("failed to save %d records: %w", len(records), err)
	}

	report, err := uc.buildReport(ctx, snapLogger, snapshot.ID, records)
	if err != nil {
		uc.markError(ctx, snapLogger, snapshot.ID)
		return snapshot.ID, err
	}

	if err := uc.reports.SaveReport(ctx, *report); err != nil {
		uc.markError(ctx, snapLogger, snapshot.ID)
		return snapshot.ID, fmt.Errorf("failed to save diff report: %w", err)
	}

	if err := uc.snapshots.MarkCompleted(ctx, snapshot.ID, len(records)); err != nil {
		return snapshot.ID, fmt.Errorf("failed to complete snapshot: %w", err)
	}

	if uc.events != nil {
		event := port.ReportReadyEvent{
			ReportID:          report.ID.String(),
			CurrentSnapshotID: snapshot.ID.String(),
			Summary:           report.Summary,
		}
		if err := uc.events.PublishReportReady(ctx, event); err != nil {
			// The ingestion itself succeeded; re-processing it for a lost
			// notification would duplicate the snapshot.
			snapLogger.Error("Failed to publish report-ready event", err, nil)
		}
	}

	snapLogger.Info("Use case finished: snapshot completed", port.Fields{
		"record_count":   len(records),
		"new":            report.Summary.NewProperties,
		"removed":        report.Summary.RemovedProperties,
		"status_changes": report.Summary.StatusChanges,
	})
	return snapshot.ID, nil
}

// buildReport compares against the latest completed snapshot. A missing
// previous snapshot is not an error: the comparator degrades to all-new and
// the report carries no transitions.
func (uc *IngestSnapshotUseCase) buildReport(ctx context.Context, logger port.LoggerPort, snapshotID uuid.UUID, records []domain.DelinquentProperty) (*domain.DiffReport, error) {
	previous, err := uc.snapshots.LatestCompleted(ctx, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up previous snapshot: %w", err)
	}

	var previousRecords []domain.DelinquentProperty
	var previousID *uuid.UUID
	if previous != nil {
		previousRecords, err = uc.snapshots.RecordsOf(ctx, previous.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load records of snapshot %s: %w", previous.ID, err)
		}
		previousID = &previous.ID
	} else {
		logger.Info("No completed previous snapshot; treating all records as new", nil)
	}

	d := diff.Compare(records, previousRecords)
	if len(d.DuplicateCurrent) > 0 || len(d.DuplicatePrevious) > 0 {
		logger.Warn("Duplicate account numbers within a snapshot", port.Fields{
			"current_duplicates":  len(d.DuplicateCurrent),
			"previous_duplicates": len(d.DuplicatePrevious),
		})
	}

	foreclosed := map[string]struct{}{}
	if len(d.Removed) > 0 && uc.foreclosures != nil {
		accounts := make([]string, len(d.Removed))
		for i, rec := range d.Removed {
			accounts[i] = rec.AccountNumber
		}
		foreclosed, err = uc.foreclosures.KnownForeclosures(ctx, accounts)
		if err != nil {
			return nil, fmt.Errorf("failed to query foreclosure signal: %w", err)
		}
	}

	report := diff.BuildReport(d, foreclosed, uc.sampleCap)
	report.ID = uuid.New()
	report.CurrentSnapshotID = snapshotID
	report.PreviousSnapshotID = previousID
	report.GeneratedAt = time.Now().UTC()
	return &report, nil
}

func (uc *IngestSnapshotUseCase) markError(ctx context.Context, logger port.LoggerPort, snapshotID uuid.UUID) {
	if err := uc.snapshots.MarkError(ctx, snapshotID); err != nil {
		logger.Error("Failed to mark snapshot as errored", err, nil)
	}
}
