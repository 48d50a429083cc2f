package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rauljr10980/county-cad-tracker-sub005/internal/core/domain"
	"github.com/rauljr10980/county-cad-tracker-sub005/internal/core/port"
)

type fakeSource struct {
	headers []string
	rows    []domain.RawRow
	err     error
}

func (s *fakeSource) ReadAll(ctx context.Context) ([]string, []domain.RawRow, error) {
	return s.headers, s.rows, s.err
}

type fakeSnapshotStorage struct {
	snapshots map[uuid.UUID]*domain.Snapshot
	records   map[uuid.UUID][]domain.DelinquentProperty
	order     []uuid.UUID

	saveRecordsErr   error
	markCompletedErr error
}

func newFakeSnapshotStorage() *fakeSnapshotStorage {
	return &fakeSnapshotStorage{
		snapshots: make(map[uuid.UUID]*domain.Snapshot),
		records:   make(map[uuid.UUID][]domain.DelinquentProperty),
	}
}

func (f *fakeSnapshotStorage) CreateSnapshot(ctx context.Context, source string) (domain.Snapshot, error) {
	s := domain.Snapshot{
		ID:         uuid.New(),
		Source:     source,
		Status:     domain.SnapshotProcessing,
		IngestedAt: time.Now().UTC(),
	}
	f.snapshots[s.ID] = &s
	f.order = append(f.order, s.ID)
	return s, nil
}

func (f *fakeSnapshotStorage) SaveRecords(ctx context.Context, snapshotID uuid.UUID, records []domain.DelinquentProperty) error {
	if f.saveRecordsErr != nil {
		return f.saveRecordsErr
	}
	f.records[snapshotID] = records
	return nil
}

func (f *fakeSnapshotStorage) MarkCompleted(ctx context.Context, snapshotID uuid.UUID, recordCount int) error {
	if f.markCompletedErr != nil {
		return f.markCompletedErr
	}
	f.snapshots[snapshotID].Status = domain.SnapshotCompleted
	f.snapshots[snapshotID].RecordCount = recordCount
	return nil
}

func (f *fakeSnapshotStorage) MarkError(ctx context.Context, snapshotID uuid.UUID) error {
	f.snapshots[snapshotID].Status = domain.SnapshotError
	return nil
}

func (f *fakeSnapshotStorage) LatestCompleted(ctx context.Context, excludeID uuid.UUID) (*domain.Snapshot, error) {
	for i := len(f.order) - 1; i >= 0; i-- {
		id := f.order[i]
		if id == excludeID {
			continue
		}
		if f.snapshots[id].Status == domain.SnapshotCompleted {
			s := *f.snapshots[id]
			return &s, nil
		}
	}
	return nil, nil
}

func (f *fakeSnapshotStorage) RecordsOf(ctx context.Context, snapshotID uuid.UUID) ([]domain.DelinquentProperty, error) {
	return f.records[snapshotID], nil
}

func (f *fakeSnapshotStorage) ListSnapshots(ctx context.Context, limit int) ([]domain.Snapshot, error) {
	var out []domain.Snapshot
	for i := len(f.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, *f.snapshots[f.order[i]])
	}
	return out, nil
}

type fakeReportStorage struct {
	reports []domain.DiffReport
	saveErr error
}

func (f *fakeReportStorage) SaveReport(ctx context.Context, report domain.DiffReport) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.reports = append(f.reports, report)
	return nil
}

func (f *fakeReportStorage) ReportForSnapshot(ctx context.Context, snapshotID uuid.UUID) (*domain.DiffReport, error) {
	for i := range f.reports {
		if f.reports[i].CurrentSnapshotID == snapshotID {
			return &f.reports[i], nil
		}
	}
	return nil, nil
}

func (f *fakeReportStorage) LatestReport(ctx context.Context) (*domain.DiffReport, error) {
	if len(f.reports) == 0 {
		return nil, nil
	}
	return &f.reports[len(f.reports)-1], nil
}

type fakeForeclosureSignal struct {
	known map[string]struct{}
}

func (f *fakeForeclosureSignal) KnownForeclosures(ctx context.Context, accounts []string) (map[string]struct{}, error) {
	out := make(map[string]struct{})
	for _, a := range accounts {
		if _, ok := f.known[a]; ok {
			out[a] = struct{}{}
		}
	}
	return out, nil
}

type fakeEvents struct {
	published []port.ReportReadyEvent
	err       error
}

func (f *fakeEvents) PublishReportReady(ctx context.Context, event port.ReportReadyEvent) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, event)
	return nil
}

func exportSource(rows ...[]string) *fakeSource {
	headers := []string{"CAN", "OWNER NAME", "ADDRSTRING", "LEGALSTATUS", "TOT_PERCAN"}
	raw := make([]domain.RawRow, len(rows))
	for i, cells := range rows {
		m := make(map[string]string, len(headers))
		for j, h := range headers {
			if j < len(cells) {
				m[h] = cells[j]
			}
		}
		raw[i] = domain.RawRow{Headers: headers, Cells: m}
	}
	return &fakeSource{headers: headers, rows: raw}
}

func TestIngestSnapshot_FirstIngestionIsAllNew(t *testing.T) {
	snapshots := newFakeSnapshotStorage()
	reports := &fakeReportStorage{}
	events := &fakeEvents{}
	uc := NewIngestSnapshotUseCase(snapshots, reports, &fakeForeclosureSignal{}, events, 0)

	source := exportSource(
		[]string{"100500", "Jane Doe", "123 Oak St", "PENDING LAWSUIT", "12.5"},
		[]string{"100501", "John Roe", "125 Oak St", "ACTIVE LAWSUIT", "50"},
	)

	snapshotID, err := uc.Execute(context.Background(), source, "export-2026-08.xlsx")
	require.NoError(t, err)

	assert.Equal(t, domain.SnapshotCompleted, snapshots.snapshots[snapshotID].Status)
	assert.Equal(t, 2, snapshots.snapshots[snapshotID].RecordCount)

	require.Len(t, reports.reports, 1)
	report := reports.reports[0]
	assert.Equal(t, snapshotID, report.CurrentSnapshotID)
	assert.Nil(t, report.PreviousSnapshotID)
	assert.Equal(t, 2, report.Summary.NewProperties)
	assert.Equal(t, 1, report.Summary.NewLeads) // only the PENDING account
	assert.Empty(t, report.Transitions)

	require.Len(t, events.published, 1)
	assert.Equal(t, report.ID.String(), events.published[0].ReportID)
}

func TestIngestSnapshot_SecondIngestionComparesAgainstPrevious(t *testing.T) {
	snapshots := newFakeSnapshotStorage()
	reports := &fakeReportStorage{}
	uc := NewIngestSnapshotUseCase(snapshots, reports, &fakeForeclosureSignal{}, &fakeEvents{}, 0)

	first := exportSource(
		[]string{"100", "Jane Doe", "1 Oak St", "PENDING", "10"},
		[]string{"777", "Old Owner", "7 Elm St", "ACTIVE", "99"},
	)
	firstID, err := uc.Execute(context.Background(), first, "week1.csv")
	require.NoError(t, err)

	second := exportSource(
		[]string{"100", "Jane Doe", "1 Oak St", "ACTIVE", "10"},  // escalated
		[]string{"200", "New Owner", "2 Oak St", "PENDING", "5"}, // new lead
	)
	secondID, err := uc.Execute(context.Background(), second, "week2.csv")
	require.NoError(t, err)

	require.Len(t, reports.reports, 2)
	report := reports.reports[1]

	require.NotNil(t, report.PreviousSnapshotID)
	assert.Equal(t, firstID, *report.PreviousSnapshotID)
	assert.Equal(t, secondID, report.CurrentSnapshotID)

	assert.Equal(t, 1, report.Summary.NewProperties)
	assert.Equal(t, 1, report.Summary.NewLeads)
	assert.Equal(t, 1, report.Summary.RemovedProperties)
	assert.Equal(t, 1, report.Summary.PresumedDeadLeads) // 777 has no sale signal
	assert.Equal(t, 1, report.Summary.StatusChanges)
	assert.Equal(t, 1, report.Summary.Escalations)

	require.Len(t, report.Transitions, 1)
	assert.Equal(t, domain.StatusPending, report.Transitions[0].From)
	assert.Equal(t, domain.StatusActive, report.Transitions[0].To)
}

func TestIngestSnapshot_ForeclosureSignalSuppressesDeadLead(t *testing.T) {
	snapshots := newFakeSnapshotStorage()
	reports := &fakeReportStorage{}
	foreclosures := &fakeForeclosureSignal{known: map[string]struct{}{"777": {}}}
	uc := NewIngestSnapshotUseCase(snapshots, reports, foreclosures, &fakeEvents{}, 0)

	first := exportSource([]string{"777", "Old Owner", "7 Elm St", "JUDGMENT", "99"})
	_, err := uc.Execute(context.Background(), first, "week1.csv")
	require.NoError(t, err)

	second := exportSource([]string{"100", "Jane Doe", "1 Oak St", "PENDING", "10"})
	_, err = uc.Execute(context.Background(), second, "week2.csv")
	require.NoError(t, err)

	report := reports.reports[1]
	assert.Equal(t, 1, report.Summary.RemovedProperties)
	assert.Equal(t, 0, report.Summary.PresumedDeadLeads)
	require.Len(t, report.RemovedSample, 1)
	assert.False(t, report.RemovedSample[0].PresumedDeadLead)
}

func TestIngestSnapshot_SourceReadFailure(t *testing.T) {
	snapshots := newFakeSnapshotStorage()
	uc := NewIngestSnapshotUseCase(snapshots, &fakeReportStorage{}, &fakeForeclosureSignal{}, &fakeEvents{}, 0)

	source := &fakeSource{err: errors.New("corrupt file")}

	_, err := uc.Execute(context.Background(), source, "broken.xlsx")
	require.Error(t, err)
	assert.Empty(t, snapshots.snapshots) // nothing persisted
}

func TestIngestSnapshot_SaveFailureMarksSnapshotErrored(t *testing.T) {
	snapshots := newFakeSnapshotStorage()
	snapshots.saveRecordsErr = errors.New("disk full")
	uc := NewIngestSnapshotUseCase(snapshots, &fakeReportStorage{}, &fakeForeclosureSignal{}, &fakeEvents{}, 0)

	source := exportSource([]string{"100", "Jane Doe", "1 Oak St", "PENDING", "10"})

	snapshotID, err := uc.Execute(context.Background(), source, "week1.csv")
	require.Error(t, err)
	assert.Equal(t, domain.SnapshotError, snapshots.snapshots[snapshotID].Status)
}

func TestIngestSnapshot_ErroredSnapshotNeverBecomesBaseline(t *testing.T) {
	snapshots := newFakeSnapshotStorage()
	reports := &fakeReportStorage{}
	uc := NewIngestSnapshotUseCase(snapshots, reports, &fakeForeclosureSignal{}, &fakeEvents{}, 0)

	good := exportSource([]string{"100", "Jane Doe", "1 Oak St", "PENDING", "10"})
	goodID, err := uc.Execute(context.Background(), good, "week1.csv")
	require.NoError(t, err)

	snapshots.saveRecordsErr = errors.New("disk full")
	bad := exportSource([]string{"999", "Nobody", "9 Bad St", "PENDING", "1"})
	_, err = uc.Execute(context.Background(), bad, "week2.csv")
	require.Error(t, err)
	snapshots.saveRecordsErr = nil

	next := exportSource([]string{"100", "Jane Doe", "1 Oak St", "PENDING", "10"})
	_, err = uc.Execute(context.Background(), next, "week3.csv")
	require.NoError(t, err)

	// week3 compares against week1, skipping the errored week2 snapshot.
	report := reports.reports[len(reports.reports)-1]
	require.NotNil(t, report.PreviousSnapshotID)
	assert.Equal(t, goodID, *report.PreviousSnapshotID)
	assert.Equal(t, 1, report.Summary.UnchangedProperties)
}

func TestIngestSnapshot_PublishFailureDoesNotFailIngestion(t *testing.T) {
	snapshots := newFakeSnapshotStorage()
	events := &fakeEvents{err: errors.New("broker down")}
	uc := NewIngestSnapshotUseCase(snapshots, &fakeReportStorage{}, &fakeForeclosureSignal{}, events, 0)

	source := exportSource([]string{"100", "Jane Doe", "1 Oak St", "PENDING", "10"})

	snapshotID, err := uc.Execute(context.Background(), source, "week1.csv")
	require.NoError(t, err)
	assert.Equal(t, domain.SnapshotCompleted, snapshots.snapshots[snapshotID].Status)
}
