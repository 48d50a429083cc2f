package diff

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rauljr10980/county-cad-tracker-sub005/internal/core/domain"
)

func changed(account string, from, to domain.PropertyStatus) domain.ChangedProperty {
	return domain.ChangedProperty{
		Current:        prop(account, to, 1),
		Previous:       prop(account, from, 1),
		PreviousStatus: from,
		StatusChanged:  from != to,
	}
}

func TestBuildReport_EscalationAndCriticalFlags(t *testing.T) {
	d := domain.SnapshotDiff{
		Changed: []domain.ChangedProperty{
			changed("1", domain.StatusPending, domain.StatusActive),
			changed("2", domain.StatusActive, domain.StatusJudgment),
			changed("3", domain.StatusPending, domain.StatusJudgment),
		},
	}

	report := BuildReport(d, nil, 0)

	assert.Equal(t, 3, report.Summary.StatusChanges)
	assert.Equal(t, 1, report.Summary.Escalations)
	assert.Equal(t, 1, report.Summary.CriticalChanges)

	require.Len(t, report.ChangedSample, 3)
	assert.True(t, report.ChangedSample[0].IsEscalation)
	assert.False(t, report.ChangedSample[0].IsCritical)
	assert.True(t, report.ChangedSample[1].IsCritical)
	// PENDING -> JUDGMENT is neither an escalation nor critical; it still
	// lands in a transition bucket.
	assert.False(t, report.ChangedSample[2].IsEscalation)
	assert.False(t, report.ChangedSample[2].IsCritical)
}

func TestBuildReport_TransitionBucketsSortedAndCounted(t *testing.T) {
	d := domain.SnapshotDiff{
		Changed: []domain.ChangedProperty{
			changed("10", domain.StatusPending, domain.StatusActive),
			changed("11", domain.StatusPending, domain.StatusActive),
			changed("12", domain.StatusActive, domain.StatusJudgment),
			changed("13", domain.StatusUnknown, domain.StatusPending),
		},
	}

	report := BuildReport(d, nil, 0)

	require.Len(t, report.Transitions, 3)
	// Sorted by (From, To): ACTIVE < PENDING < UNKNOWN.
	assert.Equal(t, domain.StatusActive, report.Transitions[0].From)
	assert.Equal(t, domain.StatusJudgment, report.Transitions[0].To)
	assert.Equal(t, 1, report.Transitions[0].Count)

	assert.Equal(t, domain.StatusPending, report.Transitions[1].From)
	assert.Equal(t, domain.StatusActive, report.Transitions[1].To)
	assert.Equal(t, 2, report.Transitions[1].Count)
	assert.Equal(t, []string{"10", "11"}, report.Transitions[1].SampleAccountNumbers)

	assert.Equal(t, domain.StatusUnknown, report.Transitions[2].From)
	assert.Equal(t, domain.StatusPending, report.Transitions[2].To)
}

func TestBuildReport_PercentageOnlyChangeHasNoTransition(t *testing.T) {
	ch := domain.ChangedProperty{
		Current:           prop("1", domain.StatusPending, 15),
		Previous:          prop("1", domain.StatusPending, 10),
		PreviousStatus:    domain.StatusPending,
		PercentageChanged: true,
	}
	d := domain.SnapshotDiff{Changed: []domain.ChangedProperty{ch}}

	report := BuildReport(d, nil, 0)

	assert.Equal(t, 1, report.Summary.PercentageChanges)
	assert.Equal(t, 0, report.Summary.StatusChanges)
	assert.Empty(t, report.Transitions)
}

func TestBuildReport_NewLeadsAndDeadLeads(t *testing.T) {
	d := domain.SnapshotDiff{
		New: []domain.DelinquentProperty{
			prop("1", domain.StatusPending, 1),
			prop("2", domain.StatusActive, 1),
		},
		Removed: []domain.DelinquentProperty{
			prop("3", domain.StatusActive, 1),
			prop("4", domain.StatusJudgment, 1),
		},
	}
	foreclosed := map[string]struct{}{"4": {}}

	report := BuildReport(d, foreclosed, 0)

	assert.Equal(t, 2, report.Summary.NewProperties)
	assert.Equal(t, 1, report.Summary.NewLeads)
	require.Len(t, report.NewSample, 2)
	assert.True(t, report.NewSample[0].IsNewLead)
	assert.False(t, report.NewSample[1].IsNewLead)

	assert.Equal(t, 2, report.Summary.RemovedProperties)
	assert.Equal(t, 1, report.Summary.PresumedDeadLeads)
	require.Len(t, report.RemovedSample, 2)
	assert.True(t, report.RemovedSample[0].PresumedDeadLead)  // no sale signal
	assert.False(t, report.RemovedSample[1].PresumedDeadLead) // known foreclosure
}

func TestBuildReport_SampleCapBoundsListsNotCounts(t *testing.T) {
	var newRecords []domain.DelinquentProperty
	for i := 0; i < 250; i++ {
		newRecords = append(newRecords, prop(fmt.Sprintf("%04d", i), domain.StatusPending, 1))
	}
	d := domain.SnapshotDiff{New: newRecords}

	report := BuildReport(d, nil, 100)

	assert.Equal(t, 250, report.Summary.NewProperties)
	assert.Equal(t, 250, report.Summary.NewLeads)
	assert.Len(t, report.NewSample, 100)
}

func TestBuildReport_MergesDuplicateAccounts(t *testing.T) {
	d := domain.SnapshotDiff{
		DuplicateCurrent:  []string{"b", "a"},
		DuplicatePrevious: []string{"c", "a"},
	}

	report := BuildReport(d, nil, 0)

	assert.Equal(t, []string{"a", "b", "c"}, report.DuplicateAccounts)
}

func TestBuildReport_EmptyDiff(t *testing.T) {
	report := BuildReport(domain.SnapshotDiff{}, nil, 0)

	assert.Equal(t, domain.DiffSummary{}, report.Summary)
	assert.Empty(t, report.Transitions)
	assert.Empty(t, report.NewSample)
	assert.Empty(t, report.RemovedSample)
	assert.Empty(t, report.ChangedSample)
	assert.Empty(t, report.DuplicateAccounts)
}
