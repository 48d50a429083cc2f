package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rauljr10980/county-cad-tracker-sub005/internal/core/domain"
)

func prop(account string, status domain.PropertyStatus, pct float64) domain.DelinquentProperty {
	return domain.DelinquentProperty{
		AccountNumber:   account,
		OwnerName:       "Owner " + account,
		PropertyAddress: account + " Main St",
		Status:          status,
		PercentageDue:   pct,
		Exemptions:      []string{},
		Jurisdictions:   []string{},
	}
}

func TestCompare_PartitionIsTotalAndDisjoint(t *testing.T) {
	current := []domain.DelinquentProperty{
		prop("100", domain.StatusPending, 10),
		prop("200", domain.StatusActive, 20),
		prop("300", domain.StatusPending, 30),
	}
	previous := []domain.DelinquentProperty{
		prop("200", domain.StatusPending, 20),
		prop("300", domain.StatusPending, 30),
		prop("777", domain.StatusActive, 5),
	}

	d := Compare(current, previous)

	require.Len(t, d.New, 1)
	assert.Equal(t, "100", d.New[0].AccountNumber)

	require.Len(t, d.Removed, 1)
	assert.Equal(t, "777", d.Removed[0].AccountNumber)

	require.Len(t, d.Changed, 1)
	assert.Equal(t, "200", d.Changed[0].Current.AccountNumber)
	assert.True(t, d.Changed[0].StatusChanged)
	assert.False(t, d.Changed[0].PercentageChanged)
	assert.Equal(t, domain.StatusPending, d.Changed[0].PreviousStatus)

	require.Len(t, d.Unchanged, 1)
	assert.Equal(t, "300", d.Unchanged[0].AccountNumber)

	// Every account lands in exactly one group.
	total := len(d.New) + len(d.Removed) + len(d.Changed) + len(d.Unchanged)
	assert.Equal(t, 4, total)
}

func TestCompare_OrderIndependence(t *testing.T) {
	a := []domain.DelinquentProperty{
		prop("1", domain.StatusPending, 1),
		prop("2", domain.StatusActive, 2),
		prop("3", domain.StatusJudgment, 3),
	}
	b := []domain.DelinquentProperty{
		prop("3", domain.StatusPending, 3),
		prop("1", domain.StatusPending, 9),
	}

	forward := Compare(a, b)

	aShuffled := []domain.DelinquentProperty{a[2], a[0], a[1]}
	bShuffled := []domain.DelinquentProperty{b[1], b[0]}
	shuffled := Compare(aShuffled, bShuffled)

	assert.Equal(t, forward, shuffled)
}

func TestCompare_PercentageUsesExactEquality(t *testing.T) {
	current := []domain.DelinquentProperty{prop("1", domain.StatusPending, 12.5)}
	previous := []domain.DelinquentProperty{prop("1", domain.StatusPending, 12.500001)}

	d := Compare(current, previous)

	require.Len(t, d.Changed, 1)
	assert.True(t, d.Changed[0].PercentageChanged)
	assert.False(t, d.Changed[0].StatusChanged)
}

func TestCompare_EmptyPreviousIsAllNew(t *testing.T) {
	current := []domain.DelinquentProperty{
		prop("2", domain.StatusActive, 2),
		prop("1", domain.StatusPending, 1),
	}

	d := Compare(current, nil)

	require.Len(t, d.New, 2)
	// Sorted by account number regardless of input order.
	assert.Equal(t, "1", d.New[0].AccountNumber)
	assert.Equal(t, "2", d.New[1].AccountNumber)
	assert.Empty(t, d.Removed)
	assert.Empty(t, d.Changed)
	assert.Empty(t, d.Unchanged)
}

func TestCompare_DuplicatesLastWriteWins(t *testing.T) {
	current := []domain.DelinquentProperty{
		prop("1", domain.StatusPending, 1),
		prop("1", domain.StatusActive, 2), // later row wins
	}
	previous := []domain.DelinquentProperty{
		prop("1", domain.StatusPending, 1),
	}

	d := Compare(current, previous)

	assert.Equal(t, []string{"1"}, d.DuplicateCurrent)
	assert.Empty(t, d.DuplicatePrevious)

	require.Len(t, d.Changed, 1)
	assert.Equal(t, domain.StatusActive, d.Changed[0].Current.Status)
	assert.Equal(t, 2.0, d.Changed[0].Current.PercentageDue)
}

func TestCompare_BothSidesEmpty(t *testing.T) {
	d := Compare(nil, nil)

	assert.Empty(t, d.New)
	assert.Empty(t, d.Removed)
	assert.Empty(t, d.Changed)
	assert.Empty(t, d.Unchanged)
	assert.Empty(t, d.DuplicateCurrent)
	assert.Empty(t, d.DuplicatePrevious)
}
