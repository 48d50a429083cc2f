package diff

import (
	"sort"

	"github.com/rauljr10980/county-cad-tracker-sub005/internal/core/domain"
)

// Compare partitions two snapshots' records into new / removed / unchanged /
// changed, keyed by account number. The partition is total and disjoint:
// every account in either input lands in exactly one group. A nil or empty
// previous snapshot short-circuits to all-new.
//
// Duplicate accounts within one side resolve last-write-wins during map
// construction and are reported in the diff as a data-quality signal.
// Hash-map joins keep this O(n+m); output groups are sorted by account number
// so identical inputs always yield the identical diff whatever the row order.
func Compare(current, previous []domain.DelinquentProperty) domain.SnapshotDiff {
	curMap, curDupes := buildIdentityMap(current)
	prevMap, prevDupes := buildIdentityMap(previous)

	d := domain.SnapshotDiff{
		New:               []domain.DelinquentProperty{},
		Removed:           []domain.DelinquentProperty{},
		Unchanged:         []domain.DelinquentProperty{},
		Changed:           []domain.ChangedProperty{},
		DuplicateCurrent:  curDupes,
		DuplicatePrevious: prevDupes,
	}

	for account, cur := range curMap {
		prev, existed := prevMap[account]
		if !existed {
			d.New = append(d.New, cur)
			continue
		}
		statusChanged := cur.Status != prev.Status
		// Exact equality, no epsilon: both sides were coerced from text by
		// the same path, so equal source text yields bit-equal floats.
		percentageChanged := cur.PercentageDue != prev.PercentageDue
		if !statusChanged && !percentageChanged {
			d.Unchanged = append(d.Unchanged, cur)
			continue
		}
		d.Changed = append(d.Changed, domain.ChangedProperty{
			Current:           cur,
			Previous:          prev,
			PreviousStatus:    prev.Status,
			StatusChanged:     statusChanged,
			PercentageChanged: percentageChanged,
		})
	}

	for account, prev := range prevMap {
		if _, stillPresent := curMap[account]; !stillPresent {
			d.Removed = append(d.Removed, prev)
		}
	}

	sortRecords(d.New)
	sortRecords(d.Removed)
	sortRecords(d.Unchanged)
	sort.Slice(d.Changed, func(i, j int) bool {
		return d.Changed[i].Current.AccountNumber < d.Changed[j].Current.AccountNumber
	})

	return d
}

// buildIdentityMap keys records by account number, last write wins. The
// returned duplicate list is sorted and deduplicated.
func buildIdentityMap(records []domain.DelinquentProperty) (map[string]domain.DelinquentProperty, []string) {
	m := make(map[string]domain.DelinquentProperty, len(records))
	dupeSet := make(map[string]struct{})
	for _, rec := range records {
		if _, seen := m[rec.AccountNumber]; seen {
			dupeSet[rec.AccountNumber] = struct{}{}
		}
		m[rec.AccountNumber] = rec
	}
	dupes := make([]string, 0, len(dupeSet))
	for account := range dupeSet {
		dupes = append(dupes, account)
	}
	sort.Strings(dupes)
	return m, dupes
}

func sortRecords(records []domain.DelinquentProperty) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].AccountNumber < records[j].AccountNumber
	})
}
