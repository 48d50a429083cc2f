package diff

import (
	"sort"

	"github.com/rauljr10980/county-cad-tracker-sub005/internal/core/domain"
)

// DefaultSampleCap bounds the per-category sample lists in a report. Counts
// always reflect the untruncated totals.
const DefaultSampleCap = 100

// BuildReport classifies a snapshot diff into the business vocabulary:
// escalations (PENDING->ACTIVE), critical changes (ACTIVE->JUDGMENT), new
// leads (newly-appearing PENDING accounts) and presumptive dead leads
// (removed accounts with no independent foreclosure/sale signal). All other
// status transitions are recorded in the transition buckets without a special
// flag.
//
// foreclosed holds account numbers known to the external foreclosure/sale
// feed; removed accounts absent from it are conservatively presumed dead
// leads. Pure computation, no failure modes: an upstream missing snapshot
// degrades to an all-new diff, never to an error here.
func BuildReport(d domain.SnapshotDiff, foreclosed map[string]struct{}, sampleCap int) domain.DiffReport {
	if sampleCap <= 0 {
		sampleCap = DefaultSampleCap
	}

	report := domain.DiffReport{
		Transitions:       []domain.StatusTransition{},
		NewSample:         []domain.NewProperty{},
		RemovedSample:     []domain.RemovedProperty{},
		ChangedSample:     []domain.ChangedProperty{},
		DuplicateAccounts: mergeDuplicates(d.DuplicateCurrent, d.DuplicatePrevious),
	}
	report.Summary.NewProperties = len(d.New)
	report.Summary.RemovedProperties = len(d.Removed)
	report.Summary.UnchangedProperties = len(d.Unchanged)

	type transitionKey struct {
		from, to domain.PropertyStatus
	}
	buckets := make(map[transitionKey]*domain.StatusTransition)

	for _, ch := range d.Changed {
		if ch.PercentageChanged {
			report.Summary.PercentageChanges++
		}
		if ch.StatusChanged {
			report.Summary.StatusChanges++

			ch.IsEscalation = ch.PreviousStatus == domain.StatusPending && ch.Current.Status == domain.StatusActive
			ch.IsCritical = ch.PreviousStatus == domain.StatusActive && ch.Current.Status == domain.StatusJudgment
			if ch.IsEscalation {
				report.Summary.Escalations++
			}
			if ch.IsCritical {
				report.Summary.CriticalChanges++
			}

			key := transitionKey{from: ch.PreviousStatus, to: ch.Current.Status}
			bucket, ok := buckets[key]
			if !ok {
				bucket = &domain.StatusTransition{
					From:                 key.from,
					To:                   key.to,
					SampleAccountNumbers: []string{},
				}
				buckets[key] = bucket
			}
			bucket.Count++
			if len(bucket.SampleAccountNumbers) < sampleCap {
				bucket.SampleAccountNumbers = append(bucket.SampleAccountNumbers, ch.Current.AccountNumber)
			}
		}

		if len(report.ChangedSample) < sampleCap {
			report.ChangedSample = append(report.ChangedSample, ch)
		}
	}

	for _, rec := range d.New {
		entry := domain.NewProperty{
			Property:  rec,
			IsNewLead: rec.Status == domain.StatusPending,
		}
		if entry.IsNewLead {
			report.Summary.NewLeads++
		}
		if len(report.NewSample) < sampleCap {
			report.NewSample = append(report.NewSample, entry)
		}
	}

	for _, rec := range d.Removed {
		_, hasSignal := foreclosed[rec.AccountNumber]
		entry := domain.RemovedProperty{
			Property:         rec,
			PresumedDeadLead: !hasSignal,
		}
		if entry.PresumedDeadLead {
			report.Summary.PresumedDeadLeads++
		}
		if len(report.RemovedSample) < sampleCap {
			report.RemovedSample = append(report.RemovedSample, entry)
		}
	}

	for _, bucket := range buckets {
		report.Transitions = append(report.Transitions, *bucket)
	}
	sort.Slice(report.Transitions, func(i, j int) bool {
		if report.Transitions[i].From != report.Transitions[j].From {
			return report.Transitions[i].From < report.Transitions[j].From
		}
		return report.Transitions[i].To < report.Transitions[j].To
	})

	return report
}

func mergeDuplicates(current, previous []string) []string {
	set := make(map[string]struct{}, len(current)+len(previous))
	for _, a := range current {
		set[a] = struct{}{}
	}
	for _, a := range previous {
		set[a] = struct{}{}
	}
	merged := make([]string, 0, len(set))
	for a := range set {
		merged = append(merged, a)
	}
	sort.Strings(merged)
	return merged
}
