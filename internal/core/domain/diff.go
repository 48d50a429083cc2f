package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChangedProperty pairs a current record with the previous-snapshot record it
// matched on account number. StatusChanged/PercentageChanged come from the
// comparator; IsEscalation/IsCritical are assigned by the classifier.
type ChangedProperty struct {
	Current  DelinquentProperty `json:"current"`
	Previous DelinquentProperty `json:"previous"`

	PreviousStatus    PropertyStatus `json:"previous_status"`
	StatusChanged     bool           `json:"status_changed"`
	PercentageChanged bool           `json:"percentage_changed"`
	IsEscalation      bool           `json:"is_escalation"`
	IsCritical        bool           `json:"is_critical"`
}

// RemovedProperty is a record that disappeared between snapshots.
// PresumedDeadLead is set when no independent foreclosure/sale signal exists
// for the account; the inference only adds a classification, the record stays
// in the report either way.
type RemovedProperty struct {
	Property         DelinquentProperty `json:"property"`
	PresumedDeadLead bool               `json:"presumed_dead_lead"`
}

// NewProperty is a record absent from the previous snapshot. IsNewLead marks
// newly-appearing PENDING cases, the actionable lead pool.
type NewProperty struct {
	Property  DelinquentProperty `json:"property"`
	IsNewLead bool               `json:"is_new_lead"`
}

// SnapshotDiff is the total, disjoint partition of the account numbers of two
// snapshots. Every account in either input lands in exactly one group. Groups
// are sorted by account number, so identical inputs always produce the
// identical diff regardless of row order.
type SnapshotDiff struct {
	New       []DelinquentProperty
	Removed   []DelinquentProperty
	Unchanged []DelinquentProperty
	Changed   []ChangedProperty

	// Duplicate account numbers seen within one side. Data-quality signal,
	// resolved last-write-wins during map construction.
	DuplicateCurrent  []string
	DuplicatePrevious []string
}

// StatusTransition is one from->to bucket with its total count and a bounded
// sample of affected accounts.
type StatusTransition struct {
	From                 PropertyStatus `json:"from"`
	To                   PropertyStatus `json:"to"`
	Count                int            `json:"count"`
	SampleAccountNumbers []string       `json:"sample_account_numbers"`
}

// DiffSummary carries the untruncated totals. Sample lists in the report may
// be capped, the summary never is.
type DiffSummary struct {
	NewProperties       int `json:"new_properties"`
	RemovedProperties   int `json:"removed_properties"`
	UnchangedProperties int `json:"unchanged_properties"`
	StatusChanges       int `json:"status_changes"`
	PercentageChanges   int `json:"percentage_changes"`
	Escalations         int `json:"escalations"`
	CriticalChanges     int `json:"critical_changes"`
	NewLeads            int `json:"new_leads"`
	PresumedDeadLeads   int `json:"presumed_dead_leads"`
}

// DiffReport is the persisted outcome of comparing one snapshot against the
// most recent completed one. Immutable after creation. PreviousSnapshotID is
// nil for the very first ingestion, in which case everything is new and there
// are no transitions.
type DiffReport struct {
	ID                 uuid.UUID  `json:"id"`
	CurrentSnapshotID  uuid.UUID  `json:"current_snapshot_id"`
	PreviousSnapshotID *uuid.UUID `json:"previous_snapshot_id"`
	GeneratedAt        time.Time  `json:"generated_at"`

	Summary     DiffSummary        `json:"summary"`
	Transitions []StatusTransition `json:"transitions"`

	NewSample     []NewProperty     `json:"new_sample"`
	RemovedSample []RemovedProperty `json:"removed_sample"`
	ChangedSample []ChangedProperty `json:"changed_sample"`

	DuplicateAccounts []string `json:"duplicate_accounts"`
}
