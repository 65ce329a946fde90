package domain

import (
	"sort"
	"time"
)

// Note is a user-owned record. The id is assigned by the contract; a note
// that has been submitted but not yet confirmed has no id.
type Note struct {
	ID        uint64
	Title     string
	Content   string
	UpdatedAt time.Time
}

// NoteSummary is one row of the cached list projection. The list is for
// display only and may lag confirmed writes.
type NoteSummary struct {
	ID        uint64
	Title     string
	UpdatedAt time.Time
}

// SortSummaries orders most recent first, ties broken by id descending.
func SortSummaries(summaries []NoteSummary) {
	sort.SliceStable(summaries, func(i, j int) bool {
		if !summaries[i].UpdatedAt.Equal(summaries[j].UpdatedAt) {
			return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
		}
		return summaries[i].ID > summaries[j].ID
	})
}

type WriteOperation string

const (
	WriteCreate WriteOperation = "create"
	WriteUpdate WriteOperation = "update"
	WriteDelete WriteOperation = "delete"
)

// PendingTargetNew is the synthetic target id for a create that has no
// contract-assigned id yet. At most one write per target may be in flight.
const PendingTargetNew int64 = -1

// PendingWrite tracks one in-flight mutating call from dispatch acceptance
// until its confirmation is observed.
type PendingWrite struct {
	Operation   WriteOperation
	TargetID    int64
	SubmittedAt time.Time
}

// Draft holds unsent note text so a failed save or an interrupted edit does
// not lose the user's work. TargetID follows PendingWrite conventions.
type Draft struct {
	Account  string
	TargetID int64
	Title    string
	Content  string
	SavedAt  time.Time
}
