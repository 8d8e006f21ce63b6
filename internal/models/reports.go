package models

import "sort"

// ReasonCount is one rejection reason with its occurrence count.
type ReasonCount struct {
	Reason string `json:"reason"`
	Count  int    `json:"count"`
}

// TopReasons flattens a reason histogram into a descending top-N list.
// Ties break alphabetically so report output is deterministic.
func TopReasons(counts map[string]int, n int) []ReasonCount {
	out := make([]ReasonCount, 0, len(counts))
	for reason, count := range counts {
		out = append(out, ReasonCount{Reason: reason, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Reason < out[j].Reason
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// DebugStats is the classifier's reporting snapshot over a batch.
type DebugStats struct {
	Total         int             `json:"total"`
	Eligible      int             `json:"eligible"`
	Rejected      int             `json:"rejected"`
	TopRejections []ReasonCount   `json:"topRejections"`
	PetTypeCounts map[PetType]int `json:"petTypeCounts"`
}

// LockdownStatus is the approval gate's operational snapshot.
type LockdownStatus struct {
	Mode          string        `json:"mode"`
	Total         int           `json:"total"`
	Active        int           `json:"active"`
	Approved      int           `json:"approved"`
	NonPetActive  int           `json:"nonPetActive"`
	TopRejections []ReasonCount `json:"topRejections"`
}

// CleanupCandidate is one active product the cleanup job would
// deactivate. The job never mutates; deactivation is the caller's call.
type CleanupCandidate struct {
	ProductID string  `json:"productId"`
	Title     string  `json:"title"`
	Reason    string  `json:"reason"`
	Rule      string  `json:"rule"`
	PetType   PetType `json:"petType"`
}

// CleanupReport is the dry-run result of the cleanup job.
type CleanupReport struct {
	ActiveChecked int                `json:"activeChecked"`
	Candidates    []CleanupCandidate `json:"candidates"`
}

// MappingReport is the structural validation result for one canonical
// product. Errors make the record unusable; warnings are advisory.
type MappingReport struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Cart validation error codes map directly to transport statuses.
const (
	CartErrProductNotFound   = 404
	CartErrNoSupplierMapping = 409
	CartErrBadRequest        = 400
)

// CartValidation is the purchase-time re-validation result. ErrorCode is
// a transport-level status the HTTP layer forwards without re-deriving
// policy.
type CartValidation struct {
	Valid     bool   `json:"valid"`
	Error     string `json:"error,omitempty"`
	ErrorCode int    `json:"errorCode,omitempty"`
}

// RunStats accumulates per-run ingestion statistics.
type RunStats struct {
	Total           int             `json:"total"`
	Approved        int             `json:"approved"`
	Rejected        int             `json:"rejected"`
	StructuralError int             `json:"structuralErrors"`
	Stored          int             `json:"stored"`
	RejectionCounts map[string]int  `json:"rejectionCounts"`
	PetTypeCounts   map[PetType]int `json:"petTypeCounts"`
	DurationMS      int64           `json:"durationMs"`
}

// RunResult is the full outcome of one ingestion run.
type RunResult struct {
	Products []CanonicalProduct `json:"products"`
	Stats    RunStats           `json:"stats"`
}
