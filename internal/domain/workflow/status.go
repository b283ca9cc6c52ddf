package workflow

import "strings"

// Status is the canonical placement-pipeline status. Teachers and
// applications both move through it, tracked independently.
type Status string

const (
	StatusPending              Status = "pending"
	StatusDocumentVerification Status = "document_verification"
	StatusSchoolMatching       Status = "school_matching"
	StatusInterviewScheduled   Status = "interview_scheduled"
	StatusInterviewCompleted   Status = "interview_completed"
	StatusOfferExtended        Status = "offer_extended"
	StatusPlaced               Status = "placed"
	StatusDeclined             Status = "declined"
)

// ordered lists the forward progression. Declined sits outside the
// sequence and is reachable from any non-terminal status.
var ordered = []Status{
	StatusPending,
	StatusDocumentVerification,
	StatusSchoolMatching,
	StatusInterviewScheduled,
	StatusInterviewCompleted,
	StatusOfferExtended,
	StatusPlaced,
}

func Normalize(status Status) Status {
	return Status(strings.ToLower(strings.TrimSpace(string(status))))
}

func IsKnown(status Status) bool {
	if status == StatusDeclined {
		return true
	}
	return indexOf(status) >= 0
}

func IsTerminal(status Status) bool {
	return status == StatusPlaced || status == StatusDeclined
}

func indexOf(status Status) int {
	for i, s := range ordered {
		if s == status {
			return i
		}
	}
	return -1
}

// Rules controls how far a single transition may move forward.
// MaxSkip 1 allows only the next stage; admins may widen it per call
// when a business-rule override is required.
type Rules struct {
	MaxSkip int
}

func DefaultRules() Rules {
	return Rules{MaxSkip: 1}
}

// CanTransition reports whether to is reachable from from under the rules.
// Declined is reachable from any non-terminal status; forward moves are
// limited to MaxSkip stages; backward moves and terminal escapes are not
// allowed.
func (r Rules) CanTransition(from, to Status) bool {
	from = Normalize(from)
	to = Normalize(to)
	if !IsKnown(from) || !IsKnown(to) {
		return false
	}
	if IsTerminal(from) {
		return false
	}
	if to == StatusDeclined {
		return true
	}
	fromIdx := indexOf(from)
	toIdx := indexOf(to)
	if fromIdx < 0 || toIdx < 0 {
		return false
	}
	steps := toIdx - fromIdx
	maxSkip := r.MaxSkip
	if maxSkip < 1 {
		maxSkip = 1
	}
	return steps >= 1 && steps <= maxSkip
}

// Next returns the immediate forward status, or false when from has none.
func Next(from Status) (Status, bool) {
	idx := indexOf(Normalize(from))
	if idx < 0 || idx+1 >= len(ordered) {
		return "", false
	}
	return ordered[idx+1], true
}
