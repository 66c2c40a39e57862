package exchange

import "strings"

// Status is the normalized, display-level state of any transaction.
// Every raw persisted status maps to exactly one Status through NormalizeStatus.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusSuccess    Status = "success"
	StatusCancelled  Status = "cancelled"
)

// AllStatuses returns the closed set of normalized statuses
func AllStatuses() []Status {
	return []Status{StatusPending, StatusProcessing, StatusSuccess, StatusCancelled}
}

// NormalizeStatus maps any raw status string to its normalized Status
func NormalizeStatus(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "validated", "completed", "berhasil", "success":
		return StatusSuccess
	case "rejected", "cancelled", "canceled", "dibatalkan":
		return StatusCancelled
	case "processing", "diproses":
		return StatusProcessing
	default:
		return StatusPending
	}
}

// ParseStatusFilter parses a user-supplied status filter.
// An empty string means no filter.
func ParseStatusFilter(raw string) (Status, bool) {
	if strings.TrimSpace(raw) == "" {
		return "", false
	}
	return NormalizeStatus(raw), true
}

// String returns the string representation
func (s Status) String() string {
	return string(s)
}

// Label returns the customer-facing label
func (s Status) Label() string {
	switch s {
	case StatusProcessing:
		return "Diproses"
	case StatusSuccess:
		return "Berhasil"
	case StatusCancelled:
		return "Dibatalkan"
	default:
		return "Pending"
	}
}

// IsTerminal reports whether no further transition is possible
func (s Status) IsTerminal() bool {
	return s == StatusSuccess || s == StatusCancelled
}

// Kind distinguishes deposits from withdrawals
type Kind string

const (
	KindDeposit    Kind = "deposit"
	KindWithdrawal Kind = "withdrawal"
)

// ParseKind parses a kind filter; an empty string means both kinds
func ParseKind(raw string) (Kind, bool) {
	switch Kind(strings.ToLower(strings.TrimSpace(raw))) {
	case KindDeposit:
		return KindDeposit, true
	case KindWithdrawal:
		return KindWithdrawal, true
	}
	return "", false
}

// RawStatuses returns the persisted status values of the given kind that
// normalize to s
func (s Status) RawStatuses(kind Kind) []string {
	var candidates []string
	switch kind {
	case KindDeposit:
		candidates = []string{
			string(DepositStatusPending), string(DepositStatusValidated), string(DepositStatusCancelled),
		}
	case KindWithdrawal:
		candidates = []string{
			string(WithdrawalStatusPending), string(WithdrawalStatusProcessing),
			string(WithdrawalStatusCompleted), string(WithdrawalStatusCancelled),
		}
	}
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if NormalizeStatus(c) == s {
			out = append(out, c)
		}
	}
	return out
}
