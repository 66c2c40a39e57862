package persistence

import "strings"

// TransactionSortFields are the sortable columns of the unified transaction view
var TransactionSortFields = map[string]bool{
	"created_at":  true,
	"resolved_at": true,
	"points":      true,
	"status":      true,
	"kind":        true,
}

// AuditSortFields are the sortable columns of the audit log
var AuditSortFields = map[string]bool{
	"created_at": true,
	"amount":     true,
	"action":     true,
}

// UserSortFields are the sortable columns of the admin user directory
var UserSortFields = map[string]bool{
	"created_at":     true,
	"username":       true,
	"total_coins":    true,
	"total_kg":       true,
	"coin_exchanged": true,
}

// ValidateSortOrder returns ASC only for an explicit "asc"; listings are
// newest-first otherwise.
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField if it is whitelisted and defaultField
// otherwise. The result is interpolated into ORDER BY, so nothing outside
// allowed may pass.
func ValidateSortField(sortField string, allowed map[string]bool, defaultField string) string {
	if f := strings.ToLower(strings.TrimSpace(sortField)); allowed[f] {
		return f
	}
	return defaultField
}
