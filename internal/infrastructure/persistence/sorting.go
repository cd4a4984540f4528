package persistence

import (
	"slices"
	"strings"

	"github.com/adspace/backoffice/internal/domain/shared"
	"gorm.io/gorm"
)

// sortColumns whitelists the columns a listing may be ordered by. Anything
// else in a request falls back to def, so order clauses never carry user text.
type sortColumns struct {
	def     string
	allowed []string
}

func (s sortColumns) column(requested string) string {
	requested = strings.TrimSpace(requested)
	if slices.Contains(s.allowed, requested) {
		return requested
	}
	return s.def
}

// direction defaults to descending
func direction(dir string) string {
	if strings.EqualFold(strings.TrimSpace(dir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// page orders by the requested column (id breaks ties) and applies offset pagination
func (s sortColumns) page(query *gorm.DB, f shared.Filter) *gorm.DB {
	query = query.Order(s.column(f.OrderBy) + " " + direction(f.OrderDir)).Order("id ASC")
	if f.PageSize > 0 {
		query = query.Offset(f.Offset()).Limit(f.PageSize)
	}
	return query
}

// likePattern builds a case-insensitive substring pattern
func likePattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}

var (
	userSort           = sortColumns{def: "name", allowed: []string{"created_at", "updated_at", "email", "name", "role"}}
	counterpartySort   = sortColumns{def: "full_name", allowed: []string{"created_at", "updated_at", "full_name", "brand_name", "inn", "type"}}
	propertyObjectSort = sortColumns{def: "name", allowed: []string{"created_at", "updated_at", "name", "type", "location"}}
	contractSort       = sortColumns{def: "date", allowed: []string{"created_at", "updated_at", "number", "date", "status", "category"}}
	realizationSort    = sortColumns{def: "date", allowed: []string{
		"created_at", "updated_at", "date", "paid_amount", "payment_status", "source",
	}}
	paymentSort = sortColumns{def: "payment_date", allowed: []string{
		"created_at", "updated_at", "payment_date", "initial_amount", "unallocated_amount", "payment_type",
	}}
)
