package persistence

import "strings"

// sortSpec whitelists the columns a listing may be ordered by. Anything the
// client sends outside the whitelist falls back to the listing's natural order,
// so filter input never reaches the SQL text.
type sortSpec struct {
	columns    []string
	defaultCol string
	defaultDir string
}

var (
	bookSort = sortSpec{
		columns:    []string{"id", "title", "author", "price", "stock_quantity", "created_at", "updated_at"},
		defaultCol: "title",
		defaultDir: "ASC",
	}
	orderSort = sortSpec{
		columns:    []string{"id", "order_date", "status", "total_amount", "created_at", "updated_at"},
		defaultCol: "order_date",
		defaultDir: "DESC",
	}
	ledgerSort = sortSpec{
		columns:    []string{"id", "timestamp_utc", "change_quantity", "reason"},
		defaultCol: "timestamp_utc",
		defaultDir: "DESC",
	}
)

func (s sortSpec) allows(col string) bool {
	for _, c := range s.columns {
		if c == col {
			return true
		}
	}
	return false
}

// clause renders the ORDER BY expression. Rows with equal sort keys are
// tie-broken by id so that offset pagination never repeats or skips a row.
func (s sortSpec) clause(orderBy, orderDir string) string {
	col := strings.TrimSpace(orderBy)
	if !s.allows(col) {
		col = s.defaultCol
	}

	dir := s.defaultDir
	switch strings.ToUpper(strings.TrimSpace(orderDir)) {
	case "ASC":
		dir = "ASC"
	case "DESC":
		dir = "DESC"
	}

	if col == "id" {
		return "id " + dir
	}
	return col + " " + dir + ", id " + dir
}
