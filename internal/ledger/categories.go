package ledger

import (
	"strings"

	"github.com/ledgerdesk-dev/ledgerdesk/internal/model"
)

// CategoryRegistry maps category names to the transaction type they are
// valid for. It replaces a stringly "category starts with type" convention
// with an explicit registration, keeping the same pass/fail behavior.
type CategoryRegistry struct {
	byName map[string]model.TransactionType
}

// NewCategoryRegistry creates an empty registry.
func NewCategoryRegistry() *CategoryRegistry {
	return &CategoryRegistry{byName: make(map[string]model.TransactionType)}
}

// Register adds a category for a transaction type. Re-registering a name
// overwrites its type.
func (r *CategoryRegistry) Register(name string, typ model.TransactionType) {
	r.byName[strings.ToLower(name)] = typ
}

// ValidFor reports whether the category is registered for the given type.
func (r *CategoryRegistry) ValidFor(name string, typ model.TransactionType) bool {
	got, ok := r.byName[strings.ToLower(name)]
	return ok && got == typ
}

// Names returns all registered category names for a type.
func (r *CategoryRegistry) Names(typ model.TransactionType) []string {
	var out []string
	for name, t := range r.byName {
		if t == typ {
			out = append(out, name)
		}
	}
	return out
}

// DefaultCategories returns a registry seeded with the standard back-office
// category set.
func DefaultCategories() *CategoryRegistry {
	r := NewCategoryRegistry()
	for _, name := range []string{"sales", "services", "interest", "rebates", "other_income"} {
		r.Register(name, model.TypeRevenue)
	}
	for _, name := range []string{
		"payroll", "rent", "utilities", "supplies", "software",
		"marketing", "professional_services", "taxes", "travel", "other_expense",
	} {
		r.Register(name, model.TypeExpense)
	}
	return r
}
