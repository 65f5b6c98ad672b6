package postgres

import "fmt"

// TableNames holds dynamically prefixed table names
type TableNames struct {
	Folders   string
	Resources string
	Icons     string
}

// NewTableNames creates table names with the given prefix (dev_, test_, prod_).
// Interpolating the prefix into SQL is safe: it comes from configuration, never from requests.
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Folders:   fmt.Sprintf("%sfolders", prefix),
		Resources: fmt.Sprintf("%sresources", prefix),
		Icons:     fmt.Sprintf("%sdesktop_icons", prefix),
	}
}

// All returns every table, dependents first (drop order)
func (t *TableNames) All() []string {
	return []string{t.Icons, t.Resources, t.Folders}
}
