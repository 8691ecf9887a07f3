// Package schema holds the literal table catalogs that get drawn.
package schema

import (
	"sort"

	"masterclass/schemagraph/internal/errs"
)

// Relationship is a foreign key from a child table to the table it references.
type Relationship struct {
	From string
	To   string
}

// Catalog is a named set of tables and the references between them.
type Catalog struct {
	Name          string
	Title         string
	Tables        []string
	Relationships []Relationship
}

// DefaultName is the catalog drawn when none is configured.
const DefaultName = "nginx"

var catalogs = map[string]Catalog{
	"nginx":      nginxCore,
	"nginx-full": nginxFull,
}

// Lookup returns the catalog registered under name.
func Lookup(name string) (Catalog, error) {
	c, ok := catalogs[name]
	if !ok {
		return Catalog{}, &errs.ConfigError{Field: "schema", Value: name, Reason: "unknown catalog"}
	}
	return c, nil
}

// Names returns the registered catalog names, sorted.
func Names() []string {
	names := make([]string, 0, len(catalogs))
	for name := range catalogs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
