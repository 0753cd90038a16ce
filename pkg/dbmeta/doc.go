// Package dbmeta exposes entity metadata derived from gorm model
// definitions: table names, string column length limits, and the maximum
// values representable by decimal columns.
//
// Results are memoized process-wide, keyed by entity type. The caches are
// lazily populated and never evicted; model definitions do not change at
// runtime.
package dbmeta
