// Package repositories provides the SQLite persistence layer for the catalog
// search cache.
//
// [SearchCacheRepository] implements services.SearchCache: each (mode, term)
// query maps to one cache row plus its result tracks stored in order, with
// freshness enforced by a TTL at read time.
package repositories
