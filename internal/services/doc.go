// Package services defines the Catalog interface for the external music
// metadata source and its TheAudioDB implementation.
//
// The catalog is the only network dependency of the application. Searches are
// bounded (a small fixed number of results per call, no pagination) and
// failures surface as errors so callers can distinguish "no results" from
// "search failed". There are no retries.
package services
