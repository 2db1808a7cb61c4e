// Package cache provides the fixed-capacity LRU cache that holds prepared
// tracks for the decks. Entries live in a slot array; lookups and eviction
// are linear scans, which keeps eviction order exact for the small
// capacities a DJ deck cache uses.
package cache
