// Package mixer implements the two-deck mixing engine: tracks are cloned
// onto the inactive deck, optionally tempo-synced to the active one, and
// the decks are switched.
package mixer
