// Package dj plays session playlists: every playlist track is loaded into
// the deck cache and then onto a deck, and each step is recorded.
package dj
