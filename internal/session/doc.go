// Package session reads DJ session files: the track library, the playlists
// built from it and the cache and mixer settings used to play them.
package session
