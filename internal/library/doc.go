// Package library owns the DJ track library and builds playlists from it by
// cloning library tracks.
package library
