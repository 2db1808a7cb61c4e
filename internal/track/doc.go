// Package track provides the audio track value type used by the DJ cache,
// its two concrete formats (MP3 and WAV) and the single-owner Handle that
// moves tracks between the library, the cache and the decks.
package track
