// Package controller loads tracks into the deck cache and reports whether a
// load was a hit, a plain miss or a miss that evicted another track.
package controller
