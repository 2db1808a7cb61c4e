// Package report turns a played playlist into a markdown report, renders it
// for the terminal and stores it as a compressed archive.
package report
