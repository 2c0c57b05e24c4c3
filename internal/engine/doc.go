// Package engine holds the pure attendance planning logic: materializing a weekly
// timetable into dated class instances, and deriving attendance risk and daily
// digests from those instances.
//
// Nothing in this package reads the wall clock or performs I/O. Every operation
// that depends on the current moment takes it as an explicit now argument, so the
// same inputs always produce the same output.
package engine
