// Package invoice turns the layout-preserving text of one vendor invoice page
// into structured line-item fields.
//
// The vendor prints labelled values separated by wide runs of spaces, so the
// parser works in three steps: locate the billable-items block between two
// anchor strings, cut it into column tokens on runs of two or more spaces and
// on line breaks, then read the fixed positional columns declared by an
// ItemSchema. Everything after the positional columns is free-text description.
package invoice
