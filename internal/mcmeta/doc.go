// Package mcmeta builds the animation descriptor written next to a stacked
// image. The descriptor is a nested mapping:
//
//	{"animation":{"frametime":2,"height":16,"width":16}}
//
// Serialization is canonical JSON (sorted keys, no whitespace), so the same
// inputs always produce the same bytes.
package mcmeta
