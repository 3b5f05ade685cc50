// Package gat rewrites lifetime-generic associated types into auxiliary
// single-member traits, and rewrites qualified paths that refer to them.
//
// A trait such as
//
//	trait LendingIterator {
//	    type Item<'next> where Self: 'next;
//	}
//
// becomes an auxiliary trait `LendingIterator__Item<'next>` holding one
// associated type `T`, plus a `for<'next> LendingIterator__Item<'next>`
// supertrait on the original trait. Paths of the form
// `<I as LendingIterator>::Item<'a>` become
// `<I as LendingIterator__Item<'a>>::T`.
package gat

import "strings"

const (
	// Separator joins a trait name and an associated type name.
	Separator = "__"
	// AssocName is the single associated type of every auxiliary trait.
	AssocName = "T"
	// ImplicitBoundsParam is the defaulted type parameter that carries the
	// outlives requirements of an auxiliary trait.
	ImplicitBoundsParam = "__ImplicitBounds"
)

// AuxTraitName names the auxiliary trait standing for assoc in trait.
// Raw identifier prefixes are dropped since the joined name is never a
// keyword.
func AuxTraitName(trait, assoc string) string {
	return strings.TrimPrefix(trait, "r#") + Separator + strings.TrimPrefix(assoc, "r#")
}
