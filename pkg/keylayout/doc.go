// Package keylayout decides whether a hypothetical key placement inside a
// dungeon is consistent with the rules of the item distribution.
//
// Each dungeon owns one or more layout trees, each gated by a requirement
// describing a mutually exclusive configuration. A tree is a recursive
// constraint: every node checks a local counting predicate against a
// DungeonState probe and the per-location accessibility reported by an
// Oracle, and then requires that at least one child (if any) also holds.
//
// Trees are immutable once built and every evaluation is a pure function of
// its arguments, so one tree may be evaluated for many probes concurrently.
package keylayout
