// Package pure memoizes pure functions.
//
// Tableize is not just a utility to add memoization.
// Tableize is a tool that *forces the developer to ask*:
//
//	→ "Is this function really pure?"
//	→ "Can this computation be treated as a lazy table?"
//
// The Tableize family wraps a function of one to three comparable arguments
// in a Table: one sticky.Value per distinct argument tuple, so each result is
// computed at most once even under concurrent callers. Tables never evict.
//
// WARNING: Do not use Tableize on impure functions (e.g., those depending on time, I/O, etc).
package pure
