// Package validator implements the single oracle every sampler in this
// repository calls on each candidate configuration: structural validation
// of a ConfigurationNode tree against a CFM's cardinalities, plus
// cross-tree constraint checking over global feature counts.
//
// Validate never returns an error — a false result is the only failure
// signal (spec §4.1, §7). Anything that would otherwise be a programmer
// error (a nil CFM, a nil root) also resolves to false rather than a
// panic, because samplers call Validate in tight retry loops and cannot
// afford to recover from panics there.
package validator
