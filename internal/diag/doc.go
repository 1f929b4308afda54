// Package diag defines the diagnostic model shared across the resolver's
// passes: a Severity/Code/Diagnostic data shape, a Reporter interface that
// decouples emission from storage, and a Bag that a driver can sort, dedup,
// and hand to a CLI for rendering.
//
// The resolver core is total (§4.7 of the design notes): it never raises an
// error-severity diagnostic for a name that failed to resolve, an import it
// could not find, or a base class it could not locate. Those are soft
// failures represented by nullable fields on the symbol table itself. Within
// the resolver, diag carries advisory warnings only — duplicate
// declarations, shadowing, an unresolved wildcard import or base class —
// which a caller may choose to print, log, or ignore; the lexer and parser
// report malformed input through it at error severity.
package diag
