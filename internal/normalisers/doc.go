// Package normalisers contains format-specific content parsers. Each
// subpackage turns one raw wire format into the neutral fields the core
// works with, with no knowledge of where the content came from.
package normalisers
