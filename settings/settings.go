// Package settings holds REPL display settings.
package settings

import "axion/exprcore/exerr"

// Precision is the number of significant digits the REPL prints results
// with (the precision of a %g format).
var Precision = 6

// Set validates and updates Precision.
func Set(p int) error {
	if p < 0 || p > 20 {
		return exerr.New("precision must be between 0 and 20")
	}
	Precision = p
	return nil
}
