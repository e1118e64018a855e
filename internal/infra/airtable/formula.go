package airtable

import "strings"

// pendingFormula selects rows that have a URL but no Headline.
const pendingFormula = "AND({URL} != '', {Headline} = '')"

// urlFormula selects rows whose URL equals u exactly.
func urlFormula(u string) string {
	return "{URL} = '" + escapeFormulaString(u) + "'"
}

// escapeFormulaString escapes a value for use inside a single-quoted
// formula string literal.
func escapeFormulaString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return r.Replace(s)
}
