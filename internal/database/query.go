package database

import "strings"

// LikeEscape is the ESCAPE clause that goes with ContainsPattern.
const LikeEscape = `ESCAPE '\'`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern returns a LIKE pattern matching s anywhere in a column,
// with s's own wildcard characters escaped.
func ContainsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
