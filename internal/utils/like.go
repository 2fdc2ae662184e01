package utils

import "strings"

// LikeEscapeChar is the escape character used in LIKE patterns built by
// EscapeLike. It is not a backslash so the same pattern works on MySQL,
// PostgreSQL and SQLite without extra quoting.
const LikeEscapeChar = "!"

var likeReplacer = strings.NewReplacer(
	LikeEscapeChar, LikeEscapeChar+LikeEscapeChar,
	"%", LikeEscapeChar+"%",
	"_", LikeEscapeChar+"_",
)

// EscapeLike escapes LIKE wildcards in s so it matches literally.
func EscapeLike(s string) string {
	return likeReplacer.Replace(s)
}

// FoldCase lowercases s the same way for stored titles and search terms.
func FoldCase(s string) string {
	return strings.ToLower(s)
}
