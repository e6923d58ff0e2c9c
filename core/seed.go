package core

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	seedQueryPrefix   = "USER_QUERY: "
	seedSessionPrefix = "SESSION_ID: "
)

// ComposeSeed renders the opening message of a conversation. The query is
// quoted so multi-line user input survives the line-oriented format.
func ComposeSeed(query, sessionID string) string {
	return fmt.Sprintf("%s%s\n%s%s", seedQueryPrefix, strconv.Quote(query), seedSessionPrefix, sessionID)
}

// ParseSeed recovers the query and session identifier from a seed message.
// ok is false when content is not a seed.
func ParseSeed(content string) (query, sessionID string, ok bool) {
	lines := strings.Split(content, "\n")
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, seedQueryPrefix):
			raw := strings.TrimPrefix(line, seedQueryPrefix)
			if q, err := strconv.Unquote(raw); err == nil {
				query = q
			} else {
				query = raw
			}
		case strings.HasPrefix(line, seedSessionPrefix):
			sessionID = strings.TrimPrefix(line, seedSessionPrefix)
		}
	}
	return query, sessionID, query != "" && sessionID != ""
}

// IsSeed reports whether content looks like a conversation seed.
func IsSeed(content string) bool {
	return strings.Contains(content, seedQueryPrefix) || strings.Contains(content, seedSessionPrefix)
}
