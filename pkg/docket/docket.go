package docket

import (
	"strings"

	"github.com/coolbeans/recordscreen/pkg/crecord"
)

// ParseFunc parses extracted docket text into a defendant and cases, with
// diagnostics for anything that could not be read.
type ParseFunc func(text string) (*crecord.Person, []*crecord.Case, []string)

// ParserFor picks the parser matching a docket number. Common Pleas and
// Municipal Court dockets share a grammar; magisterial district (MJ)
// dockets have their own. Returns nil when the docket number fits neither.
func ParserFor(docketNumber string) ParseFunc {
	switch {
	case strings.Contains(docketNumber, "CP") || strings.Contains(docketNumber, "MC"):
		return ParseCPText
	case strings.Contains(docketNumber, "MJ"):
		return ParseMDJText
	default:
		return nil
	}
}
