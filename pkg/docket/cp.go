package docket

import "github.com/coolbeans/recordscreen/pkg/crecord"

// ParseCPText parses the text of a Court of Common Pleas docket. The same
// grammar covers Municipal Court (MC) dockets. The returned errors are
// diagnostics, not failures: the parser always returns whatever it could
// determine, alongside an account of what it could not.
func ParseCPText(text string) (*crecord.Person, []*crecord.Case, []string) {
	person, personErrs := parsePerson(text)
	kase, caseErrs := parseCase(text)
	return person, []*crecord.Case{kase}, append(personErrs, caseErrs...)
}
