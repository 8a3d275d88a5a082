package docket

import (
	"regexp"
	"strings"

	"github.com/coolbeans/recordscreen/pkg/crecord"
	"github.com/coolbeans/recordscreen/pkg/parse"
)

var (
	defendantNamePattern = regexp.MustCompile(`(?m)^Defendant\s+(?P<last_name>.*), (?P<first_name>.*)`)
	dateOfBirthPattern   = regexp.MustCompile(`Date Of Birth:?\s+(?P<date_of_birth>\d{1,2}/\d{1,2}/\d{4})`)
	defendantInfoPattern = regexp.MustCompile(`(?s)DEFENDANT INFORMATION(?P<defendant_info>.*?)CASE PARTICIPANTS`)
	aliasPattern         = regexp.MustCompile(`Alias Name\s*\n+(?P<aliases>(?:.+\s*\n*)*)`)
	addressPattern       = regexp.MustCompile(`City/State/Zip:\s*(?P<addr>.*)`)
)

// parsePerson extracts the defendant from a CP docket: name from the
// caption, date of birth, and aliases/address from the DEFENDANT
// INFORMATION section (which runs up to the CASE PARTICIPANTS header).
func parsePerson(text string) (*crecord.Person, []string) {
	person := &crecord.Person{}
	var errs []string

	name, nameErrs := parse.FindPattern("defendant_name", defendantNamePattern, text)
	if name != nil {
		person.FirstName = strings.TrimSpace(name.Group("first_name"))
		person.LastName = strings.TrimSpace(name.Group("last_name"))
	} else {
		errs = append(errs, nameErrs...)
	}

	dob, dobErrs := parse.FindPattern("date_of_birth", dateOfBirthPattern, text)
	if dob != nil {
		person.DateOfBirth = parse.DateOrNil(dob.Group("date_of_birth"))
	} else {
		errs = append(errs, dobErrs...)
	}

	info, infoErrs := parse.FindPattern("defendant_info", defendantInfoPattern, text)
	if info == nil {
		errs = append(errs, infoErrs...)
		return person, errs
	}
	infoText := info.Group("defendant_info")

	aliases, aliasErrs := parse.FindPattern("aliases", aliasPattern, infoText)
	if aliases != nil {
		for _, a := range strings.Split(aliases.Group("aliases"), "\n") {
			a = strings.TrimSpace(a)
			if a != "" {
				person.Aliases = append(person.Aliases, a)
			}
		}
	} else {
		errs = append(errs, aliasErrs...)
	}

	addr, addrErrs := parse.FindPattern("address", addressPattern, infoText)
	if addr != nil {
		person.Address = &crecord.Address{LineOne: strings.TrimSpace(addr.Group("addr"))}
	} else {
		errs = append(errs, addrErrs...)
	}

	return person, errs
}
