// Package petition builds the filing context for expungement and sealing
// petitions from a screened record. It produces the mapping a document
// template consumes; rendering the template itself happens elsewhere.
package petition

import (
	"fmt"
	"strings"

	"github.com/coolbeans/recordscreen/pkg/analysis"
	"github.com/coolbeans/recordscreen/pkg/crecord"
	"github.com/coolbeans/recordscreen/pkg/types"
)

// Kind distinguishes the two petition forms.
type Kind string

const (
	KindExpungement Kind = "Expungement"
	KindSealing     Kind = "Sealing"
)

// Expungement type labels shown to the user. Full or partial changes the
// wording of the petition, not the procedure it is filed under.
const (
	FullExpungement    = "Full Expungement"
	PartialExpungement = "Partial Expungement"
)

// Criminal procedure rules a Pennsylvania expungement is filed under.
// Rule 490 covers summary convictions, Rule 790 everything else.
const (
	SummaryProcedure    = "§ 490"
	NonsummaryProcedure = "§ 790"
)

// Petition collects everything a petition template needs for one filing.
// The expungement-only fields stay blank on a sealing petition.
type Petition struct {
	Kind            Kind              `json:"petition_type"`
	Attorney        *crecord.Attorney `json:"attorney,omitempty"`
	Client          *crecord.Person   `json:"client,omitempty"`
	Cases           []*crecord.Case   `json:"cases"`
	IFPMessage      string            `json:"ifp_message,omitempty"`
	ServiceAgencies []string          `json:"service_agencies,omitempty"`

	ExpungementType    string `json:"expungement_type,omitempty"`
	Procedure          string `json:"procedure,omitempty"`
	ExpungementReasons string `json:"expungement_reasons,omitempty"`
}

// NewExpungement starts an expungement petition filed under the given
// procedure rule.
func NewExpungement(attorney *crecord.Attorney, client *crecord.Person, procedure string) *Petition {
	return &Petition{
		Kind:      KindExpungement,
		Attorney:  attorney,
		Client:    client,
		Procedure: procedure,
	}
}

// NewSealing starts a sealing petition.
func NewSealing(attorney *crecord.Attorney, client *crecord.Person) *Petition {
	return &Petition{
		Kind:     KindSealing,
		Attorney: attorney,
		Client:   client,
	}
}

// AddCase appends a case to the petition.
func (p *Petition) AddCase(kase *crecord.Case) {
	p.Cases = append(p.Cases, kase)
}

// Context returns the mapping a document template is filled with.
func (p *Petition) Context(today types.Date) map[string]interface{} {
	dispositions := make([]string, 0)
	if len(p.Cases) > 0 {
		for _, ch := range p.Cases[0].Charges {
			dispositions = append(dispositions, ch.Disposition)
		}
	}
	ctx := map[string]interface{}{
		"date":             today.ToTime().Format("January 02, 2006"),
		"attorney":         p.Attorney,
		"cases":            p.Cases,
		"client":           p.Client,
		"ifp_message":      p.IFPMessage,
		"service_agencies": p.ServiceAgencies,
		"disposition_list": strings.Join(dispositions, ", "),
	}
	if p.Kind == KindExpungement {
		ctx["petition_type"] = string(KindExpungement)
		ctx["petition_procedure"] = p.Procedure
		ctx["expungement_reasons"] = p.ExpungementReasons
	}
	return ctx
}

// FileName names the rendered document after the petition kind, the
// client, and the first case.
func (p *Petition) FileName() string {
	docket := "NoCases"
	if len(p.Cases) > 0 {
		docket = p.Cases[0].DocketNumber
	}
	lastName := ""
	if p.Client != nil {
		lastName = p.Client.LastName
	}
	return fmt.Sprintf("%s_%s_%s.docx", p.Kind, lastName, docket)
}

// Reasons text included when an expungement rests on the petitioner's
// circumstances rather than the charges alone.
const (
	deceasedReasons = "The petitioner has been deceased for more than three years."
	over70Reasons   = "The petitioner is over 70 years old and has been free of arrest or prosecution for more than ten years following release."
	summaryReasons  = "The petitioner has been free of arrest or prosecution for five years following the summary conviction."
)

// FromAnalysis turns a completed analysis into one petition per case per
// ruling that found anything. Summary-conviction expungements file under
// Rule 490, every other expungement under Rule 790, and conviction
// sealings as sealing petitions.
func FromAnalysis(a *analysis.Analysis, attorney *crecord.Attorney, client *crecord.Person) []*Petition {
	var petitions []*Petition

	expungementRules := []struct {
		key       string
		procedure string
		reasons   string
	}{
		{analysis.KeyDeceasedExpungements, NonsummaryProcedure, deceasedReasons},
		{analysis.KeyAgeOver70Expungements, NonsummaryProcedure, over70Reasons},
		{analysis.KeyNonconvictionExpungements, NonsummaryProcedure, ""},
		{analysis.KeySummaryConvictionExpungements, SummaryProcedure, summaryReasons},
	}
	for _, rule := range expungementRules {
		ruling := a.Ruling(rule.key)
		if ruling == nil {
			continue
		}
		for _, group := range groupByCase(ruling.Expungements) {
			p := NewExpungement(attorney, client, rule.procedure)
			p.ExpungementReasons = rule.reasons
			p.ExpungementType = FullExpungement
			if group.partial {
				p.ExpungementType = PartialExpungement
			}
			p.AddCase(group.kase)
			petitions = append(petitions, p)
		}
	}

	if ruling := a.Ruling(analysis.KeyConvictionSealings); ruling != nil {
		for _, group := range groupByCase(ruling.Sealings) {
			p := NewSealing(attorney, client)
			p.AddCase(group.kase)
			petitions = append(petitions, p)
		}
	}
	return petitions
}

type caseGroup struct {
	kase    *crecord.Case
	partial bool
}

// groupByCase collapses charge-level targets into one entry per case,
// preserving the order cases first appear in. A case targeted through any
// individual charge is a partial filing.
func groupByCase(targets []analysis.Target) []caseGroup {
	var groups []caseGroup
	index := make(map[*crecord.Case]int)
	for _, target := range targets {
		if i, ok := index[target.Case]; ok {
			if target.Charge != nil {
				groups[i].partial = true
			}
			continue
		}
		index[target.Case] = len(groups)
		groups = append(groups, caseGroup{kase: target.Case, partial: target.Charge != nil})
	}
	return groups
}
