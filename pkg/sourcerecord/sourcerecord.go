// Package sourcerecord tracks the documents that contribute information to
// a person's criminal record: docket sheets and summary sheets, where they
// came from, and what could be parsed out of them.
package sourcerecord

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/coolbeans/recordscreen/pkg/crecord"
	"github.com/coolbeans/recordscreen/pkg/docket"
	"github.com/coolbeans/recordscreen/pkg/summary"
)

// Court identifies which court a document came from.
type Court string

const (
	CourtCP  Court = "CP"
	CourtMDJ Court = "MDJ"
)

// RecType identifies what kind of document a source record holds.
type RecType string

const (
	RecTypeDocketPDF  RecType = "DOCKET_PDF"
	RecTypeSummaryPDF RecType = "SUMMARY_PDF"
)

// FetchStatus tracks whether a document has been retrieved yet.
type FetchStatus string

const (
	FetchStatusNotFetched FetchStatus = "NOT_FETCHED"
	FetchStatusFetching   FetchStatus = "FETCHING"
	FetchStatusFetched    FetchStatus = "FETCHED"
	FetchStatusFailed     FetchStatus = "FETCH_FAILED"
)

// ParseStatus tracks whether a document could be parsed.
type ParseStatus string

const (
	ParseStatusUnknown ParseStatus = "UNKNOWN"
	ParseStatusSuccess ParseStatus = "SUCCESSFULLY_PARSED"
	ParseStatusFailure ParseStatus = "PARSE_FAILED"
)

// SourceRecord is one document contributing to a criminal record, together
// with whatever was parsed out of it. The raw text is kept for re-parsing
// but excluded from JSON output, which is shared with people who should
// see conclusions rather than whole court documents.
type SourceRecord struct {
	ID           uuid.UUID   `json:"id"`
	Caption      string      `json:"caption"`
	DocketNumber string      `json:"docket_num"`
	Court        Court       `json:"court"`
	URL          string      `json:"url"`
	RecordType   RecType     `json:"record_type"`
	FetchStatus  FetchStatus `json:"fetch_status"`
	ParseStatus  ParseStatus `json:"parse_status"`
	RawText      string      `json:"-"`

	Person      *crecord.Person `json:"person,omitempty"`
	Cases       []*crecord.Case `json:"cases,omitempty"`
	ParseErrors []string        `json:"parse_errors,omitempty"`
}

// New builds a source record from extracted docket text and parses it with
// the given parser. A nil parser leaves the record unparsed.
func New(rawText string, parser docket.ParseFunc) *SourceRecord {
	sr := &SourceRecord{
		ID:          uuid.New(),
		RecordType:  RecTypeDocketPDF,
		FetchStatus: FetchStatusFetched,
		ParseStatus: ParseStatusUnknown,
		RawText:     rawText,
	}
	if parser == nil {
		return sr
	}
	sr.Person, sr.Cases, sr.ParseErrors = parser(rawText)
	if sr.Person == nil && len(sr.Cases) == 0 {
		sr.ParseStatus = ParseStatusFailure
	} else {
		sr.ParseStatus = ParseStatusSuccess
	}
	if sr.DocketNumber == "" && len(sr.Cases) > 0 && sr.Cases[0] != nil {
		sr.DocketNumber = sr.Cases[0].DocketNumber
	}
	if sr.Court == "" {
		sr.Court = CourtFor(sr.DocketNumber)
	}
	return sr
}

// CourtFor infers the court from a docket number. CP and MC dockets both
// come from the Common Pleas system.
func CourtFor(docketNumber string) Court {
	switch {
	case strings.Contains(docketNumber, "CP") || strings.Contains(docketNumber, "MC"):
		return CourtCP
	case strings.Contains(docketNumber, "MJ"):
		return CourtMDJ
	default:
		return ""
	}
}

// FromText classifies a document of unknown type by its text alone. The
// first few lines of a docket or summary sheet name what the document is;
// the docket numbers in the body identify which cases it concerns. Returns
// nil when the text cannot be identified as either kind of document.
func FromText(rawText string) *SourceRecord {
	sr := &SourceRecord{
		ID:          uuid.New(),
		FetchStatus: FetchStatusFetched,
		ParseStatus: ParseStatusUnknown,
		RawText:     rawText,
	}

	lines := strings.SplitN(rawText, "\n", 6)
	if len(lines) > 5 {
		lines = lines[:5]
	}
	head := strings.ToLower(strings.Join(lines, "\n"))
	switch {
	case strings.Contains(head, "docket"):
		sr.RecordType = RecTypeDocketPDF
	case strings.Contains(head, "summary"):
		sr.RecordType = RecTypeSummaryPDF
	default:
		return nil
	}

	docketNumbers := summary.DocketNumbers(rawText)
	switch sr.RecordType {
	case RecTypeSummaryPDF:
		sr.DocketNumber = fmt.Sprintf("Summary(%s)", strings.Join(docketNumbers, ", "))
	case RecTypeDocketPDF:
		if len(docketNumbers) > 0 {
			sr.DocketNumber = docketNumbers[0]
			sr.Court = CourtFor(docketNumbers[0])
		}
	}
	return sr
}

// Parse runs the parser matching the record's docket number and stores the
// results on the record.
func (sr *SourceRecord) Parse() {
	parser := docket.ParserFor(sr.DocketNumber)
	if parser == nil {
		sr.ParseStatus = ParseStatusFailure
		return
	}
	sr.Person, sr.Cases, sr.ParseErrors = parser(sr.RawText)
	if sr.Person == nil && len(sr.Cases) == 0 {
		sr.ParseStatus = ParseStatusFailure
	} else {
		sr.ParseStatus = ParseStatusSuccess
	}
}
