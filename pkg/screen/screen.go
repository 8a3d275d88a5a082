// Package screen runs the full screening pipeline: collect a person's
// court documents, parse them into a canonical criminal record, and
// evaluate the expungement and sealing rules against it.
package screen

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/coolbeans/recordscreen/pkg/analysis"
	"github.com/coolbeans/recordscreen/pkg/crecord"
	"github.com/coolbeans/recordscreen/pkg/docket"
	"github.com/coolbeans/recordscreen/pkg/fetch"
	"github.com/coolbeans/recordscreen/pkg/sourcerecord"
	"github.com/coolbeans/recordscreen/pkg/summary"
	"github.com/coolbeans/recordscreen/pkg/types"
)

// Portal searches the court system and downloads its documents.
type Portal interface {
	SearchByName(ctx context.Context, firstName, lastName string, dob *types.Date) ([]fetch.SearchResult, error)
	SearchByDocket(ctx context.Context, docketNumber string) ([]fetch.SearchResult, error)
	Download(ctx context.Context, url string) ([]byte, error)
}

// Extractor turns a PDF document into positional text.
type Extractor interface {
	Extract(r io.ReaderAt, size int64) string
	ExtractFile(path string) string
}

// Cache stores fetched source records between screening runs.
type Cache interface {
	Get(ctx context.Context, docketNumber string, recordType sourcerecord.RecType) (*sourcerecord.SourceRecord, error)
	Save(ctx context.Context, sr *sourcerecord.SourceRecord) error
}

// Results pairs the documents a screening read with the analysis they
// produced. Raw document text never appears in the serialized results.
type Results struct {
	SourceRecords []*sourcerecord.SourceRecord `json:"sourcerecords"`
	Analysis      *analysis.Analysis           `json:"analysis"`
}

// Screener wires the pipeline's collaborators together. Portal and Cache
// are optional: without a portal only local documents are screened, and
// without a cache every document is fetched fresh.
type Screener struct {
	Portal    Portal
	Extractor Extractor
	Cache     Cache
	Logger    logrus.FieldLogger
}

func (s *Screener) log() logrus.FieldLogger {
	if s.Logger != nil {
		return s.Logger
	}
	return logrus.StandardLogger()
}

// ScreenName searches the portal for a person, downloads the documents
// the search turns up, chases docket numbers that only appear inside
// summary sheets, and analyzes the combined record.
func (s *Screener) ScreenName(ctx context.Context, firstName, lastName string, dob *types.Date) (*Results, error) {
	if s.Portal == nil {
		return nil, fmt.Errorf("screening by name needs a portal client")
	}

	searchResults, err := s.Portal.SearchByName(ctx, firstName, lastName, dob)
	if err != nil {
		return nil, fmt.Errorf("screen %s %s: %w", firstName, lastName, err)
	}
	s.log().WithField("count", len(searchResults)).Info("Found cases in the portal")

	type collected struct {
		result      fetch.SearchResult
		docketText  string
		summaryText string
	}
	var cases []collected
	var known []string
	for _, result := range searchResults {
		known = append(known, result.DocketNumber)
		cases = append(cases, collected{
			result:      result,
			docketText:  s.documentText(ctx, result, sourcerecord.RecTypeDocketPDF),
			summaryText: s.documentText(ctx, result, sourcerecord.RecTypeSummaryPDF),
		})
	}

	// Summary sheets mention cases the name search missed, often from
	// other counties. Chase those docket numbers individually.
	var summaries strings.Builder
	for _, c := range cases {
		summaries.WriteString(c.summaryText)
		summaries.WriteString("\n")
	}
	newDockets := summary.NewDocketNumbers(summaries.String(), known)
	s.log().WithField("count", len(newDockets)).Info("Found cases in summaries not found through portal")

	for _, docketNumber := range newDockets {
		found, err := s.Portal.SearchByDocket(ctx, docketNumber)
		if err != nil || len(found) == 0 {
			s.log().WithField("docket_number", docketNumber).Error("Did not find case for docket")
			continue
		}
		cases = append(cases, collected{
			result:     found[0],
			docketText: s.documentText(ctx, found[0], sourcerecord.RecTypeDocketPDF),
		})
	}

	record := crecord.NewWithPerson(&crecord.Person{
		FirstName:   firstName,
		LastName:    lastName,
		DateOfBirth: dob,
	})
	var sources []*sourcerecord.SourceRecord
	for _, c := range cases {
		parser := docket.ParserFor(c.result.DocketNumber)
		if parser == nil {
			s.log().WithField("docket_number", c.result.DocketNumber).Error("Cannot determine the right parser")
			continue
		}
		sr := sourcerecord.New(c.docketText, parser)
		sr.Caption = c.result.Caption
		sr.URL = c.result.DocketSheetURL
		if sr.DocketNumber == "" {
			sr.DocketNumber = c.result.DocketNumber
		}
		sources = append(sources, sr)
		record.AddSourceRecord(sr.Person, sr.Cases, crecord.MergeOptions{CaseStrategy: crecord.StrategyOverwriteOld})
	}
	s.log().Info("Built criminal record")

	return &Results{
		SourceRecords: sources,
		Analysis:      analysis.Run(record),
	}, nil
}

// ScreenDirectory reads already-downloaded PDF documents from a
// directory, classifies each as a docket or summary sheet, and analyzes
// the record they add up to. Summary sheets contribute docket numbers
// only; when a portal client is configured, dockets named only in
// summaries are fetched from it.
func (s *Screener) ScreenDirectory(ctx context.Context, dir string) (*Results, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("screen directory %s: %w", dir, err)
	}

	var sources []*sourcerecord.SourceRecord
	var summaries strings.Builder
	var known []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		text := s.Extractor.ExtractFile(path)
		if text == "" {
			s.log().WithField("file", entry.Name()).Error("Could not extract text")
			continue
		}
		sr := sourcerecord.FromText(text)
		if sr == nil {
			s.log().WithField("file", entry.Name()).Error("Could not classify document")
			continue
		}
		switch sr.RecordType {
		case sourcerecord.RecTypeSummaryPDF:
			summaries.WriteString(text)
			summaries.WriteString("\n")
		default:
			sr.Parse()
			known = append(known, sr.DocketNumber)
			sources = append(sources, sr)
		}
	}

	if s.Portal != nil {
		for _, docketNumber := range summary.NewDocketNumbers(summaries.String(), known) {
			found, err := s.Portal.SearchByDocket(ctx, docketNumber)
			if err != nil || len(found) == 0 {
				s.log().WithField("docket_number", docketNumber).Error("Did not find case for docket")
				continue
			}
			text := s.documentText(ctx, found[0], sourcerecord.RecTypeDocketPDF)
			sr := sourcerecord.New(text, docket.ParserFor(docketNumber))
			sr.Caption = found[0].Caption
			sr.URL = found[0].DocketSheetURL
			if sr.DocketNumber == "" {
				sr.DocketNumber = docketNumber
			}
			sources = append(sources, sr)
		}
	}

	record := &crecord.CRecord{}
	for _, sr := range sources {
		record.AddSourceRecord(sr.Person, sr.Cases, crecord.MergeOptions{CaseStrategy: crecord.StrategyOverwriteOld})
	}
	s.log().Info("Built criminal record")

	return &Results{
		SourceRecords: sources,
		Analysis:      analysis.Run(record),
	}, nil
}

// documentText returns the extracted text of one of a search result's
// documents, preferring the cache over the network. Results without a
// link are common and yield empty text, as do download or extraction
// failures.
func (s *Screener) documentText(ctx context.Context, result fetch.SearchResult, recordType sourcerecord.RecType) string {
	if s.Cache != nil {
		cached, err := s.Cache.Get(ctx, result.DocketNumber, recordType)
		if err == nil && cached != nil && cached.RawText != "" {
			return cached.RawText
		}
	}
	if s.Portal == nil {
		return ""
	}

	url := result.DocketSheetURL
	if recordType == sourcerecord.RecTypeSummaryPDF {
		url = result.SummaryURL
	}
	data, err := s.Portal.Download(ctx, url)
	if err != nil {
		if err != fetch.ErrNoURL {
			s.log().WithField("docket_number", result.DocketNumber).WithError(err).Error("Download failed")
		}
		return ""
	}
	text := s.Extractor.Extract(bytes.NewReader(data), int64(len(data)))

	if s.Cache != nil && text != "" {
		err := s.Cache.Save(ctx, &sourcerecord.SourceRecord{
			Caption:      result.Caption,
			DocketNumber: result.DocketNumber,
			Court:        sourcerecord.CourtFor(result.DocketNumber),
			URL:          url,
			RecordType:   recordType,
			FetchStatus:  sourcerecord.FetchStatusFetched,
			RawText:      text,
		})
		if err != nil {
			s.log().WithField("docket_number", result.DocketNumber).WithError(err).Error("Caching document failed")
		}
	}
	return text
}
