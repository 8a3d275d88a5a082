// Package fetch talks to the public court portal: searching for a
// person's cases and downloading the docket sheet and summary documents
// the search results point to.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/coolbeans/recordscreen/pkg/types"
)

const userAgent = "CleanSlateScreener"

// ErrNoURL marks a search result that carries no link for the requested
// document. Dockets without a summary are fairly common.
var ErrNoURL = fmt.Errorf("search result has no document url")

// SearchResult is one case the portal knows about, with links to its
// documents.
type SearchResult struct {
	Caption        string `json:"caption"`
	DocketNumber   string `json:"docket_number"`
	Court          string `json:"court"`
	DocketSheetURL string `json:"docket_sheet_url"`
	SummaryURL     string `json:"summary_url"`
}

// Client queries the portal with retries.
type Client struct {
	baseURL string
	http    *retryablehttp.Client
	logger  logrus.FieldLogger
}

// NewClient returns a portal client rooted at baseURL.
func NewClient(baseURL string, logger logrus.FieldLogger) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.Logger = log.New(io.Discard, "", 0)
	retryClient.RetryMax = 5
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Client{
		baseURL: baseURL,
		http:    retryClient,
		logger:  logger,
	}
}

// SearchByName returns the portal's cases for a person, common pleas and
// magisterial courts combined. The date of birth narrows the search when
// known.
func (c *Client) SearchByName(ctx context.Context, firstName, lastName string, dob *types.Date) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("first_name", firstName)
	params.Set("last_name", lastName)
	if dob != nil {
		params.Set("dob", dob.String())
	}
	body, err := c.get(ctx, c.baseURL+"/search/name?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("portal name search: %w", err)
	}

	var results []SearchResult
	for _, court := range []string{"MDJ", "CP"} {
		for _, entry := range gjson.GetBytes(body, court).Array() {
			results = append(results, resultFromJSON(entry))
		}
	}
	c.logger.WithField("count", len(results)).Info("Found cases in the portal")
	return results, nil
}

// SearchByDocket looks one docket number up in the portal.
func (c *Client) SearchByDocket(ctx context.Context, docketNumber string) ([]SearchResult, error) {
	body, err := c.get(ctx, c.baseURL+"/search/docket/"+url.PathEscape(docketNumber))
	if err != nil {
		return nil, fmt.Errorf("portal docket search for %s: %w", docketNumber, err)
	}

	var results []SearchResult
	for _, entry := range gjson.GetBytes(body, "searchResults").Array() {
		results = append(results, resultFromJSON(entry))
	}
	return results, nil
}

// Download fetches one document by its search-result link.
func (c *Client) Download(ctx context.Context, documentURL string) ([]byte, error) {
	if documentURL == "" {
		return nil, ErrNoURL
	}
	return c.get(ctx, documentURL)
}

func (c *Client) get(ctx context.Context, target string) ([]byte, error) {
	req, err := retryablehttp.NewRequest(http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req = req.WithContext(ctx)
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, target)
	}
	return io.ReadAll(resp.Body)
}

func resultFromJSON(entry gjson.Result) SearchResult {
	return SearchResult{
		Caption:        entry.Get("caption").String(),
		DocketNumber:   entry.Get("docket_number").String(),
		Court:          entry.Get("court").String(),
		DocketSheetURL: entry.Get("docket_sheet_url").String(),
		SummaryURL:     entry.Get("summary_url").String(),
	}
}
