// Package docket searches the UJS portal for an applicant's court
// records and turns the results into raw case documents ready for
// normalization into the criminal-record slice.
package docket

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/expungepa/petition-builder/internal/config"
	"github.com/expungepa/petition-builder/internal/normalize"
	"github.com/expungepa/petition-builder/pkg/logger"
)

// Searcher drives a headless browser against the UJS portal.
type Searcher struct {
	cfg     *config.Config
	Browser *rod.Browser // Made public for testing
	mu      sync.Mutex
	logger  *logger.Logger
}

// NameQuery is a search for all dockets naming a person.
type NameQuery struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	DOB       string `json:"dob"`
}

// Validate checks that the query has enough to search on.
func (q NameQuery) Validate() error {
	if q.FirstName == "" {
		return fmt.Errorf("first name is required")
	}
	if q.LastName == "" {
		return fmt.Errorf("last name is required")
	}
	return nil
}

// SearchResult pairs a query with its outcome for concurrent searches.
type SearchResult struct {
	Query NameQuery
	Cases []normalize.Document
	Error error
}

// NewSearcher launches the browser used for portal searches.
func NewSearcher(cfg *config.Config, logger *logger.Logger) (*Searcher, error) {
	l := launcher.New().
		Headless(cfg.HeadlessMode).
		Set("user-agent", cfg.UserAgent).
		Set("disable-blink-features", "AutomationControlled").
		Delete("enable-automation")

	if cfg.BrowserPath != "" {
		l = l.Bin(cfg.BrowserPath)
	}

	browserURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(browserURL).MustConnect()

	return &Searcher{
		cfg:     cfg,
		Browser: browser,
		logger:  logger,
	}, nil
}

// Close shuts the browser down.
func (s *Searcher) Close() error {
	return s.Browser.Close()
}

// SearchByName looks up every docket naming the person and returns the
// parsed case documents plus the raw results HTML for logging.
func (s *Searcher) SearchByName(ctx context.Context, query NameQuery) ([]normalize.Document, string, error) {
	if err := query.Validate(); err != nil {
		return nil, "", err
	}

	s.mu.Lock()
	page, err := s.newPage()
	s.mu.Unlock()
	if err != nil {
		return nil, "", fmt.Errorf("failed to create page: %w", err)
	}
	defer page.MustClose()

	searchCtx, cancel := context.WithTimeout(ctx, s.cfg.SearchTimeout)
	defer cancel()

	searchURL := s.cfg.PortalBaseURL + "/CaseSearch"
	s.logger.Info("Navigating to UJS portal", "url", searchURL)

	if err := page.Context(searchCtx).Navigate(searchURL); err != nil {
		s.logger.Error("Navigation failed", "url", searchURL, "error", err)
		return nil, "", fmt.Errorf("failed to navigate: %w", err)
	}
	if err := page.Context(searchCtx).WaitLoad(); err != nil {
		s.logger.Error("Page load timeout", "error", err)
		// Continue anyway as the page might be partially loaded
	}

	// Select the participant-name search mode
	searchType, err := page.Element("#SearchBy-Control select")
	if err != nil {
		html, _ := page.HTML()
		return nil, html, fmt.Errorf("search type select not found: %w", err)
	}
	searchType.MustSelect("Participant Name")

	if err := s.fillNameForm(page, query); err != nil {
		html, _ := page.HTML()
		return nil, html, err
	}

	submitBtn, err := page.Element("#btnSearch")
	if err != nil {
		html, _ := page.HTML()
		return nil, html, fmt.Errorf("search button not found: %w", err)
	}
	submitBtn.MustClick()

	if err := page.Context(searchCtx).WaitLoad(); err != nil {
		s.logger.Warn("Results load timeout", "error", err)
	}
	time.Sleep(2 * time.Second)

	html, _ := page.HTML()

	if errorMsg := s.checkForErrors(page); errorMsg != "" {
		return nil, html, fmt.Errorf("search error: %s", errorMsg)
	}

	parser := NewParser(s.logger)
	cases, err := parser.ParseSearchResults(page)
	if err != nil {
		return nil, html, fmt.Errorf("failed to parse results: %w", err)
	}

	s.logger.Info("Docket search finished",
		"last_name", query.LastName,
		"results", len(cases),
	)
	return cases, html, nil
}

// SearchConcurrent runs several name searches with bounded parallelism.
func (s *Searcher) SearchConcurrent(ctx context.Context, queries []NameQuery) []SearchResult {
	results := make([]SearchResult, len(queries))
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, s.cfg.MaxConcurrentSearches)

	for i, query := range queries {
		wg.Add(1)
		go func(index int, q NameQuery) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			cases, _, err := s.SearchByName(ctx, q)
			results[index] = SearchResult{Query: q, Cases: cases, Error: err}
		}(i, query)
	}

	wg.Wait()
	return results
}

func (s *Searcher) newPage() (*rod.Page, error) {
	page, err := s.Browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, err
	}

	page.MustSetViewport(1920, 1080, 1, false)
	page.MustSetExtraHeaders("Accept-Language", "en-US,en;q=0.9")

	return page, nil
}

func (s *Searcher) fillNameForm(page *rod.Page, query NameQuery) error {
	firstName, err := page.Element("#ParticipantFirstName")
	if err != nil {
		return fmt.Errorf("first name input not found: %w", err)
	}
	firstName.MustInput(query.FirstName)

	lastName, err := page.Element("#ParticipantLastName")
	if err != nil {
		return fmt.Errorf("last name input not found: %w", err)
	}
	lastName.MustInput(query.LastName)

	if query.DOB != "" {
		dob, err := page.Element("#ParticipantDateOfBirth")
		if err != nil {
			return fmt.Errorf("date of birth input not found: %w", err)
		}
		dob.MustInput(query.DOB)
	}

	return nil
}

// checkForErrors looks for portal error banners and empty-result
// messages.
func (s *Searcher) checkForErrors(page *rod.Page) string {
	errorSelectors := []string{
		"div.validation-summary-errors",
		"div.alert-danger",
		"span.field-validation-error",
	}

	for _, selector := range errorSelectors {
		elem, err := page.Element(selector)
		if err == nil && elem != nil {
			text, _ := elem.Text()
			if text != "" {
				return text
			}
		}
	}

	body, _ := page.Element("body")
	if body != nil {
		text, _ := body.Text()
		lowerText := strings.ToLower(text)
		if strings.Contains(lowerText, "no records found") ||
			strings.Contains(lowerText, "no cases found") {
			return "No records found for the given participant"
		}
	}

	return ""
}
