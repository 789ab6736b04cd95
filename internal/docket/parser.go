package docket

import (
	"regexp"
	"strings"

	"github.com/go-rod/rod"

	"github.com/expungepa/petition-builder/internal/normalize"
	"github.com/expungepa/petition-builder/pkg/logger"
)

// Parser extracts case documents from UJS portal result pages.
type Parser struct {
	logger *logger.Logger
}

func NewParser(logger *logger.Logger) *Parser {
	return &Parser{logger: logger}
}

var docketNumberPattern = regexp.MustCompile(`[A-Z]{2}-\d{2}-[A-Z]{2}-\d{7}-\d{4}|\d+-[A-Z]{2}-\d+-[A-Z]{2}-\d+`)

// ParseSearchResults walks the results grid and builds one raw case
// document per docket row. Rows with no recognizable docket number are
// skipped.
func (p *Parser) ParseSearchResults(page *rod.Page) ([]normalize.Document, error) {
	var cases []normalize.Document

	rows, err := page.Elements("table#caseSearchResultGrid tbody tr")
	if err != nil || len(rows) == 0 {
		// Older portal revisions render a plain results table
		rows, err = page.Elements("table.results-table tbody tr")
		if err != nil {
			return cases, nil
		}
	}

	headers := p.parseHeaders(page)

	for _, row := range rows {
		cells, err := row.Elements("td")
		if err != nil || len(cells) == 0 {
			continue
		}

		doc := p.parseRow(cells, headers)
		if doc == nil {
			continue
		}
		cases = append(cases, doc)
	}

	p.logger.Debug("Parsed search results", "rows", len(rows), "cases", len(cases))
	return cases, nil
}

// parseHeaders maps column index to a normalized header label so row
// parsing survives column reordering between portal revisions.
func (p *Parser) parseHeaders(page *rod.Page) map[int]string {
	headers := make(map[int]string)

	cells, err := page.Elements("table#caseSearchResultGrid thead th")
	if err != nil || len(cells) == 0 {
		cells, err = page.Elements("table.results-table thead th")
		if err != nil {
			return headers
		}
	}

	for i, cell := range cells {
		text, err := cell.Text()
		if err != nil {
			continue
		}
		headers[i] = strings.ToLower(strings.TrimSpace(text))
	}

	return headers
}

func (p *Parser) parseRow(cells rod.Elements, headers map[int]string) normalize.Document {
	doc := normalize.Document{}
	var rowText strings.Builder

	for i, cell := range cells {
		text, err := cell.Text()
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		rowText.WriteString(text)
		rowText.WriteString(" ")

		label := headers[i]
		switch {
		case strings.Contains(label, "docket"):
			doc["docket_number"] = text
		case strings.Contains(label, "caption") || strings.Contains(label, "short caption"):
			doc["caption"] = text
		case strings.Contains(label, "court"):
			doc["court"] = text
		case strings.Contains(label, "status"):
			doc["status"] = text
		case strings.Contains(label, "county"):
			doc["county"] = text
		case strings.Contains(label, "otn"):
			doc["otn"] = text
		case strings.Contains(label, "filing date") || strings.Contains(label, "filed"):
			doc["date_filed"] = text
		case strings.Contains(label, "date of birth") || strings.Contains(label, "dob"):
			doc["dob"] = text
		}
	}

	if _, ok := doc["docket_number"]; !ok {
		// Fall back to scanning the row text for a docket-shaped token
		if match := docketNumberPattern.FindString(rowText.String()); match != "" {
			doc["docket_number"] = match
		}
	}

	docket, _ := doc["docket_number"].(string)
	if docket == "" {
		return nil
	}

	doc["charges"] = []normalize.Document{}
	return doc
}
