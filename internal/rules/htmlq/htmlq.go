// Package htmlq provides a small structured-document query layer over HTML
// fragments coming from the LMS (section summaries, lesson pages, book
// chapters). Rule code asks domain questions, such as "which row carries
// this header" or "do these labeled percentages sum to 100", instead of
// traversing the DOM ad hoc, so the parsing engine stays swappable and
// testable without network fetches.
package htmlq

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonkmatsumo/classroom-auditor/internal/normalize"
)

// Document wraps a parsed HTML fragment.
type Document struct {
	doc *goquery.Document
}

// Parse builds a Document from an HTML string.
func Parse(html string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return &Document{doc: doc}, nil
}

// Text returns the document's whitespace-normalized text content.
func (d *Document) Text() string {
	return normalize.Fold(d.doc.Text())
}

// IsEmpty reports whether the document has no text and no images.
func (d *Document) IsEmpty() bool {
	return strings.TrimSpace(d.doc.Text()) == "" && !d.HasImage()
}

// HasImage reports whether the fragment contains at least one img element
// with a source.
func (d *Document) HasImage() bool {
	found := false
	d.doc.Find("img").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if src, ok := s.Attr("src"); ok && strings.TrimSpace(src) != "" {
			found = true
			return false
		}
		return true
	})
	return found
}

// HasEmbeddedMedia reports whether the fragment embeds external media
// through an iframe, video or embed element.
func (d *Document) HasEmbeddedMedia() bool {
	return d.doc.Find("iframe, video, embed").Length() > 0
}

// ContainsText reports whether the document text contains s, compared
// after folding.
func (d *Document) ContainsText(s string) bool {
	return normalize.ContainsFold(d.doc.Text(), s)
}

// Links returns the href of every anchor in the document.
func (d *Document) Links() []string {
	var links []string
	d.doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok && strings.TrimSpace(href) != "" {
			links = append(links, href)
		}
	})
	return links
}

// BoldHeadingContent locates a b/strong element whose text contains
// heading (folded comparison) and returns the text that follows it inside
// its enclosing block. The second return is false when no such heading
// exists.
func (d *Document) BoldHeadingContent(heading string) (string, bool) {
	var content string
	found := false
	d.doc.Find("b, strong").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !normalize.ContainsFold(s.Text(), heading) {
			return true
		}
		found = true
		parent := s.Closest("p, li, td, div, h1, h2, h3, h4, h5, h6")
		if parent.Length() == 0 {
			parent = s.Parent()
		}
		// The heading's own text is not content.
		blockText := strings.TrimSpace(parent.Text())
		headText := strings.TrimSpace(s.Text())
		content = strings.TrimSpace(strings.TrimPrefix(blockText, headText))
		content = strings.TrimLeft(content, ":;.- \t\n")
		if content == "" {
			// Content may live in the following sibling block instead.
			content = strings.TrimSpace(parent.Next().Text())
		}
		return false
	})
	return content, found
}

// RowByHeader scans table rows for one whose first cell matches any of the
// accepted header synonyms (folded comparison) and returns the text of the
// remaining cells. The second return is false when no row matches.
func (d *Document) RowByHeader(headers ...string) ([]string, bool) {
	var cells []string
	found := false
	d.doc.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		rowCells := row.Find("th, td")
		if rowCells.Length() < 2 {
			return true
		}
		first := rowCells.First().Text()
		for _, header := range headers {
			if normalize.ContainsFold(first, header) {
				found = true
				rowCells.Slice(1, rowCells.Length()).Each(func(_ int, cell *goquery.Selection) {
					cells = append(cells, strings.TrimSpace(cell.Text()))
				})
				return false
			}
		}
		return true
	})
	return cells, found
}

// percentPattern captures a number directly followed by a percent sign.
var percentPattern = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*%`)

// LabeledPercentages extracts, for each label, the first percentage value
// appearing after the label in the document text. Labels with no
// percentage are absent from the result.
func (d *Document) LabeledPercentages(labels ...string) map[string]float64 {
	text := normalize.Fold(d.doc.Text())
	out := make(map[string]float64)
	for _, label := range labels {
		folded := normalize.Fold(label)
		idx := strings.Index(text, folded)
		if idx < 0 {
			continue
		}
		rest := text[idx+len(folded):]
		match := percentPattern.FindStringSubmatch(rest)
		if match == nil {
			continue
		}
		value, err := strconv.ParseFloat(strings.ReplaceAll(match[1], ",", "."), 64)
		if err != nil {
			continue
		}
		out[label] = value
	}
	return out
}

// PercentagesSumTo reports whether every label has a percentage and the
// values sum to the expected total within a 0.01 tolerance.
func (d *Document) PercentagesSumTo(total float64, labels ...string) bool {
	values := d.LabeledPercentages(labels...)
	if len(values) != len(labels) {
		return false
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	diff := sum - total
	return diff < 0.01 && diff > -0.01
}
