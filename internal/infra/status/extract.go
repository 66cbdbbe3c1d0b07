package status

import (
	"fmt"
	"io"
	"strings"

	"telegram-status-bot/internal/domain"
	"telegram-status-bot/internal/domain/model"

	"github.com/PuerkitoBio/goquery"
)

// extract pulls the applicant name and status text out of a tracking page.
// A missing selector yields an empty field, never a failure: partial
// information (status known, name unknown) is still worth surfacing.
// Only an unparsable body is an upstream error.
func extract(body io.Reader, nameSelector, statusSelector string) (*model.StatusResult, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse markup: %v", domain.ErrUpstream, err)
	}

	res := &model.StatusResult{}
	if nameSelector != "" {
		res.FullName = selectorText(doc, nameSelector)
	}
	res.StatusText = selectorText(doc, statusSelector)
	res.Found = res.StatusText != "" || res.FullName != ""
	return res, nil
}

func selectorText(doc *goquery.Document, selector string) string {
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return ""
	}
	return strings.Join(strings.Fields(sel.Text()), " ")
}
