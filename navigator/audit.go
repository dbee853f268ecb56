package navigator

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dustin/go-humanize"
	"github.com/playwright-community/playwright-go"
)

// Audit summarizes the static structure of a rendered page in one pass over
// its HTML, replacing repeated per-selector count queries against the browser.
type Audit struct {
	Scripts        int // script tags with a src attribute
	AsyncScripts   int // script[async]
	Polyfills      int // script[nomodule]
	Stylesheets    int // link[rel=stylesheet]
	PreloadStyles  int // link[rel=preload][as=style]
	PreloadScripts int // link[rel=preload][as=script]

	HasNextRoot bool // #__next container
	HasNextData bool // script#__NEXT_DATA__
	HasNoscript bool // noscript[data-n-css]
	HasCharset  bool
	HasViewport bool

	FaviconHref string
	Weight      int // raw HTML size in bytes
}

// AuditPage parses html and counts the tags the suites assert on.
func AuditPage(html string) (Audit, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Audit{}, fmt.Errorf("parse page html: %w", err)
	}

	a := Audit{Weight: len(html)}
	a.Scripts = doc.Find("script[src]").Length()
	a.AsyncScripts = doc.Find("script[async]").Length()
	a.Polyfills = doc.Find("script[nomodule]").Length()
	a.Stylesheets = doc.Find("link[rel='stylesheet']").Length()
	doc.Find("link[rel='preload']").Each(func(_ int, s *goquery.Selection) {
		switch as, _ := s.Attr("as"); as {
		case "style":
			a.PreloadStyles++
		case "script":
			a.PreloadScripts++
		}
	})
	a.HasNextRoot = doc.Find("#__next").Length() > 0
	a.HasNextData = doc.Find("script#__NEXT_DATA__").Length() > 0
	a.HasNoscript = doc.Find("noscript[data-n-css]").Length() > 0
	a.HasCharset = doc.Find("meta[charset]").Length() > 0
	a.HasViewport = doc.Find("meta[name='viewport']").Length() > 0
	a.FaviconHref, _ = doc.Find("link[rel='icon']").Attr("href")
	return a, nil
}

// PageAudit captures the current content of a live page and audits it.
func PageAudit(page playwright.Page) (Audit, error) {
	html, err := page.Content()
	if err != nil {
		return Audit{}, fmt.Errorf("get page content: %w", err)
	}
	return AuditPage(html)
}

func (a Audit) String() string {
	return fmt.Sprintf("%d scripts (%d async, %d nomodule), %d stylesheets, %d style + %d script preloads, %s html",
		a.Scripts, a.AsyncScripts, a.Polyfills, a.Stylesheets, a.PreloadStyles, a.PreloadScripts,
		humanize.Bytes(uint64(a.Weight)))
}
