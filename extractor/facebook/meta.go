package facebook

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

func metaContent(doc *goquery.Document, property string) string {
	value, _ := doc.Find(`meta[property="` + property + `"]`).First().Attr("content")
	return strings.TrimSpace(value)
}
