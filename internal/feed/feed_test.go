package feed

import (
	"strings"
	"testing"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:media="http://search.yahoo.com/mrss/">
<channel>
<title>Sample Times</title>
<item>
  <title><![CDATA[City metro line opens]]></title>
  <link>https://example.com/metro</link>
  <description><![CDATA[<p>The new metro line opened <b>today</b>.</p>]]></description>
  <pubDate>Mon, 05 Jan 2026 08:30:00 +0530</pubDate>
  <media:content url="https://example.com/metro.jpg" medium="image"/>
</item>
<item>
  <title>Budget session begins</title>
  <link>https://example.com/budget</link>
  <description>Lawmakers gathered for the opening of the budget session.</description>
  <pubDate>Mon, 05 Jan 2026 07:00:00 +0530</pubDate>
  <enclosure url="https://example.com/budget.png" type="image/png" length="1"/>
</item>
<item>
  <title>Rain expected this week</title>
  <link>https://example.com/rain</link>
  <description>&lt;img src="https://example.com/rain.jpg"&gt; Heavy rain is forecast across the region for the rest of the week as the monsoon trough moves north, bringing relief from the heat that has gripped the city.</description>
</item>
</channel>
</rss>`

func TestParseExtractsFields(t *testing.T) {
	articles := Parse(sampleRSS, "hyderabad", "RSS Feed")
	if len(articles) != 3 {
		t.Fatalf("expected 3 articles, got %d", len(articles))
	}

	first := articles[0]
	if first.Title != "City metro line opens" {
		t.Errorf("CDATA title not stripped: %q", first.Title)
	}
	if strings.Contains(first.Description, "<") {
		t.Errorf("description still contains markup: %q", first.Description)
	}
	if first.Content != "The new metro line opened today." {
		t.Errorf("unexpected content: %q", first.Content)
	}
	if first.Category != "hyderabad" {
		t.Errorf("category not carried: %q", first.Category)
	}
	if first.ID == "" || !strings.HasPrefix(first.ID, "art-") {
		t.Errorf("missing stable id: %q", first.ID)
	}
}

func TestParsePerItemSourceLabel(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>Channel Title</title>
<item>
  <title>Wire story</title>
  <link>https://example.com/wire</link>
  <source url="https://wire.example.com/feed">PTI Wire</source>
</item>
<item>
  <title>House story</title>
  <link>https://example.com/house</link>
</item>
</channel>
</rss>`

	articles := Parse(doc, "india", "RSS Feed")
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(articles))
	}
	if got := articles[0].Source; got != "PTI Wire" {
		t.Errorf("per-item source element should win, got %q", got)
	}
	if got := articles[1].Source; got != "Channel Title" {
		t.Errorf("channel title should label items without a source element, got %q", got)
	}
}

func TestParseSourceFallbackLabel(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<item>
  <title>Untitled feed story</title>
  <link>https://example.com/untitled</link>
</item>
</channel>
</rss>`

	articles := Parse(doc, "india", "Feed Label")
	if len(articles) != 1 {
		t.Fatalf("expected 1 article, got %d", len(articles))
	}
	if got := articles[0].Source; got != "Feed Label" {
		t.Errorf("fallback label should apply when the feed has no title, got %q", got)
	}
}

func TestParseImagePriority(t *testing.T) {
	articles := Parse(sampleRSS, "hyderabad", "RSS Feed")
	if got := articles[0].ImageURL; got != "https://example.com/metro.jpg" {
		t.Errorf("media:content should win, got %q", got)
	}
	if got := articles[1].ImageURL; got != "https://example.com/budget.png" {
		t.Errorf("enclosure should be used, got %q", got)
	}
	if got := articles[2].ImageURL; got != "https://example.com/rain.jpg" {
		t.Errorf("img tag in description should be found, got %q", got)
	}
}

func TestParseTruncatesDescription(t *testing.T) {
	articles := Parse(sampleRSS, "hyderabad", "RSS Feed")
	long := articles[2]
	if !strings.HasSuffix(long.Description, "...") {
		t.Errorf("long description should be ellipsis-truncated: %q", long.Description)
	}
	if n := len([]rune(strings.TrimSuffix(long.Description, "..."))); n != 150 {
		t.Errorf("excerpt should keep 150 runes, got %d", n)
	}
	if strings.HasSuffix(long.Content, "...") {
		t.Error("content must keep the full text, not the excerpt")
	}
}

func TestParseMalformedDocumentYieldsNothing(t *testing.T) {
	if got := Parse("this is not xml at all {", "sports", "RSS Feed"); len(got) != 0 {
		t.Errorf("malformed document should yield no articles, got %d", len(got))
	}
}

func TestParseFromJSONAPI(t *testing.T) {
	body := `{"status":"ok","items":[
		{"title":"Open final set","description":"The final is set for Sunday.","link":"https://example.com/final","pubDate":"2026-01-05 10:00:00","thumbnail":"https://example.com/final.jpg"},
		{"title":"Transfer window","description":"Clubs rush to close deals.","link":"https://example.com/window","pubDate":"2026-01-05 09:00:00","enclosure":{"link":"https://example.com/window.jpg"}}
	]}`

	articles := ParseFromJSONAPI(body, "sports")
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(articles))
	}
	if articles[0].ImageURL != "https://example.com/final.jpg" {
		t.Errorf("thumbnail not used: %q", articles[0].ImageURL)
	}
	if articles[1].ImageURL != "https://example.com/window.jpg" {
		t.Errorf("enclosure link not used: %q", articles[1].ImageURL)
	}
	if articles[0].Category != "sports" || articles[0].ID == "" {
		t.Errorf("bad mapping: %+v", articles[0])
	}
}

func TestParseFromJSONAPIBadEnvelope(t *testing.T) {
	if got := ParseFromJSONAPI(`{"status":"error"}`, "sports"); len(got) != 0 {
		t.Errorf("non-ok status should yield nothing, got %d", len(got))
	}
	if got := ParseFromJSONAPI(`not json`, "sports"); len(got) != 0 {
		t.Errorf("invalid json should yield nothing, got %d", len(got))
	}
}
