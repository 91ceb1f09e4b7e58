package analyzer

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// descriptionLimit bounds the cleaned text sent to the AI providers.
const descriptionLimit = 7000

const defaultPosition = "Software Engineer"

var (
	// Page titles on job portals carry the portal brand, not the employer.
	portalBrandRe = regexp.MustCompile(`(?i)(linkedin|indeed|glassdoor|stepstone)`)

	titleSeparatorRe  = regexp.MustCompile(`(?i)(?:at|@| - | \| )`)
	titleCompanyRe    = regexp.MustCompile(`(?i)(?:at|@| - | \| )\s*([^| \-\n]+)`)
	whitespaceRe      = regexp.MustCompile(`\s+`)
	legalEntityRe     = regexp.MustCompile(`(?i)([A-Z][a-z0-9&]+(?:\s+[A-Z][a-z0-9&]+)*)\s+(?:GmbH|AG|GmbH & Co\. KG|Inc\.|Corp\.)`)
	employerLabelRe   = regexp.MustCompile(`(?i)(?:employer|company):\s*([^\n.;]+)`)
	hostTokenReplacer = strings.NewReplacer("www.", "", ".com", "", ".org", "", ".net", "", ".io", "")
)

// Metadata is the structural extraction from a fetched job page.
type Metadata struct {
	PageTitle   string
	CompanyName string
	Position    string
	Description string
}

// Extract derives page title, employer name, position and cleaned
// description text from raw HTML. Malformed or empty markup degrades to
// empty fields; it never fails.
func Extract(rawHTML, rawURL string) Metadata {
	var meta Metadata

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		doc = nil
	}

	var siteName, metaDescription string
	if doc != nil {
		meta.PageTitle = strings.TrimSpace(doc.Find("title").First().Text())
		siteName = strings.TrimSpace(doc.Find(`meta[property="og:site_name"]`).First().AttrOr("content", ""))
		metaDescription = strings.TrimSpace(doc.Find(`meta[name="description"]`).First().AttrOr("content", ""))

		doc.Find("script, style, nav, footer, header").Remove()
		meta.Description = truncateBytes(collapseWhitespace(doc.Text()), descriptionLimit)
	}
	if meta.Description == "" && metaDescription != "" {
		meta.Description = truncateBytes(collapseWhitespace(metaDescription), descriptionLimit)
	}

	meta.CompanyName = deriveCompanyName(siteName, meta.PageTitle, rawURL)
	meta.Position = derivePosition(meta.PageTitle)

	return meta
}

func deriveCompanyName(siteName, pageTitle, rawURL string) string {
	name := siteName
	if name == "" || portalBrandRe.MatchString(name) {
		if m := titleCompanyRe.FindStringSubmatch(pageTitle); m != nil {
			name = m[1]
		} else if portalBrandRe.MatchString(name) {
			name = ""
		}
	}

	if name == "" {
		name = companyFromHost(rawURL)
	}
	return strings.TrimSpace(name)
}

func companyFromHost(rawURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || parsed.Host == "" {
		return ""
	}
	return titleCase(hostTokenReplacer.Replace(parsed.Hostname()))
}

func derivePosition(pageTitle string) string {
	parts := titleSeparatorRe.Split(pageTitle, 2)
	position := ""
	if len(parts) > 0 {
		position = strings.TrimSpace(parts[0])
	}
	if len(position) < 3 {
		return defaultPosition
	}
	return position
}

// RefineCompanyFromDescription overrides a title-derived employer name when
// the description carries a legal-entity suffix or an explicit employer
// label; title-derived names are frequently the portal, not the employer.
func RefineCompanyFromDescription(description string) (string, bool) {
	if m := legalEntityRe.FindString(description); m != "" {
		return strings.TrimSpace(m), true
	}
	if m := employerLabelRe.FindStringSubmatch(description); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	return "", false
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// truncateBytes cuts s to at most n bytes without splitting a rune.
func truncateBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		if r == utf8.RuneError {
			continue
		}
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
