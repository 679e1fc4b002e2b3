// Package extract derives a CompanyProfile from raw page HTML. It is pure:
// no network, no clock, same input same output.
package extract

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/getsitespark/sitespark/internal/microsite"
)

const (
	maxDescriptionLen  = 500
	maxPainPoints      = 5
	descriptionDefault = "A growing company focused on serving its customers well."
)

// Profile extracts company attributes from fetched HTML. A document that
// fails to parse degrades to the hostname-only fallback profile.
func Profile(html []byte, host string) microsite.CompanyProfile {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return Fallback(host)
	}

	lowerHTML := strings.ToLower(string(html))
	visible := strings.ToLower(collapseSpace(doc.Find("body").Text()))

	profile := microsite.CompanyProfile{
		Name:        companyName(doc, host),
		Description: description(doc),
		LogoURL:     logoURL(doc, host),
		TechStack:   techStack(lowerHTML),
		Industry:    industry(visible),
		CompanySize: companySize(doc, visible),
		PainPoints:  painPoints(visible),
		Flags:       profileFlags(lowerHTML, visible),
	}
	return profile
}

// Fallback builds the profile used when the target site could not be fetched
// or parsed. Only the hostname is available, so everything else defaults.
func Fallback(host string) microsite.CompanyProfile {
	return microsite.CompanyProfile{
		Name:        nameFromHost(host),
		Description: descriptionDefault,
		Industry:    microsite.IndustryProfessionalServices,
		CompanySize: microsite.SizeSmall,
		TechStack:   []string{},
		PainPoints:  append([]string(nil), defaultPainPoints...),
		LogoURL:     fmt.Sprintf("https://logo.clearbit.com/%s", host),
	}
}

func companyName(doc *goquery.Document, host string) string {
	if v, ok := doc.Find(`meta[property="og:site_name"]`).Attr("content"); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	if v, ok := doc.Find(`meta[name="application-name"]`).Attr("content"); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title != "" {
		return trimTitleSuffix(title)
	}
	return nameFromHost(host)
}

// trimTitleSuffix drops a trailing " | tagline" or " - tagline" segment.
func trimTitleSuffix(title string) string {
	for _, sep := range []string{" | ", " - ", " – "} {
		if idx := strings.Index(title, sep); idx > 0 {
			return strings.TrimSpace(title[:idx])
		}
	}
	return title
}

func nameFromHost(host string) string {
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	label, _, _ := strings.Cut(host, ".")
	if label == "" {
		return "Your Company"
	}
	return strings.ToUpper(label[:1]) + label[1:]
}

func description(doc *goquery.Document) string {
	candidates := []string{
		attrContent(doc, `meta[name="description"]`),
		attrContent(doc, `meta[property="og:description"]`),
		collapseSpace(doc.Find("p").First().Text()),
	}
	for _, c := range candidates {
		if c != "" {
			return truncate(c, maxDescriptionLen)
		}
	}
	return descriptionDefault
}

func logoURL(doc *goquery.Document, host string) string {
	if v := attrContent(doc, `meta[property="og:image"]`); v != "" {
		return resolveRef(host, v)
	}
	if v, ok := doc.Find(`link[rel="icon"], link[rel="shortcut icon"], link[rel="apple-touch-icon"]`).First().Attr("href"); ok {
		if v = strings.TrimSpace(v); v != "" {
			return resolveRef(host, v)
		}
	}
	return fmt.Sprintf("https://logo.clearbit.com/%s", host)
}

// resolveRef makes relative asset references absolute against the site host.
func resolveRef(host, ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return fmt.Sprintf("https://logo.clearbit.com/%s", host)
	}
	if u.IsAbs() {
		return u.String()
	}
	base := url.URL{Scheme: "https", Host: host}
	return base.ResolveReference(u).String()
}

func techStack(lowerHTML string) []string {
	stack := []string{}
	for _, tech := range techTable {
		for _, marker := range tech.markers {
			if strings.Contains(lowerHTML, marker) {
				stack = append(stack, tech.name)
				break
			}
		}
	}
	return stack
}

func industry(visible string) microsite.Industry {
	for _, rule := range industryTable {
		for _, kw := range rule.keywords {
			if strings.Contains(visible, kw) {
				return rule.industry
			}
		}
	}
	return microsite.IndustryProfessionalServices
}

// companySize applies a coarse decision table over nav size and hiring
// language. The coarsest signal wins.
func companySize(doc *goquery.Document, visible string) microsite.SizeBracket {
	navLinks := doc.Find("nav a, header a").Length()
	hasCareers := strings.Contains(visible, "careers")
	hasLocations := strings.Contains(visible, "locations") || strings.Contains(visible, "our offices")
	enterpriseLanguage := strings.Contains(visible, "investor relations") ||
		strings.Contains(visible, "press releases") ||
		strings.Contains(visible, "global offices")

	switch {
	case enterpriseLanguage || navLinks > 25:
		return microsite.SizeEnterprise
	case navLinks > 15 || (hasCareers && hasLocations):
		return microsite.SizeLarge
	case navLinks > 8 || hasCareers:
		return microsite.SizeMedium
	default:
		return microsite.SizeSmall
	}
}

func painPoints(visible string) []string {
	points := []string{}
	for _, rule := range painPointTable {
		if len(points) == maxPainPoints {
			break
		}
		for _, kw := range rule.keywords {
			if strings.Contains(visible, kw) {
				points = append(points, rule.label)
				break
			}
		}
	}
	if len(points) == 0 {
		return append([]string(nil), defaultPainPoints...)
	}
	return points
}

func profileFlags(lowerHTML, visible string) microsite.ProfileFlags {
	return microsite.ProfileFlags{
		HasEcommerce: strings.Contains(visible, "add to cart") ||
			strings.Contains(visible, "checkout") ||
			strings.Contains(lowerHTML, "cdn.shopify.com"),
		HasDocumentation: strings.Contains(visible, "documentation") ||
			strings.Contains(visible, "api reference") ||
			strings.Contains(visible, "developer docs"),
		HasAutomation: strings.Contains(visible, "automation") ||
			strings.Contains(visible, "workflow") ||
			strings.Contains(lowerHTML, "zapier"),
		UsesManualProcesses: strings.Contains(visible, "spreadsheet") ||
			strings.Contains(visible, "manual process") ||
			strings.Contains(visible, "paperwork"),
	}
}

func attrContent(doc *goquery.Document, selector string) string {
	v, _ := doc.Find(selector).First().Attr("content")
	return collapseSpace(v)
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate cuts to n characters, not bytes, so multibyte text keeps its
// full budget and the cut never splits a rune.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
