package microsite

import "strings"

const maxSlugLen = 30

// Slugify derives a URL slug from a company name: lowercase, runs of
// non-alphanumerics collapsed to single hyphens, trimmed, at most 30
// characters. Names with no usable characters yield "site".
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	slug := strings.Trim(b.String(), "-")
	if len(slug) > maxSlugLen {
		slug = strings.Trim(slug[:maxSlugLen], "-")
	}
	if slug == "" {
		return "site"
	}
	return slug
}
