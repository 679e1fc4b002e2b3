package compose

import (
	"fmt"
	"hash/fnv"

	"github.com/getsitespark/sitespark/internal/microsite"
)

// Template composes content from the fixed rule tables alone. It is the
// default mode and the fallback for every external-service failure, so it
// must always return a fully populated result.
func Template(profile microsite.CompanyProfile) microsite.PersonalizedContent {
	name := profile.Name
	if name == "" {
		name = "Your Company"
	}
	industry := string(profile.Industry)
	if industry == "" {
		industry = string(microsite.IndustryProfessionalServices)
	}

	headline, subheadline := headlinePair(name, industry)

	return microsite.PersonalizedContent{
		Headline:     headline,
		Subheadline:  subheadline,
		ValueProps:   valueProps(name, industry),
		Solutions:    recommendSolutions(profile),
		Pitch:        pitch(profile, name, industry),
		CallToAction: fmt.Sprintf("See it working on %s's data — book a 20-minute walkthrough.", name),
	}
}

// headlinePair picks one of three fixed phrasings, keyed deterministically on
// the company name so the same company always gets the same copy.
func headlinePair(name, industry string) (string, string) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	switch h.Sum32() % 3 {
	case 0:
		return fmt.Sprintf("%s runs on hard work. The busywork can run itself.", name),
			fmt.Sprintf("Automation built for %s teams like yours.", industry)
	case 1:
		return fmt.Sprintf("What would %s do with 10 extra hours a week?", name),
			fmt.Sprintf("Purpose-built automation for the %s industry.", industry)
	default:
		return fmt.Sprintf("%s deserves better than manual processes.", name),
			fmt.Sprintf("Join the %s leaders who already automated the boring parts.", industry)
	}
}

func valueProps(name, industry string) []microsite.ValueProp {
	return []microsite.ValueProp{
		{
			Title:       "Built for " + industry,
			Description: fmt.Sprintf("Workflows tuned to how %s businesses actually operate, not a generic template.", industry),
			Icon:        "target",
		},
		{
			Title:       "Live in days, not quarters",
			Description: fmt.Sprintf("%s can connect existing tools and see the first automated workflow this week.", name),
			Icon:        "rocket",
		},
		{
			Title:       "Measurable from day one",
			Description: fmt.Sprintf("Every workflow reports hours saved, so %s always knows what the platform returns.", name),
			Icon:        "chart",
		},
	}
}

func pitch(profile microsite.CompanyProfile, name, industry string) []string {
	pain := "manual, repetitive processes"
	if len(profile.PainPoints) > 0 {
		pain = profile.PainPoints[0]
	}
	paragraphs := []string{
		fmt.Sprintf(
			"We looked at what %s does, and one thing stood out: a team this focused on its customers shouldn't be losing hours to %s.",
			name, lowerFirst(pain)),
		fmt.Sprintf(
			"We work with %s companies every day, and the pattern is always the same: the work that drains a team is rarely the work that grows the business. Our platform takes over the repetitive parts — the copying, the chasing, the reconciling — and leaves your people with the judgment calls.",
			industry),
		fmt.Sprintf(
			"There's no rip-and-replace. %s keeps the tools that already work; we connect them, automate the gaps between them, and show you the hours coming back every week.",
			name),
	}
	return paragraphs
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	c := s[0]
	if c >= 'A' && c <= 'Z' {
		return string(c+32) + s[1:]
	}
	return s
}
