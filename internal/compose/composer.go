// Package compose turns a CompanyProfile into personalized marketing copy.
//
// Two mutually exclusive modes exist: the deterministic template tables and
// an external text service selected when an API key is configured. The
// external mode merges field by field and degrades to template values for
// anything missing or malformed, so the output contract — every field
// populated — holds unconditionally.
package compose

import (
	"context"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/getsitespark/sitespark/internal/logging"
	"github.com/getsitespark/sitespark/internal/microsite"
)

// Mode reports which path produced the content.
type Mode string

// Compose outcomes.
const (
	ModeTemplate    Mode = "template"
	ModeLLM         Mode = "llm"
	ModeLLMFallback Mode = "llm_fallback"
)

// Config controls the external-service mode.
type Config struct {
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Composer is a pure function of (CompanyProfile, Settings) with one internal
// fallback edge: any external-service error routes to template mode.
type Composer struct {
	cfg       Config
	logger    *zap.Logger
	newClient func(apiKey string) LLMClient
}

// New builds a Composer.
func New(cfg Config, logger *zap.Logger) *Composer {
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	c := &Composer{cfg: cfg, logger: logging.NewNopSafe(logger)}
	c.newClient = func(apiKey string) LLMClient {
		return newOpenAIClient(apiKey, c.cfg.Model, c.cfg.BaseURL)
	}
	return c
}

// Compose produces personalized content for the profile. The returned Mode
// tells the caller whether the external service contributed anything.
func (c *Composer) Compose(ctx context.Context, profile microsite.CompanyProfile, settings microsite.Settings) (microsite.PersonalizedContent, Mode) {
	base := Template(profile)
	if settings.OpenAIAPIKey == "" {
		return base, ModeTemplate
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	raw, err := c.newClient(settings.OpenAIAPIKey).Complete(ctx, systemPrompt, userPrompt(profile))
	if err != nil {
		c.logger.Warn("external compose failed, using template copy",
			zap.String("company", profile.Name), zap.Error(err))
		return base, ModeLLMFallback
	}

	merged, usedAny := mergeResponse(base, raw)
	if !usedAny {
		c.logger.Warn("external compose returned no usable fields",
			zap.String("company", profile.Name))
		return base, ModeLLMFallback
	}
	return merged, ModeLLM
}

// mergeResponse coalesces the external JSON into the template baseline one
// field at a time. Malformed or missing fields keep their template value; a
// response with zero usable fields reports usedAny=false.
func mergeResponse(base microsite.PersonalizedContent, raw string) (microsite.PersonalizedContent, bool) {
	raw = stripFences(raw)
	if !gjson.Valid(raw) {
		return base, false
	}
	r := gjson.Parse(raw)
	if !r.IsObject() {
		return base, false
	}

	out := base
	usedAny := false

	if v := cleanString(r.Get("headline")); v != "" {
		out.Headline = v
		usedAny = true
	}
	if v := cleanString(r.Get("subheadline")); v != "" {
		out.Subheadline = v
		usedAny = true
	}
	if v := cleanString(r.Get("call_to_action")); v != "" {
		out.CallToAction = v
		usedAny = true
	}
	if props := parseValueProps(r.Get("value_props")); len(props) > 0 {
		out.ValueProps = props
		usedAny = true
	}
	if sols := parseSolutions(r.Get("solutions")); len(sols) > 0 {
		out.Solutions = sols
		usedAny = true
	}
	if pitch := parseStringList(r.Get("pitch")); len(pitch) > 0 {
		out.Pitch = pitch
		usedAny = true
	}
	return out, usedAny
}

func parseValueProps(res gjson.Result) []microsite.ValueProp {
	if !res.IsArray() {
		return nil
	}
	props := []microsite.ValueProp{}
	for _, item := range res.Array() {
		title := cleanString(item.Get("title"))
		desc := cleanString(item.Get("description"))
		if title == "" || desc == "" {
			continue
		}
		icon := cleanString(item.Get("icon"))
		if icon == "" {
			icon = "spark"
		}
		props = append(props, microsite.ValueProp{Title: title, Description: desc, Icon: icon})
		if len(props) == 3 {
			break
		}
	}
	return props
}

func parseSolutions(res gjson.Result) []microsite.Solution {
	if !res.IsArray() {
		return nil
	}
	sols := []microsite.Solution{}
	for _, item := range res.Array() {
		name := cleanString(item.Get("name"))
		desc := cleanString(item.Get("description"))
		benefits := parseStringList(item.Get("benefits"))
		if name == "" || desc == "" || len(benefits) == 0 {
			continue
		}
		roi := cleanString(item.Get("roi"))
		if roi == "" {
			roi = solutionUniversal.ROI
		}
		sols = append(sols, microsite.Solution{Name: name, Description: desc, Benefits: benefits, ROI: roi})
		if len(sols) == 3 {
			break
		}
	}
	return sols
}

func parseStringList(res gjson.Result) []string {
	if !res.IsArray() {
		return nil
	}
	list := []string{}
	for _, item := range res.Array() {
		if item.Type != gjson.String {
			continue
		}
		if v := strings.TrimSpace(item.String()); v != "" {
			list = append(list, v)
		}
	}
	return list
}

func cleanString(res gjson.Result) string {
	if res.Type != gjson.String {
		return ""
	}
	return strings.TrimSpace(res.String())
}

// stripFences removes a markdown code fence if the model wrapped its JSON.
func stripFences(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "```") {
		return raw
	}
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "```")
	return strings.TrimSpace(raw)
}
