package compose

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/getsitespark/sitespark/internal/microsite"
)

type fakeLLM struct {
	response string
	err      error
	called   bool
}

func (f *fakeLLM) Complete(_ context.Context, _, _ string) (string, error) {
	f.called = true
	return f.response, f.err
}

func sampleProfile() microsite.CompanyProfile {
	return microsite.CompanyProfile{
		Name:        "Acme Billing",
		Description: "Acme Billing automates invoice processing.",
		Industry:    microsite.IndustrySaaS,
		CompanySize: microsite.SizeMedium,
		PainPoints:  []string{"Manual invoice and billing workflows"},
	}
}

func newTestComposer(client LLMClient) *Composer {
	c := New(Config{}, nil)
	c.newClient = func(string) LLMClient { return client }
	return c
}

func requireFullyPopulated(t *testing.T, content microsite.PersonalizedContent) {
	t.Helper()
	require.NotEmpty(t, content.Headline)
	require.NotEmpty(t, content.Subheadline)
	require.NotEmpty(t, content.ValueProps)
	require.LessOrEqual(t, len(content.ValueProps), 3)
	require.NotEmpty(t, content.Solutions)
	require.LessOrEqual(t, len(content.Solutions), 3)
	for _, s := range content.Solutions {
		require.NotEmpty(t, s.Name)
		require.NotEmpty(t, s.Description)
		require.NotEmpty(t, s.Benefits)
		require.NotEmpty(t, s.ROI)
	}
	require.NotEmpty(t, content.Pitch)
	require.NotEmpty(t, content.CallToAction)
}

func TestTemplate_AlwaysFullyPopulated(t *testing.T) {
	t.Parallel()

	requireFullyPopulated(t, Template(sampleProfile()))
	requireFullyPopulated(t, Template(microsite.CompanyProfile{}))
}

func TestTemplate_InvoicePainSelectsAPAutomation(t *testing.T) {
	t.Parallel()

	content := Template(sampleProfile())
	names := []string{}
	for _, s := range content.Solutions {
		names = append(names, s.Name)
	}
	require.Contains(t, names, "AP Automation")
}

func TestTemplate_UniversalSolutionAlwaysPresentWhenRoom(t *testing.T) {
	t.Parallel()

	content := Template(microsite.CompanyProfile{Name: "Plain Co", PainPoints: []string{"nothing recognizable"}})
	require.Len(t, content.Solutions, 1)
	require.Equal(t, "Workflow Automation Platform", content.Solutions[0].Name)
}

func TestTemplate_DeterministicPerCompany(t *testing.T) {
	t.Parallel()

	a := Template(sampleProfile())
	b := Template(sampleProfile())
	require.Equal(t, a, b)
}

func TestCompose_NoAPIKeyUsesTemplate(t *testing.T) {
	t.Parallel()

	llm := &fakeLLM{}
	c := newTestComposer(llm)
	content, mode := c.Compose(context.Background(), sampleProfile(), microsite.Settings{})

	require.Equal(t, ModeTemplate, mode)
	require.False(t, llm.called)
	requireFullyPopulated(t, content)
}

func TestCompose_LLMErrorFallsBackToTemplate(t *testing.T) {
	t.Parallel()

	c := newTestComposer(&fakeLLM{err: errors.New("timeout")})
	settings := microsite.Settings{OpenAIAPIKey: "sk-test"}
	content, mode := c.Compose(context.Background(), sampleProfile(), settings)

	require.Equal(t, ModeLLMFallback, mode)
	require.Equal(t, Template(sampleProfile()), content)
}

func TestCompose_MalformedJSONFallsBack(t *testing.T) {
	t.Parallel()

	c := newTestComposer(&fakeLLM{response: "here's your copy: Buy now!"})
	settings := microsite.Settings{OpenAIAPIKey: "sk-test"}
	content, mode := c.Compose(context.Background(), sampleProfile(), settings)

	require.Equal(t, ModeLLMFallback, mode)
	requireFullyPopulated(t, content)
}

func TestCompose_PartialResponseMergesFieldByField(t *testing.T) {
	t.Parallel()

	response := "```json\n" + `{
		"headline": "Invoices, handled.",
		"value_props": [
			{"title": "Fast", "description": "Live in days."},
			{"title": "", "description": "invalid, skipped"},
			{"title": "NoDescription"}
		],
		"solutions": [
			{"name": "AP Automation", "description": "Touchless AP.", "benefits": ["No keying"], "roi": "60% cheaper"},
			{"name": "Bad", "description": "missing benefits"}
		],
		"pitch": ["One paragraph.", ""]
	}` + "\n```"

	c := newTestComposer(&fakeLLM{response: response})
	settings := microsite.Settings{OpenAIAPIKey: "sk-test"}
	profile := sampleProfile()
	content, mode := c.Compose(context.Background(), profile, settings)
	base := Template(profile)

	require.Equal(t, ModeLLM, mode)
	require.Equal(t, "Invoices, handled.", content.Headline)
	// absent fields keep template values
	require.Equal(t, base.Subheadline, content.Subheadline)
	require.Equal(t, base.CallToAction, content.CallToAction)
	// invalid list entries are dropped, valid ones kept
	require.Len(t, content.ValueProps, 1)
	require.Equal(t, "spark", content.ValueProps[0].Icon)
	require.Len(t, content.Solutions, 1)
	require.Equal(t, "AP Automation", content.Solutions[0].Name)
	require.Equal(t, []string{"One paragraph."}, content.Pitch)
	requireFullyPopulated(t, content)
}

func TestMergeResponse_NonObjectRejected(t *testing.T) {
	t.Parallel()

	base := Template(sampleProfile())
	merged, used := mergeResponse(base, `["a","list"]`)
	require.False(t, used)
	require.Equal(t, base, merged)
}

func TestStripFences(t *testing.T) {
	t.Parallel()

	require.Equal(t, `{"a":1}`, stripFences("```json\n{\"a\":1}\n```"))
	require.Equal(t, `{"a":1}`, stripFences(`{"a":1}`))
}
