package compose

import (
	"strings"

	"github.com/getsitespark/sitespark/internal/microsite"
)

// The solution catalog is fixed at build time. Recommendation rules match on
// pain-point text and industry, and the universal automation platform is
// always appended before the list is truncated to three entries.

var solutionAPAutomation = microsite.Solution{
	Name:        "AP Automation",
	Description: "Capture, approve and pay invoices without manual keying.",
	Benefits: []string{
		"Touchless invoice capture and 3-way matching",
		"Approval routing with full audit trail",
		"Early-payment discount tracking",
	},
	ROI: "Teams typically cut invoice processing cost by 60-80%",
}

var solutionAnalytics = microsite.Solution{
	Name:        "Analytics & Reporting",
	Description: "Replace spreadsheet reporting with live dashboards.",
	Benefits: []string{
		"One view across every data source",
		"Scheduled reports that build themselves",
		"Alerts when a metric drifts",
	},
	ROI: "Reporting time drops from days to minutes",
}

var solutionSupportAI = microsite.Solution{
	Name:        "Support Deflection AI",
	Description: "Answer repetitive tickets automatically from your own docs.",
	Benefits: []string{
		"Instant answers on the channels customers already use",
		"Agent handoff with full conversation context",
		"Gap reports for missing documentation",
	},
	ROI: "Most teams deflect 30-50% of inbound tickets",
}

var solutionInventorySync = microsite.Solution{
	Name:        "Inventory Sync",
	Description: "Keep stock levels accurate across every channel and warehouse.",
	Benefits: []string{
		"Real-time sync between storefront and warehouse",
		"Low-stock and backorder alerts",
		"Fulfillment routing by location",
	},
	ROI: "Oversells drop to near zero within the first quarter",
}

var solutionOnboarding = microsite.Solution{
	Name:        "Hiring & Onboarding Flows",
	Description: "Move candidates and new hires through structured, automated steps.",
	Benefits: []string{
		"Offer-to-desk checklists that run themselves",
		"E-signature and document collection built in",
		"Day-one readiness tracking",
	},
	ROI: "Cuts time-to-productive for new hires by weeks",
}

var solutionCompliance = microsite.Solution{
	Name:        "Compliance Vault",
	Description: "Collect evidence continuously instead of scrambling at audit time.",
	Benefits: []string{
		"Automated evidence collection from your stack",
		"Control mapping for SOC 2, HIPAA and GDPR",
		"Auditor-ready exports",
	},
	ROI: "Audit preparation shrinks from months to days",
}

var solutionPipeline = microsite.Solution{
	Name:        "Sales Pipeline Assistant",
	Description: "Follow up on every lead before it goes cold.",
	Benefits: []string{
		"Automatic lead capture from forms and demos",
		"Sequenced follow-ups with reply detection",
		"Pipeline hygiene nudges for reps",
	},
	ROI: "Teams recover 15-25% of previously lost leads",
}

var solutionUniversal = microsite.Solution{
	Name:        "Workflow Automation Platform",
	Description: "Connect the tools you already use and automate the busywork between them.",
	Benefits: []string{
		"No-code builder for cross-tool workflows",
		"Hundreds of prebuilt connectors",
		"Usage analytics on every automation",
	},
	ROI: "Customers report 10+ hours saved per employee per month",
}

type solutionRule struct {
	solution     microsite.Solution
	painKeywords []string
	industries   []microsite.Industry
}

var solutionRules = []solutionRule{
	{solutionAPAutomation, []string{"invoice", "billing", "accounts payable"}, []microsite.Industry{microsite.IndustryFinance}},
	{solutionAnalytics, []string{"spreadsheet", "report"}, nil},
	{solutionSupportAI, []string{"ticket", "support", "help desk"}, nil},
	{solutionInventorySync, []string{"inventory", "fulfillment"}, []microsite.Industry{microsite.IndustryEcommerce, microsite.IndustryLogistics}},
	{solutionOnboarding, []string{"hiring", "onboarding"}, nil},
	{solutionCompliance, []string{"compliance", "audit"}, []microsite.Industry{microsite.IndustryHealthcare, microsite.IndustryFinance}},
	{solutionPipeline, []string{"lead", "demo", "sales"}, nil},
}

// recommendSolutions assembles the rule-table recommendation list: pain-point
// and industry matches first, then the universal solution, capped at three.
func recommendSolutions(profile microsite.CompanyProfile) []microsite.Solution {
	pains := strings.ToLower(strings.Join(profile.PainPoints, " "))

	picked := []microsite.Solution{}
	seen := map[string]bool{}
	add := func(s microsite.Solution) {
		if !seen[s.Name] {
			picked = append(picked, s)
			seen[s.Name] = true
		}
	}

	for _, rule := range solutionRules {
		matched := false
		for _, kw := range rule.painKeywords {
			if strings.Contains(pains, kw) {
				matched = true
				break
			}
		}
		if !matched {
			for _, ind := range rule.industries {
				if profile.Industry == ind {
					matched = true
					break
				}
			}
		}
		if matched {
			add(rule.solution)
		}
	}
	add(solutionUniversal)

	if len(picked) > 3 {
		picked = picked[:3]
	}
	return picked
}

// catalogNames lists every offerable solution for the LLM prompt.
func catalogNames() []microsite.Solution {
	return []microsite.Solution{
		solutionAPAutomation,
		solutionAnalytics,
		solutionSupportAI,
		solutionInventorySync,
		solutionOnboarding,
		solutionCompliance,
		solutionPipeline,
		solutionUniversal,
	}
}
