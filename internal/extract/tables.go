package extract

import "github.com/getsitespark/sitespark/internal/microsite"

// The keyword tables below are static data. Classification is best-effort
// substring matching with no confidence score; callers treat the results as
// heuristic hints.

type techMarker struct {
	name    string
	markers []string
}

// techTable is checked against the full lowercased HTML, markup included,
// since most signals live in script and asset URLs.
var techTable = []techMarker{
	{"Shopify", []string{"cdn.shopify.com", "shopify"}},
	{"WordPress", []string{"wp-content", "wp-includes"}},
	{"React", []string{"data-reactroot", "__next", "react-dom"}},
	{"HubSpot", []string{"hs-scripts", "hubspot"}},
	{"Salesforce", []string{"salesforce", "force.com"}},
	{"Marketo", []string{"marketo", "mktoforms"}},
	{"Google Analytics", []string{"google-analytics.com", "gtag(", "googletagmanager"}},
	{"Stripe", []string{"js.stripe.com", "stripe.com/v3"}},
	{"Intercom", []string{"intercom.io", "intercomsettings"}},
	{"Zendesk", []string{"zdassets", "zendesk"}},
	{"Cloudflare", []string{"cdnjs.cloudflare.com", "cloudflareinsights"}},
	{"jQuery", []string{"jquery"}},
}

type industryRule struct {
	industry microsite.Industry
	keywords []string
}

// industryTable is evaluated in order against visible text; the first rule
// with any keyword hit wins.
var industryTable = []industryRule{
	{microsite.IndustrySaaS, []string{"saas", "software as a service", "our platform", "api-first", "cloud-based software"}},
	{microsite.IndustryEcommerce, []string{"add to cart", "free shipping", "checkout", "our store", "shop now"}},
	{microsite.IndustryHealthcare, []string{"patient", "clinic", "medical", "hipaa", "healthcare", "telehealth"}},
	{microsite.IndustryFinance, []string{"banking", "financial services", "lending", "insurance", "wealth management", "accounting firm"}},
	{microsite.IndustryManufacturing, []string{"manufactur", "industrial", "machining", "fabrication", "production line"}},
	{microsite.IndustryRealEstate, []string{"real estate", "property management", "realtor", "listings", "tenants"}},
	{microsite.IndustryEducation, []string{"students", "curriculum", "school district", "university", "online courses"}},
	{microsite.IndustryHospitality, []string{"hotel", "restaurant", "reservation", "our menu", "guests"}},
	{microsite.IndustryLogistics, []string{"logistics", "freight", "warehouse", "fleet", "last-mile", "supply chain"}},
}

type painPointRule struct {
	label    string
	keywords []string
}

// painPointTable collects every matching category, unlike industryTable.
var painPointTable = []painPointRule{
	{"Manual invoice and billing workflows", []string{"invoice", "billing", "accounts payable", "accounts receivable"}},
	{"Customer data scattered across disconnected tools", []string{"crm", "customer data", "data silo", "single source of truth"}},
	{"Reporting built on spreadsheets", []string{"spreadsheet", "excel", "manual report"}},
	{"Support teams buried in repetitive tickets", []string{"help desk", "support ticket", "knowledge base", "faq"}},
	{"Slow hiring and onboarding cycles", []string{"careers", "hiring", "recruiting", "onboarding"}},
	{"Compliance and audit overhead", []string{"compliance", "audit", "regulatory", "gdpr", "hipaa", "soc 2"}},
	{"Inventory and fulfillment friction", []string{"inventory", "fulfillment", "out of stock", "backorder"}},
	{"Leads that slip through the cracks", []string{"book a demo", "free trial", "contact sales", "request a quote"}},
}

// defaultPainPoints is substituted when no category matches at all.
var defaultPainPoints = []string{
	"Manual, repetitive back-office processes",
	"Fragmented tools and data across teams",
}
