// Package microsite defines the domain types shared across the service.
package microsite

import "time"

// Industry is one of the fixed set of industry labels the extractor can emit.
type Industry string

// Recognized industries, in classification priority order.
const (
	IndustrySaaS                 Industry = "SaaS"
	IndustryEcommerce            Industry = "E-commerce"
	IndustryHealthcare           Industry = "Healthcare"
	IndustryFinance              Industry = "Financial Services"
	IndustryManufacturing        Industry = "Manufacturing"
	IndustryRealEstate           Industry = "Real Estate"
	IndustryEducation            Industry = "Education"
	IndustryHospitality          Industry = "Hospitality"
	IndustryLogistics            Industry = "Logistics"
	IndustryProfessionalServices Industry = "Professional Services"
)

// SizeBracket is a coarse company-size estimate.
type SizeBracket string

// Size brackets, smallest to largest.
const (
	SizeSmall      SizeBracket = "small"
	SizeMedium     SizeBracket = "medium"
	SizeLarge      SizeBracket = "large"
	SizeEnterprise SizeBracket = "enterprise"
)

// BracketIndex returns the ordinal position of a bracket, small=0 through
// enterprise=3. Unknown brackets map to medium.
func BracketIndex(b SizeBracket) int {
	switch b {
	case SizeSmall:
		return 0
	case SizeMedium:
		return 1
	case SizeLarge:
		return 2
	case SizeEnterprise:
		return 3
	default:
		return 1
	}
}

// ProfileFlags carries boolean signals noticed while scanning a site.
type ProfileFlags struct {
	HasEcommerce        bool `json:"has_ecommerce"`
	HasDocumentation    bool `json:"has_documentation"`
	HasAutomation       bool `json:"has_automation"`
	UsesManualProcesses bool `json:"uses_manual_processes"`
}

// CompanyProfile is the set of attributes heuristically extracted from a
// target company's website. It has no identity and is recomputed on every
// generation request.
type CompanyProfile struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Industry    Industry     `json:"industry"`
	CompanySize SizeBracket  `json:"company_size"`
	TechStack   []string     `json:"tech_stack"`
	PainPoints  []string     `json:"pain_points"`
	LogoURL     string       `json:"logo_url"`
	Flags       ProfileFlags `json:"flags"`
}

// ValueProp is a single value proposition block.
type ValueProp struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Solution is a recommended product offering with its benefit list.
type Solution struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Benefits    []string `json:"benefits"`
	ROI         string   `json:"roi"`
}

// PersonalizedContent is the composed marketing copy for one microsite.
// Every field is always populated; the composer substitutes template values
// for anything an external source fails to provide.
type PersonalizedContent struct {
	Headline     string      `json:"headline"`
	Subheadline  string      `json:"subheadline"`
	ValueProps   []ValueProp `json:"value_props"`
	Solutions    []Solution  `json:"solutions"`
	Pitch        []string    `json:"pitch"`
	CallToAction string      `json:"call_to_action"`
}

// Status of a microsite record.
type Status string

// Microsite lifecycle states.
const (
	StatusDraft     Status = "DRAFT"
	StatusPublished Status = "PUBLISHED"
)

// Microsite is the durable record produced by the generation pipeline.
type Microsite struct {
	ID                string              `json:"id"`
	Slug              string              `json:"slug"`
	TargetName        string              `json:"target_name"`
	TargetURL         string              `json:"target_url"`
	TargetIndustry    Industry            `json:"target_industry"`
	TargetSize        SizeBracket         `json:"target_size"`
	TargetDescription string              `json:"target_description"`
	Profile           CompanyProfile      `json:"profile"`
	Content           PersonalizedContent `json:"content"`
	Status            Status              `json:"status"`
	Views             int64               `json:"views"`
	UniqueVisitors    int64               `json:"unique_visitors"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// MicrositePatch names the fields UpdateMicrosite may shallow-merge into an
// existing record. Nil fields are left untouched.
type MicrositePatch struct {
	Status            *Status              `json:"status,omitempty"`
	TargetName        *string              `json:"target_name,omitempty"`
	TargetDescription *string              `json:"target_description,omitempty"`
	Content           *PersonalizedContent `json:"content,omitempty"`
}

// LeadStatus tracks a lead through the funnel.
type LeadStatus string

// Lead statuses.
const (
	LeadStatusNew       LeadStatus = "NEW"
	LeadStatusContacted LeadStatus = "CONTACTED"
	LeadStatusQualified LeadStatus = "QUALIFIED"
	LeadStatusConverted LeadStatus = "CONVERTED"
	LeadStatusLost      LeadStatus = "LOST"
)

// ValidLeadStatus reports whether s is a known lead status.
func ValidLeadStatus(s LeadStatus) bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusConverted, LeadStatusLost:
		return true
	default:
		return false
	}
}

// Lead is a contact-form submission tied to a microsite. The microsite
// reference is not integrity-checked; a dangling id is possible when the
// microsite record is lost.
type Lead struct {
	ID          string     `json:"id"`
	MicrositeID string     `json:"microsite_id"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone,omitempty"`
	JobTitle    string     `json:"job_title,omitempty"`
	Message     string     `json:"message,omitempty"`
	Status      LeadStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Visit is one row per (microsite, visitor) pair with a page-view counter.
// The visitor id is a client-generated opaque token, not a security boundary.
type Visit struct {
	ID          string    `json:"id"`
	MicrositeID string    `json:"microsite_id"`
	VisitorID   string    `json:"visitor_id"`
	PageViews   int64     `json:"page_views"`
	FirstSeen   time.Time `json:"first_seen"`
	LastSeen    time.Time `json:"last_seen"`
}

// Settings is the process-wide singleton configuration record.
type Settings struct {
	OpenAIAPIKey  string    `json:"openai_api_key,omitempty"`
	SetupComplete bool      `json:"setup_complete"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SettingsPatch names the fields SaveSettings may merge. Nil fields are kept.
type SettingsPatch struct {
	OpenAIAPIKey  *string `json:"openai_api_key,omitempty"`
	SetupComplete *bool   `json:"setup_complete,omitempty"`
}

// Apply merges a patch into a microsite record in place.
func (m *Microsite) Apply(p MicrositePatch) {
	if p.Status != nil {
		m.Status = *p.Status
	}
	if p.TargetName != nil {
		m.TargetName = *p.TargetName
	}
	if p.TargetDescription != nil {
		m.TargetDescription = *p.TargetDescription
	}
	if p.Content != nil {
		m.Content = *p.Content
	}
}

// Apply merges a patch into the settings singleton in place.
func (s *Settings) Apply(p SettingsPatch) {
	if p.OpenAIAPIKey != nil {
		s.OpenAIAPIKey = *p.OpenAIAPIKey
	}
	if p.SetupComplete != nil {
		s.SetupComplete = *p.SetupComplete
	}
}
