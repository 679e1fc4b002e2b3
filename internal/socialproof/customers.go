package socialproof

import "github.com/getsitespark/sitespark/internal/microsite"

// Region is a coarse geographic label used for proof matching.
type Region string

// Regions referenced by the customer list.
const (
	RegionNortheast Region = "Northeast"
	RegionSoutheast Region = "Southeast"
	RegionMidwest   Region = "Midwest"
	RegionSouthwest Region = "Southwest"
	RegionWest      Region = "West"
)

// Customer is one reference-customer entry.
type Customer struct {
	Name     string                `json:"name"`
	LogoURL  string                `json:"logo_url"`
	Industry microsite.Industry    `json:"industry"`
	Size     microsite.SizeBracket `json:"size"`
	Region   Region                `json:"region"`
	Blurb    string                `json:"blurb"`
}

// customers is the fixed reference list. Order matters: ties in scoring are
// broken by position here.
var customers = []Customer{
	{"Meridian Health Partners", "/logos/meridian.svg", microsite.IndustryHealthcare, microsite.SizeLarge, RegionNortheast,
		"Cut patient-intake paperwork by 70%."},
	{"Harborline Logistics", "/logos/harborline.svg", microsite.IndustryLogistics, microsite.SizeEnterprise, RegionSoutheast,
		"Automated dispatch across 40 terminals."},
	{"Bluepeak Software", "/logos/bluepeak.svg", microsite.IndustrySaaS, microsite.SizeMedium, RegionWest,
		"Closed the books 6 days faster every month."},
	{"Stonebridge Financial", "/logos/stonebridge.svg", microsite.IndustryFinance, microsite.SizeEnterprise, RegionNortheast,
		"Passed SOC 2 with evidence collected automatically."},
	{"Cardinal Manufacturing", "/logos/cardinal.svg", microsite.IndustryManufacturing, microsite.SizeLarge, RegionMidwest,
		"Replaced 14 spreadsheets on the shop floor."},
	{"Vista Grove Realty", "/logos/vistagrove.svg", microsite.IndustryRealEstate, microsite.SizeSmall, RegionSouthwest,
		"Every lead followed up within five minutes."},
	{"Lakeshore Clinics", "/logos/lakeshore.svg", microsite.IndustryHealthcare, microsite.SizeMedium, RegionMidwest,
		"Deflected half of routine patient questions."},
	{"Summit & Cole", "/logos/summitcole.svg", microsite.IndustryProfessionalServices, microsite.SizeSmall, RegionNortheast,
		"Billable hours up 12% after automating intake."},
	{"Orchard Lane Market", "/logos/orchardlane.svg", microsite.IndustryEcommerce, microsite.SizeMedium, RegionSoutheast,
		"Oversells eliminated across three storefronts."},
	{"Northgate University", "/logos/northgate.svg", microsite.IndustryEducation, microsite.SizeEnterprise, RegionWest,
		"Enrollment processing time cut in half."},
	{"Juniper Hotels", "/logos/juniper.svg", microsite.IndustryHospitality, microsite.SizeLarge, RegionWest,
		"Guest requests routed without a front-desk call."},
	{"Fairfield Accounting Group", "/logos/fairfield.svg", microsite.IndustryProfessionalServices, microsite.SizeMedium, RegionSoutheast,
		"Client onboarding down from weeks to days."},
}

// regionAliases maps well-known location labels to regions. Lookup is
// best-effort; unknown locations leave the region unset.
var regionAliases = map[string]Region{
	"new york":      RegionNortheast,
	"boston":        RegionNortheast,
	"philadelphia":  RegionNortheast,
	"northeast":     RegionNortheast,
	"atlanta":       RegionSoutheast,
	"miami":         RegionSoutheast,
	"southeast":     RegionSoutheast,
	"chicago":       RegionMidwest,
	"detroit":       RegionMidwest,
	"minneapolis":   RegionMidwest,
	"midwest":       RegionMidwest,
	"dallas":        RegionSouthwest,
	"houston":       RegionSouthwest,
	"phoenix":       RegionSouthwest,
	"southwest":     RegionSouthwest,
	"san francisco": RegionWest,
	"seattle":       RegionWest,
	"los angeles":   RegionWest,
	"denver":        RegionWest,
	"west":          RegionWest,
}
