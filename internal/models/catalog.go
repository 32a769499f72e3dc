package models

// Option catalogs for the intake wizard. These mirror what the journey
// product offers in its pickers; selections outside a catalog fail step
// validation.

// MaxPreferredCities caps the buyer city wishlist.
const MaxPreferredCities = 3

// MaxNotesLength caps the free-text note fields.
const MaxNotesLength = 500

var PropertyTypes = []string{
	"Condo / Condo Townhouse",
	"Freehold Townhouse",
	"Semi-Detached House",
	"Detached House",
}

// SellerPropertyTypes adds the catch-all option sellers get.
var SellerPropertyTypes = append(append([]string{}, PropertyTypes...), "Other")

var BudgetRanges = []string{
	"$900K or less",
	"$900K – $1.1M",
	"$1.1M – $1.3M",
	"$1.3M – $1.6M",
	"$1.6M or more",
}

// PriceExpectationRanges uses the same brackets as the buyer budget.
var PriceExpectationRanges = append([]string{}, BudgetRanges...)

var BuyerTimelines = []string{
	"Ready to buy in next 3 months",
	"Anytime in next 6 months",
	"Some time in next 6-12 months",
	"Unsure at the moment or in next 1-2 years",
}

var SellingTimelines = []string{
	"At the earliest possible",
	"Anytime in the next 6 months",
	"Sometime in the next 6-10 months",
	"Unsure at the moment",
}

var SellingReasons = []string{
	"upsizing",
	"downsizing",
	"relocation",
	"investment",
	"other",
}

var PropertyConditions = []string{
	"excellent",
	"good",
	"fair",
	"needs-work",
}

var OntarioCities = []string{
	"Toronto",
	"Mississauga",
	"Brampton",
	"Hamilton",
	"Ottawa",
	"London",
	"Markham",
	"Vaughan",
	"Kitchener",
	"Windsor",
	"Richmond Hill",
	"Oakville",
	"Burlington",
	"Oshawa",
	"Barrie",
	"St. Catharines",
	"Guelph",
	"Cambridge",
	"Whitby",
	"Ajax",
	"Milton",
	"Waterloo",
	"Thunder Bay",
	"Brantford",
	"Pickering",
	"Niagara Falls",
	"Newmarket",
	"Peterborough",
	"Kingston",
	"Aurora",
}

// InCatalog reports whether value is one of the allowed options.
func InCatalog(catalog []string, value string) bool {
	for _, v := range catalog {
		if v == value {
			return true
		}
	}
	return false
}
