package domain

import "github.com/shopspring/decimal"

// BundleTier identifies a purchasable content bundle.
type BundleTier string

const (
	BundleStarter      BundleTier = "starter"
	BundleProfessional BundleTier = "professional"
	BundleComplete     BundleTier = "complete"
)

// Bundle is a fixed-price content offering.
type Bundle struct {
	Tier     BundleTier
	Name     string
	Price    decimal.Decimal
	Currency string
}

var bundleCatalog = []Bundle{
	{Tier: BundleStarter, Name: "Essential Package", Price: decimal.NewFromInt(149), Currency: "MAD"},
	{Tier: BundleProfessional, Name: "Professional Package", Price: decimal.NewFromInt(249), Currency: "MAD"},
	{Tier: BundleComplete, Name: "Master Teacher Package", Price: decimal.NewFromInt(599), Currency: "MAD"},
}

// Bundles returns the catalog in display order.
func Bundles() []Bundle {
	out := make([]Bundle, len(bundleCatalog))
	copy(out, bundleCatalog)
	return out
}

// LookupBundle finds a bundle by tier.
func LookupBundle(tier BundleTier) (Bundle, bool) {
	for _, b := range bundleCatalog {
		if b.Tier == tier {
			return b, true
		}
	}
	return Bundle{}, false
}
