package booking

import "github.com/Luckyraj9295/Bharat-Yatra/internal/models"

var tierMultipliers = map[models.PackageType]float64{
	models.PackageStandard: 1,
	models.PackageDeluxe:   1.5,
	models.PackagePremium:  2,
}

// TierMultiplier falls back to 1 for unknown tiers.
func TierMultiplier(tier models.PackageType) float64 {
	if m, ok := tierMultipliers[tier]; ok {
		return m
	}
	return 1
}

func TotalPrice(pricePerPerson float64, travelers int, tier models.PackageType) float64 {
	return pricePerPerson * float64(travelers) * TierMultiplier(tier)
}
