// Package fees implements the contest fee schedule.
package fees

import (
	"fmt"

	"github.com/dmitrijs2005/contestentries/internal/common"
	"github.com/dmitrijs2005/contestentries/internal/server/models"
)

// ProcessingRatePercent is applied on top of the base fee and rounded up.
const ProcessingRatePercent = 4

var baseFees = map[models.Category]int64{
	models.CategoryBusiness:     79,
	models.CategoryCreative:     59,
	models.CategoryTechnology:   99,
	models.CategorySocialImpact: 49,
}

// Compute returns the fee breakdown for a category.
func Compute(category models.Category) (models.Fees, error) {
	base, ok := baseFees[category]
	if !ok {
		return models.Fees{}, fmt.Errorf("%w: %q", common.ErrInvalidCategory, category)
	}
	processing := ProcessingFee(base)
	return models.Fees{EntryFee: base, ProcessingFee: processing, TotalAmount: base + processing}, nil
}

// ProcessingFee is ceil(entryFee * rate) in integer arithmetic.
func ProcessingFee(entryFee int64) int64 {
	return (entryFee*ProcessingRatePercent + 99) / 100
}

// ToMinorUnits converts whole currency units to cents.
func ToMinorUnits(amount int64) int64 {
	return amount * 100
}
