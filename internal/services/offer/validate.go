package offer

import (
	"fmt"

	"ironbid/internal/domain"
)

// ValidationError is a user-correctable input problem detected before any
// remote call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidateCounter checks a counter amount against the offer it answers. The
// counter has to beat the original offer and, when the auction has a buy-now
// price, stay below it.
func ValidateCounter(original float64, buyNow *float64, counter float64) error {
	if counter <= original {
		return &ValidationError{
			Field:   "counterAmount",
			Message: fmt.Sprintf("counter offer must be higher than the original offer of %.2f", original),
		}
	}
	if buyNow != nil && counter >= *buyNow {
		return &ValidationError{
			Field:   "counterAmount",
			Message: fmt.Sprintf("counter offer must be lower than the buy now price of %.2f", *buyNow),
		}
	}
	return nil
}

// ValidatePlacement checks a buyer's offer against the auction it targets.
func ValidatePlacement(a *domain.Auction, amount float64) error {
	if a.AuctionType == domain.AuctionTypeGiveaway {
		return &ValidationError{Field: "auction", Message: "giveaway auctions do not accept offers"}
	}
	if !a.AllowOffers {
		return &ValidationError{Field: "auction", Message: "this auction does not accept offers"}
	}
	if amount < a.StartPrice {
		return &ValidationError{
			Field:   "amount",
			Message: fmt.Sprintf("offer must be at least the starting price of %.2f", a.StartPrice),
		}
	}
	if a.BuyNowPrice != nil && amount >= *a.BuyNowPrice {
		return &ValidationError{
			Field:   "amount",
			Message: fmt.Sprintf("offer must be lower than the buy now price of %.2f", *a.BuyNowPrice),
		}
	}
	return nil
}
