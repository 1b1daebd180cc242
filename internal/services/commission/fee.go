// Package commission computes the advisory service fee shown in the buy-now
// and offer modals. The remote API charges the authoritative amount.
package commission

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ironbid/internal/domain"
	"ironbid/internal/redis/cache"
)

var hundred = decimal.NewFromInt(100)

type Quote struct {
	Base           float64               `json:"base"`
	Fee            float64               `json:"fee"`
	Total          float64               `json:"total"`
	CommissionType domain.CommissionType `json:"commissionType,omitempty"`
	Giveaway       bool                  `json:"giveaway"`
}

// Compute derives the fee and total for base. A nil commission means no fee.
// Giveaways are free claims: fee and total are zero.
func Compute(c *domain.Commission, base float64, auctionType domain.AuctionType) Quote {
	if auctionType == domain.AuctionTypeGiveaway {
		return Quote{Base: base, Giveaway: true}
	}

	b := decimal.NewFromFloat(base)
	fee := decimal.Zero
	q := Quote{Base: base}
	if c != nil {
		q.CommissionType = c.CommissionType
		v := decimal.NewFromFloat(c.CommissionValue)
		if c.CommissionType == domain.CommissionFixed {
			fee = v
		} else {
			fee = b.Mul(v).Div(hundred)
		}
	}
	q.Fee = fee.InexactFloat64()
	q.Total = b.Add(fee).InexactFloat64()
	return q
}

type commissionSource interface {
	Commission(ctx context.Context) (*domain.Commission, error)
}

type ICommissionService interface {
	Quote(ctx context.Context, base float64, auctionType domain.AuctionType) Quote
	Current(ctx context.Context) *domain.Commission
}

type commissionService struct {
	remote commissionSource
	cache  *cache.Cache
}

func NewCommissionService(remote commissionSource, c *cache.Cache) ICommissionService {
	return &commissionService{remote: remote, cache: c}
}

// Current returns the commission configuration, or nil when it cannot be
// fetched. Failures are deliberately not surfaced.
func (svc *commissionService) Current(ctx context.Context) *domain.Commission {
	c, err := cache.GetOrLoad(ctx, svc.cache, "commission", svc.remote.Commission)
	if err != nil {
		zap.L().Debug("commission.fetch", zap.Error(err))
		return nil
	}
	return c
}

func (svc *commissionService) Quote(ctx context.Context, base float64, auctionType domain.AuctionType) Quote {
	if auctionType == domain.AuctionTypeGiveaway {
		return Compute(nil, base, auctionType)
	}
	return Compute(svc.Current(ctx), base, auctionType)
}
