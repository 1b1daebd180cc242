// Package auction assembles the single-auction detail view: the remote
// auction, its specifications labeled by category schema, and the advisory
// buy-now quote.
package auction

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"ironbid/internal/domain"
	"ironbid/internal/remoteapi"
	"ironbid/internal/services/catalog"
	"ironbid/internal/services/commission"
)

var ErrAuctionNotFound = errors.New("auction not found")

type AuctionDetailDTO struct {
	Auction        *domain.Auction     `json:"auction"`
	Specifications []catalog.SpecGroup `json:"specificationGroups"`
	BuyNowQuote    *commission.Quote   `json:"buyNowQuote,omitempty"`
}

type auctionSource interface {
	Auction(ctx context.Context, id string) (*domain.Auction, error)
}

type IAuctionService interface {
	GetAuction(ctx context.Context, id string) (*AuctionDetailDTO, error)
	BuyNowQuote(ctx context.Context, id string) (*commission.Quote, error)
}

type auctionService struct {
	remote     auctionSource
	catalog    catalog.ICatalogService
	commission commission.ICommissionService
}

var _ IAuctionService = (*auctionService)(nil)

func NewAuctionService(remote auctionSource, cat catalog.ICatalogService, com commission.ICommissionService) IAuctionService {
	return &auctionService{
		remote:     remote,
		catalog:    cat,
		commission: com,
	}
}

func (svc *auctionService) GetAuction(ctx context.Context, id string) (*AuctionDetailDTO, error) {
	a, err := svc.fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	var schema []domain.FieldSchema
	if slug := a.CategorySlug(); slug != "" {
		schema, err = svc.catalog.Fields(ctx, slug)
		if err != nil {
			// labels fall back to humanized keys
			zap.L().Debug("auction.fields", zap.String("category", slug), zap.Error(err))
			schema = nil
		}
	}

	dto := &AuctionDetailDTO{
		Auction:        a,
		Specifications: catalog.LabelSpecifications(a.Specifications, schema),
	}
	dto.BuyNowQuote = svc.quote(ctx, a)
	return dto, nil
}

// BuyNowQuote prices the buy-now purchase of an auction. It returns a nil
// quote for auctions that can be neither bought outright nor claimed.
func (svc *auctionService) BuyNowQuote(ctx context.Context, id string) (*commission.Quote, error) {
	a, err := svc.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	return svc.quote(ctx, a), nil
}

func (svc *auctionService) quote(ctx context.Context, a *domain.Auction) *commission.Quote {
	switch {
	case a.AuctionType == domain.AuctionTypeGiveaway:
		q := svc.commission.Quote(ctx, 0, a.AuctionType)
		return &q
	case a.BuyNowPrice != nil:
		q := svc.commission.Quote(ctx, *a.BuyNowPrice, a.AuctionType)
		return &q
	}
	return nil
}

func (svc *auctionService) fetch(ctx context.Context, id string) (*domain.Auction, error) {
	a, err := svc.remote.Auction(ctx, id)
	if err != nil {
		var apiErr *remoteapi.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return nil, ErrAuctionNotFound
		}
		return nil, err
	}
	return a, nil
}
