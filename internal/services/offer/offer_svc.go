// Package offer drives the broker's offer inbox: the accept/reject/counter
// workflow on received offers and the buyer-side offer placement.
package offer

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"ironbid/internal/domain"
	"ironbid/internal/remoteapi"
	"ironbid/internal/session"
)

var (
	ErrOfferNotFound       = errors.New("offer not found")
	ErrNotPending          = errors.New("offer is no longer pending")
	ErrUnsupportedDecision = errors.New("brokers can only accept, reject or counter")
)

// EventsChannel is the Redis channel carrying offer events for one broker.
func EventsChannel(username string) string {
	return "broker:" + username + ":events"
}

// ChangedEvent is published after a broker action changed an offer.
type ChangedEvent struct {
	Version   int                `json:"version"`
	Event     string             `json:"event"`
	AuctionID string             `json:"auctionId"`
	OfferID   string             `json:"offerId"`
	Status    domain.OfferStatus `json:"status"`
}

type RespondRequest struct {
	AuctionID      string
	OfferID        string
	Decision       domain.Decision
	Message        string
	CounterAmount  *float64
	CounterMessage string
	// Known is the broker's already-loaded inbox. When it holds the target
	// the pre-flight checks run against it and no list request is made.
	Known []domain.Offer
}

type offerRemote interface {
	SellerOffers(ctx context.Context, sess session.Session) ([]domain.Offer, error)
	SellerOfferStats(ctx context.Context, sess session.Session) (*domain.OfferStats, error)
	RespondToOffer(ctx context.Context, sess session.Session, auctionID, offerID string, p remoteapi.RespondPayload) error
	PlaceOffer(ctx context.Context, sess session.Session, auctionID string, p remoteapi.PlaceOfferPayload) (*domain.Offer, error)
	Auction(ctx context.Context, id string) (*domain.Auction, error)
}

type IOfferService interface {
	List(ctx context.Context, sess session.Session) []domain.Offer
	Stats(ctx context.Context, sess session.Session) domain.OfferStats
	Respond(ctx context.Context, sess session.Session, req RespondRequest) ([]domain.Offer, error)
	AcceptWarning(offers []domain.Offer, target domain.Offer) int
	PlaceOffer(ctx context.Context, sess session.Session, auctionID string, amount float64, message string) (*domain.Offer, error)
}

type offerService struct {
	remote offerRemote
	rdc    *redis.Client
}

var _ IOfferService = (*offerService)(nil)

// NewOfferService wires the workflow. rdc may be nil, in which case no
// change events are published.
func NewOfferService(remote offerRemote, rdc *redis.Client) IOfferService {
	return &offerService{remote: remote, rdc: rdc}
}

// List returns every offer received by the broker; failures yield an empty list.
func (svc *offerService) List(ctx context.Context, sess session.Session) []domain.Offer {
	offers, err := svc.remote.SellerOffers(ctx, sess)
	if err != nil {
		zap.L().Warn("offer.list", zap.String("broker", sess.Username), zap.Error(err))
		return []domain.Offer{}
	}
	if offers == nil {
		return []domain.Offer{}
	}
	return offers
}

func (svc *offerService) Stats(ctx context.Context, sess session.Session) domain.OfferStats {
	st, err := svc.remote.SellerOfferStats(ctx, sess)
	if err != nil {
		zap.L().Warn("offer.stats", zap.String("broker", sess.Username), zap.Error(err))
		return domain.OfferStats{}
	}
	return *st
}

// Respond applies a broker decision to a pending offer and returns the
// re-fetched offer list. Nothing is updated locally before the server
// confirms the action.
func (svc *offerService) Respond(ctx context.Context, sess session.Session, req RespondRequest) ([]domain.Offer, error) {
	switch req.Decision {
	case domain.DecisionAccept, domain.DecisionReject, domain.DecisionCounter:
	default:
		return nil, ErrUnsupportedDecision
	}
	if req.Decision == domain.DecisionCounter && req.CounterAmount == nil {
		return nil, &ValidationError{Field: "counterAmount", Message: "counter amount is required"}
	}

	offers := req.Known
	target, ok := find(offers, req.AuctionID, req.OfferID)
	if !ok {
		var err error
		if offers, err = svc.remote.SellerOffers(ctx, sess); err != nil {
			return nil, err
		}
		if target, ok = find(offers, req.AuctionID, req.OfferID); !ok {
			return nil, ErrOfferNotFound
		}
	}
	if target.Status != domain.OfferPending {
		return nil, ErrNotPending
	}
	next, err := domain.Transition(target.Status, req.Decision)
	if err != nil {
		return nil, err
	}

	payload := remoteapi.RespondPayload{Response: string(req.Decision), Message: req.Message}
	if req.Decision == domain.DecisionCounter {
		if err := ValidateCounter(target.Amount, target.Auction.BuyNowPrice, *req.CounterAmount); err != nil {
			return nil, err
		}
		payload.CounterAmount = req.CounterAmount
		payload.CounterMessage = req.CounterMessage
	}

	if err := svc.remote.RespondToOffer(ctx, sess, req.AuctionID, req.OfferID, payload); err != nil {
		zap.L().Info("offer.respond_failed",
			zap.String("offer", req.OfferID),
			zap.String("decision", string(req.Decision)),
			zap.Error(err))
		return nil, err
	}
	zap.L().Info("offer.responded",
		zap.String("broker", sess.Username),
		zap.String("offer", req.OfferID),
		zap.String("status", string(next)))

	svc.publish(ctx, sess.Username, ChangedEvent{
		Version:   1,
		Event:     "changed",
		AuctionID: req.AuctionID,
		OfferID:   req.OfferID,
		Status:    next,
	})

	fresh, err := svc.remote.SellerOffers(ctx, sess)
	if err != nil {
		// the action went through; the caller keeps its previous view
		zap.L().Warn("offer.refetch", zap.Error(err))
		return offers, nil
	}
	if fresh == nil {
		fresh = []domain.Offer{}
	}
	return fresh, nil
}

// AcceptWarning counts the other pending offers on the same auction. The
// server rejects all of them when target is accepted.
func (svc *offerService) AcceptWarning(offers []domain.Offer, target domain.Offer) int {
	n := 0
	for _, o := range offers {
		if o.ID != target.ID && o.Auction.ID == target.Auction.ID && o.Status == domain.OfferPending {
			n++
		}
	}
	return n
}

func (svc *offerService) PlaceOffer(ctx context.Context, sess session.Session, auctionID string, amount float64, message string) (*domain.Offer, error) {
	a, err := svc.remote.Auction(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	if err := ValidatePlacement(a, amount); err != nil {
		return nil, err
	}
	o, err := svc.remote.PlaceOffer(ctx, sess, auctionID, remoteapi.PlaceOfferPayload{Amount: amount, Message: message})
	if err != nil {
		return nil, err
	}
	zap.L().Info("offer.placed", zap.String("auction", auctionID), zap.String("buyer", sess.Username))
	return o, nil
}

func (svc *offerService) publish(ctx context.Context, broker string, evt ChangedEvent) {
	if svc.rdc == nil || broker == "" {
		return
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	if err := svc.rdc.Publish(ctx, EventsChannel(broker), string(b)).Err(); err != nil {
		zap.L().Warn("offer.publish", zap.String("broker", broker), zap.Error(err))
	}
}

func find(offers []domain.Offer, auctionID, offerID string) (domain.Offer, bool) {
	for _, o := range offers {
		if o.ID == offerID && (auctionID == "" || o.Auction.ID == auctionID) {
			return o, true
		}
	}
	return domain.Offer{}, false
}
