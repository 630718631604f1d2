package app

import (
	"context"
	"time"

	"archetype-quiz-service/internal/clock"
	"archetype-quiz-service/internal/domain"
	"archetype-quiz-service/internal/kvstore"
	"go.uber.org/zap"
)

// DeliveryTimestampLayout is the human-readable delivery timestamp.
const DeliveryTimestampLayout = "January 2, 2006 at 3:04 PM"

// UnlockService simulates purchases: payment happens elsewhere and the
// client reports back, so completing a purchase simply grants the flag.
type UnlockService struct {
	store       kvstore.Store
	clock       clock.Clock
	paymentURLs map[domain.Product]string
	confirmWait time.Duration
	refs        *referenceGenerator
}

func NewUnlockService(store kvstore.Store, c clock.Clock, paymentURLs map[domain.Product]string, confirmWait time.Duration) *UnlockService {
	return &UnlockService{
		store:       store,
		clock:       c,
		paymentURLs: paymentURLs,
		confirmWait: confirmWait,
		refs:        newReferenceGenerator(time.Now().UnixNano()),
	}
}

// State returns the unlock flags and the latest delivery record.
func (s *UnlockService) State(ctx context.Context, profileID string) domain.UnlockState {
	keys := scoped(s.store, profileID)
	state := domain.UnlockState{
		Flags: kvstore.LoadJSON(ctx, keys, keyUnlocks, map[domain.Product]bool{}),
	}
	if state.Flags == nil {
		state.Flags = map[domain.Product]bool{}
	}
	if rec := kvstore.LoadJSON[*domain.DeliveryRecord](ctx, keys, keyDelivery, nil); rec != nil && rec.Reference != "" {
		state.Delivery = rec
	}
	return state
}

// Require returns domain.ErrLocked unless product has been granted.
func (s *UnlockService) Require(ctx context.Context, profileID string, product domain.Product) error {
	if !s.State(ctx, profileID).Unlocked(product) {
		return domain.ErrLocked
	}
	return nil
}

// BeginPurchase returns the external payment link for product.
func (s *UnlockService) BeginPurchase(_ context.Context, _ string, product domain.Product) (string, error) {
	if !product.Valid() {
		return "", domain.ErrUnknownProduct
	}
	return s.paymentURLs[product], nil
}

// CompletePurchase grants product and issues an unconfirmed delivery record.
func (s *UnlockService) CompletePurchase(ctx context.Context, profileID string, product domain.Product) (domain.DeliveryRecord, error) {
	if !product.Valid() {
		return domain.DeliveryRecord{}, domain.ErrUnknownProduct
	}
	keys := scoped(s.store, profileID)
	state := s.State(ctx, profileID)
	state.Flags[product] = true
	if err := kvstore.SaveJSON(ctx, keys, keyUnlocks, state.Flags); err != nil {
		return domain.DeliveryRecord{}, err
	}

	rec := s.newDelivery(false)
	if err := kvstore.SaveJSON(ctx, keys, keyDelivery, rec); err != nil {
		return domain.DeliveryRecord{}, err
	}
	zap.L().Info("purchase completed",
		zap.String("profile", profileID),
		zap.String("product", string(product)),
		zap.String("reference", rec.Reference))
	return rec, nil
}

// ConfirmDelivery marks the delivery record confirmed once the mandatory wait
// since its creation has elapsed.
func (s *UnlockService) ConfirmDelivery(ctx context.Context, profileID string) (domain.DeliveryRecord, error) {
	state := s.State(ctx, profileID)
	if state.Delivery == nil {
		return domain.DeliveryRecord{}, domain.ErrNoDelivery
	}
	rec := *state.Delivery
	if rec.Confirmed {
		return rec, nil
	}
	if s.clock.Now().Sub(rec.CreatedAt) < s.confirmWait {
		return rec, domain.ErrConfirmTooEarly
	}
	rec.Confirmed = true
	if err := kvstore.SaveJSON(ctx, scoped(s.store, profileID), keyDelivery, rec); err != nil {
		return domain.DeliveryRecord{}, err
	}
	return rec, nil
}

// Activate grants every product and fabricates a confirmed delivery record.
func (s *UnlockService) Activate(ctx context.Context, profileID string) (domain.UnlockState, error) {
	keys := scoped(s.store, profileID)
	flags := make(map[domain.Product]bool, len(domain.Products))
	for _, p := range domain.Products {
		flags[p] = true
	}
	if err := kvstore.SaveJSON(ctx, keys, keyUnlocks, flags); err != nil {
		return domain.UnlockState{}, err
	}
	rec := s.newDelivery(true)
	if err := kvstore.SaveJSON(ctx, keys, keyDelivery, rec); err != nil {
		return domain.UnlockState{}, err
	}
	zap.L().Debug("profile activated", zap.String("profile", profileID))
	return domain.UnlockState{Flags: flags, Delivery: &rec}, nil
}

func (s *UnlockService) newDelivery(confirmed bool) domain.DeliveryRecord {
	now := s.clock.Now()
	return domain.DeliveryRecord{
		Reference: s.refs.next(now),
		Timestamp: now.Format(DeliveryTimestampLayout),
		CreatedAt: now,
		Confirmed: confirmed,
	}
}
