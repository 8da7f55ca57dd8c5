package booking

import (
	"context"
	"errors"
	"fmt"

	"cinebook/internal/model"
)

// loadOwnedBooking fetches a booking and verifies the caller may act
// on its payment: the owner or an administrator.
func (s *Service) loadOwnedBooking(ctx context.Context, bookingID uint64, ident model.Identity) (*model.Booking, error) {
	b, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.OwnedBy(ident.UserID) && !ident.IsAdmin() {
		return nil, ErrForbidden
	}
	return b, nil
}

// InitiatePayment starts a payment for a confirmed, not-yet-paid
// booking.  On success the booking moves to pending and stores the
// provider reference; the caller redirects the customer to the
// returned URL.  A gateway failure leaves the booking untouched.
func (s *Service) InitiatePayment(ctx context.Context, bookingID uint64, ident model.Identity) (*PaymentIntent, error) {
	if s.gateway == nil {
		return nil, ErrPaymentGateway
	}
	b, err := s.loadOwnedBooking(ctx, bookingID, ident)
	if err != nil {
		return nil, err
	}
	if !b.IsConfirmed() {
		return nil, ErrBookingNotFound
	}
	if b.PaymentStatus == model.PaymentPaid {
		return nil, ErrAlreadyPaid
	}
	intent, err := s.gateway.Initiate(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}
	ref := intent.Ref
	if err := s.store.UpdatePayment(ctx, b.ID, model.PaymentPending, &ref, nil); err != nil {
		return nil, err
	}
	return intent, nil
}

// VerifyPayment checks a payment's outcome against the gateway.  The
// supplied reference must match the one stored at initiation.  A
// confirmed result marks the booking paid; any other result, timeout
// or gateway error resolves the booking back to unpaid, never to an
// indeterminate state and never to a cancellation of the seat hold.
// Payment and seat-holding are independent concerns.
func (s *Service) VerifyPayment(ctx context.Context, bookingID uint64, ref string, ident model.Identity) (*model.Booking, error) {
	b, err := s.loadOwnedBooking(ctx, bookingID, ident)
	if err != nil {
		return nil, err
	}
	if b.PaymentRef == nil || *b.PaymentRef != ref {
		return nil, ErrReferenceMismatch
	}
	if b.PaymentStatus == model.PaymentPaid {
		// Already verified; nothing to do.
		return b, nil
	}
	// Only a pending payment may settle.  A booking demoted to unpaid
	// keeps its reference and must be initiated again.
	if !b.PaymentStatus.CanTransitionTo(model.PaymentPaid) {
		return nil, ErrPaymentNotPending
	}
	if s.gateway == nil {
		return nil, ErrPaymentGateway
	}
	result, err := s.gateway.Verify(ctx, ref)
	if err != nil {
		if dErr := s.demoteToUnpaid(ctx, b); dErr != nil {
			return nil, dErr
		}
		return nil, fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}
	if !result.Completed {
		if dErr := s.demoteToUnpaid(ctx, b); dErr != nil {
			return nil, dErr
		}
		return nil, fmt.Errorf("%w: provider status %q", ErrPaymentIncomplete, result.Status)
	}
	paidAt := s.now()
	if err := s.store.UpdatePayment(ctx, b.ID, model.PaymentPaid, nil, &paidAt); err != nil {
		return nil, err
	}
	return s.store.GetBooking(ctx, b.ID)
}

// demoteToUnpaid resolves a failed or incomplete verification to the
// unpaid state.  pending → unpaid is the only backward edge in the
// payment machine; a booking that is not pending is left alone.
func (s *Service) demoteToUnpaid(ctx context.Context, b *model.Booking) error {
	if !b.PaymentStatus.CanTransitionTo(model.PaymentUnpaid) {
		return nil
	}
	err := s.store.UpdatePayment(ctx, b.ID, model.PaymentUnpaid, nil, nil)
	if err != nil && !errors.Is(err, ErrBookingNotFound) {
		return err
	}
	return nil
}
