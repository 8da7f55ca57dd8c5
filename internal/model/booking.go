package model

import "time"

// BookingStatus is the lifecycle state of a booking.  A booking is
// created confirmed and can only move to cancelled; cancelled is
// terminal for status, though a cancelled booking may later be
// permanently removed by an administrator.
type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// CancelActor records who initiated a cancellation.  It is set if and
// only if the booking status is cancelled.
type CancelActor string

const (
	CancelledByUser  CancelActor = "user"
	CancelledByAdmin CancelActor = "admin"
)

// PaymentStatus tracks the payment state of a booking independently of
// its seat-holding status.  Allowed transitions are
// unpaid → pending → paid, plus pending → unpaid when verification
// fails.  paid never regresses.
type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

// CanTransitionTo reports whether the payment state machine allows
// moving from p to next.
func (p PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	switch p {
	case PaymentUnpaid:
		return next == PaymentPending
	case PaymentPending:
		return next == PaymentPaid || next == PaymentUnpaid
	default: // paid is terminal
		return false
	}
}

// Booking records a confirmed claim on one or more seats for a
// showtime.  Seats and TotalPriceCents are fixed at creation; only
// status, cancellation attribution and payment fields change
// afterwards.
//
// Fields:
//  ID              – primary key identifier.
//  UserID          – owner; zero when the booking was created without an
//                    authenticated user (ownership is then unverifiable
//                    and user-initiated cancellation impossible).
//  ShowtimeID      – showtime the seats are claimed for.
//  Seats           – normalized seat ids, unique within the booking.
//  TotalPriceCents – len(Seats) × showtime price, frozen at creation.
//  Status          – confirmed or cancelled.
//  CanceledBy      – set only when Status is cancelled.
//  PaymentStatus   – unpaid, pending or paid.
//  PaymentRef      – provider reference from payment initiation.
//  PaidAt          – set only on verified payment.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Booking struct {
	ID              uint64         `json:"id"`
	UserID          uint64         `json:"user_id,omitempty"`
	ShowtimeID      uint64         `json:"showtime_id"`
	Seats           []string       `json:"seats"`
	TotalPriceCents uint32         `json:"total_price_cents"`
	Status          BookingStatus  `json:"status"`
	CanceledBy      CancelActor    `json:"canceled_by,omitempty"`
	PaymentStatus   PaymentStatus  `json:"payment_status"`
	PaymentRef      *string        `json:"payment_ref,omitempty"`
	PaidAt          *time.Time     `json:"paid_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// IsConfirmed reports whether the booking currently holds its seats.
func (b *Booking) IsConfirmed() bool { return b.Status == BookingConfirmed }

// IsCancelled reports whether the booking has been cancelled.
func (b *Booking) IsCancelled() bool { return b.Status == BookingCancelled }

// OwnedBy reports whether the booking belongs to the given user.  A
// booking without an owner is owned by nobody.
func (b *Booking) OwnedBy(userID uint64) bool {
	return b.UserID != 0 && b.UserID == userID
}
