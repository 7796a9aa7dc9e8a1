package domain

type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleWarden  Role = "WARDEN"
	RoleStudent Role = "STUDENT"
)

// IsStaff reports whether the role may manage fees, payments and waitlists.
func (r Role) IsStaff() bool { return r == RoleAdmin || r == RoleWarden }

type RoomType string

const (
	RoomSingle      RoomType = "SINGLE"
	RoomDouble      RoomType = "DOUBLE"
	RoomTriple      RoomType = "TRIPLE"
	RoomFourSharing RoomType = "FOUR_SHARING"
	RoomDormitory   RoomType = "DORMITORY"
)

type FeeType string

const (
	FeeMonthly    FeeType = "MONTHLY"
	FeeQuarterly  FeeType = "QUARTERLY"
	FeeHalfYearly FeeType = "HALF_YEARLY"
	FeeYearly     FeeType = "YEARLY"
)

// PeriodMonths is the billing period length for recurring fee types.
func (f FeeType) PeriodMonths() (int, bool) {
	switch f {
	case FeeMonthly:
		return 1, true
	case FeeQuarterly:
		return 3, true
	case FeeHalfYearly:
		return 6, true
	case FeeYearly:
		return 12, true
	}
	return 0, false
}

// ChargeType says how a utility is billed.
type ChargeType string

const (
	ChargeIncluded     ChargeType = "INCLUDED"
	ChargeActual       ChargeType = "ACTUAL"
	ChargeFixedMonthly ChargeType = "FIXED_MONTHLY"
)

type PaymentStatus string

const (
	PaymentPending           PaymentStatus = "PENDING"
	PaymentProcessing        PaymentStatus = "PROCESSING"
	PaymentCompleted         PaymentStatus = "COMPLETED"
	PaymentFailed            PaymentStatus = "FAILED"
	PaymentRefunded          PaymentStatus = "REFUNDED"
	PaymentPartiallyRefunded PaymentStatus = "PARTIALLY_REFUNDED"
)

// Collected reports whether money was received for the payment at some point.
func (s PaymentStatus) Collected() bool {
	return s == PaymentCompleted || s == PaymentRefunded || s == PaymentPartiallyRefunded
}

type PaymentType string

const (
	PaymentTypeRent            PaymentType = "RENT"
	PaymentTypeSecurityDeposit PaymentType = "SECURITY_DEPOSIT"
	PaymentTypeMessFee         PaymentType = "MESS_FEE"
	PaymentTypeMaintenance     PaymentType = "MAINTENANCE"
	PaymentTypeOther           PaymentType = "OTHER"
)

type PaymentMethod string

const (
	MethodGateway      PaymentMethod = "PAYMENT_GATEWAY"
	MethodCash         PaymentMethod = "CASH"
	MethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	MethodUPI          PaymentMethod = "UPI"
	MethodCard         PaymentMethod = "CARD"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingCheckedIn BookingStatus = "CHECKED_IN"
	BookingCompleted BookingStatus = "COMPLETED"
)

type ReferralStatus string

const (
	ReferralPending     ReferralStatus = "PENDING"
	ReferralRegistered  ReferralStatus = "REGISTERED"
	ReferralBookingMade ReferralStatus = "BOOKING_MADE"
	ReferralCompleted   ReferralStatus = "COMPLETED"
	ReferralExpired     ReferralStatus = "EXPIRED"
	ReferralCancelled   ReferralStatus = "CANCELLED"
)

type RewardStatus string

const (
	RewardPending   RewardStatus = "PENDING"
	RewardApproved  RewardStatus = "APPROVED"
	RewardPaid      RewardStatus = "PAID"
	RewardCancelled RewardStatus = "CANCELLED"
)

type WaitlistStatus string

const (
	WaitlistWaiting   WaitlistStatus = "WAITING"
	WaitlistNotified  WaitlistStatus = "NOTIFIED"
	WaitlistConverted WaitlistStatus = "CONVERTED"
	WaitlistCancelled WaitlistStatus = "CANCELLED"
)

// Waitlist event names pushed to staff sockets.
const (
	EventWaitlistJoined    = "waitlist.joined"
	EventWaitlistNotified  = "waitlist.notified"
	EventWaitlistConverted = "waitlist.converted"
	EventWaitlistCancelled = "waitlist.cancelled"
)

const DefaultCurrency = "INR"
