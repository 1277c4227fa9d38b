package bookings

type Type string

const (
	TypeEvent     Type = "event"
	TypeTransport Type = "transport"
)

// PaymentStatus and Status are independent axes; changing one never touches the other.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusUsed      Status = "used"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusConfirmed, StatusCancelled, StatusUsed:
		return true
	}
	return false
}

func (s Status) CanBeCancelled() bool {
	return s == StatusConfirmed
}
