package payments

type StartSessionRequest struct {
	BookingID string `json:"booking_id" binding:"required,uuid"`
}

type SelectMethodRequest struct {
	Method string `json:"method" binding:"required"`
}

// SubmitDetailsRequest carries the non-QR method form. Details are not stored.
type SubmitDetailsRequest struct {
	HolderName string `json:"holder_name" binding:"omitempty,max=120"`
	Email      string `json:"email" binding:"omitempty,email"`
	CardLast4  string `json:"card_last4" binding:"omitempty,len=4,numeric"`
}

type WebhookRequest struct {
	EventID   string `json:"event_id" binding:"required"`
	Reference string `json:"reference" binding:"required"`
	Status    string `json:"status" binding:"required,oneof=paid failed"`
	Reason    string `json:"reason"`
}
