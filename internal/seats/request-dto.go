package seats

type OccupyRequest struct {
	SeatIDs []string `json:"seat_ids" binding:"required,min=1,dive,uuid"`
}

type SetStatusRequest struct {
	SeatIDs []string `json:"seat_ids" binding:"required,min=1,dive,uuid"`
	Status  string   `json:"status" binding:"required,oneof=available reserved"`
}
