package settings

type UpsertSettingRequest struct {
	Value       string  `json:"value" binding:"max=4000"`
	Description *string `json:"description" binding:"omitempty,max=255"`
}

// BulkUpdateRequest maps keys to new values
type BulkUpdateRequest struct {
	Values map[string]string `json:"values" binding:"required,min=1,dive,keys,max=100,endkeys,max=4000"`
}
