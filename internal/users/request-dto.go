package users

import "ticketera/internal/shared/listing"

type UpdateRolesRequest struct {
	Roles []string `json:"roles" binding:"required,min=1,dive,oneof=admin operator user"`
}

type UpdateProfileRequest struct {
	FullName *string `json:"full_name" binding:"omitempty,min=2,max=120"`
	Phone    *string `json:"phone" binding:"omitempty,max=20"`
}

// ProfileListQuery filters the users screen; Type selects a role.
type ProfileListQuery struct {
	listing.Query
}
