package notifications

import (
	"context"

	"ticketera/internal/users"
)

// RecipientSource resolves a target audience to addressees
type RecipientSource interface {
	Recipients(ctx context.Context, audience Audience) ([]Recipient, error)
}

type ProfileLister interface {
	ListByRole(ctx context.Context, role users.Role) ([]users.Profile, error)
}

type userRecipients struct {
	profiles ProfileLister
}

func NewUserRecipients(profiles ProfileLister) RecipientSource {
	return &userRecipients{profiles: profiles}
}

func (u *userRecipients) Recipients(ctx context.Context, audience Audience) ([]Recipient, error) {
	var role users.Role
	switch audience {
	case AudienceUsers:
		role = users.RoleUser
	case AudienceOperators:
		role = users.RoleOperator
	case AudienceAdmins:
		role = users.RoleAdmin
	}

	profiles, err := u.profiles.ListByRole(ctx, role)
	if err != nil {
		return nil, err
	}
	out := make([]Recipient, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, Recipient{ID: p.ID, Name: p.FullName, Email: p.Email, Phone: p.Phone})
	}
	return out, nil
}
