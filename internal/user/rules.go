package user

import (
	"context"

	v "catalog_api/internal/validation"
)

func registerRules(svc UserServiceInterface) v.Set {
	return v.Set{
		{Name: "name", Rules: []v.Rule{v.Required(), v.String(), v.Max(255)}},
		{Name: "email", Rules: []v.Rule{v.Required(), v.String(), v.Email(), v.Max(255), v.Unique(emailLookup(svc, false))}},
		{Name: "password", Rules: []v.Rule{v.Required(), v.String(), v.Min(6), v.Confirmed()}},
	}
}

func loginRules() v.Set {
	return v.Set{
		{Name: "email", Rules: []v.Rule{v.Required(), v.String(), v.Email(), v.Max(255)}},
		{Name: "password", Rules: []v.Rule{v.Required(), v.String(), v.Min(6)}},
	}
}

func updateRules(svc UserServiceInterface) v.Set {
	return v.Set{
		{Name: "id", Rules: []v.Rule{v.Required(), v.Integer()}},
		{Name: "name", Rules: []v.Rule{v.Required(), v.String(), v.Max(255)}},
		{Name: "email", Rules: []v.Rule{v.Required(), v.String(), v.Email(), v.Max(255), v.Unique(emailLookup(svc, true))}},
		{Name: "password", Rules: []v.Rule{v.Required(), v.String(), v.Min(6), v.Confirmed()}},
	}
}

// emailLookup checks email ownership, optionally ignoring the user named by
// the "id" field of the same request.
func emailLookup(svc UserServiceInterface, exceptSelf bool) v.UniqueLookup {
	return func(ctx context.Context, email string, in v.Input) (bool, error) {
		var exceptID int64
		if exceptSelf {
			id, err := v.Int64(in["id"])
			if err == nil {
				exceptID = id
			}
		}
		return svc.EmailTaken(ctx, email, exceptID)
	}
}
