package product

import (
	v "catalog_api/internal/validation"
)

// productRules is shared by store and update.
func productRules() v.Set {
	return v.Set{
		{Name: "name", Rules: []v.Rule{v.Required(), v.String(), v.Max(255)}},
		{Name: "description", Rules: []v.Rule{v.String()}},
		{Name: "email", Rules: []v.Rule{v.Required(), v.String(), v.Email(), v.Max(255)}},
		{Name: "quantity", Rules: []v.Rule{v.Required(), v.Integer()}},
		{Name: "active", Rules: []v.Rule{v.Required(), v.Boolean()}},
		{Name: "created_at", Rules: []v.Rule{v.Required(), v.Date()}},
	}
}

// fromInput builds a product from a body that already passed productRules.
func fromInput(in v.Input) (*Product, error) {
	quantity, err := v.Int64(in["quantity"])
	if err != nil {
		return nil, err
	}
	active, err := v.Bool(in["active"])
	if err != nil {
		return nil, err
	}
	createdAt, err := v.Time(in["created_at"])
	if err != nil {
		return nil, err
	}

	return &Product{
		Name:        v.Str(in["name"]),
		Description: v.OptionalString(in["description"]),
		Email:       v.Str(in["email"]),
		Quantity:    quantity,
		Active:      active,
		CreatedAt:   createdAt,
	}, nil
}
