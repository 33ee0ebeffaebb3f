package request

type CreateFunctionTypeRequest struct {
	Name        string   `json:"name"`
	Slug        *string  `json:"slug,omitempty" validate:"omitempty,max=120"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=1000"`
	IsActive    *bool    `json:"is_active,omitempty"`
}

// UpdateFunctionTypeRequest is a partial update; nil fields are left as they are.
type UpdateFunctionTypeRequest struct {
	Name        *string  `json:"name,omitempty"`
	Slug        *string  `json:"slug,omitempty" validate:"omitempty,max=120"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=1000"`
	IsActive    *bool    `json:"is_active,omitempty"`
}

type ChangeFunctionTypeStatusRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}
