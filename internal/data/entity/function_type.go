package entity

type FunctionType struct {
	BaseNoDelete
	Name        string  `db:"name"`
	Slug        string  `db:"slug"`
	Price       float64 `db:"price"`
	Description *string `db:"description"`
	IsActive    bool    `db:"is_active"`
}
