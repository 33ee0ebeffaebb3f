package entity

type Admin struct {
	BaseNoDelete
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
}
