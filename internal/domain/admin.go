package domain

import "time"

// AdminUser — учётная запись оператора бэк-офиса.
type AdminUser struct {
	ID           string
	Email        string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
}
