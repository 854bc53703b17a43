package models

import "time"

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	FirstName  string `gorm:"column:first_name;type:varchar(120)" json:"first_name"`
	LastName   string `gorm:"column:last_name;type:varchar(120)" json:"last_name"`
	Email      string `gorm:"column:email;uniqueIndex;type:varchar(255)" json:"email"`
	NationalID string `gorm:"column:national_id;uniqueIndex;type:varchar(20)" json:"national_id"`
	Phone      string `gorm:"column:phone;type:varchar(20)" json:"phone"`

	PasswordHash string `gorm:"column:password_hash;type:varchar(255)" json:"-"`
	Role         string `gorm:"column:role;type:varchar(20);default:customer" json:"role"`

	CreatedAt time.Time `json:"-"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
