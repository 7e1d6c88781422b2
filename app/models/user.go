package models

import "strings"

const (
	RoleFarmer = "farmer"
	RoleBuyer  = "buyer"
)

// ValidRole reports whether role is one of the two account kinds.
func ValidRole(role string) bool {
	switch strings.TrimSpace(role) {
	case RoleFarmer, RoleBuyer:
		return true
	}
	return false
}

// User is a marketplace account. Password is compared in plaintext and is
// never serialised.
type User struct {
	ID       uint   `gorm:"primaryKey"                   json:"id"`
	Name     string `gorm:"size:255;not null"            json:"name"`
	Email    string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password string `gorm:"size:255;not null"            json:"-"`
	Role     string `gorm:"size:20;not null"             json:"role"`
}

// Address is the single delivery address kept per buyer email.
type Address struct {
	ID          uint   `gorm:"primaryKey"                   json:"id"`
	BuyerEmail  string `gorm:"size:255;uniqueIndex;not null" json:"buyerEmail"`
	FirstName   string `gorm:"size:255"                     json:"firstName"`
	LastName    string `gorm:"size:255"                     json:"lastName"`
	Phone       string `gorm:"size:50"                      json:"phone"`
	Province    string `gorm:"size:255"                     json:"province"`
	District    string `gorm:"size:255"                     json:"district"`
	CityAddress string `gorm:"size:500"                     json:"cityAddress"`
}

// CopyFrom overwrites every field except identity and email.
func (a *Address) CopyFrom(src Address) {
	a.FirstName = src.FirstName
	a.LastName = src.LastName
	a.Phone = src.Phone
	a.Province = src.Province
	a.District = src.District
	a.CityAddress = src.CityAddress
}

// Name is a guestbook entry.
type Name struct {
	ID   uint   `gorm:"primaryKey"        json:"id"`
	Name string `gorm:"size:255;not null" json:"name"`
}
