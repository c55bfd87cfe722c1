package models

const (
	RoleAdmin    = "admin"
	RoleStandard = "standard"
)

type User struct {
	Base
	Name         string `json:"name"`
	Email        string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         string `gorm:"size:16;default:standard" json:"role"`
	Phone        string `json:"phone"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pin          string `json:"pin"`
	ProfileImage string `json:"profileImage"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
