package models

type Review struct {
	Base
	DestinationID  string   `gorm:"size:36;not null;uniqueIndex:idx_review_destination_user" json:"destinationId"`
	UserID         string   `gorm:"size:36;not null;uniqueIndex:idx_review_destination_user" json:"userId"`
	Author         *Author  `gorm:"foreignKey:UserID" json:"author,omitempty"`
	Name           string   `gorm:"default:Anonymous" json:"name"`
	Rating         float64  `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment        string   `gorm:"size:500" json:"comment"`
	Food           *float64 `json:"food,omitempty"`
	Lodging        *float64 `json:"lodging,omitempty"`
	Transportation *float64 `json:"transportation,omitempty"`
	Hotels         *float64 `json:"hotels,omitempty"`
}

// Author is the public slice of a User shown next to a review.
type Author struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ProfileImage string `json:"profileImage"`
}

func (Author) TableName() string {
	return "users"
}
