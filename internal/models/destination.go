package models

type Destination struct {
	Base
	Title           string  `gorm:"not null" json:"title"`
	Description     string  `json:"description"`
	Price           float64 `gorm:"not null;check:price >= 0" json:"price" doc:"Price per person"`
	Duration        string  `gorm:"not null" json:"duration" doc:"Free text, e.g. \"5 Days / 4 Nights\""`
	ImagePath       string  `json:"imagePath"`
	BrochurePath    string  `json:"brochurePath"`
	IsHidden        bool    `gorm:"index" json:"isHidden"`
	MoreDestination bool    `json:"moreDestination"`
}
