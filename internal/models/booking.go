package models

import (
	"gorm.io/datatypes"
)

type PackageType string

const (
	PackageStandard PackageType = "Standard"
	PackageDeluxe   PackageType = "Deluxe"
	PackagePremium  PackageType = "Premium"
)

var Genders = []string{"Male", "Female", "Other"}

type Traveler struct {
	Name   string `json:"name" minLength:"1" maxLength:"120"`
	Age    int    `json:"age" minimum:"0" maximum:"150"`
	Gender string `json:"gender" enum:"Male,Female,Other"`
}

type PersonalInfo struct {
	Phone string `json:"phone" minLength:"1"`
	State string `json:"state" minLength:"1"`
	City  string `json:"city" minLength:"1"`
	Email string `json:"email" minLength:"1"`
	Pin   string `json:"pin" minLength:"1"`
}

type Booking struct {
	Base
	BookingRef      string                        `gorm:"uniqueIndex;size:32;not null" json:"bookingRef"`
	UserID          string                        `gorm:"index;size:36;not null" json:"userId"`
	User            *User                         `json:"user,omitempty"`
	DestinationID   string                        `gorm:"index;size:36;not null" json:"destinationId"`
	Destination     *Destination                  `json:"destination,omitempty"`
	PackageType     PackageType                   `gorm:"size:16;not null;default:Standard" json:"packageType"`
	Travelers       datatypes.JSONSlice[Traveler] `gorm:"not null" json:"travelers"`
	TravelDate      string                        `gorm:"size:10;not null" json:"travelDate"`
	PersonalInfo    PersonalInfo                  `gorm:"embedded;embeddedPrefix:personal_" json:"personalInfo"`
	UPIID           string                        `gorm:"column:upi_id;not null" json:"upiId"`
	SpecialRequests string                        `json:"specialRequests"`
	TotalPrice      float64                       `gorm:"not null" json:"totalPrice"`
}
