package models

import "velorent/src/types"

type Company struct {
	ID           uint   `gorm:"primarykey" json:"id"`
	CompanyName  string `json:"company_name"`
	ContactEmail string `json:"contact_email,omitempty"`
	Status       string `json:"status,omitempty"`

	types.Timestamps
}
