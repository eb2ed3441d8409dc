package entities

import "time"

// Listing is a rentable property owned by an Account.
//
// Latitude and Longitude are optional; when present they have been validated
// to lie within [-90,90] and [-180,180] by the service layer. AmenityIDs is
// the many-to-many association with Amenity, by id.
type Listing struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	City        string    `json:"city" db:"city"`
	Price       float64   `json:"price" db:"price"`
	Latitude    *float64  `json:"latitude,omitempty" db:"latitude"`
	Longitude   *float64  `json:"longitude,omitempty" db:"longitude"`
	OwnerID     string    `json:"owner_id" db:"owner_id"`
	AmenityIDs  []string  `json:"amenity_ids"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
