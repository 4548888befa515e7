package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// StringArray stores a JSON-encoded string slice in a single column so the
// same model works on PostgreSQL and the SQLite test database.
type StringArray []string

// Value implements database/sql/driver.Valuer
func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan implements database/sql.Scanner
func (s *StringArray) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan StringArray")
	}

	return json.Unmarshal(bytes, s)
}

type BusinessStatus string

const (
	StatusPending   BusinessStatus = "pending"
	StatusApproved  BusinessStatus = "approved"
	StatusRejected  BusinessStatus = "rejected"
	StatusSuspended BusinessStatus = "suspended"
)

// Accessibility flag values carried in Business.Accessibility
const (
	AccessWheelchair      = "wheelchair_accessible"
	AccessRestroom        = "accessible_restroom"
	AccessGenderNeutralWC = "gender_neutral_restroom"
	AccessASLFriendly     = "asl_friendly"
	AccessSensoryFriendly = "sensory_friendly"
	AccessServiceAnimals  = "service_animals_welcome"
)

type Business struct {
	ID          uint     `gorm:"primarykey" json:"id"`
	OwnerID     *uint    `gorm:"index" json:"owner_id,omitempty"` // nullable - unclaimed listings have no owner
	Owner       *User    `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Name        string   `gorm:"not null" json:"name"`
	Description string   `gorm:"type:text" json:"description"`
	Category    string   `gorm:"index" json:"category"`

	// Location
	Address   string   `gorm:"type:text" json:"address"`
	City      string   `gorm:"index" json:"city"`
	Region    string   `gorm:"index" json:"region"`
	Latitude  *float64 `gorm:"type:decimal(10,8)" json:"latitude,omitempty"`
	Longitude *float64 `gorm:"type:decimal(11,8)" json:"longitude,omitempty"`

	// Contact
	Phone   string `gorm:"type:varchar(30)" json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Website string `json:"website,omitempty"`

	ImageURL      string      `json:"image_url,omitempty"`
	Accessibility StringArray `gorm:"type:text" json:"accessibility,omitempty"`

	Status   BusinessStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	Featured bool           `gorm:"default:false;index" json:"featured"`

	// Denormalized rating aggregate. Mutated only through the review
	// aggregate transaction and the reconciliation job.
	AverageRating float64 `gorm:"default:0" json:"average_rating"`
	TotalReviews  int     `gorm:"default:0" json:"total_reviews"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Business) TableName() string {
	return "businesses"
}
