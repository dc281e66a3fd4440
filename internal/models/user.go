package models

import (
	"gorm.io/datatypes"
)

type User struct {
	BaseModel
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Name         string     `json:"name"`
	Role         UserRole   `gorm:"type:varchar(20);not null" json:"role"`
	Status       UserStatus `gorm:"type:varchar(20);default:'active'" json:"status"`
	IsVerified   bool       `gorm:"default:false" json:"is_verified"`

	// Relations
	ArtistProfile *ArtistProfile `gorm:"foreignKey:UserID" json:"artist_profile,omitempty"`
}

// ArtistProfile holds the artist's public presence. RatingAverage and
// RatingCount are a derived cache over published reviews; the rating
// aggregator is their sole writer.
type ArtistProfile struct {
	BaseModel
	UserID      string         `gorm:"not null;uniqueIndex" json:"user_id"`
	DisplayName string         `json:"display_name"`
	Bio         string         `json:"bio"`
	City        string         `gorm:"index" json:"city"`
	Categories  datatypes.JSON `gorm:"type:jsonb" json:"categories"` // ["dj", "photographer", ...]

	RatingAverage float64 `gorm:"default:0" json:"rating_average"` // mean of published reviews, 1 decimal
	RatingCount   int     `gorm:"default:0" json:"rating_count"`
}
