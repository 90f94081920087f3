package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Pet represents a pet listed for adoption by an organization.
type Pet struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Species        string             `bson:"species" json:"species"` // "dog", "cat"
	Breed          string             `bson:"breed" json:"breed"`
	AgeMonths      int                `bson:"age_months" json:"age_months"`
	Description    string             `bson:"description" json:"description"`
	OrganizationID string             `bson:"organization_id" json:"organization_id"`
	City           string             `bson:"city" json:"city"`
	Adopted        bool               `bson:"adopted" json:"adopted"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}
