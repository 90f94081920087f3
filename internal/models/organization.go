package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Organization is an adoption organization that can receive donations.
type Organization struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	PixKey      string             `bson:"pix_key" json:"pix_key"`
	Description string             `bson:"description" json:"description"`
	City        string             `bson:"city" json:"city"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}
