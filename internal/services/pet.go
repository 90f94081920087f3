package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/adotapet/adotapet-backend/internal/models"
)

// PetService serves the adoption listings.
type PetService struct {
	collection *mongo.Collection
}

func NewPetService(db *mongo.Database) *PetService {
	return &PetService{collection: db.Collection("pets")}
}

// PetFilter narrows List results. Empty fields are ignored.
type PetFilter struct {
	OrganizationID string
	City           string
	Species        string
}

func (s *PetService) List(ctx context.Context, filter PetFilter) ([]models.Pet, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	query := bson.M{"adopted": false}
	if filter.OrganizationID != "" {
		query["organization_id"] = filter.OrganizationID
	}
	if filter.City != "" {
		query["city"] = filter.City
	}
	if filter.Species != "" {
		query["species"] = filter.Species
	}

	cur, err := s.collection.Find(ctx, query, options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pets: %w", err)
	}
	defer cur.Close(ctx)

	var pets []models.Pet
	if err := cur.All(ctx, &pets); err != nil {
		return nil, fmt.Errorf("failed to decode pets: %w", err)
	}
	return pets, nil
}

func (s *PetService) Get(ctx context.Context, id string) (*models.Pet, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid pet id: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var pet models.Pet
	if err := s.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&pet); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("pet not found")
		}
		return nil, fmt.Errorf("failed to fetch pet: %w", err)
	}
	return &pet, nil
}

// Create registers a pet for adoption.
func (s *PetService) Create(ctx context.Context, pet *models.Pet) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pet.ID = primitive.NewObjectID()
	pet.CreatedAt = time.Now()
	if _, err := s.collection.InsertOne(ctx, pet); err != nil {
		return "", fmt.Errorf("failed to save pet: %w", err)
	}
	return pet.ID.Hex(), nil
}
