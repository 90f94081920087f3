package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/adotapet/adotapet-backend/internal/models"
)

const (
	orgListCacheKey = "organizations:list"
	orgListCacheTTL = 5 * time.Minute
)

// OrganizationService serves the adoption organizations donors pick a
// beneficiary from. The list read goes through an optional Redis
// read-through cache; a nil client disables caching.
type OrganizationService struct {
	collection *mongo.Collection
	cache      *redis.Client
	logger     *zap.Logger
}

func NewOrganizationService(db *mongo.Database, cache *redis.Client, logger *zap.Logger) *OrganizationService {
	return &OrganizationService{
		collection: db.Collection("organizations"),
		cache:      cache,
		logger:     logger,
	}
}

func (s *OrganizationService) List(ctx context.Context) ([]models.Organization, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, orgListCacheKey).Bytes(); err == nil {
			var orgs []models.Organization
			if err := json.Unmarshal(raw, &orgs); err == nil {
				return orgs, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn("Organization cache read failed", zap.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cur, err := s.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"name": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch organizations: %w", err)
	}
	defer cur.Close(ctx)

	var orgs []models.Organization
	if err := cur.All(ctx, &orgs); err != nil {
		return nil, fmt.Errorf("failed to decode organizations: %w", err)
	}

	if s.cache != nil {
		if raw, err := json.Marshal(orgs); err == nil {
			if err := s.cache.Set(ctx, orgListCacheKey, raw, orgListCacheTTL).Err(); err != nil {
				s.logger.Warn("Organization cache write failed", zap.Error(err))
			}
		}
	}
	return orgs, nil
}

func (s *OrganizationService) Get(ctx context.Context, id string) (*models.Organization, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid organization id: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var org models.Organization
	if err := s.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&org); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("organization not found")
		}
		return nil, fmt.Errorf("failed to fetch organization: %w", err)
	}
	return &org, nil
}

// Create registers an organization and invalidates the list cache.
func (s *OrganizationService) Create(ctx context.Context, org *models.Organization) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	org.ID = primitive.NewObjectID()
	org.CreatedAt = time.Now()
	if _, err := s.collection.InsertOne(ctx, org); err != nil {
		return "", fmt.Errorf("failed to save organization: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Del(ctx, orgListCacheKey).Err(); err != nil {
			s.logger.Warn("Organization cache invalidation failed", zap.Error(err))
		}
	}
	return org.ID.Hex(), nil
}
