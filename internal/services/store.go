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

// MongoDonationStore persists donation records and charge journal entries.
type MongoDonationStore struct {
	donations *mongo.Collection
	journal   *mongo.Collection
}

func NewMongoDonationStore(db *mongo.Database) *MongoDonationStore {
	return &MongoDonationStore{
		donations: db.Collection("donations"),
		journal:   db.Collection("charge_journal"),
	}
}

// EnsureIndexes creates the indexes the read paths and the webhook rely on.
func (s *MongoDonationStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.donations.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.M{"charge_id": 1}},
		{Keys: bson.D{{Key: "beneficiary_id", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create donation indexes: %w", err)
	}
	_, err = s.journal.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.M{"charge_id": 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create journal indexes: %w", err)
	}
	return nil
}

func (s *MongoDonationStore) SaveDonation(ctx context.Context, rec *models.DonationRecord) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rec.ID = primitive.NewObjectID().Hex()
	if _, err := s.donations.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("failed to save donation: %w", err)
	}
	return nil
}

func (s *MongoDonationStore) SaveJournal(ctx context.Context, entry *models.ChargeJournal) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := s.journal.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to save charge journal entry: %w", err)
	}
	return nil
}

func (s *MongoDonationStore) UpdatePaymentStatus(ctx context.Context, chargeID, status string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := s.donations.UpdateOne(ctx, bson.M{"charge_id": chargeID}, bson.M{
		"$set": bson.M{"payment_status": status},
	})
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("donation not found for charge %s", chargeID)
	}
	return nil
}

func (s *MongoDonationStore) ListByBeneficiary(ctx context.Context, beneficiaryID string) ([]models.DonationRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cur, err := s.donations.Find(ctx,
		bson.M{"beneficiary_id": beneficiaryID},
		options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch donations: %w", err)
	}
	defer cur.Close(ctx)

	var records []models.DonationRecord
	if err := cur.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode donations: %w", err)
	}
	return records, nil
}

func (s *MongoDonationStore) GetByChargeID(ctx context.Context, chargeID string) (*models.DonationRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var rec models.DonationRecord
	if err := s.donations.FindOne(ctx, bson.M{"charge_id": chargeID}).Decode(&rec); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("donation not found")
		}
		return nil, fmt.Errorf("failed to fetch donation: %w", err)
	}
	return &rec, nil
}
