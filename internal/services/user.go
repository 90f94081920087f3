package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/adotapet/adotapet-backend/internal/models"
)

// UserService handles donor profile accounts: registration and login with
// JWT issuance.
type UserService struct {
	collection *mongo.Collection
	jwtSecret  []byte
}

func NewUserService(db *mongo.Database, jwtSecret string) *UserService {
	return &UserService{
		collection: db.Collection("users"),
		jwtSecret:  []byte(jwtSecret),
	}
}

// Register hashes the password and stores the user. Email must be unused.
func (s *UserService) Register(ctx context.Context, user *models.User, password string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	count, err := s.collection.CountDocuments(ctx, bson.M{"email": user.Email})
	if err != nil {
		return "", fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return "", errors.New("email already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	user.ID = primitive.NewObjectID()
	user.HPassword = string(hashed)
	user.CreatedAt = time.Now()

	result, err := s.collection.InsertOne(ctx, user)
	if err != nil {
		return "", fmt.Errorf("failed to save user: %w", err)
	}
	return result.InsertedID.(primitive.ObjectID).Hex(), nil
}

// Login verifies the credentials and returns a signed token.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var user models.User
	if err := s.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return "", nil, errors.New("invalid credentials")
		}
		return "", nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HPassword), []byte(password)); err != nil {
		return "", nil, errors.New("invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   user.ID.Hex(),
		"email": user.Email,
		"exp":   time.Now().Add(24 * time.Hour).Unix(),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, &user, nil
}
