package service

import (
	"alcyxob/coachplan/internal/domain"
	"alcyxob/coachplan/internal/repository"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrClientNotFound       = errors.New("client user not found")
	ErrClientNotRole        = errors.New("user found but is not a client")
	ErrClientAlreadyCoached = errors.New("client is already linked to another coach")
)

// RosterService manages the coach/client link so programs can be
// assigned to real clients.
type RosterService interface {
	AddClientByEmail(ctx context.Context, coachID primitive.ObjectID, clientEmail string) (*domain.User, error)
	GetManagedClients(ctx context.Context, coachID primitive.ObjectID) ([]domain.User, error)
}

// rosterService implements the RosterService interface.
type rosterService struct {
	userRepo repository.UserRepository
}

// NewRosterService creates a new instance of rosterService.
func NewRosterService(userRepo repository.UserRepository) RosterService {
	return &rosterService{userRepo: userRepo}
}

// AddClientByEmail finds a client by email and links them to the coach.
func (s *rosterService) AddClientByEmail(ctx context.Context, coachID primitive.ObjectID, clientEmail string) (*domain.User, error) {
	if coachID == primitive.NilObjectID || clientEmail == "" {
		return nil, errors.New("coach ID and client email are required")
	}

	client, err := s.userRepo.GetByEmail(ctx, clientEmail)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	if !client.IsClient() {
		return nil, ErrClientNotRole
	}

	if client.CoachID != nil && *client.CoachID != primitive.NilObjectID {
		if *client.CoachID == coachID {
			// Already linked to this coach.
			return client, nil
		}
		return nil, ErrClientAlreadyCoached
	}

	if err := s.userRepo.SetCoachForClient(ctx, client.ID, coachID); err != nil {
		return nil, err
	}
	client.CoachID = &coachID
	client.PasswordHash = ""
	return client, nil
}

// GetManagedClients retrieves the clients linked to the coach.
func (s *rosterService) GetManagedClients(ctx context.Context, coachID primitive.ObjectID) ([]domain.User, error) {
	if coachID == primitive.NilObjectID {
		return nil, errors.New("coach ID is required")
	}
	clients, err := s.userRepo.GetClientsByCoachID(ctx, coachID)
	if err != nil {
		return nil, err
	}
	for i := range clients {
		clients[i].PasswordHash = ""
	}
	return clients, nil
}
