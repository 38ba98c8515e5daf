package service

import (
	"alcyxob/coachplan/internal/domain"
	"alcyxob/coachplan/internal/repository"
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrExerciseNameTaken = errors.New("another exercise already uses this name")
)

// ExerciseDefaults carries the fields used only when a catalog entry is
// created on first use.
type ExerciseDefaults struct {
	TargetType  domain.TargetType
	Description string
	VideoURL    string
	CreatedBy   primitive.ObjectID
}

// CatalogService is the deduplicated exercise library. Entries are
// shared: an update issued from one assignment edit is visible through
// every other assignment referencing the same entry.
type CatalogService interface {
	GetOrCreate(ctx context.Context, name string, defaults ExerciseDefaults) (*domain.Exercise, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	List(ctx context.Context) ([]domain.Exercise, error)
	Update(ctx context.Context, id primitive.ObjectID, name, description, videoURL string) (*domain.Exercise, error)
}

// catalogService implements the CatalogService interface.
type catalogService struct {
	exerciseRepo repository.ExerciseRepository
}

// NewCatalogService creates a new instance of catalogService.
func NewCatalogService(exerciseRepo repository.ExerciseRepository) CatalogService {
	return &catalogService{exerciseRepo: exerciseRepo}
}

// GetOrCreate returns the existing exercise with that exact name, or
// creates one from the defaults. Never produces a duplicate row.
func (s *catalogService) GetOrCreate(ctx context.Context, name string, defaults ExerciseDefaults) (*domain.Exercise, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrValidationFailed
	}
	targetType := defaults.TargetType
	if targetType == "" {
		targetType = domain.TargetReps
	}

	exercise := &domain.Exercise{
		Name:        name,
		TargetType:  targetType,
		Description: defaults.Description,
		VideoURL:    defaults.VideoURL,
		CreatedBy:   defaults.CreatedBy,
	}
	found, _, err := s.exerciseRepo.GetOrCreate(ctx, exercise)
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (s *catalogService) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return exercise, nil
}

func (s *catalogService) List(ctx context.Context) ([]domain.Exercise, error) {
	return s.exerciseRepo.List(ctx)
}

// Update mutates name/description/video link of the shared entry in
// place. Renaming from one assignment-edit call renames the exercise
// everywhere it is referenced; the entry is a named concept shared
// across the whole catalog.
func (s *catalogService) Update(ctx context.Context, id primitive.ObjectID, name, description, videoURL string) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	if name = strings.TrimSpace(name); name != "" {
		exercise.Name = name
	}
	exercise.Description = description
	exercise.VideoURL = videoURL

	if err := s.exerciseRepo.Update(ctx, exercise); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrExerciseNameTaken
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return exercise, nil
}
