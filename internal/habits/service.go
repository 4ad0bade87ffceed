package habits

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ayurai/ayurai/internal/store"
)

// Service persists a user's plan.
type Service struct {
	repo   store.PlanRepo
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a habits service. A nil logger discards output.
func NewService(repo store.PlanRepo, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// AddManual adds a planned item with the manual-entry defaults. The
// category is parsed with ParseCategory.
func (s *Service) AddManual(ctx context.Context, userID, title, category string) (Item, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Item{}, ErrEmptyTitle
	}
	it := Item{
		ID:          uuid.NewString(),
		UserID:      userID,
		Category:    ParseCategory(category),
		Title:       title,
		Description: ManualDescription,
		Benefits:    ManualBenefits,
		Planned:     true,
		CreatedAt:   s.now(),
	}
	if err := s.add(ctx, it); err != nil {
		return Item{}, err
	}
	return it, nil
}

// AddSuggested stores suggested items as unplanned. Items with an empty
// title are skipped.
func (s *Service) AddSuggested(ctx context.Context, userID string, items []Item) ([]Item, error) {
	var added []Item
	for _, it := range items {
		it.Title = strings.TrimSpace(it.Title)
		if it.Title == "" {
			continue
		}
		it.ID = uuid.NewString()
		it.UserID = userID
		it.Planned = false
		it.CompletedAt = nil
		it.CreatedAt = s.now()
		if err := s.add(ctx, it); err != nil {
			return added, err
		}
		added = append(added, it)
	}
	return added, nil
}

func (s *Service) add(ctx context.Context, it Item) error {
	err := s.repo.Add(ctx, &store.PlanItemData{
		ID:          it.ID,
		UserID:      it.UserID,
		Category:    string(it.Category),
		Title:       it.Title,
		Description: it.Description,
		Benefits:    it.Benefits,
		Planned:     it.Planned,
		CreatedAt:   it.CreatedAt,
		CompletedAt: it.CompletedAt,
	})
	if err != nil {
		return fmt.Errorf("add habit: %w", err)
	}
	s.logger.Debug("habit added", zap.String("user", it.UserID), zap.String("category", string(it.Category)))
	return nil
}

// List returns all of the user's items in creation order.
func (s *Service) List(ctx context.Context, userID string) ([]Item, error) {
	data, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	out := make([]Item, 0, len(data))
	for _, d := range data {
		out = append(out, Item{
			ID:          d.ID,
			UserID:      d.UserID,
			Category:    ParseCategory(d.Category),
			Title:       d.Title,
			Description: d.Description,
			Benefits:    d.Benefits,
			Planned:     d.Planned,
			CreatedAt:   d.CreatedAt,
			CompletedAt: d.CompletedAt,
		})
	}
	return out, nil
}

// Resolve finds an item by ID or unique ID prefix.
func (s *Service) Resolve(ctx context.Context, userID, ref string) (Item, error) {
	items, err := s.List(ctx, userID)
	if err != nil {
		return Item{}, err
	}
	return Find(items, ref)
}

// Toggle flips the completion state of the referenced item and returns it.
func (s *Service) Toggle(ctx context.Context, userID, ref string) (Item, error) {
	it, err := s.Resolve(ctx, userID, ref)
	if err != nil {
		return Item{}, err
	}
	it.Toggle(s.now())
	if err := s.repo.SetCompleted(ctx, userID, it.ID, it.CompletedAt); err != nil {
		return Item{}, mapNotFound(err)
	}
	return it, nil
}

// SetPlanned puts the referenced item on or off the active plan.
func (s *Service) SetPlanned(ctx context.Context, userID, ref string, planned bool) (Item, error) {
	it, err := s.Resolve(ctx, userID, ref)
	if err != nil {
		return Item{}, err
	}
	it.Planned = planned
	if err := s.repo.SetPlanned(ctx, userID, it.ID, planned); err != nil {
		return Item{}, mapNotFound(err)
	}
	return it, nil
}

// Remove deletes the referenced item.
func (s *Service) Remove(ctx context.Context, userID, ref string) (Item, error) {
	it, err := s.Resolve(ctx, userID, ref)
	if err != nil {
		return Item{}, err
	}
	if err := s.repo.Delete(ctx, userID, it.ID); err != nil {
		return Item{}, mapNotFound(err)
	}
	return it, nil
}

func mapNotFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}
