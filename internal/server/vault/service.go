package vault

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dsmirnov/passvault/internal/common"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create stores a new item for the account. The EncryptedPassword field is
// taken as-is; the caller guarantees it is ciphertext.
func (s *Service) Create(ctx context.Context, accountID string, item *Item) (*Item, error) {
	item.ID = uuid.NewString()
	item.AccountID = accountID

	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("error creating vault item: %w", err)
	}
	return created, nil
}

func (s *Service) Get(ctx context.Context, accountID, id string) (*Item, error) {
	item, err := s.repo.GetByID(ctx, accountID, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return item, nil
}

func (s *Service) Update(ctx context.Context, accountID string, item *Item) (*Item, error) {
	item.AccountID = accountID

	updated, err := s.repo.Update(ctx, item)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, accountID, id string) error {
	err := s.repo.Delete(ctx, accountID, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}
	return nil
}

func (s *Service) Search(ctx context.Context, accountID, search string) ([]*Item, error) {
	items, err := s.repo.Search(ctx, accountID, search)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return items, nil
}
