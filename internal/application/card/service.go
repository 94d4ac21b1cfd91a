package card

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/abz-group/portal-api/internal/access"
	"github.com/abz-group/portal-api/internal/domain"
	"github.com/abz-group/portal-api/internal/pkg/id"
)

type Service interface {
	ListVisible(ctx context.Context, p access.Principal) ([]domain.Card, error)
	Create(ctx context.Context, in domain.CardInput) (*domain.Card, error)
	Get(ctx context.Context, cardID string) (*domain.Card, error)
	Update(ctx context.Context, cardID string, in domain.CardInput) (*domain.Card, error)
	Delete(ctx context.Context, cardID string) error
}

type cardStore interface {
	Put(ctx context.Context, c *domain.Card) error
	Get(ctx context.Context, cardID string) (*domain.Card, error)
	Scan(ctx context.Context) ([]domain.Card, error)
	Update(ctx context.Context, cardID string, updates map[string]interface{}) error
	HardDelete(ctx context.Context, cardID string) error
}

type service struct {
	repo cardStore
}

func NewService(repo cardStore) Service {
	return &service{repo: repo}
}

// ListVisible returns the cards the principal may see, sorted by display
// order.
func (s *service) ListVisible(ctx context.Context, p access.Principal) ([]domain.Card, error) {
	cards, err := s.repo.Scan(ctx)
	if err != nil {
		return nil, err
	}
	visible := make([]domain.Card, 0, len(cards))
	for _, c := range cards {
		if access.CanAccess(p, resourceOf(&c)) {
			visible = append(visible, c)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool { return visible[i].Order < visible[j].Order })
	return visible, nil
}

func (s *service) Create(ctx context.Context, in domain.CardInput) (*domain.Card, error) {
	for _, role := range in.AllowedRoles {
		if !domain.ValidRole(role) {
			return nil, fmt.Errorf("unknown role %q: %w", role, domain.ErrBadRequest)
		}
	}
	now := time.Now().UTC()
	enabled := true
	if in.Enable != nil {
		enabled = *in.Enable
	}
	c := &domain.Card{
		CardID:         id.New(),
		Title:          in.Title,
		Description:    in.Description,
		Href:           in.Href,
		Icon:           in.Icon,
		Order:          in.Order,
		AdminOnly:      in.AdminOnly,
		ManagerOnly:    in.ManagerOnly,
		AllowedRoles:   in.AllowedRoles,
		AllowedUserIDs: in.AllowedUserIDs,
		Enable:         enabled,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Put(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Get(ctx context.Context, cardID string) (*domain.Card, error) {
	return s.repo.Get(ctx, cardID)
}

// Update replaces the editable fields wholesale. Cards are small admin-owned
// records, a full rewrite keeps the repo call simple.
func (s *service) Update(ctx context.Context, cardID string, in domain.CardInput) (*domain.Card, error) {
	c, err := s.repo.Get(ctx, cardID)
	if err != nil {
		return nil, err
	}
	for _, role := range in.AllowedRoles {
		if !domain.ValidRole(role) {
			return nil, fmt.Errorf("unknown role %q: %w", role, domain.ErrBadRequest)
		}
	}
	updates := map[string]interface{}{
		"title":            in.Title,
		"description":      in.Description,
		"href":             in.Href,
		"icon":             in.Icon,
		"order":            in.Order,
		"admin_only":       in.AdminOnly,
		"manager_only":     in.ManagerOnly,
		"allowed_roles":    in.AllowedRoles,
		"allowed_user_ids": in.AllowedUserIDs,
	}
	if in.Enable != nil {
		updates["enable"] = *in.Enable
	}
	if err := s.repo.Update(ctx, cardID, updates); err != nil {
		return nil, err
	}
	c.Title = in.Title
	c.Description = in.Description
	c.Href = in.Href
	c.Icon = in.Icon
	c.Order = in.Order
	c.AdminOnly = in.AdminOnly
	c.ManagerOnly = in.ManagerOnly
	c.AllowedRoles = in.AllowedRoles
	c.AllowedUserIDs = in.AllowedUserIDs
	if in.Enable != nil {
		c.Enable = *in.Enable
	}
	return c, nil
}

func (s *service) Delete(ctx context.Context, cardID string) error {
	return s.repo.HardDelete(ctx, cardID)
}

func resourceOf(c *domain.Card) access.Resource {
	return access.Resource{
		AdminOnly:      c.AdminOnly,
		ManagerOnly:    c.ManagerOnly,
		AllowedRoles:   c.AllowedRoles,
		AllowedUserIDs: c.AllowedUserIDs,
	}
}
