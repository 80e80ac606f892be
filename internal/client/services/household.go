package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"duet/internal/client/api"
	"duet/internal/client/models"
)

// HouseholdService tracks the household the user belongs to, if any, and
// its member list.
//
// Fetch distinguishes "no household yet" (backend 404, state cleared,
// ErrNoHousehold returned) from a failed fetch (state kept, error returned).
type HouseholdService interface {
	Fetch(ctx context.Context) error
	Create(ctx context.Context, name string) (*models.Household, error)
	Join(ctx context.Context, inviteCode string) (*models.Household, error)
	Leave(ctx context.Context) error
	Current() *models.Household
	Members() []models.UserBrief
}

type householdService struct {
	client api.API

	mu        sync.RWMutex
	household *models.Household
}

// NewHouseholdService constructs a HouseholdService bound to the given API client.
func NewHouseholdService(client api.API) HouseholdService {
	return &householdService{client: client}
}

func (h *householdService) set(hh *models.Household) {
	h.mu.Lock()
	h.household = hh
	h.mu.Unlock()
}

func (h *householdService) Fetch(ctx context.Context) error {
	hh, err := h.client.CurrentHousehold(ctx)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			h.set(nil)
			return ErrNoHousehold
		}
		// Transient failure: keep whatever we had rather than blanking
		// the member list.
		return err
	}
	h.set(hh)
	return nil
}

func (h *householdService) Create(ctx context.Context, name string) (*models.Household, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("household name is empty")
	}

	hh, err := h.client.CreateHousehold(ctx, name)
	if err != nil {
		return nil, err
	}
	h.set(hh)
	return hh, nil
}

// Join joins a household by invite code. Codes are stored uppercase
// server-side; entry is case-insensitive.
func (h *householdService) Join(ctx context.Context, inviteCode string) (*models.Household, error) {
	inviteCode = strings.ToUpper(strings.TrimSpace(inviteCode))
	if inviteCode == "" {
		return nil, ErrEmptyInviteCode
	}

	hh, err := h.client.JoinHousehold(ctx, inviteCode)
	if err != nil {
		return nil, err
	}
	h.set(hh)
	return hh, nil
}

func (h *householdService) Leave(ctx context.Context) error {
	if err := h.client.LeaveHousehold(ctx); err != nil {
		return err
	}
	h.set(nil)
	return nil
}

func (h *householdService) Current() *models.Household {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.household == nil {
		return nil
	}
	hh := *h.household
	return &hh
}

func (h *householdService) Members() []models.UserBrief {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.household == nil {
		return nil
	}
	return append([]models.UserBrief(nil), h.household.Members...)
}
