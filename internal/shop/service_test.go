package shop

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/guildforge/coinbot/internal/domain"
	"github.com/guildforge/coinbot/internal/repository"
)

// MockShopRepo
type MockShopRepo struct {
	mock.Mock
}

func (m *MockShopRepo) GetShop(ctx context.Context, guildID string) (*domain.Shop, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Shop), args.Error(1)
}

func (m *MockShopRepo) GetItem(ctx context.Context, guildID, itemID string) (*domain.ShopItem, error) {
	args := m.Called(ctx, guildID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShopItem), args.Error(1)
}

func (m *MockShopRepo) AddItem(ctx context.Context, guildID string, item domain.ShopItem) error {
	args := m.Called(ctx, guildID, item)
	return args.Error(0)
}

func (m *MockShopRepo) UpdateItem(ctx context.Context, guildID string, item domain.ShopItem) error {
	args := m.Called(ctx, guildID, item)
	return args.Error(0)
}

func (m *MockShopRepo) RemoveItem(ctx context.Context, guildID, itemID string) error {
	args := m.Called(ctx, guildID, itemID)
	return args.Error(0)
}

func (m *MockShopRepo) ClearShop(ctx context.Context, guildID string) error {
	args := m.Called(ctx, guildID)
	return args.Error(0)
}

// stubProfileRepo only implements the inventory write used by purchases.
type stubProfileRepo struct {
	repository.Profile

	addErr error
	added  map[string]int
}

func (s *stubProfileRepo) AddInventoryItem(ctx context.Context, userID, guildID, itemID string, quantity int) error {
	if s.addErr != nil {
		return s.addErr
	}
	if s.added == nil {
		s.added = make(map[string]int)
	}
	s.added[itemID] += quantity
	return nil
}

// stubLedger tracks balance adjustments.
type stubLedger struct {
	balance int64
	deltas  []int64
}

func (l *stubLedger) GetBalance(ctx context.Context, userID, guildID string) (int64, error) {
	return l.balance, nil
}

func (l *stubLedger) AdjustBalance(ctx context.Context, userID, guildID string, delta int64) (int64, error) {
	if delta < 0 && l.balance+delta < 0 {
		return 0, fmt.Errorf("%w: balance %d", domain.ErrInsufficientFunds, l.balance)
	}
	l.balance += delta
	l.deltas = append(l.deltas, delta)
	return l.balance, nil
}

func (l *stubLedger) SetBalance(ctx context.Context, userID, guildID string, amount int64) error {
	l.balance = amount
	return nil
}

var testItem = domain.ShopItem{ItemID: "sword", Name: "Sword", Price: 150}

func TestBuyItem_DebitsAndAddsToInventory(t *testing.T) {
	shopRepo := new(MockShopRepo)
	shopRepo.On("GetItem", mock.Anything, "guild1", "sword").Return(&testItem, nil)
	profiles := &stubProfileRepo{}
	ledger := &stubLedger{balance: 1000}

	svc := NewService(shopRepo, profiles, ledger)
	item, err := svc.BuyItem(context.Background(), "user1", "guild1", "sword", 2)
	require.NoError(t, err)

	assert.Equal(t, "Sword", item.Name)
	assert.Equal(t, int64(700), ledger.balance)
	assert.Equal(t, 2, profiles.added["sword"])
	shopRepo.AssertExpectations(t)
}

func TestBuyItem_InsufficientFunds(t *testing.T) {
	shopRepo := new(MockShopRepo)
	shopRepo.On("GetItem", mock.Anything, "guild1", "sword").Return(&testItem, nil)
	profiles := &stubProfileRepo{}
	ledger := &stubLedger{balance: 100}

	svc := NewService(shopRepo, profiles, ledger)
	_, err := svc.BuyItem(context.Background(), "user1", "guild1", "sword", 1)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.Empty(t, profiles.added)
}

func TestBuyItem_RefundsOnInventoryFailure(t *testing.T) {
	shopRepo := new(MockShopRepo)
	shopRepo.On("GetItem", mock.Anything, "guild1", "sword").Return(&testItem, nil)
	profiles := &stubProfileRepo{addErr: errors.New("db down")}
	ledger := &stubLedger{balance: 1000}

	svc := NewService(shopRepo, profiles, ledger)
	_, err := svc.BuyItem(context.Background(), "user1", "guild1", "sword", 1)
	require.Error(t, err)

	// Debit reversed
	assert.Equal(t, int64(1000), ledger.balance)
	assert.Equal(t, []int64{-150, 150}, ledger.deltas)
}

func TestBuyItem_UnknownItem(t *testing.T) {
	shopRepo := new(MockShopRepo)
	shopRepo.On("GetItem", mock.Anything, "guild1", "ghost").Return(nil, domain.ErrShopItemNotFound)
	ledger := &stubLedger{balance: 1000}

	svc := NewService(shopRepo, &stubProfileRepo{}, ledger)
	_, err := svc.BuyItem(context.Background(), "user1", "guild1", "ghost", 1)
	assert.ErrorIs(t, err, domain.ErrShopItemNotFound)
	assert.Empty(t, ledger.deltas)
}

func TestBuyItem_RejectsNonPositiveQuantity(t *testing.T) {
	svc := NewService(new(MockShopRepo), &stubProfileRepo{}, &stubLedger{balance: 1000})

	_, err := svc.BuyItem(context.Background(), "user1", "guild1", "sword", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAddItem_Validation(t *testing.T) {
	shopRepo := new(MockShopRepo)
	svc := NewService(shopRepo, &stubProfileRepo{}, &stubLedger{})

	err := svc.AddItem(context.Background(), "guild1", domain.ShopItem{Name: "No ID"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = svc.AddItem(context.Background(), "guild1", domain.ShopItem{ItemID: "x", Name: "X", Price: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	shopRepo.On("AddItem", mock.Anything, "guild1", mock.Anything).Return(nil)
	err = svc.AddItem(context.Background(), "guild1", domain.ShopItem{ItemID: "x", Name: "X", Price: 10})
	assert.NoError(t, err)
}
