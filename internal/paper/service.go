package paper

import (
	"errors"
	"log"
	"sync"

	"lv-paperdesk/internal/marketdata"
	"lv-paperdesk/internal/model"
	"lv-paperdesk/internal/store"

	"github.com/shopspring/decimal"
)

// Service fronts one paper ledger per user. It owns the lock the
// ledgers themselves do not have, injects the price source for
// derived views and persists a snapshot after every mutation. A
// failed save is logged and otherwise ignored: the ledger contract
// has no persistence failure mode.
type Service struct {
	mu          sync.Mutex
	snaps       *store.SnapshotStore
	prices      marketdata.Source
	initialCash decimal.Decimal
	ledgers     map[string]*Ledger
}

func NewService(snaps *store.SnapshotStore, prices marketdata.Source, initialCash decimal.Decimal) *Service {
	return &Service{
		snaps:       snaps,
		prices:      prices,
		initialCash: initialCash,
		ledgers:     map[string]*Ledger{},
	}
}

func snapshotKey(userID string) string {
	return "paper-" + userID
}

// ledgerFor hydrates the user's ledger from the snapshot store on
// first use. Caller holds s.mu.
func (s *Service) ledgerFor(userID string) *Ledger {
	if l, ok := s.ledgers[userID]; ok {
		return l
	}
	l := NewLedger(s.initialCash)
	var snap Snapshot
	err := s.snaps.Load(snapshotKey(userID), &snap)
	switch {
	case err == nil:
		l.Restore(snap)
	case !errors.Is(err, store.ErrNotFound):
		log.Printf("[Paper] load snapshot for %s: %v", userID, err)
	}
	s.ledgers[userID] = l
	return l
}

func (s *Service) persist(userID string, l *Ledger) {
	if err := s.snaps.Save(snapshotKey(userID), l.Snapshot()); err != nil {
		log.Printf("[Paper] save snapshot for %s: %v", userID, err)
	}
}

func (s *Service) SubmitOrder(userID string, req SubmitRequest) (model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.ledgerFor(userID)
	order, err := l.SubmitOrder(req)
	if err != nil {
		return model.Order{}, err
	}
	s.persist(userID, l)
	return order, nil
}

func (s *Service) CancelOrder(userID, orderID string) (model.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.ledgerFor(userID)
	order, changed := l.CancelOrder(orderID)
	if changed {
		s.persist(userID, l)
	}
	return order, changed
}

func (s *Service) ExecuteOrder(userID, orderID string, currentPrice decimal.Decimal) (model.Order, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.ledgerFor(userID)
	order, found, err := l.ExecuteOrder(orderID, currentPrice)
	if found && err == nil {
		s.persist(userID, l)
	}
	return order, found, err
}

func (s *Service) AddFunds(userID string, amount decimal.Decimal) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.ledgerFor(userID)
	if err := l.AddFunds(amount); err != nil {
		return decimal.Zero, err
	}
	s.persist(userID, l)
	return l.Cash(), nil
}

func (s *Service) ResetAccount(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.ledgerFor(userID)
	l.ResetAccount()
	s.persist(userID, l)
}

func (s *Service) Orders(userID string) []model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledgerFor(userID).Orders()
}

func (s *Service) PendingOrders(userID string) []model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledgerFor(userID).PendingOrders()
}

func (s *Service) Positions(userID string) []model.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledgerFor(userID).Positions()
}

type AccountSummary struct {
	Cash           decimal.Decimal `json:"cash"`
	PortfolioValue decimal.Decimal `json:"portfolio_value"`
	Equity         decimal.Decimal `json:"equity"`
}

func (s *Service) Summary(userID string) AccountSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.ledgerFor(userID)
	value := l.PortfolioValue(s.prices.GetPrice)
	return AccountSummary{
		Cash:           l.Cash(),
		PortfolioValue: value,
		Equity:         l.Cash().Add(value),
	}
}

// SweepSymbol tries every loaded pending order for one symbol against
// the ticked price. Orders whose trigger is not met stay pending;
// sells that can no longer be covered stay pending too and are logged.
func (s *Service) SweepSymbol(symbol string, price decimal.Decimal) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	filled := 0
	for userID, l := range s.ledgers {
		changed := false
		for _, o := range l.PendingOrders() {
			if o.Symbol != symbol {
				continue
			}
			_, _, err := l.ExecuteOrder(o.ID, price)
			switch {
			case err == nil:
				filled++
				changed = true
			case errors.Is(err, ErrTriggerNotMet):
			case IsInsufficientHoldings(err):
				log.Printf("[Paper] order %s for %s cannot fill: %v", o.ID, userID, err)
			case err != nil:
				log.Printf("[Paper] execute %s for %s: %v", o.ID, userID, err)
			}
		}
		if changed {
			s.persist(userID, l)
		}
	}
	return filled
}
