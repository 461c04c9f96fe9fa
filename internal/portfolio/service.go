package portfolio

import (
	"fmt"
	"sync"

	"lv-paperdesk/internal/marketdata"
	"lv-paperdesk/internal/model"
	"lv-paperdesk/internal/repository"

	"github.com/shopspring/decimal"
)

// Service fronts one real-account ledger per user, hydrated from the
// repository on first use and written back after every mutation. The
// in-memory ledger is authoritative for positions during a session;
// trade history reads go straight to the repository, which holds the
// full append-only log.
type Service struct {
	mu      sync.Mutex
	repo    *repository.Repository
	prices  marketdata.Source
	ledgers map[string]*Ledger
}

func NewService(repo *repository.Repository, prices marketdata.Source) *Service {
	return &Service{repo: repo, prices: prices, ledgers: map[string]*Ledger{}}
}

// ledgerFor hydrates from stored positions. Caller holds s.mu.
func (s *Service) ledgerFor(userID string) (*Ledger, error) {
	if l, ok := s.ledgers[userID]; ok {
		return l, nil
	}
	l := NewLedger()
	positions, err := s.repo.ListPositions(userID)
	if err != nil {
		return nil, fmt.Errorf("load positions: %w", err)
	}
	for _, pos := range positions {
		if pos.Qty.LessThanOrEqual(decimal.Zero) {
			continue
		}
		l.positions[pos.Symbol] = pos
	}
	s.ledgers[userID] = l
	return l, nil
}

func (s *Service) lastTrade(l *Ledger) (model.TradeHistoryEntry, bool) {
	history := l.History()
	if len(history) == 0 {
		return model.TradeHistoryEntry{}, false
	}
	return history[len(history)-1], true
}

func (s *Service) AddPosition(userID string, req AddRequest) (model.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, err := s.ledgerFor(userID)
	if err != nil {
		return model.Position{}, err
	}
	pos, err := l.AddPosition(req)
	if err != nil {
		return model.Position{}, err
	}
	if err := s.repo.SavePosition(userID, pos); err != nil {
		return pos, fmt.Errorf("save position: %w", err)
	}
	if entry, ok := s.lastTrade(l); ok {
		if err := s.repo.InsertTrade(userID, entry); err != nil {
			return pos, fmt.Errorf("record trade: %w", err)
		}
	}
	return pos, nil
}

func (s *Service) SellPosition(userID, symbol string, qty, execPrice decimal.Decimal) (model.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, err := s.ledgerFor(userID)
	if err != nil {
		return model.Position{}, err
	}
	pos, err := l.SellPosition(symbol, qty, execPrice)
	if err != nil {
		return model.Position{}, err
	}
	if _, stillHeld := l.Position(symbol); stillHeld {
		err = s.repo.SavePosition(userID, pos)
	} else {
		err = s.repo.DeletePosition(userID, symbol)
	}
	if err != nil {
		return pos, fmt.Errorf("save position: %w", err)
	}
	if entry, ok := s.lastTrade(l); ok {
		if err := s.repo.InsertTrade(userID, entry); err != nil {
			return pos, fmt.Errorf("record trade: %w", err)
		}
	}
	return pos, nil
}

func (s *Service) UpdatePosition(userID, symbol string, qty, avgPrice, totalInvestment decimal.Decimal) (model.Position, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, err := s.ledgerFor(userID)
	if err != nil {
		return model.Position{}, false, err
	}
	pos, found := l.UpdatePosition(symbol, qty, avgPrice, totalInvestment)
	if !found {
		return model.Position{}, false, nil
	}
	if _, stillHeld := l.Position(symbol); stillHeld {
		err = s.repo.SavePosition(userID, pos)
	} else {
		err = s.repo.DeletePosition(userID, symbol)
	}
	if err != nil {
		return pos, true, fmt.Errorf("save position: %w", err)
	}
	return pos, true, nil
}

func (s *Service) RemovePosition(userID, symbol string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, err := s.ledgerFor(userID)
	if err != nil {
		return false, err
	}
	if !l.RemovePosition(symbol) {
		return false, nil
	}
	if err := s.repo.DeletePosition(userID, symbol); err != nil {
		return true, fmt.Errorf("delete position: %w", err)
	}
	return true, nil
}

func (s *Service) ClearPortfolio(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, err := s.ledgerFor(userID)
	if err != nil {
		return err
	}
	l.ClearPortfolio()
	if err := s.repo.DeleteAllPositions(userID); err != nil {
		return fmt.Errorf("clear positions: %w", err)
	}
	return nil
}

func (s *Service) Positions(userID string) ([]model.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, err := s.ledgerFor(userID)
	if err != nil {
		return nil, err
	}
	return l.Positions(), nil
}

func (s *Service) History(userID string) ([]model.TradeHistoryEntry, error) {
	return s.repo.ListTrades(userID)
}

type Valuation struct {
	TotalInvestment decimal.Decimal `json:"total_investment"`
	MarketValue     decimal.Decimal `json:"market_value"`
}

func (s *Service) Valuation(userID string) (Valuation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, err := s.ledgerFor(userID)
	if err != nil {
		return Valuation{}, err
	}
	return Valuation{
		TotalInvestment: l.TotalInvestment(),
		MarketValue:     l.MarketValue(s.prices.GetPrice),
	}, nil
}
