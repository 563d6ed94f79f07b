// Package ledger implements trade settlement and watchlist maintenance for
// the single paper-trading account: a cash wallet, one holding per ticker
// with a quantity-weighted average cost, and a favorites list.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"papertrade/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service owns the persisted ledger records. All mutations run inside a
// database transaction, and Buy/Sell/Deposit are additionally serialized by
// a mutex so no two settlements see a partial view of wallet or holding
// state. Reads are not serialized.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger

	// Guards the read-modify-write cycle of settlements. One global lock is
	// enough: every settlement touches the single wallet row anyway.
	mu sync.Mutex
}

// NewService creates a ledger service on top of an already-migrated database.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{
		db:     db,
		logger: logger.Named("ledger"),
	}
}

// Wallet returns the singleton wallet row.
func (s *Service) Wallet(ctx context.Context) (models.Wallet, error) {
	var wallet models.Wallet
	if err := s.db.WithContext(ctx).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Wallet{}, ErrWalletNotFound
		}
		return models.Wallet{}, fmt.Errorf("failed to load wallet: %w", err)
	}
	return wallet, nil
}

// Deposit adds funds to the wallet, creating the singleton row on first use.
func (s *Service) Deposit(ctx context.Context, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: deposit amount must be positive, got %s", ErrInvalidArgument, amount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var wallet models.Wallet
		err := tx.First(&wallet).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			wallet = models.Wallet{Amount: amount}
			if err := tx.Create(&wallet).Error; err != nil {
				return fmt.Errorf("failed to create wallet: %w", err)
			}
			s.logger.Info("Wallet created", zap.String("amount", amount.String()))
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to load wallet: %w", err)
		}

		newAmount := wallet.Amount.Add(amount)
		if err := tx.Model(&wallet).Update("amount", newAmount).Error; err != nil {
			return fmt.Errorf("failed to update wallet: %w", err)
		}
		s.logger.Info("Deposit settled",
			zap.String("amount", amount.String()),
			zap.String("balance", newAmount.String()),
		)
		return nil
	})
}

// Holdings returns all portfolio positions, order insignificant.
func (s *Service) Holdings(ctx context.Context) ([]models.Holding, error) {
	var holdings []models.Holding
	if err := s.db.WithContext(ctx).Find(&holdings).Error; err != nil {
		return nil, fmt.Errorf("failed to load holdings: %w", err)
	}
	return holdings, nil
}

// Holding returns the position for ticker. Absence is a normal outcome, not
// an error: the second return value reports whether the ticker is held.
func (s *Service) Holding(ctx context.Context, ticker string) (models.Holding, bool, error) {
	var holding models.Holding
	err := s.db.WithContext(ctx).Where("ticker = ?", ticker).First(&holding).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Holding{}, false, nil
	}
	if err != nil {
		return models.Holding{}, false, fmt.Errorf("failed to load holding for %s: %w", ticker, err)
	}
	return holding, true, nil
}

// Buy settles a purchase of qty shares of ticker at price per share.
// The first buy of a ticker creates the holding; subsequent buys re-average
// the cost basis. The wallet is debited by qty*price in the same transaction.
func (s *Service) Buy(ctx context.Context, ticker, name string, qty int64, price decimal.Decimal) error {
	if qty <= 0 {
		return fmt.Errorf("%w: quantity must be a positive integer, got %d", ErrInvalidArgument, qty)
	}
	if price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative, got %s", ErrInvalidArgument, price)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cost := price.Mul(decimal.NewFromInt(qty))

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var wallet models.Wallet
		if err := tx.First(&wallet).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWalletNotFound
			}
			return fmt.Errorf("failed to load wallet: %w", err)
		}
		if wallet.Amount.LessThan(cost) {
			return ErrInsufficientFunds
		}

		var holding models.Holding
		err := tx.Where("ticker = ?", ticker).First(&holding).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			holding = models.Holding{Ticker: ticker, Name: name, Qty: qty, AvgPrice: price}
			if err := tx.Create(&holding).Error; err != nil {
				return fmt.Errorf("failed to create holding for %s: %w", ticker, err)
			}
		case err != nil:
			return fmt.Errorf("failed to load holding for %s: %w", ticker, err)
		default:
			// Quantity-weighted average of the old position and the new lot.
			newQty := holding.Qty + qty
			oldLot := holding.AvgPrice.Mul(decimal.NewFromInt(holding.Qty))
			newAvg := oldLot.Add(cost).Div(decimal.NewFromInt(newQty))
			updates := map[string]interface{}{"qty": newQty, "avg_price": newAvg}
			if err := tx.Model(&holding).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update holding for %s: %w", ticker, err)
			}
		}

		newAmount := wallet.Amount.Sub(cost)
		if err := tx.Model(&wallet).Update("amount", newAmount).Error; err != nil {
			return fmt.Errorf("failed to debit wallet: %w", err)
		}

		s.logger.Info("Buy settled",
			zap.String("ticker", ticker),
			zap.Int64("qty", qty),
			zap.String("price", price.String()),
			zap.String("balance", newAmount.String()),
		)
		return nil
	})
}

// Sell settles a sale of qty shares of ticker at the given price per share.
// Selling the full position deletes the holding; a partial sell decrements
// the quantity and leaves the average cost untouched. The wallet is credited
// qty*price in the same transaction.
func (s *Service) Sell(ctx context.Context, ticker string, qty int64, price decimal.Decimal) error {
	if qty <= 0 {
		return fmt.Errorf("%w: quantity must be a positive integer, got %d", ErrInvalidArgument, qty)
	}
	if price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative, got %s", ErrInvalidArgument, price)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	proceeds := price.Mul(decimal.NewFromInt(qty))

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var holding models.Holding
		if err := tx.Where("ticker = ?", ticker).First(&holding).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrHoldingNotFound
			}
			return fmt.Errorf("failed to load holding for %s: %w", ticker, err)
		}
		if qty > holding.Qty {
			return ErrInsufficientQty
		}

		if qty == holding.Qty {
			if err := tx.Delete(&holding).Error; err != nil {
				return fmt.Errorf("failed to delete holding for %s: %w", ticker, err)
			}
		} else {
			if err := tx.Model(&holding).Update("qty", holding.Qty-qty).Error; err != nil {
				return fmt.Errorf("failed to update holding for %s: %w", ticker, err)
			}
		}

		var wallet models.Wallet
		if err := tx.First(&wallet).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWalletNotFound
			}
			return fmt.Errorf("failed to load wallet: %w", err)
		}
		newAmount := wallet.Amount.Add(proceeds)
		if err := tx.Model(&wallet).Update("amount", newAmount).Error; err != nil {
			return fmt.Errorf("failed to credit wallet: %w", err)
		}

		s.logger.Info("Sell settled",
			zap.String("ticker", ticker),
			zap.Int64("qty", qty),
			zap.String("price", price.String()),
			zap.String("balance", newAmount.String()),
		)
		return nil
	})
}

// AddFavorite puts ticker on the watchlist. Adding an already-watched ticker
// refreshes its display name instead of inserting a duplicate.
func (s *Service) AddFavorite(ctx context.Context, ticker, name string) error {
	var item models.WatchlistItem
	err := s.db.WithContext(ctx).
		Where(models.WatchlistItem{Ticker: ticker}).
		Assign(models.WatchlistItem{Name: name}).
		FirstOrCreate(&item).Error
	if err != nil {
		return fmt.Errorf("failed to add %s to watchlist: %w", ticker, err)
	}
	return nil
}

// RemoveFavorite deletes ticker from the watchlist. Removing a ticker that
// is not watched succeeds as a no-op.
func (s *Service) RemoveFavorite(ctx context.Context, ticker string) error {
	err := s.db.WithContext(ctx).Where("ticker = ?", ticker).Delete(&models.WatchlistItem{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove %s from watchlist: %w", ticker, err)
	}
	return nil
}

// Favorites returns all watchlist entries.
func (s *Service) Favorites(ctx context.Context) ([]models.WatchlistItem, error) {
	var items []models.WatchlistItem
	if err := s.db.WithContext(ctx).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to load watchlist: %w", err)
	}
	return items, nil
}

// IsFavorite reports whether ticker is on the watchlist.
func (s *Service) IsFavorite(ctx context.Context, ticker string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.WatchlistItem{}).
		Where("ticker = ?", ticker).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check watchlist for %s: %w", ticker, err)
	}
	return count > 0, nil
}
