package services

import (
	"context"
	"fmt"

	"bookie/domain"
	"bookie/domain/entities"
	"bookie/domain/events"
	"bookie/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

type wagerService struct {
	bets      interfaces.BetRepository
	games     interfaces.GameRepository
	ledger    interfaces.LedgerService
	publisher interfaces.EventPublisher
}

// maxPotentialPayout caps payouts at the largest integer float64 represents
// exactly, keeping the floor conversion in CalculatePotentialPayout lossless.
const maxPotentialPayout = int64(1) << 53

// NewWagerService creates a new wager service. The bet repository and ledger
// must be scoped to the same unit of work so placement and settlement commit
// atomically with their balance changes.
func NewWagerService(bets interfaces.BetRepository, games interfaces.GameRepository, ledger interfaces.LedgerService, publisher interfaces.EventPublisher) interfaces.WagerService {
	return &wagerService{
		bets:      bets,
		games:     games,
		ledger:    ledger,
		publisher: publisher,
	}
}

func (s *wagerService) PlaceBet(ctx context.Context, userID, gameID int64, amount int64, odds float64, betType entities.BetType) (*entities.Bet, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("bet amount must be positive: %w", domain.ErrInvalidStake)
	}
	if odds <= 0 {
		return nil, fmt.Errorf("odds must be positive: %w", domain.ErrInvalidStake)
	}
	if float64(amount)*odds >= float64(maxPotentialPayout) {
		return nil, fmt.Errorf("stake %d at odds %g exceeds the supported payout range: %w",
			amount, odds, domain.ErrInvalidStake)
	}
	if betType == "" {
		betType = entities.BetTypeSingle
	}

	game, err := s.games.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game %d: %w", gameID, err)
	}
	if game == nil || !game.IsActive() {
		return nil, fmt.Errorf("game %d is not accepting bets: %w", gameID, domain.ErrGameUnavailable)
	}
	if !game.AllowsStake(amount) {
		return nil, fmt.Errorf("stake %d outside game bounds [%d, %d]: %w",
			amount, game.MinBet, game.MaxBet, domain.ErrInvalidStake)
	}

	bet := &entities.Bet{
		UserID:  userID,
		GameID:  gameID,
		Amount:  amount,
		Odds:    odds,
		BetType: betType,
		Status:  entities.BetStatusPending,
	}
	bet.PotentialPayout = bet.CalculatePotentialPayout()

	// The bet row is inserted first so the stake debit can carry its id as
	// the idempotency reference. Both writes share one storage transaction:
	// if the debit fails, the rollback discards the bet record too.
	if err := s.bets.Create(ctx, bet); err != nil {
		return nil, fmt.Errorf("failed to create bet: %w", err)
	}

	if _, err := s.ledger.ApplyDelta(ctx, userID, -amount, entities.TransactionTypeBetPlaced, bet.StakeReference()); err != nil {
		return nil, fmt.Errorf("failed to debit stake for bet %d: %w", bet.ID, err)
	}

	if err := s.publisher.Publish(events.BetPlacedEvent{
		BetID:           bet.ID,
		UserID:          userID,
		GameID:          gameID,
		Amount:          amount,
		PotentialPayout: bet.PotentialPayout,
	}); err != nil {
		log.WithFields(log.Fields{
			"betID": bet.ID,
			"error": err,
		}).Warn("Failed to stage bet placed event")
	}

	return bet, nil
}

func (s *wagerService) SettleBet(ctx context.Context, betID int64, outcome entities.BetOutcome) (*entities.Bet, error) {
	if !outcome.IsValid() {
		return nil, fmt.Errorf("unknown settlement outcome %q", outcome)
	}

	// The row lock serializes concurrent settlements of the same bet and
	// makes a settlement racing a placement wait for the placement commit.
	bet, err := s.bets.GetByIDForUpdate(ctx, betID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bet %d: %w", betID, err)
	}
	if bet == nil {
		return nil, fmt.Errorf("bet %d: %w", betID, domain.ErrBetNotFound)
	}
	if bet.Status.IsTerminal() {
		log.WithFields(log.Fields{
			"betID":  betID,
			"status": bet.Status,
		}).Debug("Bet already settled, returning current record")
		return bet, domain.ErrAlreadySettled
	}

	switch outcome {
	case entities.BetOutcomeWon:
		if _, err := s.ledger.ApplyDelta(ctx, bet.UserID, bet.PotentialPayout, entities.TransactionTypeBetWon, bet.SettleReference()); err != nil {
			return nil, fmt.Errorf("failed to credit payout for bet %d: %w", betID, err)
		}
		bet.ActualPayout = bet.PotentialPayout
	case entities.BetOutcomeLost:
		// Stake was debited at placement; nothing moves.
	case entities.BetOutcomeCancelled, entities.BetOutcomeRefunded:
		if _, err := s.ledger.ApplyDelta(ctx, bet.UserID, bet.Amount, entities.TransactionTypeBetRefund, bet.RefundReference()); err != nil {
			return nil, fmt.Errorf("failed to refund stake for bet %d: %w", betID, err)
		}
	}

	// The repository stamps settled_at from the storage clock on the way in,
	// keeping it ordered after placed_at.
	bet.Status = outcome.Status()

	if err := s.bets.Update(ctx, bet); err != nil {
		return nil, fmt.Errorf("failed to persist settlement of bet %d: %w", betID, err)
	}

	if err := s.publisher.Publish(events.BetSettledEvent{
		BetID:        bet.ID,
		UserID:       bet.UserID,
		GameID:       bet.GameID,
		Outcome:      bet.Status,
		ActualPayout: bet.ActualPayout,
	}); err != nil {
		log.WithFields(log.Fields{
			"betID": bet.ID,
			"error": err,
		}).Warn("Failed to stage bet settled event")
	}

	return bet, nil
}
