package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/logger"
	"github.com/lotterysystem/lottery-backend/internal/apperrors"
	"github.com/lotterysystem/lottery-backend/internal/models"
	"github.com/lotterysystem/lottery-backend/internal/repositories"
)

type drawService struct {
	ledger   repositories.LedgerRepository
	draws    repositories.DrawRepository
	payout   models.PayoutTable
	notifier ResultsNotifier
}

// NewDrawService creates a new DrawService implementation. notifier may be
// nil when no display clients are wired up.
func NewDrawService(ledger repositories.LedgerRepository, draws repositories.DrawRepository, payout models.PayoutTable, notifier ResultsNotifier) DrawService {
	if payout == nil {
		payout = models.DefaultPayoutTable
	}
	return &drawService{
		ledger:   ledger,
		draws:    draws,
		payout:   payout,
		notifier: notifier,
	}
}

// SetWinningNumber validates the number and opens (or overwrites) the draw
func (s *drawService) SetWinningNumber(ctx context.Context, number int) (*models.Draw, error) {
	if number < 1 || number > 100 {
		return nil, fmt.Errorf("winning number %d is out of range [1,100]: %w", number, apperrors.ErrInvalidArgument)
	}
	draw, err := s.draws.SetWinningNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	logger.Infof("winning number set to %d for draw %s", number, draw.ID.Hex())
	return draw, nil
}

// AnnounceResults settles every pending ticket against the open draw. Each
// ticket is an independent atomic unit: a failure partway leaves the rest
// unsettled and the draw open, so the admin can simply run it again.
func (s *drawService) AnnounceResults(ctx context.Context) ([]models.SettledTicket, error) {
	draw, err := s.draws.FindOpen(ctx)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("announce requested: %w", apperrors.ErrNoActiveDraw)
	}
	if err != nil {
		return nil, err
	}

	pending, err := s.ledger.FindUnsettledTickets(ctx)
	if err != nil {
		return nil, err
	}

	settled := make([]models.SettledTicket, 0, len(pending))
	failed := 0
	for _, ticket := range pending {
		matches := ticket.MatchCount(draw.WinningNumber)
		won := matches > 0
		prize := s.payout.PrizeFor(matches)

		applied, err := s.ledger.SettleTicket(ctx, ticket.ID, ticket.Username, draw.ID, won, prize)
		if err != nil {
			logger.Errorf("settling ticket %d failed: %v", ticket.ID, err)
			failed++
			continue
		}
		if !applied {
			// Settled by an earlier, partially-failed run.
			continue
		}
		settled = append(settled, models.SettledTicket{
			TicketID: ticket.ID,
			Username: ticket.Username,
			Won:      won,
			Prize:    prize,
		})
	}

	if failed > 0 {
		return settled, fmt.Errorf("%d of %d tickets left unsettled, announce again to finish", failed, len(pending))
	}

	if _, err := s.draws.Close(ctx, draw.ID); err != nil {
		return settled, err
	}
	logger.Infof("draw %s closed: %d tickets settled against winning number %d",
		draw.ID.Hex(), len(settled), draw.WinningNumber)

	if s.notifier != nil {
		s.notifier.ResultsAnnounced(draw.WinningNumber, len(settled))
	}
	return settled, nil
}
