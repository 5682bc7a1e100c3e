// Package payments reacts to confirmation signals from the payment provider.
// The webhook handler verifies the signature and hands the event here.
package payments

import (
	"context"

	"go.uber.org/zap"

	"whohub/internal/domain"
	"whohub/internal/ports"
)

type Service struct {
	investigations ports.InvestigationRepository
	jobs           ports.JobRepository
	log            *zap.Logger
}

func New(investigations ports.InvestigationRepository, jobs ports.JobRepository, log *zap.Logger) *Service {
	return &Service{investigations: investigations, jobs: jobs, log: log}
}

// Confirm records a successful payment and enqueues the pipeline. Replayed
// webhook deliveries are absorbed: once the payment has left pending the
// guarded updates decline and no second job is queued.
func (s *Service) Confirm(ctx context.Context, paymentRef string) error {
	inv, err := s.investigations.FindByPaymentRef(ctx, paymentRef)
	if err != nil {
		return err
	}

	paid, err := s.investigations.MarkPaid(ctx, inv.ID)
	if err != nil {
		return err
	}
	if !paid {
		s.log.Info("payment already recorded, ignoring replay",
			zap.Int64("investigation_id", inv.ID),
			zap.String("payment_ref", paymentRef),
		)
		return nil
	}

	moved, err := s.investigations.BeginProcessing(ctx, inv.ID)
	if err != nil {
		return err
	}
	if !moved {
		return nil
	}
	if _, err := s.jobs.Enqueue(ctx, inv.ID); err != nil {
		return err
	}
	s.log.Info("payment confirmed, pipeline queued",
		zap.Int64("investigation_id", inv.ID),
		zap.String("payment_ref", paymentRef),
	)
	return nil
}

// Fail marks the payment and the investigation failed.
func (s *Service) Fail(ctx context.Context, paymentRef string) error {
	if err := s.investigations.FailPayment(ctx, paymentRef); err != nil {
		if domain.IsNotFound(err) {
			// Unknown refs are logged, not surfaced: providers retry on
			// non-2xx and the ref will never become known.
			s.log.Warn("payment failure for unknown ref", zap.String("payment_ref", paymentRef))
			return nil
		}
		return err
	}
	s.log.Info("payment failed", zap.String("payment_ref", paymentRef))
	return nil
}
