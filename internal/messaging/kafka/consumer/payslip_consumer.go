package consumer

import (
	"context"
	"encoding/json"

	"go-hrcore/internal/events"
	"go-hrcore/internal/payroll"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumePayslipRenderRequested renders payslip documents requested via
// the outbox. Render failures leave the message uncommitted so it is
// retried on the next fetch.
func ConsumePayslipRenderRequested(
	ctx context.Context,
	reader *kafkago.Reader,
	payrollService payroll.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.payslip_render")
	log.Info("payslip render consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("payslip render consumer stopped")
				return
			}
			log.Error("fetch payslip render message failed", zap.Error(err))
			continue
		}

		var event events.PayslipRenderRequestedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode payslip render event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if _, err := payrollService.RenderPayslip(ctx, event.PayslipID); err != nil {
			log.Error("render payslip failed",
				zap.String("payslip_id", event.PayslipID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit payslip render message failed", zap.Error(err))
			continue
		}

		log.Info("payslip rendered",
			zap.String("payslip_id", event.PayslipID),
			zap.String("requested_by", event.RequestedBy),
		)
	}
}
