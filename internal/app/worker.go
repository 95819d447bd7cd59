package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go-hrcore/internal/attendance"
	"go-hrcore/internal/employee"
	"go-hrcore/internal/messaging/kafka"
	"go-hrcore/internal/messaging/kafka/producer"
	"go-hrcore/internal/punch"
	"go-hrcore/internal/shared/connection"

	"go.uber.org/zap"
)

const defaultSweepHour = 23

// RunWorker hosts the outbox poller and the end-of-day absentee sweep.
func RunWorker() error {
	logger := zap.L().Named("app.worker")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	kafkaWriter, err := connection.ConnectKafkaWithRetry(kafkaBroker, 5)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(sqlDB)

	attendanceRepo := attendance.NewRepository(gormDB)
	punchRepo := punch.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	attendanceService := attendance.NewService(sqlDB, attendanceRepo, punchRepo, employeeRepo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go producer.ProcessOutboxEvents(
		ctx,
		outboxRepo,
		kafkaWriter,
		logger,
		3*time.Second,
	)

	go runAbsenteeSweep(ctx, attendanceService, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	cancel()

	return nil
}

// runAbsenteeSweep marks every active employee without an attendance
// verdict as absent, once per day at the configured hour.
func runAbsenteeSweep(ctx context.Context, svc attendance.Service, logger *zap.Logger) {
	log := logger.Named("absentee_sweep")

	sweepHour := defaultSweepHour
	if v := os.Getenv("ATTENDANCE_SWEEP_HOUR"); v != "" {
		if h, err := strconv.Atoi(v); err == nil && h >= 0 && h <= 23 {
			sweepHour = h
		}
	}

	for {
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), sweepHour, 0, 0, 0, now.Location())
		if !next.After(now) {
			next = next.AddDate(0, 0, 1)
		}
		log.Info("next absentee sweep scheduled", zap.Time("at", next))

		select {
		case <-ctx.Done():
			log.Info("absentee sweep stopped")
			return
		case <-time.After(time.Until(next)):
		}

		result, err := svc.SweepAbsent(ctx, time.Now())
		if err != nil {
			log.Error("absentee sweep failed", zap.Error(err))
			continue
		}
		log.Info("absentee sweep done",
			zap.String("date", result.Date),
			zap.Int("marked", result.MarkedCount),
		)
	}
}
