package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-hrcore/internal/attendance"
	"go-hrcore/internal/employee"
	"go-hrcore/internal/events"
	"go-hrcore/internal/messaging/kafka/consumer"
	"go-hrcore/internal/payroll"
	"go-hrcore/internal/salary"
	"go-hrcore/internal/shared/connection"
	"go-hrcore/internal/shared/counter"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer hosts the payslip render consumer.
func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

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

	payrollRepo := payroll.NewRepository(gormDB)
	payrollService := payroll.NewService(sqlDB, payrollRepo, payroll.Dependencies{
		Employees:  employee.NewRepository(gormDB),
		Salaries:   salary.NewRepository(gormDB),
		Attendance: attendance.NewRepository(gormDB),
		Counter:    counter.NewRepository(gormDB),
		Renderer:   payroll.NewPDFRenderer(),
	})

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.PayslipRenderRequestedTopic,
		GroupID:        "hrcore-payslip-render",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumePayslipRenderRequested(ctx, reader, payrollService, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
