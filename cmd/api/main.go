package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sartoria-hq/tailor-backend-go/internal/config"
	"github.com/sartoria-hq/tailor-backend-go/internal/domain/tax"
	appHTTP "github.com/sartoria-hq/tailor-backend-go/internal/handler/http"
	"github.com/sartoria-hq/tailor-backend-go/internal/pkg/cron"
	"github.com/sartoria-hq/tailor-backend-go/internal/pkg/database"
	"github.com/sartoria-hq/tailor-backend-go/internal/pkg/jwt"
	"github.com/sartoria-hq/tailor-backend-go/internal/repository/postgresql"
	commissionService "github.com/sartoria-hq/tailor-backend-go/internal/service/commission"
	"github.com/sartoria-hq/tailor-backend-go/internal/service/overtime"
	payrollService "github.com/sartoria-hq/tailor-backend-go/internal/service/payroll"
	"github.com/sartoria-hq/tailor-backend-go/internal/service/policy"
	taxService "github.com/sartoria-hq/tailor-backend-go/internal/service/tax"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	structureRepo := postgresql.NewSalaryStructureRepository(db)
	bonusRepo := postgresql.NewBonusRepository(db)
	ruleRepo := postgresql.NewCommissionRuleRepository(db)
	deductionRepo := postgresql.NewTaxDeductionRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	orderSource := postgresql.NewOrderCompletionSource(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	overtimeCalc := overtime.NewCalculator(attendanceRepo, structureRepo, overtime.NoHolidays{})
	commissionCalc := commissionService.NewCalculator(ruleRepo)
	taxCalc := taxService.NewCalculator(tax.DefaultPolicy(), deductionRepo, payrollRepo)

	payrollSvc := payrollService.NewPayrollService(
		payrollRepo,
		structureRepo,
		bonusRepo,
		employeeRepo,
		orderSource,
		overtimeCalc,
		commissionCalc,
		taxCalc,
	)
	policySvc := policy.NewPolicyService(db, structureRepo, ruleRepo, deductionRepo, bonusRepo)

	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)
	policyHandler := appHTTP.NewPolicyHandler(policySvc)

	router := appHTTP.NewRouter(cfg, jwtService, payrollHandler, policyHandler)

	scheduler := cron.NewScheduler()
	if cfg.Payroll.AutoGenerateEnabled {
		payrollJobs := cron.NewPayrollJobs(payrollSvc, employeeRepo)
		payrollJobs.RegisterJobs(scheduler, cfg.Payroll.CronInterval)
	}
	scheduler.Start()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Server starting", "port", cfg.App.Port, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		slog.Info("Shutting down...")

		scheduler.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
}
