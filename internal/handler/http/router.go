package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/sartoria-hq/tailor-backend-go/internal/config"
	"github.com/sartoria-hq/tailor-backend-go/internal/handler/http/middleware"
	"github.com/sartoria-hq/tailor-backend-go/internal/pkg/jwt"
)

func NewRouter(cfg *config.Config, jwtService jwt.Service, payrollHandler PayrollHandler, policyHandler PolicyHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "tailor-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/payrolls", func(r chi.Router) {
				r.Post("/generate", payrollHandler.GeneratePayroll)
				r.Post("/generate-bulk", payrollHandler.GenerateBulkPayroll)
				r.Get("/", payrollHandler.ListPayrollRecords)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", payrollHandler.GetPayrollRecord)
					r.Post("/approve", payrollHandler.ApprovePayroll)
					r.Post("/pay", payrollHandler.MarkPayrollPaid)
					r.Post("/cancel", payrollHandler.CancelPayroll)
				})
			})

			r.Route("/salary-structures", func(r chi.Router) {
				r.Post("/", policyHandler.CreateSalaryStructure)
				r.Get("/employee/{employeeId}", policyHandler.ListSalaryStructures)
			})

			r.Route("/commission-rules", func(r chi.Router) {
				r.Post("/", policyHandler.CreateCommissionRule)
				r.Get("/", policyHandler.ListCommissionRules)
			})

			r.Route("/tax-deductions", func(r chi.Router) {
				r.Post("/", policyHandler.CreateTaxDeduction)
				r.Get("/", policyHandler.ListTaxDeductions)
			})

			r.Route("/bonuses", func(r chi.Router) {
				r.Post("/", policyHandler.CreateBonus)
				r.Post("/{id}/approve", policyHandler.ApproveBonus)
				r.Get("/employee/{employeeId}", policyHandler.ListBonuses)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"error":{"code":"NOT_FOUND","message":"Route not found"}}`))
	})

	return r
}
