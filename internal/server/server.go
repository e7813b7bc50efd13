// Package server exposes the billing engine over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	clientdomain "github.com/praxisjuris/praxis/internal/client/domain"
	"github.com/praxisjuris/praxis/internal/config"
	contractdomain "github.com/praxisjuris/praxis/internal/contract/domain"
	invoicedomain "github.com/praxisjuris/praxis/internal/invoice/domain"
	lawyerdomain "github.com/praxisjuris/praxis/internal/lawyer/domain"
	reportsdomain "github.com/praxisjuris/praxis/internal/reports/domain"
	taskdomain "github.com/praxisjuris/praxis/internal/task/domain"
	tedomain "github.com/praxisjuris/praxis/internal/timeentry/domain"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type Server struct {
	engine *gin.Engine
	cfg    config.Config
	log    *zap.Logger
	db     *gorm.DB
	genID  *snowflake.Node

	billing *config.BillingConfigHolder

	lawyerSvc   lawyerdomain.Service
	clientSvc   clientdomain.Service
	taskSvc     taskdomain.Service
	ledger      tedomain.Ledger
	contractSvc contractdomain.Service
	invoiceSvc  invoicedomain.Service
	reportsSvc  reportsdomain.Service
}

type ServerParams struct {
	fx.In

	Gin     *gin.Engine
	Cfg     config.Config
	Log     *zap.Logger
	DB      *gorm.DB
	GenID   *snowflake.Node
	Billing *config.BillingConfigHolder

	LawyerSvc   lawyerdomain.Service
	ClientSvc   clientdomain.Service
	TaskSvc     taskdomain.Service
	Ledger      tedomain.Ledger
	ContractSvc contractdomain.Service
	InvoiceSvc  invoicedomain.Service
	ReportsSvc  reportsdomain.Service
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine: p.Gin,
		cfg:    p.Cfg,
		log:    p.Log.Named("http.server"),
		db:     p.DB,
		genID:  p.GenID,

		billing: p.Billing,

		lawyerSvc:   p.LawyerSvc,
		clientSvc:   p.ClientSvc,
		taskSvc:     p.TaskSvc,
		ledger:      p.Ledger,
		contractSvc: p.ContractSvc,
		invoiceSvc:  p.InvoiceSvc,
		reportsSvc:  p.ReportsSvc,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	api := s.engine.Group("/api/v1")

	lawyers := api.Group("/lawyers")
	lawyers.POST("", s.CreateLawyer)
	lawyers.GET("", s.ListLawyers)
	lawyers.GET("/:id", s.GetLawyer)
	lawyers.PATCH("/:id", s.UpdateLawyer)

	clients := api.Group("/clients")
	clients.POST("", s.CreateClient)
	clients.GET("", s.ListClients)
	clients.GET("/:id", s.GetClient)
	clients.DELETE("/:id", s.DeactivateClient)

	tasks := api.Group("/tasks")
	tasks.POST("", s.CreateTask)
	tasks.GET("", s.ListTasks)
	tasks.GET("/:id", s.GetTask)
	tasks.PATCH("/:id", s.UpdateTask)
	tasks.DELETE("/:id", s.DeleteTask)

	entries := api.Group("/time-entries")
	entries.POST("", s.CreateTimeEntry)
	entries.POST("/by-duration", s.CreateTimeEntryByDuration)
	entries.GET("", s.ListTimeEntries)
	entries.GET("/:id", s.GetTimeEntry)
	entries.PATCH("/:id", s.UpdateTimeEntry)
	entries.DELETE("/:id", s.DeleteTimeEntry)

	contracts := api.Group("/contracts")
	contracts.POST("", s.CreateContract)
	contracts.GET("", s.ListContracts)
	contracts.GET("/:id", s.GetContract)
	contracts.PATCH("/:id", s.UpdateContract)

	invoices := api.Group("/invoices")
	invoices.POST("", s.GenerateInvoice)
	invoices.GET("", s.ListInvoices)
	invoices.GET("/:id", s.GetInvoice)
	invoices.GET("/:id/items", s.ListInvoiceItems)

	reports := api.Group("/reports")
	reports.GET("/lawyers/profitability", s.LawyerProfitability)
	reports.GET("/lawyers/cost-vs-hours", s.LawyerCostVsHours)
	reports.GET("/lawyers/workload", s.LawyerWorkload)
	reports.GET("/clients/contributions", s.ClientContributions)
	reports.GET("/clients/hours", s.HoursByClient)
	reports.GET("/office/summary", s.OfficeSummary)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
