package cli

import (
	"context"
	"database/sql"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/JoeYatesss/educonnect-api/internal/app"
	"github.com/JoeYatesss/educonnect-api/internal/config"
	"github.com/JoeYatesss/educonnect-api/internal/database"
	"github.com/JoeYatesss/educonnect-api/internal/domain/event"
	"github.com/JoeYatesss/educonnect-api/internal/domain/workflow"
	"github.com/JoeYatesss/educonnect-api/internal/idempotency"
	"github.com/JoeYatesss/educonnect-api/internal/notify"
	"github.com/JoeYatesss/educonnect-api/internal/observability"
	"github.com/JoeYatesss/educonnect-api/internal/policy"
	"github.com/JoeYatesss/educonnect-api/internal/repository/postgres"
)

const appName = "educonnect"

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "educonnect runs the teacher placement batch jobs",
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", true, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json_logs", rootCmd.PersistentFlags().Lookup("json"))
}

// runtime holds the shared wiring every subcommand needs.
type runtime struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *sql.DB
	redis  *redis.Client

	matching     *app.MatchingService
	applications *app.ApplicationService
	payments     *app.PaymentService
	importer     *app.JobImportService
	teachers     *app.TeacherService
	schools      *app.SchoolService
	jobs         *app.JobService
	interviews   *app.InterviewService
}

func newRuntime() *runtime {
	cfg := config.Load()
	logger := observability.NewLogger(cfg.JSONLogs, cfg.Debug)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	db, err := database.NewPostgres(ctx, database.PostgresConfig{
		DSN:             cfg.PostgresDSN,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxIdle:     cfg.DBConnMaxIdle,
		ConnMaxLifetime: cfg.DBConnMaxLife,
	})
	if err != nil {
		logger.Fatal("connecting to postgres", zap.Error(err))
	}

	var rdb *redis.Client
	var publisher event.Publisher = event.NopPublisher{}
	var guard *idempotency.Guard
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		publisher = notify.NewRedisPublisher(rdb, cfg.NotifyChannel)
		guard = idempotency.NewGuard(rdb, appName+":webhook", cfg.WebhookGuardTTL)
	}

	teacherRepo := postgres.NewTeacherRepository(db)
	schoolRepo := postgres.NewSchoolRepository(db)
	accountRepo := postgres.NewSchoolAccountRepository(db)
	jobRepo := postgres.NewJobRepository(db)
	matchRepo := postgres.NewMatchRepository(db)
	applicationRepo := postgres.NewApplicationRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)
	interestRepo := postgres.NewJobInterestRepository(db)
	interviewRepo := postgres.NewInterviewRepository(db)

	engine := policy.NewEngine()

	return &runtime{
		cfg:    cfg,
		logger: logger,
		db:     db,
		redis:  rdb,
		matching: app.NewMatchingService(teacherRepo, schoolRepo, jobRepo, matchRepo, engine, publisher, logger).
			WithMinScore(cfg.MatchMinScore),
		applications: app.NewApplicationService(applicationRepo, teacherRepo, schoolRepo, jobRepo, matchRepo, engine, publisher, logger).
			WithRules(workflow.Rules{MaxSkip: cfg.MaxStatusSkip}),
		payments:   app.NewPaymentService(paymentRepo, teacherRepo, accountRepo, engine, guard, publisher, logger),
		importer:   app.NewJobImportService(jobRepo, engine, logger),
		teachers:   app.NewTeacherService(teacherRepo, engine),
		schools:    app.NewSchoolService(schoolRepo, accountRepo, engine),
		jobs:       app.NewJobService(jobRepo, interestRepo, engine),
		interviews: app.NewInterviewService(interviewRepo, teacherRepo, jobRepo, engine, publisher, logger),
	}
}

func (r *runtime) close() {
	if r.redis != nil {
		r.redis.Close()
	}
	r.db.Close()
	r.logger.Sync()
}
