package app

import (
	"context"
	"fmt"
	"net"
	"strconv"

	kafkaClient "github.com/Arten331/messaging/kafka"
	"github.com/Arten331/observability/logger"
	"github.com/Arten331/observability/metrics"
	"github.com/eduplatform/notifier/data/embed"
	"github.com/eduplatform/notifier/internal/app/global"
	"github.com/eduplatform/notifier/internal/config"
	"github.com/eduplatform/notifier/internal/dispatch"
	"github.com/eduplatform/notifier/internal/domain/enrollment"
	enrollmentmemdb "github.com/eduplatform/notifier/internal/domain/enrollment/memdb"
	"github.com/eduplatform/notifier/internal/domain/notification"
	notificationmemdb "github.com/eduplatform/notifier/internal/domain/notification/memdb"
	"github.com/eduplatform/notifier/internal/events"
	"github.com/eduplatform/notifier/internal/events/delivery"
	"github.com/eduplatform/notifier/internal/feed"
	"github.com/eduplatform/notifier/internal/httpservice"
	"github.com/eduplatform/notifier/internal/httpservice/httpwriter"
	"github.com/eduplatform/notifier/internal/notifier"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const envDev = "dev"

type Repositories struct {
	notifications notification.Store
	enrollments   enrollment.Repository
}

type Services struct {
	httpService *httpservice.Service
	dispatcher  *dispatch.Dispatcher
	notifier    *notifier.Service
}

type App struct {
	serviceName  string
	env          string
	cfg          *config.AppConfig
	services     Services
	metrics      *metrics.Service
	repositories Repositories
	feedHub      *feed.Hub
	events       struct {
		publisher events.EventPublisher
	}
}

func Init(ctx context.Context, cfg *config.AppConfig) (ac *App, err error) {
	ms := metrics.New()

	ac = &App{
		serviceName: cfg.App.Name,
		env:         cfg.App.Env,
		cfg:         cfg,
		metrics:     &ms,
	}

	err = ac.initRepositories(ctx)
	if err != nil {
		return nil, err
	}

	ac.initEventsServices(ctx)

	err = ac.initServices(ctx)
	if err != nil {
		return nil, err
	}

	// setup globals
	global.SetGlobals(ac.serviceName, ac.env)

	return ac, nil
}

func (a *App) initServices(_ context.Context) error {
	dispatcher, err := dispatch.New(&dispatch.Options{
		MetricService: a.metrics,
		Store:         a.repositories.notifications,
		EventService:  a.events.publisher,
		AuditLogger:   a.auditLogger(),
	})
	if err != nil {
		return err
	}

	notifierService, err := notifier.New(notifier.Options{
		Dispatcher:  dispatcher,
		Enrollments: a.repositories.enrollments,
	})
	if err != nil {
		return err
	}

	rw := httpwriter.NewJSONResponseWriter()

	httpService, err := httpservice.New(
		httpservice.WithHTTPAddress(net.JoinHostPort("", strconv.Itoa(a.cfg.HTTPService.Port))),
		httpservice.WithResponseWritter(&rw),
		httpservice.WithServices(httpservice.Services{
			Metrics:       a.metrics,
			Notifier:      notifierService,
			Dispatcher:    dispatcher,
			Notifications: a.repositories.notifications,
			Feed:          a.feedHub,
		}),
	)
	if err != nil {
		return err
	}

	a.services = Services{
		httpService: httpService,
		dispatcher:  dispatcher,
		notifier:    notifierService,
	}

	return err
}

func (a *App) initRepositories(_ context.Context) error {
	notificationStore, err := notificationmemdb.NewNotificationMemDBStore()
	if err != nil {
		return err
	}

	enrollmentRepo, err := enrollmentmemdb.NewEnrollmentMemDBRepository()
	if err != nil {
		return err
	}

	a.repositories.notifications = &notificationStore
	a.repositories.enrollments = &enrollmentRepo

	return nil
}

func (a *App) initEventsServices(_ context.Context) {
	a.events.publisher = events.NewEventPublisher()

	a.feedHub = feed.NewHub()
	a.events.publisher.Subscribe(a.feedHub, &delivery.Recorded{})

	cfgQueue := a.cfg.QueueService
	if len(cfgQueue.Kafka.BootstrapServers) == 0 {
		logger.L().Info("kafka brokers not configured, delivery topic disabled")

		return
	}

	brokers := make([]string, 0, len(cfgQueue.Kafka.BootstrapServers))

	for _, server := range cfgQueue.Kafka.BootstrapServers {
		brokers = append(brokers, fmt.Sprintf("%s:%d", server, cfgQueue.Kafka.Port))
	}

	deliverySink := events.NewKafkaEventHandler(kafkaClient.MustCreateProducer(kafkaClient.ProducerClientOptions{
		Brokers: brokers,
		Topic:   cfgQueue.Topics.Deliveries.Name,
	}))

	a.events.publisher.Subscribe(deliverySink, &delivery.Recorded{})
}

func (a *App) auditLogger() *zap.Logger {
	if a.cfg.Audit.Path == "" {
		return nil
	}

	writer := zapcore.AddSync(&lumberjack.Logger{
		Filename:   a.cfg.Audit.Path,
		MaxSize:    a.cfg.Audit.MaxSizeMB,
		MaxBackups: a.cfg.Audit.MaxBackups,
		MaxAge:     a.cfg.Audit.MaxAgeDays,
	})

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		writer,
		zap.InfoLevel,
	)

	return zap.New(core)
}

func (a *App) seedDemoUsers() {
	if a.env != envDev {
		return
	}

	sfs := embed.GetEmbedFilesystem()

	seedFile, err := sfs.Open("users_demo.csv")
	if err != nil {
		logger.L().Warn("demo seed file missing", zap.Error(err))

		return
	}

	defer func() { _ = seedFile.Close() }()

	seeded, err := a.services.notifier.SeedUsers(seedFile)
	if err != nil {
		logger.L().Warn("demo seed aborted", zap.Error(err))

		return
	}

	logger.L().Info("registered demo users", zap.Int("count", seeded))
}

func (a *App) Run(ctx context.Context, cancelFunc context.CancelFunc) error {
	a.seedDemoUsers()

	go a.services.httpService.Run(ctx, cancelFunc)

	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	return a.services.httpService.Shutdown(ctx)
}
