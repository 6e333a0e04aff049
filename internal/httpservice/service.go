package httpservice

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/pprof"

	"github.com/Arten331/observability/logger"
	"github.com/eduplatform/notifier/internal/dispatch"
	"github.com/eduplatform/notifier/internal/domain/notification"
	"github.com/eduplatform/notifier/internal/feed"
	"github.com/eduplatform/notifier/internal/httpservice/httpwriter"
	"github.com/eduplatform/notifier/internal/httpservice/mwwrapper"
	"github.com/eduplatform/notifier/internal/notifier"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type MetricsService interface {
	Handler() http.HandlerFunc
}

type Services struct {
	Metrics       MetricsService
	Notifier      *notifier.Service
	Dispatcher    *dispatch.Dispatcher
	Notifications notification.Store
	Feed          *feed.Hub
}

type Service struct {
	server      *http.Server
	middlewares mwwrapper.MiddlewareWrapper
	router      *chi.Mux
	writer      httpwriter.Writer
	services    Services
	context     context.Context
}

type Configuration func(s *Service) error

func New(cfgs ...Configuration) (*Service, error) {
	service := Service{}

	// Apply all Configurations passed in
	for _, cfg := range cfgs {
		err := cfg(&service)
		if err != nil {
			return nil, err
		}
	}

	service.configureMiddlewares()
	service.configureRouter()

	return &service, nil
}

func (s *Service) Run(ctx context.Context, cancel context.CancelFunc) {
	s.context = ctx

	go func() {
		logger.L().Info(fmt.Sprintf("Start http httpserver on %s!", s.server.Addr))

		err := s.server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Error("error serve httpserver", zap.Error(err))
			cancel()
		}
	}()

	<-ctx.Done()

	logger.L().Info(fmt.Sprintf("Shutdown http httpserver on %s!", s.server.Addr))

	err := s.server.Shutdown(context.Background())
	if err != nil {
		logger.L().Error("Unable shutdown http httpserver", zap.Error(err))
	}
}

func (s *Service) Shutdown(shutdownCtx context.Context) error {
	return s.server.Shutdown(shutdownCtx)
}

func (s *Service) configureRouter() {
	mwGroups := s.middlewares.Groups

	s.enablePPROFHandlers()
	s.router.With(mwGroups.GetChain(KeyGroupBase)...).Route("/", func(r chi.Router) {
		r.Get("/metrics", s.prometheus())
		r.Get("/stats", s.stats())

		r.Route("/users", func(r chi.Router) {
			r.Post("/", s.registerUser())
			r.Delete("/{userID}", s.unregisterUser())
			r.Get("/{userID}/courses", s.userCourses())
			r.Get("/{userID}/notifications", s.listNotifications())
			r.Get("/{userID}/notifications/unread", s.listUnreadNotifications())
			r.Put("/{userID}/notifications/read-all", s.markAllRead())
		})

		r.Put("/notifications/{notificationID}/read", s.markRead())

		r.Route("/courses/{courseID}", func(r chi.Router) {
			r.Get("/subscribers", s.courseSubscribers())
			r.Post("/subscribers", s.subscribeStudent())
			r.Delete("/subscribers/{userID}", s.unsubscribeStudent())
			r.Post("/subscribe-all", s.subscribeAllStudents())
			r.Put("/teacher", s.assignTeacher())
		})

		r.Route("/events", func(r chi.Router) {
			r.Post("/course-created", s.courseCreated())
			r.Post("/material-uploaded", s.materialUploaded())
			r.Post("/assignment-created", s.assignmentCreated())
			r.Post("/assignment-graded", s.assignmentGraded())
			r.Post("/assignment-submitted", s.assignmentSubmitted())
			r.Post("/student-enrolled", s.studentEnrolled())
		})
	})

	s.router.Get("/readiness", s.readiness())
	s.router.Get("/liveness", s.liveness())

	if s.services.Feed != nil {
		s.router.Get("/feed/{userID}", s.services.Feed.StreamHandler())
	}
}

func WithHTTPAddress(address string) Configuration {
	return func(s *Service) error {
		s.router = chi.NewRouter()
		s.server = &http.Server{
			Addr:    address,
			Handler: s.router,
		}

		return nil
	}
}

func WithServices(services Services) Configuration {
	return func(s *Service) error {
		s.services = services

		return nil
	}
}

func WithResponseWritter(r httpwriter.Writer) Configuration {
	return func(s *Service) error {
		s.writer = r

		return nil
	}
}

func (s *Service) enablePPROFHandlers() {
	s.router.With(s.middlewares.Groups.GetChain(KeyGroupBase)...).Route("/debug", func(r chi.Router) {
		r.HandleFunc("/pprof", pprof.Index)
		r.HandleFunc("/pprof/cmdline", pprof.Cmdline)
		r.HandleFunc("/pprof/profile", pprof.Profile)
		r.HandleFunc("/pprof/symbol", pprof.Symbol)
		r.HandleFunc("/pprof/trace", pprof.Trace)
		r.Handle("/pprof/goroutine", pprof.Handler("goroutine"))
		r.Handle("/pprof/threadcreate", pprof.Handler("threadcreate"))
		r.Handle("/pprof/mutex", pprof.Handler("mutex"))
		r.Handle("/pprof/heap", pprof.Handler("heap"))
		r.Handle("/pprof/block", pprof.Handler("block"))
		r.Handle("/pprof/allocs", pprof.Handler("allocs"))
	})
}
