package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/n4u77i/reminderApp/internal/api"
	"github.com/n4u77i/reminderApp/internal/config"
	"github.com/n4u77i/reminderApp/internal/controller"
	"github.com/n4u77i/reminderApp/internal/database"
	"github.com/n4u77i/reminderApp/internal/dispatch"
	"github.com/n4u77i/reminderApp/internal/model"
	"github.com/n4u77i/reminderApp/internal/service"
	"github.com/n4u77i/reminderApp/internal/stream"
	"github.com/n4u77i/reminderApp/pkg/awssess"
	"github.com/n4u77i/reminderApp/pkg/email"
	"github.com/n4u77i/reminderApp/pkg/idgen"
	"github.com/n4u77i/reminderApp/pkg/sms"
	"golang.org/x/sync/errgroup"
)

var (
	mainHandler = slog.NewTextHandler(os.Stdout, nil).WithAttrs([]slog.Attr{slog.String("name", "app")})
	mainLogger  = slog.New(mainHandler)
)

// store is the expiring-store surface the app wires together: the service
// side plus the sweeper side, satisfied by both backends.
type store interface {
	service.ReminderRepository
	database.ExpiringStore
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		mainLogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	shutdownTracing, err := initTracing(ctx)
	if err != nil {
		mainLogger.Error("failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			mainLogger.Error("failed to shut down tracing", slog.String("error", err.Error()))
		}
	}()

	var reminderStore store
	if cfg.ReminderTable != "" {
		sess := awssess.MustGetSession()
		reminderStore = database.NewReminderRepository(sess, cfg.ReminderTable)
		mainLogger.Info("using DynamoDB store", slog.String("table", cfg.ReminderTable))
	} else {
		reminderStore = database.NewMemoryStore()
		mainLogger.Info("using embedded memory store")
	}

	feed := stream.NewFeed(cfg.FeedBuffer)
	sweeper := database.NewSweeper(reminderStore, feed, cfg.SweepInterval, model.AttrID)

	sender := notificationSender{}
	if cfg.TwilioFromNumber != "" {
		sender.sms = sms.MustInitSender(cfg.TwilioFromNumber)
	} else {
		mainLogger.Warn("TWILIO_FROM_NUMBER not set, SMS delivery disabled")
	}
	if cfg.MailgunDomain != "" {
		sender.email = email.NewSender(&email.SenderOpts{
			Domain: cfg.MailgunDomain,
			ApiKey: cfg.MailgunApiKey,
			From:   cfg.EmailSender,
		})
	} else {
		mainLogger.Warn("MAILGUN_DOMAIN not set, email delivery disabled")
	}

	dispatcher := dispatch.NewDispatcher(sender)
	runner := dispatch.NewRunner(feed, dispatcher, cfg.BatchSize, cfg.BatchLinger)

	reminderSvc := service.NewReminderService(reminderStore, idgen.New())
	ctrl := controller.NewReminderController(reminderSvc)
	router := api.InitRoutes(ctrl)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return sweeper.Run(ctx)
	})

	g.Go(func() error {
		return runner.Run(ctx)
	})

	g.Go(func() error {
		mainLogger.Info("listening", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		mainLogger.Error("shutting down with error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	mainLogger.Info("shutdown complete")
}

// notificationSender joins the two transport clients into the single
// capability the dispatcher consumes.
type notificationSender struct {
	sms   *sms.Sender
	email *email.Sender
}

func (s notificationSender) SendSMS(ctx context.Context, number, body string) (string, error) {
	if s.sms == nil {
		return "", errors.New("sms transport is not configured")
	}
	return s.sms.SendSMS(ctx, number, body)
}

func (s notificationSender) SendEmail(ctx context.Context, address, body string) (string, error) {
	if s.email == nil {
		return "", errors.New("email transport is not configured")
	}
	return s.email.SendEmail(ctx, address, body)
}
