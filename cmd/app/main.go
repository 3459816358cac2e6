package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/sushihentaime/inkwell/internal/commentservice"
	"github.com/sushihentaime/inkwell/internal/common"
	"github.com/sushihentaime/inkwell/internal/contentservice"
	"github.com/sushihentaime/inkwell/internal/mailservice"
	"github.com/sushihentaime/inkwell/internal/userservice"
)

type application struct {
	config         *Config
	logger         *slog.Logger
	db             *sql.DB
	userService    *userservice.UserService
	postService    *contentservice.ContentService
	pageService    *contentservice.ContentService
	searchService  *contentservice.SearchService
	commentService *commentservice.CommentService
	mailService    *mailservice.MailService
	broker         *common.MessageBroker
	limiter        *ipRateLimiter
}

func newLogger(environment string) *slog.Logger {
	if environment == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}

	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func main() {
	configPath := flag.String("config", ".env", "path to the dotenv configuration file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := newLogger(cfg.Environment)

	db, err := common.NewDB(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBMaxIdleTime)
	if err != nil {
		logger.Error("failed to connect to the database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer common.CloseDB(db)

	err = common.Migrate(cfg.MigrationsPath, common.DSN(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName))
	if err != nil {
		logger.Error("failed to migrate the database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	broker, err := common.NewMessageBroker(common.AMQPURI(cfg.MQUser, cfg.MQPassword, cfg.MQHost, cfg.MQPort))
	if err != nil {
		logger.Error("failed to connect to the message broker", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer broker.Close()

	err = common.SetupBlogExchange(broker)
	if err != nil {
		logger.Error("failed to setup the blog exchange", slog.String("error", err.Error()))
		os.Exit(1)
	}

	app := &application{
		config:         cfg,
		logger:         logger,
		db:             db,
		userService:    userservice.NewUserService(db, common.NewCache(5*time.Minute, 10*time.Minute)),
		postService:    contentservice.NewContentService(db, contentservice.PostKind),
		pageService:    contentservice.NewContentService(db, contentservice.PageKind),
		searchService:  contentservice.NewSearchService(db),
		commentService: commentservice.NewCommentService(db, broker, logger),
		mailService: mailservice.NewMailService(broker, mailservice.MailConfig{
			Host:          cfg.MailHost,
			Port:          cfg.MailPort,
			Username:      cfg.MailUser,
			Password:      cfg.MailPassword,
			Sender:        cfg.MailSender,
			Moderator:     cfg.ModeratorEmail,
			ModerationURL: cfg.ModerationURL,
		}, logger),
		broker: broker,
	}

	if cfg.LimiterEnabled {
		app.limiter = newIPRateLimiter(cfg.LimiterRPS, cfg.LimiterBurst)
		defer app.limiter.Close()
	}

	if err := app.bootstrapAdmin(); err != nil {
		logger.Error("failed to bootstrap the admin account", slog.String("error", err.Error()))
		os.Exit(1)
	}

	app.mailService.SendCommentNotifications()
	defer app.mailService.Close()

	err = app.serve()
	if err != nil {
		logger.Error("failed to start the server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// bootstrapAdmin creates or repairs the configured admin account. Without ADMIN_USERNAME nothing happens.
func (app *application) bootstrapAdmin() error {
	if app.config.AdminUsername == "" {
		app.logger.Info("no admin account configured")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	u, err := app.userService.EnsureAdmin(ctx, app.config.AdminUsername, app.config.AdminEmail, app.config.AdminPassword)
	if err != nil {
		return err
	}

	app.logger.Info("admin account ready", slog.String("username", u.Username))

	return nil
}
