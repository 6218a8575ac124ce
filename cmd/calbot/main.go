package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	entrysqlite "github.com/ksumarshmallow/calbot/internal/application/repository/entry/sqlite"
	"github.com/ksumarshmallow/calbot/internal/application/service/conversation"
	"github.com/ksumarshmallow/calbot/internal/application/service/dateparse"
	"github.com/ksumarshmallow/calbot/internal/application/service/notify"
	"github.com/ksumarshmallow/calbot/internal/config"
	"github.com/ksumarshmallow/calbot/internal/handler"
	"github.com/ksumarshmallow/calbot/internal/logger"
	"github.com/ksumarshmallow/calbot/internal/messenger"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	// .env is optional; environment variables win either way.
	_ = godotenv.Load()

	conf, err := config.Load(*configPath)
	if err != nil {
		logger.Error(context.Background(), "failed to load config: ", err)
		os.Exit(1)
	}

	logger.SetLevel(conf.Log.Level)
	if conf.Log.File != "" {
		logger.EnableFileOutput(conf.Log.File, conf.Log.MaxSizeMB, conf.Log.MaxBackups, conf.Log.MaxAgeDays)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, conf); err != nil {
		logger.Error(ctx, "service failed: ", err)
		os.Exit(1)
	}
	logger.Info(ctx, "calbot exited")
}

func run(ctx context.Context, conf *config.Config) error {
	db, err := gorm.Open(sqlite.Open(conf.Database.Path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return err
	}
	if err := entrysqlite.Migrate(db); err != nil {
		return err
	}

	repo := entrysqlite.NewEntryRepository(db)
	mailbox := messenger.NewMailbox(conf.Notify.MailboxCapacity)
	resolver := dateparse.NewResolver()
	engine := conversation.NewService(repo, mailbox, resolver)

	scheduler, err := notify.NewScheduler(repo, mailbox, conf.Notify.At)
	if err != nil {
		return err
	}
	if err := scheduler.Start(ctx); err != nil {
		return err
	}
	defer scheduler.Stop()

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler.New(engine, repo, mailbox).Register(router)

	server := &http.Server{
		Addr:    conf.Server.Listen,
		Handler: router,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infof(gctx, "listening on %s", conf.Server.Listen)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info(gctx, "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
