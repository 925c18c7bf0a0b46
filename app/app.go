package app

import (
	"bitwise74/files-manager/aws"
	"bitwise74/files-manager/db"
	"bitwise74/files-manager/internal"
	"bitwise74/files-manager/internal/queue"
	"bitwise74/files-manager/internal/service"
	"bitwise74/files-manager/internal/session"
	"bitwise74/files-manager/internal/storage"
	"bitwise74/files-manager/pkg/security"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	v "github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type App struct {
	Deps   *internal.Deps
	Router *gin.Engine
	Worker *asynq.Server
	Mux    *asynq.ServeMux

	srv      *http.Server
	workerUp bool
}

// New builds every dependency from the loaded configuration. Stores are
// checked for reachability before it returns.
func New(ctx context.Context) (*App, error) {
	d := &internal.Deps{}

	content, err := newContentStore(ctx)
	if err != nil {
		return nil, err
	}
	d.Content = content

	driver, source := v.GetString("db.driver"), dsn()
	if driver == "sqlite" {
		if err := os.MkdirAll(filepath.Dir(source), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory, %w", err)
		}
	}

	store, err := db.New(db.Config{
		Driver: driver,
		DSN:    source,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}
	d.DB = store

	redisOpts := &redis.Options{
		Addr:     v.GetString("redis.addr"),
		Password: v.GetString("redis.password"),
		DB:       v.GetInt("redis.db"),
	}

	sessions, err := session.Connect(ctx, redisOpts, v.GetDuration("session.ttl"))
	if err != nil {
		store.Close()
		return nil, err
	}
	d.Sessions = sessions

	queueOpt := asynq.RedisClientOpt{
		Addr:     redisOpts.Addr,
		Password: redisOpts.Password,
		DB:       redisOpts.DB,
	}

	d.Queue = queue.NewClient(queueOpt, v.GetInt("queue.max_retry"))

	widths := v.GetIntSlice("derivative.widths")
	d.Files = service.NewFileService(store, content, d.Queue, widths)
	d.Auth = service.NewAuthService(service.NewCachedUsers(store, 1024, 5*time.Minute), sessions, security.New(), d.Queue)

	var notifier service.Notifier = service.LogNotifier{}
	if v.GetBool("mail.enabled") {
		notifier = service.NewMailNotifier(service.MailConfig{
			Host:     v.GetString("mail.host"),
			Port:     v.GetInt("mail.port"),
			Sender:   v.GetString("mail.sender_address"),
			Password: v.GetString("mail.password"),
		})
	}

	a := &App{
		Deps: d,
		Router: NewRouter(d, RouterConfig{
			CORSOrigins:   v.GetStringSlice("host.cors_origins"),
			RateLimit:     v.GetInt("host.rate_limit"),
			MaxUploadSize: v.GetInt64("upload.max_size"),
			StatsCacheTTL: 10 * time.Second,
		}),
		Worker: queue.NewServer(queueOpt, queue.ServerConfig{
			Concurrency: v.GetInt("queue.concurrency"),
			LogLevel:    v.GetString("app.log_level"),
		}),
		Mux: queue.NewMux(
			service.NewDerivativeWorker(store, content, widths),
			service.NewWelcomeWorker(store, notifier),
		),
	}

	return a, nil
}

// dsn defaults to a sqlite file inside the local content folder
func dsn() string {
	if s := v.GetString("db.dsn"); s != "" {
		return s
	}

	return filepath.Join(v.GetString("storage.folder_path"), "files_manager.db")
}

func newContentStore(ctx context.Context) (storage.Store, error) {
	if v.GetString("storage.type") != "s3" {
		return storage.NewLocal(v.GetString("storage.folder_path")), nil
	}

	client, err := aws.NewS3(ctx, aws.Config{
		AccessKey:       v.GetString("aws.access_key"),
		SecretAccessKey: v.GetString("aws.secret_access_key"),
		Region:          v.GetString("aws.region"),
		Bucket:          v.GetString("aws.bucket"),
		Endpoint:        v.GetString("aws.endpoint"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize S3 client, %w", err)
	}

	return storage.NewS3(client, v.GetString("storage.folder_path")), nil
}

// Start launches the components selected by mode (api, worker or all) and
// returns once they are accepting work.
func (a *App) Start(mode string) error {
	if mode == "worker" || mode == "all" {
		if err := a.Worker.Start(a.Mux); err != nil {
			return fmt.Errorf("failed to start job server, %w", err)
		}

		a.workerUp = true
		zap.L().Info("Job server started")
	}

	if mode == "api" || mode == "all" {
		a.srv = &http.Server{
			Addr:              ":" + strconv.Itoa(v.GetInt("host.port")),
			Handler:           a.Router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			zap.L().Info("Server starting", zap.String("addr", a.srv.Addr))

			if err := a.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				zap.L().Fatal("HTTP server failed", zap.Error(err))
			}
		}()
	}

	return nil
}

// Stop drains the HTTP server and the job server in parallel, then closes
// every connection.
func (a *App) Stop(ctx context.Context) error {
	var g errgroup.Group

	if a.srv != nil {
		g.Go(func() error {
			return a.srv.Shutdown(ctx)
		})
	}

	if a.workerUp {
		g.Go(func() error {
			a.Worker.Shutdown()
			return nil
		})
	}

	err := g.Wait()
	a.Close()
	return err
}

// Close waits for pending enqueues and releases every connection
func (a *App) Close() {
	a.Deps.Files.Wait()
	a.Deps.Auth.Wait()

	if err := a.Deps.Queue.Close(); err != nil {
		zap.L().Warn("Failed to close queue client", zap.Error(err))
	}

	if err := a.Deps.Sessions.Close(); err != nil {
		zap.L().Warn("Failed to close redis client", zap.Error(err))
	}

	if err := a.Deps.DB.Close(); err != nil {
		zap.L().Warn("Failed to close database", zap.Error(err))
	}
}
