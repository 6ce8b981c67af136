package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	configs "submission_service/config"
	"submission_service/internal/pool"
	"submission_service/internal/repository"
	"submission_service/internal/server/httpapi"
	"submission_service/internal/service"
	"submission_service/internal/storage"
	"submission_service/pkg/db"
	"submission_service/pkg/kafka"
	"submission_service/pkg/logger"

	_ "github.com/lib/pq"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.New()
	defer func() { _ = log.Sync() }()

	cfg, err := configs.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pg, err := db.NewPostgres(db.Config{
		Host:           cfg.DB.Host,
		Port:           cfg.DB.Port,
		User:           cfg.DB.User,
		Password:       cfg.DB.Password,
		DBName:         cfg.DB.DBName,
		SSLMode:        cfg.DB.SSLMode,
		MigrationsPath: cfg.DB.MigrationsPath,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = pg.Close() }()

	connPool := pool.New(pg.DB(), cfg.Pool.Size)
	defer func() { _ = connPool.Close() }()

	fileStore, err := newFileStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to init file storage: %v", err)
	}

	submissionRepo := repository.NewSubmissionRepository()
	statusRepo := repository.NewStatusChangeRepository()
	taskRepo := repository.NewTaskRepository()
	userRepo := repository.NewUserRepository()
	teacherRepo := repository.NewTeacherRepository()
	studentRepo := repository.NewStudentRepository()
	classRepo := repository.NewClassRepository()

	submissionService := service.NewSubmissionService(connPool, submissionRepo, statusRepo, fileStore, log)
	recordService := service.NewRecordService(connPool, userRepo, teacherRepo, studentRepo, classRepo, taskRepo, statusRepo)

	if cfg.Reminder.Enabled {
		kafkaProducer, err := kafka.NewProducer(kafka.Config{Brokers: cfg.Kafka.Brokers})
		if err != nil {
			log.Fatalf("Failed to create Kafka producer: %v", err)
		}
		defer func() { _ = kafkaProducer.Close() }()

		worker := NewReminderWorker(
			connPool,
			taskRepo,
			kafkaProducer,
			log,
			cfg.Kafka.Topic,
			cfg.Reminder.Interval,
			cfg.Reminder.Window,
		)
		go worker.Start(ctx)
	}

	router := httpapi.NewRouter(submissionService, recordService, log)

	server := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.Timeout,
		WriteTimeout: cfg.HTTP.Timeout,
	}

	go func() {
		log.Infof("Listening on %s", cfg.HTTP.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Graceful shutdown failed: %v", err)
	}
}

func newFileStore(ctx context.Context, cfg *configs.Config) (storage.Store, error) {
	if cfg.Storage.Backend != "s3" {
		return storage.NewLocalStore(cfg.Storage.Dir)
	}

	var optFns []func(*awscfg.LoadOptions) error
	optFns = append(optFns, awscfg.WithRegion(cfg.Storage.S3.Region))
	if cfg.Storage.S3.AccessKeyID != "" {
		optFns = append(optFns, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.Storage.S3.AccessKeyID, cfg.Storage.S3.SecretAccessKey, ""),
		))
	}

	awsConfig, err := awscfg.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.Storage.S3.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.S3.Endpoint)
			// Path-style addressing for S3-compatible backends like MinIO.
			o.UsePathStyle = true
		}
	})

	return storage.NewS3Store(ctx, client, cfg.Storage.S3.Bucket)
}
