package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/templui/datanexus/internal/catalog"
	"github.com/templui/datanexus/internal/config"
	"github.com/templui/datanexus/internal/db"
	"github.com/templui/datanexus/internal/flatfile"
	"github.com/templui/datanexus/internal/repository"
	"github.com/templui/datanexus/internal/service"
	"github.com/templui/datanexus/internal/storage"
)

type App struct {
	Cfg              *config.Config
	DB               *sqlx.DB // nil when the audit trail is disabled
	Catalog          *catalog.Catalog
	Store            flatfile.Store
	AuthService      *service.AuthService
	TableService     *service.TableService
	ImageService     *service.ImageService
	InquiryService   *service.InquiryService
	AssistantService *service.AssistantService
	AuditService     *service.AuditService
	EmailService     *service.EmailService

	done chan struct{}
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Tables and image categories
	cat, err := catalog.Load(cfg.CatalogPath, cfg.DataRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	err = cat.EnsureImageDirs()
	if err != nil {
		return nil, err
	}

	err = os.MkdirAll(cfg.ServerDataDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create server data directory: %w", err)
	}

	// Audit database (optional)
	var database *sqlx.DB
	var auditRepository repository.AuditRepository
	if cfg.AuditEnabled {
		database, err = db.Open(cfg.DBDriver, cfg.DBConnection)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		auditRepository = repository.NewAuditRepository(database)
	} else {
		slog.Info("audit trail disabled")
	}

	// Image mirror (optional)
	mirror, err := storage.New(ctx, cfg)
	if err != nil {
		if database != nil {
			_ = database.Close()
		}
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(cfg.UsersFile)
	store := flatfile.NewFileStore()

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	auditService := service.NewAuditService(auditRepository)
	authService := service.NewAuthService(
		userRepository,
		service.NewTokenIssuer(cfg.AuthStrategy, cfg.JWTSecret, cfg.JWTExpiry),
	)
	tableService := service.NewTableService(cat, store, auditService)
	imageService := service.NewImageService(cat, mirror, auditService)
	inquiryService := service.NewInquiryService(store, cfg.InquiriesFile, emailService, cfg.InquiryNotifyEmail)
	assistantService := service.NewAssistantService(cat, store)

	slog.Info("app initialized",
		"auth_strategy", cfg.AuthStrategy,
		"data_root", cfg.DataRoot,
		"tables", len(cat.Tables),
		"image_categories", len(cat.Categories),
		"image_mirror", mirror != nil,
	)

	return &App{
		Cfg:              cfg,
		DB:               database,
		Catalog:          cat,
		Store:            store,
		AuthService:      authService,
		TableService:     tableService,
		ImageService:     imageService,
		InquiryService:   inquiryService,
		AssistantService: assistantService,
		AuditService:     auditService,
		EmailService:     emailService,
		done:             make(chan struct{}),
	}, nil
}

// Done is closed when the app shuts down; background loops watch it.
func (a *App) Done() <-chan struct{} {
	return a.done
}

func (a *App) Close() error {
	select {
	case <-a.done:
	default:
		close(a.done)
	}

	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
