package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"squadup/internal/adapter/api"
	"squadup/internal/adapter/api/handler"
	apimiddleware "squadup/internal/adapter/api/middleware"
	"squadup/internal/adapter/api/router"
	"squadup/internal/adapter/repository"
	domainrepo "squadup/internal/domain/repository"
	"squadup/internal/domain/service"
	"squadup/internal/infrastructure/firebase"
	"squadup/internal/infrastructure/password"
	"squadup/internal/infrastructure/ratelimit"
	"squadup/internal/infrastructure/storage"
	"squadup/internal/infrastructure/token"
	"squadup/internal/infrastructure/websocket"
	"squadup/internal/usecase"
	"squadup/pkg/config"
	"squadup/pkg/logger"
	"squadup/pkg/response"
)

type repositories struct {
	users    domainrepo.UserRepository
	chats    domainrepo.ChatRepository
	messages domainrepo.MessageRepository
	matches  domainrepo.MatchRepository
	stadiums domainrepo.StadiumRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	needsGoogle := cfg.DatabaseDriver == config.DriverFirestore || cfg.AuthProvider == config.AuthFirebase || cfg.StorageBucket != ""
	var opts []option.ClientOption
	if needsGoogle {
		opts = credentialOptions(cfg)
	}

	var (
		repos       repositories
		healthProbe handler.HealthProbe
	)
	switch cfg.DatabaseDriver {
	case config.DriverFirestore:
		firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
		if err != nil {
			log.Fatalf("Failed to create Firestore client: %v", err)
		}
		defer firestoreClient.Close()

		repos = repositories{
			users:    repository.NewFirestoreUserRepository(firestoreClient),
			chats:    repository.NewFirestoreChatRepository(firestoreClient),
			messages: repository.NewFirestoreMessageRepository(firestoreClient),
			matches:  repository.NewFirestoreMatchRepository(firestoreClient),
			stadiums: repository.NewFirestoreStadiumRepository(firestoreClient),
		}
		healthProbe = repository.FirestoreHealthProbe(firestoreClient)
	case config.DriverMemory:
		logger.Warn("using in-memory storage, data is lost on restart")
		repos = repositories{
			users:    repository.NewMemoryUserRepository(),
			chats:    repository.NewMemoryChatRepository(),
			messages: repository.NewMemoryMessageRepository(),
			matches:  repository.NewMemoryMatchRepository(),
			stadiums: repository.NewMemoryStadiumRepository(),
		}
	default:
		log.Fatalf("Unknown DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}

	var tokens service.TokenService
	switch cfg.AuthProvider {
	case config.AuthFirebase:
		firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opts...)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}
		authClient, err := firebaseApp.Auth(ctx)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase Auth: %v", err)
		}
		tokens = firebase.NewTokenService(authClient)
	case config.AuthJWT:
		tokens = token.NewJWTService(cfg.JWTSecret)
	default:
		log.Fatalf("Unknown AUTH_PROVIDER %q", cfg.AuthProvider)
	}

	var blobs service.BlobStore
	if cfg.StorageBucket != "" {
		storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, opts...)
		if err != nil {
			log.Fatalf("Failed to initialize Cloud Storage: %v", err)
		}
		defer storageClient.Close()
		blobs = storageClient
	} else {
		logger.Warn("STORAGE_BUCKET not set, uploads are kept in memory")
		blobs = storage.NewMemoryStore()
	}

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	rateLimiter := ratelimit.NewRateLimiter()
	rateLimiter.StartCleanupRoutine(ctx)

	gate := service.NewLockGate(cfg.Location(), time.Now)

	authUseCase := usecase.NewAuthUseCase(repos.users, tokens, password.NewBcryptHasher(bcrypt.DefaultCost), rateLimiter, cfg.TokenTTL())
	userUseCase := usecase.NewUserUseCase(repos.users, blobs)
	chatUseCase := usecase.NewChatUseCase(repos.chats, repos.messages, repos.users, wsManager, rateLimiter)
	stadiumUseCase := usecase.NewStadiumUseCase(repos.stadiums, blobs)
	matchUseCase := usecase.NewMatchUseCase(repos.matches, repos.chats, repos.users, repos.stadiums, chatUseCase, gate, rateLimiter)

	handler.Setup(authUseCase, userUseCase, chatUseCase, matchUseCase, stadiumUseCase)
	handler.SetupHealthHandler(cfg.DatabaseDriver, healthProbe)
	handler.SetupWebSocketHandler(wsManager, authUseCase, cfg.CORSOrigins)

	e := echo.New()
	e.HideBanner = true
	e.Logger = logger.Echo()
	e.HTTPErrorHandler = response.HTTPErrorHandler
	e.Validator = api.NewValidator()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
	}))

	authMiddleware := apimiddleware.NewAuthMiddleware(authUseCase)
	router.Setup(e, authMiddleware, rateLimiter)

	go func() {
		logger.Info("Starting server on port %s (%s, db=%s, auth=%s)", cfg.ServerPort, cfg.Environment, cfg.DatabaseDriver, cfg.AuthProvider)
		if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal(err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed: %v", err)
	}
}

// credentialOptions prefers inline service account JSON, then a key file,
// then application default credentials.
func credentialOptions(cfg *config.Config) []option.ClientOption {
	if cfg.FirebaseCredentialJSON != "" {
		logger.Info("Using Firebase service account from environment variable")
		return []option.ClientOption{option.WithCredentialsJSON([]byte(cfg.FirebaseCredentialJSON))}
	}
	if cfg.FirebaseCredentialPath != "" {
		if _, err := os.Stat(cfg.FirebaseCredentialPath); os.IsNotExist(err) {
			log.Fatalf("Service account file does not exist: %s", cfg.FirebaseCredentialPath)
		}
		logger.Info("Using Firebase service account from file: %s", cfg.FirebaseCredentialPath)
		return []option.ClientOption{option.WithCredentialsFile(cfg.FirebaseCredentialPath)}
	}
	logger.Info("Using application default credentials")
	return nil
}
