package main

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
	"golang.org/x/oauth2/google"

	"github.com/weroambags/weroambags-backend-go/cache"
	"github.com/weroambags/weroambags-backend-go/config"
	"github.com/weroambags/weroambags-backend-go/database"
	"github.com/weroambags/weroambags-backend-go/handlers"
	custommw "github.com/weroambags/weroambags-backend-go/middleware"
	"github.com/weroambags/weroambags-backend-go/routes"
	"github.com/weroambags/weroambags-backend-go/uploads"
	"github.com/weroambags/weroambags-backend-go/utils"
)

func main() {
	config.LoadEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to parse config", "err", err)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "weroambags",
	})
	if cfg.LogFormat == "json" {
		logger.SetFormatter(log.JSONFormatter)
	}

	db, err := database.Connect(context.Background(), cfg.MongoURI, cfg.DBName)
	if err != nil {
		logger.Fatal("failed to connect to database", "err", err)
	}
	logger.Info("connected to MongoDB", "db", cfg.DBName)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{AllowOrigins: cfg.CORSOrigins}))
	e.HTTPErrorHandler = utils.ErrorHandler(logger)

	host := uploads.NewCloudHost(cfg.AssetHostURL, cfg.AssetHostKey, cfg.AssetHostSecret)
	pipeline := uploads.NewPipeline(cfg.UploadDir, host, logger)
	gateway := utils.NewPaymentGateway(cfg.GatewayURL, cfg.GatewayKeyID, cfg.GatewaySecret)

	users := database.NewUserRepo(db)
	auth := &custommw.Auth{Users: users, Secret: cfg.JWTSecret}
	metrics := custommw.NewMetrics(prometheus.DefaultRegisterer)
	expiry := time.Duration(cfg.JWTExpiryHr) * time.Hour

	googleProvider := &handlers.OAuthProvider{
		Config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.OAuthRedirectBase + "/api/v1/user/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		UserInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
		IDField:     "googleId",
		CookieName:  "token_google",
	}
	facebookProvider := &handlers.OAuthProvider{
		Config: &oauth2.Config{
			ClientID:     cfg.FacebookClientID,
			ClientSecret: cfg.FacebookClientSecret,
			RedirectURL:  cfg.OAuthRedirectBase + "/api/v1/user/auth/facebook/callback",
			Scopes:       []string{"email", "public_profile"},
			Endpoint:     endpoints.Facebook,
		},
		UserInfoURL: "https://graph.facebook.com/me?fields=id,name,first_name,last_name,email",
		IDField:     "facebookId",
		CookieName:  "token_facebook",
	}

	h := &routes.Handlers{
		Bags: handlers.NewBagHandler(database.NewBagRepo(db),
			cache.New(256, cache.DefaultTTL), pipeline, logger),
		Blogs: handlers.NewBlogHandler(database.NewBlogRepo(db),
			cache.New(128, cache.DefaultTTL), pipeline, logger),
		Contacts: handlers.NewContactHandler(database.NewContactRepo(db),
			cache.New(64, cache.DefaultTTL), logger),
		Orders: handlers.NewOrderHandler(database.NewOrderRepo(db),
			gateway, cfg.GatewaySecret, cfg.CallbackURL, logger),
		Users: handlers.NewUserHandler(users, cfg.JWTSecret, expiry,
			googleProvider, facebookProvider, cfg.FrontendURL, logger),
		Auth:      auth,
		Metrics:   metrics,
		PublicDir: cfg.UploadDir,
	}
	routes.SetupRoutes(e, h)

	logger.Info("starting server", "port", cfg.Port)
	if err := e.Start(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", "err", err)
	}
}
