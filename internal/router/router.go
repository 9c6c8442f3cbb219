package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"auctionhouse/internal/auth"
	"auctionhouse/internal/handler"
	"auctionhouse/internal/logger"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	auctionHandler *handler.AuctionHandler,
	authHandler *handler.AuthHandler,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
) {
	e.Use(middleware.RequestID())
	e.Use(logger.RequestLogger())
	e.Use(middleware.Recover())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	requireIdentity := jwtService.RequireIdentity(tokenStore)

	api := e.Group("/api")

	// Public routes
	api.GET("/auction", auctionHandler.ListAuctions)
	api.GET("/auction/:id", auctionHandler.GetAuction)
	api.GET("/auction/:id/bids", auctionHandler.ListBids)

	// Routes acting on behalf of an identity
	api.POST("/auction", auctionHandler.CreateAuction, requireIdentity)
	api.PATCH("/auction", auctionHandler.PlaceBid, requireIdentity)
	api.POST("/auth/revoke", authHandler.Revoke, requireIdentity)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
