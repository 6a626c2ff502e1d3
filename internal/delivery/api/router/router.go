// Package router wires the lesson API routes onto echo.
package router

import (
	"lessonradar/internal/delivery/api/middleware"
	"lessonradar/internal/delivery/api/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	SessionHandler  *handler.SessionHandler
	AddressHandler  *handler.AddressHandler
	CategoryHandler *handler.CategoryHandler
	LessonHandler   *handler.LessonHandler
	CartHandler     *handler.CartHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	sessionHandler  *handler.SessionHandler
	addressHandler  *handler.AddressHandler
	categoryHandler *handler.CategoryHandler
	lessonHandler   *handler.LessonHandler
	cartHandler     *handler.CartHandler
	authMiddleware  *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
func NewRouter(params RouterParams) *router {
	return &router{
		sessionHandler:  params.SessionHandler,
		addressHandler:  params.AddressHandler,
		categoryHandler: params.CategoryHandler,
		lessonHandler:   params.LessonHandler,
		cartHandler:     params.CartHandler,
		authMiddleware:  params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)

	authGroup := e.Group("/auth")
	{
		authGroup.POST("/signup", r.sessionHandler.Signup)
		authGroup.POST("/login", r.sessionHandler.Login)
		authGroup.POST("/kakao", r.sessionHandler.KakaoLogin)
	}

	apiV1 := e.Group("/api/v1")
	apiV1.Use(r.authMiddleware.Authenticate)

	sessionGroup := apiV1.Group("/session")
	{
		sessionGroup.GET("", r.sessionHandler.Profile)
		sessionGroup.POST("/logout", r.sessionHandler.Logout)
		sessionGroup.PUT("/password", r.sessionHandler.ChangePassword)
	}

	addressGroup := apiV1.Group("/addresses")
	{
		addressGroup.GET("", r.addressHandler.List)
		addressGroup.POST("", r.addressHandler.Add)
		addressGroup.POST("/current-location", r.addressHandler.AddCurrentLocation)
		addressGroup.PUT("/edit-mode", r.addressHandler.SetEditMode)
		addressGroup.POST("/select", r.addressHandler.Select)
		addressGroup.GET("/selected", r.addressHandler.Selected)
		addressGroup.PUT("/:index", r.addressHandler.Edit)
		addressGroup.DELETE("/:index", r.addressHandler.Remove)
	}

	categoryGroup := apiV1.Group("/categories")
	{
		categoryGroup.GET("", r.categoryHandler.Resolve)
		categoryGroup.POST("/choose", r.categoryHandler.Choose)
	}

	lessonGroup := apiV1.Group("/lessons")
	{
		lessonGroup.POST("/search", r.lessonHandler.Search)
		lessonGroup.GET("/search/:id", r.lessonHandler.GetSearch)
		lessonGroup.DELETE("/search/:id", r.lessonHandler.DiscardSearch)
		lessonGroup.POST("/search/:id/sort", r.lessonHandler.SortNearest)
		lessonGroup.GET("/search/:id/lessons/:lessonId", r.lessonHandler.GetLesson)
		lessonGroup.POST("/detail", r.lessonHandler.Detail)
		lessonGroup.POST("/detail/share-qr", r.lessonHandler.ShareQR)
	}

	cartGroup := apiV1.Group("/cart")
	{
		cartGroup.GET("", r.cartHandler.View)
		cartGroup.POST("", r.cartHandler.Add)
		cartGroup.POST("/select/:id", r.cartHandler.ToggleSelect)
		cartGroup.POST("/select-all", r.cartHandler.SelectAll)
		cartGroup.POST("/deselect-all", r.cartHandler.DeselectAll)
		cartGroup.POST("/toggle-all", r.cartHandler.ToggleAll)
		cartGroup.POST("/remove-selected", r.cartHandler.RemoveSelected)
		cartGroup.POST("/checkout", r.cartHandler.Checkout)
	}

	apiV1.GET("/checkouts", r.cartHandler.Checkouts)
}
