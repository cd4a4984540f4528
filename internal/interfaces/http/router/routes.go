package router

import (
	"github.com/adspace/backoffice/internal/interfaces/http/handler"
)

// Handlers are the API handlers mounted by APIRoutes
type Handlers struct {
	Realizations    *handler.RealizationHandler
	Payments        *handler.PaymentHandler
	Counterparties  *handler.CounterpartyHandler
	PropertyObjects *handler.PropertyObjectHandler
	Contracts       *handler.ContractHandler
	Users           *handler.UserHandler
	Health          *handler.HealthHandler
}

// APIRoutes declares the resource groups of the back office API.
// Static paths (generate, export) are registered before ":id".
func APIRoutes(h Handlers) []*Group {
	realizations := NewGroup("/realizations").
		POST("/generate", h.Realizations.Generate).
		GET("/export", h.Realizations.Export).
		GET("", h.Realizations.List).
		POST("", h.Realizations.Create).
		GET("/:id", h.Realizations.Get).
		DELETE("/:id", h.Realizations.Delete).
		PUT("/:id/services/:serviceId", h.Realizations.UpdateService)

	payments := NewGroup("/payments").
		GET("", h.Payments.List).
		POST("", h.Payments.Create).
		GET("/:id", h.Payments.Get).
		PUT("/:id", h.Payments.Update).
		DELETE("/:id", h.Payments.Delete)

	counterparties := NewGroup("/counterparties").
		GET("", h.Counterparties.List).
		POST("", h.Counterparties.Create).
		GET("/:id", h.Counterparties.Get).
		PUT("/:id", h.Counterparties.Update).
		DELETE("/:id", h.Counterparties.Delete)

	objects := NewGroup("/property-objects").
		GET("", h.PropertyObjects.List).
		POST("", h.PropertyObjects.Create).
		GET("/:id", h.PropertyObjects.Get).
		PUT("/:id", h.PropertyObjects.Update).
		DELETE("/:id", h.PropertyObjects.Delete)

	contracts := NewGroup("/contracts").
		GET("", h.Contracts.List).
		POST("", h.Contracts.Create).
		GET("/:id", h.Contracts.Get).
		DELETE("/:id", h.Contracts.Delete).
		POST("/:id/archive", h.Contracts.Archive).
		POST("/:id/activate", h.Contracts.Activate).
		POST("/:id/specifications", h.Contracts.AddSpecification).
		POST("/:id/specifications/:specId/services", h.Contracts.AddService)

	users := NewGroup("/users").
		GET("", h.Users.List).
		POST("", h.Users.Create).
		PUT("/:id/active", h.Users.SetActive)

	system := NewGroup("").
		GET("/health", h.Health.Health).
		GET("/dictionaries", h.PropertyObjects.Dictionaries)

	return []*Group{realizations, payments, counterparties, objects, contracts, users, system}
}
