// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Structure:
// - base.go: AggregateModel and date helpers
// - identity.go: users
// - partner.go: counterparties (contacts stored as JSON)
// - catalog.go: property objects
// - contract.go: contracts, specifications, specification services
// - billing.go: realizations and their service lines
// - finance.go: payments and payment allocations
package models
