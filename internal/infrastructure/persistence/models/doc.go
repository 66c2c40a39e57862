// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Structure:
//   - base.go: shared columns (BaseModel, AggregateModel)
//   - account.go: users and point adjustment audit entries
//   - exchange.go: deposits and withdrawals
//   - catalog.go: recyclable categories and drop-off locations
package models
