package catalog

import "context"

// RecyclableRepository stores the price table
type RecyclableRepository interface {
	FindByName(ctx context.Context, name string) (*Recyclable, error)
	FindAll(ctx context.Context) ([]Recyclable, error)
	// Upsert inserts the entry or updates the price of an existing name
	Upsert(ctx context.Context, r *Recyclable) error
	Count(ctx context.Context) (int64, error)
}

// LocationRepository stores drop-off locations
type LocationRepository interface {
	FindByID(ctx context.Context, id string) (*Location, error)
	FindAll(ctx context.Context) ([]Location, error)
	Save(ctx context.Context, l *Location) error
	Count(ctx context.Context) (int64, error)
}
