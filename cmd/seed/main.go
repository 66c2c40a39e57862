// Command seed loads the price table, the drop-off locations and the
// initial admin account. Existing rows are left untouched.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/setorcuan/backend/internal/domain/account"
	"github.com/setorcuan/backend/internal/domain/catalog"
	"github.com/setorcuan/backend/internal/domain/shared"
	"github.com/setorcuan/backend/internal/infrastructure/auth"
	"github.com/setorcuan/backend/internal/infrastructure/config"
	"github.com/setorcuan/backend/internal/infrastructure/logger"
	"github.com/setorcuan/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type recyclableSeed struct {
	name  string
	price int64
}

type locationSeed struct {
	id, name, address string
	lat, lng          float64
}

var recyclables = []recyclableSeed{
	{"plastik", 5000},
	{"kardus", 4000},
	{"kaca", 7000},
}

var locations = []locationSeed{
	{"lokasi1", "Bank Sampah SetorCuan - Pulau Damar", "Jl. Pulau Damar Gg. Nusa Satu No.23", -5.376526338272906, 105.28818970242115},
	{"lokasi2", "Bank Sampah SetorCuan - Raden Saleh", "Jl. Raden Saleh, Way Huwi", -5.3646679769006695, 105.29603722423592},
	{"lokasi3", "Bank Sampah SetorCuan - ITERA", "Jl. Terusan Ryacudu, Way Huwi", -5.3609809417718, 105.32137968044056},
}

// adminSeed describes the bootstrap administrator
type adminSeed struct {
	Username string
	Email    string
	Password string
}

func main() {
	admin := adminSeed{}
	flag.StringVar(&admin.Username, "admin-username", "admin", "Admin username")
	flag.StringVar(&admin.Email, "admin-email", "admin@setorcuan.com", "Admin email")
	flag.StringVar(&admin.Password, "admin-password", envOr("SETORCUAN_SEED_ADMIN_PASSWORD", "admin123"), "Admin password")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.NewForEnvironment(cfg.App.Env, "setorcuan-seed")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if cfg.IsProduction() && admin.Password == "admin123" {
		log.Fatal("Refusing to seed the default admin password in production")
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := seed(context.Background(), db.DB, auth.NewPasswordHasher(bcrypt.DefaultCost), admin, log); err != nil {
		log.Fatal("Seeding failed", zap.Error(err))
	}
	log.Info("Seeding finished")
}

func seed(ctx context.Context, db *gorm.DB, hasher *auth.PasswordHasher, admin adminSeed, log *zap.Logger) error {
	if err := seedRecyclables(ctx, persistence.NewGormRecyclableRepository(db), log); err != nil {
		return fmt.Errorf("recyclables: %w", err)
	}
	if err := seedLocations(ctx, persistence.NewGormLocationRepository(db), log); err != nil {
		return fmt.Errorf("locations: %w", err)
	}
	if err := seedAdmin(ctx, persistence.NewGormUserRepository(db), hasher, admin, log); err != nil {
		return fmt.Errorf("admin: %w", err)
	}
	return nil
}

func seedRecyclables(ctx context.Context, repo catalog.RecyclableRepository, log *zap.Logger) error {
	n, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		log.Info("Recyclables already present", zap.Int64("count", n))
		return nil
	}
	for _, s := range recyclables {
		r, err := catalog.NewRecyclable(s.name, s.price)
		if err != nil {
			return err
		}
		if err := repo.Upsert(ctx, r); err != nil {
			return err
		}
	}
	log.Info("Recyclables seeded", zap.Int("count", len(recyclables)))
	return nil
}

func seedLocations(ctx context.Context, repo catalog.LocationRepository, log *zap.Logger) error {
	n, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		log.Info("Locations already present", zap.Int64("count", n))
		return nil
	}
	for _, s := range locations {
		loc, err := catalog.NewLocation(s.id, s.name, s.lat, s.lng, s.address)
		if err != nil {
			return err
		}
		if err := repo.Save(ctx, loc); err != nil {
			return err
		}
	}
	log.Info("Locations seeded", zap.Int("count", len(locations)))
	return nil
}

func seedAdmin(ctx context.Context, users account.UserRepository, hasher *auth.PasswordHasher, admin adminSeed, log *zap.Logger) error {
	_, err := users.FindByUsernameOrEmail(ctx, admin.Username)
	if err == nil {
		log.Info("Admin user already present", zap.String("username", admin.Username))
		return nil
	}
	if !shared.IsCode(err, shared.CodeNotFound) {
		return err
	}

	hash, err := hasher.Hash(admin.Password)
	if err != nil {
		return err
	}
	u, err := account.NewUser(admin.Username, admin.Email, hash, account.RoleAdmin)
	if err != nil {
		return err
	}
	if err := users.Create(ctx, u); err != nil {
		return err
	}
	log.Info("Admin user created", zap.String("username", admin.Username))
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
