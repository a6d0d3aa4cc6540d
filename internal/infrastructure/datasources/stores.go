package datasources

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"assembly-directory.backend/internal/config"
	"assembly-directory.backend/internal/domain/repositories"
	"assembly-directory.backend/internal/infrastructure/datasources/gormdb"
	"assembly-directory.backend/internal/infrastructure/datasources/mongodb"
	"assembly-directory.backend/internal/infrastructure/mongostore"
	sqlrepo "assembly-directory.backend/internal/infrastructure/repositories"
)

var (
	openGorm     = gormdb.Open
	migrateGorm  = gormdb.Migrate
	connectMongo = mongodb.NewConnection
)

// Stores bundles the repositories of the selected driver
type Stores struct {
	Members repositories.MemberRepository
	Admins  repositories.AdminRepository
	Driver  string
	close   func(context.Context) error
}

// Close releases the underlying connection
func (s *Stores) Close(ctx context.Context) error {
	if s == nil || s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// Open connects to the store named by cfg.Store.Driver and prepares its schema or indexes
func Open(ctx context.Context, cfg *config.Config) (*Stores, error) {
	switch cfg.Store.Driver {
	case config.DriverMongo:
		client, db, err := connectMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		return newMongoStores(ctx, client, db)
	case config.DriverPostgres, config.DriverSQLite:
		db, err := openGorm(cfg)
		if err != nil {
			return nil, err
		}
		return NewGormStores(db, cfg.Store.Driver)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}

// NewGormStores migrates db and wraps it in the SQL repositories
func NewGormStores(db *gorm.DB, driver string) (*Stores, error) {
	if err := migrateGorm(db); err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get generic database object: %w", err)
	}
	return &Stores{
		Members: sqlrepo.NewMemberRepository(db),
		Admins:  sqlrepo.NewAdminRepository(db),
		Driver:  driver,
		close:   func(context.Context) error { return sqlDB.Close() },
	}, nil
}

func newMongoStores(ctx context.Context, client *mongo.Client, db *mongo.Database) (*Stores, error) {
	members := mongostore.NewMemberStore(db)
	admins := mongostore.NewAdminStore(db)
	if err := members.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	if err := admins.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return &Stores{
		Members: members,
		Admins:  admins,
		Driver:  config.DriverMongo,
		close:   client.Disconnect,
	}, nil
}
