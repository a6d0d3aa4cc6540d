package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"assembly-directory.backend/internal/config"
	"assembly-directory.backend/internal/domain/entities"
	domainerrors "assembly-directory.backend/internal/domain/errors"
	domainrepo "assembly-directory.backend/internal/domain/repositories"
	"assembly-directory.backend/internal/infrastructure/datasources"
	"assembly-directory.backend/pkg/crypto"
	"assembly-directory.backend/pkg/utils"
)

type initAdminDeps struct {
	loadEnv func() error
	loadCfg func() *config.Config
	prepare func(ctx context.Context, cfg *config.Config) (domainrepo.AdminRepository, func(context.Context) error, error)
	hash    func(password string) (string, error)
	now     func() time.Time
	out     io.Writer
}

func defaultInitAdminDeps() initAdminDeps {
	return initAdminDeps{
		loadEnv: func() error { return godotenv.Load() },
		loadCfg: config.Load,
		prepare: func(ctx context.Context, cfg *config.Config) (domainrepo.AdminRepository, func(context.Context) error, error) {
			stores, err := datasources.Open(ctx, cfg)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to open store: %w", err)
			}
			return stores.Admins, stores.Close, nil
		},
		hash: crypto.HashPassword,
		now:  time.Now,
		out:  os.Stdout,
	}
}

func runInitAdmin(args []string, deps initAdminDeps) error {
	def := defaultInitAdminDeps()
	if deps.loadEnv == nil {
		deps.loadEnv = def.loadEnv
	}
	if deps.loadCfg == nil {
		deps.loadCfg = def.loadCfg
	}
	if deps.prepare == nil {
		deps.prepare = def.prepare
	}
	if deps.hash == nil {
		deps.hash = def.hash
	}
	if deps.now == nil {
		deps.now = def.now
	}
	if deps.out == nil {
		deps.out = def.out
	}

	fs := flag.NewFlagSet("init-admin", flag.ContinueOnError)
	emailFlag := fs.String("email", "", "admin email (defaults to ADMIN_EMAIL)")
	passwordFlag := fs.String("password", "", "admin password (defaults to ADMIN_PASSWORD)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := deps.loadEnv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := deps.loadCfg()

	email := strings.ToLower(strings.TrimSpace(firstNonEmpty(*emailFlag, cfg.Admin.Email)))
	password := firstNonEmpty(*passwordFlag, cfg.Admin.Password)
	if email == "" || password == "" {
		return errors.New("admin email and password are required")
	}

	ctx := context.Background()
	admins, closeStore, err := deps.prepare(ctx, cfg)
	if err != nil {
		return err
	}
	if closeStore != nil {
		defer func() { _ = closeStore(ctx) }()
	}

	if _, err := admins.GetByEmail(ctx, email); err == nil {
		_, _ = fmt.Fprintln(deps.out, "Admin already exists")
		return nil
	} else if !errors.Is(err, domainerrors.ErrNotFound) {
		return fmt.Errorf("failed to look up admin: %w", err)
	}

	hash, err := deps.hash(password)
	if err != nil {
		return err
	}

	now := deps.now().UTC()
	admin := &entities.Admin{
		ID:           utils.GenerateUUIDv7(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := admins.Create(ctx, admin); err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			_, _ = fmt.Fprintln(deps.out, "Admin already exists")
			return nil
		}
		return fmt.Errorf("failed to create admin: %w", err)
	}

	_, _ = fmt.Fprintln(deps.out, "Admin user created successfully")
	_, _ = fmt.Fprintf(deps.out, "email=%s\n", admin.Email)
	_, _ = fmt.Fprintf(deps.out, "admin_id=%s\n", admin.ID.String())
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func main() {
	if err := runInitAdmin(os.Args[1:], defaultInitAdminDeps()); err != nil {
		log.Fatal(err)
	}
}
