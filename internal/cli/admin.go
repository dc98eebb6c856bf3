package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/msp-dashboard/internal/config"
	"github.com/spec-kit/msp-dashboard/internal/domain"
	"github.com/spec-kit/msp-dashboard/internal/observability"
	"github.com/spec-kit/msp-dashboard/internal/persistence"
	"github.com/spec-kit/msp-dashboard/internal/repository"
	"github.com/spec-kit/msp-dashboard/internal/service"
)

const passwordEnv = "OPSCTL_PASSWORD"

// connect loads configuration and opens the database for admin commands.
func connect(ctx context.Context) (*config.Config, *zap.Logger, *persistence.Postgres, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return nil, nil, nil, err
	}
	if cfg.Postgres.DSN == "" {
		return nil, nil, nil, errors.New("POSTGRES_DSN is required")
	}
	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect postgres: %w", err)
	}
	return cfg, logger, pg, nil
}

func newMigrateCmd() *cobra.Command {
	var dir string
	var seed bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply SQL migrations and seed the default export templates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, logger, pg, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pg.Close()
			defer logger.Sync() //nolint:errcheck

			if dir == "" {
				dir = cfg.Postgres.MigrationsDir
			}
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), dir, logger); err != nil {
				return err
			}
			if !seed {
				return nil
			}
			templates := service.NewTemplateService(service.TemplateDependencies{
				TemplateRepo: repository.NewTemplateRepository(pg.PoolHandle()),
				Logger:       logger,
			})
			n, err := templates.SeedDefaults(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrations applied, %d templates seeded\n", n)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "migrations directory (default POSTGRES_MIGRATIONS_DIR)")
	cmd.Flags().BoolVar(&seed, "seed", true, "seed default export templates when none exist")
	return cmd
}

func newCreateUserCmd() *cobra.Command {
	var name, email, role string
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a dashboard account; the password is read from " + passwordEnv,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password := os.Getenv(passwordEnv)
			if password == "" {
				return fmt.Errorf("%s must be set", passwordEnv)
			}
			ctx := cmd.Context()
			cfg, logger, pg, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pg.Close()
			defer logger.Sync() //nolint:errcheck

			authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
				UserRepo: repository.NewUserRepository(pg.PoolHandle()),
			})
			user, err := authService.CreateUser(ctx, name, email, password, domain.UserRole(role))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s user %s (%s)\n", user.Role, user.Email, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&role, "role", string(domain.UserRoleEngineer), "admin or engineer")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
