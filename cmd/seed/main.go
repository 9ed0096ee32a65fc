// Command seed inserts demo employees into the configured store and prints
// an access token for each of them.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/config"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/repository/sqlite"
	"github.com/google/uuid"
)

type seedEmployee struct {
	code  string
	name  string
	email string
	role  user.Role
}

var demoEmployees = []seedEmployee{
	{"ADM-001", "Sari Wulandari", "sari.admin@example.com", user.RoleAdmin},
	{"EMP-001", "Budi Santoso", "budi@example.com", user.RoleEmployee},
	{"EMP-002", "Ana Lestari", "ana@example.com", user.RoleEmployee},
	{"EMP-003", "Ángel Ruiz", "angel@example.com", user.RoleEmployee},
}

func main() {
	skipExisting := flag.Bool("skip-existing", true, "ignore employees whose code or email is already stored")
	flag.Parse()

	if err := run(*skipExisting); err != nil {
		fmt.Fprintln(os.Stderr, "seed:", err)
		os.Exit(1)
	}
}

func run(skipExisting bool) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	repo, closeStore, err := openEmployeeRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.StreamExpiration)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()
	fmt.Fprintln(w, "ROLE\tCODE\tNAME\tEMPLOYEE_ID\tACCESS_TOKEN")

	for _, e := range demoEmployees {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("generate id: %w", err)
		}

		created, err := repo.Create(ctx, employee.Employee{
			ID:           id.String(),
			EmployeeCode: e.code,
			FullName:     e.name,
			Email:        e.email,
		})
		if err != nil {
			if skipExisting && (errors.Is(err, employee.ErrEmployeeCodeExists) || errors.Is(err, employee.ErrEmailExists)) {
				fmt.Fprintf(w, "%s\t%s\t%s\t(exists)\t-\n", e.role, e.code, e.name)
				continue
			}
			return fmt.Errorf("create %s: %w", e.code, err)
		}

		token, _, err := JWTService.GenerateAccessToken(created.ID, created.FullName, e.role)
		if err != nil {
			return fmt.Errorf("sign token for %s: %w", e.code, err)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.role, created.EmployeeCode, created.FullName, created.ID, token)
	}

	return nil
}

func openEmployeeRepository(ctx context.Context, cfg *config.Config) (employee.EmployeeRepository, func(), error) {
	if cfg.Database.Driver == config.DriverSQLite {
		store, err := sqlite.Open(ctx, cfg.Database.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return sqlite.NewEmployeeRepository(store), func() { _ = store.Close() }, nil
	}

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{MaxConns: 2, MinConns: 1})
	if err != nil {
		return nil, nil, err
	}
	if err := postgresql.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, nil, err
	}
	return postgresql.NewEmployeeRepository(db), db.Close, nil
}
