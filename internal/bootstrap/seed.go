// Package bootstrap crea la cuenta admin inicial del sistema.
package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/opsboard/opsboard/internal/domain/repository"
	"github.com/opsboard/opsboard/internal/observability/logger"
	"github.com/opsboard/opsboard/internal/security/password"
)

// SeedAdminInput define la cuenta admin a crear.
type SeedAdminInput struct {
	Email    string
	Password string
	Name     string
}

// SeedAdmin crea el primer admin si el sistema está vacío. Si ya existe
// alguna cuenta, no hace nada y retorna false.
func SeedAdmin(ctx context.Context, accounts repository.AccountRepository, in SeedAdminInput) (bool, error) {
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	if in.Email == "" || in.Password == "" {
		return false, fmt.Errorf("bootstrap: email and password are required")
	}
	if in.Name == "" {
		in.Name = "Administrator"
	}

	count, err := accounts.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("bootstrap: count accounts: %w", err)
	}
	if count > 0 {
		logger.L().Info("bootstrap skipped: accounts already exist", logger.Count(count))
		return false, nil
	}

	hash, err := password.Hash(password.Default, in.Password)
	if err != nil {
		return false, err
	}

	acc, err := accounts.Create(ctx, repository.CreateAccountInput{
		Email:        in.Email,
		PasswordHash: hash,
		Name:         in.Name,
		Role:         repository.RoleAdmin,
		Status:       repository.StatusActive,
	})
	if err != nil {
		// Carrera con otro seed concurrente: alguien más lo creó primero
		if repository.IsConflict(err) {
			return false, nil
		}
		return false, fmt.Errorf("bootstrap: create admin: %w", err)
	}

	logger.L().Info("admin account created",
		logger.AccountID(acc.ID),
		logger.Email(acc.Email),
	)
	return true, nil
}
