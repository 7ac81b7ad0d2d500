// Package seed populates demo accounts through the regular registration path.
package seed

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/itchan-dev/authcore/shared/domain"
	"github.com/itchan-dev/authcore/shared/errors"
	"github.com/itchan-dev/authcore/shared/logger"
)

// DemoPassword is shared by every demo account.
const DemoPassword = "password"

var DemoUsers = []domain.Registration{
	{Name: "Admin", Email: "admin@gmail.com", Password: DemoPassword},
	{Name: "User", Email: "user@gmail.com", Password: DemoPassword},
	{Name: "User 2", Email: "user2@gmail.com", Password: DemoPassword},
	{Name: "User 3", Email: "user3@gmail.com", Password: DemoPassword},
}

type Registrar interface {
	Register(ctx context.Context, reg domain.Registration) (domain.User, error)
}

type Result struct {
	Created int
	Skipped int
}

// Run registers users in order. Accounts whose email is already taken are
// skipped, so running it twice is harmless. Any other failure stops the run.
func Run(ctx context.Context, registrar Registrar, users []domain.Registration) (Result, error) {
	var res Result
	for _, reg := range users {
		user, err := registrar.Register(ctx, reg)
		if err != nil {
			if stderrors.Is(err, errors.ErrDuplicateEmail) {
				logger.Log.Info("seed user already exists, skipping", "email", reg.Email)
				res.Skipped++
				continue
			}
			return res, fmt.Errorf("failed to seed %s: %w", reg.Email, err)
		}
		logger.Log.Info("seed user created", "email", user.Email, "user_id", user.Id)
		res.Created++
	}
	return res, nil
}
