package usecase

import (
	"context"

	"coursemarket/internal/domain"

	"github.com/rs/zerolog"
)

// IdentityUseCase mirrors the auth provider's users into our users table.
type IdentityUseCase struct {
	users UserRepository
	log   zerolog.Logger
}

func NewIdentityUseCase(ur UserRepository, log zerolog.Logger) *IdentityUseCase {
	return &IdentityUseCase{users: ur, log: log}
}

func (uc *IdentityUseCase) HandleIdentityEvent(ctx context.Context, ev *domain.IdentityEvent) error {
	switch ev.Type {
	case domain.IdentityUserCreated, domain.IdentityUserUpdated:
		user := ev.User
		if err := uc.users.Upsert(ctx, &user); err != nil {
			return err
		}
	case domain.IdentityUserDeleted:
		if err := uc.users.Delete(ctx, ev.User.ID); err != nil {
			return err
		}
	default:
		uc.log.Info().Str("event_type", string(ev.Type)).Msg("unhandled identity event type")
		return nil
	}

	uc.log.Info().Str("event_type", string(ev.Type)).Str("user_id", ev.User.ID).Msg("identity synced")
	return nil
}
