package sqlite

import (
	"context"
	"time"

	"github.com/eventmarket/auth/internal/auth/domain"
)

type externalIdentitiesRepo struct {
	q *queries
}

func (r *externalIdentitiesRepo) GetExternalIdentity(
	ctx context.Context,
	provider, subject string,
) (domain.ExternalIdentity, error) {
	row, err := r.q.GetExternalIdentity(ctx, provider, subject)
	if err != nil {
		return domain.ExternalIdentity{}, mapNotFound(err)
	}
	return mapExternalIdentity(row), nil
}

func (r *externalIdentitiesRepo) CreateExternalIdentity(ctx context.Context, ei domain.ExternalIdentity) error {
	if ei.CreatedAt.IsZero() {
		ei.CreatedAt = time.Now()
	}
	err := r.q.CreateExternalIdentity(ctx, externalIdentityRow{
		Provider:        ei.Provider,
		ProviderSubject: ei.ProviderSubject,
		UserID:          ei.UserID,
		CreatedAt:       ei.CreatedAt.UTC(),
	})
	return mapConstraint(err)
}

func (r *externalIdentitiesRepo) ListExternalIdentitiesByUser(
	ctx context.Context,
	userID string,
) ([]domain.ExternalIdentity, error) {
	rows, err := r.q.ListExternalIdentitiesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ExternalIdentity, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapExternalIdentity(row))
	}
	return out, nil
}
