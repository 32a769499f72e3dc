package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hauseeHQ/intake-service/internal/models"
	"github.com/hauseeHQ/intake-service/internal/utils"
)

// DraftTTL ages out abandoned journeys.
const DraftTTL = 30 * 24 * time.Hour

const draftKeyPrefix = "intake:draft:"

// DraftRepository persists in-progress wizard state per user. The store
// is best-effort from the wizard's point of view: a missing or malformed
// draft is simply "no draft", never an error surfaced to the buyer.
type DraftRepository interface {
	Save(ctx context.Context, userID string, state *models.WizardState) error
	Load(ctx context.Context, userID string) (*models.WizardState, error)
	Clear(ctx context.Context, userID string) error
}

type draftRepository struct {
	rdb *redis.Client
}

func NewDraftRepository(rdb *redis.Client) DraftRepository {
	return &draftRepository{rdb: rdb}
}

func draftKey(userID string) string { return draftKeyPrefix + userID }

func (r *draftRepository) Save(ctx context.Context, userID string, state *models.WizardState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	return r.rdb.Set(ctx, draftKey(userID), raw, DraftTTL).Err()
}

func (r *draftRepository) Load(ctx context.Context, userID string) (*models.WizardState, error) {
	raw, err := r.rdb.Get(ctx, draftKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var state models.WizardState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		// malformed stored data is treated as absent, not raised
		utils.Logger.WithError(err).Warnf("Discarding malformed draft for user %s", userID)
		return nil, nil
	}
	return &state, nil
}

func (r *draftRepository) Clear(ctx context.Context, userID string) error {
	return r.rdb.Del(ctx, draftKey(userID)).Err()
}
