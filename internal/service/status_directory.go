package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-platform/internal/domain"
	"github.com/spec-kit/helpdesk-platform/internal/repository"
)

// StatusDirectory resolves status references for the trigger and macro
// engines. During the migration window a reference can be a record id or a
// legacy slug; both resolve to the same record. Lookups are cached in Redis
// since automation batches hit the same few statuses repeatedly.
type StatusDirectory struct {
	statuses repository.StatusRepository
	cache    *redis.Client
	ttl      time.Duration
	logger   *zap.Logger
}

// NewStatusDirectory constructs the directory. cache may be nil.
func NewStatusDirectory(statuses repository.StatusRepository, cache *redis.Client, ttl time.Duration, logger *zap.Logger) *StatusDirectory {
	return &StatusDirectory{statuses: statuses, cache: cache, ttl: ttl, logger: logger}
}

// Resolve maps an id-or-slug reference to its status record. Returns
// pgx.ErrNoRows when neither form matches.
func (d *StatusDirectory) Resolve(ctx context.Context, ref string) (*domain.TicketStatus, error) {
	if cached := d.fromCache(ctx, ref); cached != nil {
		return cached, nil
	}

	status, err := d.statuses.GetByID(ctx, ref)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		status, err = d.statuses.GetBySlug(ctx, ref)
		if err != nil {
			return nil, err
		}
	}

	d.toCache(ctx, ref, status)
	return status, nil
}

func (d *StatusDirectory) fromCache(ctx context.Context, ref string) *domain.TicketStatus {
	if d.cache == nil {
		return nil
	}
	raw, err := d.cache.Get(ctx, statusCacheKey(ref)).Bytes()
	if err != nil {
		return nil
	}
	var status domain.TicketStatus
	if err := json.Unmarshal(raw, &status); err != nil {
		return nil
	}
	return &status
}

func (d *StatusDirectory) toCache(ctx context.Context, ref string, status *domain.TicketStatus) {
	if d.cache == nil {
		return
	}
	raw, err := json.Marshal(status)
	if err != nil {
		return
	}
	if err := d.cache.Set(ctx, statusCacheKey(ref), raw, d.ttl).Err(); err != nil {
		d.logger.Debug("status cache write failed", zap.String("ref", ref), zap.Error(err))
	}
}

func statusCacheKey(ref string) string {
	return "status:ref:" + ref
}
