package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Revocations records ended sessions until they would have expired anyway.
type Revocations interface {
	Revoke(ctx context.Context, id string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, id string) (bool, error)
}

type redisRevocations struct {
	rdb *redis.Client
	now func() time.Time
}

func NewRedisRevocations(rdb *redis.Client) Revocations {
	return &redisRevocations{rdb: rdb, now: time.Now}
}

func (r *redisRevocations) Revoke(ctx context.Context, id string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	return r.rdb.SetEx(ctx, revokedKey(id), "1", ttl).Err()
}

func (r *redisRevocations) IsRevoked(ctx context.Context, id string) (bool, error) {
	n, err := r.rdb.Exists(ctx, revokedKey(id)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func revokedKey(id string) string {
	return "session:revoked:" + id
}

// RevokedSession is a revocation row for deployments without redis.
type RevokedSession struct {
	ID        string    `gorm:"primaryKey;size:36"`
	ExpiresAt time.Time `gorm:"not null;index"`
}

func (RevokedSession) TableName() string {
	return "revoked_sessions"
}

type dbRevocations struct {
	db  *gorm.DB
	now func() time.Time
}

// NewDBRevocations stores revocations in the revoked_sessions table. Expired
// rows are purged on each Revoke. Times are kept in UTC.
func NewDBRevocations(db *gorm.DB) Revocations {
	return &dbRevocations{db: db, now: time.Now}
}

func (r *dbRevocations) Revoke(ctx context.Context, id string, expiresAt time.Time) error {
	now := r.now().UTC()
	expiresAt = expiresAt.UTC()
	if !expiresAt.After(now) {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("expires_at <= ?", now).Delete(&RevokedSession{}).Error; err != nil {
			return fmt.Errorf("failed to purge revoked sessions: %w", err)
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&RevokedSession{ID: id, ExpiresAt: expiresAt}).Error
	})
}

func (r *dbRevocations) IsRevoked(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&RevokedSession{}).
		Where("id = ? AND expires_at > ?", id, r.now().UTC()).
		Count(&count).Error
	return count > 0, err
}
