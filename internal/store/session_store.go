package store

import (
	"context"
	"time"

	"md2img-auth/internal/domain"

	"gorm.io/gorm"
)

type SessionStore struct{ db *gorm.DB }

func (s *Store) Sessions() *SessionStore { return &SessionStore{db: s.DB} }

func (ss *SessionStore) Create(ctx context.Context, sess *domain.Session) error {
	return translate(ss.db.WithContext(ctx).Create(sess).Error)
}

// FindUserByHash joins sessions to users on the token digest, honoring
// expiry. At most one row can match since session_hash is unique.
func (ss *SessionStore) FindUserByHash(ctx context.Context, hash string, now time.Time) (*domain.User, error) {
	var user domain.User
	err := ss.db.WithContext(ctx).
		Joins("JOIN sessions ON sessions.user_id = users.id").
		Where("sessions.session_hash = ? AND sessions.expires_at > ?", hash, now).
		First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (ss *SessionStore) DeleteByHash(ctx context.Context, hash string) error {
	return translate(ss.db.WithContext(ctx).
		Where("session_hash = ?", hash).
		Delete(&domain.Session{}).Error)
}

func (ss *SessionStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	tx := ss.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&domain.Session{})
	return tx.RowsAffected, translate(tx.Error)
}
