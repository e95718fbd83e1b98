// Package profiles lit et enregistre le profil (contact et mensurations) d'un utilisateur.
package profiles

import (
	"context"
	"errors"
	"fmt"

	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/gateway"
	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/models"
	"go.uber.org/zap"
)

var ErrNoUser = errors.New("profiles: user id is required")

type Service struct {
	gw gateway.Gateway
}

func NewService(gw gateway.Gateway) *Service {
	return &Service{gw: gw}
}

// Fetch retourne le profil de userID, ou un profil vide s'il n'existe pas encore.
func (s *Service) Fetch(ctx context.Context, userID string) (models.Profile, error) {
	if userID == "" {
		return models.Profile{}, ErrNoUser
	}

	var rows []models.Profile
	if err := s.gw.Select(ctx, gateway.CollectionProfiles, gateway.Query{}.Eq("id", userID), &rows); err != nil {
		return models.Profile{}, fmt.Errorf("fetch profile: %w", err)
	}
	if len(rows) == 0 {
		return models.Profile{ID: userID}, nil
	}
	if len(rows) > 1 {
		zap.L().Warn("⚠️ Plusieurs profils pour un même id", zap.String("user_id", userID), zap.Int("rows", len(rows)))
	}
	return rows[0], nil
}

// Save crée ou remplace le profil de userID (dernier écrit gagne).
func (s *Service) Save(ctx context.Context, userID string, p models.Profile) (models.Profile, error) {
	if userID == "" {
		return models.Profile{}, ErrNoUser
	}
	p.ID = userID
	if err := s.gw.Upsert(ctx, gateway.CollectionProfiles, p, "id"); err != nil {
		return models.Profile{}, fmt.Errorf("save profile: %w", err)
	}
	zap.L().Info("✅ Profil enregistré", zap.String("user_id", userID))
	return p, nil
}
