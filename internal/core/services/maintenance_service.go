package services

import (
	"context"
	"log"

	"userhub/internal/adapters/persistence/repositories"
	"userhub/internal/config"
	"userhub/internal/pkg/jwt"

	"github.com/robfig/cron/v3"
)

// MaintenanceService runs scheduled cleanup jobs. Its only job today is
// clearing stored refresh tokens that have passed their own expiry, so
// dead sessions do not linger on user rows.
type MaintenanceService struct {
	userRepo repositories.UserRepository
	cfg      *config.Config
	cron     *cron.Cron
}

// NewMaintenanceService creates a new maintenance service
func NewMaintenanceService(userRepo repositories.UserRepository, cfg *config.Config) *MaintenanceService {
	return &MaintenanceService{
		userRepo: userRepo,
		cfg:      cfg,
		cron:     cron.New(),
	}
}

// Start schedules the cleanup job (daily at 03:00)
func (s *MaintenanceService) Start() {
	_, err := s.cron.AddFunc("0 3 * * *", s.clearExpiredRefreshTokens)
	if err != nil {
		log.Printf("❌ Failed to schedule token cleanup: %v", err)
		return
	}
	s.cron.Start()
	log.Println("🚀 MaintenanceService started")
}

// Stop stops the scheduler and waits for a running job to finish
func (s *MaintenanceService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 MaintenanceService stopped")
}

// clearExpiredRefreshTokens clears every stored refresh token that no
// longer verifies against the refresh secret
func (s *MaintenanceService) clearExpiredRefreshTokens() {
	ctx := context.Background()

	users, err := s.userRepo.ListWithRefreshToken(ctx)
	if err != nil {
		log.Printf("❌ Token cleanup query error: %v", err)
		return
	}

	cleared := 0
	for _, user := range users {
		if user.RefreshToken == nil {
			continue
		}
		if _, err := jwt.ValidateRefreshToken(*user.RefreshToken, s.cfg.JWT.RefreshSecret); err == nil {
			continue
		}
		if err := s.userRepo.SetRefreshToken(ctx, user.ID, nil); err != nil {
			log.Printf("❌ Token cleanup for user %s error: %v", user.Username, err)
			continue
		}
		cleared++
	}

	if cleared > 0 {
		log.Printf("🧹 Cleared %d expired refresh tokens", cleared)
	}
}
