package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/Dan9191/finance-forecast/internal/config"
	"github.com/Dan9191/finance-forecast/internal/forecast"
	"github.com/Dan9191/finance-forecast/internal/models"
	"github.com/Dan9191/finance-forecast/internal/repository"
)

// ErrInvalidCredentials is returned by Login for an unknown email or a wrong password
var ErrInvalidCredentials = errors.New("invalid credentials")

// Store is the persistence the service needs beyond the forecast reads
type Store interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	DigestRecipients(ctx context.Context) ([]models.DigestRecipient, error)
}

// Notifier delivers the monthly digest of a profile
type Notifier interface {
	SendForecastDigest(to models.DigestRecipient, period time.Time, items []models.ForecastItem, summary models.ForecastSummary) error
}

// Claims are carried by access tokens
type Claims struct {
	ProfileID int64 `json:"profile_id"`
	jwt.RegisteredClaims
}

// ForecastResult is a composed forecast with its totals
type ForecastResult struct {
	Month   int                    `json:"month"` // 0-11
	Year    int                    `json:"year"`
	Items   []models.ForecastItem  `json:"items"`
	Summary models.ForecastSummary `json:"summary"`
}

// Service handles business logic
type Service struct {
	store    Store
	composer *forecast.Composer
	notifier Notifier
	log      *logrus.Logger
	config   *config.Config
	now      func() time.Time
}

// NewService initializes a new service
func NewService(store Store, composer *forecast.Composer, notifier Notifier, log *logrus.Logger, cfg *config.Config) *Service {
	return &Service{store: store, composer: composer, notifier: notifier, log: log, config: cfg, now: time.Now}
}

// Forecast composes the forecast of a profile for a 0-based month
func (s *Service) Forecast(ctx context.Context, profileID int64, month, year int) (*ForecastResult, error) {
	start := time.Now()
	items, err := s.composer.Compose(ctx, profileID, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to compose forecast: %w", err)
	}

	result := &ForecastResult{Month: month, Year: year, Items: items, Summary: forecast.Summarize(items)}
	s.log.WithFields(logrus.Fields{
		"profile_id": profileID,
		"month":      month,
		"year":       year,
		"items":      len(items),
		"duration":   time.Since(start).String(),
	}).Debug("Forecast composed")
	return result, nil
}

// Login authenticates a user and returns a JWT scoped to the user's default profile
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.store.FindUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		ProfileID: user.DefaultProfileID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TokenTTL)),
		},
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("User logged in: %s", user.Email)
	return tokenString, nil
}

// SendMonthlyDigests emails the current month forecast to every digest
// recipient. A failed recipient is logged and skipped; the number of
// delivered digests is returned.
func (s *Service) SendMonthlyDigests(ctx context.Context) (int, error) {
	recipients, err := s.store.DigestRecipients(ctx)
	if err != nil {
		return 0, err
	}

	now := s.now().In(s.config.Location)
	period := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.config.Location)

	sent := 0
	for _, rc := range recipients {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		log := s.log.WithFields(logrus.Fields{"profile_id": rc.ProfileID, "email": rc.Email})

		result, err := s.Forecast(ctx, rc.ProfileID, int(period.Month())-1, period.Year())
		if err != nil {
			log.Errorf("Failed to compose digest: %v", err)
			continue
		}
		if err := s.notifier.SendForecastDigest(rc, period, result.Items, result.Summary); err != nil {
			log.Errorf("Failed to send digest: %v", err)
			continue
		}
		sent++
	}

	s.log.Infof("Monthly digest sent to %d of %d recipients", sent, len(recipients))
	return sent, nil
}
