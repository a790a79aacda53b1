package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// Фиксированная учётная запись первого оператора; создаётся через SeedAdmin.
const (
	SeedAdminEmail           = "admin@shop.com"
	defaultSeedAdminPassword = "bikeadmin123"
)

// ErrInvalidCredentials возвращается при неверной паре email/пароль.
// Не различает "нет такого оператора" и "неверный пароль".
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service выполняет вход операторов и выпуск токенов.
type Service struct {
	admins       domain.AdminRepository
	tokens       *TokenManager
	logger       *log.Entry
	seedPassword string
}

// Option настраивает Service.
type Option func(*Service)

// WithSeedPassword переопределяет пароль фиксированного оператора.
func WithSeedPassword(password string) Option {
	return func(s *Service) {
		if password != "" {
			s.seedPassword = password
		}
	}
}

// NewService создаёт сервис аутентификации операторов.
func NewService(admins domain.AdminRepository, tokens *TokenManager, logger *log.Entry, options ...Option) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "auth")
	}
	s := &Service{
		admins:       admins,
		tokens:       tokens,
		logger:       logger,
		seedPassword: defaultSeedAdminPassword,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Login проверяет учётные данные и выпускает токен.
func (s *Service) Login(email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.admins.GetByEmail(email)
	if err != nil {
		if errors.Is(err, domain.ErrAdminNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("lookup admin: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Email, user.IsAdmin)
	if err != nil {
		return "", err
	}

	s.logger.WithField("email", user.Email).Info("operator logged in")
	return token, nil
}

// SeedAdmin создаёт фиксированного оператора, если его ещё нет.
// Возвращает true, если запись была создана этим вызовом.
func (s *Service) SeedAdmin() (bool, error) {
	if _, err := s.admins.GetByEmail(SeedAdminEmail); err == nil {
		return false, nil
	} else if !errors.Is(err, domain.ErrAdminNotFound) {
		return false, fmt.Errorf("lookup admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	user := domain.AdminUser{
		ID:           uuid.NewString(),
		Email:        SeedAdminEmail,
		PasswordHash: string(hash),
		IsAdmin:      true,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.admins.Create(user); err != nil {
		if errors.Is(err, domain.ErrAdminExists) {
			return false, nil
		}
		return false, fmt.Errorf("create admin: %w", err)
	}

	s.logger.WithField("email", SeedAdminEmail).Info("seed admin created")
	return true, nil
}
