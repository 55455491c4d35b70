package app

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"localchat/internal/model"
	"localchat/internal/repository"
)

var ErrInvalidAdminKey = errors.New("invalid admin key")

type AdminService struct {
	userRepo         *repository.UserRepository
	conversationRepo *repository.ConversationRepository
	messageRepo      *repository.MessageRepository
	adminKey         string
}

func NewAdminService(
	userRepo *repository.UserRepository,
	conversationRepo *repository.ConversationRepository,
	messageRepo *repository.MessageRepository,
	adminKey string,
) *AdminService {
	return &AdminService{
		userRepo:         userRepo,
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		adminKey:         adminKey,
	}
}

// Login authenticates a user and checks the shared admin key. A correct key
// promotes the account so later requests pass the admin middleware without
// re-sending the key.
func (s *AdminService) Login(username, password, adminKey string) (*model.User, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidInput
	}
	if adminKey != s.adminKey {
		return nil, ErrInvalidAdminKey
	}

	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredential
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredential
	}

	if !user.IsAdmin {
		if err := s.userRepo.SetAdmin(user.ID, true); err != nil {
			return nil, err
		}
		user.IsAdmin = true
	}
	return user, nil
}

type DashboardStats struct {
	UserCount         int64        `json:"user_count"`
	ConversationCount int64        `json:"conversation_count"`
	MessageCount      int64        `json:"message_count"`
	Users             []model.User `json:"users"`
}

// Dashboard aggregates the counters and user list for the admin overview.
func (s *AdminService) Dashboard() (*DashboardStats, error) {
	users, err := s.userRepo.ListAll()
	if err != nil {
		return nil, err
	}
	userCount, err := s.userRepo.Count()
	if err != nil {
		return nil, err
	}
	conversationCount, err := s.conversationRepo.Count()
	if err != nil {
		return nil, err
	}
	messageCount, err := s.messageRepo.Count()
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		UserCount:         userCount,
		ConversationCount: conversationCount,
		MessageCount:      messageCount,
		Users:             users,
	}, nil
}
