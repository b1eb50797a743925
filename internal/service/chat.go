package service

import (
	"context"
	"strings"

	"taskboard/internal/domain"
	"taskboard/internal/repository"
	apperrors "taskboard/pkg/errors"
	"taskboard/pkg/logger"

	"github.com/google/uuid"
)

type ChatService interface {
	TaskExists(ctx context.Context, taskID uuid.UUID) (bool, error)
	History(ctx context.Context, taskID uuid.UUID, viewer *domain.User) ([]domain.HistoryMessage, error)
	SendMessage(ctx context.Context, taskID uuid.UUID, author *domain.User, text string) (*domain.MessagePayload, error)
	RecentMessages(ctx context.Context, taskID uuid.UUID, limit int) ([]domain.MessagePayload, error)
}

type chatService struct {
	chatRepo     repository.ChatRepository
	taskRepo     repository.TaskRepository
	historyLimit int
	log          logger.Logger
}

func NewChatService(chatRepo repository.ChatRepository, taskRepo repository.TaskRepository, historyLimit int, log logger.Logger) ChatService {
	if historyLimit <= 0 || historyLimit > repository.MaxHistoryLimit {
		historyLimit = repository.MaxHistoryLimit
	}
	return &chatService{
		chatRepo:     chatRepo,
		taskRepo:     taskRepo,
		historyLimit: historyLimit,
		log:          log,
	}
}

func (s *chatService) TaskExists(ctx context.Context, taskID uuid.UUID) (bool, error) {
	return s.taskRepo.Exists(ctx, taskID)
}

// History возвращает последние сообщения задачи от старых к новым;
// is_own вычисляется относительно просматривающего пользователя
func (s *chatService) History(ctx context.Context, taskID uuid.UUID, viewer *domain.User) ([]domain.HistoryMessage, error) {
	messages, err := s.chatRepo.GetRecentMessages(ctx, taskID, s.historyLimit)
	if err != nil {
		return nil, err
	}

	history := make([]domain.HistoryMessage, 0, len(messages))
	for _, message := range messages {
		history = append(history, domain.HistoryMessage{
			MessagePayload: message.Payload(),
			IsOwn:          message.UserID == viewer.ID,
		})
	}

	return history, nil
}

// SendMessage сохраняет сообщение и возвращает его wire-представление.
// Пустой после обрезки текст не сохраняется (ErrEmptyMessage),
// удаленная задача дает ErrTaskNotFound — обе ошибки вызывающий гасит.
func (s *chatService) SendMessage(ctx context.Context, taskID uuid.UUID, author *domain.User, text string) (*domain.MessagePayload, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.ErrEmptyMessage
	}

	message := &domain.Message{
		TaskID:   taskID,
		UserID:   author.ID,
		Username: author.Username,
		Text:     text,
	}

	if err := s.chatRepo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	payload := message.Payload()
	return &payload, nil
}

func (s *chatService) RecentMessages(ctx context.Context, taskID uuid.UUID, limit int) ([]domain.MessagePayload, error) {
	exists, err := s.taskRepo.Exists(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrTaskNotFound
	}

	messages, err := s.chatRepo.GetRecentMessages(ctx, taskID, limit)
	if err != nil {
		return nil, err
	}

	payloads := make([]domain.MessagePayload, 0, len(messages))
	for _, message := range messages {
		payloads = append(payloads, message.Payload())
	}

	return payloads, nil
}
