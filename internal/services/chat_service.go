package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/careercompass/backend/internal/domain/profile"
	"github.com/careercompass/backend/internal/pkg/errors"
	"github.com/careercompass/backend/internal/pkg/logger"
	"github.com/careercompass/backend/internal/pkg/metrics"
)

const chatSystemPrompt = "You are a career advisor for a guidance kiosk. " +
	"Answer questions about careers, skills and learning paths. Keep answers " +
	"short and concrete. If profile context is provided, tailor advice to it."

// ChatService proxies advisor conversations to the generative backend,
// enriching prompts with the caller's profile context.
type ChatService struct {
	repo    profile.Repository
	chat    ChatProvider
	logger  *logger.Logger
	timeout time.Duration
}

// NewChatService creates a new chat service
func NewChatService(repo profile.Repository, chat ChatProvider, log *logger.Logger, timeout time.Duration) *ChatService {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &ChatService{
		repo:    repo,
		chat:    chat,
		logger:  log,
		timeout: timeout,
	}
}

// Ask returns a single advisor reply for the message. An optional
// caller-supplied context string is prepended to the prompt.
func (s *ChatService) Ask(ctx context.Context, email, message, userContext string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", errors.BadRequest("Message is required")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	reply, err := s.chat.Complete(ctx, chatSystemPrompt, s.withContext(ctx, email, message, userContext))
	if err != nil {
		metrics.RecordChatRequest("complete", "error")
		s.logger.ErrorWithErr(err, "Chat completion failed")
		return "", errors.Internal("Chat completion failed", err)
	}
	metrics.RecordChatRequest("complete", "ok")
	return reply, nil
}

// Stream invokes fn for each advisor reply chunk as it arrives
func (s *ChatService) Stream(ctx context.Context, email, message, userContext string, fn func(chunk string) error) error {
	if strings.TrimSpace(message) == "" {
		return errors.BadRequest("Message is required")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.chat.Stream(ctx, chatSystemPrompt, s.withContext(ctx, email, message, userContext), fn); err != nil {
		metrics.RecordChatRequest("stream", "error")
		s.logger.ErrorWithErr(err, "Chat stream failed")
		return err
	}
	metrics.RecordChatRequest("stream", "ok")
	return nil
}

// withContext prefixes the message with known profile facts and any
// caller-supplied context. Store failures degrade to an
// uncontextualized prompt.
func (s *ChatService) withContext(ctx context.Context, email, message, userContext string) string {
	var b strings.Builder
	if email != "" {
		if p, err := s.repo.FindByEmail(ctx, email); err == nil {
			if p.MBTIType != "" {
				fmt.Fprintf(&b, "User personality type: %s. ", p.MBTIType)
			}
			if p.PersonalPreferences != "" {
				fmt.Fprintf(&b, "User preferences: %s. ", p.PersonalPreferences)
			}
		}
	}
	if userContext = strings.TrimSpace(userContext); userContext != "" {
		fmt.Fprintf(&b, "Context: %s. ", userContext)
	}
	if b.Len() == 0 {
		return message
	}
	return b.String() + "\n\n" + message
}
