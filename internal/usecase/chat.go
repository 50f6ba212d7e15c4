package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/runoshun/focusday/internal/domain"
	"github.com/runoshun/focusday/internal/usecase/shared"
)

// ChatInput contains the transcript so far and the new message.
type ChatInput struct {
	UserID     string
	Message    string
	Lang       domain.Language // Detected from Message when empty
	Transcript []domain.ChatMessage
}

// ChatOutput contains the reply and the extended transcript.
type ChatOutput struct {
	Reply      string
	Transcript []domain.ChatMessage
}

// Chat is the use case for talking to the execution coach.
type Chat struct {
	store   shared.BoardStore
	history domain.HistoryRepository
	advisor domain.Advisor
	logger  domain.Logger
}

// NewChat creates a new Chat use case.
func NewChat(
	store shared.BoardStore,
	history domain.HistoryRepository,
	advisor domain.Advisor,
	logger domain.Logger,
) *Chat {
	return &Chat{store: store, history: history, advisor: advisor, logger: logger}
}

// Execute appends Message to the transcript and asks for one reply.
func (uc *Chat) Execute(ctx context.Context, in ChatInput) (*ChatOutput, error) {
	msg := strings.TrimSpace(in.Message)
	if msg == "" {
		return nil, domain.ErrEmptyText
	}
	b, entries, err := loadContext(ctx, uc.store, uc.history, in.UserID)
	if err != nil {
		return nil, err
	}

	lang := in.Lang
	if lang == "" {
		lang = domain.DetectLanguage(msg)
	}
	transcript := append(append([]domain.ChatMessage(nil), in.Transcript...), domain.ChatMessage{Role: domain.ChatUser, Text: msg})
	reply, err := uc.advisor.Chat(ctx, domain.ChatRequest{
		Lang:     lang,
		Messages: transcript,
		Pending:  b.Pending(),
		History:  entries,
	})
	if err != nil {
		logWarn(uc.logger, in.UserID, "advisor", fmt.Sprintf("chat: %v", err))
		return nil, err
	}

	transcript = append(transcript, domain.ChatMessage{Role: domain.ChatAssistant, Text: reply})
	return &ChatOutput{Reply: reply, Transcript: transcript}, nil
}
