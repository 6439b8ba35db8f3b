// RecommendAI - Personalized Content Discovery Backend
// Copyright 2026 Illusive Systems
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/illusivesystems/recommendai

// Package assistant orchestrates the conversational assistant: append-only
// transcripts seeded with a greeting, optimistic user appends, and round trips
// to the inference bridge.
package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/illusivesystems/recommendai/internal/inference"
	"github.com/illusivesystems/recommendai/internal/logging"
	"github.com/illusivesystems/recommendai/internal/metrics"
	"github.com/illusivesystems/recommendai/internal/models"
)

var (
	// ErrConversationNotFound indicates an unknown conversation ID.
	ErrConversationNotFound = errors.New("conversation not found")

	// ErrEmptyMessage indicates input that was empty after trimming. The API
	// treats this as a silent no-op, not a failure.
	ErrEmptyMessage = errors.New("empty message")
)

// greeting seeds every new conversation transcript.
const greeting = "Hi there! I'm your AI recommendation assistant. How can I help you discover new content today?"

// connectFailedMessage is the error flag shown when the inference bridge is
// unreachable.
const connectFailedMessage = "I couldn't connect to the AI service. Please try again later."

// Snapshot is a point-in-time view of one conversation.
type Snapshot struct {
	ID       string           `json:"id"`
	Messages []models.Message `json:"messages"`
	Loading  bool             `json:"loading"`
	Error    string           `json:"error,omitempty"`
}

// conversation holds one transcript. sendMu serializes round trips so
// concurrent sends on the same conversation cannot interleave their appends;
// mu guards the state for readers while a round trip is in flight.
type conversation struct {
	sendMu sync.Mutex
	mu     sync.Mutex

	id       string
	messages []models.Message
	loading  bool
	errMsg   string
}

func (c *conversation) snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	msgs := make([]models.Message, len(c.messages))
	copy(msgs, c.messages)

	return Snapshot{
		ID:       c.id,
		Messages: msgs,
		Loading:  c.loading,
		Error:    c.errMsg,
	}
}

// Orchestrator manages chat conversations and their round trips to the
// inference bridge.
type Orchestrator struct {
	chat            inference.ChatService
	fallbackEnabled bool

	mu            sync.RWMutex
	conversations map[string]*conversation
}

// NewOrchestrator creates a chat orchestrator. When fallbackEnabled is true,
// collaborator failures produce a canned offline reply instead of the error
// flag.
func NewOrchestrator(chat inference.ChatService, fallbackEnabled bool) *Orchestrator {
	return &Orchestrator{
		chat:            chat,
		fallbackEnabled: fallbackEnabled,
		conversations:   make(map[string]*conversation),
	}
}

// Create opens a new conversation seeded with the assistant greeting.
func (o *Orchestrator) Create() Snapshot {
	conv := &conversation{
		id: uuid.NewString(),
		messages: []models.Message{{
			ID:        uuid.NewString(),
			Role:      models.RoleAssistant,
			Content:   greeting,
			CreatedAt: time.Now(),
		}},
	}

	o.mu.Lock()
	o.conversations[conv.id] = conv
	o.mu.Unlock()

	metrics.ChatActiveConversations.Inc()
	logging.Debug().Str("conversation_id", conv.id).Msg("Conversation created")

	return conv.snapshot()
}

// Get returns the current state of a conversation.
func (o *Orchestrator) Get(id string) (Snapshot, error) {
	conv, err := o.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}
	return conv.snapshot(), nil
}

// Send runs one round trip: append the user's message, call the inference
// bridge with the full transcript, and append the reply or set the error flag.
//
// Input that is empty after trimming leaves the conversation untouched and
// returns ErrEmptyMessage alongside the unchanged snapshot.
func (o *Orchestrator) Send(ctx context.Context, id, input string) (Snapshot, error) {
	conv, err := o.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return conv.snapshot(), ErrEmptyMessage
	}

	conv.sendMu.Lock()
	defer conv.sendMu.Unlock()

	// Optimistic append: the user's message is part of the transcript whether
	// or not the round trip succeeds.
	conv.mu.Lock()
	conv.messages = append(conv.messages, models.Message{
		ID:        uuid.NewString(),
		Role:      models.RoleUser,
		Content:   input,
		CreatedAt: time.Now(),
	})
	conv.loading = true
	turns := flatten(conv.messages)
	conv.mu.Unlock()

	start := time.Now()
	reply, chatErr := o.chat.Complete(ctx, turns)
	elapsed := time.Since(start)

	conv.mu.Lock()
	defer conv.mu.Unlock()
	conv.loading = false

	if chatErr != nil {
		if o.fallbackEnabled {
			conv.messages = append(conv.messages, models.Message{
				ID:        uuid.NewString(),
				Role:      models.RoleAssistant,
				Content:   fallbackReply(input),
				CreatedAt: time.Now(),
			})
			conv.errMsg = ""
			metrics.RecordChatRoundTrip("fallback", elapsed)
			logging.Warn().
				Err(chatErr).
				Str("conversation_id", id).
				Msg("Inference bridge unreachable, served fallback reply")
		} else {
			conv.errMsg = connectFailedMessage
			metrics.RecordChatRoundTrip("failure", elapsed)
			logging.Error().
				Err(chatErr).
				Str("conversation_id", id).
				Dur("elapsed", elapsed).
				Msg("Chat round trip failed")
		}
		return o.snapshotLocked(conv), nil
	}

	conv.messages = append(conv.messages, models.Message{
		ID:        uuid.NewString(),
		Role:      models.RoleAssistant,
		Content:   reply,
		CreatedAt: time.Now(),
	})
	conv.errMsg = ""
	metrics.RecordChatRoundTrip("success", elapsed)

	return o.snapshotLocked(conv), nil
}

func (o *Orchestrator) lookup(id string) (*conversation, error) {
	o.mu.RLock()
	conv, ok := o.conversations[id]
	o.mu.RUnlock()
	if !ok {
		return nil, ErrConversationNotFound
	}
	return conv, nil
}

// snapshotLocked builds a snapshot while conv.mu is already held.
func (o *Orchestrator) snapshotLocked(conv *conversation) Snapshot {
	msgs := make([]models.Message, len(conv.messages))
	copy(msgs, conv.messages)

	return Snapshot{
		ID:       conv.id,
		Messages: msgs,
		Loading:  conv.loading,
		Error:    conv.errMsg,
	}
}

// flatten converts the transcript to the role/content pairs the inference
// bridge accepts, oldest first.
func flatten(messages []models.Message) []models.ChatTurn {
	turns := make([]models.ChatTurn, len(messages))
	for i, m := range messages {
		turns[i] = models.ChatTurn{
			Role:    string(m.Role),
			Content: m.Content,
		}
	}
	return turns
}
