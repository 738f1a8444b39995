// Package chat implements the in-platform messaging layer with per-account
// enablement gates.
package chat

import (
	"context"
	"errors"

	"platform-ledger-go/internal/models"
	"platform-ledger-go/internal/platform"
	"platform-ledger-go/internal/store"

	"go.uber.org/zap"
)

var (
	// ErrChatDisabled is returned when the enablement gate blocks a send.
	ErrChatDisabled = errors.New("chat is disabled for this account")

	// ErrNotOperator is returned when a non-operator calls an operator op.
	ErrNotOperator = errors.New("operator privileges required")
)

type Service struct {
	store    store.LedgerStore
	registry *platform.Registry
}

func NewService(s store.LedgerStore, registry *platform.Registry) *Service {
	return &Service{store: s, registry: registry}
}

func (s *Service) policy(platformName string) (platform.Policy, error) {
	policy, ok := s.registry.Policy(platformName)
	if !ok {
		return platform.Policy{}, store.ErrPlatformNotFound
	}
	return policy, nil
}

func (s *Service) isOperator(ctx context.Context, platformName, identityId string) (bool, error) {
	identity, err := s.store.GetIdentityById(ctx, identityId)
	if err != nil {
		return false, err
	}
	return s.registry.IsOperator(platformName, identity.Email), nil
}

// SendMessage delivers a message between two identities on the platform.
// On strict platforms both sides must have chat enabled. Elsewhere the flag
// is still required on each side, except that an operator side is exempt
// from its own check.
func (s *Service) SendMessage(ctx context.Context, platformName, senderIdentityId, receiverEmail, message string) (*models.ChatMessage, error) {
	policy, err := s.policy(platformName)
	if err != nil {
		return nil, err
	}

	sender, err := s.store.GetAccount(ctx, senderIdentityId, policy.Name)
	if err != nil {
		return nil, err
	}
	receiver, err := s.store.GetAccountByEmail(ctx, receiverEmail, policy.Name)
	if err != nil {
		return nil, err
	}

	if policy.StrictChatGate {
		if !sender.ChatEnabled || !receiver.ChatEnabled {
			return nil, ErrChatDisabled
		}
	} else {
		senderOperator, err := s.isOperator(ctx, policy.Name, senderIdentityId)
		if err != nil {
			return nil, err
		}
		if !senderOperator && !sender.ChatEnabled {
			return nil, ErrChatDisabled
		}
		if !s.registry.IsOperator(policy.Name, receiverEmail) && !receiver.ChatEnabled {
			return nil, ErrChatDisabled
		}
	}

	msg, err := s.store.CreateMessage(ctx, senderIdentityId, receiver.IdentityId, message)
	if err != nil {
		return nil, err
	}

	zap.L().Debug("Delivered chat message",
		zap.String("platform", policy.Name),
		zap.String("sender", senderIdentityId),
		zap.String("receiver", receiver.IdentityId))
	return msg, nil
}

// History returns every message the identity sent or received, oldest
// first. Reading history does not require chat to be enabled.
func (s *Service) History(ctx context.Context, platformName, identityId string) ([]models.ChatMessage, error) {
	if _, err := s.policy(platformName); err != nil {
		return nil, err
	}
	if _, err := s.store.GetAccount(ctx, identityId, platformName); err != nil {
		return nil, err
	}
	return s.store.GetChatHistory(ctx, identityId)
}

// UnreadCount returns how many messages addressed to the identity are still
// unread.
func (s *Service) UnreadCount(ctx context.Context, platformName, identityId string) (int64, error) {
	if _, err := s.policy(platformName); err != nil {
		return 0, err
	}
	return s.store.CountUnread(ctx, identityId)
}

// MarkRead flags the identity's unread messages as read. A non-empty
// counterparty email narrows the update to that conversation.
func (s *Service) MarkRead(ctx context.Context, platformName, identityId, counterpartyEmail string) (int64, error) {
	if _, err := s.policy(platformName); err != nil {
		return 0, err
	}

	senderId := ""
	if counterpartyEmail != "" {
		counterparty, err := s.store.GetIdentityByEmail(ctx, counterpartyEmail)
		if err != nil {
			return 0, err
		}
		senderId = counterparty.Id
	}
	return s.store.MarkMessagesRead(ctx, identityId, senderId)
}

// Status reports whether chat is enabled for the identity's account.
func (s *Service) Status(ctx context.Context, platformName, identityId string) (bool, error) {
	account, err := s.store.GetAccount(ctx, identityId, platformName)
	if err != nil {
		return false, err
	}
	return account.ChatEnabled, nil
}

// Toggle flips the target account's chat flag. Operator only.
func (s *Service) Toggle(ctx context.Context, platformName, callerIdentityId, targetEmail string) (bool, error) {
	if _, err := s.policy(platformName); err != nil {
		return false, err
	}
	operator, err := s.isOperator(ctx, platformName, callerIdentityId)
	if err != nil {
		return false, err
	}
	if !operator {
		return false, ErrNotOperator
	}

	target, err := s.store.GetAccountByEmail(ctx, targetEmail, platformName)
	if err != nil {
		return false, err
	}
	return s.store.ToggleChat(ctx, target.Id)
}
