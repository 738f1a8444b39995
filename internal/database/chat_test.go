package database

import (
	"context"
	"testing"
)

func TestChatHistoryAndUnread(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	alice, bob := seedPair(t, service)

	if _, err := service.CreateMessage(ctx, alice.IdentityId, bob.IdentityId, "hello"); err != nil {
		t.Fatalf("CreateMessage failed: %v", err)
	}
	if _, err := service.CreateMessage(ctx, bob.IdentityId, alice.IdentityId, "hi back"); err != nil {
		t.Fatalf("CreateMessage failed: %v", err)
	}

	history, err := service.GetChatHistory(ctx, alice.IdentityId)
	if err != nil {
		t.Fatalf("GetChatHistory failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(history))
	}
	if history[0].Message != "hello" {
		t.Errorf("Expected oldest first, got %q", history[0].Message)
	}

	unread, err := service.CountUnread(ctx, bob.IdentityId)
	if err != nil {
		t.Fatalf("CountUnread failed: %v", err)
	}
	if unread != 1 {
		t.Errorf("Expected 1 unread for bob, got %d", unread)
	}
}

func TestMarkMessagesRead_NarrowedBySender(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	alice, bob := seedPair(t, service)
	carol, err := service.ProvisionAccount(ctx, provisionParams("carol@example.com", "PayPal"))
	if err != nil {
		t.Fatalf("ProvisionAccount failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := service.CreateMessage(ctx, alice.IdentityId, bob.IdentityId, "from alice"); err != nil {
			t.Fatalf("CreateMessage failed: %v", err)
		}
	}
	if _, err := service.CreateMessage(ctx, carol.IdentityId, bob.IdentityId, "from carol"); err != nil {
		t.Fatalf("CreateMessage failed: %v", err)
	}

	// Narrowed update only touches the alice conversation.
	updated, err := service.MarkMessagesRead(ctx, bob.IdentityId, alice.IdentityId)
	if err != nil {
		t.Fatalf("MarkMessagesRead failed: %v", err)
	}
	if updated != 3 {
		t.Errorf("Expected 3 updated, got %d", updated)
	}

	unread, _ := service.CountUnread(ctx, bob.IdentityId)
	if unread != 1 {
		t.Errorf("Expected 1 remaining unread, got %d", unread)
	}

	// Bulk update clears the rest.
	updated, err = service.MarkMessagesRead(ctx, bob.IdentityId, "")
	if err != nil {
		t.Fatalf("Bulk MarkMessagesRead failed: %v", err)
	}
	if updated != 1 {
		t.Errorf("Expected 1 updated, got %d", updated)
	}
	unread, _ = service.CountUnread(ctx, bob.IdentityId)
	if unread != 0 {
		t.Errorf("Expected 0 unread, got %d", unread)
	}
}
