package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jamesprial/mcp-oauth-2.1/internal/mcptool"
	"github.com/jamesprial/mcp-oauth-2.1/internal/protocol"
	"github.com/jamesprial/mcp-oauth-2.1/internal/store"
)

// ConversationResource projects one row of the conversations table (and
// its messages) as a read-only resource. Resources are registered once at
// startup from the rows that exist at that point; a conversation created
// afterwards is neither listed by resources/list nor readable by
// resources/read until the next restart.
type ConversationResource struct {
	store          store.Store
	conversationID int64
	title          string
}

// NewConversationResource builds the projection for one conversation row.
func NewConversationResource(s store.Store, conversationID int64, title string) *ConversationResource {
	return &ConversationResource{store: s, conversationID: conversationID, title: title}
}

func (r *ConversationResource) Definition() protocol.ResourceDefinition {
	return protocol.ResourceDefinition{
		URI:         fmt.Sprintf("memory://conversations/%d", r.conversationID),
		Name:        r.title,
		Description: "Transcript of a stored conversation.",
		MimeType:    "application/json",
	}
}

func (r *ConversationResource) Read(ctx context.Context) (*mcptool.Resource, error) {
	messages, err := r.store.Messages(ctx, r.conversationID)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(messages)
	if err != nil {
		return nil, fmt.Errorf("marshal conversation %d: %w", r.conversationID, err)
	}

	return &mcptool.Resource{
		URI:      r.Definition().URI,
		MimeType: "application/json",
		Text:     string(body),
	}, nil
}

// KVKeysResource projects the kv_store's key set as a single resource, for
// clients that want to discover what memory.recall can return without
// already knowing a key.
type KVKeysResource struct {
	store store.Store
}

// NewKVKeysResource builds the key-listing projection over s.
func NewKVKeysResource(s store.Store) *KVKeysResource {
	return &KVKeysResource{store: s}
}

func (r *KVKeysResource) Definition() protocol.ResourceDefinition {
	return protocol.ResourceDefinition{
		URI:         "memory://kv-keys",
		Name:        "memory store keys",
		Description: "Keys currently held in the persistent key-value store.",
		MimeType:    "application/json",
	}
}

func (r *KVKeysResource) Read(ctx context.Context) (*mcptool.Resource, error) {
	keys, err := r.store.ListKeys(ctx)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(keys)
	if err != nil {
		return nil, fmt.Errorf("marshal kv keys: %w", err)
	}

	return &mcptool.Resource{URI: r.Definition().URI, MimeType: "application/json", Text: string(body)}, nil
}

// RegisterStoreResources registers the kv-keys projection and one
// projection per conversation that already exists in s at call time.
func RegisterStoreResources(ctx context.Context, reg mcptool.ResourceRegistry, s store.Store) error {
	if err := reg.RegisterResource("memory://kv-keys", NewKVKeysResource(s)); err != nil {
		return err
	}

	conversations, err := s.ListConversations(ctx)
	if err != nil {
		return fmt.Errorf("list conversations: %w", err)
	}

	for _, c := range conversations {
		provider := NewConversationResource(s, c.ID, c.Title)
		if err := reg.RegisterResource(provider.Definition().URI, provider); err != nil {
			return err
		}
	}

	return nil
}
