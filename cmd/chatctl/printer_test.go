package main

import (
	"bytes"
	"chat-hub/client"
	"chat-hub/domain"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestPrinter_Message(t *testing.T) {
	req := require.New(t)
	var buf bytes.Buffer
	out := newPrinter(&buf, false)

	out.Message(domain.Message{
		ID:         uuid.New(),
		SenderName: "bob",
		Content:    "hello",
		CreatedAt:  time.Now(),
		Attachment: &domain.Attachment{FileName: "cat.png", MediaType: "image/png", Data: []byte{1, 2, 3}},
	})

	req.Contains(buf.String(), "bob: hello")
	req.Contains(buf.String(), "(cat.png, image/png, 3 bytes)")
}

func TestPrinter_Chats(t *testing.T) {
	req := require.New(t)
	var buf bytes.Buffer
	name := "weekend"

	newPrinter(&buf, false).Chats([]client.Chat{
		{ID: "c1", Name: &name, IsGroup: true, Participants: []string{"0f8fad5b-d9cb", "7c9e6679-7425"}},
		{ID: "c2", Participants: []string{"a", "b"}},
	})

	req.Contains(buf.String(), "weekend")
	req.Contains(buf.String(), "0f8fad5b,7c9e6679")
	req.Contains(buf.String(), "c2")
}
