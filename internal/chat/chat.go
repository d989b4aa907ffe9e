// ABOUTME: In-memory conversation with the AI book advisor
// ABOUTME: Formats advice responses into assistant replies

package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/swapbook/bookx/cli/internal/client"
)

const (
	Greeting = "Hi! I'm your AI book advisor. Tell me what you're looking for - a specific genre, mood, or topic - and I'll recommend books from our community!"

	ErrorReply = "Sorry, I'm having trouble connecting right now. Please try again later."

	adviceIntro = "Based on your request, I found some great recommendations! Here's what I suggest:\n\n"
	noAdvice    = "I couldn't find specific suggestions for that request. Try describing a genre, author, or mood."
)

// Role is who authored a message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one chat entry
type Message struct {
	ID        string
	Role      Role
	Content   string
	Timestamp time.Time
}

// Conversation is an append-only message list
type Conversation struct {
	messages []Message
	now      func() time.Time
}

// New starts a conversation with the assistant greeting
func New() *Conversation {
	c := &Conversation{now: time.Now}
	c.AddAssistant(Greeting)
	return c
}

// Messages returns the conversation in order
func (c *Conversation) Messages() []Message {
	return c.messages
}

// AddUser appends a user message. Blank input is ignored and reported as false.
func (c *Conversation) AddUser(content string) (Message, bool) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Message{}, false
	}
	return c.add(RoleUser, content), true
}

// AddAssistant appends an assistant message
func (c *Conversation) AddAssistant(content string) Message {
	return c.add(RoleAssistant, content)
}

func (c *Conversation) add(role Role, content string) Message {
	m := Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: c.now(),
	}
	c.messages = append(c.messages, m)
	return m
}

// FormatAdvice renders the AI suggestions as a numbered reply
func FormatAdvice(advice *client.AdviceResponse) string {
	if advice == nil || advice.AI == nil || len(advice.AI.SuggestedBooks) == 0 {
		return noAdvice
	}

	entries := make([]string, 0, len(advice.AI.SuggestedBooks))
	for i, s := range advice.AI.SuggestedBooks {
		entry := fmt.Sprintf("%d. **%s**", i+1, s.Title)
		if s.Author != "" {
			entry += " by " + s.Author
		}
		entry += "\n"
		if s.Why != "" {
			entry += "   " + s.Why + "\n"
		}
		entries = append(entries, entry)
	}
	return adviceIntro + strings.Join(entries, "\n")
}
