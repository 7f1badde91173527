package conversation

import (
	"strings"
	"time"

	"github.com/finxan/ai-service/internal/llm"
)

// WindowSize is the number of most recent turns sent to the backend.
const WindowSize = 5

// SeedAcknowledgement is the model turn that answers the priming exchange.
const SeedAcknowledgement = "I understand. I'm ready to help with inventory management queries."

// Role labels a turn as sent by clients.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message of the client-held conversation history.
type Turn struct {
	Role      Role       `json:"role"`
	Content   string     `json:"content"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// Window returns the last WindowSize turns in order, with roles mapped to
// the backend vocabulary. Any label other than user is treated as the
// assistant.
func Window(history []Turn) []llm.Message {
	if len(history) > WindowSize {
		history = history[len(history)-WindowSize:]
	}
	out := make([]llm.Message, 0, len(history))
	for _, t := range history {
		out = append(out, llm.Message{Role: backendRole(t.Role), Content: t.Content})
	}
	return out
}

func backendRole(r Role) llm.Role {
	if strings.EqualFold(strings.TrimSpace(string(r)), string(RoleUser)) {
		return llm.RoleUser
	}
	return llm.RoleAssistant
}

// Conversation is the single ordered representation both invocation modes
// render from.
type Conversation struct {
	SystemPrompt string
	History      []llm.Message
	Message      string
}

// Assemble windows the history and pairs it with the system prompt and the
// current message.
func Assemble(systemPrompt string, history []Turn, message string) Conversation {
	return Conversation{
		SystemPrompt: systemPrompt,
		History:      Window(history),
		Message:      message,
	}
}

// Turns renders the seeded multi-turn sequence: the system prompt as a user
// turn, the acknowledgement, the windowed history and the current message.
func (c Conversation) Turns() []llm.Message {
	turns := make([]llm.Message, 0, len(c.History)+3)
	turns = append(turns,
		llm.Message{Role: llm.RoleUser, Content: c.SystemPrompt},
		llm.Message{Role: llm.RoleAssistant, Content: SeedAcknowledgement},
	)
	turns = append(turns, c.History...)
	return append(turns, llm.Message{Role: llm.RoleUser, Content: c.Message})
}

// Seeded splits Turns into the history the backend is primed with and the
// final user message submitted to elicit the completion.
func (c Conversation) Seeded() ([]llm.Message, string) {
	turns := c.Turns()
	last := len(turns) - 1
	return turns[:last], turns[last].Content
}

// Flatten renders the stateless single-call prompt.
func (c Conversation) Flatten() string {
	var b strings.Builder
	b.WriteString(c.SystemPrompt)
	if len(c.History) > 0 {
		b.WriteString("\n\nPrevious conversation:\n")
		for _, m := range c.History {
			b.WriteString(string(m.Role))
			b.WriteString(": ")
			b.WriteString(m.Content)
			b.WriteString("\n")
		}
	}
	b.WriteString("\n\nUser: ")
	b.WriteString(c.Message)
	b.WriteString("\nAssistant:")
	return b.String()
}
