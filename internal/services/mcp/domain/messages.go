package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/mhlavac/edupage-mcp/internal/aggregate"
	"github.com/mhlavac/edupage-mcp/internal/edupage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SendMessageInput addresses a message.
type SendMessageInput struct {
	Recipients string `json:"recipients" jsonschema:"comma-separated recipient names, matched against teachers and students"`
	Body       string `json:"body" jsonschema:"the message text to send"`
	Account    string `json:"account,omitempty" jsonschema:"account id; required when several accounts are logged in"`
}

// SendMessageResult reports who the message went to.
type SendMessageResult struct {
	Account string   `json:"account,omitempty"`
	SentTo  []string `json:"sent_to"`
}

// SendMessageTool defines the tool schema for sending a message.
func SendMessageTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "send_message",
		Description: "Sends a message to one or more users. Use with care, this sends real messages.",
	}
}

// SendMessageHandler sends a timeline message from one account. Writes
// never fan out: the account must be unambiguous, and every recipient
// name must match a teacher or student known to it.
func SendMessageHandler(registry *aggregate.Registry) mcp.ToolHandlerFor[SendMessageInput, SendMessageResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SendMessageInput) (*mcp.CallToolResult, SendMessageResult, error) {
		runCtx, cancel := callCtx(ctx)
		defer cancel()

		if strings.TrimSpace(input.Body) == "" {
			return nil, SendMessageResult{}, toolError("send_message", fmt.Errorf("body must not be empty"))
		}
		session, err := registry.ResolveDefault(input.Account)
		if err != nil {
			return nil, SendMessageResult{}, toolError("send_message", err)
		}

		people := knownPeople(runCtx, session.Client)
		if len(people) == 0 {
			return nil, SendMessageResult{}, toolError("send_message", fmt.Errorf("no recipients available"))
		}

		var (
			matched  []edupage.Recipient
			notFound []string
		)
		for _, name := range strings.Split(input.Recipients, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			recipient, ok := matchRecipient(people, name)
			if !ok {
				notFound = append(notFound, name)
				continue
			}
			matched = append(matched, recipient)
		}
		if len(notFound) > 0 {
			return nil, SendMessageResult{}, toolError("send_message",
				fmt.Errorf("could not find recipients: %s", strings.Join(notFound, ", ")))
		}
		if len(matched) == 0 {
			return nil, SendMessageResult{}, toolError("send_message", fmt.Errorf("no recipients matched"))
		}

		if err := session.Client.SendMessage(runCtx, matched, input.Body); err != nil {
			return nil, SendMessageResult{}, toolError("send_message", err)
		}
		sentTo := make([]string, 0, len(matched))
		for _, recipient := range matched {
			sentTo = append(sentTo, recipient.Name)
		}
		return nil, SendMessageResult{Account: session.ID, SentTo: sentTo}, nil
	}
}

// knownPeople gathers the addressable people of one account. Either
// listing may fail independently; the other still serves.
func knownPeople(ctx context.Context, client edupage.Client) []edupage.Recipient {
	var people []edupage.Recipient
	if teachers, err := client.Teachers(ctx); err == nil {
		for _, teacher := range teachers {
			people = append(people, edupage.Recipient{PersonID: teacher.PersonID, Name: teacher.Name})
		}
	}
	if students, err := client.Students(ctx); err == nil {
		for _, student := range students {
			people = append(people, edupage.Recipient{PersonID: student.PersonID, Name: student.Name})
		}
	}
	return people
}

// matchRecipient finds the first person whose name contains the query,
// case-insensitively. Teachers are listed first and win ties.
func matchRecipient(people []edupage.Recipient, name string) (edupage.Recipient, bool) {
	needle := strings.ToLower(name)
	for _, person := range people {
		if strings.Contains(strings.ToLower(person.Name), needle) {
			return person, true
		}
	}
	return edupage.Recipient{}, false
}
