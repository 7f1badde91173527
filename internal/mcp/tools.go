package mcp

import "github.com/mark3labs/mcp-go/mcp"

// askAssistantTool defines the ask_inventory_assistant MCP tool.
var askAssistantTool = mcp.NewTool("ask_inventory_assistant",
	mcp.WithDescription("Ask the inventory assistant a question. Answers are grounded only in the supplied inventory context."),
	mcp.WithString("message",
		mcp.Required(),
		mcp.Description("The user's question"),
	),
	mcp.WithString("inventory_context",
		mcp.Description("Inventory context as a JSON object, flat or rich shape"),
	),
	mcp.WithString("conversation_history",
		mcp.Description("Prior turns as a JSON array of {role, content} objects"),
	),
	mcp.WithString("mode",
		mcp.Description("Conversation mode (default chat)"),
		mcp.Enum("chat", "prompt"),
	),
)

// composePromptTool defines the compose_inventory_prompt MCP tool.
var composePromptTool = mcp.NewTool("compose_inventory_prompt",
	mcp.WithDescription("Render the system prompt the assistant would receive for an inventory context, without calling the model."),
	mcp.WithString("inventory_context",
		mcp.Description("Inventory context as a JSON object, flat or rich shape"),
	),
)
