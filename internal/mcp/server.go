package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"linkcards/internal/browser"
	"linkcards/internal/cards"
)

// NewServer creates an MCP server with tools for managing saved links
func NewServer(board *cards.Board, log *zap.Logger) *server.MCPServer {
	s := server.NewMCPServer(
		"Linkcards",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	// Tool: list_cards - Saved links grouped by category
	s.AddTool(
		mcp.NewTool("list_cards",
			mcp.WithDescription("List saved links grouped by category, pinned links first, newest first within each group. Use this to find a link the user saved."),
			mcp.WithString("query",
				mcp.Description("Optional: case-insensitive text matched against link titles and URLs"),
			),
			mcp.WithString("category",
				mcp.Description("Optional: only return links in this category ('all' for every category)"),
			),
		),
		handleListCards(board),
	)

	// Tool: save_link - Save a new link
	s.AddTool(
		mcp.NewTool("save_link",
			mcp.WithDescription("Save a link. Without a category one is inferred from the URL (Figma, Tickets, Work, Daily Tools or Other)."),
			mcp.WithString("url",
				mcp.Required(),
				mcp.Description("The link to save; https:// is added when no scheme is given"),
			),
			mcp.WithString("title",
				mcp.Description("Optional: display title"),
			),
			mcp.WithString("category",
				mcp.Description("Optional: category label"),
			),
		),
		handleSaveLink(board, log),
	)

	// Tool: delete_card - Remove a saved link
	s.AddTool(
		mcp.NewTool("delete_card",
			mcp.WithDescription("Delete a saved link by its ID."),
			mcp.WithNumber("id",
				mcp.Required(),
				mcp.Description("The card ID as returned by list_cards"),
			),
		),
		handleDeleteCard(board, log),
	)

	// Tool: toggle_pin - Pin or unpin a saved link
	s.AddTool(
		mcp.NewTool("toggle_pin",
			mcp.WithDescription("Pin or unpin a saved link. Pinned links are listed before all others."),
			mcp.WithNumber("id",
				mcp.Required(),
				mcp.Description("The card ID as returned by list_cards"),
			),
		),
		handleTogglePin(board, log),
	)

	// Tool: list_categories - The category list
	s.AddTool(
		mcp.NewTool("list_categories",
			mcp.WithDescription("List the user's categories in display order."),
		),
		handleListCategories(board),
	)

	s.AddTool(
		mcp.NewTool("add_category",
			mcp.WithDescription("Add a category. Empty or already existing names are ignored."),
			mcp.WithString("name",
				mcp.Required(),
				mcp.Description("Category label"),
			),
		),
		handleAddCategory(board, log),
	)

	s.AddTool(
		mcp.NewTool("remove_category",
			mcp.WithDescription("Remove a category. Links in it are kept and still listed under the removed label."),
			mcp.WithString("name",
				mcp.Required(),
				mcp.Description("Category label"),
			),
		),
		handleRemoveCategory(board, log),
	)

	return s
}

func handleListCards(board *cards.Board) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		groups := board.Groups(cards.Query{
			Search:   req.GetString("query", ""),
			Category: req.GetString("category", ""),
		})
		if len(groups) == 0 {
			return mcp.NewToolResultText(cards.EmptyMessage), nil
		}
		return jsonResult(groups), nil
	}
}

func handleSaveLink(board *cards.Board, log *zap.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := req.RequireString("url")
		if err != nil || strings.TrimSpace(url) == "" {
			return mcp.NewToolResultError("url is required"), nil
		}
		title := req.GetString("title", "")

		var card cards.Card
		if category := req.GetString("category", ""); category != "" {
			card, _, err = board.AddManual(ctx, cards.ManualInput{Title: title, URL: url, Category: category})
		} else {
			tab := browser.Tab{URL: cards.NormalizeURL(strings.TrimSpace(url)), Title: title}
			card, _, err = board.SaveTab(ctx, tab)
		}
		logPersist(log, "save_link", err)

		return jsonResult(card), nil
	}
}

func handleDeleteCard(board *cards.Board, log *zap.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireInt("id")
		if err != nil {
			return mcp.NewToolResultError("id is required"), nil
		}

		err = board.DeleteCard(ctx, int64(id))
		if errors.Is(err, cards.ErrCardNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("card %d not found", id)), nil
		}
		logPersist(log, "delete_card", err)

		return mcp.NewToolResultText(fmt.Sprintf("deleted card %d", id)), nil
	}
}

func handleTogglePin(board *cards.Board, log *zap.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireInt("id")
		if err != nil {
			return mcp.NewToolResultError("id is required"), nil
		}

		card, err := board.TogglePin(ctx, int64(id))
		if errors.Is(err, cards.ErrCardNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("card %d not found", id)), nil
		}
		logPersist(log, "toggle_pin", err)

		return jsonResult(card), nil
	}
}

func handleListCategories(board *cards.Board) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(board.Categories()), nil
	}
}

func handleAddCategory(board *cards.Board, log *zap.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("name")
		if err != nil {
			return mcp.NewToolResultError("name is required"), nil
		}

		added, err := board.AddCategory(ctx, name)
		logPersist(log, "add_category", err)
		if !added {
			return mcp.NewToolResultText(fmt.Sprintf("category %q not added (empty or already present)", name)), nil
		}
		return jsonResult(board.Categories()), nil
	}
}

func handleRemoveCategory(board *cards.Board, log *zap.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("name")
		if err != nil {
			return mcp.NewToolResultError("name is required"), nil
		}

		logPersist(log, "remove_category", board.RemoveCategory(ctx, name))
		return jsonResult(board.Categories()), nil
	}
}

// Helper functions

func jsonResult(v any) *mcp.CallToolResult {
	data, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(data))
}

func logPersist(log *zap.Logger, tool string, err error) {
	if err != nil {
		log.Error("failed to persist", zap.String("tool", tool), zap.Error(err))
	}
}
