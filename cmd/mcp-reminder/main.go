// Command mcp-reminder provides an MCP server for reminder management.
//
// This server provides tools for creating, listing, completing, and
// managing reminders stored in a SQLite database, sharing the database
// with the remind shell and the remindd daemon.
//
// Usage:
//
//	./mcp-reminder          # Start MCP server (stdio)
//	./mcp-reminder --help   # Show help
//
// Environment:
//
//	REMINDER_DB_PATH  Path to SQLite database (default: ~/.remindd/reminders.db)
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"
	"github.com/notadequate/remindd/internal/reminder"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--help", "-h":
			printHelp()
			return
		}
	}

	dbPath := os.Getenv("REMINDER_DB_PATH")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to get home directory: %v\n", err)
			os.Exit(1)
		}
		dir := filepath.Join(home, ".remindd")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create config directory: %v\n", err)
			os.Exit(1)
		}
		dbPath = filepath.Join(dir, "reminders.db")
	}

	store, err := reminder.NewStore(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	s := reminder.NewServer(store)

	if err := server.ServeStdio(s.MCPServer()); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println(`MCP Reminder Server - Reminder management via MCP protocol

USAGE:
    mcp-reminder          Start MCP server (communicates via stdio)
    mcp-reminder --help   Show this help

ENVIRONMENT:
    REMINDER_DB_PATH  Path to SQLite database file
                      Default: ~/.remindd/reminders.db

TOOLS:
    add_reminder       Add a reminder (title, scheduled_time, repeat, times, space_id)
    list_reminders     List reminders (status, repeat and space filters)
    get_due_reminders  Get reminders that are overdue right now
    get_reminder       Get one reminder with its derived display status
    complete_reminder  Mark a reminder (and all its slots) completed
    reopen_reminder    Reopen a completed reminder
    toggle_time_slot   Flip one time slot between pending and completed
    complete_all_slots Complete every slot of a multi-time reminder
    delete_reminder    Delete a reminder permanently
    update_reminder    Update reminder fields

CONFIGURATION:
    Add to your MCP client configuration:
    {
      "mcpServers": {
        "reminder": {
          "command": "/path/to/mcp-reminder",
          "args": []
        }
      }
    }`)
}
