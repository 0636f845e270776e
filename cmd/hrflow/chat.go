package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/peoplehub/hrflow"
	"github.com/peoplehub/hrflow/internal/config"
	"github.com/peoplehub/hrflow/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive HR chat on the terminal",
	Long: `Opens a conversation against the seeded HR backend. Type requests in
English or Arabic; "exit" or "quit" leaves the chat.`,
	Run: func(cmd *cobra.Command, args []string) {
		employee, _ := cmd.Flags().GetString("employee")
		locale, _ := cmd.Flags().GetString("locale")

		cfg, err := config.Load()
		if err != nil {
			fmt.Printf("Error loading configuration: %v\n", err)
			os.Exit(1)
		}

		svc, _, cleanup, err := buildService(cfg)
		if err != nil {
			fmt.Printf("Error initializing hrflow: %v\n", err)
			os.Exit(1)
		}
		defer cleanup()

		interactive := term.IsTerminal(int(os.Stdin.Fd()))
		if interactive {
			tui.PrintBanner()
			fmt.Println(tui.Notice("Chatting as " + employee + ". Type 'exit' to leave."))
			fmt.Println()
		}

		ctx := context.Background()
		reader := bufio.NewReader(os.Stdin)

		for {
			if interactive {
				fmt.Print(tui.Prompt(employee))
			}

			line, err := reader.ReadString('\n')
			if err != nil {
				// EOF: end of piped input or closed terminal.
				return
			}
			text := strings.TrimSpace(line)
			if text == "" {
				continue
			}
			if text == "exit" || text == "quit" {
				fmt.Println(tui.Notice("Bye!"))
				return
			}

			reply, err := svc.Message(ctx, hrflow.MessageRequest{
				ConversationID: employee,
				Locale:         locale,
				Text:           text,
			})
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				continue
			}

			fmt.Println(tui.Reply(reply.Text))
			fmt.Println()
		}
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringP("employee", "e", "EMP001", "Employee ID to chat as")
	chatCmd.Flags().StringP("locale", "l", "", "Reply locale (en or ar); sticks after first use")
}
