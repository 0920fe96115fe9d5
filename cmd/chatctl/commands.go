package main

import (
	"chat-hub/client"
	"chat-hub/domain"
	"strings"

	"github.com/spf13/cobra"
)

func newRegisterCmd(api *client.Client, out *printer) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "register <username> <email>",
		Short: "Create an account and print its token",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := api.Register(cmd.Context(), args[0], args[1], password)
			if err != nil {
				return err
			}
			out.Title("REGISTERED")
			out.User(user)
			out.Line("export CHATCTL_TOKEN=%s", api.Token())
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLoginCmd(api *client.Client, out *printer) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Log in and print a fresh token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := api.Login(cmd.Context(), args[0], password); err != nil {
				return err
			}
			out.Line("export CHATCTL_TOKEN=%s", api.Token())
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newMeCmd(api *client.Client, out *printer) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the account behind CHATCTL_TOKEN",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := api.Me(cmd.Context())
			if err != nil {
				return err
			}
			out.User(user)
			return nil
		},
	}
}

func newSearchCmd(api *client.Client, out *printer) *cobra.Command {
	return &cobra.Command{
		Use:   "search <term>",
		Short: "Find users by username",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := api.SearchUsers(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, u := range users {
				out.User(u)
			}
			return nil
		},
	}
}

func newChatsCmd(api *client.Client, out *printer) *cobra.Command {
	return &cobra.Command{
		Use:   "chats",
		Short: "List your chats, most recently active first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			chats, err := api.ListChats(cmd.Context())
			if err != nil {
				return err
			}
			out.Title("CHATS")
			out.Chats(chats)
			return nil
		},
	}
}

func newOpenCmd(api *client.Client, out *printer) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "open <user-id>...",
		Short: "Open a private chat with one user, or a group chat when --name is set",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chat, err := api.OpenChat(cmd.Context(), name, args...)
			if err != nil {
				return err
			}
			out.Chats([]client.Chat{chat})
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "Group name")
	return cmd
}

func newSendCmd(api *client.Client, out *printer) *cobra.Command {
	return &cobra.Command{
		Use:   "send <chat-id> <text>...",
		Short: "Send a text message",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			message, err := api.SendText(cmd.Context(), args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			out.Message(message)
			return nil
		},
	}
}

func newSendFileCmd(api *client.Client, out *printer) *cobra.Command {
	var caption string
	cmd := &cobra.Command{
		Use:   "send-file <chat-id> <path>",
		Short: "Upload a file and send it as an image or file message",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			upload, err := api.UploadFile(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			message, err := api.SendFile(cmd.Context(), args[0], caption, upload)
			if err != nil {
				return err
			}
			out.Message(message)
			return nil
		},
	}
	cmd.Flags().StringVarP(&caption, "caption", "c", "", "Message text, the file name when empty")
	return cmd
}

func newHistoryCmd(api *client.Client, out *printer) *cobra.Command {
	var skip, limit int
	cmd := &cobra.Command{
		Use:   "history <chat-id>",
		Short: "Print a page of a chat history, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			messages, err := api.History(cmd.Context(), args[0], skip, limit)
			if err != nil {
				return err
			}
			for _, m := range messages {
				out.Message(m)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&skip, "skip", "s", 0, "Number of newest messages to skip")
	cmd.Flags().IntVarP(&limit, "limit", "l", 50, "Page size")
	return cmd
}

func newListenCmd(api *client.Client, out *printer) *cobra.Command {
	return &cobra.Command{
		Use:   "listen",
		Short: "Stream incoming messages until Ctrl+C",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out.Title("LISTENING (Ctrl+C to quit)")
			return api.Listen(cmd.Context(), func(m domain.Message) {
				out.Message(m)
			})
		},
	}
}
