package main

import (
	"chat-hub/client"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	config, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := newPrinter(os.Stdout, config.Colours)
	api := client.New(config.Server, config.Timeout).WithToken(config.Token)

	root := &cobra.Command{
		Use:           "chatctl",
		Short:         "Command line client for a chat-hub server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newRegisterCmd(api, out),
		newLoginCmd(api, out),
		newMeCmd(api, out),
		newSearchCmd(api, out),
		newChatsCmd(api, out),
		newOpenCmd(api, out),
		newSendCmd(api, out),
		newSendFileCmd(api, out),
		newHistoryCmd(api, out),
		newListenCmd(api, out),
	)

	if err = root.ExecuteContext(ctx); err != nil {
		out.Error(err)
		stop()
		os.Exit(1)
	}
}
