package main

import "github.com/spf13/cobra"

const version = "0.1.0"

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "chatbridge",
		Short:         "Browser sign-in bot for Teams and the ChatGPT web client",
		Long:          "chatbridge signs in to Microsoft Teams and the ChatGPT web client with remote-controlled browsers, pauses on CAPTCHA challenges so a human can solve them, and idles while running.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newStatusCmd(),
		newVersionCmd(),
	)

	return rootCmd
}
