package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the chatbridge version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("chatbridge v%s\n", version)
		},
	}
}
