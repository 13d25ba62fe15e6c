package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCMD().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCMD() *cobra.Command {
	var cfgPath string
	var root = &cobra.Command{
		Use:           "digestboard",
		Short:         "Browse AI chat digests, interest scores and topic flags",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default is ./config/config.json)")

	root.AddCommand(
		serveCMD(&cfgPath),
		migrateCMD(&cfgPath),
		topicsCMD(&cfgPath),
		groupsCMD(&cfgPath),
		chatCMD(&cfgPath),
		markCMD(&cfgPath),
		tokenCMD(&cfgPath),
	)
	return root
}
