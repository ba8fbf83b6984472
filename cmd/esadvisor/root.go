package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

const (
	descriptionShort = `Elasticsearch cluster health advisor`
	descriptionLong  = `
	Elasticsearch cluster health advisor. Polls a cluster's health, node,
	shard, allocation and task APIs, and turns the snapshot into a ranked
	list of recommendations with ready-to-run commands.

	  analyze <uri>   run one analysis and print the report
	  watch <uri>     live terminal dashboard
	  serve           poll configured clusters and serve the JSON API
	`
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// NewRootCommand builds the esadvisor command tree.
func NewRootCommand(name string) *cobra.Command {
	c := &cobra.Command{
		Use:           name,
		Short:         descriptionShort,
		Long:          strings.ReplaceAll(descriptionLong, "\t", ""),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	c.AddCommand(
		newAnalyzeCommand(),
		newWatchCommand(),
		newServeCommand(),
		newVersionCommand(),
	)

	return c
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the esadvisor version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "esadvisor %s\n", version)
		},
	}
}
