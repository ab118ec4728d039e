// Command gateway runs the ReACT tool-augmented LLM gateway: a reverse
// proxy in front of an OpenAI-compatible upstream that interleaves upstream
// chat-completion calls with sandboxed local tool execution.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := buildRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gateway",
		Short: "ReACT tool-augmented LLM gateway",
	}
	root.AddCommand(buildServeCmd())
	return root
}
