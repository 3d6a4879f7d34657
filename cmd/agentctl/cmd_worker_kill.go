package main

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/srand/gantry/pkg/protocol"
)

var workerKillCmd = &cobra.Command{
	Use:   "kill [id]",
	Short: "Mark a worker as dead",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := DefaultDeadlineContext()
		defer cancel()

		client := NewNodeClient()

		for _, arg := range args {
			if _, err := client.KillWorker(ctx, &protocol.KillWorkerRequest{WorkerId: arg}); err != nil {
				log.Fatal(err)
			}

			log.Println("killed", arg)
		}
	},
}

func init() {
	workerCmd.AddCommand(workerKillCmd)
}
