package main

import (
	"fmt"
	"log"
	"sort"

	"github.com/golang/protobuf/ptypes/empty"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
)

var workerListCmd = &cobra.Command{
	Use:   "ls",
	Short: "List workers",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := DefaultDeadlineContext()
		defer cancel()

		maxSizeOption := grpc.MaxCallRecvMsgSize(32 * 10e6)

		client := NewNodeClient()
		response, err := client.ListWorkers(ctx, &empty.Empty{}, maxSizeOption)
		if err != nil {
			log.Fatal(err)
		}

		sort.Slice(response.Workers, func(i, j int) bool {
			return response.Workers[i].Id < response.Workers[j].Id
		})

		workerCount := len(response.Workers)
		workerPad := fmt.Sprint(len(fmt.Sprint(workerCount)))

		for index, worker := range response.Workers {
			fmt.Printf("%"+workerPad+"d: %s\n",
				index+1,
				worker.Id,
			)

			fmt.Printf("  Language: %s\n", worker.Language)
			fmt.Printf("  State: %s\n", worker.State)
			if worker.Pid > 0 {
				fmt.Printf("  Pid: %d\n", worker.Pid)
			}
			if worker.Port > 0 {
				fmt.Printf("  Port: %d\n", worker.Port)
			}
			if worker.TaskId != "" {
				fmt.Printf("  Task: %s\n", worker.TaskId)
			}
			if worker.JobId != "" {
				fmt.Printf("  Job: %s\n", worker.JobId)
			}
			if worker.ActorId != "" {
				fmt.Printf("  Actor: %s detached=%v\n", worker.ActorId, worker.DetachedActor)
			}
			if len(worker.BlockedTaskIds) > 0 {
				fmt.Println("  Blocked on")
				for _, taskId := range worker.BlockedTaskIds {
					fmt.Printf("    %s\n", taskId)
				}
			}
			if worker.BorrowedCpus > 0 {
				fmt.Printf("  Borrowed CPUs: %f\n", worker.BorrowedCpus)
			}
			fmt.Println()
		}
	},
}

func init() {
	workerCmd.AddCommand(workerListCmd)
}
