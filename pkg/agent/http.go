package agent

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

func NewHttpHandler(registry *Registry, snapshots *SnapshotWriter, r *echo.Echo) {
	r.GET("/metrics", func(c echo.Context) error {
		stats := registry.Statistics()

		metrics := fmt.Sprintln("# TYPE gantry_agent_workers gauge")
		metrics += fmt.Sprintln("# HELP gantry_agent_workers The number of registered workers.")
		metrics += fmt.Sprintf("gantry_agent_workers %d\n", stats.Workers)

		metrics += fmt.Sprintln("# TYPE gantry_agent_workers_alive gauge")
		metrics += fmt.Sprintln("# HELP gantry_agent_workers_alive The number of workers in the alive state.")
		metrics += fmt.Sprintf("gantry_agent_workers_alive %d\n", stats.Alive)

		metrics += fmt.Sprintln("# TYPE gantry_agent_workers_blocked gauge")
		metrics += fmt.Sprintln("# HELP gantry_agent_workers_blocked The number of workers blocked on a data dependency.")
		metrics += fmt.Sprintf("gantry_agent_workers_blocked %d\n", stats.Blocked)

		metrics += fmt.Sprintln("# TYPE gantry_agent_workers_dead gauge")
		metrics += fmt.Sprintln("# HELP gantry_agent_workers_dead The number of dead workers awaiting destruction.")
		metrics += fmt.Sprintf("gantry_agent_workers_dead %d\n", stats.Dead)

		metrics += fmt.Sprintln("# TYPE gantry_agent_tasks_assigned gauge")
		metrics += fmt.Sprintln("# HELP gantry_agent_tasks_assigned The number of workers with an assigned task.")
		metrics += fmt.Sprintf("gantry_agent_tasks_assigned %d\n", stats.AssignedTasks)

		metrics += fmt.Sprintln("# TYPE gantry_agent_actors gauge")
		metrics += fmt.Sprintln("# HELP gantry_agent_actors The number of workers hosting an actor.")
		metrics += fmt.Sprintf("gantry_agent_actors %d\n", stats.Actors)

		metrics += fmt.Sprintln("# TYPE gantry_agent_borrowed_cpus gauge")
		metrics += fmt.Sprintln("# HELP gantry_agent_borrowed_cpus Total CPU consumed beyond formal reservations.")
		metrics += fmt.Sprintf("gantry_agent_borrowed_cpus %f\n", stats.BorrowedCpus)

		metrics += fmt.Sprintln("# TYPE gantry_agent_workers_created_total counter")
		metrics += fmt.Sprintln("# HELP gantry_agent_workers_created_total The total number of worker records created.")
		metrics += fmt.Sprintf("gantry_agent_workers_created_total %d\n", stats.CreatedWorkers)

		metrics += fmt.Sprintln("# TYPE gantry_agent_workers_destroyed_total counter")
		metrics += fmt.Sprintln("# HELP gantry_agent_workers_destroyed_total The total number of worker records destroyed.")
		metrics += fmt.Sprintf("gantry_agent_workers_destroyed_total %d\n", stats.DestroyedWorkers)

		c.String(http.StatusOK, metrics)
		return nil
	})

	r.GET("/workers", func(c echo.Context) error {
		workers := []*WorkerSnapshot{}
		registry.Walk(func(worker *Worker) bool {
			workers = append(workers, snapshotWorker(worker))
			return true
		})
		return c.JSON(http.StatusOK, workers)
	})

	r.POST("/snapshot", func(c echo.Context) error {
		path, err := snapshots.Write(registry)
		if err != nil {
			return c.String(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, map[string]string{"path": path})
	})
}
