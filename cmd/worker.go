package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/hr-payroll/internal/core/cron"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start the scheduler and background task pool",
	Long:  `Start the cron scheduler running the nightly contract expiry sweep, together with the task pool that applies lazy contract corrections.`,
	Run: func(cmd *cobra.Command, args []string) {
		startWorker()
	},
}

var (
	maxWorkers   int
	jobQueueSize int
	runOnce      bool
)

func startWorker() {
	cfg := mustLoadConfig()
	cfg.Tasks.MaxWorkers = getIntFlag(maxWorkers, cfg.Tasks.MaxWorkers)
	cfg.Tasks.QueueSize = getIntFlag(jobQueueSize, cfg.Tasks.QueueSize)

	deps, err := initializeDependencies(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	lg := deps.Logger

	job, err := contractSweepJob(deps)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to configure scheduler: %v\n", err)
		os.Exit(1)
	}

	scheduler := cron.NewScheduler(lg)
	scheduler.AddJob(job)

	if runOnce {
		err := scheduler.RunOnce(context.Background())
		deps.Close(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Scheduled jobs failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	lg.Info("starting worker",
		"max_workers", cfg.Tasks.MaxWorkers,
		"job_queue_size", cfg.Tasks.QueueSize,
		"timezone", cfg.Scheduler.Timezone,
		"sweep_interval", cfg.Scheduler.ContractSweepInterval)

	scheduler.Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	lg.Info("worker is running. Press Ctrl+C to stop.")

	sig := <-sigChan
	lg.Info("received signal, shutting down worker", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	scheduler.Stop()
	deps.Close(ctx)
	lg.Info("worker shutdown complete")
}

func getIntFlag(flagValue, configValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	return configValue
}

func init() {
	workerCmd.Flags().IntVar(&maxWorkers, "max-workers", 0, "Maximum number of workers (overrides config)")
	workerCmd.Flags().IntVar(&jobQueueSize, "job-queue-size", 0, "Job queue buffer size (overrides config)")
	workerCmd.Flags().BoolVar(&runOnce, "once", false, "Run every scheduled job once and exit")
}
