package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"kisaan/entities"
	"kisaan/pkg/export"
	"kisaan/pkg/middleware"
	"kisaan/pkg/session"
)

func init() {
	exportCmd.Flags().StringVar(&exportPlan, "plan", "", "Plan id")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output file (default plan-<id>.xlsx)")
	exportCmd.Flags().StringVar(&exportUser, "user", middleware.DevUserID, "User id that owns the plan")
	_ = exportCmd.MarkFlagRequired("plan")
	rootCmd.AddCommand(exportCmd)
}

var (
	exportPlan string
	exportOut  string
	exportUser string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a plan's task schedule to an XLSX file",
	RunE:  runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	v, err := a.plans.Get(ctx, session.New(exportUser), exportPlan)
	if err != nil {
		return err
	}
	tasks := make([]entities.Task, len(v.Tasks))
	for i := range v.Tasks {
		tasks[i] = v.Tasks[i].Task
	}

	out := exportOut
	if out == "" {
		out = export.FileName(v.Plan)
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := export.WriteSchedule(f, v.Plan, tasks); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d tasks, %.0f%% complete)\n", out, len(tasks), v.Progress.Percent)
	return nil
}
