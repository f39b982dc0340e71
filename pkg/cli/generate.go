package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"kisaan/pkg/middleware"
	plansvc "kisaan/pkg/plan/service"
	problemsvc "kisaan/pkg/problem/service"
	"kisaan/pkg/session"
)

func init() {
	f := generateCmd.Flags()
	f.StringVar(&genUser, "user", middleware.DevUserID, "User id that owns the problem and plan")
	f.StringVar(&genReq.Description, "description", "", "Problem description")
	f.StringVar(&genReq.CropType, "crop", "", "Crop type")
	f.StringVar(&genReq.Location, "location", "", "Field location")
	f.StringVar(&genReq.Urgency, "urgency", "", "low, medium or high")
	f.StringSliceVar(&genPhotos, "photo", nil, "Photo file to attach (repeatable)")
	f.StringVar(&genAPIKey, "api-key", "", "Generator API key (overrides config)")
	_ = generateCmd.MarkFlagRequired("description")
	_ = generateCmd.MarkFlagRequired("crop")
	rootCmd.AddCommand(generateCmd)
}

var (
	genUser   string
	genReq    problemsvc.SubmitRequest
	genPhotos []string
	genAPIKey string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Submit a problem and generate its action plan",
	Long:  `Submit a farming problem, generate and store its action plan, and print the plan and tasks as JSON. Progress goes to stderr.`,
	RunE:  runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	req := genReq
	for _, p := range genPhotos {
		data, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("read photo: %w", err)
		}
		req.Images = append(req.Images, problemsvc.Photo{Name: filepath.Base(p), Data: data})
	}

	sess := session.New(genUser)
	problem, err := a.problems.Submit(ctx, sess, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "problem %s stored\n", problem.ID)

	key := genAPIKey
	if key == "" {
		key = a.cfg.LLMAPIKey
	}
	res, err := a.plans.Generate(ctx, sess, problem, key, func(st plansvc.Stage, pct int) {
		fmt.Fprintf(cmd.ErrOrStderr(), "[%3d%%] %s\n", pct, st)
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
