package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/lshigami/studyhub-ai/config"
	"github.com/lshigami/studyhub-ai/internal/dto"
	"github.com/lshigami/studyhub-ai/internal/logger"
	"github.com/lshigami/studyhub-ai/internal/service"
	"github.com/spf13/cobra"
)

// @title StudyHub AI API
// @version 1.0
// @description Generates English test questions with Gemini, grades answers locally and recommends learning paths.
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init("info", true)

	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "studyhub-ai",
		Short:        "StudyHub AI test generation and grading service",
		SilenceUsage: true,
	}

	serve := serveCmd()
	root.AddCommand(serve, recommendCmd())

	// "serve" is the default when no subcommand is given.
	root.RunE = serve.RunE
	return root
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}
			logger.Init(cfg.Log.Level, cfg.Log.Pretty)
			return runServer(cfg)
		},
	}
}

func recommendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend TIME VOCAB GRAMMAR LISTENING SPEAKING READING WRITING",
		Short: "Print the learning-path recommendation for one student",
		Args:  cobra.ExactArgs(7),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req dto.RecommendRequest
			targets := []*int{
				&req.TimeAvailable, &req.VocabScore, &req.GrammarScore, &req.ListeningScore,
				&req.SpeakingScore, &req.ReadingScore, &req.WritingScore,
			}
			for i, arg := range args {
				v, err := strconv.Atoi(arg)
				if err != nil || v < 0 {
					return fmt.Errorf("argument %d (%q) must be a non-negative integer", i+1, arg)
				}
				*targets[i] = v
			}

			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}
			logger.Init(cfg.Log.Level, cfg.Log.Pretty)
			if dataset, _ := cmd.Flags().GetString("dataset"); dataset != "" {
				cfg.Recommender.DatasetPath = dataset
			}

			resp, err := service.NewRecommender(cfg).Recommend(req.Features())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		},
	}
	cmd.Flags().String("dataset", "", "Dataset file (.csv or .xlsx), overrides RECOMMENDER_DATASET")
	return cmd
}
