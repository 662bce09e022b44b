package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sat8bit/taiwa/batch"
	buspkg "github.com/sat8bit/taiwa/bus"
	"github.com/sat8bit/taiwa/buslog"
	"github.com/sat8bit/taiwa/card"
	"github.com/sat8bit/taiwa/conversation"
	"github.com/sat8bit/taiwa/llm"
	"github.com/sat8bit/taiwa/modifier"
	"github.com/sat8bit/taiwa/renderer"
	"github.com/sat8bit/taiwa/transcript"
)

var (
	cardPath    string
	numTurns    int
	count       int
	concurrency int
	outputDir   string
	saveCSV     bool
	saveDebug   bool
	quiet       bool
	seed        int64
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate conversations from a conversation card",
	RunE:  runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&cardPath, "card", "", "conversation card file (required)")
	generateCmd.Flags().IntVar(&numTurns, "turns", 0, "turns per conversation (default from card)")
	generateCmd.Flags().IntVar(&count, "count", 1, "number of conversations to generate")
	generateCmd.Flags().IntVar(&concurrency, "concurrency", 0, "parallel generations (default from config)")
	generateCmd.Flags().StringVar(&outputDir, "output", "", "output directory (default from config)")
	generateCmd.Flags().BoolVar(&saveCSV, "csv", false, "also write CSV output")
	generateCmd.Flags().BoolVar(&saveDebug, "debug-capture", false, "write per-conversation debug bundles")
	generateCmd.Flags().BoolVar(&quiet, "quiet", false, "suppress live console output")
	generateCmd.Flags().Int64Var(&seed, "seed", 0, "modifier selection seed (0 = random)")
	cobra.CheckErr(generateCmd.MarkFlagRequired("card"))

	viper.BindPFlag("output_dir", generateCmd.Flags().Lookup("output"))
	viper.BindPFlag("concurrency", generateCmd.Flags().Lookup("concurrency"))
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := card.Load(cardPath)
	if err != nil {
		return err
	}
	if numTurns < 1 {
		numTurns = c.Parameters.NumTurns
	}

	scenario, err := c.VignetteSource().Load(ctx)
	if err != nil {
		return err
	}

	participants, err := c.BuildParticipants()
	if err != nil {
		return err
	}

	pool, err := c.LoadPool(modifier.NewLoader())
	if err != nil {
		return err
	}
	if pool == nil && anyApplyModifiers(c) {
		if pool, err = modifier.DefaultPool(); err != nil {
			return err
		}
		slog.Info("using built-in modifier pool")
	}

	projectID := viper.GetString("project_id")
	if projectID == "" {
		return fmt.Errorf("set TAIWA_PROJECT_ID (or project_id in the config file)")
	}
	client, err := llm.NewGemini(ctx, projectID, viper.GetString("location"))
	if err != nil {
		return err
	}

	engine := modifier.NewEngine()
	if seed != 0 {
		engine = modifier.NewSeededEngine(seed)
	}

	bus := buspkg.NewMemoryBus()
	if !quiet {
		// Surface generation warnings inline with the streamed exchanges.
		slog.SetDefault(slog.New(buslog.NewHandler(bus, slog.LevelWarn)))
	}

	orch, err := conversation.New(conversation.Config{
		Title:        c.Title,
		Description:  c.Description,
		Domain:       c.Scenario.Domain,
		Participants: participants,
		InitiatorID:  c.Parameters.Initiator,
		Scenario:     scenario,
		Client:       client,
		Engine:       engine,
		Pool:         pool,
		Level:        c.Coherence(),
		Target:       c.TargetModifiers(),
		Bus:          bus,
		CaptureDebug: saveDebug,
	})
	if err != nil {
		return err
	}

	outDir := viper.GetString("output_dir")
	jsonRenderer := renderer.NewJSONRenderer(outDir).WithMetadata(cardPath, c.Scenario.VignetteFile)
	if saveDebug {
		jsonRenderer = jsonRenderer.WithDebug()
	}
	renderers := []renderer.Renderer{jsonRenderer}
	if saveCSV {
		renderers = append(renderers, renderer.NewCSVRenderer(outDir))
	}
	if !quiet {
		renderers = append(renderers, renderer.NewConsoleRenderer())
	}

	var wg sync.WaitGroup
	for _, r := range renderers {
		if err := r.Render(bus, &wg); err != nil {
			return err
		}
	}

	runner := batch.NewRunner(viper.GetInt("concurrency"))
	results, runErr := runner.Run(ctx, count, func(ctx context.Context, i int) (*transcript.Conversation, error) {
		slog.Info("generating conversation", "index", i+1, "total", count)
		return orch.Run(ctx, numTurns), nil
	})

	bus.Close()
	wg.Wait()

	for _, r := range renderers {
		if err := r.Finalize(results); err != nil {
			return err
		}
	}
	return runErr
}

func anyApplyModifiers(c *card.Card) bool {
	for _, pc := range c.Participants {
		if pc.ApplyModifiers {
			return true
		}
	}
	return false
}
