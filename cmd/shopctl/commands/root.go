// Package commands implements shopctl, an offline harness for the intent
// extractor and the ranking pipeline.
package commands

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"shopassist/internal/config"
	"shopassist/internal/logger"
	"shopassist/internal/service"
)

var (
	offline  bool
	verbose  bool
	retailer string
)

var rootCmd = &cobra.Command{
	Use:   "shopctl",
	Short: "Inspect intent extraction and product ranking from the command line",
	Long: `shopctl runs the assistant's query understanding and ranking without the HTTP
server or a database. Products are read from a JSON or YAML catalog file.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&offline, "offline", false, "never call the language model, use keyword extraction only")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stderr at debug level")
	rootCmd.PersistentFlags().StringVar(&retailer, "retailer", "cli", "retailer id attached to requests")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// engine is the subset of the server wiring the CLI needs
type engine struct {
	extractor *service.IntentExtractor
	composer  service.Composer
	ranker    *service.Ranker
	cfg       *config.Config
	logger    zerolog.Logger
}

func newEngine(stderr io.Writer) (*engine, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	l := zerolog.Nop()
	if verbose {
		l = logger.InitWithWriter(stderr, "shopctl", "debug", "console")
	}

	var (
		classifier service.TextClassifier
		composer   service.Composer = service.NewTemplateComposer()
	)
	if cfg.OpenAI.Enabled && !offline {
		client := service.NewOpenAIClient(&cfg.OpenAI, l)
		classifier = client
		composer = service.NewLLMComposer(client, cfg.OpenAI.ComposerModel, cfg.OpenAI.ComposerTemperature, cfg.OpenAI.ComposerMaxTokens, l)
	}

	extractor := service.NewIntentExtractor(classifier, nil, service.ExtractorConfig{
		Timeout:         cfg.Extraction.Timeout,
		MaxContextTurns: cfg.Extraction.MaxContextTurns,
		MaxTokens:       cfg.Extraction.MaxTokens,
		Temperature:     cfg.Extraction.Temperature,
	}, l, nil)

	return &engine{
		extractor: extractor,
		composer:  composer,
		ranker:    service.NewRanker(service.WeightsFromConfig(cfg.Ranking)),
		cfg:       cfg,
		logger:    l,
	}, nil
}

func stderrOf(cmd *cobra.Command) io.Writer {
	if w := cmd.ErrOrStderr(); w != nil {
		return w
	}
	return os.Stderr
}
