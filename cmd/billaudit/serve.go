package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/billaudit/internal/exitcode"
	"github.com/gyeh/billaudit/internal/llm"
	"github.com/gyeh/billaudit/internal/logging"
	"github.com/gyeh/billaudit/internal/rag"
	"github.com/gyeh/billaudit/internal/server"
	"github.com/gyeh/billaudit/internal/textextract"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the audit pipeline over HTTP",
	RunE:  runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&cfg.ListenAddr, "listen", ":8080", "HTTP listen address")
	f.StringVar(&cfg.OCRURL, "ocr-url", os.Getenv("BILLAUDIT_OCR_URL"), "Remote OCR endpoint for non-text uploads")
	f.StringVar(&cfg.RetrieverURL, "retriever-url", os.Getenv("BILLAUDIT_RETRIEVER_URL"), "Evidence retrieval endpoint")
	f.IntVar(&cfg.RetrieveTopK, "top-k", 0, "Passages per retrieval (default 2)")
	f.StringVar(&cfg.LLMURL, "llm-url", "", "Chat-completions endpoint (default Together)")
	f.StringVar(&cfg.LLMModel, "llm-model", "", "Model name")
	f.StringVar(&configPath, "config", "", "Optional YAML config file")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logging.SetupWithLevel(cfg.LogFormat, cfg.LogLevel)
	cfg.LLMAPIKey = os.Getenv("TOGETHER_API_KEY")

	if configPath != "" {
		if err := cfg.LoadFromFile(configPath); err != nil {
			log.Error().Err(err).Msg("config file load failed")
			os.Exit(exitcode.UsageError)
		}
	}
	if err := cfg.ValidateForServe(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	table := loadPriceTable(cmd.Context(), log)

	extractor := textextract.Auto{}
	if cfg.OCRURL != "" {
		extractor.Remote = textextract.NewRemote(cfg.OCRURL)
	}

	var retriever rag.Retriever = rag.Noop{}
	if cfg.RetrieverURL != "" {
		retriever = rag.NewHTTPRetriever(cfg.RetrieverURL)
	}

	var completer server.Completer
	if cfg.LLMAPIKey != "" {
		completer = llm.NewClient(cfg.LLMURL, cfg.LLMAPIKey, cfg.LLMModel, log)
	} else {
		log.Warn().Msg("TOGETHER_API_KEY not set, generation endpoints disabled")
	}

	srv := server.New(server.Options{
		Table:     table,
		Extractor: extractor,
		Retriever: retriever,
		LLM:       completer,
		TopK:      cfg.RetrieveTopK,
		Log:       log,
	})
	if err := srv.Run(cfg.ListenAddr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(exitcode.ServerError)
	}
	return nil
}
