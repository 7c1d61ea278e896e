// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-agent/internal/analyze"
	"github.com/pdiddy/paper-agent/internal/batch"
	"github.com/pdiddy/paper-agent/internal/convert"
	"github.com/pdiddy/paper-agent/internal/llm"
	"github.com/pdiddy/paper-agent/internal/report"
	"github.com/pdiddy/paper-agent/internal/secrets"
	"github.com/pdiddy/paper-agent/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Analyze all PDFs in the papers directory (or one with --single)",
	Long: `Run converts each PDF to Markdown, asks the analysis battery question by
question, and writes {name}_analysis.md to the output directory. Papers
whose report already exists are skipped, so reruns cost nothing.

Individual paper failures are reported in the end-of-run summary and do not
stop the batch; the command exits nonzero only on configuration errors.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := buildRunConfig(cmd)
		if err != nil {
			return err
		}

		client, err := llm.New(cfg.LLM)
		if err != nil {
			return err
		}

		converter, err := convert.New(cfg.Conversion, cfg.OutputDir)
		if err != nil {
			return err
		}

		questions := analyze.DefaultQuestions()
		if cfg.QuestionsFile != "" {
			questions, err = analyze.LoadQuestions(cfg.QuestionsFile)
			if err != nil {
				return err
			}
		}

		analyzer, err := analyze.NewAnalyzer(client, questions, cfg.LLM.MaxRetries)
		if err != nil {
			return err
		}

		runner := batch.Runner{
			Converter: converter,
			Analyzer:  analyzer,
			Writer:    report.Writer{OutputDir: cfg.OutputDir},
			PapersDir: cfg.PapersDir,
		}

		// From here on, failures are per-file and already summarized;
		// the process itself succeeds.
		single, _ := cmd.Flags().GetString("single")
		if single != "" {
			_, err = runner.RunSingle(cmd.Context(), single, os.Stdout)
		} else {
			_, err = runner.Run(cmd.Context(), os.Stdout)
		}
		return err
	},
}

// buildRunConfig resolves the run configuration from flags, config file,
// environment, and the secrets directory, in that precedence order.
func buildRunConfig(cmd *cobra.Command) (types.RunConfig, error) {
	flags := cmd.Flags()

	papersDir, _ := flags.GetString("papers-dir")
	outputDir, _ := flags.GetString("output-dir")
	questionsFile, _ := flags.GetString("questions")
	providerName, _ := flags.GetString("provider")
	model, _ := flags.GetString("model")
	apiKey, _ := flags.GetString("api-key")
	highFidelity, _ := flags.GetBool("use-high-fidelity-converter")
	converterURL, _ := flags.GetString("converter-url")
	timeout, _ := flags.GetDuration("timeout")
	maxRetries, _ := flags.GetInt("max-retries")

	if !flags.Changed("model") {
		model = viper.GetString("model")
	}
	if !flags.Changed("converter-url") {
		if v := viper.GetString("converter_url"); v != "" {
			converterURL = v
		}
	}

	provider := types.Provider(providerName)
	switch provider {
	case types.ProviderOpenAI:
		apiKey = secretDefault(secrets.KeyOpenAI, firstNonEmpty(apiKey, os.Getenv("OPENAI_API_KEY")))
	case types.ProviderGemini:
		apiKey = secretDefault(secrets.KeyGemini, firstNonEmpty(apiKey, os.Getenv("GEMINI_API_KEY")))
	default:
		return types.RunConfig{}, fmt.Errorf("unknown LLM provider %q (expected openai or gemini)", providerName)
	}

	conversion := types.ConversionConfig{Backend: types.BackendLocal}
	if backend := viper.GetString("conversion_backend"); backend != "" {
		conversion.Backend = types.ConversionBackend(backend)
	}
	if highFidelity {
		conversion.Backend = types.BackendRemote
	}
	if conversion.Backend == types.BackendRemote {
		conversion.ServiceURL = converterURL
		conversion.ServiceToken = secretDefault(secrets.KeyConversionToken, os.Getenv("CONVERSION_SERVICE_TOKEN"))
	}

	return types.RunConfig{
		PapersDir:     papersDir,
		OutputDir:     outputDir,
		QuestionsFile: questionsFile,
		LLM: types.LLMConfig{
			Provider:   provider,
			Model:      model,
			APIKey:     apiKey,
			MaxRetries: maxRetries,
			Timeout:    timeout,
		},
		Conversion: conversion,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func init() {
	runCmd.Flags().String("single", "", "analyze one PDF instead of the papers directory")
	runCmd.Flags().String("papers-dir", "papers", "directory scanned for PDFs in batch mode")
	runCmd.Flags().String("output-dir", "output", "directory receiving the analysis reports")
	runCmd.Flags().String("provider", "openai", "LLM provider: openai or gemini")
	runCmd.Flags().String("model", "", "model identifier (default: provider default)")
	runCmd.Flags().String("api-key", "", "provider API key (default: environment or .secrets/)")
	runCmd.Flags().String("questions", "", "YAML file overriding the built-in question battery")
	runCmd.Flags().Bool("use-high-fidelity-converter", false, "convert through the hosted service (better figures/formulas, slower)")
	runCmd.Flags().String("converter-url", "", "base URL of the hosted conversion service")
	runCmd.Flags().Duration("timeout", 120*time.Second, "per-request timeout for LLM calls")
	runCmd.Flags().Int("max-retries", 3, "retry attempts per LLM call")

	rootCmd.AddCommand(runCmd)
}
