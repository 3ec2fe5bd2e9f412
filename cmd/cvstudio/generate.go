package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lamnguyen/cvstudio/internal/assistant"
	"github.com/lamnguyen/cvstudio/internal/config"
	"github.com/lamnguyen/cvstudio/internal/cvtools"
	"github.com/lamnguyen/cvstudio/internal/extract"
	"github.com/lamnguyen/cvstudio/internal/llm"
	"github.com/lamnguyen/cvstudio/internal/profile"
)

var (
	generateJDFlag     string
	generateUploadFlag string
	generateOutFlag    string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a tailored CV from a profile",
	Long: `Generate a CV from a profile YAML file, optionally tailored to a job
description. An existing CV (TXT, DOCX, or PDF) can be supplied with
--upload; its text is extracted and sent along as the base to improve.

Examples:
  cvstudio generate --profile me.yaml
  cvstudio generate --profile me.yaml --jd jd.txt -o cv.md
  cvstudio generate --profile me.yaml --upload old_cv.pdf --jd jd.txt`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&generateJDFlag, "jd", "", "Path to a job description text file")
	generateCmd.Flags().StringVar(&generateUploadFlag, "upload", "", "Path to an existing CV to improve (txt, docx, pdf)")
	generateCmd.Flags().StringVarP(&generateOutFlag, "out", "o", "", "Write the CV to this file instead of stdout")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if profileFlag == "" {
		return fmt.Errorf("--profile is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	model := modelFlag
	if model == "" {
		model = cfg.LLM.Model
	}

	p, err := profile.Load(profileFlag)
	if err != nil {
		return fmt.Errorf("loading profile: %w", err)
	}

	var jdText string
	if generateJDFlag != "" {
		data, err := os.ReadFile(generateJDFlag)
		if err != nil {
			return fmt.Errorf("reading JD file: %w", err)
		}
		jdText = string(data)
	}

	if generateUploadFlag != "" {
		data, err := os.ReadFile(generateUploadFlag)
		if err != nil {
			return fmt.Errorf("reading upload: %w", err)
		}
		uploaded := extract.Text(filepath.Base(generateUploadFlag), data)
		if jdText != "" {
			jdText = uploaded + "\n\nJD:\n" + jdText
		} else {
			jdText = uploaded
		}
	}

	client := llm.NewClient(cfg.LLM.BaseURL, cfg.LLM.APIKey, model)
	a := assistant.New(client, cvtools.NewRegistry(), nil)

	content := a.GenerateCV(context.Background(), *p, profile.JobDescription{RawText: jdText})

	if generateOutFlag == "" {
		fmt.Println(content)
		return nil
	}
	if err := os.WriteFile(generateOutFlag, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	fmt.Printf("CV written to %s\n", generateOutFlag)
	return nil
}
