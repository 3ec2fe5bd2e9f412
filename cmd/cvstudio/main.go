package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	modelFlag   string
	profileFlag string
)

var rootCmd = &cobra.Command{
	Use:   "cvstudio",
	Short: "CV Studio - AI assistant for CV writing",
	Long: `CV Studio is an AI-powered assistant for IT job seekers.

It chats about CV writing, analyzes CVs against job descriptions, and
generates tailored CVs from a profile. Documents can be exported to
DOCX and PDF.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&modelFlag, "model", "", "Model to use (overrides config)")
	rootCmd.PersistentFlags().StringVar(&profileFlag, "profile", "", "Path to a profile YAML file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
