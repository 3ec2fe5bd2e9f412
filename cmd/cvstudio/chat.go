package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/lamnguyen/cvstudio/internal/assistant"
	"github.com/lamnguyen/cvstudio/internal/config"
	"github.com/lamnguyen/cvstudio/internal/cvtools"
	"github.com/lamnguyen/cvstudio/internal/llm"
	"github.com/lamnguyen/cvstudio/internal/profile"
)

var chatJDFlag string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive CV chat session",
	Long: `Start an interactive conversation with the CV assistant.
The assistant can call analysis functions (CV analysis, CV/JD comparison,
JD requirement extraction, improvement suggestions) while answering.

Examples:
  cvstudio chat
  cvstudio chat --profile me.yaml --jd jd.txt
  cvstudio chat --model gpt-4o`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatJDFlag, "jd", "", "Path to a job description text file")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	model := modelFlag
	if model == "" {
		model = cfg.LLM.Model
	}

	// Optional context: profile YAML and JD text injected into the system
	// prompt of every turn.
	var userProfile profile.UserProfile
	if profileFlag != "" {
		p, err := profile.Load(profileFlag)
		if err != nil {
			return fmt.Errorf("loading profile: %w", err)
		}
		userProfile = *p
	}

	var jdText string
	if chatJDFlag != "" {
		data, err := os.ReadFile(chatJDFlag)
		if err != nil {
			return fmt.Errorf("reading JD file: %w", err)
		}
		jdText = string(data)
	}

	fmt.Printf("CV Studio - Interactive Chat\n")
	fmt.Printf("Model: %s\n", model)
	if profileFlag != "" {
		fmt.Printf("Profile: %s\n", profileFlag)
	}
	if chatJDFlag != "" {
		fmt.Printf("JD: %s\n", chatJDFlag)
	}
	fmt.Printf("Type /help for commands, /quit to exit\n\n")

	client := llm.NewClient(cfg.LLM.BaseURL, cfg.LLM.APIKey, model)
	a := assistant.New(client, cvtools.NewRegistry(), nil)

	// Display hooks for function activity
	obs := &assistant.ToolObserver{
		OnToolCall: func(name string, fnArgs string) {
			fmt.Printf("\n  \033[33m⚡ Function: %s(%s)\033[0m\n", name, fnArgs)
		},
		OnToolResult: func(name string, result string) {
			lines := strings.Split(strings.TrimSpace(result), "\n")
			preview := lines
			if len(preview) > 8 {
				preview = preview[:8]
			}
			for _, line := range preview {
				fmt.Printf("  \033[90m│ %s\033[0m\n", line)
			}
			if len(lines) > 8 {
				fmt.Printf("  \033[90m│ ... (%d more lines)\033[0m\n", len(lines)-8)
			}
			fmt.Println()
		},
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[36myou>\033[0m ",
		HistoryFile:     "/tmp/cvstudio_history",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("readline: %w", err)
	}
	defer rl.Close()

	// Per-request cancellation: Ctrl+C cancels the active LLM request,
	// not the whole app.
	var reqCancel context.CancelFunc
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		for range sigCh {
			if reqCancel != nil {
				reqCancel()
			}
		}
	}()

	system := assistant.ChatSystemPrompt + assistant.ContextInfo(userProfile, jdText)
	var history []llm.Message

	for {
		input, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt || err == io.EOF {
				fmt.Println("\nGoodbye!")
				return nil
			}
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if handleCommand(input, &history) {
				continue
			}
		}

		messages := make([]llm.Message, 0, cfg.Chat.HistoryWindow+2)
		messages = append(messages, llm.SystemMessage(system))
		messages = append(messages, assistant.RecentWindow(history, cfg.Chat.HistoryWindow)...)
		messages = append(messages, llm.UserMessage(input))

		reqCtx, cancel := context.WithCancel(context.Background())
		reqCancel = cancel

		content := a.ChatWithTools(reqCtx, messages, obs)
		wasInterrupted := reqCtx.Err() != nil
		cancel()
		reqCancel = nil

		if wasInterrupted {
			fmt.Println("\n(interrupted)")
			continue
		}

		fmt.Printf("\n\033[32massistant>\033[0m %s\n\n", content)
		history = append(history, llm.UserMessage(input), llm.AssistantMessage(content))
	}
}

func handleCommand(input string, history *[]llm.Message) bool {
	switch strings.ToLower(strings.Fields(input)[0]) {
	case "/quit", "/exit", "/q":
		fmt.Println("Goodbye!")
		os.Exit(0)
	case "/reset":
		*history = nil
		fmt.Println("Conversation reset.")
		fmt.Println()
	case "/history":
		data, err := json.MarshalIndent(*history, "", "  ")
		if err != nil {
			fmt.Println("[]")
		} else {
			fmt.Println(string(data))
		}
		fmt.Println()
	case "/help":
		fmt.Println("Commands:")
		fmt.Println("  /help     - Show this help")
		fmt.Println("  /reset    - Clear conversation history")
		fmt.Println("  /history  - Show raw conversation history (JSON)")
		fmt.Println("  /quit     - Exit")
		fmt.Println()
	default:
		fmt.Printf("Unknown command: %s (try /help)\n\n", input)
	}
	return true
}
