package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spf13/cobra"

	"github.com/pable/go-quiz-metrics/internal/aggregator"
	"github.com/pable/go-quiz-metrics/internal/model"
	"github.com/pable/go-quiz-metrics/internal/report"
)

const analyzeSystemPrompt = `You are a quiz results analyst. You are given structured data computed
from a quiz export (a per-player summary sheet and a per-answer event sheet)
and a question from the quiz host or a player.

Rules:
- Answer ONLY from the data provided. Never invent or estimate statistics.
- Always cite specific numbers when making a claim.
- If the data is insufficient to answer confidently, say so explicitly.
- Be concise and concrete.

Glossary:
- accuracy: correct / (correct + incorrect) * 100 from the summary sheet.
- grade: letter grade for accuracy (S+ >= 97, S >= 95, A+ >= 90 ... D < 65).
- avg_time_seconds: mean answer time over the player's answers.
- speed_score: 1000 / avg_time_seconds; absent when the average is zero.
- miss_rate_percent: share of attempts at a question that were wrong.
- band: very-hard >= 80% miss, hard >= 60, medium >= 40, easy >= 20, else very-easy.
- best_streak: longest run of consecutive correct answers in sheet order.
- total_score in a profile: running total at the player's last answer.`

var (
	analyzeModel   string
	analyzeAPIKey  string
	analyzePlayers string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <ref> <question>",
	Short: "AI-powered grounded analysis of a dataset (requires ANTHROPIC_API_KEY)",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeModel, "model", "", "Anthropic model to use (default from config)")
	analyzeCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Anthropic API key (falls back to $ANTHROPIC_API_KEY)")
	analyzeCmd.Flags().StringVar(&analyzePlayers, "players", "", "comma-separated players whose profiles are included")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	question := strings.Join(args[1:], " ")
	modelID := analyzeModel
	if modelID == "" {
		modelID = cfg.AnthropicModel
	}

	ds, rec, err := resolveRef(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if ds.Empty() {
		return fmt.Errorf("dataset is empty, nothing to analyze")
	}

	contextJSON, err := buildQuizContext(cmd.Context(), ds, rec, splitNames(analyzePlayers))
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}
	return callAnthropic(cmd.Context(), analyzeAPIKey, modelID, contextJSON, question)
}

// buildQuizContext serialises every view of ds, plus the requested profiles,
// into compact JSON.
func buildQuizContext(ctx context.Context, ds model.Dataset, rec *model.ImportSummary, players []string) (string, error) {
	params := aggregator.DefaultParams()
	params.Limit = cfg.DefaultLimit
	params.MinSamples = cfg.MinSamples
	views, err := aggregator.ComputeViews(ctx, ds, params)
	if err != nil {
		return "", err
	}

	var profiles []model.PlayerProfile
	for _, name := range players {
		if p, ok := aggregator.Profile(name, ds.Events, cfg.RecentWindow); ok {
			profiles = append(profiles, p)
		}
	}

	b, err := json.Marshal(report.NewDocument(rec, views, profiles))
	return string(b), err
}

func splitNames(s string) []string {
	var out []string
	for _, raw := range strings.Split(s, ",") {
		if name := strings.TrimSpace(raw); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// callAnthropic streams a response from the Anthropic API and prints it to stdout.
func callAnthropic(ctx context.Context, apiKey, modelID, dataJSON, question string) error {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("no API key: set ANTHROPIC_API_KEY or use --api-key")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	userMsg := fmt.Sprintf("DATA:\n%s\n\nQUESTION: %s", dataJSON, question)

	fmt.Fprintln(os.Stdout, "\n─── AI Analysis ─────────────────────────────────────")

	stream := client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: analyzeSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMsg)),
		},
	})

	for stream.Next() {
		evt := stream.Current()
		if evt.Type == "content_block_delta" {
			delta := evt.AsContentBlockDelta()
			if delta.Delta.Type == "text_delta" {
				fmt.Fprint(os.Stdout, delta.Delta.AsTextDelta().Text)
			}
		}
	}
	fmt.Fprintln(os.Stdout, "\n─────────────────────────────────────────────────────")

	if err := stream.Err(); err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "401") || strings.Contains(errStr, "authentication") {
			return fmt.Errorf("API authentication failed: check your API key")
		}
		return fmt.Errorf("streaming error: %w", err)
	}
	return nil
}
