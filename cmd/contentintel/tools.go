package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/xxxsen/contentintel/internal/config"
	"github.com/xxxsen/contentintel/internal/model"
	"github.com/xxxsen/contentintel/internal/pkg/jwt"
	"github.com/xxxsen/contentintel/internal/service"
)

var (
	titleColor = color.New(color.FgCyan, color.Bold)
	labelColor = color.New(color.FgYellow)
	dimColor   = color.New(color.Faint)
)

// rankedArticle is the slice of a reranked article the text output shows.
type rankedArticle struct {
	Title string  `json:"title"`
	Score float64 `json:"ai_relevance_score"`
}

type toolOptions struct {
	configPath *string
	jsonOut    bool
	format     string
}

func newToolCommands(configPath *string) []*cobra.Command {
	opts := &toolOptions{configPath: configPath}
	var (
		maxLength int
		query     string
		client    string
		ttl       time.Duration
	)

	summarizeCmd := &cobra.Command{
		Use:   "summarize [file|-]",
		Short: "summarize an article",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd, args, func(ctx context.Context, content *service.ContentService, text string) error {
				res, err := content.Summarize(ctx, text, maxLength, opts.format)
				if err != nil {
					return err
				}
				return opts.print(cmd.OutOrStdout(), res, func(w io.Writer) {
					titleColor.Fprintln(w, "Summary")
					fmt.Fprintln(w, res.Text)
					dimColor.Fprintf(w, "source: %s\n", res.Source)
				})
			})
		},
	}
	summarizeCmd.Flags().IntVar(&maxLength, "max-length", 0, "summary length in characters")

	rerankCmd := &cobra.Command{
		Use:   "rerank [file|-]",
		Short: "rerank a JSON array of articles for a query",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(query) == "" {
				return fmt.Errorf("--query is required")
			}
			return opts.withService(cmd, args, func(ctx context.Context, content *service.ContentService, text string) error {
				var articles []json.RawMessage
				if err := json.Unmarshal([]byte(text), &articles); err != nil {
					return fmt.Errorf("decode articles: %w", err)
				}
				items := content.Search(ctx, query, articles)
				return opts.print(cmd.OutOrStdout(), items, func(w io.Writer) {
					titleColor.Fprintf(w, "Results for %q\n", query)
					for i, raw := range items {
						var a rankedArticle
						_ = json.Unmarshal(raw, &a)
						labelColor.Fprintf(w, "%2d. %.4f ", i+1, a.Score)
						fmt.Fprintln(w, a.Title)
					}
				})
			})
		},
	}
	rerankCmd.Flags().StringVarP(&query, "query", "q", "", "search query")

	sentimentCmd := &cobra.Command{
		Use:   "sentiment [file|-]",
		Short: "classify the tone of an article",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd, args, func(ctx context.Context, content *service.ContentService, text string) error {
				res, err := content.Sentiment(ctx, text)
				if err != nil {
					return err
				}
				return opts.print(cmd.OutOrStdout(), res, func(w io.Writer) {
					printSentiment(w, res)
				})
			})
		},
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [file|-]",
		Short: "summary, excerpt, reading time, sentiment and tags in one pass",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd, args, func(ctx context.Context, content *service.ContentService, text string) error {
				res, err := content.Analyze(ctx, text, opts.format)
				if err != nil {
					return err
				}
				return opts.print(cmd.OutOrStdout(), res, func(w io.Writer) {
					titleColor.Fprintln(w, "Summary")
					fmt.Fprintln(w, res.Summary.Text)
					titleColor.Fprintln(w, "Excerpt")
					fmt.Fprintln(w, res.Excerpt)
					labelColor.Fprint(w, "Reading time: ")
					fmt.Fprintf(w, "%d min\n", res.ReadingTime)
					printSentiment(w, res.Sentiment)
					labelColor.Fprint(w, "Tags: ")
					fmt.Fprintln(w, strings.Join(res.Tags.Tags, ", "))
				})
			})
		},
	}

	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "issue an API token for a client",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if cfg.JWTSecret == "" {
				return fmt.Errorf("jwt_secret is not configured")
			}
			if strings.TrimSpace(client) == "" {
				return fmt.Errorf("--client is required")
			}
			token, err := jwt.GenerateToken(client, []byte(cfg.JWTSecret), ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	tokenCmd.Flags().StringVar(&client, "client", "", "client name")
	tokenCmd.Flags().DurationVar(&ttl, "ttl", 30*24*time.Hour, "token lifetime")

	cmds := []*cobra.Command{summarizeCmd, rerankCmd, sentimentCmd, analyzeCmd}
	for _, c := range cmds {
		c.Flags().BoolVar(&opts.jsonOut, "json", false, "print raw JSON")
	}
	for _, c := range []*cobra.Command{summarizeCmd, analyzeCmd} {
		c.Flags().StringVar(&opts.format, "format", service.FormatText, "input format: text or markdown")
	}
	return append(cmds, tokenCmd)
}

func (o *toolOptions) loadConfig() (*config.Config, error) {
	if o.configPath == nil || *o.configPath == "" {
		return config.Default(), nil
	}
	return config.Load(*o.configPath)
}

func (o *toolOptions) withService(cmd *cobra.Command, args []string, fn func(ctx context.Context, content *service.ContentService, text string) error) error {
	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}
	text, err := readInput(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	app, err := buildApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	app.content.Reprobe(ctx)
	return fn(ctx, app.content, text)
}

func (o *toolOptions) print(w io.Writer, v interface{}, human func(w io.Writer)) error {
	if o.jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(v)
	}
	human(w)
	return nil
}

func readInput(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(data), nil
}

func printSentiment(w io.Writer, s model.Sentiment) {
	c := color.New(color.FgWhite)
	switch s.Label {
	case model.SentimentPositive:
		c = color.New(color.FgGreen)
	case model.SentimentNegative:
		c = color.New(color.FgRed)
	}
	labelColor.Fprint(w, "Sentiment: ")
	c.Fprintf(w, "%s %s", s.Display.Emoji, s.Display.Text)
	dimColor.Fprintf(w, " (%s, %.2f, %s)\n", s.Label, s.Confidence, s.Source)
}
