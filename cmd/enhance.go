package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/copydesk/enhance-cli/internal/enhance"
	"github.com/copydesk/enhance-cli/internal/model"
)

var enhanceForce bool

var enhanceCmd = &cobra.Command{
	Use:   "enhance <article-id>",
	Short: "Enhance one stored article",
	Long:  "Searches the web for competing articles, scrapes their content, and rewrites the stored article with the configured LLM backend.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		article, err := st.GetArticle(ctx, args[0])
		if err != nil {
			return err
		}
		if article == nil {
			return fmt.Errorf("article %s not found", args[0])
		}
		if article.IsEnhanced && !enhanceForce {
			return fmt.Errorf("article %s already enhanced (use --force to redo)", article.ID)
		}

		pipeline := initPipeline()
		result, err := pipeline.Run(ctx, *article)
		if err != nil {
			if enhance.IsConfigurationError(err) {
				return fmt.Errorf("no generation backend configured: set ENHANCE_ANTHROPIC_KEY or ENHANCE_OPENAI_KEY")
			}
			return err
		}

		if _, err := st.UpdateArticle(ctx, article.ID, model.EnhancementUpdate(result)); err != nil {
			return err
		}

		zap.L().Info("article enhanced",
			zap.String("id", article.ID),
			zap.String("backend", result.Backend),
			zap.Int("references", len(result.References)),
		)
		fmt.Printf("enhanced %q via %s with %d reference(s)\n", article.Title, result.Backend, len(result.References))
		return nil
	},
}

func init() {
	enhanceCmd.Flags().BoolVar(&enhanceForce, "force", false, "re-enhance an already enhanced article")
	rootCmd.AddCommand(enhanceCmd)
}
