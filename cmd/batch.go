package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/copydesk/enhance-cli/internal/enhance"
	"github.com/copydesk/enhance-cli/internal/model"
	"github.com/copydesk/enhance-cli/internal/store"
)

var batchLimit int

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Enhance all unenhanced articles",
	Long:  "Runs the enhancement pipeline over every unenhanced article in sequence, pausing between articles to stay polite to search engines.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		notEnhanced := false
		articles, err := st.ListArticles(ctx, store.ArticleFilter{Enhanced: &notEnhanced, Limit: batchLimit})
		if err != nil {
			return err
		}
		if len(articles) == 0 {
			fmt.Println("no unenhanced articles")
			return nil
		}

		pipeline := initPipeline()
		delay := time.Duration(cfg.Batch.ArticleDelayMs) * time.Millisecond

		var done, failed int
		for i, article := range articles {
			if i > 0 {
				select {
				case <-time.After(delay):
				case <-ctx.Done():
					return ctx.Err()
				}
			}

			result, err := pipeline.Run(ctx, article)
			if err != nil {
				// A missing backend will fail every article the same way.
				if enhance.IsConfigurationError(err) {
					return err
				}
				if ctx.Err() != nil {
					return context.Cause(ctx)
				}
				zap.L().Warn("batch: article failed, continuing",
					zap.String("id", article.ID),
					zap.String("title", article.Title),
					zap.Error(err),
				)
				failed++
				continue
			}

			if _, err := st.UpdateArticle(ctx, article.ID, model.EnhancementUpdate(result)); err != nil {
				zap.L().Warn("batch: persist failed, continuing", zap.String("id", article.ID), zap.Error(err))
				failed++
				continue
			}
			done++
			zap.L().Info("batch: article enhanced",
				zap.String("id", article.ID),
				zap.String("backend", result.Backend),
				zap.Int("remaining", len(articles)-i-1),
			)
		}

		fmt.Printf("batch complete: %d enhanced, %d failed, %d total\n", done, failed, len(articles))
		return nil
	},
}

func init() {
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max articles to process (0 = all)")
	rootCmd.AddCommand(batchCmd)
}
