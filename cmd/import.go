package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/copydesk/enhance-cli/internal/store"
)

var (
	importPages     int
	importStartPage int
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import articles from the source blog",
	Long:  "Crawls the configured blog's listing pages, extracts each article, and stores the ones not imported yet.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		im := initImporter(st)

		startPage := cfg.Import.StartPage
		if importStartPage > 0 {
			startPage = importStartPage
		}

		candidates, err := im.ListPages(ctx, startPage, importPages)
		if err != nil {
			return err
		}
		if len(candidates) == 0 {
			fmt.Println("no articles found on listing pages")
			return nil
		}

		imported, skipped := im.ImportAll(ctx, candidates)
		fmt.Printf("import complete: %d new, %d already present, %d candidates\n", imported, skipped, len(candidates))
		return nil
	},
}

var importStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show stored article counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		all, err := st.ListArticles(ctx, store.ArticleFilter{})
		if err != nil {
			return err
		}
		enhanced := 0
		for _, a := range all {
			if a.IsEnhanced {
				enhanced++
			}
		}
		fmt.Printf("%d articles stored, %d enhanced, %d pending\n", len(all), enhanced, len(all)-enhanced)
		return nil
	},
}

func init() {
	importCmd.Flags().IntVar(&importPages, "pages", 1, "number of listing pages to crawl")
	importCmd.Flags().IntVar(&importStartPage, "start-page", 0, "listing page to start from (0 = configured default)")
	importCmd.AddCommand(importStatusCmd)
	rootCmd.AddCommand(importCmd)
}
