package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/copydesk/enhance-cli/internal/enhance"
	"github.com/copydesk/enhance-cli/internal/extract"
	"github.com/copydesk/enhance-cli/internal/fetch"
	"github.com/copydesk/enhance-cli/internal/importer"
	"github.com/copydesk/enhance-cli/internal/search"
	"github.com/copydesk/enhance-cli/internal/store"
	"github.com/copydesk/enhance-cli/pkg/llm"
)

// initStore opens the configured database backend and runs migrations.
func initStore(ctx context.Context) (store.Store, error) {
	var (
		st  store.Store
		err error
	)

	switch cfg.Store.Driver {
	case "postgres":
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	case "sqlite", "":
		st, err = store.NewSQLite(cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}

	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// initPipeline wires search, scraping, and generation from config.
func initPipeline() *enhance.Pipeline {
	fetcher := fetch.New(fetch.WithTimeout(time.Duration(cfg.Scrape.TimeoutSecs) * time.Second))
	gate := fetch.NewGate(time.Duration(cfg.Scrape.FetchIntervalMs) * time.Millisecond)

	filter := search.NewFilter(cfg.Search.ExcludeDomains, cfg.Search.MaxResults)
	providers := make([]search.Provider, 0, 3)
	if cfg.Serp.Key != "" {
		providers = append(providers, search.NewSerpProvider(cfg.Serp.Key, search.WithSerpBaseURL(cfg.Serp.BaseURL)))
	}
	providers = append(providers,
		search.NewGoogleHTMLProvider(fetcher, ""),
		search.NewDuckDuckGoProvider(fetcher, ""),
	)
	chain := search.NewChain(filter, providers...)

	collector := enhance.NewCollector(chain, fetcher, extract.New(cfg.Scrape.MaxContentLen), gate,
		enhance.WithMinContentLen(cfg.Scrape.MinContentLen),
		enhance.WithReferenceCap(cfg.Scrape.ReferenceCap),
	)

	var primary, secondary llm.Generator
	if cfg.Anthropic.Key != "" {
		primary = llm.NewAnthropicGenerator(cfg.Anthropic.Key, cfg.Anthropic.Model,
			llm.WithAnthropicMaxTokens(cfg.Anthropic.MaxTokens))
	}
	if cfg.OpenAI.Key != "" {
		secondary = llm.NewOpenAIGenerator(cfg.OpenAI.Key, cfg.OpenAI.Model)
	}
	enhancer := enhance.NewEnhancer(primary, secondary, cfg.Scrape.PromptRefLen)

	return enhance.NewPipeline(collector, enhancer)
}

// initImporter wires the source-blog crawler against st.
func initImporter(st store.Store) *importer.Importer {
	fetcher := fetch.New(fetch.WithTimeout(time.Duration(cfg.Scrape.TimeoutSecs) * time.Second))
	gate := fetch.NewGate(time.Duration(cfg.Scrape.FetchIntervalMs) * time.Millisecond)
	return importer.New(cfg.Import.BaseURL, fetcher, gate, st)
}
