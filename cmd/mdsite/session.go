package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	mdsite "github.com/alnah/go-mdsite"
	"github.com/alnah/go-mdsite/internal/config"
)

// session is the state one command invocation works with.
type session struct {
	env    *Environment
	v      *viper.Viper
	cfg    *config.Config
	logger *slog.Logger
	quiet  bool
}

// newSession resolves flags, environment and config file for cmd.
func newSession(cmd *cobra.Command, env *Environment) (*session, error) {
	v, err := newViper(cmd.Flags())
	if err != nil {
		return nil, err
	}
	warnUnknownEnvVars(env.Stderr, env.Environ())

	s := &session{
		env:    env,
		v:      v,
		quiet:  v.GetBool(flagQuiet),
		logger: newLogger(env.Stderr, v.GetBool(flagQuiet), v.GetBool(flagVerbose)),
	}
	if s.cfg, err = loadConfig(env.Fs, v); err != nil {
		return nil, withHints(err, nil, v.GetString(flagConfig))
	}
	return s, nil
}

// builderOptions translates the site config into Builder options.
func builderOptions(cfg *config.Config, env *Environment, logger *slog.Logger) []mdsite.Option {
	opts := []mdsite.Option{
		mdsite.WithFs(env.Fs),
		mdsite.WithLogger(logger),
		mdsite.WithAssetPath(cfg.ThemeDir),
		mdsite.WithSite(mdsite.Site{
			Title:    cfg.Title,
			BaseURL:  cfg.BaseURL,
			Language: cfg.Language,
			Params:   cfg.Params,
		}),
		mdsite.WithMarkdown(mdsite.MarkdownOptions{
			Highlight:      cfg.Markdown.Highlight,
			HighlightStyle: cfg.Markdown.HighlightStyle,
			LineNumbers:    cfg.Markdown.LineNumbers,
			HardWraps:      cfg.Markdown.HardWraps,
			Sanitize:       cfg.Markdown.Sanitize,
		}),
		mdsite.WithStyle(cfg.Style),
		mdsite.WithInlineCSS(cfg.InlineCSS),
		mdsite.WithCleanOutput(cfg.CleanOutput),
		mdsite.WithDateFormat(cfg.DateFormat),
	}
	if cfg.TOC.Enabled {
		opts = append(opts, mdsite.WithTOC(mdsite.TOCOptions{
			MinDepth: cfg.TOC.MinDepth,
			MaxDepth: cfg.TOC.MaxDepth,
		}))
	}

	indexes := make([]mdsite.Index, 0, len(cfg.Indexes))
	for _, ic := range cfg.Indexes {
		indexes = append(indexes, mdsite.Index{
			Permalink:   ic.Permalink,
			Title:       ic.Title,
			Layout:      ic.Layout,
			MatchLayout: ic.MatchLayout,
			MatchPrefix: ic.MatchPrefix,
			Reverse:     ic.Reverse,
			Limit:       ic.Limit,
		})
	}
	return append(opts, mdsite.WithIndexes(indexes...))
}

// build loads the content directory and runs one build.
func (s *session) build(ctx context.Context, dryRun bool) (*mdsite.BuildResult, error) {
	b, err := mdsite.NewBuilder(builderOptions(s.cfg, s.env, s.logger)...)
	if err != nil {
		return nil, withHints(err, nil, "")
	}

	docs, err := mdsite.LoadDocuments(s.env.Fs, s.cfg.ContentDir)
	if err != nil {
		return nil, withHints(err, b, "")
	}

	result, err := b.Build(ctx, mdsite.BuildInput{
		Documents: docs,
		OutputDir: s.cfg.OutputDir,
		StaticDir: s.cfg.StaticDir,
		DryRun:    dryRun,
	})
	if err != nil {
		return nil, withHints(err, b, "")
	}
	return result, nil
}
