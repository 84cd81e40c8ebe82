package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"portfolio.dev/internal/config"
	"portfolio.dev/internal/handlers"
	"portfolio.dev/internal/logging"
	"portfolio.dev/internal/services"
	"portfolio.dev/internal/snapshot"
)

const shutdownTimeout = 10 * time.Second

// app carries state shared by every subcommand
type app struct {
	overrides config.Overrides
	verbose   bool

	cfg    *config.Config
	logger *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "portfolio",
		Short:        "Serve and inspect portfolio content",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.overrides.ConfigPath, "config", "", "config file (default <root>/"+config.FileName+")")
	flags.StringVar(&a.overrides.Root, "root", "", "content root directory")
	flags.StringVar(&a.overrides.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "human-readable debug logging")

	root.AddCommand(
		a.serveCmd(),
		a.checkCmd(),
		a.projectsCmd(),
		a.tagsCmd(),
		a.postsCmd(),
		a.postCmd(),
		a.exportCmd(),
	)

	return root
}

func (a *app) init() error {
	if a.verbose && a.overrides.LogLevel == "" {
		a.overrides.LogLevel = "debug"
	}

	cfg, err := config.Load(a.overrides)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, a.verbose)
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(logger)

	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) projectService() *services.ProjectService {
	return services.NewProjectService(a.cfg.ProjectsPath(), a.cfg.AssetsPath(), a.logger)
}

func (a *app) postService() *services.PostService {
	return services.NewPostService(a.cfg.BlogPath(), a.logger)
}

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
	cmd.Flags().StringVar(&a.overrides.ServerAddr, "addr", "", "listen address (default :8080)")
	return cmd
}

// serve validates the project document, then runs until ctx is done
func (a *app) serve(ctx context.Context) error {
	if err := a.projectService().Validate(); err != nil {
		a.logger.Error("invalid content", zap.Error(err))
		return err
	}

	srv := &http.Server{
		Addr:              a.cfg.ServerAddr,
		Handler:           handlers.SetupRoutes(a.cfg, a.logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server listening",
			zap.String("addr", a.cfg.ServerAddr),
			zap.String("root", a.cfg.Root))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the project document and blog front matter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.projectService().Validate(); err != nil {
				return err
			}
			posts, err := a.postService().List()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d posts\n", len(posts))
			return nil
		},
	}
}

func (a *app) projectsCmd() *cobra.Command {
	var tags []string
	var query string

	cmd := &cobra.Command{
		Use:   "projects [slug]",
		Short: "List visible projects, or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ps := a.projectService()
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				p, ok, err := ps.Get(args[0])
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("project %q not found", args[0])
				}
				return writeJSON(out, p.Detail())
			}

			projects, err := ps.List()
			if err != nil {
				return err
			}
			for _, p := range services.Filter(projects, services.Query{Text: query, Tags: tags}) {
				fmt.Fprintf(out, "%s\t%s\t%d files\n", p.Slug, p.Title, len(p.Public().Files))
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "only projects with any of these tags")
	cmd.Flags().StringVarP(&query, "query", "q", "", "search title, description and tags")
	return cmd
}

func (a *app) tagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List the tags used by visible projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, err := a.projectService().Tags()
			if err != nil {
				return err
			}
			for _, t := range tags {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
			return nil
		},
	}
}

func (a *app) postsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "posts",
		Short: "List posts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			posts, err := a.postService().List()
			if err != nil {
				return err
			}
			for _, p := range posts {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", p.Date, p.Slug, p.Title)
			}
			return nil
		},
	}
}

func (a *app) postCmd() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "post <slug>",
		Short: "Print a post rendered to HTML, or its raw source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ps := a.postService()

			var text string
			var err error
			if raw {
				text, err = ps.Source(args[0])
			} else {
				text, err = ps.Render(args[0])
			}
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), text)
			return err
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print the source document")
	return cmd
}

func (a *app) exportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the resolved content to a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := snapshot.Build(a.projectService(), a.postService(), time.Now())
			if err != nil {
				return err
			}
			if err := snapshot.Write(out, snap); err != nil {
				return err
			}
			a.logger.Info("exported snapshot",
				zap.String("path", out),
				zap.Int("projects", len(snap.Projects)),
				zap.Int("posts", len(snap.Posts)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "site.json", "output file")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
