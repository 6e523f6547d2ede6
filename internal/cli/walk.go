package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	dwerrors "github.com/depwalk/depwalk/pkg/errors"
	"github.com/depwalk/depwalk/pkg/httputil"
	"github.com/depwalk/depwalk/pkg/provider/fixture"
	"github.com/depwalk/depwalk/pkg/provider/maven"
	"github.com/depwalk/depwalk/pkg/render"
	"github.com/depwalk/depwalk/pkg/report"
	"github.com/depwalk/depwalk/pkg/store"
	"github.com/depwalk/depwalk/pkg/walker"
)

// Traversal modes.
const (
	modeRemote  = "remote"
	modeLocal   = "local"
	modeFixture = "fixture"
)

// Output formats.
const (
	formatText = "text"
	formatJSON = "json"
	formatDOT  = "dot"
	formatSVG  = "svg"
	formatPNG  = "png"
)

// walkCommand creates the walk command.
func (c *CLI) walkCommand() *cobra.Command {
	var (
		repo        string
		mode        string
		version     string
		filter      string
		format      string
		output      string
		configFile  string
		loadOrder   bool
		noCache     bool
		refresh     bool
		save        bool
		interactive bool
		circular    bool
	)

	cmd := &cobra.Command{
		Use:   "walk <package>",
		Short: "Build the transitive dependency graph of a package",
		Long: `Walk the transitive dependency graph starting from a package,
detect cycles, and print the edge list.

In remote and local modes the package is a Maven coordinate
(groupId:artifactId[:version]); in fixture mode it is a plain key from
the fixture file.`,
		Example: `  depwalk walk org.example:app --version 1.0.0
  depwalk walk org.example:app:1.0.0 --filter test --load-order
  depwalk walk app --mode fixture --repo deps.txt --format dot
  depwalk walk org.example:app -i --format svg -o graph.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			pkg := strings.TrimSpace(args[0])

			cfg, err := loadConfig(configFile)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("repo") && mode == modeRemote {
				repo = cfg.Repository
			}
			if !cmd.Flags().Changed("version") && cfg.DefaultVersion != "" {
				version = cfg.DefaultVersion
			}
			if !cmd.Flags().Changed("filter") && cfg.Filter != "" {
				filter = cfg.Filter
			}

			if err := validateWalkInput(pkg, mode, format); err != nil {
				return err
			}
			if (mode == modeRemote || mode == modeLocal) && !interactive {
				if err := requireVersion(pkg, version); err != nil {
					return err
				}
			}

			cacheTTL := time.Duration(cfg.CacheTTLHours) * time.Hour
			if noCache {
				cacheTTL = 0
			}
			if refresh {
				if err := clearResponseCache(""); err != nil {
					logger.Warnf("refresh: clearing response cache: %v", err)
				}
			}

			prov, err := buildProvider(mode, repo, version, cacheTTL)
			if err != nil {
				return err
			}

			if interactive {
				remote, ok := prov.(*maven.RemoteProvider)
				if !ok {
					return dwerrors.New(dwerrors.ErrCodeInvalidMode,
						"interactive version selection requires remote mode")
				}
				picked, err := pickVersion(ctx, remote, pkg)
				if err != nil {
					return err
				}
				if picked == "" {
					printInfo("no version selected, aborting")
					return nil
				}
				coord, err := maven.ParseCoordinate(pkg)
				if err != nil {
					return err
				}
				coord.Version = picked
				pkg = coord.String()
			}

			prog := newProgress(logger)
			spinner := newSpinner(ctx, fmt.Sprintf("Walking %s...", pkg))
			spinner.Start()

			res := walker.Walk(ctx, prov, pkg, walker.Options{
				Filter: walker.NewSubstringFilter(filter),
				Logger: logger.Warnf,
			})

			spinner.Stop()
			if spinner.Cancelled() {
				return ctx.Err()
			}
			prog.done(fmt.Sprintf("Walked %d packages", len(res.Visited)))

			rep := report.New(res, filter)

			if save {
				if err := saveReport(ctx, cfg, rep); err != nil {
					return err
				}
				printSuccess("Saved report %s", rep.ID)
			}

			return writeWalkOutput(rep, format, output, loadOrder, circular)
		},
	}

	cmd.Flags().StringVar(&repo, "repo", maven.DefaultRepository,
		"repository base URL (remote), directory (local), or fixture file path (fixture)")
	cmd.Flags().StringVarP(&mode, "mode", "m", modeRemote, "traversal mode: remote, local, or fixture")
	cmd.Flags().StringVar(&version, "version", "", "version for coordinates that do not declare one")
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "exclude packages whose id contains this substring (case-insensitive)")
	cmd.Flags().StringVar(&format, "format", formatText, "output format: text, json, dot, svg, or png")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write output to file instead of stdout")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (default ~/.config/depwalk/config.toml)")
	cmd.Flags().BoolVar(&loadOrder, "load-order", false, "print the dependencies-before-dependents load order")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the POM response cache")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "drop cached responses and refetch")
	cmd.Flags().BoolVar(&save, "save", false, "persist the report to the configured store")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick the version interactively from repository metadata")
	cmd.Flags().BoolVar(&circular, "circular", false, "use a circular layout for dot, svg, and png output")

	return cmd
}

// validateWalkInput checks the package identifier, mode, and format before
// any traversal starts.
func validateWalkInput(pkg, mode, format string) error {
	if err := dwerrors.ValidatePackageID(pkg); err != nil {
		return err
	}

	switch mode {
	case modeRemote, modeLocal:
		if _, err := maven.ParseCoordinate(pkg); err != nil {
			return err
		}
	case modeFixture:
	default:
		return dwerrors.New(dwerrors.ErrCodeInvalidMode,
			"unknown mode %q: expected remote, local, or fixture", mode)
	}

	switch format {
	case formatText, formatJSON, formatDOT, formatSVG, formatPNG:
	default:
		return dwerrors.New(dwerrors.ErrCodeInvalidFormat,
			"unknown format %q: expected text, json, dot, svg, or png", format)
	}
	return nil
}

// requireVersion ensures a Maven coordinate resolves to a concrete version,
// either declared inline or supplied as a default.
func requireVersion(pkg, version string) error {
	coord, err := maven.ParseCoordinate(pkg)
	if err != nil {
		return err
	}
	if coord.Version == "" && version == "" {
		return dwerrors.New(dwerrors.ErrCodeInvalidCoordinate,
			"coordinate %q has no version: declare one or pass --version", pkg)
	}
	return nil
}

// clearResponseCache drops every cached POM response so the next walk
// refetches from the repository. An empty dir selects the default cache
// directory.
func clearResponseCache(dir string) error {
	hc, err := httputil.NewCache(dir, 0)
	if err != nil {
		return err
	}
	return hc.Clear()
}

// buildProvider constructs the dependency provider for the given mode.
func buildProvider(mode, repo, version string, cacheTTL time.Duration) (walker.Provider, error) {
	switch mode {
	case modeRemote:
		return maven.NewRemote(repo, version, cacheTTL)
	case modeLocal:
		return maven.NewLocal(repo, version), nil
	case modeFixture:
		return fixture.Load(repo)
	default:
		return nil, dwerrors.New(dwerrors.ErrCodeInvalidMode, "unknown mode %q", mode)
	}
}

// saveReport persists the report to MongoDB when configured, falling back
// to an error when no store is reachable.
func saveReport(ctx context.Context, cfg Config, rep report.Report) error {
	if cfg.Mongo.URI == "" {
		return dwerrors.New(dwerrors.ErrCodeInvalidInput,
			"--save requires mongo.uri in the config file")
	}
	st, err := store.NewMongoStore(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		return err
	}
	defer st.Close(ctx)
	return st.Save(ctx, rep)
}

// writeWalkOutput renders the report in the requested format and writes it
// to the output file or stdout.
func writeWalkOutput(rep report.Report, format, output string, loadOrder, circular bool) error {
	switch format {
	case formatText:
		return writeTextOutput(rep, output, loadOrder)
	case formatJSON:
		data, err := report.Marshal(rep)
		if err != nil {
			return err
		}
		return writeOutput(output, append(data, '\n'))
	case formatDOT:
		dot := render.ToDOT(rep, render.Options{Circular: circular})
		return writeOutput(output, []byte(dot))
	case formatSVG:
		dot := render.ToDOT(rep, render.Options{Circular: circular})
		data, err := render.RenderSVG(dot)
		if err != nil {
			return err
		}
		return writeOutput(output, data)
	case formatPNG:
		dot := render.ToDOT(rep, render.Options{Circular: circular})
		data, err := render.RenderPNG(dot)
		if err != nil {
			return err
		}
		return writeOutput(output, data)
	}
	return dwerrors.New(dwerrors.ErrCodeInvalidFormat, "unknown format %q", format)
}

// writeTextOutput prints the human-readable report.
func writeTextOutput(rep report.Report, output string, loadOrder bool) error {
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := report.WriteEdges(f, rep); err != nil {
			return err
		}
		if err := report.WriteCycles(f, rep); err != nil {
			return err
		}
		printFile(output)
		return nil
	}

	printKeyValue("Package", rep.Package)
	if rep.Filter != "" {
		printKeyValue("Filter", rep.Filter)
	}
	printStats(len(rep.Nodes), len(rep.Edges), len(rep.Cycles), false)
	printNewline()

	if len(rep.Edges) == 0 {
		printInfo("no dependencies")
	} else {
		if err := report.WriteEdges(os.Stdout, rep); err != nil {
			return err
		}
	}

	if len(rep.Cycles) > 0 {
		printNewline()
		printWarning("%d cycle(s) detected", len(rep.Cycles))
		for _, cycle := range rep.Cycles {
			printCycle(strings.Join(cycle, " "+iconArrow+" "))
		}
	}

	if loadOrder {
		printNewline()
		fmt.Println(StyleTitle.Render("Load order"))
		for i, node := range rep.LoadOrder {
			fmt.Printf("%3d. %s\n", i+1, node)
		}
	}

	if len(rep.Warnings) > 0 {
		printNewline()
		for _, w := range rep.Warnings {
			printWarning("%s", w)
		}
	}
	return nil
}

// writeOutput writes data to the named file, or stdout when name is empty.
func writeOutput(name string, data []byte) error {
	if name == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return err
	}
	printFile(name)
	return nil
}
