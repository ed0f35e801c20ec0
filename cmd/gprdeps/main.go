// Command gprdeps analyzes a tree of GNAT project files and answers
// dependency questions about it: how big the resulting graph is, which
// source files share a name across projects, what a file imports, and the
// shortest path between any two things in the graph.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/briot/gprdeps/internal/build"
	"github.com/briot/gprdeps/internal/config"
	"github.com/briot/gprdeps/internal/display"
	gprerrors "github.com/briot/gprdeps/internal/errors"
	"github.com/briot/gprdeps/internal/graph"
	"github.com/briot/gprdeps/internal/logging"
	"github.com/briot/gprdeps/internal/query"
	"github.com/briot/gprdeps/internal/strintern"
	"github.com/briot/gprdeps/internal/suggest"
	"github.com/briot/gprdeps/internal/version"
)

// loadSettingsWithOverrides loads the merged on-disk settings and layers the
// global CLI flags on top, the same order the teacher's own config loader
// applies root/include/exclude overrides.
func loadSettingsWithOverrides(c *cli.Context) (config.Settings, error) {
	settings, err := config.Load(c.String("config"))
	if err != nil {
		return config.Settings{}, fmt.Errorf("failed to load config: %w", err)
	}

	if roots := c.StringSlice("root"); len(roots) > 0 {
		settings.Root = roots
	}
	if len(settings.Root) == 0 {
		settings.Root = []string{"."}
	}
	if exclude := c.StringSlice("exclude"); len(exclude) > 0 {
		settings.Exclude = append(settings.Exclude, exclude...)
	}
	if c.Bool("trim") {
		settings.Trim = true
	}
	if relTo := c.String("relto"); relTo != "" {
		absRelTo, err := filepath.Abs(relTo)
		if err != nil {
			return config.Settings{}, fmt.Errorf("failed to resolve --relto %q: %w", relTo, err)
		}
		settings.RelTo = absRelTo
	}
	return settings, nil
}

// buildEnvironment runs the full discover-parse-evaluate-scan pipeline and
// wraps the result for the read-only query actions.
func buildEnvironment(c *cli.Context) (*query.Environment, error) {
	settings, err := loadSettingsWithOverrides(c)
	if err != nil {
		return nil, err
	}

	tbl := strintern.New()
	env := build.New(tbl)
	if err := env.ParseAll(context.Background(), settings); err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}

	qenv := query.NewEnvironment(env.Graph, env.Scenarios, tbl)
	qenv.FileLang = env.FileLang
	qenv.Keepers = env.Keepers
	qenv.GPRs = env.GPRs()
	return qenv, nil
}

// withHint wraps a not-found error with a "did you mean" suggestion for
// target, drawn from every node of kind currently in the graph.
func withHint(qenv *query.Environment, err error, kind graph.NodeKind, target string) error {
	if !gprerrors.Is(err, gprerrors.KindNotFound) {
		return err
	}
	var candidates []string
	for i := 0; i < qenv.Graph.Len(); i++ {
		if n := qenv.Graph.Node(graph.NodeID(i)); n.Kind == kind {
			candidates = append(candidates, n.Path)
		}
	}
	if best, ok := suggest.Closest(target, candidates); ok {
		return fmt.Errorf("%w (did you mean %q?)", err, best)
	}
	return err
}

func statsCommand(c *cli.Context) error {
	qenv, err := buildEnvironment(c)
	if err != nil {
		return err
	}
	fmt.Print(display.FormatStats(qenv.Stats()))
	return nil
}

func duplicatesCommand(c *cli.Context) error {
	qenv, err := buildEnvironment(c)
	if err != nil {
		return err
	}
	fmt.Print(display.FormatDuplicates(qenv.Duplicates()))
	return nil
}

// importsCommand reports what a source file imports: one argument lists its
// (direct or, with --recursive, transitive) imports; two arguments report
// the shortest import chain between them.
func importsCommand(c *cli.Context) error {
	qenv, err := buildEnvironment(c)
	if err != nil {
		return err
	}
	switch c.NArg() {
	case 1:
		path := c.Args().First()
		files, err := qenv.Imported(path, c.Bool("recursive"))
		if err != nil {
			return withHint(qenv, err, graph.NodeSource, path)
		}
		fmt.Print(display.FormatFileList(files))
		return nil
	case 2:
		from, to := c.Args().Get(0), c.Args().Get(1)
		files, found, err := qenv.ImportPath(from, to)
		if err != nil {
			return withHint(qenv, err, graph.NodeSource, missingOf(qenv.Graph.FindSource, from, to))
		}
		fmt.Print(display.FormatImportPath(files, found))
		return nil
	default:
		return errors.New("usage: gprdeps imports [--recursive] <source-file> [<to-source-file>]")
	}
}

func unusedCommand(c *cli.Context) error {
	qenv, err := buildEnvironment(c)
	if err != nil {
		return err
	}
	fmt.Print(display.FormatFileList(qenv.Unused(c.StringSlice("ignore"))))
	return nil
}

func scenariosCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return errors.New("usage: gprdeps scenarios <project.gpr>")
	}
	qenv, err := buildEnvironment(c)
	if err != nil {
		return err
	}
	path := c.Args().First()
	out, err := qenv.Attributes(path)
	if err != nil {
		return withHint(qenv, err, graph.NodeProject, path)
	}
	fmt.Print(out)
	return nil
}

func versionCommand(c *cli.Context) error {
	fmt.Println(version.Version)
	return nil
}

func pathCommand(c *cli.Context) error {
	if c.NArg() < 2 {
		return errors.New("usage: gprdeps path [--show-units] [--show-ids] <from> <to>")
	}
	qenv, err := buildEnvironment(c)
	if err != nil {
		return err
	}
	from, to := c.Args().Get(0), c.Args().Get(1)
	steps, found, err := qenv.Path(from, to, c.Bool("show-units"))
	if err != nil {
		missing := missingOf(exists(qenv), from, to)
		if hinted := withHint(qenv, err, graph.NodeSource, missing); hinted != err {
			return hinted
		}
		return withHint(qenv, err, graph.NodeProject, missing)
	}
	fmt.Print(display.FormatPath(steps, found, c.Bool("show-ids")))
	return nil
}

// missingOf returns a when a does not satisfy exists, and b otherwise (so b
// when both resolve) — used to target a "did you mean" hint at the
// argument that actually failed to resolve.
func missingOf(exists func(string) (graph.NodeID, bool), a, b string) string {
	if _, ok := exists(a); !ok {
		return a
	}
	return b
}

// exists reports whether path names any node (project or source) currently
// in the graph, for missingOf's use by pathCommand, which accepts either.
func exists(qenv *query.Environment) func(string) (graph.NodeID, bool) {
	return func(path string) (graph.NodeID, bool) {
		if id, ok := qenv.Graph.FindSource(path); ok {
			return id, true
		}
		return qenv.Graph.FindProject(path)
	}
}

func main() {
	app := &cli.App{
		Name:                   "gprdeps",
		Usage:                  "analyze dependencies across a tree of GNAT project files",
		Version:                version.Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "directory to search for a .gprdeps.kdl config file",
				Value: ".",
			},
			&cli.StringSliceFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "root directory or project file to analyze (repeatable, overrides config)",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "additional doublestar glob pattern to skip during discovery (repeatable)",
			},
			&cli.BoolFlag{
				Name:  "trim",
				Usage: "drop attributes no longer needed once a project has been evaluated",
			},
			&cli.StringFlag{
				Name:  "relto",
				Usage: "directory every displayed path is made relative to",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "show progress and warnings on stderr",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("verbose") {
				logging.SetLevel(logging.LevelVerbose)
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:    "stats",
				Aliases: []string{"analyze"},
				Usage:   "print graph size statistics",
				Action:  statsCommand,
			},
			{
				Name:    "duplicates",
				Aliases: []string{"dups"},
				Usage:   "list source files sharing a basename across two different projects",
				Action:  duplicatesCommand,
			},
			{
				Name:  "imports",
				Usage: "list what a source file imports, or the shortest chain between two",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "recursive",
						Aliases: []string{"r"},
						Usage:   "follow the transitive closure instead of stopping at direct imports",
					},
				},
				Action: importsCommand,
			},
			{
				Name:   "scenarios",
				Usage:  "render a project's resolved attributes across every scenario that gives them a distinct value",
				Action: scenariosCommand,
			},
			{
				Name:   "version",
				Usage:  "print the gprdeps version",
				Action: versionCommand,
			},
			{
				Name:  "unused",
				Usage: "list source files whose unit nothing outside it ever imports",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:  "ignore",
						Usage: "path prefix to treat as always used, e.g. a vendored third-party tree (repeatable)",
					},
				},
				Action: unusedCommand,
			},
			{
				Name:  "path",
				Usage: "shortest path between any two nodes (projects, units or source files)",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "show-units",
						Usage: "include the unit hops the path passes through",
					},
					&cli.BoolFlag{
						Name:  "show-ids",
						Usage: "annotate each hop with its base63-encoded graph node id",
					},
				},
				Action: pathCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "gprdeps: %v\n", err)
		os.Exit(1)
	}
}
