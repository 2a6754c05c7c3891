// Package cli implements the command-line interface.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"cmdvault/clip"
	"cmdvault/config"
	"cmdvault/db"
	"cmdvault/present"
	"cmdvault/seed"
	"cmdvault/template"
	"cmdvault/vault"
)

// app carries flag values and the resources opened for one invocation.
type app struct {
	configPath string
	dbPath     string
	driver     string
	quitOnCopy bool

	cfg   *config.Config
	log   *slog.Logger
	logFd io.Closer
	store *db.DB
	vault *vault.Vault
	clip  clip.Clipboard
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "cmdvault",
		Short: "A personal library of operational commands",
		Long: `cmdvault keeps the commands you keep looking up: networking, Linux,
virtualization, automation. Search them, fill in {placeholders} and copy
the result to the clipboard.

Run without arguments to open the interactive launcher.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isatty.IsTerminal(os.Stdin.Fd()) || !isatty.IsTerminal(os.Stdout.Fd()) {
				return cmd.Help()
			}
			return a.runTUI()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to config file")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "Path to the vault database (overrides config)")
	root.PersistentFlags().StringVar(&a.driver, "driver", "", "SQLite driver: sqlite3 or sqlite (overrides config)")
	root.Flags().BoolVarP(&a.quitOnCopy, "quit", "q", false, "Exit the launcher after copying a command")

	root.AddCommand(
		newQueryCmd(a),
		newExecCmd(a),
		newShowCmd(a),
		newAddCmd(a),
		newEditCmd(a),
		newRmCmd(a),
		newDupCmd(a),
		newFavCmd(a),
		newResetCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newFlowCmd(a),
		newMCPCmd(a),
		newConfigCmd(a),
	)
	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	a := &app{}
	root := newRootCmd(a)
	root.SetArgs(hostArgs(os.Args[1:]))
	err := root.Execute()
	if err != nil && a.log != nil {
		a.log.Error("command failed", "error", err)
	}
	a.close()

	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error:"), userMessage(err))
		return 1
	}
	return 0
}

// hostArgs routes a bare JSON-RPC request, the way Flow Launcher starts
// plugins, to the flow command.
func hostArgs(args []string) []string {
	if len(args) > 0 && strings.HasPrefix(strings.TrimSpace(args[0]), "{") {
		return append([]string{"flow"}, args...)
	}
	return args
}

func (a *app) setup() error {
	var err error
	switch {
	case strings.TrimSpace(a.configPath) == "":
		a.cfg, err = config.Load()
	case !exists(a.configPath):
		// config init creates it
		a.cfg = config.Default()
	default:
		a.cfg, err = config.LoadFrom(a.configPath)
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if a.dbPath != "" {
		a.cfg.Database.Path = a.dbPath
	}
	if a.driver != "" {
		a.cfg.Database.Driver = a.driver
		if err := a.cfg.Validate(); err != nil {
			return err
		}
	}

	a.log, a.logFd = openLog(a.cfg)
	slog.SetDefault(a.log)
	if a.clip == nil {
		a.clip = clip.System{}
	}
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// open opens the vault and seeds it on first use.
func (a *app) open() (*vault.Vault, error) {
	if a.vault != nil {
		return a.vault, nil
	}

	path := a.cfg.DatabasePath()
	if path == "" {
		var err error
		if path, err = db.DefaultPath(); err != nil {
			return nil, fmt.Errorf("%w: %w", db.ErrStorageUnavailable, err)
		}
	}

	store, err := db.Open(path, a.cfg.Database.Driver)
	if err != nil {
		return nil, err
	}
	a.store = store
	a.log.Debug("vault opened", "path", path, "driver", a.cfg.Database.Driver)

	if err := a.seedIfEmpty(); err != nil {
		return nil, err
	}

	engine := template.New(a.cfg.Template.IdentifiersOnly)
	a.vault = vault.New(store, vault.Options{
		MinTokenLength: a.cfg.Search.MinTokenLength,
		Engine:         engine,
		Presenter:      present.New(a.cfg.Display.FavoriteMarker, a.cfg.Display.CategoryPrefixes, engine),
		Suggestions:    a.cfg.Search.Suggestions,
	})
	return a.vault, nil
}

func (a *app) seedIfEmpty() error {
	seeded, err := a.store.Seeded()
	if err != nil || seeded {
		return err
	}
	count, err := a.store.Count()
	if err != nil || count > 0 {
		return err
	}

	commands, err := seed.Load(a.cfg.CatalogPath())
	if err != nil {
		return err
	}
	if err := a.store.Reset(commands); err != nil {
		return err
	}
	a.log.Info("vault seeded", "commands", len(commands), "catalog", a.cfg.CatalogPath())
	return nil
}

func (a *app) close() {
	if a.store != nil {
		a.store.Close()
	}
	if a.logFd != nil {
		a.logFd.Close()
	}
}
