package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"cmdvault/template"
)

var errMissingValue = errors.New("missing placeholder value")

func newExecCmd(a *app) *cobra.Command {
	var printOnly bool

	cmd := &cobra.Command{
		Use:     "exec <id> [name=value...]",
		Aliases: []string{"x", "copy"},
		Short:   "Fill in a command's placeholders and copy it",
		Long: `Resolve the {placeholders} of a command and copy the result to the
clipboard. Values given as name=value (or {name}=value, for names that
contain "=") are used as-is; the rest are asked for on the terminal. End
input (Ctrl-D) to cancel.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			given, err := parseValues(args[1:])
			if err != nil {
				return err
			}
			v, err := a.open()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			p := &linePrompter{
				given:       given,
				in:          bufio.NewReader(cmd.InOrStdin()),
				out:         cmd.ErrOrStderr(),
				interactive: stdinIsTerminal(cmd),
			}
			text, ok, err := v.Run(ctx, id, p)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.ErrOrStderr(), warnStyle.Render("Cancelled."))
				return nil
			}

			a.log.Info("command resolved", "id", id, "print", printOnly)
			if printOnly {
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return nil
			}
			if err := a.clip.WriteAll(text); err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), successStyle.Render("Copied:"), text)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&printOnly, "print", "p", false, "Print the result instead of copying it")
	return cmd
}

// linePrompter answers from given first, then reads one line per
// placeholder. Without a terminal, unanswered placeholders are an error.
type linePrompter struct {
	given       map[string]string
	in          *bufio.Reader
	out         io.Writer
	interactive bool
}

func (p *linePrompter) Prompt(ctx context.Context, req template.Request) (string, error) {
	if v, ok := p.given[req.Name]; ok {
		return v, nil
	}
	if !p.interactive {
		return "", fmt.Errorf("%w: {%s}", errMissingValue, req.Name)
	}

	fmt.Fprintf(p.out, "%s\n%s (%d/%d): ",
		subtitleStyle.Render(req.Preview), titleStyle.Render(req.Name), req.Index+1, req.Total)

	type answer struct {
		line string
		err  error
	}
	// On cancel the reader stays blocked in ReadString until the process
	// exits; exec is one-shot and never reads stdin again.
	ch := make(chan answer, 1)
	go func() {
		line, err := p.in.ReadString('\n')
		ch <- answer{line, err}
	}()

	select {
	case <-ctx.Done():
		fmt.Fprintln(p.out)
		return "", template.ErrCancelled
	case a := <-ch:
		switch {
		case a.err == nil, errors.Is(a.err, io.EOF) && a.line != "":
			return strings.TrimRight(a.line, "\r\n"), nil
		case errors.Is(a.err, io.EOF):
			fmt.Fprintln(p.out)
			return "", template.ErrCancelled
		default:
			return "", a.err
		}
	}
}

// stdinIsTerminal reports whether the command reads from a terminal. Input
// set through cmd.SetIn is treated as interactive.
func stdinIsTerminal(cmd *cobra.Command) bool {
	if f, ok := cmd.InOrStdin().(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return true
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// parseValues turns name=value arguments into a map. A name may be written
// with or without braces; the braced form ends at "}=", so it can hold
// names that contain "=".
func parseValues(args []string) (map[string]string, error) {
	values := make(map[string]string, len(args))
	for _, arg := range args {
		var name, value string
		var ok bool
		if strings.HasPrefix(arg, "{") {
			name, value, ok = strings.Cut(arg[1:], "}=")
		} else {
			name, value, ok = strings.Cut(arg, "=")
		}
		if !ok || name == "" {
			return nil, fmt.Errorf("expected name=value or {name}=value, got %q", arg)
		}
		values[name] = value
	}
	return values, nil
}
