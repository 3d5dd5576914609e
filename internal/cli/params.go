package cli

import (
	"fmt"
	"io"

	"github.com/aretw0/corpus/internal/presentation/tui"
)

// ParamsOptions contains the configuration of the params commands.
type ParamsOptions struct {
	Path     string
	Sequence bool
}

// ValidateParams loads and validates a parameters file.
func ValidateParams(cfg Config, opts ParamsOptions, std Streams) error {
	kit, closeStore, err := cfg.NewToolkit()
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	p, err := kit.LoadParams(opts.Path, opts.Sequence)
	if err != nil {
		return err
	}

	st := tui.NewStyler(std.Out)
	name := opts.Path
	if name == "" {
		name = "defaults"
	}
	fmt.Fprintf(std.Out, "%s\n", st.Success(fmt.Sprintf("%s: valid (%d settings, algorithm %s)", name, p.Len(), p.Algorithm())))
	return nil
}

// ShowParams prints the effective parameters, rendered as markdown on terminals.
func ShowParams(cfg Config, opts ParamsOptions, std Streams) error {
	kit, closeStore, err := cfg.NewToolkit()
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	p, err := kit.LoadParams(opts.Path, opts.Sequence)
	if err != nil {
		return err
	}

	if !IsTerminal(std.Out) {
		_, err = io.WriteString(std.Out, p.String())
		return err
	}
	title := opts.Path
	if title == "" {
		title = "Default training parameters"
	}
	out, err := tui.NewRenderer(false)(tui.SettingsTable(title, p.Settings()))
	if err != nil {
		return err
	}
	_, err = io.WriteString(std.Out, out)
	return err
}
