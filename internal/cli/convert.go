package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aretw0/corpus"
	"github.com/aretw0/corpus/internal/presentation/tui"
	"github.com/aretw0/corpus/pkg/convert"
	"github.com/aretw0/corpus/pkg/formats"
	"github.com/aretw0/corpus/pkg/ports"
)

// Streams groups the standard streams of a command.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// ConvertOptions contains the configuration of the convert command.
type ConvertOptions struct {
	Format   string
	Data     string
	Out      string // Empty or "-" writes to stdout
	Encoding string
	Params   []string
	Progress bool
	Quiet    bool
}

// ParseParams turns repeated key=value flags into factory parameters.
func ParseParams(pairs []string) (ports.Params, error) {
	p := ports.Params{}
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid parameter %q: expected key=value", pair)
		}
		if k == formats.ParamReader {
			return nil, fmt.Errorf("parameter %q is not allowed", k)
		}
		p[k] = v
	}
	return p, nil
}

// RunConvert converts opts.Data into the native format.
func RunConvert(cfg Config, opts ConvertOptions, std Streams) (convert.Result, error) {
	p, err := ParseParams(opts.Params)
	if err != nil {
		return convert.Result{}, err
	}
	p[formats.ParamData] = opts.Data
	if opts.Data == formats.StdinPath && std.In != nil {
		p[formats.ParamReader] = std.In
	}
	if opts.Encoding != "" {
		p[formats.ParamEncoding] = opts.Encoding
	}

	var extra []corpus.Option
	if opts.Progress && IsTerminal(std.Err) {
		extra = append(extra, corpus.WithConversionHooks(NewProgress(std.Err).Hooks()))
	}

	kit, closeStore, err := cfg.NewToolkit(extra...)
	if err != nil {
		return convert.Result{}, err
	}
	defer func() { _ = closeStore() }()

	var res convert.Result
	if opts.Out == "" || opts.Out == "-" {
		res, err = kit.Convert(opts.Format, p, std.Out)
	} else {
		res, err = kit.ConvertFile(opts.Format, p, opts.Out)
	}
	if err != nil {
		return res, err
	}

	if !opts.Quiet {
		target := opts.Out
		if target == "" || target == "-" {
			target = "stdout"
		}
		st := tui.NewStyler(std.Err)
		fmt.Fprintf(std.Err, "%s %s\n",
			st.Success(fmt.Sprintf("converted %d %s samples to %s", res.Samples, res.Format, target)),
			st.Muted(fmt.Sprintf("(%s, run %s)", res.Duration.Round(time.Millisecond), res.RunID)))
	}
	return res, nil
}

// PrintFormats lists the registered formats, rendered as markdown on terminals.
func PrintFormats(kit *corpus.Toolkit, w io.Writer) error {
	render := tui.NewRenderer(!IsTerminal(w))
	out, err := render(tui.FormatsTable(kit.Formats(), kit.Describe))
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
