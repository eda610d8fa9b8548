package root

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"vindecoder/internal/displayer"
	"vindecoder/internal/session"
	"vindecoder/internal/vpic"
	"vindecoder/internal/vpic/mock"
	"vindecoder/pkg/log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const defaultOutput = "vin_report.html"

// Options are the settings the root command acts on, read from viper.
type Options struct {
	VIN       string
	ModelYear string
	Output    string
	NoTUI     bool
}

func Run(cmd *cobra.Command, args []string) error {
	opts := Options{
		VIN:       viper.GetString("vin"),
		ModelYear: viper.GetString("model-year"),
		Output:    viper.GetString("output"),
		NoTUI:     viper.GetBool("no-tui"),
	}

	var decoder vpic.Decoder
	if viper.GetBool("mock") {
		log.Info("using mock decoder")
		decoder = mock.New()
	} else {
		decoder = vpic.New(viper.GetDuration("timeout"), vpic.WithBaseURL(viper.GetString("base-url")))
	}
	s := session.New(decoder)

	if opts.NoTUI {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return printSummary(ctx, s, opts, cmd.OutOrStdout())
	}

	output := opts.Output
	if output == "" {
		output = defaultOutput
	}
	d := displayer.New(s, output)
	if err := d.Run(); err != nil {
		log.Error("TUI exited with error", zap.Error(err))
		return err
	}
	return nil
}

// printSummary decodes opts.VIN, prints the text view to w and, when an output
// path is set, exports the HTML report.
func printSummary(ctx context.Context, s *session.Session, opts Options, w io.Writer) error {
	result, err := s.Decode(ctx, opts.VIN, opts.ModelYear)
	if err != nil {
		if errors.Is(err, session.ErrEmptyVIN) {
			return fmt.Errorf("%w (use --vin)", err)
		}
		return err
	}

	fmt.Fprintf(w, "Decoded information for %s:\n", s.VIN())
	fmt.Fprint(w, session.FormatText(result))
	if len(result) == 0 {
		fmt.Fprintln(w)
	}

	if opts.Output == "" {
		return nil
	}
	path, err := s.Export(opts.Output)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Report saved to %s\n", path)
	return nil
}
