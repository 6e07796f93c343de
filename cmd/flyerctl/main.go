// Command flyerctl renders flyers without the web UI: it lists the template
// catalog and turns an event YAML file into PDF, image and calendar files.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"flyerly/internal/catalog"
	"flyerly/internal/compose"
	"flyerly/internal/config"
	"flyerly/internal/flyer"
	"flyerly/internal/imaging"
	"flyerly/internal/session"
)

// localSession is the id of the single in-process session flyerctl edits.
const localSession = "flyerctl"

func main() {
	if err := config.LoadEnvFile(); err != nil {
		slog.Error("failed to read .env file", "error", err)
		os.Exit(1)
	}

	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		slog.Error("flyerctl failed", "error", err)
		os.Exit(1)
	}
}

func newApp(stdout io.Writer) *cli.App {
	return &cli.App{
		Name:   "flyerctl",
		Usage:  "Render event flyers from the command line.",
		Writer: stdout,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Value: "info", EnvVars: []string{"LOG_LEVEL"}, Usage: "debug, info, warn or error"},
			&cli.StringFlag{Name: "catalog", Usage: "template catalog YAML (default: built-in)"},
		},
		Before: func(c *cli.Context) error {
			var level slog.Level
			if err := level.UnmarshalText([]byte(c.String("log-level"))); err != nil {
				return fmt.Errorf("invalid log level %q", c.String("log-level"))
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			return nil
		},
		Commands: []*cli.Command{
			templatesCommand(),
			renderCommand(),
		},
	}
}

func templatesCommand() *cli.Command {
	return &cli.Command{
		Name:  "templates",
		Usage: "List the flyer templates.",
		Action: func(c *cli.Context) error {
			cat, err := loadCatalog(c.String("catalog"))
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tDESCRIPTION")
			for _, t := range cat.All() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.ID, t.Name, t.Category, t.Description)
			}
			return tw.Flush()
		},
	}
}

func renderCommand() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "Render a flyer from an event file.",
		ArgsUsage: "EVENT.yaml",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "template", Aliases: []string{"t"}, Usage: "apply a catalog template before the event fields"},
			&cli.StringFlag{Name: "image", Aliases: []string{"i"}, Usage: "image file to put on the flyer"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: ".", Usage: "output directory"},
			&cli.StringSliceFlag{Name: "format", Aliases: []string{"f"}, Value: cli.NewStringSlice("pdf"), Usage: "pdf, ics, or an image format (png, jpg, jpeg, webp, gif)"},
			&cli.StringFlag{Name: "timezone", Value: "Local", EnvVars: []string{"FLYER_TIMEZONE"}, Usage: "zone for dates without an offset"},
			&cli.BoolFlag{Name: "calendar-qr", EnvVars: []string{"FLYER_CALENDAR_QR"}, Usage: "stamp an add-to-calendar QR code on the PDF"},
			&cli.DurationFlag{Name: "decode-timeout", Value: compose.DefaultDecodeTimeout, Usage: "image decode limit for the PDF"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("render needs exactly one EVENT.yaml argument", 2)
			}
			loc, err := time.LoadLocation(c.String("timezone"))
			if err != nil {
				return fmt.Errorf("invalid timezone %q: %w", c.String("timezone"), err)
			}
			cat, err := loadCatalog(c.String("catalog"))
			if err != nil {
				return err
			}
			ev, err := readEvent(c.Args().First())
			if err != nil {
				return err
			}
			if t := c.String("template"); t != "" {
				ev.Template = t
			}
			if p := c.String("image"); p != "" {
				ev.Image = p
			}

			snap, err := buildSnapshot(c.Context, cat, loc, ev)
			if err != nil {
				return err
			}

			exporter := compose.NewExporter(compose.Options{
				Location:      loc,
				DecodeTimeout: c.Duration("decode-timeout"),
				CalendarQR:    c.Bool("calendar-qr"),
			})
			return writeArtifacts(c.Context, exporter, snap, c.String("out"), c.StringSlice("format"), c.App.Writer)
		},
	}
}

// eventFile is the YAML shape read by render. Absent fields keep the value
// from the template, or the seed value without one.
type eventFile struct {
	Template    string  `yaml:"template"`
	Name        *string `yaml:"name"`
	Description *string `yaml:"description"`
	Date        *string `yaml:"date"`
	Location    *string `yaml:"location"`
	Tagline     *string `yaml:"tagline"`
	Image       string  `yaml:"image"`
}

func readEvent(path string) (eventFile, error) {
	var ev eventFile
	data, err := os.ReadFile(path)
	if err != nil {
		return ev, fmt.Errorf("read event file: %w", err)
	}
	if err := yaml.Unmarshal(data, &ev); err != nil {
		return ev, fmt.Errorf("parse event file %s: %w", path, err)
	}
	if ev.Image != "" && !filepath.IsAbs(ev.Image) {
		ev.Image = filepath.Join(filepath.Dir(path), ev.Image)
	}
	return ev, nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return catalog.Parse(data)
}

// buildSnapshot replays ev as session commands, the same way the editor
// applies them.
func buildSnapshot(ctx context.Context, cat *catalog.Catalog, loc *time.Location, ev eventFile) (flyer.Snapshot, error) {
	mgr := session.NewManager(session.NewMemoryStore(time.Hour), cat, session.Options{Location: loc})
	n := logNotifier{}

	var cmds []session.Command
	if ev.Template != "" {
		cmds = append(cmds, session.ApplyTemplate{ID: ev.Template})
	}
	fields := []struct {
		field flyer.Field
		value *string
	}{
		{flyer.FieldName, ev.Name},
		{flyer.FieldDescription, ev.Description},
		{flyer.FieldDate, ev.Date},
		{flyer.FieldLocation, ev.Location},
	}
	for _, f := range fields {
		if f.value != nil {
			cmds = append(cmds, session.UpdateField{Field: f.field, Value: *f.value})
		}
	}
	if ev.Tagline != nil {
		cmds = append(cmds, session.SetTagline{Text: *ev.Tagline})
	}
	if ev.Image != "" {
		img, err := loadImage(ev.Image)
		if err != nil {
			return flyer.Snapshot{}, err
		}
		cmds = append(cmds, session.SetImage{Image: img})
	}

	snap, err := mgr.Snapshot(ctx, localSession)
	if err != nil {
		return flyer.Snapshot{}, err
	}
	for _, cmd := range cmds {
		if snap, err = mgr.Apply(ctx, localSession, cmd, n); err != nil {
			return flyer.Snapshot{}, fmt.Errorf("%s: %w", cmd.Name(), err)
		}
	}
	return snap, nil
}

func loadImage(path string) (flyer.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return flyer.Image{}, fmt.Errorf("read image: %w", err)
	}
	info, err := imaging.Inspect(data)
	if err != nil {
		return flyer.Image{}, fmt.Errorf("image %s: %w", path, err)
	}
	return flyer.NewImage(flyer.ImageUploaded, info.ContentType, data), nil
}

// writeArtifacts exports snap once per format into dir and prints the
// written paths.
func writeArtifacts(ctx context.Context, x *compose.Exporter, snap flyer.Snapshot, dir string, formats []string, stdout io.Writer) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	n := logNotifier{}
	for _, format := range formats {
		var (
			art compose.Artifact
			err error
		)
		switch f := strings.ToLower(strings.TrimSpace(format)); f {
		case "pdf":
			art, err = x.Document(ctx, snap, n)
		case "ics":
			art, err = x.Calendar(snap, n)
		default:
			art, err = x.Image(snap, f, n)
		}
		if err != nil {
			return fmt.Errorf("export %s: %w", format, err)
		}

		path := filepath.Join(dir, art.Filename)
		if err := os.WriteFile(path, art.Data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Fprintln(stdout, path)
	}
	return nil
}

// logNotifier turns notices into log lines.
type logNotifier struct{}

func (logNotifier) Notify(n flyer.Notice) {
	switch n.Level {
	case flyer.LevelError:
		slog.Warn(n.Title, "detail", n.Message)
	default:
		slog.Info(n.Title, "detail", n.Message)
	}
}
