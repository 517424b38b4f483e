package main

import (
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/bodgit/mandelbrot"
	"github.com/bodgit/mandelbrot/fixed"
	"github.com/bodgit/mandelbrot/frame"
	"github.com/bodgit/mandelbrot/image"
	"github.com/bodgit/mandelbrot/trace"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

const (
	defaultOutput = "modelOutput.txt"
	defaultDB     = "mandelbrot.db"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(ioutil.Discard)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
		logger.SetLevel(logrus.DebugLevel)
	}
	if c.Bool("trace-iterations") {
		logger.SetOutput(os.Stderr)
		logger.SetLevel(logrus.TraceLevel)
	}
	return logger
}

func openDB(c *cli.Context) (*mandelbrot.RunDB, error) {
	if c.String("db") == "" {
		return nil, nil
	}
	return mandelbrot.NewRunDB(c.String("db"))
}

func newConfig(c *cli.Context) (mandelbrot.Config, error) {
	config := mandelbrot.DefaultConfig()
	config.Register = fixed.Format{Width: c.Uint("register-width"), Frac: c.Uint("register-frac")}
	config.Input = fixed.Format{Width: c.Uint("input-width"), Frac: c.Uint("input-frac")}
	config.StepFrac = c.Uint("step-frac")
	config.Width = c.Int("width")
	config.Height = c.Int("height")
	config.Workers = c.Int("workers")
	config.Strict = c.Bool("strict")

	policy, err := mandelbrot.ParsePolicy(c.String("policy"))
	if err != nil {
		return config, err
	}
	config.Policy = policy

	return config, config.Validate()
}

func writeFile(file string, fn func(io.Writer) error) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func frameWriter(c *cli.Context) mandelbrot.FrameFunc {
	images, dump := c.String("images"), c.String("dump")
	format, colors := c.String("format"), c.Int("colors")

	return func(i int, f *mandelbrot.Frame) error {
		if images != "" {
			if err := os.MkdirAll(images, 0755); err != nil {
				return err
			}
			name := filepath.Join(images, fmt.Sprintf("frame%03d.%s", i, format))
			if err := writeFile(name, func(w io.Writer) error {
				if format == "gif" {
					return image.EncodeGIF(w, f.Buffer, colors)
				}
				return image.EncodePNG(w, f.Buffer)
			}); err != nil {
				return err
			}
		}
		if dump != "" {
			if err := os.MkdirAll(dump, 0755); err != nil {
				return err
			}
			b, err := f.Buffer.MarshalBinary()
			if err != nil {
				return err
			}
			if err := ioutil.WriteFile(filepath.Join(dump, fmt.Sprintf("frame%03d%s", i, frame.Extension)), b, 0644); err != nil {
				return err
			}
		}
		fmt.Printf("frame %d: %08X\n", i, f.Signature)
		return nil
	}
}

func readTrace(file string) ([]trace.Frame, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return trace.Read(f)
}

func main() {
	app := cli.NewApp()

	app.Name = "mandelbrot"
	app.Usage = "Mandelbrot accelerator functional model"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"MANDELBROT_DB"},
			Usage:   "path to run database, e.g. " + filepath.Join(cwd, defaultDB),
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
		&cli.BoolFlag{
			Name:  "trace-iterations",
			Usage: "log every iteration step",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "run",
			Usage:       "Run test vectors and write the bus trace",
			Description: "",
			ArgsUsage:   "FILE",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Value:   defaultOutput,
					Usage:   "trace output file",
				},
				&cli.StringFlag{
					Name:  "images",
					Usage: "directory to render frames into",
				},
				&cli.StringFlag{
					Name:  "format",
					Value: "png",
					Usage: "image format, png or gif",
				},
				&cli.IntFlag{
					Name:  "colors",
					Value: image.DefaultColors,
					Usage: "gif palette size",
				},
				&cli.StringFlag{
					Name:  "dump",
					Usage: "directory to dump raw frame buffers into",
				},
				&cli.StringFlag{
					Name:    "policy",
					EnvVars: []string{"MANDELBROT_POLICY"},
					Value:   mandelbrot.PolicyBlackInterior.String(),
					Usage:   "interior pixel policy, black or raw",
				},
				&cli.IntFlag{
					Name:    "workers",
					Aliases: []string{"j"},
					EnvVars: []string{"MANDELBROT_WORKERS"},
					Value:   1,
					Usage:   "pixels evaluated concurrently",
				},
				&cli.BoolFlag{
					Name:  "strict",
					Usage: "fail if a signature differs from the recorded run",
				},
				&cli.UintFlag{
					Name:  "register-width",
					Value: fixed.Register.Width,
					Usage: "internal register width",
				},
				&cli.UintFlag{
					Name:  "register-frac",
					Value: fixed.Register.Frac,
					Usage: "internal register fractional bits",
				},
				&cli.UintFlag{
					Name:  "input-width",
					Value: fixed.Input.Width,
					Usage: "starting coordinate width",
				},
				&cli.UintFlag{
					Name:  "input-frac",
					Value: fixed.Input.Frac,
					Usage: "starting coordinate fractional bits",
				},
				&cli.UintFlag{
					Name:  "step-frac",
					Value: fixed.StepFrac,
					Usage: "step fractional bits",
				},
				&cli.IntFlag{
					Name:  "width",
					Value: 640,
					Usage: "screen width if not given by a vector",
				},
				&cli.IntFlag{
					Name:  "height",
					Value: 480,
					Usage: "screen height if not given by a vector",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				switch c.String("format") {
				case "png", "gif":
				default:
					return cli.NewExitError(fmt.Sprintf("unknown image format %q", c.String("format")), 1)
				}

				logger := newLogger(c)

				config, err := newConfig(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				db, err := openDB(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				if db != nil {
					defer db.Close()
				}

				m, err := mandelbrot.New(config, db, logger)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				if c.Bool("trace-iterations") {
					m.SetTracer(mandelbrot.NewLogTracer(logger, config.Register))
				}

				in, err := os.Open(c.Args().First())
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer in.Close()

				if err := writeFile(c.String("output"), func(w io.Writer) error {
					return m.Process(in, w, frameWriter(c))
				}); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "diff",
			Usage:       "Compare a simulation trace against a model trace",
			Description: "",
			ArgsUsage:   "WANT GOT",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "limit",
					Value: 20,
					Usage: "maximum number of differences reported, 0 for all",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				want, err := readTrace(c.Args().Get(0))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				got, err := readTrace(c.Args().Get(1))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				mismatches := trace.Diff(want, got, c.Int("limit"))
				for _, m := range mismatches {
					fmt.Println(m)
				}
				if len(mismatches) > 0 {
					return cli.NewExitError("traces differ", 2)
				}

				return nil
			},
		},
		{
			Name:        "runs",
			Usage:       "List recorded runs",
			Description: "",
			Action: func(c *cli.Context) error {
				db, err := openDB(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				if db == nil {
					return cli.NewExitError("no database given", 1)
				}
				defer db.Close()

				runs, err := db.Runs()
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				for _, r := range runs {
					v := r.Vector
					fmt.Printf("%d\t%s\t%d %04x %04x %08x %dx%d\t%08X\t%s\n", r.ID, r.Created.Format("2006-01-02 15:04:05"), v.MaxIterations, v.CReal, v.CImag, v.StepReal, v.Width, v.Height, r.Signature, r.Config)
				}

				return nil
			},
		},
		{
			Name:        "dump",
			Usage:       "Render the frame of a recorded run",
			Description: "",
			ArgsUsage:   "ID FILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				id, err := strconv.ParseInt(c.Args().Get(0), 10, 64)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				db, err := openDB(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				if db == nil {
					return cli.NewExitError("no database given", 1)
				}
				defer db.Close()

				fb, err := db.FindFrame(id)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				if fb == nil {
					return cli.NewExitError(fmt.Sprintf("no run %d", id), 1)
				}

				if err := writeFile(c.Args().Get(1), func(w io.Writer) error {
					return image.EncodePNG(w, fb)
				}); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
