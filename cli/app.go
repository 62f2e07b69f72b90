// Package cli contains the mvsview command line application for inspecting and transforming
// calibrated camera views.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

const (
	flagConfig    = "config"
	flagLogLevel  = "log-level"
	flagPoint     = "point"
	flagPixel     = "pixel"
	flagZ         = "z"
	flagTurns     = "turns"
	flagOutput    = "output"
	flagFactor    = "factor"
	flagMaxWidth  = "max-width"
	flagMaxHeight = "max-height"
	flagWithImage = "with-image"
)

var app = &cli.App{
	Name:            "mvsview",
	Usage:           "inspect and transform calibrated camera views",
	HideHelpCommand: true,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    flagConfig,
			Aliases: []string{"c"},
			Usage:   "load the camera view from `FILE`",
		},
		&cli.StringFlag{
			Name:  flagLogLevel,
			Value: "info",
			Usage: "one of debug, info, warn or error",
		},
	},
	Commands: []*cli.Command{
		{
			Name:   "info",
			Usage:  "print the calibration, projection matrices and projection center of a view",
			Action: InfoAction,
		},
		{
			Name:      "depth",
			Usage:     "print the depth of world points in a view",
			UsageText: "mvsview --config view.json depth --point x,y,z [--point x,y,z ...]",
			Flags: []cli.Flag{
				&cli.Float64SliceFlag{
					Name:     flagPoint,
					Aliases:  []string{"p"},
					Usage:    "world point as x,y,z; repeat for more points",
					Required: true,
				},
			},
			Action: DepthAction,
		},
		{
			Name:      "unproject",
			Usage:     "print the world point seen at a pixel at a given distance along the optical axis",
			UsageText: "mvsview --config view.json unproject --pixel u,v --z 2.5",
			Flags: []cli.Flag{
				&cli.Float64SliceFlag{
					Name:     flagPixel,
					Usage:    "image point as u,v",
					Required: true,
				},
				&cli.Float64Flag{
					Name:     flagZ,
					Usage:    "distance in front of the camera along its optical axis",
					Required: true,
				},
			},
			Action: UnprojectAction,
		},
		{
			Name:  "rotate",
			Usage: "print the calibration of a view after quarter turns of its image",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  flagTurns,
					Value: 1,
					Usage: "number of counter-clockwise quarter turns, may be negative",
				},
				&cli.StringFlag{
					Name:      flagOutput,
					Usage:     "write the rotated view to `FILE`",
					TakesFile: true,
				},
			},
			Action: RotateAction,
		},
		{
			Name:  "rescale",
			Usage: "resize a view and optionally its image",
			Flags: []cli.Flag{
				&cli.Float64Flag{
					Name:  flagFactor,
					Usage: "uniform scale factor",
				},
				&cli.IntFlag{
					Name:  flagMaxWidth,
					Usage: "shrink until the width is at most this many pixels",
				},
				&cli.IntFlag{
					Name:  flagMaxHeight,
					Usage: "shrink until the height is at most this many pixels",
				},
				&cli.StringFlag{
					Name:      flagOutput,
					Usage:     "write the rescaled view to `FILE`",
					TakesFile: true,
					Required:  true,
				},
				&cli.BoolFlag{
					Name:  flagWithImage,
					Usage: "also resample the image the view refers to and write it next to the output",
				},
			},
			Action: RescaleAction,
		},
	},
}

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	app.Writer = out
	app.ErrWriter = errOut
	return app
}
