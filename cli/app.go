package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

const (
	debugFlag         = "debug"
	configFlag        = "config"
	cameraFlag        = "camera"
	inputFlag         = "input"
	outputFlag        = "output"
	fitFlag           = "fit"
	widthFlag         = "width"
	heightFlag        = "height"
	edgeFlag          = "edge"
	edgeColorFlag     = "edge-color"
	interpolationFlag = "interpolation"
	spacingFlag       = "spacing"
	labelsFlag        = "labels"
)

var app = &cli.App{
	Name:            "camxform",
	Usage:           "resample images between camera models",
	HideHelpCommand: true,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    debugFlag,
			Aliases: []string{"vvv"},
			Usage:   "enable debug logging",
		},
	},
	Before: setupLogging,
	Commands: []*cli.Command{
		{
			Name:      "warp",
			Usage:     "resample an image from the source camera of a job into its destination camera",
			UsageText: "camxform warp --config <job.json> --input <in.png> --output <out.png> [other options]",
			Flags: []cli.Flag{
				&cli.PathFlag{
					Name:     configFlag,
					Aliases:  []string{"c"},
					Required: true,
					Usage:    "job configuration `FILE`",
				},
				&cli.PathFlag{
					Name:     inputFlag,
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "image taken by the source camera",
				},
				&cli.PathFlag{
					Name:     outputFlag,
					Aliases:  []string{"o"},
					Required: true,
					Usage:    "where to write the resampled image; the extension picks the format",
				},
				&cli.BoolFlag{
					Name:  fitFlag,
					Usage: "size the output to hold the whole transformed input",
				},
				&cli.IntFlag{
					Name:  widthFlag,
					Usage: "scale the output to this width",
				},
				&cli.IntFlag{
					Name:  heightFlag,
					Usage: "scale the output to this height",
				},
			},
			Action: WarpAction,
		},
		{
			Name:      "undistort",
			Usage:     "remove the lens distortion of a camera from an image",
			UsageText: "camxform undistort --camera <camera.json> --input <in.png> --output <out.png> [other options]",
			Flags: []cli.Flag{
				&cli.PathFlag{
					Name:     cameraFlag,
					Required: true,
					Usage:    "camera configuration `FILE`",
				},
				&cli.PathFlag{
					Name:     inputFlag,
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "image taken by the camera",
				},
				&cli.PathFlag{
					Name:     outputFlag,
					Aliases:  []string{"o"},
					Required: true,
					Usage:    "where to write the undistorted image; the extension picks the format",
				},
				&cli.StringFlag{
					Name:  edgeFlag,
					Value: "zero",
					Usage: "edge extension: zero, constant, clamp, reflect or periodic",
				},
				&cli.StringFlag{
					Name:  edgeColorFlag,
					Usage: "#rrggbb fill of the constant edge extension",
				},
				&cli.StringFlag{
					Name:  interpolationFlag,
					Value: "bilinear",
					Usage: "interpolation: nearest, bilinear or bicubic",
				},
			},
			Action: UndistortAction,
		},
		{
			Name:      "map",
			Usage:     "print where pixels land between the cameras of a job",
			UsageText: "camxform map --config <job.json> <x,y> [<x,y> ...]",
			ArgsUsage: "<x,y>...",
			Flags: []cli.Flag{
				&cli.PathFlag{
					Name:     configFlag,
					Aliases:  []string{"c"},
					Required: true,
					Usage:    "job configuration `FILE`",
				},
			},
			Action: MapAction,
		},
		{
			Name:      "grid",
			Usage:     "write a grid image to visualize distortion with",
			UsageText: "camxform grid --output <grid.png> [other options]",
			Flags: []cli.Flag{
				&cli.PathFlag{
					Name:     outputFlag,
					Aliases:  []string{"o"},
					Required: true,
					Usage:    "where to write the grid; the extension picks the format",
				},
				&cli.IntFlag{
					Name:  widthFlag,
					Value: 640,
				},
				&cli.IntFlag{
					Name:  heightFlag,
					Value: 480,
				},
				&cli.IntFlag{
					Name:  spacingFlag,
					Value: 40,
					Usage: "pixels between grid lines",
				},
				&cli.BoolFlag{
					Name:  labelsFlag,
					Usage: "label intersections with their pixel coordinates",
				},
			},
			Action: GridAction,
		},
		{
			Name:      "info",
			Usage:     "print the cameras and policies of a job",
			UsageText: "camxform info --config <job.json>",
			Flags: []cli.Flag{
				&cli.PathFlag{
					Name:     configFlag,
					Aliases:  []string{"c"},
					Required: true,
					Usage:    "job configuration `FILE`",
				},
			},
			Action: InfoAction,
		},
		{
			Name:   "version",
			Usage:  "print version info for this program",
			Action: VersionAction,
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
