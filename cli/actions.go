package cli

import (
	"fmt"
	"image"
	"runtime/debug"
	"strconv"
	"strings"

	"github.com/golang/geo/r2"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/camxform/config"
	"go.viam.com/camxform/rimage"
	"go.viam.com/camxform/rimage/transform"
)

// WarpAction resamples an image from the source camera of a job into its destination camera,
// or into the linearized source camera when the job has no destination.
func WarpAction(c *cli.Context) error {
	logger := loggerFromContext(c)
	cfg, err := config.Read(c.Context, c.Path(configFlag), logger)
	if err != nil {
		return err
	}
	img, err := rimage.ReadImageFromFile(c.Path(inputFlag))
	if err != nil {
		return err
	}
	view, err := jobView(cfg, img)
	if err != nil {
		return err
	}
	if c.Bool(fitFlag) {
		view, err = rimage.TransformToFit(img, view.Transformer(), view.Edge(), view.Interpolation())
		if err != nil {
			return errors.Wrap(err, "cannot fit output to transformed input")
		}
	}
	return writeView(c, view)
}

// UndistortAction removes the lens distortion of a single camera from an image.
func UndistortAction(c *cli.Context) error {
	camCfg, err := transform.NewCameraConfigFromJSONFile(c.Path(cameraFlag))
	if err != nil {
		return err
	}
	cam, err := camCfg.Camera()
	if err != nil {
		return err
	}
	if cam.Distortion() == nil {
		warningf(c.App.ErrWriter, "camera %q has no distortion; output will match input", c.Path(cameraFlag))
	}
	policies := &config.Config{
		EdgeExtension: c.String(edgeFlag),
		EdgeColor:     c.String(edgeColorFlag),
		Interpolation: c.String(interpolationFlag),
	}
	edge, err := policies.Edge()
	if err != nil {
		return err
	}
	interp, err := policies.Interp()
	if err != nil {
		return err
	}
	img, err := rimage.ReadImageFromFile(c.Path(inputFlag))
	if err != nil {
		return err
	}
	view, err := transform.LinearizeCameraTransformImageWithPolicies(img, cam, edge, interp)
	if err != nil {
		return err
	}
	return writeView(c, view)
}

// MapAction prints where each pixel argument lands in the destination camera and where it comes
// from in the source camera.
func MapAction(c *cli.Context) error {
	if c.Args().Len() == 0 {
		return errors.New("expected at least one <x,y> pixel argument")
	}
	cfg, err := config.Read(c.Context, c.Path(configFlag), loggerFromContext(c))
	if err != nil {
		return err
	}
	ct, err := jobTransform(cfg)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(c.App.Writer)
	t.AppendHeader(table.Row{"Pixel", "Forward (source to destination)", "Reverse (destination to source)"})
	for _, arg := range c.Args().Slice() {
		p, err := parsePixel(arg)
		if err != nil {
			return err
		}
		t.AppendRow(table.Row{formatPoint(p, nil), formatPoint(ct.Forward(p)), formatPoint(ct.Reverse(p))})
	}
	t.Render()
	return nil
}

// GridAction writes a grid image.
func GridAction(c *cli.Context) error {
	opts := rimage.DefaultGridOptions(c.Int(widthFlag), c.Int(heightFlag))
	opts.Spacing = c.Int(spacingFlag)
	opts.Labels = c.Bool(labelsFlag)
	img, err := rimage.DrawGrid(opts)
	if err != nil {
		return err
	}
	if err := rimage.WriteImageToFile(c.Path(outputFlag), img); err != nil {
		return err
	}
	printf(c.App.Writer, "wrote %dx%d grid to %s", opts.Width, opts.Height, c.Path(outputFlag))
	return nil
}

// InfoAction prints the cameras and the sampling policies of a job.
func InfoAction(c *cli.Context) error {
	cfg, err := config.Read(c.Context, c.Path(configFlag), loggerFromContext(c))
	if err != nil {
		return err
	}
	src, dst, err := cfg.Cameras()
	if err != nil {
		return err
	}
	edge, err := cfg.Edge()
	if err != nil {
		return err
	}
	interp, err := cfg.Interp()
	if err != nil {
		return err
	}
	printf(c.App.Writer, "Source camera:\n%v", src)
	if dst == nil {
		printf(c.App.Writer, "Destination camera: linearized source camera")
	} else {
		printf(c.App.Writer, "Destination camera:\n%v", dst)
	}
	printf(c.App.Writer, "Edge extension: %s", edge.Name())
	if edge.Name() == rimage.ConstantEdgeName {
		printf(c.App.Writer, "Edge color: %s", rimage.ColorHex(edge.Fill()))
	}
	printf(c.App.Writer, "Interpolation: %s", interp.Name())
	return nil
}

// VersionAction prints the version of the program.
func VersionAction(c *cli.Context) error {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return errors.New("error reading build info")
	}
	printf(c.App.Writer, "Version %s Go Version %s", info.Main.Version, info.GoVersion)
	return nil
}

func jobTransform(cfg *config.Config) (*transform.CameraTransform, error) {
	src, dst, err := cfg.Cameras()
	if err != nil {
		return nil, err
	}
	if dst == nil {
		width, height := cfg.SourceCamera.Intrinsics.Width, cfg.SourceCamera.Intrinsics.Height
		dst, err = transform.LinearizeCamera(src, width, height, width, height)
		if err != nil {
			return nil, err
		}
	}
	return transform.NewCameraTransform(src, dst), nil
}

func jobView(cfg *config.Config, img image.Image) (*rimage.TransformView, error) {
	src, dst, err := cfg.Cameras()
	if err != nil {
		return nil, err
	}
	edge, err := cfg.Edge()
	if err != nil {
		return nil, err
	}
	interp, err := cfg.Interp()
	if err != nil {
		return nil, err
	}
	if dst == nil {
		return transform.LinearizeCameraTransformImageWithPolicies(img, src, edge, interp)
	}
	return transform.CameraTransformImageWithPolicies(img, src, dst, edge, interp), nil
}

func writeView(c *cli.Context, view *rimage.TransformView) error {
	materialized, err := view.Materialize(c.Context)
	if err != nil {
		return err
	}
	var out image.Image = materialized
	if width, height := c.Int(widthFlag), c.Int(heightFlag); width != 0 || height != 0 {
		out, err = rimage.Resize(out, width, height)
		if err != nil {
			return err
		}
	}
	if err := rimage.WriteImageToFile(c.Path(outputFlag), out); err != nil {
		return err
	}
	size := out.Bounds().Size()
	printf(c.App.Writer, "wrote %dx%d image to %s", size.X, size.Y, c.Path(outputFlag))
	return nil
}

func parsePixel(arg string) (r2.Point, error) {
	parts := strings.Split(arg, ",")
	if len(parts) != 2 {
		return r2.Point{}, errors.Errorf("pixel %q must look like x,y", arg)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return r2.Point{}, errors.Wrapf(err, "bad x in pixel %q", arg)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return r2.Point{}, errors.Wrapf(err, "bad y in pixel %q", arg)
	}
	return r2.Point{X: x, Y: y}, nil
}

func formatPoint(p r2.Point, err error) string {
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return fmt.Sprintf("(%.3f, %.3f)", p.X, p.Y)
}
