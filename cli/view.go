package cli

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"

	"go.viam.com/mvs/logging"
	"go.viam.com/mvs/rimage"
	"go.viam.com/mvs/rimage/transform"
	"go.viam.com/mvs/utils"
)

// newLogger returns a logger writing to the app's error writer at the level chosen by the
// --log-level flag.
func newLogger(c *cli.Context) (logging.Logger, error) {
	level, err := logging.LevelFromString(c.String(flagLogLevel))
	if err != nil {
		return nil, err
	}
	return logging.NewWriterLogger("mvsview", level, c.App.ErrWriter), nil
}

func loadView(c *cli.Context, logger logging.Logger) (*transform.CameraImage, error) {
	configPath := c.String(flagConfig)
	if configPath == "" {
		return nil, errors.Errorf("a camera view is required, use --%s", flagConfig)
	}
	ci, err := transform.NewCameraImageFromJSONFile(configPath)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot load %q", configPath)
	}
	logger.Debugw("loaded view", "config", configPath, "path", ci.Path(), "width", ci.Width(), "height", ci.Height())
	return ci, nil
}

// printMatrix renders a row-major matrix with cols columns as a titled table.
func printMatrix(w io.Writer, name string, vals []float64, cols int) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(name)
	for _, row := range lo.Chunk(vals, cols) {
		t.AppendRow(lo.Map(row, func(v float64, _ int) interface{} {
			return fmt.Sprintf("%.6g", v)
		}))
	}
	t.Render()
}

func widen(vals []float32) []float64 {
	out := make([]float64, len(vals))
	utils.Float32sToFloat64s(out, vals)
	return out
}

// InfoAction prints the calibration of a view and everything derived from it.
func InfoAction(c *cli.Context) error {
	logger, err := newLogger(c)
	if err != nil {
		return err
	}
	ci, err := loadView(c, logger)
	if err != nil {
		return err
	}

	w := c.App.Writer
	fmt.Fprintf(w, "path: %s\n", ci.Path())
	fmt.Fprintf(w, "size: %dx%d\n", ci.Width(), ci.Height())
	k := ci.GetKDouble()
	r, t := ci.GetRTDouble()
	c3 := ci.GetCDouble()
	printMatrix(w, "K", k[:], 3)
	printMatrix(w, "R", r[:], 3)
	printMatrix(w, "T", t[:], 3)
	printMatrix(w, "C", c3[:], 3)

	lastRow, ok := ci.LastRow()
	if !ok {
		fmt.Fprintln(w, "last row: not set")
		return nil
	}
	printMatrix(w, "last row", lastRow[:], 4)
	p, invP, err := ci.GetPinvPDouble()
	if err != nil {
		return err
	}
	printMatrix(w, "P", p[:], 4)
	printMatrix(w, "inv(P)", invP[:], 4)
	return nil
}

// DepthAction prints the depth of every --point in the view.
func DepthAction(c *cli.Context) error {
	logger, err := newLogger(c)
	if err != nil {
		return err
	}
	coords := c.Float64Slice(flagPoint)
	if len(coords) == 0 || len(coords)%3 != 0 {
		return errors.Errorf("--%s needs x,y,z triples, got %d values", flagPoint, len(coords))
	}
	ci, err := loadView(c, logger)
	if err != nil {
		return err
	}

	pts := lo.Map(lo.Chunk(coords, 3), func(xyz []float64, _ int) r3.Vector {
		return r3.Vector{X: xyz[0], Y: xyz[1], Z: xyz[2]}
	})
	depths, err := transform.BatchDepth(c.Context, ci, pts)
	if depths == nil {
		return err
	}
	if err != nil {
		logger.Warnf("some depths are undefined: %v", err)
	}
	defined := make([]float64, 0, len(depths))
	for i, pt := range pts {
		d := float64(depths[i])
		if math.IsNaN(d) {
			fmt.Fprintf(c.App.Writer, "%g,%g,%g\tundefined\n", pt.X, pt.Y, pt.Z)
			continue
		}
		fmt.Fprintf(c.App.Writer, "%g,%g,%g\t%g\n", pt.X, pt.Y, pt.Z, depths[i])
		defined = append(defined, d)
	}
	if len(defined) < 2 {
		return nil
	}

	data := stats.Float64Data(defined)
	median, err := data.Median()
	if err != nil {
		return err
	}
	lowest, err := data.Min()
	if err != nil {
		return err
	}
	highest, err := data.Max()
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "min %g\tmedian %g\tmax %g\n", lowest, median, highest)
	return nil
}

// UnprojectAction prints the world point seen at --pixel that lies --z in front of the camera.
func UnprojectAction(c *cli.Context) error {
	logger, err := newLogger(c)
	if err != nil {
		return err
	}
	uv := c.Float64Slice(flagPixel)
	if len(uv) != 2 {
		return errors.Errorf("--%s needs u,v, got %d values", flagPixel, len(uv))
	}
	ci, err := loadView(c, logger)
	if err != nil {
		return err
	}

	px := r2.Point{X: uv[0], Y: uv[1]}
	pt := ci.PixelToWorld(px, c.Float64(flagZ))
	fmt.Fprintf(c.App.Writer, "%g,%g\t%g,%g,%g\n", px.X, px.Y, pt.X, pt.Y, pt.Z)
	return nil
}

// RotateAction prints the calibration of the view after --turns quarter turns and optionally
// writes the rotated view.
func RotateAction(c *cli.Context) error {
	logger, err := newLogger(c)
	if err != nil {
		return err
	}
	ci, err := loadView(c, logger)
	if err != nil {
		return err
	}

	turns := c.Int(flagTurns)
	if err := ci.LogRotation(logger, turns); err != nil {
		return err
	}
	view, err := ci.Rotate90Multi(turns)
	if err != nil {
		return err
	}

	w := c.App.Writer
	fmt.Fprintf(w, "size: %dx%d\n", view.Width, view.Height)
	printMatrix(w, "K", widen(view.K[:]), 3)
	printMatrix(w, "R", widen(view.R[:]), 3)
	printMatrix(w, "T", widen(view.T[:]), 3)
	printMatrix(w, "C", widen(view.C[:]), 3)
	printMatrix(w, "P", widen(view.P[:]), 4)
	printMatrix(w, "inv(P)", widen(view.InvP[:]), 4)

	if output := c.String(flagOutput); output != "" {
		if err := transform.WriteCameraConfig(output, ci.Rotated(turns)); err != nil {
			return err
		}
		logger.Infow("wrote rotated view", "output", output)
	}
	return nil
}

// RescaleAction resizes the view by --factor or to fit --max-width and --max-height and writes the
// result to --output. With --with-image the referenced image is resampled too and written next to
// the output, at the same relative path.
func RescaleAction(c *cli.Context) error {
	logger, err := newLogger(c)
	if err != nil {
		return err
	}
	ci, err := loadView(c, logger)
	if err != nil {
		return err
	}

	configPath := c.String(flagConfig)
	output := c.String(flagOutput)
	var imageIn, imageOut string
	if c.Bool(flagWithImage) {
		imageIn = utils.ResolveRelative(configPath, ci.Path())
		imageOut = utils.ResolveRelative(output, ci.Path())
		if sameFile(imageIn, imageOut) {
			return errors.Errorf("rescaled image would overwrite %q", imageIn)
		}
		img, err := rimage.ReadImageFromFile(imageIn)
		if err != nil {
			return err
		}
		if err := ci.CheckBitmap(img); err != nil {
			return errors.Wrapf(err, "image %q", imageIn)
		}
		ci.SetBitmap(img)
	}

	switch {
	case c.IsSet(flagFactor):
		err = ci.RescaleUniform(c.Float64(flagFactor))
	case c.IsSet(flagMaxWidth) || c.IsSet(flagMaxHeight):
		maxWidth, maxHeight := ci.Width(), ci.Height()
		if c.IsSet(flagMaxWidth) {
			maxWidth = c.Int(flagMaxWidth)
		}
		if c.IsSet(flagMaxHeight) {
			maxHeight = c.Int(flagMaxHeight)
		}
		err = ci.Downsize(maxWidth, maxHeight)
	default:
		return errors.Errorf("one of --%s, --%s or --%s is required", flagFactor, flagMaxWidth, flagMaxHeight)
	}
	if err != nil {
		return err
	}

	if err := transform.WriteCameraConfig(output, ci); err != nil {
		return err
	}
	if imageOut != "" {
		img, err := utils.AssertType[*rimage.Image](ci.Bitmap())
		if err != nil {
			return err
		}
		if err := rimage.WriteImageToFile(imageOut, img); err != nil {
			return err
		}
	}
	logger.Infow("rescaled view", "output", output, "width", ci.Width(), "height", ci.Height(), "image", imageOut)
	return nil
}

func sameFile(a, b string) bool {
	aInfo, err := os.Stat(a)
	if err != nil {
		return false
	}
	bInfo, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(aInfo, bInfo)
}
