package transform

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"
	"gonum.org/v1/gonum/mat"
)

// ErrInvalidCalibration is wrapped by every error CameraConfig.Validate reports.
var ErrInvalidCalibration = errors.New("invalid camera calibration")

// rotationTolerance is how far R^T*R may stray from the identity, per coefficient.
const rotationTolerance = 1e-6

// NewInvalidCalibrationError is used when a calibration field has an unusable value.
func NewInvalidCalibrationError(msg string) error {
	return errors.Wrap(ErrInvalidCalibration, msg)
}

// CameraConfig is the on-disk description of one calibrated view.
type CameraConfig struct {
	Path    string      `json:"path"`
	Width   int         `json:"width_px"`
	Height  int         `json:"height_px"`
	K       [9]float64  `json:"k"`
	R       [9]float64  `json:"r"`
	T       [3]float64  `json:"t"`
	LastRow *[4]float64 `json:"last_row,omitempty"`
}

// Validate checks that the config describes a usable view and reports every problem found.
func (cfg *CameraConfig) Validate() error {
	if cfg == nil {
		return NewInvalidCalibrationError("config does not exist")
	}
	var errs error
	for _, problem := range intrinsicsFromK(cfg.Width, cfg.Height, cfg.K).problems() {
		errs = multierr.Append(errs, NewInvalidCalibrationError(problem))
	}
	if cfg.K[8] == 0 {
		errs = multierr.Append(errs, NewInvalidCalibrationError("K[8] must not be zero"))
	}

	r := mat.NewDense(3, 3, cfg.R[:])
	var rtr mat.Dense
	rtr.Mul(r.T(), r)
	if !mat.EqualApprox(&rtr, eye(3), rotationTolerance) || mat.Det(r) < 0 {
		errs = multierr.Append(errs, NewInvalidCalibrationError("R is not a rotation matrix"))
	}
	for i, v := range cfg.T {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			errs = multierr.Append(errs,
				NewInvalidCalibrationError(fmt.Sprintf("T[%d] is not finite", i)))
		}
	}
	return errs
}

// NewCameraImageFromConfig validates cfg and builds the view it describes.
func NewCameraImageFromConfig(cfg *CameraConfig) (*CameraImage, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ci := NewCameraImage(cfg.Path, cfg.Width, cfg.Height, cfg.K, cfg.R, cfg.T)
	if cfg.LastRow != nil {
		ci.SetLastRow(*cfg.LastRow)
	}
	return ci, nil
}

// ReadCameraConfig parses a camera config from r.
func ReadCameraConfig(r io.Reader) (*CameraConfig, error) {
	byteValue, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "error reading JSON data")
	}
	cfg := &CameraConfig{}
	if err := json.Unmarshal(byteValue, cfg); err != nil {
		return nil, errors.Wrap(err, "error parsing JSON string")
	}
	return cfg, nil
}

// NewCameraImageFromJSONFile takes in a file path to a JSON camera config and turns it into a
// CameraImage.
func NewCameraImageFromJSONFile(jsonPath string) (*CameraImage, error) {
	//nolint:gosec
	jsonFile, err := os.Open(jsonPath)
	if err != nil {
		return nil, errors.Wrap(err, "error opening JSON file")
	}
	defer utils.UncheckedErrorFunc(jsonFile.Close)

	cfg, err := ReadCameraConfig(jsonFile)
	if err != nil {
		return nil, err
	}
	return NewCameraImageFromConfig(cfg)
}

// Config returns the current calibration of the view as a CameraConfig.
func (ci *CameraImage) Config() *CameraConfig {
	cfg := &CameraConfig{
		Path:   ci.path,
		Width:  ci.width,
		Height: ci.height,
		K:      ci.k,
		R:      ci.r,
		T:      ci.t,
	}
	if lastRow, ok := ci.LastRow(); ok {
		cfg.LastRow = &lastRow
	}
	return cfg
}

// WriteCameraConfig writes the calibration of ci as indented JSON to jsonPath.
func WriteCameraConfig(jsonPath string, ci *CameraImage) error {
	b, err := json.MarshalIndent(ci.Config(), "", "  ")
	if err != nil {
		return errors.Wrap(err, "error encoding camera config")
	}
	if err := os.WriteFile(jsonPath, b, 0o644); err != nil {
		return errors.Wrapf(err, "error writing %q", jsonPath)
	}
	return nil
}
