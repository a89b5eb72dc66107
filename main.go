package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gocv.io/x/gocv"

	"github.com/camlab/go-its/config"
	"github.com/camlab/go-its/distortion"
	"github.com/camlab/go-its/images"
	"github.com/camlab/go-its/logging"
	"github.com/camlab/go-its/lowlight"
	"github.com/camlab/go-its/profiler"
	"github.com/camlab/go-its/stills"
	"github.com/camlab/go-its/util"
	"github.com/camlab/go-its/zoom"
)

var checkNames = []string{"lowlight", "zoom", "distortion", "entropy"}

func main() {
	var (
		checkName  string
		configPath string
		imagePath  string
		framesDir  string
		chartType  string
		outputDir  string
		zoomMin    float64
		zoomMax    float64
	)
	flag.StringVar(&checkName, "check", "", "Check to run: "+strings.Join(checkNames, ", "))
	flag.StringVar(&configPath, "config", "", "Path to YAML config file (optional)")
	flag.StringVar(&imagePath, "image", "", "Path to a captured chart image (.jpg, .jpeg, .png, .bmp)")
	flag.StringVar(&framesDir, "frames", "", "Directory of numbered capture frames")
	flag.StringVar(&chartType, "chart", "chessboard", "Distortion chart type: chessboard or aruco")
	flag.StringVar(&outputDir, "output-dir", "", "Override artifact output directory")
	flag.Float64Var(&zoomMin, "zoom-min", 1.0, "Zoom ratio of the first frame in the sweep")
	flag.Float64Var(&zoomMax, "zoom-max", 0, "Zoom ratio of the last frame in the sweep")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(2)
	}
	logging.Init(cfg.LogLevel)
	if outputDir != "" {
		cfg.ArtifactDir = outputDir
	}

	run := profiler.NewRun(checkName)
	switch checkName {
	case "lowlight":
		err = runLowlight(cfg, run, imagePath)
	case "zoom":
		err = runZoom(cfg, run, framesDir, zoomMin, zoomMax)
	case "distortion":
		err = runDistortion(run, imagePath, chartType)
	case "entropy":
		err = runEntropy(run, framesDir)
	default:
		fmt.Fprintf(os.Stderr, "unknown check %q, expected one of: %s\n",
			checkName, strings.Join(checkNames, ", "))
		flag.Usage()
		os.Exit(2)
	}
	logging.Info("run finished", run.Attrs()...)

	if err != nil {
		fmt.Printf("%s: FAIL: %v\n", checkName, err)
		os.Exit(1)
	}
	fmt.Printf("%s: PASS\n", checkName)
}

// loadImage reads a capture off disk and fails hard on anything unreadable.
func loadImage(path string) (gocv.Mat, error) {
	if path == "" {
		return gocv.NewMat(), fmt.Errorf("missing required -image flag")
	}
	img := gocv.IMRead(path, gocv.IMReadColor)
	if img.Empty() {
		return img, fmt.Errorf("cannot read image: %s", path)
	}
	return img, nil
}

func runLowlight(cfg *config.Config, run *profiler.Run, imagePath string) error {
	img, err := loadImage(imagePath)
	if err != nil {
		return err
	}
	defer img.Close()

	lcfg := lowlight.DefaultConfig()
	lcfg.LuminanceThreshold = cfg.LowLight.LuminanceThreshold
	lcfg.DeltaThreshold = cfg.LowLight.DeltaThreshold
	lcfg.ArtifactDir = cfg.ArtifactDir

	stem := strings.TrimSuffix(filepath.Base(imagePath), filepath.Ext(imagePath))
	done := run.Stage("analyze")
	defer done()
	return lowlight.Analyze(stem, img, lcfg)
}

func runZoom(cfg *config.Config, run *profiler.Run, framesDir string, zoomMin, zoomMax float64) error {
	if framesDir == "" {
		return fmt.Errorf("missing required -frames flag")
	}
	if zoomMax <= zoomMin {
		return fmt.Errorf("-zoom-max must exceed -zoom-min")
	}

	doneLoad := run.Stage("load_frames")
	frames, err := util.LoadFrameFiles(framesDir)
	doneLoad()
	if err != nil {
		return err
	}
	if len(frames) < 2 {
		return fmt.Errorf("zoom sweep needs at least 2 frames, found %d", len(frames))
	}

	params := zoom.SweepParams(zoomMin, zoomMax, len(frames))
	if !params.Testable() {
		return fmt.Errorf("zoom range %.2f-%.2f too narrow to verify scaling", zoomMin, zoomMax)
	}

	aw, err := images.NewArtifactWriter(cfg.ArtifactDir, "zoom")
	if err != nil {
		return err
	}

	var (
		data          []zoom.Measurement
		width, height int
	)
	doneDetect := run.Stage("find_circles")
	for i, frame := range frames {
		img, err := frame.Decode()
		if err != nil {
			doneDetect()
			return err
		}
		if width == 0 {
			width, height = img.Cols(), img.Rows()
		}

		z := params.Min + float64(i)*params.Step
		circle := zoom.FindCenterCircle(img, zoom.CirclishTol(z))
		if circle == nil {
			img.Close()
			logging.Warn("no circle found, skipping frame", "frame", frame.Path, "zoom", z)
			continue
		}
		logging.Debug("circle found",
			"frame", frame.Path, "zoom", z,
			"x", circle.X, "y", circle.Y, "r", circle.R)

		// Mark the detected target on a per-frame artifact.
		images.DrawCircle(&img, int(circle.X), int(circle.Y), int(circle.R))
		images.DrawCrosshair(&img, int(circle.X), int(circle.Y))
		if err := aw.WriteStage(fmt.Sprintf("frame_%02d", frame.Index), img); err != nil {
			logging.Warn("artifact write failed", "frame", frame.Path, "error", err)
		}
		img.Close()
		data = append(data, zoom.Measurement{
			Zoom:      z,
			Circle:    *circle,
			RadiusTol: cfg.Zoom.RadiusRelTol,
			OffsetTol: cfg.Zoom.OffsetRelTol,
		})
	}
	doneDetect()

	done := run.Stage("verify")
	defer done()
	return zoom.Verify(data, width, height)
}

func runDistortion(run *profiler.Run, imagePath, chartType string) error {
	img, err := loadImage(imagePath)
	if err != nil {
		return err
	}
	defer img.Close()

	var detected, ideal []distortion.Point
	doneDetect := run.Stage("detect_chart")
	switch chartType {
	case "chessboard":
		corners, ok := distortion.DetectChessboard(
			img, distortion.ChessboardCorners, distortion.ChessboardCorners)
		if !ok {
			doneDetect()
			return fmt.Errorf("chessboard not found in %s", imagePath)
		}
		detected = corners
		ideal = distortion.IdealGridPoints(
			distortion.ChessboardCorners, distortion.ChessboardCorners)
	case "aruco":
		markers, err := distortion.DetectArucoMarkers(img)
		if err != nil {
			doneDetect()
			return err
		}
		detected = markers
		ideal = distortion.IdealArucoPoints()
	default:
		doneDetect()
		return fmt.Errorf("unknown chart type %q, expected chessboard or aruco", chartType)
	}
	doneDetect()

	done := run.Stage("verify")
	defer done()
	res, err := distortion.DistortionError(detected, ideal, img.Cols(), img.Rows())
	if err != nil {
		return err
	}
	logging.Info("distortion measured",
		"chart", chartType,
		"error_percent", res.ErrorPercent,
		"chart_coverage", res.ChartCoverage)

	if chartType == "aruco" {
		return distortion.VerifyAruco(res)
	}
	return distortion.VerifyChessboard(res)
}

func runEntropy(run *profiler.Run, framesDir string) error {
	if framesDir == "" {
		return fmt.Errorf("missing required -frames flag")
	}

	doneLoad := run.Stage("load_frames")
	frames, err := util.LoadFrameFiles(framesDir)
	doneLoad()
	if err != nil {
		return err
	}

	var (
		sizes         []int
		width, height int
	)
	done := run.Stage("measure")
	defer done()
	for _, frame := range frames {
		if ext := strings.ToLower(filepath.Ext(frame.Path)); ext != ".jpg" && ext != ".jpeg" {
			continue
		}
		sizes = append(sizes, len(frame.Data))

		// Every file has to decode cleanly, not just contribute bytes.
		img, err := frame.Decode()
		if err != nil {
			return err
		}
		if width == 0 {
			width, height = img.Cols(), img.Rows()
		}
		img.Close()
		logging.Debug("jpeg size", "file", frame.Path, "bytes", len(frame.Data))
	}
	return stills.VerifyEntropy(sizes, width, height)
}
