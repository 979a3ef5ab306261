package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"

	"go.viam.com/camxform/rimage"
)

const cameraJSON = `{
	"intrinsic_parameters": {"width_px": 64, "height_px": 48, "fx": 50, "fy": 50, "ppx": 31.5, "ppy": 23.5}
}`

const distortedCameraJSON = `{
	"intrinsic_parameters": {"width_px": 64, "height_px": 48, "fx": 50, "fy": 50, "ppx": 31.5, "ppy": 23.5},
	"distortion_type": "brown_conrady",
	"distortion_parameters": [0.05, 0.01]
}`

func writeTestFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	test.That(t, os.WriteFile(path, []byte(contents), 0o600), test.ShouldBeNil)
	return path
}

func runApp(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := NewApp(&out, &errOut).Run(append([]string{"camxform"}, args...))
	return out.String(), errOut.String(), err
}

func writeGrid(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "grid.png")
	out, _, err := runApp(t, "grid", "--output", path, "--width", "64", "--height", "48", "--spacing", "8")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "wrote 64x48 grid")
	return path
}

func TestGrid(t *testing.T) {
	dir := t.TempDir()
	path := writeGrid(t, dir)
	img, err := rimage.ReadImageFromFile(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, img.Bounds().Dx(), test.ShouldEqual, 64)
	test.That(t, img.Bounds().Dy(), test.ShouldEqual, 48)

	_, _, err = runApp(t, "grid", "--output", filepath.Join(dir, "bad.png"), "--spacing", "0")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "spacing must be positive")
}

func TestWarp(t *testing.T) {
	dir := t.TempDir()
	input := writeGrid(t, dir)
	job := writeTestFile(t, dir, "job.json",
		`{"source_camera": `+cameraJSON+`, "destination_camera": `+cameraJSON+`, "interpolation": "nearest"}`)

	t.Run("same camera", func(t *testing.T) {
		output := filepath.Join(dir, "same.png")
		out, _, err := runApp(t, "warp", "--config", job, "--input", input, "--output", output)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, out, test.ShouldContainSubstring, "wrote 64x48 image")

		in, err := rimage.ReadImageFromFile(input)
		test.That(t, err, test.ShouldBeNil)
		warped, err := rimage.ReadImageFromFile(output)
		test.That(t, err, test.ShouldBeNil)
		for _, p := range [][2]int{{0, 0}, {8, 8}, {13, 21}, {63, 47}} {
			r0, g0, b0, a0 := in.At(p[0], p[1]).RGBA()
			r1, g1, b1, a1 := warped.At(p[0], p[1]).RGBA()
			test.That(t, []uint32{r1, g1, b1, a1}, test.ShouldResemble, []uint32{r0, g0, b0, a0})
		}
	})

	t.Run("resized", func(t *testing.T) {
		output := filepath.Join(dir, "small.png")
		out, _, err := runApp(t, "warp", "-c", job, "-i", input, "-o", output, "--width", "32")
		test.That(t, err, test.ShouldBeNil)
		test.That(t, out, test.ShouldContainSubstring, "wrote 32x24 image")
	})

	t.Run("fit", func(t *testing.T) {
		output := filepath.Join(dir, "fit.png")
		out, _, err := runApp(t, "warp", "-c", job, "-i", input, "-o", output, "--fit")
		test.That(t, err, test.ShouldBeNil)
		test.That(t, out, test.ShouldContainSubstring, "image to "+output)
	})

	t.Run("linearized", func(t *testing.T) {
		linearJob := writeTestFile(t, dir, "linear.json", `{"source_camera": `+distortedCameraJSON+`}`)
		output := filepath.Join(dir, "linear.qoi")
		out, _, err := runApp(t, "warp", "-c", linearJob, "-i", input, "-o", output)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, out, test.ShouldContainSubstring, "wrote 64x48 image")
	})

	t.Run("missing input", func(t *testing.T) {
		_, _, err := runApp(t, "warp", "-c", job, "-i", filepath.Join(dir, "nope.png"), "-o", filepath.Join(dir, "x.png"))
		test.That(t, err, test.ShouldNotBeNil)
	})
}

func TestUndistort(t *testing.T) {
	dir := t.TempDir()
	input := writeGrid(t, dir)

	camera := writeTestFile(t, dir, "camera.json", distortedCameraJSON)
	output := filepath.Join(dir, "undistorted.png")
	out, errOut, err := runApp(t, "undistort", "--camera", camera, "-i", input, "-o", output, "--edge", "clamp")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "wrote 64x48 image")
	test.That(t, errOut, test.ShouldNotContainSubstring, "Warning")

	plain := writeTestFile(t, dir, "plain.json", cameraJSON)
	_, errOut, err = runApp(t, "undistort", "--camera", plain, "-i", input, "-o", output)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, errOut, test.ShouldContainSubstring, "has no distortion")

	_, _, err = runApp(t, "undistort", "--camera", camera, "-i", input, "-o", output, "--interpolation", "sinc")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestMap(t *testing.T) {
	dir := t.TempDir()
	job := writeTestFile(t, dir, "job.json",
		`{"source_camera": `+cameraJSON+`, "destination_camera": `+cameraJSON+`}`)

	out, _, err := runApp(t, "map", "-c", job, "10,20", "31.5, 23.5")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "(10.000, 20.000)")
	test.That(t, out, test.ShouldContainSubstring, "(31.500, 23.500)")
	test.That(t, out, test.ShouldNotContainSubstring, "error")

	moved := writeTestFile(t, dir, "moved.json",
		`{"source_camera": `+cameraJSON+`, "destination_camera": {
			"intrinsic_parameters": {"width_px": 64, "height_px": 48, "fx": 50, "fy": 50, "ppx": 31.5, "ppy": 23.5},
			"center": [1, 0, 0]
		}}`)
	out, _, err = runApp(t, "map", "-c", moved, "10,20")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "error:")
	test.That(t, out, test.ShouldContainSubstring, "camera center is always the same")

	_, _, err = runApp(t, "map", "-c", job)
	test.That(t, err, test.ShouldNotBeNil)
	_, _, err = runApp(t, "map", "-c", job, "10")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "must look like x,y")
}

func TestInfo(t *testing.T) {
	dir := t.TempDir()
	job := writeTestFile(t, dir, "job.json",
		`{"source_camera": `+distortedCameraJSON+`, "edge_extension": "constant", "edge_color": "#ff0000"}`)

	out, _, err := runApp(t, "info", "-c", job)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "fx:50.000, fy:50.000")
	test.That(t, out, test.ShouldContainSubstring, "brown_conrady")
	test.That(t, out, test.ShouldContainSubstring, "linearized source camera")
	test.That(t, out, test.ShouldContainSubstring, "Edge extension: constant")
	test.That(t, out, test.ShouldContainSubstring, "Edge color: #ff0000")
	test.That(t, out, test.ShouldContainSubstring, "Interpolation: bilinear")
}

func TestDebugLogging(t *testing.T) {
	dir := t.TempDir()
	input := writeGrid(t, dir)
	job := writeTestFile(t, dir, "job.json", `{"source_camera": `+cameraJSON+`, "destination_camera": `+cameraJSON+`}`)

	_, errOut, err := runApp(t, "--debug", "warp", "-c", job, "-i", input, "-o", filepath.Join(dir, "out.png"))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, errOut, test.ShouldContainSubstring, "camera transform view")

	_, errOut, err = runApp(t, "warp", "-c", job, "-i", input, "-o", filepath.Join(dir, "out.png"))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, errOut, test.ShouldNotContainSubstring, "camera transform view")
}
