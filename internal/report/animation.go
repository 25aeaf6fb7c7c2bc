// File: internal/report/animation.go
package report

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"

	"github.com/icza/mjpeg"
	xdraw "golang.org/x/image/draw"

	"github.com/pabslabs/pabsim/internal/sim"
)

// Portrayal palette for the grid animation: red infected, green susceptible,
// blue resistant, black dead, white empty cells.
var (
	rgbaInfected    = color.RGBA{R: 0xcc, G: 0x22, B: 0x22, A: 0xff}
	rgbaSusceptible = color.RGBA{R: 0x22, G: 0xaa, B: 0x22, A: 0xff}
	rgbaResistant   = color.RGBA{R: 0x22, G: 0x44, B: 0xcc, A: 0xff}
	rgbaDead        = color.RGBA{R: 0x11, G: 0x11, B: 0x11, A: 0xff}
	rgbaEmpty       = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// Animator streams per-tick grid snapshots into an MJPEG video. Frames must
// be added in tick order; Close finalizes the file.
type Animator struct {
	writer   mjpeg.AviWriter
	gridW    int
	gridH    int
	cellSize int
	base     *image.RGBA
	frame    *image.RGBA
	buf      bytes.Buffer
}

// NewAnimator opens an MJPEG writer sized to the grid. cellSize is the pixel
// edge length of one grid cell in the output video.
func NewAnimator(path string, gridW, gridH, cellSize, frameRate int) (*Animator, error) {
	if cellSize <= 0 || frameRate <= 0 {
		return nil, fmt.Errorf("cell size and frame rate must be positive")
	}
	w := int32(gridW * cellSize)
	h := int32(gridH * cellSize)
	writer, err := mjpeg.New(path, w, h, int32(frameRate))
	if err != nil {
		return nil, fmt.Errorf("failed to create animation writer: %w", err)
	}
	return &Animator{
		writer:   writer,
		gridW:    gridW,
		gridH:    gridH,
		cellSize: cellSize,
		base:     image.NewRGBA(image.Rect(0, 0, gridW, gridH)),
		frame:    image.NewRGBA(image.Rect(0, 0, gridW*cellSize, gridH*cellSize)),
	}, nil
}

// AddFrame renders one tick's agent snapshot and appends it to the video.
func (a *Animator) AddFrame(views []sim.AgentView) error {
	// One pixel per cell, then nearest-neighbor upscale so cells stay crisp.
	for y := 0; y < a.gridH; y++ {
		for x := 0; x < a.gridW; x++ {
			a.base.SetRGBA(x, y, rgbaEmpty)
		}
	}
	rank := make(map[sim.Position]int, len(views))
	for _, v := range views {
		p := cellPriority(v.State)
		if prev, ok := rank[v.Pos]; ok && prev >= p {
			continue
		}
		rank[v.Pos] = p
		a.base.SetRGBA(v.Pos.X, v.Pos.Y, stateColor(v.State))
	}

	xdraw.NearestNeighbor.Scale(a.frame, a.frame.Bounds(), a.base, a.base.Bounds(), xdraw.Src, nil)

	a.buf.Reset()
	if err := jpeg.Encode(&a.buf, a.frame, &jpeg.Options{Quality: 90}); err != nil {
		return fmt.Errorf("failed to encode frame: %w", err)
	}
	if err := a.writer.AddFrame(a.buf.Bytes()); err != nil {
		return fmt.Errorf("failed to add frame: %w", err)
	}
	return nil
}

// Close finalizes the video file.
func (a *Animator) Close() error {
	return a.writer.Close()
}

// cellPriority ranks which occupant decides a cell's color when several
// agents share it. Higher wins; dead agents draw on top.
func cellPriority(s sim.State) int {
	switch s {
	case sim.Dead:
		return 3
	case sim.Infected:
		return 2
	case sim.Resistant:
		return 1
	default:
		return 0
	}
}

func stateColor(s sim.State) color.RGBA {
	switch s {
	case sim.Infected:
		return rgbaInfected
	case sim.Resistant:
		return rgbaResistant
	case sim.Dead:
		return rgbaDead
	default:
		return rgbaSusceptible
	}
}
