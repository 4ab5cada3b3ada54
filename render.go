package main

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/reverie/common"
	core "github.com/milk9111/reverie/component"
	"github.com/milk9111/reverie/prefabs"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"
)

var hudFace ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)

type palette struct {
	background color.Color
	island     color.Color
	platform   color.Color
	player     color.Color
	enemy      color.Color
	hazard     color.Color
	powerup    color.Color
}

func defaultPalette() palette {
	return palette{
		background: colornames.Midnightblue,
		island:     colornames.Olivedrab,
		platform:   colornames.Peru,
		player:     colornames.Khaki,
		enemy:      colornames.Indianred,
		hazard:     colornames.Lightgray,
		powerup:    colornames.Skyblue,
	}
}

// newPalette resolves the scheme's colors, keeping the default for any
// entry that is empty or does not parse.
func newPalette(s prefabs.ColorScheme) (palette, error) {
	p := defaultPalette()
	var errs []string
	for _, c := range []struct {
		name string
		raw  string
		dst  *color.Color
	}{
		{"background", s.Background, &p.background},
		{"island", s.Island, &p.island},
		{"platform", s.Platform, &p.platform},
		{"player", s.Player, &p.player},
		{"enemy", s.Enemy, &p.enemy},
		{"hazard", s.Hazard, &p.hazard},
		{"powerup", s.PowerUp, &p.powerup},
	} {
		if c.raw == "" {
			continue
		}
		clr, err := parseColor(c.raw)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", c.name, err))
			continue
		}
		*c.dst = clr
	}
	if len(errs) > 0 {
		return p, fmt.Errorf("colors: %s", strings.Join(errs, "; "))
	}
	return p, nil
}

// parseColor accepts an SVG color name or #rrggbb / #rrggbbaa.
func parseColor(s string) (color.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := colornames.Map[s]; ok {
		return c, nil
	}
	hex, ok := strings.CutPrefix(s, "#")
	if !ok || (len(hex) != 6 && len(hex) != 8) {
		return nil, fmt.Errorf("bad color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("bad color %q: %w", s, err)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// camera maps the X/Y side view onto the screen. Y is up in the world and
// down on screen; depth is not drawn.
type camera struct {
	x, y       float64
	ppu        float64
	smoothness float64
	width      float64
	height     float64
}

func newCamera(spec prefabs.CameraSpec, width, height int) *camera {
	ppu := spec.PixelsPerUnit
	if ppu <= 0 {
		ppu = 32
	}
	return &camera{ppu: ppu, smoothness: spec.Smoothness, width: float64(width), height: float64(height)}
}

// follow eases the camera toward target. Zero smoothness snaps.
func (c *camera) follow(target common.Vec3, dt float64) {
	if c.smoothness <= 0 || dt <= 0 {
		c.x, c.y = target.X, target.Y
		return
	}
	t := min(dt/c.smoothness, 1)
	c.x += (target.X - c.x) * t
	c.y += (target.Y - c.y) * t
}

func (c *camera) snap(target common.Vec3) {
	c.x, c.y = target.X, target.Y
}

func (c *camera) toScreen(x, y float64) (float32, float32) {
	sx := (x-c.x)*c.ppu + c.width/2
	sy := c.height/2 - (y-c.y)*c.ppu
	return float32(sx), float32(sy)
}

func (c *camera) fillBB(dst *ebiten.Image, bb cp.BB, clr color.Color) {
	x0, y0 := c.toScreen(bb.L, bb.T)
	x1, y1 := c.toScreen(bb.R, bb.B)
	vector.DrawFilledRect(dst, x0, y0, x1-x0, y1-y0, clr, false)
}

func (c *camera) strokeBB(dst *ebiten.Image, bb cp.BB, clr color.Color) {
	x0, y0 := c.toScreen(bb.L, bb.T)
	x1, y1 := c.toScreen(bb.R, bb.B)
	vector.StrokeRect(dst, x0, y0, x1-x0, y1-y0, 1, clr, false)
}

func (c *camera) dot(dst *ebiten.Image, p common.Vec3, radius float64, clr color.Color) {
	x, y := c.toScreen(p.X, p.Y)
	vector.DrawFilledCircle(dst, x, y, float32(radius*c.ppu), clr, true)
}

func (c *camera) label(dst *ebiten.Image, p common.Vec3, s string) {
	x, y := c.toScreen(p.X, p.Y)
	drawText(dst, s, float64(x)-float64(len(s))*3.5, float64(y)-16, colornames.White)
}

func drawText(dst *ebiten.Image, s string, x, y float64, clr color.Color) {
	op := &ebtext.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	ebtext.Draw(dst, s, hudFace, op)
}

const heartSize = 14

// drawHearts draws the HUD health row from the top-left corner.
func drawHearts(dst *ebiten.Image, hearts []core.HeartState, clr color.Color) {
	for i, h := range hearts {
		x := float32(12 + i*(heartSize+6))
		y := float32(12)
		switch h {
		case core.HeartFull:
			vector.DrawFilledRect(dst, x, y, heartSize, heartSize, clr, false)
		case core.HeartHalf:
			vector.DrawFilledRect(dst, x, y, heartSize/2, heartSize, clr, false)
		}
		vector.StrokeRect(dst, x, y, heartSize, heartSize, 1, clr, false)
	}
}
