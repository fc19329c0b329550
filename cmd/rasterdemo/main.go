// rasterdemo is a terminal host for the rasterizer pipeline: it owns the
// window/event loop, maps mouse and keyboard input into camera deltas, and
// presents the framebuffer as half-block terminal cells.
//
// Controls:
//
//	Mouse drag  - Look around (yaw/pitch)
//	Scroll      - Zoom
//	W/A/S/D     - Move forward/left/back/right
//	Space/C     - Move up/down
//	R           - Reset camera
//	Esc/Ctrl+C  - Quit
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/rasterforge/pipeline/pkg/camera"
	"github.com/rasterforge/pipeline/pkg/mesh"
	"github.com/rasterforge/pipeline/pkg/raster"
	"github.com/rasterforge/pipeline/pkg/vecmath"
)

var (
	targetFPS = flag.Int("fps", 30, "Target frames per second")
	bgColor   = flag.String("bg", "20,20,30", "Background color (R,G,B)")
	meshFlag  = flag.String("mesh", "cube", "Built-in mesh to render: cube or quad")
	modelPath = flag.String("model", "", "Optional .glb path to render instead of the built-in mesh")
	pixelScl  = flag.Int("scale", 1, "Framebuffer upscale factor reported to the host")
)

func main() {
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if err := run(log); err != nil {
		log.Error("rasterdemo exited with error", "err", err)
		os.Exit(1)
	}
}

// smoothedAxis tracks an input axis with critically-damped spring decay, so
// discrete mouse-motion events produce continuous motion instead of step
// changes.
type smoothedAxis struct {
	value  float64
	spring harmonica.Spring
	accel  float64
}

func newSmoothedAxis(fps int) smoothedAxis {
	return smoothedAxis{spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0)}
}

func (a *smoothedAxis) update(target float64) {
	a.value, a.accel = a.spring.Update(a.value, a.accel, target)
}

func loadVertices(log *slog.Logger) ([]float32, error) {
	if *modelPath != "" {
		log.Info("loading gltf model", "path", *modelPath)
		return mesh.LoadGLTF(*modelPath)
	}
	switch strings.ToLower(*meshFlag) {
	case "quad":
		return mesh.Quad(2, 2), nil
	default:
		return mesh.Cube(2), nil
	}
}

func run(log *slog.Logger) error {
	var bgR, bgG, bgB int
	if _, err := fmt.Sscanf(*bgColor, "%d,%d,%d", &bgR, &bgG, &bgB); err != nil {
		return fmt.Errorf("parse -bg: %w", err)
	}
	bg := vecmath.RGB(float64(bgR)/255, float64(bgG)/255, float64(bgB)/255)

	rawVerts, err := loadVertices(log)
	if err != nil {
		return fmt.Errorf("load mesh: %w", err)
	}
	verts := unflatten(rawVerts)
	log.Info("mesh loaded", "triangles", len(verts)/3)

	term := uv.DefaultTerminal()
	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	cleanup := func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	fbWidth, fbHeight := width, height*2
	fb := raster.Create(fbWidth, fbHeight, *pixelScl)
	rast := raster.New(fb)

	cam := camera.New(vecmath.V3(0, 0, 5), vecmath.Up(), -90, 0)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	yawAxis := newSmoothedAxis(*targetFPS)
	pitchAxis := newSmoothedAxis(*targetFPS)
	var modelSpin float64

	var mouseDown bool
	var lastMouseX, lastMouseY int
	keys := struct{ forward, back, left, right, up, down int }{}

	go func() {
		for ev := range term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				width, height = ev.Width, ev.Height
				fbWidth, fbHeight = width, height*2
				fb = raster.Create(fbWidth, fbHeight, *pixelScl)
				rast = raster.New(fb)

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape"), ev.MatchString("ctrl+c"):
					cancel()
					return
				case ev.MatchString("r"):
					cam = camera.New(vecmath.V3(0, 0, 5), vecmath.Up(), -90, 0)
				case ev.MatchString("w"):
					keys.forward = 1
				case ev.MatchString("s"):
					keys.back = 1
				case ev.MatchString("a"):
					keys.left = 1
				case ev.MatchString("d"):
					keys.right = 1
				case ev.MatchString("space"):
					keys.up = 1
				case ev.MatchString("c"):
					keys.down = 1
				}

			case uv.KeyReleaseEvent:
				switch {
				case ev.MatchString("w"):
					keys.forward = 0
				case ev.MatchString("s"):
					keys.back = 0
				case ev.MatchString("a"):
					keys.left = 0
				case ev.MatchString("d"):
					keys.right = 0
				case ev.MatchString("space"):
					keys.up = 0
				case ev.MatchString("c"):
					keys.down = 0
				}

			case uv.MouseClickEvent:
				mouseDown = true
				lastMouseX, lastMouseY = ev.X, ev.Y

			case uv.MouseReleaseEvent:
				mouseDown = false

			case uv.MouseMotionEvent:
				if mouseDown {
					dx := ev.X - lastMouseX
					dy := ev.Y - lastMouseY
					yawAxis.value += float64(dx) * 4
					pitchAxis.value += float64(-dy) * 4
					lastMouseX, lastMouseY = ev.X, ev.Y
				}

			case uv.MouseWheelEvent:
				switch ev.Button {
				case uv.MouseWheelUp:
					cam.ProcessMouseScroll(1)
				case uv.MouseWheelDown:
					cam.ProcessMouseScroll(-1)
				}
			}
		}
	}()

	targetDuration := time.Second / time.Duration(*targetFPS)
	lastFrame := time.Now()

	for {
		select {
		case <-ctx.Done():
			log.Info("shutting down")
			return nil
		default:
		}

		now := time.Now()
		dt := now.Sub(lastFrame).Seconds()
		lastFrame = now
		if dt > 0.1 {
			dt = 0.1
		}

		yawAxis.update(0)
		pitchAxis.update(0)
		if yawAxis.value != 0 || pitchAxis.value != 0 {
			cam.ProcessMouseMovement(yawAxis.value*dt, pitchAxis.value*dt, true)
		}

		if keys.forward != 0 {
			cam.ProcessKeyboard(camera.Forward, dt)
		}
		if keys.back != 0 {
			cam.ProcessKeyboard(camera.Backward, dt)
		}
		if keys.left != 0 {
			cam.ProcessKeyboard(camera.Left, dt)
		}
		if keys.right != 0 {
			cam.ProcessKeyboard(camera.Right, dt)
		}
		if keys.up != 0 {
			cam.ProcessKeyboard(camera.Up, dt)
		}
		if keys.down != 0 {
			cam.ProcessKeyboard(camera.Down, dt)
		}

		fb.Clear(bg)
		modelSpin += dt * 0.3
		model := vecmath.BuildModel(vecmath.Zero3(), vecmath.V3(0, modelSpin, 0), vecmath.V3(1, 1, 1))
		view := cam.ViewMatrix()
		proj := cam.ProjectionMatrix(float64(fb.Width) / float64(fb.Height))
		rast.DrawTriangles(verts, model, view, proj, cam.Position)

		present(fb, height)

		elapsed := time.Since(now)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}

// unflatten converts an interleaved [px,py,pz,nx,ny,nz] float32 buffer into
// raster.Vertex values with a flat per-triangle color.
func unflatten(buf []float32) []raster.Vertex {
	color := vecmath.RGB(0.75, 0.75, 0.8)
	out := make([]raster.Vertex, 0, len(buf)/6)
	for i := 0; i+5 < len(buf); i += 6 {
		out = append(out, raster.Vertex{
			Position: vecmath.V3(float64(buf[i]), float64(buf[i+1]), float64(buf[i+2])),
			Normal:   vecmath.V3(float64(buf[i+3]), float64(buf[i+4]), float64(buf[i+5])),
			Color:    color,
		})
	}
	return out
}

// present writes the framebuffer to stdout as half-block terminal cells:
// each terminal row carries two framebuffer rows, foreground for the top
// pixel and background for the bottom, using 24-bit truecolor escapes.
func present(fb *raster.Framebuffer, termHeight int) {
	var b strings.Builder
	b.WriteString("\x1b[H")
	for row := 0; row < termHeight && row*2+1 < fb.Height; row++ {
		topY := row * 2
		botY := topY + 1
		for col := 0; col < fb.Width; col++ {
			top := vecmath.UnpackARGB(fb.GetPixel(col, topY))
			bot := vecmath.UnpackARGB(fb.GetPixel(col, botY))
			fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀",
				to255(top.R), to255(top.G), to255(top.B),
				to255(bot.R), to255(bot.G), to255(bot.B))
		}
		b.WriteString("\x1b[0m\r\n")
	}
	os.Stdout.WriteString(b.String())
}

func to255(v float64) int {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return int(math.Round(v * 255))
}
