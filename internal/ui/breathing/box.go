package breathing

import (
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"zenbox/internal/ui/animation"
)

const (
	dotRadius   = float32(9)
	boxFraction = float32(0.8)
)

var (
	boxStroke = color.NRGBA{R: 110, G: 170, B: 200, A: 255}
	boxFill   = color.NRGBA{R: 110, G: 170, B: 200, A: 40}
	dotColor  = color.NRGBA{R: 232, G: 190, B: 66, A: 255}
)

// boxView draws the breathing square and the dot travelling along its edge.
type boxView struct {
	widget.BaseWidget

	mu    sync.Mutex
	frame animation.Frame
}

func newBoxView(frame animation.Frame) *boxView {
	view := &boxView{frame: frame}
	view.ExtendBaseWidget(view)
	return view
}

// SetFrame stores frame and redraws. It must run on the UI goroutine.
func (view *boxView) SetFrame(frame animation.Frame) {
	view.mu.Lock()
	view.frame = frame
	view.mu.Unlock()
	view.Refresh()
}

// Frame returns the frame being drawn.
func (view *boxView) Frame() animation.Frame {
	view.mu.Lock()
	defer view.mu.Unlock()
	return view.frame
}

func (view *boxView) CreateRenderer() fyne.WidgetRenderer {
	square := canvas.NewRectangle(boxFill)
	square.StrokeColor = boxStroke
	square.StrokeWidth = 3
	square.CornerRadius = 6

	dot := canvas.NewCircle(dotColor)
	return &boxRenderer{view: view, square: square, dot: dot}
}

type boxRenderer struct {
	view   *boxView
	square *canvas.Rectangle
	dot    *canvas.Circle
	size   fyne.Size
}

func (renderer *boxRenderer) Layout(size fyne.Size) {
	renderer.size = size
	frame := renderer.view.Frame()

	side := size.Width
	if size.Height < side {
		side = size.Height
	}
	side = side * boxFraction * float32(frame.Scale)
	origin := fyne.NewPos((size.Width-side)/2, (size.Height-side)/2)

	renderer.square.Move(origin)
	renderer.square.Resize(fyne.NewSize(side, side))

	center := fyne.NewPos(origin.X+side*float32(frame.Dot.X), origin.Y+side*float32(frame.Dot.Y))
	renderer.dot.Move(fyne.NewPos(center.X-dotRadius, center.Y-dotRadius))
	renderer.dot.Resize(fyne.NewSize(dotRadius*2, dotRadius*2))
}

func (renderer *boxRenderer) MinSize() fyne.Size {
	return fyne.NewSize(160, 160)
}

func (renderer *boxRenderer) Refresh() {
	renderer.Layout(renderer.size)
	canvas.Refresh(renderer.square)
	canvas.Refresh(renderer.dot)
}

func (renderer *boxRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{renderer.square, renderer.dot}
}

func (renderer *boxRenderer) Destroy() {}
