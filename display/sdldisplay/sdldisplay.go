// This file is part of GopherPsych.
//
// GopherPsych is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// GopherPsych is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with GopherPsych.  If not, see <https://www.gnu.org/licenses/>.

// Package sdldisplay is the SDL implementation of the display window. The
// renderer is created with PRESENTVSYNC so that Swap() blocks until the
// display refresh; this is what paces the scheduler's frame loop.
//
// SDL requires that window creation and event polling happen on the main
// OS thread. The program's main() function locks the main thread before
// creating the window.
package sdldisplay

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/jetsetilly/gopherpsych/curated"
	"github.com/jetsetilly/gopherpsych/display"
	"github.com/jetsetilly/gopherpsych/event"
)

// sentinel error for the sdldisplay package.
const SetupError = "sdldisplay: %v"

// Screen is the SDL implementation of display.Window.
type Screen struct {
	window   *sdl.Window
	renderer *sdl.Renderer

	buf *event.Buffer

	renderers []display.Renderer

	width  int32
	height int32
}

// Spec describes the window to create.
type Spec struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
}

// NewScreen is the preferred method of initialisation for the Screen type.
// Input events polled by PumpEvents() are pushed into the supplied event
// buffer.
func NewScreen(spec Spec, buf *event.Buffer) (*Screen, error) {
	scr := &Screen{
		buf:    buf,
		width:  int32(spec.Width),
		height: int32(spec.Height),
	}

	err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS)
	if err != nil {
		return nil, curated.Errorf(SetupError, err)
	}

	var flags uint32 = sdl.WINDOW_SHOWN
	if spec.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}

	scr.window, err = sdl.CreateWindow(spec.Title,
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		scr.width, scr.height, flags)
	if err != nil {
		return nil, curated.Errorf(SetupError, err)
	}

	// vsync on the renderer is the pacing for the whole experiment
	scr.renderer, err = sdl.CreateRenderer(scr.window, -1,
		sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		return nil, curated.Errorf(SetupError, err)
	}

	// the true size may differ from the requested size (fullscreen)
	w, h := scr.window.GetSize()
	scr.width = w
	scr.height = h

	return scr, nil
}

// PumpEvents implements the display.Window interface. Polls the SDL event
// queue, translating raw input into event buffer entries. Key events are
// timestamped with the buffer's clock at the moment they are polled.
func (scr *Screen) PumpEvents() bool {
	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		switch ev := ev.(type) {
		case *sdl.QuitEvent:
			return true

		case *sdl.KeyboardEvent:
			if ev.Type == sdl.KEYDOWN && ev.Repeat == 0 {
				scr.buf.PushKey(
					sdl.GetKeyName(ev.Keysym.Sym),
					sdl.GetScancodeName(ev.Keysym.Scancode),
					int(ev.Keysym.Sym),
				)
			}

		case *sdl.MouseMotionEvent:
			scr.buf.PushMouseMotion(float64(ev.X), float64(ev.Y))

		case *sdl.MouseButtonEvent:
			var button int
			switch ev.Button {
			case sdl.BUTTON_LEFT:
				button = event.MouseLeft
			case sdl.BUTTON_MIDDLE:
				button = event.MouseMiddle
			case sdl.BUTTON_RIGHT:
				button = event.MouseRight
			default:
				continue
			}
			scr.buf.PushMouseButton(button, ev.Type == sdl.MOUSEBUTTONDOWN)

		case *sdl.MouseWheelEvent:
			scr.buf.PushMouseWheel(float64(ev.X), float64(ev.Y))
		}
	}

	return false
}

// Render implements the display.Window interface. The background is
// cleared to mid-grey (the conventional experiment background) before the
// registered renderers draw.
func (scr *Screen) Render() error {
	err := scr.renderer.SetDrawColor(128, 128, 128, 255)
	if err != nil {
		return curated.Errorf("sdldisplay: %v", err)
	}
	err = scr.renderer.Clear()
	if err != nil {
		return curated.Errorf("sdldisplay: %v", err)
	}

	for _, r := range scr.renderers {
		if err := r.Render(); err != nil {
			return err
		}
	}

	return nil
}

// Swap implements the display.Window interface. Blocks until the display
// refresh.
func (scr *Screen) Swap() error {
	scr.renderer.Present()
	return nil
}

// Size implements the display.Window interface.
func (scr *Screen) Size() (int, int) {
	return int(scr.width), int(scr.height)
}

// AddRenderer implements the display.Window interface.
func (scr *Screen) AddRenderer(r display.Renderer) {
	scr.renderers = append(scr.renderers, r)
}

// Renderer exposes the underlying SDL renderer for display.Renderer
// implementations that draw with SDL directly.
func (scr *Screen) Renderer() *sdl.Renderer {
	return scr.renderer
}

// End implements the display.Window interface.
func (scr *Screen) End() error {
	if scr.renderer != nil {
		_ = scr.renderer.Destroy()
	}
	if scr.window != nil {
		_ = scr.window.Destroy()
	}
	sdl.Quit()
	return nil
}
