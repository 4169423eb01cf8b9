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

// Package display defines the rendering surface the scheduler drives, and a
// headless implementation of it. Note that the experiment core does not
// draw stimuli itself; drawing is the business of Renderer implementations
// added to the window. The core calls exactly two operations per frame:
// Render() and Swap().
//
// The concrete SDL implementation is in the sdldisplay sub-package. The
// headless implementation here is for tests and for performance
// measurement, where a real display would only get in the way.
package display

// Renderer implementations draw onto the window during Render(). The
// experiment core never draws; anything that does registers itself with
// AddRenderer().
type Renderer interface {
	Render() error
}

// Window is the complete surface given to an experiment session. The
// PumpEvents/Render/Swap subset is what the scheduler's frame loop
// consumes.
type Window interface {
	// process pending host input events, forwarding them to the event
	// buffer given at construction. returns true if the host wants the
	// experiment to end
	PumpEvents() bool

	// render the current scene
	Render() error

	// present the rendered scene. implementations with a real display wait
	// for the display refresh here, pacing the frame loop
	Swap() error

	// dimensions in pixels. satisfies event.Surface for mouse unit
	// conversion
	Size() (width int, height int)

	// register an (additional) Renderer
	AddRenderer(Renderer)

	// release resources. the window is unusable afterwards
	End() error
}
