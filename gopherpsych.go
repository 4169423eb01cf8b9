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

package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/jetsetilly/gopherpsych/clock"
	"github.com/jetsetilly/gopherpsych/data"
	"github.com/jetsetilly/gopherpsych/display"
	"github.com/jetsetilly/gopherpsych/display/sdldisplay"
	"github.com/jetsetilly/gopherpsych/event"
	"github.com/jetsetilly/gopherpsych/experiment"
	"github.com/jetsetilly/gopherpsych/logger"
	"github.com/jetsetilly/gopherpsych/modalflag"
	"github.com/jetsetilly/gopherpsych/paths"
	"github.com/jetsetilly/gopherpsych/performance"
	"github.com/jetsetilly/gopherpsych/prefs"
	"github.com/jetsetilly/gopherpsych/resources"
	"github.com/jetsetilly/gopherpsych/schedule"
	"github.com/jetsetilly/gopherpsych/sessionserver"
	"github.com/jetsetilly/gopherpsych/statsview"
	"github.com/jetsetilly/gopherpsych/version"
)

func init() {
	// SDL window and event handling must happen on the main thread
	runtime.LockOSThread()
}

func main() {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(os.Args[1:])
	md.AddSubModes("RUN", "SERVE", "PERFORMANCE", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		os.Exit(0)
	case modalflag.ParseError:
		fmt.Printf("* error: %v\n", err)
		os.Exit(10)
	}

	switch md.Mode() {
	case "RUN":
		err = run(md)
	case "SERVE":
		err = serve(md)
	case "PERFORMANCE":
		err = perform(md)
	case "VERSION":
		vers, rev, _ := version.Version()
		fmt.Printf("%s (%s)\n", vers, rev)
	}

	if err != nil {
		fmt.Printf("* error in %s mode: %v\n", md, err)
		os.Exit(20)
	}
}

// sessionPrefs are the on-disk preferences shared by the RUN mode. The
// descriptor always wins over a preference; preferences fill the gaps the
// descriptor leaves.
type sessionPrefs struct {
	dsk       *prefs.Disk
	serverURL prefs.String
	osfToken  prefs.String
}

func loadSessionPrefs() (*sessionPrefs, error) {
	pth, err := paths.ResourcePath("", "preferences")
	if err != nil {
		return nil, err
	}

	p := &sessionPrefs{dsk: prefs.NewDisk(pth)}
	if err := p.dsk.Add("server.url", &p.serverURL); err != nil {
		return nil, err
	}
	if err := p.dsk.Add("osf.token", &p.osfToken); err != nil {
		return nil, err
	}
	if err := p.dsk.Load(); err != nil {
		return nil, err
	}

	return p, nil
}

func run(md *modalflag.Modes) error {
	md.NewMode()

	headless := md.AddBool("headless", false, "run with no display window")
	fullscreen := md.AddBool("fullscreen", false, "run fullscreen, overriding the descriptor")
	width := md.AddInt("width", 1024, "window width")
	height := md.AddInt("height", 768, "window height")
	echoLog := md.AddBool("log", false, "echo the full debugging log to stderr")
	flowdump := md.AddBool("flowdump", false, "dump the experiment flow as graphviz and exit")
	stats := md.AddBool("stats", false, "run the stats server")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) != 1 {
		return fmt.Errorf("experiment descriptor required for %s mode", md)
	}

	desc, err := experiment.LoadDescriptor(md.GetArg(0))
	if err != nil {
		return err
	}

	sp, err := loadSessionPrefs()
	if err != nil {
		return err
	}
	if desc.ServerURL == "" && sp.serverURL.String() != "" && desc.ResourceDir == "" {
		desc.ServerURL = sp.serverURL.String()
	}

	trn := experiment.Transport(desc)
	if strings.EqualFold(desc.SaveTo, "osf") {
		trn = &resources.OSFTransport{
			Node:      desc.OSFNode,
			AuthToken: sp.osfToken.String(),
		}
	}

	log := logger.NewLog(nil)
	if *echoLog {
		log.AddTarget(logger.NewConsoleTarget(logger.Debug, os.Stderr))
	} else {
		log.AddTarget(logger.NewConsoleTarget(logger.Warning, os.Stderr))
	}
	if up, ok := trn.(logger.Uploader); ok {
		log.AddTarget(logger.NewServerTarget(logger.Data, up))
	}

	if *stats {
		statsview.Launch(os.Stdout)
	}

	buf := event.NewBuffer(clock.NewClock())

	var win display.Window
	if *headless {
		win = display.NewHeadless(*width, *height, 60)
	} else {
		win, err = sdldisplay.NewScreen(sdldisplay.Spec{
			Title:      desc.Name,
			Width:      *width,
			Height:     *height,
			Fullscreen: desc.Fullscreen || *fullscreen,
		}, buf)
		if err != nil {
			return err
		}
	}
	defer win.End()

	session, err := experiment.NewSession(desc, win, buf, log, trn)
	if err != nil {
		return err
	}

	if *flowdump {
		session.DumpFlow(os.Stdout)
		return nil
	}

	dialog := experiment.TerminalDialog{Input: os.Stdin, Output: os.Stdout}
	return session.Start(dialog, defaultTrial)
}

// defaultTrial keeps each condition row on screen until a response key is
// pressed, recording the key and its latency. More elaborate experiments
// supply their own TrialFunc by building against the experiment package.
func defaultTrial(s *experiment.Session, trials *data.TrialHandler) (schedule.Code, error) {
	keys := s.Events.GetKeys(event.GetKeysOptions{Clock: s.Clock})
	for _, k := range keys {
		if k.Name == event.KeyEscape {
			return schedule.Quit, nil
		}
		trials.AddData("resp", k.Name)
		trials.AddData("rt", k.Time)
		return schedule.Next, nil
	}
	return schedule.FlipRepeat, nil
}

func serve(md *modalflag.Modes) error {
	md.NewMode()

	addr := md.AddString("addr", "localhost:8080", "listen address")
	dir := md.AddString("resources", ".", "directory to serve resources from")
	db := md.AddString("db", "", "upload database (defaults to the configuration directory)")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	path := *db
	if path == "" {
		path, err = paths.ResourcePath("", "uploads.db")
		if err != nil {
			return err
		}
	}

	store, err := sessionserver.NewStore(path)
	if err != nil {
		return err
	}
	defer store.Close()

	fmt.Printf("experiment server listening on %s\n", *addr)
	return sessionserver.NewServer(*dir, store).ListenAndServe(*addr)
}

func perform(md *modalflag.Modes) error {
	md.NewMode()

	duration := md.AddString("duration", "5s", "duration to run for")
	profile := md.AddString("profile", "none", "profile the run: none, cpu, mem, all")
	refresh := md.AddFloat64("refresh", 0, "cap frame rate, frames per second. zero is uncapped")
	framesPerTrial := md.AddInt("frames", 1, "frames per synthetic trial")
	stats := md.AddBool("stats", false, "run the stats server")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	prf, err := performance.ParseProfile(*profile)
	if err != nil {
		return err
	}

	if *stats {
		statsview.Launch(os.Stdout)
	}

	return performance.Check(os.Stdout, prf, *duration, *refresh, *framesPerTrial)
}
