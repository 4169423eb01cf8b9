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

package logger_test

import (
	"strings"
	"testing"

	"github.com/jetsetilly/gopherpsych/clock"
	"github.com/jetsetilly/gopherpsych/logger"
	"github.com/jetsetilly/gopherpsych/test"
)

func TestLevelTable(t *testing.T) {
	test.Equate(t, logger.LevelName(logger.Warning), "WARNING")
	test.Equate(t, logger.LevelName(logger.Data), "DATA")

	// unregistered numbers use the escape form
	test.Equate(t, logger.LevelName(logger.Level(23)), "Level 23")

	n, ok := logger.LevelNumber("INFO")
	test.Equate(t, ok, true)
	test.Equate(t, n, logger.Info)

	_, ok = logger.LevelNumber("NO SUCH LEVEL")
	test.Equate(t, ok, false)

	logger.AddLevel("BESPOKE", logger.Level(23))
	test.Equate(t, logger.LevelName(logger.Level(23)), "BESPOKE")
}

// batchUploader is a fake logger.Uploader recording every uploaded batch.
type batchUploader struct {
	batches []string
}

func (u *batchUploader) UploadLog(data string) error {
	u.batches = append(u.batches, data)
	return nil
}

func TestPerTargetThresholds(t *testing.T) {
	// the scenario from the design discussion: a console target at WARNING
	// and a server target at DATA receive one info() and one warning()
	console := &test.CompareWriter{}
	uploader := &batchUploader{}

	log := logger.NewLog(nil)
	log.AddTarget(logger.NewConsoleTarget(logger.Warning, console))
	log.AddTarget(logger.NewServerTarget(logger.Data, uploader))

	log.Info("information")
	log.Warning("something to worry about")

	err := log.Flush()
	test.ExpectedSuccess(t, err)

	// console target (threshold 30): sees the warning only
	test.Equate(t, strings.Contains(console.String(), "something to worry about"), true)
	test.Equate(t, strings.Contains(console.String(), "information"), false)

	// server target (threshold 25): INFO(20) < DATA(25) so it too drops
	// the info entry; WARNING(30) >= DATA(25) so it gets the warning
	test.Equate(t, len(uploader.batches), 1)
	test.Equate(t, strings.Contains(uploader.batches[0], "something to worry about"), true)
	test.Equate(t, strings.Contains(uploader.batches[0], "information"), false)
}

func TestGlobalReject(t *testing.T) {
	console := &test.CompareWriter{}

	log := logger.NewLog(nil)
	log.AddTarget(logger.NewConsoleTarget(logger.Warning, console))

	// below every target's threshold: never buffered at all
	log.Debug("discarded")
	log.Flush()
	test.Equate(t, len(log.Flushed()), 0)

	// at or above the lowest threshold: buffered and flushed
	log.Error("kept")
	log.Flush()
	test.Equate(t, len(log.Flushed()), 1)
}

func TestEntryMilliseconds(t *testing.T) {
	// a clock reading of 1.5015s is 1502ms, not 1501: the millisecond
	// field rounds to nearest rather than truncating
	clk := clock.NewClock()
	clk.ResetTo(1.5015)

	log := logger.NewLog(clk)
	log.AddTarget(logger.NewConsoleTarget(logger.Debug, &test.CompareWriter{}))

	log.Info("tick")
	log.Flush()

	e := log.Flushed()
	test.Equate(t, len(e), 1)
	test.Equate(t, e[0].TMilli, int64(1502))
}

func TestSharedQueue(t *testing.T) {
	// an entry below one target's threshold is still retained for another
	quiet := &test.CompareWriter{}
	chatty := &test.CompareWriter{}

	log := logger.NewLog(nil)
	log.AddTarget(logger.NewConsoleTarget(logger.Error, quiet))
	log.AddTarget(logger.NewConsoleTarget(logger.Debug, chatty))

	log.Info("for the chatty target")
	log.Flush()

	test.Equate(t, quiet.Compare(""), true)
	test.Equate(t, strings.Contains(chatty.String(), "for the chatty target"), true)
}

func TestServerBatch(t *testing.T) {
	uploader := &batchUploader{}

	log := logger.NewLog(nil)
	log.AddTarget(logger.NewServerTarget(logger.Data, uploader))

	log.Data("trial 1")
	log.Data("trial 2")
	log.Flush()

	// one upload containing both entries, not one upload per entry
	test.Equate(t, len(uploader.batches), 1)
	test.Equate(t, strings.Contains(uploader.batches[0], "trial 1"), true)
	test.Equate(t, strings.Contains(uploader.batches[0], "trial 2"), true)

	// an empty flush uploads nothing
	log.Flush()
	test.Equate(t, len(uploader.batches), 1)
}
