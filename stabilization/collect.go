package stabilization

import (
	"sync"
	"time"

	"github.com/camlab/go-its/logging"
	"github.com/camlab/go-its/session"
)

// Rig drives the physical motion rig through its rotation pattern.
// Run blocks until the scripted movement completes.
type Rig interface {
	Run()
}

// Recorder records the preview for its fixed duration and returns the
// finished recording. Record blocks until the duration elapses.
type Recorder interface {
	Record() (session.Recording, error)
}

// RigDelay is how long the rig gets to spin up before recording starts,
// so the recording only ever sees a device already in motion.
const RigDelay = 5500 * time.Millisecond

// Collect runs one stabilization capture: start the rig, wait for it to
// be moving, record, then wait for the rig to finish. The rig is always
// joined before Collect returns, even when recording fails.
func Collect(rig Rig, rec Recorder, rigDelay time.Duration) (session.Recording, error) {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		rig.Run()
	}()

	time.Sleep(rigDelay)
	logging.Debug("recording while rig is in motion")
	recording, err := rec.Record()

	wg.Wait()
	return recording, err
}
