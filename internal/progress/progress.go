// Package progress emits the line-delimited JSON began/finished/
// signalled/skipped records the executor reports to a diagnostic
// stream. Each record is built incrementally with sjson.SetBytes
// rather than by marshaling a struct whole, since the "outputs" field
// is a list of heterogeneous {path,type} pairs assembled in a loop.
package progress

import (
	"io"
	"sync"

	"github.com/tidwall/sjson"

	"github.com/detentsh/driver/internal/job"
	"github.com/detentsh/driver/internal/vpath"
)

// Reporter serializes one JSON line per event to w under a single
// mutex; one write is one line plus its newline.
type Reporter struct {
	w  io.Writer
	mu sync.Mutex

	// useFrontendParseableOutput, when true, suppresses the driver's
	// own began/finished pair for jobs whose frontend process was
	// invoked with -use-frontend-parseable-output and is expected to
	// print its own matching lines.
	useFrontendParseableOutput bool
}

// NewReporter builds a Reporter writing to w.
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// SetUseFrontendParseableOutput configures whether this Reporter
// suppresses its own events for jobs that emit frontend-native ones.
func (r *Reporter) SetUseFrontendParseableOutput(v bool) {
	r.useFrontendParseableOutput = v
}

// SyntheticPID derives the synthetic logical pid -1000-index. The
// executor passes a compile job's BatchIndex, so each compile job gets
// one pid; the primaries within one job do not get pids of their own.
func SyntheticPID(primaryIndex int) int {
	return -1000 - primaryIndex
}

func (r *Reporter) write(line []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := r.w.Write(append(line, '\n'))
	return err
}

// Began reports that j has started running as OS process realPID,
// reported under logical pid.
func (r *Reporter) Began(j *job.Job, cache *vpath.Cache, pid, realPID int, executable string, commandArguments []string) error {
	if r.useFrontendParseableOutput && usesFrontendParseableOutput(j) {
		return nil
	}
	line := []byte("{}")
	var err error
	set := func(path string, value interface{}) {
		if err != nil {
			return
		}
		line, err = sjson.SetBytes(line, path, value)
	}
	set("kind", "began")
	set("name", j.DisplayName)
	set("pid", pid)
	set("process.real_pid", realPID)
	set("command_executable", executable)
	set("command_arguments", commandArguments)

	var inputs []string
	for _, in := range j.Inputs {
		inputs = append(inputs, cache.Lookup(in.Handle).String())
	}
	set("inputs", inputs)

	if err != nil {
		return err
	}
	for _, out := range j.Outputs {
		entry := map[string]string{
			"path": cache.Lookup(out.Handle).String(),
			"type": out.Type.DisplayName(),
		}
		line, err = sjson.SetBytes(line, "outputs.-1", entry)
		if err != nil {
			return err
		}
	}
	return r.write(line)
}

// Finished reports that j's process exited with exitStatus (0 for
// success). output carries captured stdout/stderr when the caller
// wants it surfaced (otherwise pass "").
func (r *Reporter) Finished(j *job.Job, pid, realPID, exitStatus int, output string) error {
	if r.useFrontendParseableOutput && usesFrontendParseableOutput(j) {
		return nil
	}
	line := []byte("{}")
	var err error
	set := func(path string, value interface{}) {
		if err != nil {
			return
		}
		line, err = sjson.SetBytes(line, path, value)
	}
	set("kind", "finished")
	set("name", j.DisplayName)
	set("pid", pid)
	set("process.real_pid", realPID)
	set("exit-status", exitStatus)
	set("output", output)
	if err != nil {
		return err
	}
	return r.write(line)
}

// Signalled reports that j's process was terminated by signal sig.
func (r *Reporter) Signalled(j *job.Job, pid, realPID, sig int, errorMessage, output string) error {
	if r.useFrontendParseableOutput && usesFrontendParseableOutput(j) {
		return nil
	}
	line := []byte("{}")
	var err error
	set := func(path string, value interface{}) {
		if err != nil {
			return
		}
		line, err = sjson.SetBytes(line, path, value)
	}
	set("kind", "signalled")
	set("name", j.DisplayName)
	set("pid", pid)
	set("process.real_pid", realPID)
	set("signal", sig)
	set("error-message", errorMessage)
	set("output", output)
	if err != nil {
		return err
	}
	return r.write(line)
}

// Skipped reports a job the incremental oracle decided not to run.
// Emitted at build end, not at schedule time.
func (r *Reporter) Skipped(j *job.Job) error {
	line := []byte("{}")
	var err error
	line, err = sjson.SetBytes(line, "kind", "skipped")
	if err != nil {
		return err
	}
	line, err = sjson.SetBytes(line, "name", j.DisplayName)
	if err != nil {
		return err
	}
	return r.write(line)
}

func usesFrontendParseableOutput(j *job.Job) bool {
	return j.ExtraEnv["SWIFT_DRIVER_FRONTEND_PARSEABLE_OUTPUT"] == "1"
}
