package execlog

import (
	"fmt"
	"strings"
	"time"
)

const timestampLayout = "2006-01-02 15:04:05"

// Entry is one record of the execution log.
type Entry struct {
	Timestamp time.Time
	Operation string
	Inputs    string
	Result    string
	Elapsed   time.Duration
	Profile   string
}

// Render produces the text block appended to the log.
func (e Entry) Render() string {
	return fmt.Sprintf(
		"\n-----\nData/Hora: %s\nOperação: %s\nInputs: %s\nResult: %s\nTempo de execução (s): %.4f\nStatus final de startup_info:\n%s\n-----\n",
		e.Timestamp.Format(timestampLayout),
		e.Operation,
		e.Inputs,
		e.Result,
		e.Elapsed.Seconds(),
		e.Profile,
	)
}

type input struct {
	key   string
	value any
}

// Inputs is an ordered set of named values describing what an operation
// received.
type Inputs struct {
	items []input
}

func (in Inputs) Add(key string, value any) Inputs {
	items := make([]input, len(in.items), len(in.items)+1)
	copy(items, in.items)
	in.items = append(items, input{key: key, value: value})
	return in
}

func (in Inputs) Len() int { return len(in.items) }

func (in Inputs) String() string {
	parts := make([]string, 0, len(in.items))
	for _, it := range in.items {
		parts = append(parts, fmt.Sprintf("%s: %v", it.key, it.value))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// RunKey identifies one orchestration session: creation second plus name.
func RunKey(created time.Time, name string) string {
	return created.Format(timestampLayout) + "_" + name
}

var fileNameReplacer = strings.NewReplacer("/", "_", "\\", "_")

// FileName is the log artifact name for runKey.
func FileName(runKey string) string {
	return fileNameReplacer.Replace(runKey) + "_execution_log.txt"
}
