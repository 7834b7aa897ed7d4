package request

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/danielpatrickdp/study-productivity/internal/productivity"
)

// ErrIncomplete is returned when duration or interruptions is missing.
var ErrIncomplete = errors.New("incomplete input: duration and interruptions are required")

// ErrInvalidTasks is returned when the completed-task count is not a whole number.
var ErrInvalidTasks = errors.New("tasks completed must be a whole number")

// maxTasks bounds task counts so they convert to int on every platform.
const maxTasks = math.MaxInt32

// #region number
// number accepts a JSON number or a numeric string, as form clients send both.
type number struct {
	value float64
	set   bool
}

func (n *number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("invalid number %q", s)
		}
		n.value, n.set = v, true
		return nil
	}
	if err := json.Unmarshal(data, &n.value); err != nil {
		return err
	}
	n.set = true
	return nil
}

// or returns n when set, otherwise the first set fallback.
func (n number) or(fallbacks ...number) number {
	if n.set {
		return n
	}
	for _, f := range fallbacks {
		if f.set {
			return f
		}
	}
	return n
}

// #endregion number

// #region request
// Evaluation is the body of every evaluate/update call over any transport. Both the
// canonical English fields and the legacy form fields are accepted; the
// canonical field wins when both are present.
type Evaluation struct {
	Duration       number `json:"duration"`
	Interruptions  string `json:"interruptions"`
	Target         string `json:"target"`
	TasksCompleted number `json:"tasks_completed"`
	Tasks          number `json:"tasks"`
	StudyTimeOfDay string `json:"study_time_of_day"`
	MainTime       string `json:"mainTime"`

	DurasiBelajar   number `json:"durasi_belajar"`
	TingkatGangguan string `json:"tingkat_gangguan"`
	TargetBelajar   string `json:"target_belajar"`
	TugasSelesai    number `json:"tugas_selesai"`
	WaktuBelajar    string `json:"waktu_belajar"`
}

// ToInput validates the request and normalizes labels to canonical values.
// Unknown labels pass through unchanged and score as zero membership.
func (r Evaluation) ToInput() (productivity.Input, error) {
	duration := r.Duration.or(r.DurasiBelajar)
	interruptions := firstNonEmpty(r.Interruptions, r.TingkatGangguan)
	if !duration.set || interruptions == "" {
		return productivity.Input{}, ErrIncomplete
	}

	// A missing count is taken as 0 tasks and gets the no-task penalty.
	tasks := r.TasksCompleted.or(r.Tasks, r.TugasSelesai)
	if tasks.value != math.Trunc(tasks.value) || math.Abs(tasks.value) > maxTasks {
		return productivity.Input{}, ErrInvalidTasks
	}
	return productivity.Input{
		Duration:       duration.value,
		Interruptions:  NormalizeInterruptions(interruptions),
		Target:         NormalizeTarget(firstNonEmpty(r.Target, r.TargetBelajar)),
		TasksCompleted: int(tasks.value),
		StudyTimeOfDay: NormalizeTimeOfDay(firstNonEmpty(r.StudyTimeOfDay, r.MainTime, r.WaktuBelajar)),
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// Decode parses a JSON body and converts it with ToInput.
func Decode(data []byte) (productivity.Input, error) {
	var r Evaluation
	if err := json.Unmarshal(data, &r); err != nil {
		return productivity.Input{}, fmt.Errorf("decode request: %w", err)
	}
	return r.ToInput()
}

// #endregion request

// #region labels
var interruptionAliases = map[string]productivity.Interruptions{
	"low": productivity.InterruptionsLow, "rendah": productivity.InterruptionsLow,
	"medium": productivity.InterruptionsMedium, "sedang": productivity.InterruptionsMedium,
	"high": productivity.InterruptionsHigh, "tinggi": productivity.InterruptionsHigh,
}

var targetAliases = map[string]productivity.Target{
	"not_met": productivity.TargetNotMet, "tidak_tercapai": productivity.TargetNotMet,
	"partial": productivity.TargetPartial, "sebagian": productivity.TargetPartial,
	"met": productivity.TargetMet, "tercapai": productivity.TargetMet,
}

var timeOfDayAliases = map[string]productivity.TimeOfDay{
	"morning": productivity.Morning, "pagi": productivity.Morning,
	"afternoon": productivity.Afternoon, "siang": productivity.Afternoon,
	"evening": productivity.Evening, "malam": productivity.Evening,
}

// NormalizeInterruptions maps a canonical or legacy label to its canonical value.
func NormalizeInterruptions(s string) productivity.Interruptions {
	if v, ok := interruptionAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return v
	}
	return productivity.Interruptions(s)
}

// NormalizeTarget maps a canonical or legacy label to its canonical value.
func NormalizeTarget(s string) productivity.Target {
	if v, ok := targetAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return v
	}
	return productivity.Target(s)
}

// NormalizeTimeOfDay maps a canonical or legacy label to its canonical value.
func NormalizeTimeOfDay(s string) productivity.TimeOfDay {
	if v, ok := timeOfDayAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return v
	}
	return productivity.TimeOfDay(s)
}

// #endregion labels
