package domain

// TaskEntry is a single reported task. The display time is captured at the
// moment the task is appended and never recomputed.
type TaskEntry struct {
	DisplayTime string `json:"displayTime"`
	Description string `json:"description"`
}
