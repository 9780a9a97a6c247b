package api

import "encoding/json"

// nullableString distinguishes an absent JSON field from an explicit
// null, which a partial task update needs for projectId.
type nullableString struct {
	Set   bool
	Value *string
}

func (field *nullableString) UnmarshalJSON(data []byte) error {
	field.Set = true
	if string(data) == "null" {
		field.Value = nil
		return nil
	}
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	field.Value = &value
	return nil
}

type createTaskInput struct {
	Text      string  `json:"text"`
	Pomodoros int     `json:"pomodoros"`
	ProjectID *string `json:"projectId"`
}

type updateTaskInput struct {
	Text               *string        `json:"text"`
	Pomodoros          *int           `json:"pomodoros"`
	PomodorosCompleted *int           `json:"pomodorosCompleted"`
	Completed          *bool          `json:"completed"`
	ProjectID          nullableString `json:"projectId"`
}

type projectNameInput struct {
	Name string `json:"name"`
}
