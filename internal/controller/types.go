package controller

import "encoding/json"

// StringList unmarshals survey choice lists, which the controller serializes
// either as a JSON array or as a single newline-separated string depending on
// the template's age.
type StringList []string

func (s *StringList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = list
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	if single == "" {
		*s = nil
		return nil
	}
	*s = []string{single}
	return nil
}

// SurveyQuestion describes one input question of a template survey.
type SurveyQuestion struct {
	Variable     string      `json:"variable"`
	QuestionName string      `json:"question_name"`
	Type         string      `json:"type"`
	Required     bool        `json:"required"`
	Default      interface{} `json:"default,omitempty"`
	Choices      StringList  `json:"choices,omitempty"`
}

// SurveySpec is the ordered set of questions attached to a job template.
type SurveySpec struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Spec        []SurveyQuestion `json:"spec"`
}

// JobTemplate is a parameterizable job definition on the controller.
// Instances are immutable once fetched; a cache refresh replaces the whole
// collection rather than mutating templates in place.
type JobTemplate struct {
	ID                   int    `json:"id"`
	Name                 string `json:"name"`
	Description          string `json:"description"`
	Playbook             string `json:"playbook,omitempty"`
	SurveyEnabled        bool   `json:"survey_enabled"`
	AskVariablesOnLaunch bool   `json:"ask_variables_on_launch"`
	ExtraVars            string `json:"extra_vars,omitempty"`

	// Survey is populated by the cache after the listing fetch; nil means
	// the template has no survey.
	Survey *SurveySpec `json:"survey_spec,omitempty"`
}

// templateListPage is one page of the paginated job template listing.
type templateListPage struct {
	Count   int           `json:"count"`
	Next    *string       `json:"next"`
	Results []JobTemplate `json:"results"`
}

// LaunchResponse is the controller's answer to a launch POST.
type LaunchResponse struct {
	Job             int    `json:"job"`
	URL             string `json:"url"`
	JobType         string `json:"job_type"`
	IgnoredFields   any    `json:"ignored_fields,omitempty"`
	IgnoreConflicts bool   `json:"ignore_conflicts,omitempty"`
}

// JobRun is a point-in-time view of a remote job. It is re-fetched on every
// status or log query; the controller is the source of truth.
type JobRun struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Status      string  `json:"status"`
	Started     *string `json:"started"`
	Finished    *string `json:"finished"`
	Elapsed     float64 `json:"elapsed"`
	JobTemplate int     `json:"job_template"`
	Playbook    string  `json:"playbook"`
}
