package oracle

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Directive is a structured instruction the model embedded in its reply.
type Directive struct {
	TaskTitle string
}

// Reply is a gateway answer after directive extraction: the user-facing text
// with any directive token stripped, plus the directive itself when present.
type Reply struct {
	Text      string
	Directive *Directive
}

// directivePattern matches the exact single-line directive token the system
// prompt instructs the model to emit.
var directivePattern = regexp.MustCompile(`\{"action":\s*"addTask",\s*"taskTitle":\s*"([^"]+)"\}`)

// directiveSchema validates a matched token before it is trusted. A token the
// regex accepts but the schema rejects is left in the text untouched.
var directiveSchema = jsonschema.MustCompileString("directive.json", `{
	"type": "object",
	"properties": {
		"action":    {"const": "addTask"},
		"taskTitle": {"type": "string", "minLength": 1}
	},
	"required": ["action", "taskTitle"],
	"additionalProperties": false
}`)

// ExtractDirective scans the model's reply text for an add-task directive.
// Only the first match is considered. On success it returns the text with
// the token removed and surrounding whitespace trimmed; otherwise the text
// comes back unchanged with a nil directive.
func ExtractDirective(text string) (string, *Directive) {
	loc := directivePattern.FindStringIndex(text)
	if loc == nil {
		return text, nil
	}
	token := text[loc[0]:loc[1]]

	var payload struct {
		Action    string `json:"action"`
		TaskTitle string `json:"taskTitle"`
	}
	var generic any
	if err := json.Unmarshal([]byte(token), &generic); err != nil {
		return text, nil
	}
	if err := directiveSchema.Validate(generic); err != nil {
		return text, nil
	}
	if err := json.Unmarshal([]byte(token), &payload); err != nil {
		return text, nil
	}

	cleaned := strings.TrimSpace(text[:loc[0]] + text[loc[1]:])
	return cleaned, &Directive{TaskTitle: payload.TaskTitle}
}
