package rendering

import "fmt"

// builtinTemplate names the embedded template in errors
const builtinTemplate = "(built-in)"

// TemplateError reports a template that could not be read, parsed or executed
type TemplateError struct {
	Template string
	Message  string
	Cause    error
}

func (e *TemplateError) Error() string {
	name := e.Template
	if name == "" {
		name = builtinTemplate
	}
	if e.Cause != nil {
		return fmt.Sprintf("template %s: %s: %v", name, e.Message, e.Cause)
	}
	return fmt.Sprintf("template %s: %s", name, e.Message)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// RenderError reports input that cannot be rendered, such as a header without a name
type RenderError struct {
	Section string
	Message string
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("cannot render %s: %s", e.Section, e.Message)
}
