package previewengine

import "fmt"

// InputError covers unreadable files and invalid JSON syntax. It aborts the
// run before normalization.
type InputError struct {
	Path string
	Err  error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("input %s: %v", e.Path, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// SchemaError covers well-formed JSON that violates the document schema. The
// message always names the offending field and the expected shape.
type SchemaError struct {
	Field string
	Want  string
	Got   string
}

func (e *SchemaError) Error() string {
	if e.Got == "" {
		return fmt.Sprintf("schema: field %q: want %s", e.Field, e.Want)
	}
	return fmt.Sprintf("schema: field %q: want %s, got %s", e.Field, e.Want, e.Got)
}

// OutputError covers unwritable destinations. Rendered content is discarded;
// no partial file is left behind.
type OutputError struct {
	Path string
	Err  error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("output %s: %v", e.Path, e.Err)
}

func (e *OutputError) Unwrap() error { return e.Err }
