package bank

import "fmt"

// LoadError is returned when a bank file cannot be read or decoded, or yields
// no usable questions.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load bank %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// SchemaError is returned when a bank file fails its structural schema.
type SchemaError struct {
	Path string
	Err  error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("bank %s does not match schema: %v", e.Path, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }
