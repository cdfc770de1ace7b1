package stages

import (
	"fmt"

	"github.com/dop251/goja"

	"github.com/rowpipe/runtime/pkg/etl"
)

// MaxScriptLength caps inline script source size.
const MaxScriptLength = 64 * 1024

// scriptTransform runs a JavaScript transform(record) function against
// each record. The goja runtime is not goroutine-safe; one instance
// belongs to one pipeline.
type scriptTransform struct {
	runtime     *goja.Runtime
	transformFn goja.Callable
}

// NewScriptTransform builds a transform stage from an inline
// JavaScript source defining a transform(record) function. The script
// is compiled once; the function runs per record and must return an
// object, which becomes the output record.
func NewScriptTransform(cfg map[string]interface{}) (etl.Stage, error) {
	source, err := requireString(cfg, "script")
	if err != nil {
		return nil, err
	}
	if len(source) > MaxScriptLength {
		return nil, fmt.Errorf("script exceeds maximum length of %d bytes", MaxScriptLength)
	}

	vm := goja.New()
	if _, err := vm.RunString(source); err != nil {
		return nil, fmt.Errorf("script compilation failed: %w", err)
	}

	transformVal := vm.Get("transform")
	if transformVal == nil || goja.IsUndefined(transformVal) {
		return nil, fmt.Errorf("script must define a transform(record) function")
	}
	transformFn, ok := goja.AssertFunction(transformVal)
	if !ok {
		return nil, fmt.Errorf("script 'transform' must be a function, got %s", transformVal.ExportType())
	}

	st := &scriptTransform{runtime: vm, transformFn: transformFn}
	return etl.Transform(st.apply), nil
}

func (st *scriptTransform) apply(r etl.Record) (etl.Record, error) {
	jsRecord := st.runtime.ToValue(map[string]interface{}(r))

	result, err := st.transformFn(goja.Undefined(), jsRecord)
	if err != nil {
		if jsErr, ok := err.(*goja.Exception); ok {
			return nil, fmt.Errorf("script execution failed: %v", jsErr.Value())
		}
		return nil, fmt.Errorf("script execution failed: %w", err)
	}

	return exportRecord(result)
}

// exportRecord converts a JavaScript value back to a record. The
// transform function must return an object, not a primitive or array.
func exportRecord(value goja.Value) (etl.Record, error) {
	if value == nil || goja.IsUndefined(value) || goja.IsNull(value) {
		return nil, fmt.Errorf("transform function returned null or undefined, must return an object")
	}

	exported := value.Export()
	if arr, ok := exported.([]interface{}); ok {
		return nil, fmt.Errorf("transform function returned an array of length %d, must return an object", len(arr))
	}
	if m, ok := exported.(map[string]interface{}); ok {
		return etl.Record(m), nil
	}
	return nil, fmt.Errorf("transform function returned %T, must return an object", exported)
}
