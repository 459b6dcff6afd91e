// Package wasm hosts an optional syntax-validity oracle compiled to
// WebAssembly (the language-of-record checker of the policy model's grammar
// core). The verifier uses its verdict only as an explanation annotation,
// never as a reward input.
package wasm

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
)

// Oracle runs a WASM module exporting
//
//	validate(ptr uint32, len uint32) -> i32 (0 = ill-formed, nonzero = well-formed)
//
// against candidate sentences. Each call instantiates a fresh module so the
// oracle stays reentrant across verifier workers.
type Oracle struct {
	runtime  wazero.Runtime
	compiled wazero.CompiledModule
	timeout  time.Duration

	mu  sync.Mutex
	seq uint64
}

// LoadFile compiles the oracle module from a .wasm file.
func LoadFile(path string) (*Oracle, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read oracle module: %w", err)
	}
	return Load(code)
}

// Load compiles the oracle module from raw bytes.
func Load(code []byte) (*Oracle, error) {
	ctx := context.Background()
	config := wazero.NewRuntimeConfig().
		WithMemoryLimitPages(64). // 4MB
		WithCloseOnContextDone(true)

	runtime := wazero.NewRuntimeWithConfig(ctx, config)
	wasi_snapshot_preview1.MustInstantiate(ctx, runtime)

	compiled, err := runtime.CompileModule(ctx, code)
	if err != nil {
		_ = runtime.Close(ctx)
		return nil, fmt.Errorf("failed to compile oracle module: %w", err)
	}

	return &Oracle{
		runtime:  runtime,
		compiled: compiled,
		timeout:  5 * time.Second,
	}, nil
}

// Validate reports whether the sentence parses under the oracle grammar.
func (o *Oracle) Validate(sentence string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	defer cancel()

	o.mu.Lock()
	o.seq++
	name := fmt.Sprintf("oracle-%d", o.seq)
	o.mu.Unlock()

	instance, err := o.runtime.InstantiateModule(ctx, o.compiled,
		wazero.NewModuleConfig().WithName(name))
	if err != nil {
		return false, fmt.Errorf("failed to instantiate oracle module: %w", err)
	}
	defer instance.Close(ctx)

	validate := instance.ExportedFunction("validate")
	if validate == nil {
		return false, fmt.Errorf("oracle module does not export 'validate'")
	}

	mem := instance.Memory()
	if mem == nil {
		return false, fmt.Errorf("oracle module has no memory")
	}
	data := []byte(sentence)
	if uint64(len(data)) > uint64(mem.Size()) {
		return false, fmt.Errorf("sentence too large for oracle memory: %d bytes", len(data))
	}
	if !mem.Write(0, data) {
		return false, fmt.Errorf("failed to write sentence to oracle memory")
	}

	results, err := validate.Call(ctx, 0, uint64(len(data)))
	if err != nil {
		return false, fmt.Errorf("oracle call failed: %w", err)
	}
	if len(results) != 1 {
		return false, fmt.Errorf("oracle returned %d results, want 1", len(results))
	}
	return results[0] != 0, nil
}

// Close releases the runtime.
func (o *Oracle) Close(ctx context.Context) error {
	return o.runtime.Close(ctx)
}
