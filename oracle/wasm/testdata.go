package wasm

// Minimal WASM module implementing the oracle contract
// It exports validate (func (param i32 i32) (result i32)) and returns the
// sentence length, so any non-empty sentence counts as well-formed
var testOracleModule = []byte{
	0x00, 0x61, 0x73, 0x6d, // WASM_BINARY_MAGIC
	0x01, 0x00, 0x00, 0x00, // WASM_BINARY_VERSION
	// Type section
	0x01, 0x07, // section id, section size (7 bytes)
	0x01,                               // number of types
	0x60, 0x02, 0x7f, 0x7f, 0x01, 0x7f, // (func (param i32 i32) (result i32))
	// Function section
	0x03, 0x02, // section id, section size
	0x01, // number of functions
	0x00, // function 0, type 0
	// Memory section
	0x05, 0x03, // section id, section size
	0x01,       // number of memories
	0x00, 0x01, // memory 0: min=1 page
	// Export section
	0x07, 0x15, // section id, section size (21 bytes)
	0x02,                                                 // number of exports
	0x06, 0x6d, 0x65, 0x6d, 0x6f, 0x72, 0x79, 0x02, 0x00, // export "memory"
	0x08, 0x76, 0x61, 0x6c, 0x69, 0x64, 0x61, 0x74, 0x65, 0x00, 0x00, // export "validate"
	// Code section
	0x0a, 0x06, // section id, section size (6 bytes)
	0x01,       // number of functions
	0x04,       // function body size (4 bytes)
	0x00,       // number of local declarations
	0x20, 0x01, // local.get 1
	0x0b, // end
}

// GetTestModule returns a minimal oracle module for testing
func GetTestModule() []byte {
	return testOracleModule
}
