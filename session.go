package bcc

import (
	"github.com/IsVohi/ByteCode-Compiler/compiler"
	"github.com/IsVohi/ByteCode-Compiler/object"
	"github.com/IsVohi/ByteCode-Compiler/parser"
	"github.com/IsVohi/ByteCode-Compiler/vm"
)

// Session evaluates source fragments incrementally, carrying the
// compiler's function table, constant pool, and symbol scopes, and the
// VM's local slots forward between fragments. The value stack and call
// stack are cleared before each fragment, and the implicit trailing
// "return 0" of file mode is suppressed so fragments concatenate.
//
// This is the engine behind the interactive shell: variables and
// functions defined by one fragment remain visible to the next.
type Session struct {
	options  []Option
	cfg      *config
	compiler *compiler.Compiler
	machine  *vm.VirtualMachine
}

// NewSession returns an empty Session. The optimizer option is ignored:
// fragments are compiled unoptimized so that partial input never
// triggers rewriting surprises between fragments.
func NewSession(options ...Option) *Session {
	s := &Session{options: options}
	s.Reset()
	return s
}

// Feed parses, compiles, and executes one source fragment, returning the
// value the fragment evaluates to. Void results indicate the fragment
// was a statement with no value.
func (s *Session) Feed(source string) (object.Object, error) {
	fragment, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}
	program, err := s.compiler.Compile(fragment)
	if err != nil {
		return nil, err
	}
	return s.machine.RunIncremental(program)
}

// Printed returns the values printed by the most recent Feed.
func (s *Session) Printed() []object.Object {
	return s.machine.Printed()
}

// Reset discards all accumulated state: defined functions, variables,
// and bytecode.
func (s *Session) Reset() {
	s.cfg = newConfig(s.options)
	s.compiler = compiler.New(&compiler.Config{Incremental: true})
	s.machine = vm.New(s.cfg.vmOptions()...)
}
