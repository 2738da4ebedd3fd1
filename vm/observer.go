package vm

import "github.com/IsVohi/ByteCode-Compiler/op"

// StepEvent describes one executed instruction.
type StepEvent struct {
	IP         int
	Opcode     op.Code
	StackDepth int
	FrameDepth int
}

// Observer receives a callback for every instruction the VM executes.
// Implementations should be fast: the callback runs synchronously inside
// the dispatch loop.
type Observer interface {
	OnStep(event StepEvent)
}
