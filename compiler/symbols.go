package compiler

import "github.com/IsVohi/ByteCode-Compiler/ast"

// enterScope pushes a new innermost scope.
func (c *Compiler) enterScope() {
	c.scopes = append(c.scopes, map[string]uint16{})
}

// leaveScope pops the innermost scope, releasing its slots for reuse by
// sibling scopes. The peak slot count is retained in maxSlots.
func (c *Compiler) leaveScope() {
	last := c.scopes[len(c.scopes)-1]
	c.slotCount -= len(last)
	c.scopes = c.scopes[:len(c.scopes)-1]
}

// resolve searches the active scopes innermost-first for a name and
// returns its slot index.
func (c *Compiler) resolve(name string) (uint16, bool) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if slot, ok := c.scopes[i][name]; ok {
			return slot, true
		}
	}
	return 0, false
}

// define resolves a name, allocating the next available slot in the
// innermost scope when the name is not yet defined. The next available
// slot equals the sum of the sizes of all active scopes.
func (c *Compiler) define(name *ast.Ident) (uint16, error) {
	if slot, ok := c.resolve(name.Name); ok {
		return slot, nil
	}
	slot := c.slotCount
	if slot >= MaxLocals {
		return 0, c.nodeError(name, "local variable limit of %d exceeded", MaxLocals)
	}
	c.scopes[len(c.scopes)-1][name.Name] = uint16(slot)
	c.slotCount++
	if c.slotCount > c.maxSlots {
		c.maxSlots = c.slotCount
	}
	return uint16(slot), nil
}
