package ecs

// CommandBuffer accumulates deferred commands during a scheduler tick.
type CommandBuffer struct {
	commands []Command
}

// NewCommandBuffer creates an empty buffer.
func NewCommandBuffer() *CommandBuffer {
	return &CommandBuffer{}
}

// Len reports how many commands are queued.
func (b *CommandBuffer) Len() int {
	return len(b.commands)
}

// Push appends a command to the buffer. Nil commands are dropped.
func (b *CommandBuffer) Push(cmd Command) {
	if cmd == nil {
		return
	}
	b.commands = append(b.commands, cmd)
}

// Drain returns queued commands and resets the buffer, keeping its capacity.
func (b *CommandBuffer) Drain() []Command {
	if len(b.commands) == 0 {
		return nil
	}
	drained := make([]Command, len(b.commands))
	copy(drained, b.commands)
	clear(b.commands)
	b.commands = b.commands[:0]
	return drained
}

// Snapshot returns the current command count so callers can restore later.
func (b *CommandBuffer) Snapshot() int {
	return len(b.commands)
}

// Restore truncates the buffer back to snapshot, discarding commands
// queued by a failed system.
func (b *CommandBuffer) Restore(snapshot int) {
	if snapshot < 0 {
		snapshot = 0
	}
	if snapshot >= len(b.commands) {
		return
	}
	clear(b.commands[snapshot:])
	b.commands = b.commands[:snapshot]
}
