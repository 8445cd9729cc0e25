package container

// resolutionStack is the chain of types being resolved on the current call
// path of one Container view. A type never appears twice.
type resolutionStack struct {
	items []string
}

func (s *resolutionStack) push(typeName string) {
	s.items = append(s.items, typeName)
}

func (s *resolutionStack) contains(typeName string) bool {
	for _, item := range s.items {
		if item == typeName {
			return true
		}
	}
	return false
}

// unwind pops entries until typeName has been removed. It tolerates a stack
// that nested calls have already unwound and is a no-op on an empty stack.
func (s *resolutionStack) unwind(typeName string) {
	for len(s.items) > 0 {
		top := s.items[len(s.items)-1]
		s.items = s.items[:len(s.items)-1]
		if top == typeName {
			return
		}
	}
}

func (s *resolutionStack) len() int { return len(s.items) }

// snapshot returns a copy of the stack, bottom first.
func (s *resolutionStack) snapshot() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}
