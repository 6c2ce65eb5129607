package pricing

// LockCount entradas vivas en la tabla de locks por sesión.
func (s *SessionService) LockCount() int { return s.lockCount() }
