package models

// Session holds the controller state that lives for one run of the
// program: the name the next save or package uses, and the last known
// backend reachability. It is never persisted.
type Session struct {
	CurrentFileName  string
	PrinterConnected bool
}

func NewSession(defaultFileName string) *Session {
	return &Session{
		CurrentFileName:  defaultFileName,
		PrinterConnected: false,
	}
}

// SetFile records a newly loaded, saved, or derived file name.
func (s *Session) SetFile(name string) {
	if name != "" {
		s.CurrentFileName = name
	}
}
