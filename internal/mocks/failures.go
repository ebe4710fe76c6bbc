package mocks

import "sync"

// Failures lets a test make a named operation return an error.
type Failures struct {
	mu   sync.Mutex
	errs map[string]error
}

// FailOn makes every later call to op return err. A nil err clears it.
func (f *Failures) FailOn(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errs == nil {
		f.errs = make(map[string]error)
	}
	if err == nil {
		delete(f.errs, op)
		return
	}
	f.errs[op] = err
}

func (f *Failures) check(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errs[op]
}
