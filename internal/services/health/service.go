package health

import (
	"context"
	"sort"
	"time"
)

// Checker probes one dependency.
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

// CheckFunc adapts a function to Checker.
type CheckFunc struct {
	Label string
	Fn    func(ctx context.Context) error
}

func (f CheckFunc) Name() string                    { return f.Label }
func (f CheckFunc) Check(ctx context.Context) error { return f.Fn(ctx) }

// Service encapsulates health-related checks.
type Service struct {
	checkers []Checker
	timeout  time.Duration
}

// NewService constructs a new health service.
func NewService(checkers ...Checker) *Service {
	return &Service{checkers: checkers, timeout: 2 * time.Second}
}

// Status is the health payload.
type Status struct {
	OK     bool              `json:"ok"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Status runs every checker and reports "ok" or the error text per dependency.
func (s *Service) Status(ctx context.Context) Status {
	out := Status{OK: true}
	if len(s.checkers) == 0 {
		return out
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	out.Checks = make(map[string]string, len(s.checkers))
	for _, checker := range s.checkers {
		if err := checker.Check(ctx); err != nil {
			out.OK = false
			out.Checks[checker.Name()] = err.Error()
			continue
		}
		out.Checks[checker.Name()] = "ok"
	}
	return out
}

// Names lists the configured checks.
func (s *Service) Names() []string {
	names := make([]string, 0, len(s.checkers))
	for _, checker := range s.checkers {
		names = append(names, checker.Name())
	}
	sort.Strings(names)
	return names
}
