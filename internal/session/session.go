// Package session owns the editable prompt workspace and runs the
// resolve, dispatch and commit cycle against the history and settings stores.
package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/HartBrook/sharpen/internal/errors"
	"github.com/HartBrook/sharpen/internal/history"
	"github.com/HartBrook/sharpen/internal/instruction"
	"github.com/HartBrook/sharpen/internal/settings"
	"github.com/HartBrook/sharpen/internal/template"
)

// Backend rewrites a resolved prompt. *optimize.Dispatcher implements it.
type Backend interface {
	Optimize(ctx context.Context, prompt string, target instruction.Target, s settings.Settings) (string, error)
}

// Workspace is a snapshot of the editable state.
type Workspace struct {
	Prompt    string
	Variables map[string]string
	Target    instruction.Target
}

// Result describes a completed optimization.
type Result struct {
	Entry history.Entry
	// Applied is false when the workspace was edited while the call was in
	// flight, in which case the newer prompt was kept.
	Applied bool
}

// Session holds one workspace. It is safe for concurrent use.
type Session struct {
	mu       sync.Mutex
	prompt   string
	vars     map[string]string
	target   instruction.Target
	revision uint64

	backend  Backend
	history  *history.Store
	settings *settings.Store
	logger   *slog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithTarget sets the initial target.
func WithTarget(t instruction.Target) Option {
	return func(s *Session) {
		s.target = t
	}
}

// New creates a session with an empty prompt targeting Gemini.
func New(backend Backend, hist *history.Store, st *settings.Store, opts ...Option) *Session {
	s := &Session{
		vars:     map[string]string{},
		target:   instruction.Gemini,
		backend:  backend,
		history:  hist,
		settings: st,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetPrompt replaces the prompt. Variables whose placeholder survives keep
// their value; new placeholders start empty.
func (s *Session) SetPrompt(p string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setPromptLocked(p)
}

func (s *Session) setPromptLocked(p string) {
	s.prompt = p
	s.vars = template.Reconcile(s.vars, template.ExtractVariables(p))
	s.revision++
}

// Variables returns the placeholder names of the current prompt in order of
// first appearance.
func (s *Session) Variables() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return template.ExtractVariables(s.prompt)
}

// SetVariable sets the value for a placeholder of the current prompt.
func (s *Session) SetVariable(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.vars[name]; !ok {
		return errors.Invalid("prompt has no variable %q", name)
	}
	s.vars[name] = value
	s.revision++
	return nil
}

// SetTarget sets the target model family.
func (s *Session) SetTarget(t instruction.Target) error {
	if !t.Valid() {
		return errors.Invalid("unknown target %q", t)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.target = t
	s.revision++
	return nil
}

// ApplyTemplate loads a template's prompt into the workspace.
func (s *Session) ApplyTemplate(t template.Template) {
	s.SetPrompt(t.Prompt)
}

// Reuse loads a history entry's optimized prompt and target. Variables are
// reset.
func (s *Session) Reuse(id int64) error {
	e, ok := s.history.Get(id)
	if !ok {
		return errors.EntryNotFound(id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.vars = nil
	s.setPromptLocked(e.OptimizedPrompt)
	if e.TargetModel.Valid() {
		s.target = e.TargetModel
	}
	return nil
}

// Resolve returns the prompt with every variable substituted. Unset
// variables resolve to "".
func (s *Session) Resolve() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return template.Substitute(s.prompt, s.vars)
}

// Snapshot returns a copy of the workspace.
func (s *Session) Snapshot() Workspace {
	s.mu.Lock()
	defer s.mu.Unlock()

	vars := make(map[string]string, len(s.vars))
	for k, v := range s.vars {
		vars[k] = v
	}
	return Workspace{Prompt: s.prompt, Variables: vars, Target: s.target}
}

type outcome struct {
	text string
	err  error
}

// Optimize resolves the prompt, dispatches it and commits the result.
//
// Once dispatched the backend call runs to completion even if ctx is
// cancelled. A result that arrives after ctx is done is dropped without
// touching history or the workspace.
func (s *Session) Optimize(ctx context.Context) (Result, error) {
	s.mu.Lock()
	resolved := template.Substitute(s.prompt, s.vars)
	target := s.target
	rev := s.revision
	s.mu.Unlock()

	if strings.TrimSpace(resolved) == "" {
		return Result{}, errors.EmptyPrompt()
	}

	cfg := s.settings.Current()
	done := make(chan outcome, 1)
	go func() {
		text, err := s.backend.Optimize(context.WithoutCancel(ctx), resolved, target, cfg)
		done <- outcome{text: text, err: err}
	}()

	var out outcome
	select {
	case <-ctx.Done():
		s.logger.Debug("caller gave up, result will be discarded", "error", ctx.Err())
		return Result{}, ctx.Err()
	case out = <-done:
	}
	if out.err != nil {
		return Result{}, out.err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	entry, err := s.history.Record(ctx, resolved, out.text, target)
	if err != nil {
		return Result{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.revision != rev {
		s.logger.Debug("workspace changed during optimization, keeping newer prompt", "entry", entry.ID)
		return Result{Entry: entry}, nil
	}
	s.vars = nil
	s.setPromptLocked(out.text)
	return Result{Entry: entry, Applied: true}, nil
}
