package admin

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/ahscorp/hiring-hive-platform/internal/auth"
	"github.com/ahscorp/hiring-hive-platform/internal/model"
)

// Panel is the admin board kept in memory. It changes local state only after
// the backend confirms a mutation; a failed mutation leaves it untouched.
type Panel struct {
	svc *Service

	mu    sync.RWMutex
	board Board
}

// NewPanel creates an empty panel over svc.
func NewPanel(svc *Service) *Panel {
	return &Panel{svc: svc}
}

// Refresh replaces the local board with the backend's.
func (p *Panel) Refresh(ctx context.Context, session *auth.Session) error {
	board, err := p.svc.List(ctx, session)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.board = board
	p.mu.Unlock()
	return nil
}

// Jobs returns a copy of the local job list.
func (p *Panel) Jobs() []model.Job {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]model.Job, len(p.board.Jobs))
	for i, j := range p.board.Jobs {
		j.Applications = append([]model.Application(nil), j.Applications...)
		out[i] = j
	}
	return out
}

func (p *Panel) indexOf(id uuid.UUID) int {
	for i := range p.board.Jobs {
		if p.board.Jobs[i].ID == id {
			return i
		}
	}
	return -1
}

func (p *Panel) localJob(id uuid.UUID) (model.Job, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	i := p.indexOf(id)
	if i < 0 {
		return model.Job{}, ErrNotFound
	}
	return p.board.Jobs[i], nil
}

// ToggleStatus flips job id between Published and Draft and returns the new status.
func (p *Panel) ToggleStatus(ctx context.Context, session *auth.Session, id uuid.UUID) (string, error) {
	job, err := p.localJob(id)
	if err != nil {
		return "", err
	}
	next := job.ToggledStatus()
	if err := p.svc.SetStatus(ctx, session, id, next); err != nil {
		return "", err
	}

	p.mu.Lock()
	if i := p.indexOf(id); i >= 0 {
		p.board.Jobs[i].Status = next
	}
	p.mu.Unlock()
	return next, nil
}

// Delete removes job id.
func (p *Panel) Delete(ctx context.Context, session *auth.Session, id uuid.UUID) error {
	if _, err := p.localJob(id); err != nil {
		return err
	}
	if err := p.svc.Delete(ctx, session, id); err != nil {
		return err
	}

	p.mu.Lock()
	if i := p.indexOf(id); i >= 0 {
		p.board.Jobs = append(p.board.Jobs[:i:i], p.board.Jobs[i+1:]...)
	}
	p.mu.Unlock()
	return nil
}

func (p *Panel) findApplication(id uuid.UUID) (int, int, bool) {
	for i := range p.board.Jobs {
		for k := range p.board.Jobs[i].Applications {
			if p.board.Jobs[i].Applications[k].ID == id {
				return i, k, true
			}
		}
	}
	return 0, 0, false
}

// ToggleProcessed flips the processed flag of application id and returns the new value.
func (p *Panel) ToggleProcessed(ctx context.Context, session *auth.Session, id uuid.UUID) (bool, error) {
	p.mu.RLock()
	i, k, ok := p.findApplication(id)
	var next bool
	if ok {
		next = !p.board.Jobs[i].Applications[k].Processed
	}
	p.mu.RUnlock()
	if !ok {
		return false, ErrNotFound
	}

	if err := p.svc.SetApplicationProcessed(ctx, session, id, next); err != nil {
		return false, err
	}

	p.mu.Lock()
	if i, k, ok := p.findApplication(id); ok {
		p.board.Jobs[i].Applications[k].Processed = next
	}
	p.mu.Unlock()
	return next, nil
}

// Save creates a job when id is nil and updates job id otherwise.
func (p *Panel) Save(ctx context.Context, session *auth.Session, id *uuid.UUID, in JobInput) (model.Job, error) {
	var (
		job model.Job
		err error
	)
	if id == nil {
		job, err = p.svc.Create(ctx, session, in)
	} else {
		job, err = p.svc.Update(ctx, session, *id, in)
	}
	if err != nil {
		return model.Job{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if i := p.indexOf(job.ID); i >= 0 {
		job.Applications = p.board.Jobs[i].Applications
		p.board.Jobs[i] = job
	} else {
		p.board.Jobs = append([]model.Job{job}, p.board.Jobs...)
	}
	return job, nil
}
