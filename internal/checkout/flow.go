package checkout

import (
	"errors"
	"sync"
)

type Step string

const (
	StepCart    Step = "cart"
	StepDetails Step = "details"
	StepReview  Step = "review"
)

var ErrInvalidStep = errors.New("invalid checkout step")

func (s Step) Valid() bool {
	switch s {
	case StepCart, StepDetails, StepReview:
		return true
	}
	return false
}

// Flow est l'étape courante du checkout d'un visiteur.
type Flow struct {
	mu   sync.Mutex
	step Step
}

func (f *Flow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step == "" {
		return StepCart
	}
	return f.step
}

func (f *Flow) Set(s Step) error {
	if !s.Valid() {
		return ErrInvalidStep
	}
	f.mu.Lock()
	f.step = s
	f.mu.Unlock()
	return nil
}

// Complete ramène le flux à l'étape initiale après l'envoi de la commande.
func (f *Flow) Complete() {
	f.mu.Lock()
	f.step = StepCart
	f.mu.Unlock()
}

// Flows garde un Flow par visiteur.
type Flows struct {
	mu    sync.Mutex
	flows map[string]*Flow
}

func NewFlows() *Flows {
	return &Flows{flows: make(map[string]*Flow)}
}

func (fs *Flows) For(visitor string) *Flow {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	f, ok := fs.flows[visitor]
	if !ok {
		f = &Flow{step: StepCart}
		fs.flows[visitor] = f
	}
	return f
}
