package app

import (
	"sync"

	"github.com/zjrosen/policywizard/internal/confirm"
	"github.com/zjrosen/policywizard/internal/log"
)

// modalRequest is a confirmation the core asked the UI to show.
type modalRequest struct {
	controller string
	template   string
	title      string
	message    string
	result     *confirm.Result
}

// modalHost implements confirm.ModalOpener for the TUI. OpenModal only
// records the request; the Update loop picks it up with take, shows the
// modal and settles the result when the user answers.
type modalHost struct {
	mu      sync.Mutex
	queued  *modalRequest
	showing *modalRequest
}

func newModalHost() *modalHost {
	return &modalHost{}
}

// OpenModal queues a confirmation. A request still queued or showing is
// rejected first so at most one prompt is ever outstanding.
func (h *modalHost) OpenModal(controller, templateURL string, resolve confirm.Resolve) confirm.Instance {
	req := &modalRequest{
		controller: controller,
		template:   templateURL,
		result:     confirm.NewResult(),
	}
	if resolve.Title != nil {
		req.title = resolve.Title()
	}
	if resolve.Message != nil {
		req.message = resolve.Message()
	}

	h.mu.Lock()
	stale := []*modalRequest{h.queued, h.showing}
	h.queued, h.showing = req, nil
	h.mu.Unlock()

	for _, s := range stale {
		if s != nil {
			log.Warn(log.CatUI, "replacing unanswered modal", "controller", s.controller)
			s.result.Reject()
		}
	}
	log.Debug(log.CatUI, "modal requested", "controller", controller, "template", templateURL)
	return confirm.Instance{Result: req.result}
}

// take moves the queued request to showing and returns it.
func (h *modalHost) take() (*modalRequest, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.queued == nil {
		return nil, false
	}
	h.showing, h.queued = h.queued, nil
	return h.showing, true
}

// answer settles the request being shown. It reports false when nothing
// was showing.
func (h *modalHost) answer(confirmed bool) bool {
	h.mu.Lock()
	req := h.showing
	h.showing = nil
	h.mu.Unlock()

	if req == nil {
		return false
	}
	if confirmed {
		req.result.Resolve()
	} else {
		req.result.Reject()
	}
	log.Debug(log.CatUI, "modal answered", "controller", req.controller, "confirmed", confirmed)
	return true
}

// close rejects anything outstanding.
func (h *modalHost) close() {
	h.mu.Lock()
	reqs := []*modalRequest{h.queued, h.showing}
	h.queued, h.showing = nil, nil
	h.mu.Unlock()

	for _, r := range reqs {
		if r != nil {
			r.result.Reject()
		}
	}
}
