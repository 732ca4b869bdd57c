package controller

import (
	"net/http"
	"time"

	"github.com/skillvine/frontend/internal/flash"
	"github.com/skillvine/frontend/internal/notice"
)

// Flash turns a pending flash cookie into a success notice on page render.
type Flash struct {
	store    *flash.Store
	duration time.Duration
}

func NewFlash(store *flash.Store, duration time.Duration) *Flash {
	return &Flash{store: store, duration: duration}
}

// Load shows the flash message, if any, and expires its cookie.
func (c *Flash) Load(w http.ResponseWriter, r *http.Request, notices *notice.Service) bool {
	msg, ok := c.store.Pop(w, r)
	if !ok {
		return false
	}
	notices.Show(msg, notice.Success, c.duration)
	return true
}
