package handler

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/skillvine/frontend/internal/controller"
	"github.com/skillvine/frontend/internal/middleware"
	"github.com/skillvine/frontend/internal/notice"
	"github.com/skillvine/frontend/shared/logger"
)

// CommonTemplateData holds fields that are common to all page templates.
// Available in templates as .Common via the TemplateData wrapper.
type CommonTemplateData struct {
	Error      string
	Notice     template.HTML
	CSRFToken  string
	Navigation *controller.Navigation
}

// TemplateData wraps page-specific data with common template data.
// Templates access page data via .Data and common data via .Common.
type TemplateData struct {
	Data   any
	Common CommonTemplateData
}

// page is the render state of one request. Its notice service lives exactly
// as long as the request.
type page struct {
	notices    *notice.Service
	err        string
	status     int
	navigation *controller.Navigation
}

// newPage starts a page. withFlash consumes a pending flash message, which
// only pages that stay on screen should do.
func (h *Handler) newPage(w http.ResponseWriter, r *http.Request, withFlash bool) *page {
	p := &page{notices: notice.New(), status: http.StatusOK}
	if withFlash {
		h.flash.Load(w, r, p.notices)
	}
	return p
}

func (p *page) apply(res controller.Result) {
	p.err = res.Error
	if res.Status != 0 {
		p.status = res.Status
	}
	p.navigation = res.Navigation
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, p *page, name string, data any) {
	defer p.notices.Close()

	tmpl, ok := h.getTemplate(name)
	if !ok {
		http.Error(w, fmt.Sprintf("Template %s not found", name), http.StatusInternalServerError)
		return
	}

	wrapped := TemplateData{
		Data: data,
		Common: CommonTemplateData{
			Error:      p.err,
			Notice:     p.notices.Render(),
			CSRFToken:  middleware.GetCSRFTokenFromContext(r),
			Navigation: p.navigation,
		},
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, wrapped); err != nil {
		logger.Log.Error("error executing template", "template", name, "error", err)
		http.Error(w, "Internal Server Error rendering template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if nav := p.navigation; nav != nil {
		w.Header().Set("Refresh", strconv.Itoa(RefreshSeconds(nav.After))+"; url="+nav.URL)
	}
	w.WriteHeader(p.status)
	_, _ = buf.WriteTo(w)
}
