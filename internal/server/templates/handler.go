// Copyright (C) 2024 the quixsi maintainers
// See root-dir/LICENSE for more information

package templates

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/yuin/goldmark"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/quixsi/seating/internal/directory"
	"github.com/quixsi/seating/internal/parser/form"
	"github.com/quixsi/seating/internal/session"
)

//go:embed *.html
var templates embed.FS

const (
	// ContextKeySession holds the page session id set by the session middleware.
	ContextKeySession = "session"
	// ContextKeyController holds the *directory.Controller of that session.
	ContextKeyController = "controller"
)

// tables are drawn with this radius; the map is padded by it.
const tableRadius = 45

type searchForm struct {
	Query string `form:"q"`
}

type selectGuestForm struct {
	Table string `form:"table,required"`
}

type closeModalForm struct {
	Target string `form:"target"`
}

type widgetData struct {
	Session   string
	View      directory.View
	MapWidth  float64
	MapHeight float64
}

type pageData struct {
	Title   string
	Welcome template.HTML
	Widget  widgetData
}

func NewWidgetHandler(sessions *session.Store, title, welcome string) (*WidgetHandler, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(welcome), &buf); err != nil {
		return nil, fmt.Errorf("rendering welcome text: %w", err)
	}

	tmpl, err := template.New("").Funcs(template.FuncMap{
		"pathescape": url.PathEscape,
	}).ParseFS(templates, "*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	return &WidgetHandler{
		tmpl:     tmpl,
		sessions: sessions,
		title:    title,
		welcome:  template.HTML(buf.String()),
		logger:   slog.Default().WithGroup("http"),
	}, nil
}

type WidgetHandler struct {
	tmpl     *template.Template
	sessions *session.Store
	title    string
	welcome  template.HTML
	logger   *slog.Logger
}

// RenderPage opens a new page session and renders the whole directory.
func (h *WidgetHandler) RenderPage(c *gin.Context) {
	var span trace.Span
	ctx := c.Request.Context()
	ctx, span = tracer.Start(ctx, "WidgetHandler.RenderPage")
	defer span.End()

	id, ctrl, err := h.sessions.Create(ctx)
	if errors.Is(err, session.ErrFull) {
		span.RecordError(err)
		h.logger.WarnContext(ctx, "can not open more sessions", "error", err)
		c.String(http.StatusServiceUnavailable, "too many visitors, please try again later")
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.logger.ErrorContext(ctx, "could not create session", "error", err)
		c.String(http.StatusInternalServerError, "could not create session")
		return
	}
	span.SetAttributes(attribute.String("session", id.String()))

	h.renderPage(c, ctx, id.String(), ctrl.View(ctx))
}

// RenderView re-renders the widget of an existing session.
func (h *WidgetHandler) RenderView(c *gin.Context) {
	var span trace.Span
	ctx := c.Request.Context()
	ctx, span = tracer.Start(ctx, "WidgetHandler.RenderView")
	defer span.End()

	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	h.render(c, ctx, ctrl.View(ctx))
}

func (h *WidgetHandler) Search(c *gin.Context) {
	var span trace.Span
	ctx := c.Request.Context()
	ctx, span = tracer.Start(ctx, "WidgetHandler.Search")
	defer span.End()

	var payload searchForm
	if !h.bind(c, ctx, span, &payload) {
		return
	}
	h.dispatch(c, ctx, span, directory.QueryChanged{Query: payload.Query})
}

func (h *WidgetHandler) Clear(c *gin.Context) {
	var span trace.Span
	ctx := c.Request.Context()
	ctx, span = tracer.Start(ctx, "WidgetHandler.Clear")
	defer span.End()

	h.dispatch(c, ctx, span, directory.ClearRequested{})
}

func (h *WidgetHandler) ToggleViewAll(c *gin.Context) {
	var span trace.Span
	ctx := c.Request.Context()
	ctx, span = tracer.Start(ctx, "WidgetHandler.ToggleViewAll")
	defer span.End()

	h.dispatch(c, ctx, span, directory.ViewAllToggled{})
}

// SelectGuest handles a click on a result card.
func (h *WidgetHandler) SelectGuest(c *gin.Context) {
	var span trace.Span
	ctx := c.Request.Context()
	ctx, span = tracer.Start(ctx, "WidgetHandler.SelectGuest")
	defer span.End()

	var payload selectGuestForm
	if !h.bind(c, ctx, span, &payload) {
		return
	}
	h.dispatch(c, ctx, span, directory.GuestSelected{Table: payload.Table})
}

// SelectTable handles a click on a table of the seating map.
func (h *WidgetHandler) SelectTable(c *gin.Context) {
	var span trace.Span
	ctx := c.Request.Context()
	ctx, span = tracer.Start(ctx, "WidgetHandler.SelectTable")
	defer span.End()

	h.dispatch(c, ctx, span, directory.TableSelected{Table: c.Param("table")})
}

func (h *WidgetHandler) CloseModal(c *gin.Context) {
	var span trace.Span
	ctx := c.Request.Context()
	ctx, span = tracer.Start(ctx, "WidgetHandler.CloseModal")
	defer span.End()

	var payload closeModalForm
	if !h.bind(c, ctx, span, &payload) {
		return
	}
	target := directory.DismissClose
	switch payload.Target {
	case "backdrop":
		target = directory.DismissBackdrop
	case "content":
		target = directory.DismissContent
	}
	h.dispatch(c, ctx, span, directory.ModalDismissed{Target: target})
}

func (h *WidgetHandler) bind(c *gin.Context, ctx context.Context, span trace.Span, target any) bool {
	if err := c.Request.ParseForm(); err != nil {
		span.RecordError(err)
		h.logger.ErrorContext(ctx, "could not parse form", "error", err)
		c.String(http.StatusBadRequest, "could not parse form")
		return false
	}
	if err := form.Unmarshal(c.Request.PostForm, target); err != nil {
		span.RecordError(err)
		h.logger.WarnContext(ctx, "invalid form", "error", err)
		c.String(http.StatusBadRequest, "invalid form")
		return false
	}
	return true
}

func (h *WidgetHandler) dispatch(c *gin.Context, ctx context.Context, span trace.Span, e directory.Event) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	span.SetAttributes(attribute.String("event", string(e.Name())))

	v, err := ctrl.Dispatch(ctx, e)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.logger.ErrorContext(ctx, "could not apply event", "event", e.Name(), "error", err)
		c.String(http.StatusInternalServerError, "could not apply event")
		return
	}
	h.render(c, ctx, v)
}

func (h *WidgetHandler) controller(c *gin.Context) (*directory.Controller, bool) {
	v, ok := c.Get(ContextKeyController)
	if ctrl, isCtrl := v.(*directory.Controller); ok && isCtrl {
		return ctrl, true
	}
	h.logger.ErrorContext(c.Request.Context(), "no session controller in context")
	c.String(http.StatusInternalServerError, "missing session")
	return nil, false
}

// render answers htmx requests with the widget fragment and everything
// else with the full page.
func (h *WidgetHandler) render(c *gin.Context, ctx context.Context, v directory.View) {
	id := c.GetString(ContextKeySession)
	if c.Request.Header.Get("Hx-Request") != "true" {
		h.renderPage(c, ctx, id, v)
		return
	}
	h.execute(c, ctx, "WIDGET", newWidgetData(id, v))
}

func (h *WidgetHandler) renderPage(c *gin.Context, ctx context.Context, id string, v directory.View) {
	// The page already carries the search input; it must not be swapped in
	// a second time.
	v.ResetInput = false
	h.execute(c, ctx, "PAGE", pageData{
		Title:   h.title,
		Welcome: h.welcome,
		Widget:  newWidgetData(id, v),
	})
}

func (h *WidgetHandler) execute(c *gin.Context, ctx context.Context, name string, data any) {
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		h.logger.ErrorContext(ctx, "failed to execute template", "template", name, "error", err)
		c.String(http.StatusInternalServerError, "could not render page")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func newWidgetData(id string, v directory.View) widgetData {
	d := widgetData{Session: id, View: v}
	for _, t := range v.Tables {
		d.MapWidth = max(d.MapWidth, t.X+tableRadius+15)
		d.MapHeight = max(d.MapHeight, t.Y+tableRadius+15)
	}
	return d
}
