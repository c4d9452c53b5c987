package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"tech-selector/internal/models"
	"tech-selector/internal/session"
	"tech-selector/internal/view"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Index renders the page from the caller's draft and the current results
func (h *Handler) Index(c *gin.Context) {
	id := h.sessionID(c)

	results, err := h.evaluator.Results(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to compute results", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load results"})
		return
	}

	flash := h.sessions.PopFlash(id)
	draft := h.sessions.View(id)

	page := view.Page{
		EvaluatorName: draft.EvaluatorName,
		Comment:       draft.Comment,
		Selections:    draft.Selections,
		Results:       results,
	}
	if flash != nil {
		page.FlashKind = flash.Kind
		page.FlashMessage = flash.Message
	}

	c.Header("Cache-Control", "no-store")
	templ.Handler(view.Index(page)).ServeHTTP(c.Writer, c.Request)
}

// formDraft is the evaluation form as posted by the page
type formDraft struct {
	name       string
	hasName    bool
	comment    string
	hasComment bool
	selections models.SelectionMatrix
}

func parseForm(c *gin.Context) (*formDraft, error) {
	f := &formDraft{}
	f.name, f.hasName = c.GetPostForm("evaluator_name")
	f.comment, f.hasComment = c.GetPostForm("comments")

	// unchecked boxes are not posted, so absent cells are false
	for _, v := range c.PostFormArray("cell") {
		t, crit, err := view.ParseCellValue(v)
		if err != nil {
			return nil, err
		}
		f.selections.Set(t, crit, true)
	}
	return f, nil
}

func (f *formDraft) apply(d *session.Draft) {
	if f.hasName {
		d.EvaluatorName = f.name
	}
	if f.hasComment {
		d.Comment = f.comment
	}
	d.Selections = f.selections
}

func redirectHome(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/")
}

// SaveDraft stores the posted form without submitting it
func (h *Handler) SaveDraft(c *gin.Context) {
	form, err := parseForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.sessions.Update(h.sessionID(c), form.apply)
	redirectHome(c)
}

// ToggleCell flips or sets one grid cell. The cell is given either as
// "cell=tech-a:criteria-1" or as separate technology and criterion fields;
// an optional "value" sets it instead of flipping.
func (h *Handler) ToggleCell(c *gin.Context) {
	tech, crit, err := cellFromRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var value *bool
	if raw, ok := c.GetPostForm("value"); ok {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid value %q", raw)})
			return
		}
		value = &v
	}

	var selected bool
	h.sessions.Update(h.sessionID(c), func(d *session.Draft) {
		if value != nil {
			d.Selections.Set(tech, crit, *value)
			selected = *value
			return
		}
		selected = d.Selections.Toggle(tech, crit)
	})

	c.JSON(http.StatusOK, gin.H{
		"technology": tech.String(),
		"criterion":  crit.String(),
		"selected":   selected,
	})
}

func cellFromRequest(c *gin.Context) (models.Technology, models.Criterion, error) {
	if cell, ok := c.GetPostForm("cell"); ok {
		return view.ParseCellValue(cell)
	}

	tech, err := models.ParseTechnology(c.PostForm("technology"))
	if err != nil {
		return 0, 0, err
	}
	crit, err := models.ParseCriterion(c.PostForm("criterion"))
	if err != nil {
		return 0, 0, err
	}
	return tech, crit, nil
}

// ResetGrid clears every cell of the caller's draft
func (h *Handler) ResetGrid(c *gin.Context) {
	h.sessions.Update(h.sessionID(c), func(d *session.Draft) {
		d.Selections.Reset()
	})
	redirectHome(c)
}

// Submit stores the posted form and submits it as an evaluation
func (h *Handler) Submit(c *gin.Context) {
	id := h.sessionID(c)

	form, err := parseForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.sessions.Update(id, form.apply)

	evaluation, err := h.evaluator.SubmitDraft(c.Request.Context(), h.sessions, id)
	if err != nil {
		msg, ok := validationMessage(err)
		if !ok {
			h.logger.Error("Failed to submit evaluation", zap.Error(err))
			msg = "Your evaluation could not be saved, please try again."
		}
		h.setFlash(id, session.FlashError, msg)
		redirectHome(c)
		return
	}

	h.setFlash(id, session.FlashSuccess,
		fmt.Sprintf("✅ Thank you, %s! Your evaluation has been submitted.", evaluation.EvaluatorName))
	redirectHome(c)
}

func (h *Handler) setFlash(id, kind, message string) {
	h.sessions.Update(id, func(d *session.Draft) {
		d.Flash = &session.Flash{Kind: kind, Message: message}
	})
}
