package controller

import (
	"bytes"
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2/utils"
	"github.com/rs/zerolog/log"

	"earn-dashboard/internal/models"
	"earn-dashboard/internal/render"
	"earn-dashboard/internal/state"
)

// Fragment is the markup swapped into the content container.
type Fragment struct {
	Page   models.Page
	HTML   []byte
	Failed bool
}

// LoadPage makes name the active page and renders it. Render failures never escape: they are
// logged and replaced by the generic error block. name may point into a request buffer, so the
// session only ever keeps a copy.
func (c *Controller) LoadPage(ctx context.Context, sess *state.Session, name string) Fragment {
	page, ok := models.ParsePage(name)
	if !ok {
		page = models.Page(utils.CopyString(name))
	}
	sess.SetPage(page)

	v := c.pageInputs(ctx, sess, page)

	var buf bytes.Buffer
	err := c.safeRender(&buf, page, v)
	if err == nil {
		return Fragment{Page: page, HTML: buf.Bytes()}
	}

	log.Error().Err(err).Str("page", name).Str("sid", sess.ID()).Msg("render page")
	buf.Reset()
	if ferr := c.renderer.ErrorFragment(&buf); ferr != nil {
		log.Error().Err(ferr).Msg("render error fragment")
	}
	return Fragment{Page: page, HTML: buf.Bytes(), Failed: true}
}

func (c *Controller) pageInputs(ctx context.Context, sess *state.Session, page models.Page) render.View {
	v := render.View{Snapshot: sess.Snapshot()}
	if v.Snapshot == nil {
		return v
	}

	switch page {
	case models.PageEarn:
		v.Ads, v.AdsErr = c.backend.ListAds(ctx)
		if v.AdsErr != nil {
			log.Warn().Err(v.AdsErr).Str("sid", sess.ID()).Msg("load ads")
		}
	case models.PageHistory:
		if c.journal != nil {
			v.History, v.HistoryErr = c.journal.RecentActivity(ctx, v.Snapshot.User.TelegramID, c.opts.HistoryLimit)
			if v.HistoryErr != nil {
				log.Warn().Err(v.HistoryErr).Str("sid", sess.ID()).Msg("load history")
			}
		}
	}
	return v
}

func (c *Controller) safeRender(buf *bytes.Buffer, page models.Page, v render.View) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return c.renderer.Page(buf, page, v)
}
