package render

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gofiber/template/html/v2"

	"earn-dashboard/internal/models"
	"earn-dashboard/internal/views"
)

// Settings are the deployment values the pages show.
type Settings struct {
	BotUsername     string
	SupportUsername string
	MinWithdrawal   float64
	AdReward        float64
}

// View is everything a page needs. Earn and history inputs are fetched by the caller; a non-nil
// error there renders an inline error block instead of the list.
type View struct {
	Snapshot   *models.UserSnapshot
	Ads        []models.Ad
	AdsErr     error
	History    []models.Activity
	HistoryErr error
}

type pageData struct {
	models.UserSnapshot
	Settings

	Ads           []models.Ad
	AdsFailed     bool
	History       []models.Activity
	HistoryFailed bool
	ReferralLink  string
	BelowMinimum  bool
	Methods       []models.PaymentMethod
}

// Renderer turns a page name and view state into an HTML fragment. It does no I/O of its own.
type Renderer struct {
	engine   *html.Engine
	settings Settings
}

// NewEngine builds the template engine over the embedded views with the helper funcs registered.
func NewEngine() *html.Engine {
	engine := html.NewFileSystem(http.FS(views.FS), ".html")
	engine.AddFunc("money", models.FormatMoney)
	engine.AddFunc("activityLabel", ActivityLabel)
	engine.AddFunc("when", func(t time.Time) string { return t.Local().Format("02 Jan 2006 15:04") })
	return engine
}

func New(engine *html.Engine, settings Settings) *Renderer {
	return &Renderer{engine: engine, settings: settings}
}

func (r *Renderer) Settings() Settings { return r.settings }

// Page writes the fragment for page. Unknown pages and a missing snapshot produce nothing.
func (r *Renderer) Page(w io.Writer, page models.Page, v View) error {
	if _, ok := models.ParsePage(string(page)); !ok || v.Snapshot == nil {
		return nil
	}

	data := pageData{
		UserSnapshot:  *v.Snapshot,
		Settings:      r.settings,
		Ads:           v.Ads,
		AdsFailed:     v.AdsErr != nil,
		History:       v.History,
		HistoryFailed: v.HistoryErr != nil,
		ReferralLink:  ReferralLink(r.settings.BotUsername, v.Snapshot.User.TelegramID),
		BelowMinimum:  v.Snapshot.User.Balance < r.settings.MinWithdrawal,
		Methods:       models.PaymentMethods,
	}
	return r.engine.Render(w, "pages/"+string(page), data)
}

// ErrorFragment writes the generic "failed to load page" block.
func (r *Renderer) ErrorFragment(w io.Writer) error {
	return r.engine.Render(w, "partials/page_error", nil)
}

// ReferralLink is the only place the bot deep link is built.
func ReferralLink(botUsername string, telegramID int64) string {
	return fmt.Sprintf("https://t.me/%s?start=ref%d", botUsername, telegramID)
}

func ActivityLabel(a models.Activity) string {
	switch a.Kind {
	case models.ActivityAdView:
		return "📺 Ad watched"
	case models.ActivityWithdrawal:
		if a.Method != "" {
			return "💸 Withdrawal via " + methodLabel(a.Method)
		}
		return "💸 Withdrawal"
	default:
		return string(a.Kind)
	}
}

func methodLabel(code string) string {
	for _, m := range models.PaymentMethods {
		if m.Code == code {
			return m.Label
		}
	}
	return code
}

// Summary is the widget values the shell refreshes after an ad watch or a withdrawal.
func Summary(s *models.UserSnapshot) map[string]string {
	if s == nil {
		return nil
	}
	return map[string]string{
		"balance":           models.FormatMoney(s.User.Balance),
		"total_earned":      models.FormatMoney(s.User.TotalEarned),
		"today_earned":      models.FormatMoney(s.Stats.TodayEarned),
		"total_ads_watched": fmt.Sprint(s.User.TotalAdsWatched),
		"total_referrals":   fmt.Sprint(s.Stats.TotalReferrals),
		"active_referrals":  fmt.Sprint(s.Stats.ActiveReferrals),
	}
}
