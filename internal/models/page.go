package models

// Page identifies one of the dashboard screens.
type Page string

const (
	PageDashboard Page = "dashboard"
	PageEarn      Page = "earn"
	PageReferrals Page = "referrals"
	PageWithdraw  Page = "withdraw"
	PageHistory   Page = "history"
	PageSupport   Page = "support"
)

// Pages is the navigation order.
var Pages = []Page{PageDashboard, PageEarn, PageReferrals, PageWithdraw, PageHistory, PageSupport}

var pageTitles = map[Page]string{
	PageDashboard: "Dashboard",
	PageEarn:      "Earn",
	PageReferrals: "Referrals",
	PageWithdraw:  "Withdraw",
	PageHistory:   "History",
	PageSupport:   "Support",
}

// ParsePage reports whether s names a known page. The returned value is the package constant,
// never a view of s.
func ParsePage(s string) (Page, bool) {
	for _, p := range Pages {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

func (p Page) Title() string {
	return pageTitles[p]
}
