// Package render produces the admin HTML views from entity configurations.
// Markup is assembled with strings.Builder and escaped values; styling hooks
// are plain class names for the surrounding chrome.
package render

import (
	"fmt"
	"html"
	"strings"

	"backoffice/internal/service"
)

// NavLink is one entry of the navigation shell.
type NavLink struct {
	Href  string
	Label string
}

// Page wraps body markup in the admin layout shell.
func Page(title, body string, nav []NavLink) string {
	var b strings.Builder
	b.Grow(len(body) + 1024)

	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n")
	b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	b.WriteString("<title>")
	b.WriteString(html.EscapeString(title))
	b.WriteString(" · Admin</title>\n</head>\n<body class=\"admin\">\n")

	b.WriteString("<nav class=\"admin-nav\"><ul>\n")
	for _, link := range nav {
		b.WriteString("<li><a href=\"")
		b.WriteString(html.EscapeString(link.Href))
		b.WriteString("\">")
		b.WriteString(html.EscapeString(link.Label))
		b.WriteString("</a></li>\n")
	}
	b.WriteString("<li class=\"nav-logout\"><form method=\"POST\" action=\"/auth/logout\"><button type=\"submit\">Logout</button></form></li>\n")
	b.WriteString("</ul></nav>\n")

	b.WriteString("<main class=\"admin-content\">\n")
	b.WriteString(body)
	b.WriteString("\n</main>\n</body>\n</html>\n")
	return b.String()
}

// LoginPage renders the standalone login form, optionally with an error
// banner.
func LoginPage(errMsg string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n<title>Admin Login</title>\n</head>\n<body class=\"login\">\n")
	b.WriteString("<div class=\"login-card\">\n<h1>Admin Login</h1>\n")
	if errMsg != "" {
		b.WriteString("<div class=\"alert alert-error\">")
		b.WriteString(html.EscapeString(errMsg))
		b.WriteString("</div>\n")
	}
	b.WriteString("<form method=\"POST\">\n")
	b.WriteString("<label>Email<input type=\"email\" name=\"email\" required></label>\n")
	b.WriteString("<label>Password<input type=\"password\" name=\"password\" required></label>\n")
	b.WriteString("<button type=\"submit\">Sign In</button>\n")
	b.WriteString("</form>\n</div>\n</body>\n</html>\n")
	return b.String()
}

// Paginator renders prev/next controls and the page summary for a list view.
func Paginator(p service.Pagination, basePath string) string {
	if p.TotalPages <= 1 {
		return ""
	}

	var b strings.Builder
	b.WriteString("<div class=\"pagination\">\n")
	if p.Page > 1 {
		fmt.Fprintf(&b, "<a class=\"page-prev\" href=\"%s?page=%d&pageSize=%d\">Previous</a>\n",
			html.EscapeString(basePath), p.Page-1, p.PageSize)
	}
	fmt.Fprintf(&b, "<span class=\"page-info\">Page %d of %d (%d total)</span>\n", p.Page, p.TotalPages, p.Total)
	if p.Page < p.TotalPages {
		fmt.Fprintf(&b, "<a class=\"page-next\" href=\"%s?page=%d&pageSize=%d\">Next</a>\n",
			html.EscapeString(basePath), p.Page+1, p.PageSize)
	}
	b.WriteString("</div>\n")
	return b.String()
}

func alert(msg string) string {
	if msg == "" {
		return ""
	}
	return "<div class=\"alert alert-error\">" + html.EscapeString(msg) + "</div>\n"
}
