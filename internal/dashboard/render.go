package dashboard

import (
	"io"

	"github.com/spec-kit/support-admin/internal/domain"
)

const templateName = "admin"

type userRow struct {
	domain.UserProfile
	BadgeClass string
}

type page struct {
	Title           string
	Operator        *domain.UserProfile
	Tab             Tab
	Users           []userRow
	Form            domain.SupportGroupForm
	CapacityInput   string
	Notice          *Notice
	ScreenPath      string
	CreateGroupPath string
	LogoutPath      string
}

// TabClass returns the button styling for tab name.
func (p page) TabClass(name string) string {
	if Tab(name) == p.Tab {
		return "bg-purple-600 text-white"
	}
	return "bg-white text-gray-600 hover:bg-purple-50"
}

func badgeClass(role domain.Role) string {
	if role == domain.RoleAdmin {
		return "bg-purple-100 text-purple-800"
	}
	return "bg-green-100 text-green-800"
}

// Render writes the screen's HTML to w.
func (s *Screen) Render(w io.Writer) error {
	return s.renderer.Render(w, templateName, s.page())
}

func (s *Screen) page() page {
	rows := make([]userRow, 0, len(s.users))
	for _, u := range s.users {
		rows = append(rows, userRow{UserProfile: u, BadgeClass: badgeClass(u.Role)})
	}
	return page{
		Title:           s.title,
		Operator:        s.operator,
		Tab:             s.tab,
		Users:           rows,
		Form:            s.form,
		CapacityInput:   s.CapacityInput(),
		Notice:          s.notice,
		ScreenPath:      s.paths.Screen,
		CreateGroupPath: s.paths.CreateGroup,
		LogoutPath:      s.paths.Logout,
	}
}
