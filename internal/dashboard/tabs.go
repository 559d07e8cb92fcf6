package dashboard

// Tab selects the visible pane.
type Tab string

const (
	TabUsers  Tab = "users"
	TabGroups Tab = "groups"
)

// ParseTab maps a query value to a Tab, defaulting to users.
func ParseTab(v string) Tab {
	if Tab(v) == TabGroups {
		return TabGroups
	}
	return TabUsers
}

// SelectTab switches the visible pane.
func (s *Screen) SelectTab(t Tab) {
	s.tab = ParseTab(string(t))
}

// ActiveTab returns the visible pane.
func (s *Screen) ActiveTab() Tab {
	return s.tab
}
