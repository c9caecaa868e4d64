package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var tabs = []struct {
	label string
	views []ViewState
}{
	{"Search", []ViewState{SearchView}},
	{"Playlists", []ViewState{PlaylistsView, PlaylistDetailView}},
	{"Recent", []ViewState{RecentView}},
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case LoadingView:
		return styles.title.Render("soundx") + "\n" + styles.help.Render("Restoring session...")
	case AuthView:
		return m.renderAuth()
	}

	var body string
	switch m.view {
	case SearchView:
		body = m.renderSearch()
	case PlaylistsView:
		body = m.renderPlaylists()
	case PlaylistDetailView:
		body = m.detail.View()
	case RecentView:
		body = m.recent.View()
	}

	sections := []string{m.renderTabs(), body}
	if bar := m.renderPlayerBar(); bar != "" {
		sections = append(sections, bar)
	}
	if status := m.renderStatus(); status != "" {
		sections = append(sections, status)
	}
	sections = append(sections, m.renderHelp())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderAuth() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Sign in to soundx"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Email\n%s\n\nPassword\n%s\n", m.email.View(), m.password.View())
	if status := m.renderStatus(); status != "" {
		b.WriteString("\n" + status + "\n")
	}

	signIn := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "sign in"))
	field := key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch field"))
	b.WriteString("\n" + m.help.ShortHelpView([]key.Binding{signIn, m.keys.signUp, field, m.keys.forceQuit}))
	return b.String()
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(tabs)+1)
	for _, t := range tabs {
		style := styles.tab
		for _, v := range t.views {
			if v == m.view {
				style = styles.active
			}
		}
		parts = append(parts, style.Render(t.label))
	}
	if email := m.app.State.Session().Email(); email != "" {
		parts = append(parts, styles.help.Render("  "+email))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...) + "\n"
}

func (m *Model) renderSearch() string {
	return fmt.Sprintf("%s\n\n%s", m.query.View(), m.results.View())
}

func (m *Model) renderPlaylists() string {
	if m.typing {
		return fmt.Sprintf("New playlist: %s\n\n%s", m.name.View(), m.playlists.View())
	}
	return m.playlists.View()
}

// renderPlayerBar shows the loaded track; empty while idle.
func (m *Model) renderPlayerBar() string {
	current := m.app.Playback.Current()
	if !current.Loaded() {
		return ""
	}
	line := fmt.Sprintf("♪ %s — %s", current.Track.Title, current.Track.Artist)
	// leave room for the bar's padding
	if limit := m.width - 2; limit > 3 && runewidth.StringWidth(line) > limit {
		line = runewidth.Truncate(line, limit, "...")
	}
	return styles.bar.Render(line)
}

func (m *Model) renderStatus() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return styles.err.Render("Error: " + m.status)
	}
	return styles.ok.Render(m.status)
}

func (m *Model) renderHelp() string {
	var keys []key.Binding
	switch {
	case m.typing:
		keys = []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		}
	case m.view == SearchView:
		play := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play"))
		keys = []key.Binding{m.keys.search, play, m.keys.selectKey, m.keys.next, m.keys.signOut, m.keys.quit}
	case m.view == PlaylistsView:
		open := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open"))
		keys = []key.Binding{open, m.keys.create, m.keys.refresh, m.keys.next, m.keys.quit}
	case m.view == PlaylistDetailView:
		play := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play"))
		keys = []key.Binding{play, m.keys.add, m.keys.remove, m.keys.refresh, m.keys.back, m.keys.quit}
	case m.view == RecentView:
		play := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play again"))
		keys = []key.Binding{play, m.keys.refresh, m.keys.next, m.keys.quit}
	}
	return "\n" + m.help.ShortHelpView(keys)
}
