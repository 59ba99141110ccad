package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/cli/formatter"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newWeekCmd(a *App) *cobra.Command {
	var week *time.Time
	var static bool

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Browse the week's calendar",
		Long: `Browse the week's calendar.

In a terminal this opens an interactive view: left/right move between days,
n/p change week, t jumps back to this week and q quits. Elsewhere, or with
--static, the week is printed once.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			child, err := resolveChild(ctx, cmd, a)
			if err != nil {
				return err
			}
			start := domain.WeekStart(domain.CalendarDate(dateOr(week, a.now())))

			if static || !a.interactive() {
				v, err := loadWeekView(ctx, a, child, start)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatWeek(v))
				return nil
			}

			m := newWeekModel(ctx, a, child, start)
			p := tea.NewProgram(m,
				tea.WithAltScreen(),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			final, err := p.Run()
			if err != nil {
				return err
			}
			if wm, ok := final.(weekModel); ok && wm.err != nil {
				return wm.err
			}
			return nil
		},
	}

	dateFlag(cmd.Flags(), &week, "week", "Any date in the week to open (default this week)")
	cmd.Flags().BoolVar(&static, "static", false, "Print the week instead of opening the browser")

	return cmd
}

// loadWeekView gathers the capacity snapshot, blocks and sessions for one week.
func loadWeekView(ctx context.Context, a *App, child *domain.Child, weekStart time.Time) (formatter.WeekView, error) {
	now := a.now()
	wc, err := a.Capacity.GetWeeklyCapacity(ctx, app.CapacityRequest{Now: &now, ChildID: child.ID, WeekOf: &weekStart})
	if err != nil {
		return formatter.WeekView{}, err
	}
	blocks, err := a.Blocks.List(ctx, child.ID)
	if err != nil {
		return formatter.WeekView{}, err
	}
	sessions, err := a.Sessions.List(ctx, child.ID)
	if err != nil {
		return formatter.WeekView{}, err
	}
	names, err := topicNames(ctx, a)
	if err != nil {
		return formatter.WeekView{}, err
	}
	return formatter.WeekView{
		ChildName: child.Name,
		WeekStart: wc.WeekStart,
		Days:      wc.Days,
		Blocks:    blocks,
		Sessions:  sessions,
		Topics:    names,
	}, nil
}

// ── messages ─────────────────────────────────────────────────────────────────

type weekLoadedMsg struct {
	week time.Time
	view formatter.WeekView
	err  error
}

// ── keys ─────────────────────────────────────────────────────────────────────

type weekKeyMap struct {
	PrevDay  key.Binding
	NextDay  key.Binding
	PrevWeek key.Binding
	NextWeek key.Binding
	Today    key.Binding
	Quit     key.Binding
}

func defaultWeekKeys() weekKeyMap {
	return weekKeyMap{
		PrevDay:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "prev day")),
		NextDay:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "next day")),
		PrevWeek: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "prev week")),
		NextWeek: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next week")),
		Today:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "this week")),
		Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k weekKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PrevDay, k.NextDay, k.PrevWeek, k.NextWeek, k.Today, k.Quit}
}

// ── model ────────────────────────────────────────────────────────────────────

// weekModel browses one child's calendar a week at a time. Data is reloaded
// from the services on every week change.
type weekModel struct {
	ctx   context.Context
	app   *App
	child *domain.Child

	home   time.Time
	week   time.Time
	cursor domain.Weekday
	view   *formatter.WeekView
	err    error

	vp   viewport.Model
	keys weekKeyMap
}

func newWeekModel(ctx context.Context, a *App, child *domain.Child, weekStart time.Time) weekModel {
	cursor := domain.Monday
	today := domain.CalendarDate(a.now())
	if domain.WeekStart(today).Equal(weekStart) {
		cursor = domain.WeekdayOf(today)
	}
	return weekModel{
		ctx:    ctx,
		app:    a,
		child:  child,
		home:   weekStart,
		week:   weekStart,
		cursor: cursor,
		vp:     viewport.New(80, 24),
		keys:   defaultWeekKeys(),
	}
}

func (m weekModel) Init() tea.Cmd {
	return m.load()
}

func (m weekModel) load() tea.Cmd {
	week := m.week
	return func() tea.Msg {
		v, err := loadWeekView(m.ctx, m.app, m.child, week)
		return weekLoadedMsg{week: week, view: v, err: err}
	}
}

func (m weekModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.vp.Width = msg.Width
		m.vp.Height = max(1, msg.Height-2)
		m.refresh()
		return m, nil

	case weekLoadedMsg:
		if !msg.week.Equal(m.week) {
			return m, nil
		}
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		v := msg.view
		m.view = &v
		m.refresh()
		m.vp.GotoTop()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.PrevDay):
			if m.cursor > domain.Monday {
				m.cursor--
			}
			m.refresh()
			return m, nil
		case key.Matches(msg, m.keys.NextDay):
			if m.cursor < domain.Sunday {
				m.cursor++
			}
			m.refresh()
			return m, nil
		case key.Matches(msg, m.keys.PrevWeek):
			m.week = m.week.AddDate(0, 0, -7)
			return m, m.load()
		case key.Matches(msg, m.keys.NextWeek):
			m.week = m.week.AddDate(0, 0, 7)
			return m, m.load()
		case key.Matches(msg, m.keys.Today):
			if m.week.Equal(m.home) {
				return m, nil
			}
			m.week = m.home
			return m, m.load()
		}
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m *weekModel) refresh() {
	if m.view == nil {
		return
	}
	v := *m.view
	v.Cursor = m.cursor
	m.vp.SetContent(formatter.FormatWeek(v))
}

func (m weekModel) View() string {
	if m.err != nil {
		return formatter.StyleRed.Render("Error: "+m.err.Error()) + "\n"
	}
	if m.view == nil || !m.view.WeekStart.Equal(m.week) {
		return formatter.Dim("Loading week...") + "\n"
	}
	return m.vp.View() + "\n" + helpLine(m.keys.ShortHelp())
}

func helpLine(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, formatter.Bold(h.Key)+" "+formatter.Dim(h.Desc))
	}
	return strings.Join(parts, formatter.Dim(" · "))
}
