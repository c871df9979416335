package main

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jwebster45206/mystery-engine/pkg/evidence"
	"github.com/jwebster45206/mystery-engine/pkg/session"
)

const PlaceHolderText = "Ask a question, or type /help for commands..."

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config   *ConsoleConfig
	client   *http.Client
	session  *session.State
	caseView *CaseView

	// Index into caseView.Suspects, -1 when no suspect is selected.
	currentSuspect int

	entries          []chatEntry
	evidence         []evidence.Record
	actionsRemaining int
	totalActions     int
	gameOver         bool

	chatViewport viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int
	err          error
	loading      bool

	// Case selection state
	showCaseModal bool
	cases         []string
	caseMap       map[string]string
	selectedCase  int
	loadingCases  bool

	// Quit confirmation state
	showQuitModal bool

	// Progress bar state
	progressTick int
}

// chatEntry is one displayed line of the investigation transcript.
type chatEntry struct {
	speaker string
	content string
	user    bool
	notice  bool // evidence discoveries, command output, verdicts
}

type casesLoadedMsg struct {
	cases   []string
	caseMap map[string]string
	err     error
}

type sessionCreatedMsg struct {
	session  *session.State
	caseView *CaseView
	err      error
}

type actionResultMsg struct {
	result  *ActionResult
	speaker string
	err     error
}

type solveResultMsg struct {
	result *SolveResponse
	err    error
}

type progressTickMsg struct{}

var (
	chatPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	speakerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // gold

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	modalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	modalSelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey
)

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 1000
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	chatVp := viewport.New(50, 20)
	chatVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		config:         cfg,
		client:         client,
		textarea:       ta,
		chatViewport:   chatVp,
		metaViewport:   metaVp,
		currentSuspect: -1,
		showCaseModal:  true,
		loadingCases:   true,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	if m.showCaseModal {
		return m.loadCases()
	}
	return textarea.Blink
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showCaseModal {
		return m.updateCaseModal(msg)
	}

	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.chatViewport, vpCmd = m.chatViewport.Update(msg)
		m.textarea, tiCmd = m.textarea.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(tiCmd, vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizePanels()
		m.ready = true
		m.writeChatContent()
		m.metaViewport.SetContent(m.writeMetadata())

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}

			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}

			if strings.HasPrefix(input, "/") {
				return m.handleCommand(input)
			}

			return m.submitQuestion(input)
		}

	case actionResultMsg:
		m.loading = false
		if msg.err != nil {
			m.appendNotice(errorStyle.Render("Error: " + msg.err.Error()))
		} else {
			m.applyActionResult(msg.result, msg.speaker)
		}
		m.writeChatContent()
		m.metaViewport.SetContent(m.writeMetadata())
		return m, nil

	case solveResultMsg:
		m.loading = false
		if msg.err != nil {
			m.appendNotice(errorStyle.Render("Error: " + msg.err.Error()))
		} else {
			m.applySolveResult(msg.result)
		}
		m.writeChatContent()
		m.metaViewport.SetContent(m.writeMetadata())
		return m, nil

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.writeChatContent()
			return m, progressTick()
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.chatViewport, vpCmd = m.chatViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

func (m *ConsoleUI) resizePanels() {
	chatWidth := int(float64(m.width)*0.72) - 4
	metaWidth := m.width - chatWidth - 6

	m.chatViewport.Width = chatWidth - 2
	m.chatViewport.Height = m.height - 7
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 4
	m.textarea.SetWidth(chatWidth - 4)
}

func (m *ConsoleUI) submitQuestion(input string) (tea.Model, tea.Cmd) {
	if m.gameOver {
		m.appendNotice("The investigation is over. Type /solve <suspect> if you have not accused anyone, or Ctrl+C to quit.")
		m.textarea.Reset()
		m.writeChatContent()
		return m, nil
	}
	if m.currentSuspect < 0 {
		m.appendNotice("Pick someone to question first: /talk <number or name> (see /suspects).")
		m.textarea.Reset()
		m.writeChatContent()
		return m, nil
	}

	suspect := m.caseView.Suspects[m.currentSuspect]
	m.textarea.Reset()
	m.loading = true
	m.progressTick = 0
	m.entries = append(m.entries, chatEntry{speaker: "You", content: input, user: true})
	m.writeChatContent()

	return m, tea.Batch(m.sendAsk(suspect, input), progressTick())
}

func (m *ConsoleUI) applyActionResult(result *ActionResult, speaker string) {
	m.actionsRemaining = result.ActionsRemaining
	m.gameOver = result.GameOver

	if result.Utterance != "" {
		m.entries = append(m.entries, chatEntry{speaker: speaker, content: result.Utterance})
	}
	if result.Evidence != nil {
		m.evidence = append(m.evidence, *result.Evidence)
		m.appendNotice(fmt.Sprintf("%s New evidence: %s. %s",
			result.Evidence.Marker, result.Evidence.Name, result.Evidence.Description))
	}
	if m.gameOver {
		m.appendNotice("You are out of actions. Make your accusation with /solve <suspect>.")
	}
}

func (m *ConsoleUI) applySolveResult(result *SolveResponse) {
	m.gameOver = true
	if result.Solved {
		m.appendNotice("CASE SOLVED. " + result.Killer + " is the killer.")
	} else {
		m.appendNotice("Wrong accusation. The killer was " + result.Killer + ".")
	}
	m.appendNotice("Motive: " + result.Motive)
	m.appendNotice("Method: " + result.Method)
}

func (m *ConsoleUI) appendNotice(text string) {
	m.entries = append(m.entries, chatEntry{content: text, notice: true})
}

func (m ConsoleUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	m.textarea.Reset()

	fields := strings.Fields(input)
	cmd := strings.ToLower(fields[0])
	arg := strings.TrimSpace(strings.TrimPrefix(input, fields[0]))

	switch cmd {
	case "/help":
		m.appendNotice(`Commands:
/suspects          - List the suspects
/talk <n or name>  - Choose who to question
/inspect <target>  - Inspect a location or object (costs an action)
/evidence          - Show collected evidence
/solve <n or name> - Make your final accusation (ends the game)
/copy              - Copy the session ID to the clipboard
Plain text is asked as a question to the selected suspect (costs an action).`)

	case "/suspects":
		var sb strings.Builder
		sb.WriteString("Suspects:\n")
		for i, s := range m.caseView.Suspects {
			marker := "  "
			if i == m.currentSuspect {
				marker = "▶ "
			}
			fmt.Fprintf(&sb, "%s%d. %s %s (%s)\n", marker, i+1, s.Emoji, s.Name, s.Title)
		}
		m.appendNotice(strings.TrimRight(sb.String(), "\n"))

	case "/talk":
		idx, err := m.resolveSuspect(arg)
		if err != nil {
			m.appendNotice(errorStyle.Render(err.Error()))
			break
		}
		m.currentSuspect = idx
		s := m.caseView.Suspects[idx]
		m.appendNotice(fmt.Sprintf("Now questioning %s %s, %s.", s.Emoji, s.Name, s.Title))

	case "/inspect":
		if arg == "" {
			m.appendNotice(errorStyle.Render("Usage: /inspect <location or object>"))
			break
		}
		if m.gameOver {
			m.appendNotice("The investigation is over.")
			break
		}
		m.loading = true
		m.progressTick = 0
		m.entries = append(m.entries, chatEntry{speaker: "You", content: "Inspect: " + arg, user: true})
		m.writeChatContent()
		m.metaViewport.SetContent(m.writeMetadata())
		return m, tea.Batch(m.sendInspect(arg), progressTick())

	case "/evidence":
		if len(m.evidence) == 0 {
			m.appendNotice("No evidence collected yet.")
			break
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "Evidence (%d/%d):\n", len(m.evidence), evidence.DefaultCapacity)
		for _, rec := range m.evidence {
			fmt.Fprintf(&sb, "%s %s - %s\n", rec.Marker, rec.Name, rec.Description)
		}
		m.appendNotice(strings.TrimRight(sb.String(), "\n"))

	case "/solve":
		idx, err := m.resolveSuspect(arg)
		if err != nil {
			m.appendNotice(errorStyle.Render(err.Error()))
			break
		}
		s := m.caseView.Suspects[idx]
		m.loading = true
		m.progressTick = 0
		m.entries = append(m.entries, chatEntry{speaker: "You", content: "I accuse " + s.Name + "!", user: true})
		m.writeChatContent()
		return m, tea.Batch(m.sendSolve(s), progressTick())

	case "/copy":
		if err := clipboard.WriteAll(m.session.ID.String()); err != nil {
			m.appendNotice(errorStyle.Render("Failed to copy session ID: " + err.Error()))
		} else {
			m.appendNotice("Session ID copied to clipboard.")
		}

	default:
		m.appendNotice(errorStyle.Render("Unknown command: " + cmd + " (try /help)"))
	}

	m.writeChatContent()
	return m, nil
}

// resolveSuspect accepts a 1-based number, a suspect ID, or a name fragment.
func (m *ConsoleUI) resolveSuspect(arg string) (int, error) {
	if arg == "" {
		return 0, fmt.Errorf("name a suspect (see /suspects)")
	}
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(m.caseView.Suspects) {
			return 0, fmt.Errorf("no suspect number %d", n)
		}
		return n - 1, nil
	}
	needle := strings.ToLower(arg)
	for i, s := range m.caseView.Suspects {
		if s.ID == needle || strings.Contains(strings.ToLower(s.Name), needle) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("no suspect matching %q", arg)
}

func (m ConsoleUI) sendAsk(suspect SuspectView, question string) tea.Cmd {
	return func() tea.Msg {
		result, err := askSuspect(m.client, m.config.APIBaseURL, m.session.ID, suspect.ID, question)
		return actionResultMsg{result: result, speaker: suspect.Name, err: err}
	}
}

func (m ConsoleUI) sendInspect(target string) tea.Cmd {
	return func() tea.Msg {
		result, err := inspectTarget(m.client, m.config.APIBaseURL, m.session.ID, target)
		return actionResultMsg{result: result, speaker: "Investigation", err: err}
	}
}

func (m ConsoleUI) sendSolve(suspect SuspectView) tea.Cmd {
	return func() tea.Msg {
		result, err := solveCase(m.client, m.config.APIBaseURL, m.session.ID, suspect.ID)
		return solveResultMsg{result: result, err: err}
	}
}

func (m ConsoleUI) loadCases() tea.Cmd {
	return func() tea.Msg {
		titles, caseMap, err := listCases(m.client, m.config.APIBaseURL)
		return casesLoadedMsg{titles, caseMap, err}
	}
}

func (m ConsoleUI) createSessionForCase(caseID string) tea.Cmd {
	return func() tea.Msg {
		s, err := createSession(m.client, m.config.APIBaseURL, caseID)
		if err != nil {
			return sessionCreatedMsg{err: err}
		}
		c, err := getCase(m.client, m.config.APIBaseURL, s.CaseID)
		if err != nil {
			return sessionCreatedMsg{err: err}
		}
		return sessionCreatedMsg{session: s, caseView: c}
	}
}

func (m *ConsoleUI) writeChatContent() {
	chatWidth := m.chatViewport.Width - 6

	var content strings.Builder
	if m.caseView != nil {
		content.WriteString(titleStyle.Render(strings.ToUpper(m.caseView.Title)) + "\n\n")
		content.WriteString(wordwrap.String(m.caseView.Description, chatWidth) + "\n\n")
		content.WriteString(separatorStyle.Render(strings.Repeat("─", max(chatWidth-6, 1))) + "\n\n")
	}

	for _, e := range m.entries {
		switch {
		case e.notice:
			content.WriteString(noticeStyle.Render(wordwrap.String(e.content, chatWidth)) + "\n\n")
		case e.user:
			content.WriteString(userStyle.Render(e.speaker+": ") + wordwrap.String(e.content, chatWidth-6) + "\n\n")
		default:
			content.WriteString(speakerStyle.Render(e.speaker+": ") + wordwrap.String(e.content, chatWidth-6) + "\n\n")
		}
	}

	if m.loading {
		content.WriteString(m.renderProgressBar())
	}

	m.chatViewport.SetContent(content.String())
	m.chatViewport.GotoBottom()
}

func (m *ConsoleUI) writeMetadata() string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("CASE FILE") + "\n\n")

	if m.session != nil {
		content.WriteString("Session:\n")
		content.WriteString(m.session.ID.String()[:8] + "...\n\n")
	}

	fmt.Fprintf(&content, "Actions:\n%d/%d remaining\n\n", m.actionsRemaining, m.totalActions)

	content.WriteString("Evidence:\n")
	if len(m.evidence) == 0 {
		content.WriteString("None yet\n")
	} else {
		for _, rec := range m.evidence {
			fmt.Fprintf(&content, "%s %s\n", rec.Marker, rec.Name)
		}
	}
	content.WriteString("\n")

	if m.caseView != nil {
		content.WriteString("Suspects:\n")
		for i, s := range m.caseView.Suspects {
			marker := "  "
			if i == m.currentSuspect {
				marker = "▶ "
			}
			fmt.Fprintf(&content, "%s%s %s\n", marker, s.Emoji, s.Name)
		}
		content.WriteString("\n")
	}

	content.WriteString("Commands:\n")
	content.WriteString("• /talk: Pick suspect\n")
	content.WriteString("• /inspect: Look around\n")
	content.WriteString("• /solve: Accuse\n")
	content.WriteString("• /help: All commands\n")
	content.WriteString("• Ctrl+C: Quit\n")

	return content.String()
}

func (m ConsoleUI) updateCaseModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case casesLoadedMsg:
		m.loadingCases = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.cases = msg.cases
			m.caseMap = msg.caseMap
		}

	case sessionCreatedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.session = msg.session
			m.caseView = msg.caseView
			m.actionsRemaining = msg.session.ActionsRemaining
			m.totalActions = msg.session.TotalActions
			m.showCaseModal = false
			if m.width > 0 && m.height > 0 {
				m.resizePanels()
			}
			m.appendNotice("A new investigation begins. Use /suspects to see who you can question.")
			m.writeChatContent()
			m.metaViewport.SetContent(m.writeMetadata())
			m.textarea.Focus()
			m.ready = true
		}
		return m, textarea.Blink

	case tea.KeyMsg:
		if m.loadingCases || m.err != nil {
			if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
				return m, tea.Quit
			}
			return m, nil
		}

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyUp:
			if m.selectedCase > 0 {
				m.selectedCase--
			}
		case tea.KeyDown:
			if m.selectedCase < len(m.cases)-1 {
				m.selectedCase++
			}
		case tea.KeyEnter:
			if len(m.cases) > 0 {
				caseID := m.caseMap[m.cases[m.selectedCase]]
				m.loading = true
				return m, m.createSessionForCase(caseID)
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				if !m.showCaseModal {
					m.textarea.Focus()
					return m, textarea.Blink
				}
				return m, nil
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Abandon Investigation?"))
	content.WriteString("\n\n")
	content.WriteString("Are you sure you want to quit? The session stays open for 24 hours.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderCaseModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder

	if m.loadingCases {
		content.WriteString(modalTitleStyle.Render("Loading Cases..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("Fetching the case catalog..."))
	} else if m.err != nil {
		content.WriteString(modalTitleStyle.Render("Error"))
		content.WriteString("\n\n")
		content.WriteString(errorStyle.Render(fmt.Sprintf("Failed to load cases: %v", m.err)))
		content.WriteString("\n\n")
		content.WriteString("Press Ctrl+C to exit")
	} else if m.loading {
		content.WriteString(modalTitleStyle.Render("Opening Case File..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("Setting up your investigation..."))
	} else {
		content.WriteString(modalTitleStyle.Render("Select a Case"))
		content.WriteString("\n\n")

		for i, title := range m.cases {
			if i == m.selectedCase {
				content.WriteString(modalSelectedItemStyle.Render(fmt.Sprintf("▶ %s", title)))
			} else {
				content.WriteString(modalItemStyle.Render(fmt.Sprintf("  %s", title)))
			}
			content.WriteString("\n")
		}

		content.WriteString("\n")
		content.WriteString(promptStyle.Render("Use ↑/↓ to navigate, Enter to select, Ctrl+C to exit"))
	}

	modal := modalStyle.Width(60).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showCaseModal {
		return m.renderCaseModal()
	}

	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	chatWidth := int(float64(m.width)*0.72) - 4
	metaWidth := m.width - chatWidth - 6

	chatPanel := chatPanelStyle.Width(chatWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.chatViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", max(chatWidth-4, 1))),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, chatPanel, metaPanel)
}

// renderProgressBar creates an animated progress bar for loading states
func (m ConsoleUI) renderProgressBar() string {
	usable := m.chatViewport.Width - 6
	if usable <= 0 {
		usable = 30
	}
	if usable > 80 {
		usable = 80
	} else if usable < 10 {
		usable = 10
	}

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		if i < filled {
			bar.WriteString("█")
		} else if i == filled && frame%4 < 2 {
			bar.WriteString("▓")
		} else {
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

// progressTick creates a command that sends a progress tick message
func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}
