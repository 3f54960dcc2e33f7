package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/chatmock/internal/attachment"
	"github.com/matheus3301/chatmock/internal/bus"
	"github.com/matheus3301/chatmock/internal/chat"
	"github.com/matheus3301/chatmock/internal/session"
	"github.com/matheus3301/chatmock/internal/status"
	"github.com/matheus3301/chatmock/internal/tui/keys"
	"github.com/matheus3301/chatmock/internal/tui/model"
	"github.com/matheus3301/chatmock/internal/tui/ui"
	"github.com/matheus3301/chatmock/internal/tui/views"
	"github.com/rivo/tview"
	"go.uber.org/zap"
)

// Page names on the navigation stack.
const (
	pageChats   = "Conversations"
	pageThread  = "Thread"
	pageDetails = "Details"
	pageHelp    = "Help"
	pageSearch  = "Search"
	pageLogin   = "Login"
	pageAdd     = "Add Contact"
	pageProfile = "Profile"
)

// Deps are the stores and services the UI reads from and acts on.
type Deps struct {
	Workspace string
	Session   *session.Store
	Chats     *chat.Store
	Resolver  *attachment.Resolver
	Bus       *bus.Bus
	Logger    *zap.Logger
}

// App is the main TUI application shell.
type App struct {
	app      *tview.Application
	theme    *ui.Theme
	vm       *model.ViewModel
	bus      *bus.Bus
	logger   *zap.Logger
	registry *keys.Registry

	root     *tview.Flex
	header   *tview.Flex
	pages    *ui.Pages
	crumbs   *ui.Crumbs
	menu     *ui.Menu
	info     *ui.SessionInfo
	flashBar *ui.FlashBar
	prompt   *ui.Prompt

	prompting bool

	chatList   *views.ConversationList
	thread     *views.MessageThread
	details    *views.ConversationInfo
	help       *views.HelpView
	search     *views.SearchView
	login      *views.LoginView
	addContact *views.AddContactView
	profile    *views.ProfileView
	components map[string]ui.Component

	ctx    context.Context
	cancel context.CancelFunc
}

// NewApp creates the TUI application. Nothing touches the terminal until Run.
func NewApp(d Deps) *App {
	ctx, cancel := context.WithCancel(context.Background())
	theme := ui.DefaultTheme()
	draft := attachment.NewDraft(d.Resolver, d.Bus, d.Logger)

	a := &App{
		app:        tview.NewApplication(),
		theme:      theme,
		vm:         model.NewViewModel(ctx, d.Workspace, d.Session, d.Chats, d.Resolver, draft),
		bus:        d.Bus,
		logger:     d.Logger,
		registry:   keys.NewRegistry(),
		pages:      ui.NewPages(),
		crumbs:     ui.NewCrumbs(theme),
		menu:       ui.NewMenu(theme),
		info:       ui.NewSessionInfo(theme),
		flashBar:   ui.NewFlashBar(theme),
		prompt:     ui.NewPrompt(theme),
		chatList:   views.NewConversationList(theme),
		thread:     views.NewMessageThread(theme),
		details:    views.NewConversationInfo(theme),
		help:       views.NewHelpView(theme),
		search:     views.NewSearchView(theme),
		login:      views.NewLoginView(theme),
		addContact: views.NewAddContactView(theme),
		profile:    views.NewProfileView(theme),
		ctx:        ctx,
		cancel:     cancel,
	}

	a.components = map[string]ui.Component{
		pageChats:   a.chatList,
		pageThread:  a.thread,
		pageDetails: a.details,
		pageHelp:    a.help,
		pageSearch:  a.search,
		pageLogin:   a.login,
		pageAdd:     a.addContact,
		pageProfile: a.profile,
	}
	for _, c := range a.components {
		c.Init()
	}
	a.crumbs.SetWorkspace(d.Workspace)

	a.setupBindings()
	a.setupCallbacks()
	a.setupLayout()

	return a
}

// Warn shows a warning in the flash bar.
func (a *App) Warn(msg string) {
	a.vm.Flash.Warn(msg)
}

func (a *App) setupBindings() {
	key := func(name string, r rune, desc string, visible bool, fn func()) *keys.Action {
		return &keys.Action{Name: name, Key: tcell.KeyRune, Rune: r, Label: string(r), Description: desc, Visible: visible, Handler: fn}
	}

	a.registry.AddGlobal(key("command", ':', "Command", true, func() { a.activatePrompt(ui.PromptCommand) }))
	a.registry.AddGlobal(key("search", 's', "Search", true, a.showSearch))
	a.registry.AddGlobal(key("add", 'a', "Add contact", false, a.showAddContact))
	a.registry.AddGlobal(key("profile", 'p', "Profile", false, a.showProfile))
	a.registry.AddGlobal(key("help", '?', "Help", true, func() { a.push(pageHelp) }))
	a.registry.AddGlobal(key("quit", 'q', "Quit", true, a.back))
	a.registry.AddGlobal(&keys.Action{Name: "back", Key: tcell.KeyEscape, Label: "Esc", Description: "Back", Handler: func() {
		if a.pages.Depth() > 1 {
			a.pop()
			return
		}
		a.chatList.ClearFilter()
	}})

	a.registry.AddView(pageChats, key("filter", '/', "Filter", false, func() { a.activatePrompt(ui.PromptFilter) }))
	a.registry.AddView(pageChats, key("all", '0', "Show all", false, func() {
		a.chatList.ClearFilter()
	}))
	for n := 1; n <= 9; n++ {
		a.registry.AddView(pageChats, key(fmt.Sprintf("jump%d", n), rune('0'+n), "Jump", false, func() {
			if id := a.chatList.ChatByIndex(n); id != "" {
				a.openChat(id)
			}
		}))
	}

	a.registry.AddView(pageThread, key("compose", 'i', "Compose", false, func() {
		a.app.SetFocus(a.thread.Composer())
	}))
	a.registry.AddView(pageThread, key("details", 'd', "Details", false, a.showDetails))
}

func (a *App) setupCallbacks() {
	a.pages.SetOnChange(func(stack []string) {
		trail := make([]ui.Crumb, len(stack))
		for i, p := range stack {
			trail[i] = ui.Crumb{Title: a.components[p].Name(), Dialog: a.pages.IsDialog(p)}
		}
		a.crumbs.Update(trail)
		a.updateMenu()
	})

	a.chatList.SetSelectedFunc(func(row, _ int) {
		if id := a.chatList.ChatByIndex(row); id != "" {
			a.openChat(id)
		}
	})

	a.thread.SetOnSend(a.send)

	a.search.SetOnQuery(func(query string) {
		results := a.vm.Search(query)
		a.search.Update(results)
		if len(results) == 0 {
			a.vm.Flash.Info(fmt.Sprintf("No messages match %q", query))
			return
		}
		a.app.SetFocus(a.search.Results())
	})
	a.search.Results().SetSelectedFunc(func(int, int) {
		chatID, _ := a.search.SelectedResult()
		if chatID != "" {
			a.pages.Pop()
			a.openChat(chatID)
		}
	})

	a.login.SetOnLogin(func(name string) error {
		u, err := a.vm.Login(name)
		if err != nil {
			return err
		}
		a.logger.Info("signed in from ui", zap.String("code", u.Code))
		a.showMain()
		a.vm.Flash.Info(fmt.Sprintf("Welcome, %s! Your contact code is %s", u.Name, u.Code))
		return nil
	})

	a.addContact.SetOnAdd(func(code string) error {
		c, err := a.vm.AddContact(code)
		if err != nil {
			return err
		}
		a.pop()
		a.vm.Flash.Info("Added " + c.Name)
		a.openChat(c.ID)
		return nil
	})
	a.addContact.SetOnCancel(a.pop)

	a.profile.SetOnSave(a.saveProfile)
	a.profile.SetOnCancel(a.pop)
	a.profile.SetOnLogout(a.logout)

	a.prompt.SetOnSubmit(func(mode ui.PromptMode, text string) {
		a.hidePrompt()
		switch mode {
		case ui.PromptCommand:
			a.runCommand(ParseCommand(text))
		case ui.PromptFilter:
			a.chatList.SetFilter(text)
		case ui.PromptAttach:
			a.attach(text)
		}
	})
	a.prompt.SetOnCancel(a.hidePrompt)
}

func (a *App) setupLayout() {
	a.pages.AddPage(pageChats, a.chatList, true, false)
	a.pages.AddPage(pageThread, a.thread, true, false)
	a.pages.AddPage(pageDetails, a.details, true, false)
	a.pages.AddPage(pageHelp, a.help, true, false)
	a.pages.AddPage(pageSearch, a.search, true, false)
	a.pages.AddDialog(pageLogin, a.login)
	a.pages.AddDialog(pageAdd, a.addContact)
	a.pages.AddDialog(pageProfile, a.profile)

	a.header = tview.NewFlex().
		AddItem(a.info, 0, 1, false).
		AddItem(a.menu, 0, 1, false).
		AddItem(ui.NewLogo(a.theme), 18, 0, false)
	a.root = tview.NewFlex().SetDirection(tview.FlexRow)
	a.layout()
	a.app.SetRoot(a.root, true)

	a.app.SetInputCapture(a.handleKey)
}

func (a *App) layout() {
	a.root.Clear()
	a.root.AddItem(a.header, 7, 0, false)
	if a.prompting {
		a.root.AddItem(a.prompt, 3, 0, true)
	}
	a.root.AddItem(a.pages, 0, 1, !a.prompting)
	a.root.AddItem(a.crumbs, 1, 0, false)
	a.root.AddItem(a.flashBar, 1, 0, false)
}

func (a *App) handleKey(event *tcell.EventKey) *tcell.EventKey {
	current := a.pages.Current()

	if a.prompting {
		return event
	}

	if d, ok := a.pages.TopDialog(); ok {
		if event.Key() == tcell.KeyEscape && d.Dismissable() {
			a.pop()
			return nil
		}
		return event
	}

	switch current {
	case pageThread:
		switch event.Key() {
		case tcell.KeyCtrlA:
			a.activatePrompt(ui.PromptAttach)
			return nil
		case tcell.KeyCtrlX:
			a.vm.ClearAttachment()
			a.thread.SetDraft(a.vm.Draft.State())
			return nil
		case tcell.KeyEscape:
			if a.app.GetFocus() == a.thread.Composer() {
				a.app.SetFocus(a.thread.Messages())
				return nil
			}
		}
	}

	// Text inputs keep their keys.
	if _, ok := a.app.GetFocus().(*tview.InputField); ok {
		if current == pageSearch && event.Key() == tcell.KeyTab {
			a.app.SetFocus(a.search.Results())
			return nil
		}
		if event.Key() != tcell.KeyEscape {
			return event
		}
	}

	if a.registry.HandleEvent(current, event) {
		return nil
	}
	return event
}

func (a *App) updateMenu() {
	var hints []ui.MenuHint
	if c, ok := a.components[a.pages.Current()]; ok {
		hints = append(hints, c.Hints()...)
	}
	if !a.pages.IsDialog(a.pages.Current()) {
		hints = append(hints, a.registry.Hints("")...)
	}
	a.menu.Update(hints)
}

// push shows page on top of the stack and focuses it.
func (a *App) push(page string) {
	if a.pages.Current() == page {
		return
	}
	a.pages.Push(page)
	a.components[page].Start()
	a.focusCurrent()
}

// pop closes the top page, never leaving the stack empty.
func (a *App) pop() {
	if a.pages.Depth() <= 1 {
		return
	}
	if c, ok := a.components[a.pages.Pop()]; ok {
		c.Stop()
	}
	a.refresh()
	a.focusCurrent()
}

// back pops one page, quitting from the root page.
func (a *App) back() {
	if a.pages.Depth() <= 1 {
		a.Stop()
		return
	}
	a.pop()
}

func (a *App) reset(page string) {
	for _, p := range a.pages.Stack() {
		a.components[p].Stop()
	}
	a.pages.Reset(page)
	a.components[page].Start()
	a.focusCurrent()
}

func (a *App) focusCurrent() {
	switch a.pages.Current() {
	case pageChats:
		a.app.SetFocus(a.chatList)
	case pageThread:
		a.app.SetFocus(a.thread.Messages())
	case pageSearch:
		a.app.SetFocus(a.search.Input())
	case pageLogin:
		a.app.SetFocus(a.login.Form)
	case pageAdd:
		a.app.SetFocus(a.addContact.Form)
	case pageProfile:
		a.app.SetFocus(a.profile.Form)
	case pageDetails:
		a.app.SetFocus(a.details)
	case pageHelp:
		a.app.SetFocus(a.help)
	}
}

func (a *App) activatePrompt(mode ui.PromptMode) {
	if mode == ui.PromptAttach && a.thread.ChatID() == "" {
		a.vm.Flash.Warn(chat.ErrNoActiveChat.Error())
		return
	}
	a.prompt.Activate(mode)
	a.prompting = true
	a.layout()
	a.app.SetFocus(a.prompt)
}

func (a *App) hidePrompt() {
	a.prompting = false
	a.layout()
	a.focusCurrent()
}

func (a *App) showMain() {
	a.reset(pageChats)
	a.refresh()
}

func (a *App) showLogin() {
	if a.pages.Current() == pageLogin && a.pages.Depth() == 1 {
		return
	}
	a.login.Reset()
	a.reset(pageLogin)
	a.refresh()
}

func (a *App) signedIn() bool {
	return a.vm.Session.Status() == status.SignedIn
}

func (a *App) openChat(id string) {
	if !a.signedIn() {
		return
	}
	if c, ok := a.vm.OpenChat(id); ok {
		a.thread.Update(c)
	} else {
		a.thread.ShowPlaceholder()
	}
	a.thread.SetDraft(a.vm.Draft.State())
	for _, p := range a.pages.PopToRoot() {
		a.components[p].Stop()
	}
	a.push(pageThread)
	a.refresh()
}

func (a *App) showDetails() {
	c, ok := a.vm.Chats.Active()
	if !ok {
		a.vm.Flash.Warn(chat.ErrNoActiveChat.Error())
		return
	}
	a.details.Update(c)
	a.push(pageDetails)
}

func (a *App) showSearch() {
	if !a.signedIn() {
		return
	}
	a.push(pageSearch)
}

func (a *App) showAddContact() {
	if !a.signedIn() {
		return
	}
	a.addContact.Reset()
	a.push(pageAdd)
}

func (a *App) showProfile() {
	u, ok := a.vm.Session.Current()
	if !ok {
		return
	}
	a.profile.Update(u)
	a.push(pageProfile)
}

func (a *App) send(text string) bool {
	_, err := a.vm.Send(text)
	switch {
	case err == nil:
		a.thread.SetDraft(a.vm.Draft.State())
		return true
	case errors.Is(err, chat.ErrEmptyMessage):
		return false
	case errors.Is(err, model.ErrAttachmentPending):
		a.vm.Flash.Warn("Wait for the attachment to finish loading")
		return false
	default:
		a.vm.Flash.Err(err)
		return false
	}
}

func (a *App) attach(path string) {
	if err := a.vm.Attach(path); err != nil {
		a.vm.Flash.Err(err)
		return
	}
	a.thread.SetDraft(a.vm.Draft.State())
}

func (a *App) saveProfile(name, avatar string) {
	a.profile.SetBusy(true)
	go func() {
		u, err := a.vm.UpdateProfile(name, avatar)
		a.app.QueueUpdateDraw(func() {
			a.profile.SetBusy(false)
			if err != nil {
				a.profile.SetError(err)
				return
			}
			if a.pages.Current() == pageProfile {
				a.pop()
			}
			a.vm.Flash.Info("Profile updated: " + u.Name)
		})
	}()
}

func (a *App) logout() {
	if err := a.vm.Logout(); err != nil {
		a.vm.Flash.Err(err)
		return
	}
	a.showLogin()
	a.vm.Flash.Info("Signed out")
}

func (a *App) runCommand(cmd Command) {
	switch cmd.Name {
	case "add":
		if cmd.Args == "" {
			a.showAddContact()
			return
		}
		if !a.signedIn() {
			return
		}
		c, err := a.vm.AddContact(cmd.Args)
		if err != nil {
			a.vm.Flash.Err(err)
			return
		}
		a.vm.Flash.Info("Added " + c.Name)
		a.openChat(c.ID)
	case "chat":
		c, ok := a.vm.ChatByName(cmd.Args)
		if !ok {
			a.vm.Flash.Warn(fmt.Sprintf("No chat matches %q", cmd.Args))
			return
		}
		a.openChat(c.ID)
	case "search":
		a.showSearch()
		if cmd.Args != "" {
			a.search.SetQuery(cmd.Args)
			a.search.Update(a.vm.Search(cmd.Args))
			a.app.SetFocus(a.search.Results())
		}
	case "attach":
		if a.thread.ChatID() == "" {
			a.vm.Flash.Warn(chat.ErrNoActiveChat.Error())
			return
		}
		if cmd.Args == "" {
			a.activatePrompt(ui.PromptAttach)
			return
		}
		a.attach(cmd.Args)
	case "save":
		path, err := a.vm.SaveAttachment(cmd.Args)
		if err != nil {
			a.vm.Flash.Err(err)
			return
		}
		a.vm.Flash.Info("Saved to " + path)
	case "profile":
		a.showProfile()
	case "logout":
		a.logout()
	case "help":
		a.push(pageHelp)
	case "quit":
		a.Stop()
	case "":
	default:
		a.vm.Flash.Warn(fmt.Sprintf("Unknown command: %s", cmd.Name))
	}
}

// refresh re-renders everything that reads from the stores.
func (a *App) refresh() {
	a.info.Update(a.vm.SessionData())
	a.chatList.Update(a.vm.Chats.Chats())
	if a.pages.Current() == pageThread {
		if c, ok := a.vm.Chats.Active(); ok {
			a.thread.Update(c)
		} else {
			a.thread.ShowPlaceholder()
		}
	}
	a.thread.SetDraft(a.vm.Draft.State())
	a.updateMenu()
}

// handleEvent runs on the UI goroutine for every bus event.
func (a *App) handleEvent(evt bus.Event) {
	switch evt.Kind {
	case bus.SessionStatusChanged:
		if sc, ok := evt.Payload.(status.StatusChange); ok {
			if sc.To == status.SignedOut {
				a.showLogin()
			} else if sc.To == status.SignedIn && a.pages.Current() == pageLogin {
				a.showMain()
			}
		}
	case bus.AttachmentFailed:
		if f, ok := evt.Payload.(attachment.Failed); ok {
			a.vm.Flash.Err(fmt.Errorf("%s: %w", f.Name, f.Err))
		}
	}
	a.refresh()
}

// Run starts the TUI application and blocks until it exits.
func (a *App) Run() error {
	events, unsub := a.bus.Subscribe("", 64)
	defer unsub()

	go func() {
		for {
			select {
			case evt := <-events:
				a.app.QueueUpdateDraw(func() { a.handleEvent(evt) })
			case msg := <-a.vm.Flash.Watch():
				a.app.QueueUpdateDraw(func() { a.flashBar.Update(&msg) })
			case <-a.ctx.Done():
				return
			}
		}
	}()
	a.startRefreshLoop()

	if a.signedIn() {
		a.showMain()
	} else {
		a.showLogin()
	}
	a.flashBar.Update(a.vm.Flash.GetMessage())

	a.logger.Info("tui started")
	err := a.app.Run()
	a.cancel()
	a.logger.Info("tui stopped")
	return err
}

func (a *App) startRefreshLoop() {
	ticker := time.NewTicker(time.Second)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				a.app.QueueUpdateDraw(func() {
					a.flashBar.Update(a.vm.Flash.GetMessage())
					a.info.Update(a.vm.SessionData())
				})
			case <-a.ctx.Done():
				return
			}
		}
	}()
}

// Stop gracefully shuts down the TUI.
func (a *App) Stop() {
	a.cancel()
	a.vm.Draft.Clear()
	a.app.Stop()
}
