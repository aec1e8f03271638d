package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"prize_wheel/internal/config"
	"prize_wheel/internal/domain"
	"prize_wheel/internal/logger"
	"prize_wheel/internal/loop"
	"prize_wheel/internal/render"
	"prize_wheel/internal/repository"
	"prize_wheel/internal/service"

	"github.com/gdamore/tcell/v2"
)

// statusObserver keeps the last event line for the status bar
type statusObserver struct {
	service.NopObserver
	last string
}

func (o *statusObserver) SpinResolved(s *service.Session, out domain.SpinOutcome) {
	o.last = fmt.Sprintf("spin #%d: %s (%s)", out.SpinID, out.Outcome.Label, out.Outcome.Kind)
}

type app struct {
	screen  tcell.Screen
	term    *render.Terminal
	engine  *loop.Loop
	wins    *service.RecentWins
	session *service.Session
	obs     *statusObserver
}

func main() {
	wallet := flag.String("wallet", "", "wallet identifier recorded with wins")
	statePath := flag.String("state", "data/state.json", "recent winners file, empty keeps them in memory")
	cataloguePath := flag.String("catalogue", "", "YAML segment list, empty uses the built-in wheel")
	logPath := flag.String("log", "", "write logs to this file")
	flag.Parse()

	var logOut io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintln(os.Stderr, "open log:", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logger.InitWriter(logOut, "debug", false)

	catalogue, err := config.LoadCatalogue(*cataloguePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "catalogue:", err)
		os.Exit(1)
	}

	var store repository.StateStore = repository.NewMemoryStore()
	if *statePath != "" {
		fs, err := repository.NewFileStore(*statePath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "state:", err)
			os.Exit(1)
		}
		store = fs
	}
	defer store.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer screen.Fini()

	ctx := context.Background()
	wins := service.NewRecentWins(store, "recentWins")
	wins.Load(ctx)

	engine := loop.New(nil)
	wheel := service.NewWheelService(ctx, engine, catalogue, wins, service.DefaultSessionConfig(), nil)

	a := &app{
		screen: screen,
		term:   render.NewTerminal(screen),
		engine: engine,
		wins:   wins,
		obs:    &statusObserver{last: "press g to open the gate"},
	}
	a.session = wheel.OpenSession(*wallet, a.term, a.obs)
	a.run()
}

func (a *app) run() {
	ticker := time.NewTicker(16 * time.Millisecond) // ~60 FPS
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			eventChan <- a.screen.PollEvent()
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !a.handleInput(ev) {
				return
			}
		case <-ticker.C:
			a.engine.Step()
			a.drawStatus()
			a.screen.Show()
		}
	}
}

func (a *app) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}
		switch ev.Rune() {
		case 'q':
			return false
		case 'g':
			a.session.SetSpinGate(true)
		case ' ':
			if !a.session.RequestSpin() {
				a.obs.last = "spin not available"
			}
		case 'r':
			a.session.Reset()
		}
	case *tcell.EventResize:
		a.screen.Sync()
		a.session.Redraw()
	}
	return true
}

func (a *app) drawStatus() {
	_, rows := a.screen.Size()
	snap := a.session.Snapshot()

	gate := "closed"
	if snap.CanSpin {
		gate = "open"
	}
	state := fmt.Sprintf("phase=%s gate=%s spins=%d", snap.Phase, gate, snap.SpinCount)
	if snap.Effects.Celebration {
		state += "  *** WINNER ***"
	}
	if snap.Effects.Loss {
		state += "  better luck next time"
	}

	recent := make([]string, 0, domain.RecentWinsLimit)
	for _, w := range a.wins.Entries() {
		recent = append(recent, w.WalletShort+" "+w.Prize)
	}

	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	a.line(rows-4, "recent: "+strings.Join(recent, " | "), style)
	a.line(rows-3, state, style)
	a.line(rows-2, a.obs.last, style.Bold(true))
	a.line(rows-1, "g gate  space spin  r reset  q quit", style.Dim(true))
}

// line pads text to the screen width so shorter text clears the previous one
func (a *app) line(row int, text string, style tcell.Style) {
	cols, _ := a.screen.Size()
	if n := cols - len([]rune(text)); n > 0 {
		text += strings.Repeat(" ", n)
	}
	a.term.Status(row, text, style)
}
