// Package tray provides a system tray interface for controlling the
// rps-vision live detection session.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle func(live bool)
	onOpenUI func()
	onQuit   func()
	live     bool
	mu       sync.RWMutex

	// Menu items stored for later updates
	menuToggle    *systray.MenuItem
	menuLastClass *systray.MenuItem
}

// New creates a new Tray instance with live capture off.
func New() *Tray {
	return &Tray{}
}

// OnToggle sets the callback function to be called when live capture is toggled.
func (t *Tray) OnToggle(fn func(live bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnOpenUI sets the callback function to be called when the open-UI menu item is clicked.
func (t *Tray) OnOpenUI(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpenUI = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("RPS Vision")
	systray.SetTooltip("RPS Vision live detection")

	t.menuToggle = systray.AddMenuItem("○ Live off", "Toggle live detection")
	systray.AddSeparator()

	t.menuLastClass = systray.AddMenuItem("Last: none", "Last detected class")
	t.menuLastClass.Disable()
	systray.AddSeparator()

	menuOpenUI := systray.AddMenuItem("Open UI...", "Open the browser UI")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit RPS Vision")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuOpenUI.ClickedCh:
				t.handleOpenUI()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {
	// Cleanup resources if needed
}

// handleToggle handles the toggle menu item click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.live = !t.live
	live := t.live

	if live {
		t.menuToggle.SetTitle("● Live on")
	} else {
		t.menuToggle.SetTitle("○ Live off")
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(live)
	}
}

// handleOpenUI handles the open-UI menu item click.
func (t *Tray) handleOpenUI() {
	t.mu.RLock()
	callback := t.onOpenUI
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetLastClass updates the last detected class display in the menu.
func (t *Tray) SetLastClass(name string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuLastClass != nil {
		if name == "" {
			t.menuLastClass.SetTitle("Last: none")
		} else {
			t.menuLastClass.SetTitle("Last: " + name)
		}
	}
}

// IsLive returns whether the tray believes live capture is on.
func (t *Tray) IsLive() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.live
}
