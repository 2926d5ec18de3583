// Package notify surfaces session and goal notifications to the desktop.
package notify

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/gen2brain/beeep"
	"github.com/pterm/pterm"
)

// Notifier reports session outcomes to the user. Exactly one of its
// methods is invoked per completed session.
type Notifier interface {
	SessionComplete(minutes float64)
	GoalComplete()
}

var sessionMessages = []string{
	"Great! You just read for %d minutes. Keep it up!",
	"Excellent session! %d minutes of focused reading.",
	"Well done! You're building a great reading habit.",
	"Amazing! Another %d minutes towards your goal.",
}

// Desktop sends notifications through the system notification daemon.
type Desktop struct {
	enabled bool
}

// NewDesktop returns a Desktop notifier. When enabled is false, all
// notifications are suppressed.
func NewDesktop(enabled bool) *Desktop {
	return &Desktop{enabled: enabled}
}

func (d *Desktop) SessionComplete(minutes float64) {
	if !d.enabled {
		return
	}

	mins := int(math.Floor(minutes))

	msg := sessionMessages[rand.Intn(len(sessionMessages))]
	if n := countVerbs(msg); n > 0 {
		msg = fmt.Sprintf(msg, mins)
	}

	err := beeep.Notify("Reading session complete", msg, "")
	if err != nil {
		pterm.Error.Printfln("unable to display notification: %v", err)
	}
}

func (d *Desktop) GoalComplete() {
	if !d.enabled {
		return
	}

	err := beeep.Notify(
		"Daily goal reached",
		"Congratulations! You've reached your daily reading goal!",
		"",
	)
	if err != nil {
		pterm.Error.Printfln("unable to display notification: %v", err)
	}
}

func countVerbs(s string) int {
	var n int

	for i := 0; i < len(s)-1; i++ {
		if s[i] == '%' && s[i+1] == 'd' {
			n++
		}
	}

	return n
}
