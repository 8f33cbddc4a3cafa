package monitor

// Key bindings as constants for consistency.
const (
	KeyQuit        = "q"
	KeyQuitAlt     = "ctrl+c"
	KeyRefresh     = "r"
	KeyRefreshAlt  = "enter"
	KeySelectPrev  = "up"
	KeySelectPrevK = "k"
	KeySelectNext  = "down"
	KeySelectNextJ = "j"
	KeyToggleHelp  = "?"
)

// helpText lists the bindings shown in the footer.
const helpText = "↑/↓ select • r refresh • ? help • q quit"

// helpLong is shown when help is toggled on.
var helpLong = []string{
	"up/k       select previous category",
	"down/j     select next category",
	"r/enter    refresh the selected category",
	"?          toggle this help",
	"q/ctrl+c   quit",
	"",
	"A refresh is refused while another one runs anywhere, and each",
	"category can only be refreshed once per cooldown window.",
}
